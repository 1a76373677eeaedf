package provider

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"anigo/internal/httputil"
)

func envelopeFixture(t *testing.T, filename string) []byte {
	t.Helper()
	html, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	body, err := json.Marshal(map[string]string{"status": "success", "content": string(html)})
	if err != nil {
		t.Fatalf("encoding envelope: %v", err)
	}
	return body
}

func TestAnimeGoPlayers(t *testing.T) {
	body := envelopeFixture(t, "player.html")

	var got *httputil.Request
	fetcher := httputil.FetcherFunc(func(_ context.Context, req *httputil.Request) (*httputil.Response, error) {
		got = req
		return &httputil.Response{StatusCode: 200, Body: body}, nil
	})

	ag := NewAnimeGo("https://animego.me/", fetcher)
	catalog, err := ag.Players(context.Background(), "https://animego.me/anime/vanpanchmen-2380")
	if err != nil {
		t.Fatalf("Players: %v", err)
	}

	if got.URL != "https://animego.me/anime/2380/player" {
		t.Errorf("URL = %q", got.URL)
	}
	if got.Header.Get("X-Requested-With") != "XMLHttpRequest" {
		t.Errorf("X-Requested-With = %q", got.Header.Get("X-Requested-With"))
	}
	if got.Header.Get("Referer") != "https://animego.me" {
		t.Errorf("Referer = %q", got.Header.Get("Referer"))
	}
	if len(catalog.Groups) != 3 {
		t.Errorf("expected 3 groups, got %d", len(catalog.Groups))
	}
}

func TestAnimeGoPlayersInvalidID(t *testing.T) {
	called := false
	fetcher := httputil.FetcherFunc(func(context.Context, *httputil.Request) (*httputil.Response, error) {
		called = true
		return nil, errors.New("unreachable")
	})

	_, err := NewAnimeGo("", fetcher).Players(context.Background(), "../../etc/passwd")
	if err == nil {
		t.Fatal("expected error for invalid id")
	}
	if called {
		t.Error("fetcher called for invalid id")
	}
}

func TestAnimeGoPlayersTransportError(t *testing.T) {
	transportErr := &httputil.StatusError{URL: "https://animego.me/anime/1/player", StatusCode: 503}
	fetcher := httputil.FetcherFunc(func(context.Context, *httputil.Request) (*httputil.Response, error) {
		return nil, transportErr
	})

	_, err := NewAnimeGo("", fetcher).Players(context.Background(), "1")
	if !errors.Is(err, transportErr) {
		t.Fatalf("err = %v, want transport error unchanged", err)
	}
	if errors.Is(err, ErrDataIncorrect) || errors.Is(err, ErrStatus) || errors.Is(err, ErrNotFound) {
		t.Errorf("transport error reinterpreted as %v", err)
	}
}

func TestAnimeGoPlayersEnvelopeStatus(t *testing.T) {
	fetcher := httputil.FetcherFunc(func(context.Context, *httputil.Request) (*httputil.Response, error) {
		return &httputil.Response{StatusCode: 200, Body: []byte(`{"status":"error"}`)}, nil
	})

	_, err := NewAnimeGo("", fetcher).Players(context.Background(), "2380")
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("err = %v, want ErrStatus", err)
	}
}

func TestAnimeGoPlayersCancelled(t *testing.T) {
	fetcher := httputil.FetcherFunc(func(ctx context.Context, _ *httputil.Request) (*httputil.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnimeGo("", fetcher).Players(ctx, "2380")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestMediaID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2380", "2380", false},
		{" 2380 ", "2380", false},
		{"https://animego.me/anime/vanpanchmen-s1-11", "11", false},
		{"https://animego.me/anime/vanpanchmen-2380/", "2380", false},
		{"https://animego.me/anime/2380", "2380", false},
		{"https://animego.me/anime/vanpanchmen-2380?tab=video#top", "2380", false},
		{"http://animego.me/anime/x-7", "7", false},
		{"vanpanchmen", "", true},
		{"", "", true},
		{"../1", "", true},
		{"https://animego.me/anime/vanpanchmen", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := MediaID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MediaID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("MediaID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
