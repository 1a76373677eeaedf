package httputil

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://example.com/path", false},
		{"HTTP rejected", "http://example.com/path", true},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"data scheme rejected", "data:text/html,<h1>Hi</h1>", true},
		{"empty string", "", true},
		{"no host", "https://", true},
		{"valid with port", "https://example.com:8080/path", false},
		{"valid with query", "https://example.com/path?q=test&a=b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFetchURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://animego.me/anime/1/player", false},
		{"http mirror", "http://127.0.0.1:8080/anime/1/player", false},
		{"ftp rejected", "ftp://example.com/file", true},
		{"scheme-relative rejected", "//aniboom.one/embed/x", true},
		{"no host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFetchURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFetchURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"scheme-relative", "//aniboom.one/embed/6BmMbB7MxWO", "https://aniboom.one/embed/6BmMbB7MxWO", false},
		{"scheme-relative with query", "//kodik.info/seria/1/abc/720p?translations=false", "https://kodik.info/seria/1/abc/720p?translations=false", false},
		{"already https", "https://aniboom.one/embed/x", "https://aniboom.one/embed/x", false},
		{"surrounding whitespace", "  //cvh.example/iframe/1 ", "https://cvh.example/iframe/1", false},
		{"plain http rejected", "http://aniboom.one/embed/x", "", true},
		{"bare path rejected", "/embed/x", "", true},
		{"empty rejected", "", "", true},
		{"no host rejected", "//", "", true},
		{"javascript rejected", "javascript:alert(1)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrUnsupportedReference) {
					t.Errorf("NormalizeRef(%q) error = %v, want ErrUnsupportedReference", tt.ref, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("NormalizeRef(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"numeric", "2380", false},
		{"vk id", "-228_456239017", false},
		{"empty", "", true},
		{"path traversal", "../../etc/passwd", true},
		{"slash", "a/b", true},
		{"shell injection semicolon", "123; rm -rf /", true},
		{"newline injection", "123\n456", true},
		{"too long", string(make([]byte, 300)), true},
		{"spaces", "id with spaces", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNumericID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "12345", false},
		{"zero", "0", false},
		{"empty", "", true},
		{"letters", "abc", true},
		{"mixed", "123abc", true},
		{"negative", "-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNumericID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNumericID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal filename", "episode.mpd", "episode.mpd"},
		{"path traversal", "../../etc/passwd", "passwd"},
		{"directory components", "/home/user/secret.txt", "secret.txt"},
		{"null bytes", "episode\x00.mpd", "episode.mpd"},
		{"Windows special chars", "ep<>:\"|?*.mpd", "ep_______.mpd"},
		{"double dots", "ep..mpd", "ep_mpd"},
		{"empty string", "", "untitled"},
		{"just dot", ".", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSafeOutputPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		filename string
	}{
		{"normal", "episode.mpd"},
		{"path traversal attempt", "../../etc/passwd"},
		{"shell injection", "$(whoami).mpd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := SafeOutputPath(dir, tt.filename)
			if err != nil {
				t.Fatalf("SafeOutputPath(%q) error = %v", tt.filename, err)
			}
			if path == "" {
				t.Error("SafeOutputPath returned empty path without error")
			}
		})
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://animego.me", []string{"anime", "2380", "player"}, "https://animego.me/anime/2380/player"},
		{"https://animego.me/", []string{"anime", "1", "player"}, "https://animego.me/anime/1/player"},
		{"https://plapi.cdnvideohub.com/api/v1/player/sv/video", []string{"-228_456"}, "https://plapi.cdnvideohub.com/api/v1/player/sv/video/-228_456"},
		{"https://x.test", []string{"a b"}, "https://x.test/a%20b"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := BuildURL(tt.base, tt.segments...)
			if got != tt.expected {
				t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
			}
		})
	}
}
