package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"anigo/internal/httputil"
	"anigo/internal/log"
	"anigo/internal/media"
)

// DefaultBase is the default AnimeGo domain.
const DefaultBase = "https://animego.me"

// AnimeGo implements Provider for the AnimeGo content site.
type AnimeGo struct {
	base    string // e.g., "https://animego.me"
	fetcher httputil.Fetcher
}

// NewAnimeGo creates a provider for base using fetcher for all requests.
func NewAnimeGo(base string, fetcher httputil.Fetcher) *AnimeGo {
	if base == "" {
		base = DefaultBase
	}
	return &AnimeGo{
		base:    strings.TrimRight(base, "/"),
		fetcher: fetcher,
	}
}

// Base returns the site base URL.
func (a *AnimeGo) Base() string { return a.base }

// Players fetches /anime/{id}/player and parses the player catalog.
func (a *AnimeGo) Players(ctx context.Context, mediaID string) (media.PlayerCatalog, error) {
	id, err := MediaID(mediaID)
	if err != nil {
		return media.PlayerCatalog{}, fmt.Errorf("invalid media ID: %w", err)
	}

	url := httputil.BuildURL(a.base, "anime", id, "player")
	log.WithFields(log.Fields{"stage": "catalog", "url": url}).Debug("fetching player catalog")

	resp, err := a.fetcher.Do(ctx, &httputil.Request{
		Method: http.MethodGet,
		URL:    url,
		Header: http.Header{
			"Referer":          {a.base},
			"X-Requested-With": {"XMLHttpRequest"},
		},
	})
	if err != nil {
		return media.PlayerCatalog{}, err
	}

	env, err := DecodeEnvelope(resp.Body)
	if err != nil {
		return media.PlayerCatalog{}, err
	}

	return ParsePlayerCatalogHTML(env.Content)
}

// MediaID accepts a bare id ("2380") or a media page URL
// ("https://animego.me/anime/vanpanchmen-s1-11") and returns the id.
func MediaID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		s = strings.TrimRight(s, "/")
		if idx := strings.IndexAny(s, "?#"); idx != -1 {
			s = s[:idx]
		}
		s = s[strings.LastIndex(s, "/")+1:]
		s = s[strings.LastIndex(s, "-")+1:]
	}
	if err := httputil.ValidateNumericID(s); err != nil {
		return "", err
	}
	return s, nil
}
