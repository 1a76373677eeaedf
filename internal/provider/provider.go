// Package provider fetches and parses the player catalog of a content site.
package provider

import (
	"context"

	"anigo/internal/media"
)

// Provider is the interface content sites must implement.
type Provider interface {
	// Players returns the player catalog for a media id or media page URL.
	Players(ctx context.Context, mediaID string) (media.PlayerCatalog, error)

	// Base returns the site base URL, used as referer by embed resolvers.
	Base() string
}
