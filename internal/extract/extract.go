// Package extract resolves player references taken from a catalog into
// stream descriptors (AniBoom) and alternate playlists (CVH).
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"anigo/internal/httputil"
	"anigo/internal/media"
	"anigo/internal/provider"
)

// Service titles as they appear in the players box.
const (
	ServiceAniBoom = "AniBoom"
	ServiceCVH     = "CVH"
)

// EmbedResolver turns a player reference into a stream descriptor.
type EmbedResolver interface {
	Resolve(ctx context.Context, ref media.Reference) (media.StreamDescriptor, error)
}

// PlaylistResolver turns a player reference into an alternate catalog whose
// items resolve further into opaque video records.
type PlaylistResolver interface {
	Playlist(ctx context.Context, ref media.Reference) (media.AlternateCatalog, error)
	Video(ctx context.Context, ref media.VideoRef) (json.RawMessage, error)
}

var (
	_ EmbedResolver    = (*AniBoom)(nil)
	_ PlaylistResolver = (*CVH)(nil)
)

// IsAniBoom reports whether a service title belongs to the AniBoom player.
func IsAniBoom(service string) bool { return strings.EqualFold(service, ServiceAniBoom) }

// IsCVH reports whether a service title belongs to the CVH player.
func IsCVH(service string) bool { return strings.EqualFold(service, ServiceCVH) }

// normalize extracts the stream URL of ref and promotes it to https.
func normalize(ref media.Reference) (string, error) {
	if ref == nil {
		return "", fmt.Errorf("%w: nil reference", httputil.ErrUnsupportedReference)
	}
	return httputil.NormalizeRef(ref.StreamURL())
}

// fetchDocument GETs pageURL and parses the body as HTML.
func fetchDocument(ctx context.Context, f httputil.Fetcher, pageURL, referer string) (*goquery.Document, error) {
	resp, err := f.Do(ctx, &httputil.Request{
		Method: http.MethodGet,
		URL:    pageURL,
		Header: refererHeader(referer),
	})
	if err != nil {
		return nil, err
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, provider.DataIncorrect("parsing HTML of "+pageURL, err)
	}
	return doc, nil
}

func refererHeader(referer string) http.Header {
	if referer == "" {
		return nil
	}
	return http.Header{"Referer": {referer}}
}
