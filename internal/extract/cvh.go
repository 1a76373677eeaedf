package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"anigo/internal/httputil"
	"anigo/internal/log"
	"anigo/internal/media"
	"anigo/internal/provider"
)

// CDN Videohub endpoints. They do not depend on the iframe host.
const (
	PlaylistURL = "https://plapi.cdnvideohub.com/api/v1/player/sv/playlist"
	VideoURL    = "https://plapi.cdnvideohub.com/api/v1/player/sv/video/"
)

const selVideoPlayer = "video-player"

// playlistParams maps marker attributes to playlist query parameters.
var playlistParams = []struct {
	attr  string
	param string
}{
	{"data-publisher-id", "pub"},
	{"data-aggregator", "aggr"},
	{"data-title-id", "id"},
}

// CVH resolves CDN Videohub iframes into playlists and video records.
type CVH struct {
	referer string
	fetcher httputil.Fetcher
}

// NewCVH creates a resolver that sends referer with the iframe request.
func NewCVH(referer string, fetcher httputil.Fetcher) *CVH {
	return &CVH{referer: referer, fetcher: fetcher}
}

// Playlist fetches the iframe behind ref, reads the player marker and
// requests the playlist it describes.
func (c *CVH) Playlist(ctx context.Context, ref media.Reference) (media.AlternateCatalog, error) {
	iframeURL, err := normalize(ref)
	if err != nil {
		return media.AlternateCatalog{}, err
	}

	log.WithFields(log.Fields{"stage": "iframe", "url": iframeURL}).Debug("fetching CVH iframe")

	doc, err := fetchDocument(ctx, c.fetcher, iframeURL, c.referer)
	if err != nil {
		return media.AlternateCatalog{}, err
	}

	query, err := PlaylistQuery(doc)
	if err != nil {
		return media.AlternateCatalog{}, err
	}

	log.WithFields(log.Fields{"stage": "playlist", "url": PlaylistURL, "query": query.Encode()}).Debug("fetching CVH playlist")

	resp, err := c.fetcher.Do(ctx, &httputil.Request{
		Method: http.MethodGet,
		URL:    PlaylistURL,
		Query:  query,
	})
	if err != nil {
		return media.AlternateCatalog{}, err
	}
	return DecodePlaylist(resp.Body)
}

// Video fetches the video record of ref and returns it undecoded.
func (c *CVH) Video(ctx context.Context, ref media.VideoRef) (json.RawMessage, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: nil video reference", httputil.ErrUnsupportedReference)
	}
	id := ref.VideoID()
	if err := httputil.ValidateID(id); err != nil {
		return nil, fmt.Errorf("invalid video ID: %w", err)
	}

	videoURL := VideoURL + url.PathEscape(id)
	log.WithFields(log.Fields{"stage": "video", "url": videoURL}).Debug("fetching CVH video")

	resp, err := c.fetcher.Do(ctx, &httputil.Request{
		Method: http.MethodGet,
		URL:    videoURL,
	})
	if err != nil {
		return nil, err
	}
	if !json.Valid(resp.Body) {
		return nil, provider.DataIncorrect("json parse error", nil)
	}
	return json.RawMessage(resp.Body), nil
}

// PlaylistQuery reads the playlist query parameters off the video-player marker.
func PlaylistQuery(doc *goquery.Document) (url.Values, error) {
	player := doc.Find(selVideoPlayer).First()
	if player.Length() == 0 {
		return nil, provider.NotFound("video-player")
	}

	query := make(url.Values, len(playlistParams))
	for _, p := range playlistParams {
		v, ok := player.Attr(p.attr)
		if !ok {
			return nil, provider.DataIncorrect("missing key: "+p.attr, nil)
		}
		query.Set(p.param, v)
	}
	return query, nil
}

// DecodePlaylist maps a playlist response body into an AlternateCatalog.
// Either every item decodes or no catalog is returned.
func DecodePlaylist(body []byte) (media.AlternateCatalog, error) {
	root, err := decodeFields(body)
	if err != nil {
		return media.AlternateCatalog{}, provider.DataIncorrect("json parse error", err)
	}

	catalog, err := alternateCatalog(root)
	if err != nil {
		var mk *missingKeyError
		if errors.As(err, &mk) {
			return media.AlternateCatalog{}, provider.DataIncorrect("missing key: "+mk.key, nil)
		}
		return media.AlternateCatalog{}, provider.DataIncorrect("json parse error", err)
	}
	return catalog, nil
}

func alternateCatalog(root fields) (media.AlternateCatalog, error) {
	var (
		c   media.AlternateCatalog
		err error
	)

	if c.Title, err = root.String("titleName"); err != nil {
		return media.AlternateCatalog{}, err
	}
	if c.IsSerial, err = root.Bool("isSerial"); err != nil {
		return media.AlternateCatalog{}, err
	}
	items, err := root.Objects("items")
	if err != nil {
		return media.AlternateCatalog{}, err
	}

	c.Items = make([]media.AlternateCatalogItem, 0, len(items))
	for _, raw := range items {
		item, err := alternateItem(raw)
		if err != nil {
			return media.AlternateCatalog{}, err
		}
		c.Items = append(c.Items, item)
	}
	return c, nil
}

func alternateItem(f fields) (media.AlternateCatalogItem, error) {
	var (
		it  media.AlternateCatalogItem
		err error
	)

	if it.CvhID, err = f.String("cvhId"); err != nil {
		return it, err
	}
	if it.Name, err = f.String("name"); err != nil {
		return it, err
	}
	if it.VkID, err = f.String("vkId"); err != nil {
		return it, err
	}
	if it.VoiceStudio, err = f.String("voiceStudio"); err != nil {
		return it, err
	}
	if it.VoiceType, err = f.String("voiceType"); err != nil {
		return it, err
	}
	if it.Season, err = f.Int("season"); err != nil {
		return it, err
	}
	if it.Episode, err = f.Int("episode"); err != nil {
		return it, err
	}
	return it, nil
}
