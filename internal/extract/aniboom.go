package extract

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"anigo/internal/httputil"
	"anigo/internal/log"
	"anigo/internal/media"
	"anigo/internal/provider"
)

const (
	selVideoBlock   = "div#video"
	attrParameters  = "data-parameters"
	errEmbedDecoded = "failed to parse embed data"
)

// AniBoom resolves AniBoom embed pages into stream descriptors.
type AniBoom struct {
	referer string
	fetcher httputil.Fetcher
}

// NewAniBoom creates a resolver that sends referer (the catalog site base)
// with every request.
func NewAniBoom(referer string, fetcher httputil.Fetcher) *AniBoom {
	return &AniBoom{referer: referer, fetcher: fetcher}
}

// Resolve fetches the embed page behind ref and decodes its parameter blob.
func (a *AniBoom) Resolve(ctx context.Context, ref media.Reference) (media.StreamDescriptor, error) {
	embedURL, err := normalize(ref)
	if err != nil {
		return media.StreamDescriptor{}, err
	}

	log.WithFields(log.Fields{"stage": "embed", "url": embedURL}).Debug("fetching embed page")

	doc, err := fetchDocument(ctx, a.fetcher, embedURL, a.referer)
	if err != nil {
		return media.StreamDescriptor{}, err
	}
	return ParseEmbed(doc)
}

// MPDURL resolves ref and returns only its DASH manifest URL.
func (a *AniBoom) MPDURL(ctx context.Context, ref media.Reference) (string, error) {
	d, err := a.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	return d.MPDURL, nil
}

// M3U8URL resolves ref and returns only its HLS playlist URL.
func (a *AniBoom) M3U8URL(ctx context.Context, ref media.Reference) (string, error) {
	d, err := a.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	return d.M3U8URL, nil
}

// Manifest resolves ref and downloads the DASH manifest it points at.
func (a *AniBoom) Manifest(ctx context.Context, ref media.Reference) ([]byte, error) {
	mpdURL, err := a.MPDURL(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := httputil.ValidateURL(mpdURL); err != nil {
		return nil, fmt.Errorf("invalid manifest URL: %w", err)
	}

	log.WithFields(log.Fields{"stage": "manifest", "url": mpdURL}).Debug("fetching DASH manifest")

	resp, err := a.fetcher.Do(ctx, &httputil.Request{
		Method: http.MethodGet,
		URL:    mpdURL,
		Header: refererHeader(a.referer),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ParseEmbed decodes the parameter blob of an embed page. It performs no I/O,
// so equal documents always yield equal descriptors.
func ParseEmbed(doc *goquery.Document) (media.StreamDescriptor, error) {
	block := doc.Find(selVideoBlock).First()
	if block.Length() == 0 {
		return media.StreamDescriptor{}, provider.NotFound("video block")
	}

	blob, ok := block.Attr(attrParameters)
	if !ok || blob == "" {
		return media.StreamDescriptor{}, provider.NotFound("parameters")
	}

	params, err := decodeFields([]byte(blob))
	if err != nil {
		return media.StreamDescriptor{}, provider.DataIncorrect("embed parameters are not a JSON object", err)
	}

	d, err := streamDescriptor(params)
	if err != nil {
		return media.StreamDescriptor{}, provider.DataIncorrect(errEmbedDecoded, err)
	}
	return d, nil
}

func streamDescriptor(p fields) (media.StreamDescriptor, error) {
	var (
		d   media.StreamDescriptor
		err error
	)

	if d.ID, err = p.String("id"); err != nil {
		return d, err
	}
	if d.Domain, err = p.String("domain"); err != nil {
		return d, err
	}
	if d.Duration, err = p.Int("duration"); err != nil {
		return d, err
	}
	if d.Duration < 0 {
		return d, fmt.Errorf("key duration: negative value %d", d.Duration)
	}
	if d.Poster, err = p.String("poster"); err != nil {
		return d, err
	}
	if d.MPDURL, err = manifestSource(p, "dash"); err != nil {
		return d, err
	}
	if d.M3U8URL, err = manifestSource(p, "hls"); err != nil {
		return d, err
	}
	if d.Quality, err = p.Bool("quality"); err != nil {
		return d, err
	}
	if d.QualityVideo, err = p.Int("qualityVideo"); err != nil {
		return d, err
	}
	if d.Rating, err = p.String("rating"); err != nil {
		return d, err
	}
	return d, nil
}

// manifestSource reads the src of a manifest field, which holds JSON encoded
// as a string: "{\"src\":\"https://...\"}".
func manifestSource(p fields, key string) (string, error) {
	obj, err := p.EmbeddedObject(key)
	if err != nil {
		return "", err
	}
	return obj.String("src")
}
