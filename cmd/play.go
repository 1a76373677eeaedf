package cmd

import (
	"context"
	"fmt"
	"strings"

	"anigo/internal/httputil"
	"anigo/internal/log"
	"anigo/internal/media"
	"anigo/internal/player"
)

var flagPlay bool

// playDescriptor opens the HLS playlist of d in the configured player.
func playDescriptor(ctx context.Context, d media.StreamDescriptor, title string) error {
	stream, err := playerStream(d, title)
	if err != nil {
		return err
	}

	p := player.New(strings.ToLower(cfg.Player))
	if !p.Available() {
		return fmt.Errorf("%s not found in PATH", p.Name())
	}

	log.WithFields(log.Fields{"player": p.Name(), "url": stream.URL}).Debug("starting player")
	return p.Play(ctx, stream)
}

// playerStream builds the player input for d. The HLS URL comes from the
// embed page and must be an HTTPS URL before it reaches a player's argv.
func playerStream(d media.StreamDescriptor, title string) (player.Stream, error) {
	if err := httputil.ValidateURL(d.M3U8URL); err != nil {
		return player.Stream{}, fmt.Errorf("invalid HLS URL %q: %w", d.M3U8URL, err)
	}
	stream := player.Stream{
		URL:   d.M3U8URL,
		Title: title,
	}
	if d.Domain != "" {
		stream.Referer = "https://" + d.Domain + "/"
	}
	return stream, nil
}
