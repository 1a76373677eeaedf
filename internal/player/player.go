// Package player launches a local media player on a resolved manifest URL.
// Players are started with exec.Command and explicit argument slices, so
// remote data never passes through a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Stream is what a player needs to open a resolved manifest.
type Stream struct {
	URL     string
	Title   string
	Referer string
}

// Player is the interface for media player implementations.
type Player interface {
	// Play blocks until the player exits or ctx is cancelled.
	Play(ctx context.Context, s Stream) error

	// Name returns the player binary name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// Names lists the supported players.
var Names = []string{"mpv", "vlc", "iina", "celluloid"}

// New creates a player by name. Unknown names fall back to mpv.
func New(name string) Player {
	switch name {
	case "vlc":
		return &command{name: "vlc", args: vlcArgs}
	case "iina", "celluloid":
		return &command{name: name, args: mpvArgs}
	default:
		return &command{name: "mpv", args: mpvArgs}
	}
}

// command runs a player binary with arguments built from the stream.
type command struct {
	name string
	args func(Stream) []string
}

func (c *command) Name() string { return c.name }

func (c *command) Available() bool {
	_, err := exec.LookPath(c.name)
	return err == nil
}

func (c *command) Play(ctx context.Context, s Stream) error {
	if s.URL == "" {
		return fmt.Errorf("no stream URL to play")
	}
	if strings.HasPrefix(s.URL, "-") {
		return fmt.Errorf("refusing option-like stream URL %q", s.URL)
	}

	cmd := exec.CommandContext(ctx, c.name, c.args(s)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Players exit non-zero when the user closes them.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", c.name, err)
	}
	return nil
}

// mpvArgs also serves iina and celluloid, which accept mpv-style flags.
// The URL always follows "--" so it is never read as an option.
func mpvArgs(s Stream) []string {
	args := []string{"--really-quiet"}
	if s.Title != "" {
		args = append(args, "--force-media-title="+s.Title)
	}
	if s.Referer != "" {
		args = append(args, "--referrer="+s.Referer)
	}
	return append(args, "--", s.URL)
}

func vlcArgs(s Stream) []string {
	args := []string{"--play-and-exit"}
	if s.Title != "" {
		args = append(args, "--meta-title", s.Title)
	}
	if s.Referer != "" {
		args = append(args, "--http-referrer="+s.Referer)
	}
	return append(args, "--", s.URL)
}
