package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"anigo/internal/extract"
	"anigo/internal/media"
	"anigo/internal/ui"
)

// resolvedPart pairs a catalog part with the outcome of resolving it.
type resolvedPart struct {
	Part       media.PlayerPart        `json:"part"`
	Descriptor *media.StreamDescriptor `json:"descriptor,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCatalog(w io.Writer, s ui.Styler, c media.PlayerCatalog) {
	title := c.EpisodeTitle
	if title == "" {
		title = "(untitled episode)"
	}
	fmt.Fprintln(w, s.Title(title))

	dubs := make([]string, len(c.DubIDs))
	for i, id := range c.DubIDs {
		dubs[i] = fmt.Sprintf("%d %s", id, c.DubNames[i])
	}
	fmt.Fprintf(w, "%s %s\n", s.Label("dubs:"), strings.Join(dubs, ", "))

	for _, g := range c.Groups {
		fmt.Fprintf(w, "\n%s\n", s.Header(g.Service))
		for _, p := range g.Parts {
			name := p.DubName
			if name == media.UnknownDub {
				name = s.Warn(name)
			}
			fmt.Fprintf(w, "  %-5d %-20s %s\n", p.DubID, name, s.Label(p.StreamRef))
		}
	}
}

func renderResolved(w io.Writer, s ui.Styler, parts []resolvedPart) {
	for _, r := range parts {
		fmt.Fprintf(w, "\n%s\n", s.Header(r.Part.String()))
		if r.Error != "" {
			fmt.Fprintf(w, "  %s\n", s.Error(r.Error))
			continue
		}
		renderDescriptorFields(w, s, *r.Descriptor)
	}
}

func renderDescriptor(w io.Writer, s ui.Styler, d media.StreamDescriptor) {
	fmt.Fprintln(w, s.Title(d.ID))
	renderDescriptorFields(w, s, d)
}

func renderDescriptorFields(w io.Writer, s ui.Styler, d media.StreamDescriptor) {
	quality := strconv.Itoa(d.QualityVideo) + "p"
	if d.Quality {
		quality += " " + s.OK("HD")
	}
	rows := [][2]string{
		{"domain", d.Domain},
		{"duration", (time.Duration(d.Duration) * time.Second).String()},
		{"quality", quality},
		{"rating", d.Rating},
		{"poster", d.Poster},
		{"dash", d.MPDURL},
		{"hls", d.M3U8URL},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s %s\n", s.Label(fmt.Sprintf("%-9s", row[0])), row[1])
	}
}

func renderPlaylist(w io.Writer, s ui.Styler, c media.AlternateCatalog) {
	kind := "film"
	if c.IsSerial {
		kind = "series"
	}
	fmt.Fprintf(w, "%s %s\n", s.Title(c.Title), s.Label(kind))

	for _, it := range c.Items {
		name := it.Name
		if name == "" {
			name = fmt.Sprintf("Episode %d", it.Episode)
		}
		fmt.Fprintf(w, "  S%02dE%02d  %-24s %-16s %s\n",
			it.Season, it.Episode, name, it.VoiceStudio+" ("+it.VoiceType+")", s.Label(it.VkID))
	}
}

func renderMPD(w io.Writer, s ui.Styler, m *extract.MPD) {
	fmt.Fprintf(w, "%s %s\n", s.Title("DASH manifest"), s.Label(m.MediaPresentationDuration))

	if tmpl, ok := m.SegmentTemplate(); ok {
		fmt.Fprintf(w, "  %s %s\n", s.Label("media    "), tmpl.Media)
		fmt.Fprintf(w, "  %s %s\n", s.Label("init     "), tmpl.Initialization)
	}

	for _, set := range m.AdaptationSets() {
		fmt.Fprintf(w, "\n%s\n", s.Header(set.MimeType))
		for _, r := range set.Representations {
			size := ""
			if r.Width > 0 {
				size = fmt.Sprintf("%dx%d", r.Width, r.Height)
			}
			fmt.Fprintf(w, "  %-8s %-10s %8d bps  %s\n", r.ID, size, r.Bandwidth, s.Label(r.Codecs))
		}
	}
}
