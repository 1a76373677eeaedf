// Package media defines shared types for the anigo application.
package media

import "fmt"

// UnknownDub is the dub name used when a player declares a dub id that the
// dubbing block does not list.
const UnknownDub = "unknown"

// PlayerPart is one service + dub combination with its opaque stream reference.
type PlayerPart struct {
	Service   string `json:"service"`    // e.g., "Kodik", "AniBoom", "CVH"
	StreamRef string `json:"stream_ref"` // Usually scheme-relative, e.g., "//aniboom.one/embed/abc"
	DubID     int    `json:"dub_id"`
	DubName   string `json:"dub_name"`
}

func (p PlayerPart) String() string {
	return fmt.Sprintf("%s [%d %s]", p.Service, p.DubID, p.DubName)
}

// PlayerGroup collects every part offered by a single service.
// DubIDs[i] always equals Parts[i].DubID.
type PlayerGroup struct {
	Service string       `json:"service"`
	DubIDs  []int        `json:"dub_ids"`
	Parts   []PlayerPart `json:"parts"`
}

// Part returns the part for dubID, if the group offers it.
func (g PlayerGroup) Part(dubID int) (PlayerPart, bool) {
	for _, p := range g.Parts {
		if p.DubID == dubID {
			return p, true
		}
	}
	return PlayerPart{}, false
}

// PlayerCatalog is the parsed player page of one episode.
type PlayerCatalog struct {
	EpisodeTitle string        `json:"episode_title"`
	DubIDs       []int         `json:"dub_ids"`   // Every dub listed by the dubbing block, document order
	DubNames     []string      `json:"dub_names"` // Names matching DubIDs index for index
	Services     []string      `json:"services"`  // Service names in first-encounter order
	Groups       []PlayerGroup `json:"groups"`
}

// Group returns the group for a service name.
func (c PlayerCatalog) Group(service string) (PlayerGroup, bool) {
	for _, g := range c.Groups {
		if g.Service == service {
			return g, true
		}
	}
	return PlayerGroup{}, false
}

// Part looks up a single service + dub combination.
func (c PlayerCatalog) Part(service string, dubID int) (PlayerPart, bool) {
	g, ok := c.Group(service)
	if !ok {
		return PlayerPart{}, false
	}
	return g.Part(dubID)
}

// StreamDescriptor is the decoded embed parameter blob of an AniBoom player page.
type StreamDescriptor struct {
	ID           string `json:"id"`
	Domain       string `json:"domain"`
	Duration     int    `json:"duration"` // seconds
	Poster       string `json:"poster"`
	MPDURL       string `json:"mpd_url"`
	M3U8URL      string `json:"m3u8_url"`
	Quality      bool   `json:"quality"`
	QualityVideo int    `json:"quality_video"`
	Rating       string `json:"rating"`
}

// AlternateCatalogItem is one entry of a CVH playlist.
type AlternateCatalogItem struct {
	CvhID       string `json:"cvh_id"`
	Name        string `json:"name"`
	VkID        string `json:"vk_id"`
	VoiceStudio string `json:"voice_studio"`
	VoiceType   string `json:"voice_type"`
	Season      int    `json:"season"`
	Episode     int    `json:"episode"`
}

// AlternateCatalog is the decoded CVH playlist for a title.
type AlternateCatalog struct {
	Title    string                 `json:"title"`
	IsSerial bool                   `json:"is_serial"`
	Items    []AlternateCatalogItem `json:"items"`
}
