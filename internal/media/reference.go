package media

// Reference points at a player page. It is either a raw reference string or
// a PlayerPart taken from a catalog.
type Reference interface {
	StreamURL() string
}

// RawRef is a reference given as a plain string, e.g. "//aniboom.one/embed/x".
type RawRef string

func (r RawRef) StreamURL() string { return string(r) }

// StreamURL returns the part's stream reference.
func (p PlayerPart) StreamURL() string { return p.StreamRef }

// VideoRef identifies a CVH video, either directly or through a playlist item.
type VideoRef interface {
	VideoID() string
}

// RawVideoID is a CVH video id given as a plain string.
type RawVideoID string

func (v RawVideoID) VideoID() string { return string(v) }

// VideoID returns the item's linked video id.
func (i AlternateCatalogItem) VideoID() string { return i.VkID }
