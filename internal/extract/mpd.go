package extract

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"anigo/internal/provider"
)

// MPD is the subset of a DASH manifest needed to locate segments.
type MPD struct {
	XMLName                   xml.Name `xml:"MPD"`
	MediaPresentationDuration string   `xml:"mediaPresentationDuration,attr"`
	Periods                   []Period `xml:"Period"`
}

type Period struct {
	ID             string          `xml:"id,attr"`
	AdaptationSets []AdaptationSet `xml:"AdaptationSet"`
}

type AdaptationSet struct {
	MimeType        string           `xml:"mimeType,attr"`
	Template        *SegmentTemplate `xml:"SegmentTemplate"`
	Representations []Representation `xml:"Representation"`
}

type Representation struct {
	ID        string           `xml:"id,attr"`
	Bandwidth int              `xml:"bandwidth,attr"`
	Width     int              `xml:"width,attr"`
	Height    int              `xml:"height,attr"`
	Codecs    string           `xml:"codecs,attr"`
	MimeType  string           `xml:"mimeType,attr"`
	Template  *SegmentTemplate `xml:"SegmentTemplate"`
}

// SegmentTemplate holds the $Identifier$ patterns of segment and init URLs.
type SegmentTemplate struct {
	Media          string `xml:"media,attr"`
	Initialization string `xml:"initialization,attr"`
	StartNumber    int    `xml:"startNumber,attr"`
	Timescale      int    `xml:"timescale,attr"`
	Duration       int    `xml:"duration,attr"`
}

// ParseMPD decodes a DASH manifest. A manifest without any SegmentTemplate
// cannot be used to locate segments and is rejected.
func ParseMPD(body []byte) (*MPD, error) {
	var m MPD
	if err := xml.Unmarshal(body, &m); err != nil {
		return nil, provider.DataIncorrect("manifest is not a DASH MPD", err)
	}
	if _, ok := m.SegmentTemplate(); !ok {
		return nil, provider.NotFound("SegmentTemplate")
	}
	return &m, nil
}

// AdaptationSets returns the adaptation sets of every period in order.
func (m *MPD) AdaptationSets() []AdaptationSet {
	return lo.FlatMap(m.Periods, func(p Period, _ int) []AdaptationSet { return p.AdaptationSets })
}

// SegmentTemplate returns the first segment template in document order,
// looking at adaptation sets before their representations.
func (m *MPD) SegmentTemplate() (SegmentTemplate, bool) {
	for _, set := range m.AdaptationSets() {
		if set.Template != nil {
			return *set.Template, true
		}
		for _, r := range set.Representations {
			if r.Template != nil {
				return *r.Template, true
			}
		}
	}
	return SegmentTemplate{}, false
}

// RepresentationIDs lists every representation id in document order.
func (m *MPD) RepresentationIDs() []string {
	return lo.FlatMap(m.AdaptationSets(), func(set AdaptationSet, _ int) []string {
		return lo.Map(set.Representations, func(r Representation, _ int) string { return r.ID })
	})
}

// TemplateFor returns the segment template that applies to r within set.
func (set AdaptationSet) TemplateFor(r Representation) (SegmentTemplate, bool) {
	if r.Template != nil {
		return *r.Template, true
	}
	if set.Template != nil {
		return *set.Template, true
	}
	return SegmentTemplate{}, false
}

// Expand substitutes $RepresentationID$, $Bandwidth$ and $Number$ in pattern.
// "$$" is an escaped dollar sign.
func Expand(pattern string, r Representation, number int) string {
	return strings.NewReplacer(
		"$$", "$",
		"$RepresentationID$", r.ID,
		"$Bandwidth$", strconv.Itoa(r.Bandwidth),
		"$Number$", strconv.Itoa(number),
	).Replace(pattern)
}
