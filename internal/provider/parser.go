package provider

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"anigo/internal/media"
)

// Selectors of the player fragment returned by /anime/{id}/player.
const (
	selEpisodeTitle = "span[data-episode-replace-title]"
	selDubbingBox   = "div#video-dubbing"
	selPlayersBox   = "div#video-players"
)

// playerEntry is one raw row of the players box.
type playerEntry struct {
	dubID string
	ref   string
}

// orderedDubs keeps dub ids in document order with map lookup.
type orderedDubs struct {
	ids   []string
	names map[string]string
}

// ParsePlayerCatalogHTML parses a raw player fragment.
func ParsePlayerCatalogHTML(html string) (media.PlayerCatalog, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return media.PlayerCatalog{}, DataIncorrect("parsing player HTML", err)
	}
	return ParsePlayerCatalog(doc)
}

// ParsePlayerCatalog extracts the episode title, dubs and per-service player
// parts from a player fragment. It performs no I/O.
func ParsePlayerCatalog(doc *goquery.Document) (media.PlayerCatalog, error) {
	title := parseEpisodeTitle(doc)

	dubs, err := parseDubbing(doc)
	if err != nil {
		return media.PlayerCatalog{}, err
	}

	services, players, err := parsePlayers(doc)
	if err != nil {
		return media.PlayerCatalog{}, err
	}

	dubIDs := make([]int, 0, len(dubs.ids))
	for _, id := range dubs.ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			return media.PlayerCatalog{}, DataIncorrect("non-numeric dub id "+strconv.Quote(id), err)
		}
		dubIDs = append(dubIDs, n)
	}

	groups := make([]media.PlayerGroup, 0, len(services))
	for _, service := range services {
		g, err := buildGroup(service, players[service], dubs)
		if err != nil {
			return media.PlayerCatalog{}, err
		}
		groups = append(groups, g)
	}

	return media.PlayerCatalog{
		EpisodeTitle: title,
		DubIDs:       dubIDs,
		DubNames:     lo.Map(dubs.ids, func(id string, _ int) string { return dubs.names[id] }),
		Services:     services,
		Groups:       groups,
	}, nil
}

// parseEpisodeTitle returns "" when the marker is missing; the title is cosmetic.
func parseEpisodeTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(selEpisodeTitle).First().Text())
}

func parseDubbing(doc *goquery.Document) (orderedDubs, error) {
	box := doc.Find(selDubbingBox).First()
	if box.Length() == 0 {
		return orderedDubs{}, NotFound("dubbing box")
	}

	dubs := orderedDubs{names: make(map[string]string)}
	box.Children().Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}
		id := strings.TrimSpace(s.AttrOr("data-dubbing", ""))
		if _, seen := dubs.names[id]; !seen {
			dubs.ids = append(dubs.ids, id)
		}
		dubs.names[id] = name
	})

	return dubs, nil
}

// parsePlayers returns service names in first-encounter order and their rows.
// A repeated dub id within one service replaces the earlier row in place.
func parsePlayers(doc *goquery.Document) ([]string, map[string][]playerEntry, error) {
	box := doc.Find(selPlayersBox).First()
	if box.Length() == 0 {
		return nil, nil, NotFound("players box")
	}

	var services []string
	players := make(map[string][]playerEntry)

	box.Children().Each(func(_ int, s *goquery.Selection) {
		service := strings.TrimSpace(s.Text())
		if service == "" {
			return
		}

		entry := playerEntry{
			dubID: strings.TrimSpace(s.AttrOr("data-provide-dubbing", "")),
			ref:   strings.TrimSpace(s.AttrOr("data-player", "")),
		}

		rows, known := players[service]
		if !known {
			services = append(services, service)
		}
		if _, idx, found := lo.FindIndexOf(rows, func(e playerEntry) bool { return e.dubID == entry.dubID }); found {
			rows[idx] = entry
		} else {
			rows = append(rows, entry)
		}
		players[service] = rows
	})

	return services, players, nil
}

func buildGroup(service string, rows []playerEntry, dubs orderedDubs) (media.PlayerGroup, error) {
	g := media.PlayerGroup{
		Service: service,
		DubIDs:  make([]int, 0, len(rows)),
		Parts:   make([]media.PlayerPart, 0, len(rows)),
	}

	for _, row := range rows {
		id, err := strconv.Atoi(row.dubID)
		if err != nil {
			return media.PlayerGroup{}, DataIncorrect("non-numeric dub id "+strconv.Quote(row.dubID)+" for "+service, err)
		}

		name, ok := dubs.names[row.dubID]
		if !ok {
			name = media.UnknownDub
		}

		g.DubIDs = append(g.DubIDs, id)
		g.Parts = append(g.Parts, media.PlayerPart{
			Service:   service,
			StreamRef: row.ref,
			DubID:     id,
			DubName:   name,
		})
	}

	return g, nil
}
