package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mbergner/oberfranken-events/internal/event"
	"github.com/mbergner/oberfranken-events/internal/fetch"
)

// HTML is the generic HTML scraper. It works selector-first across the
// markup shapes municipal event calendars commonly use and doubles as the
// legacy fallback handler for unknown source types.
type HTML struct {
	cfg  Config
	deps Deps
}

// NewHTML creates the generic HTML source.
func NewHTML(cfg Config, deps Deps) Source {
	return &HTML{cfg: cfg, deps: deps}
}

// itemSelectors are tried in order until one yields event nodes.
var itemSelectors = []string{
	".event-item",
	".veranstaltung",
	"article.event",
	"li.event",
	".event",
	"article",
}

// Scrape fetches the configured page and extracts event candidates.
func (h *HTML) Scrape() ([]*event.Candidate, error) {
	body, err := fetch.Get(h.deps.Client, h.cfg.URL, h.deps.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", h.cfg.Name, err)
	}
	return h.parse(body)
}

func (h *HTML) parse(body []byte) ([]*event.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var items *goquery.Selection
	for _, sel := range itemSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			items = found
			break
		}
	}
	if items == nil {
		return nil, nil
	}

	candidates := make([]*event.Candidate, 0, items.Length())
	items.Each(func(_ int, sel *goquery.Selection) {
		if c := h.parseItem(sel); c != nil {
			candidates = append(candidates, c)
		}
	})
	return candidates, nil
}

func (h *HTML) parseItem(sel *goquery.Selection) *event.Candidate {
	title := firstText(sel, "h1", "h2", "h3", "h4", ".title", ".event-title")
	if title == "" {
		return nil
	}

	start, ok := extractStartTime(sel)
	if !ok {
		// An event without any parseable date cannot be windowed or
		// published; skip the node.
		return nil
	}

	c := event.NewCandidate(h.cfg.Name, title, start, h.cfg.URL)
	c.Description = firstText(sel, ".description", ".teaser", "p")
	c.LocationName = firstText(sel, ".location", ".ort", ".venue")
	c.LocationAddress = firstText(sel, ".address", ".adresse")
	c.MapEmbedURL = mapEmbedURL(sel)
	return c
}

// extractStartTime looks for a machine-readable datetime attribute first,
// then falls back to visible date text.
func extractStartTime(sel *goquery.Selection) (string, bool) {
	if dt, exists := sel.Find("time").First().Attr("datetime"); exists {
		if start, ok := ParseEventTime(dt); ok {
			return start, true
		}
	}
	for _, s := range []string{"time", ".date", ".datum", ".event-date"} {
		if start, ok := ParseEventTime(strings.TrimSpace(sel.Find(s).First().Text())); ok {
			return start, true
		}
	}
	return "", false
}

// mapEmbedURL returns the src of an embedded map iframe, if any.
func mapEmbedURL(sel *goquery.Selection) string {
	var url string
	sel.Find("iframe").EachWithBreak(func(_ int, iframe *goquery.Selection) bool {
		src, exists := iframe.Attr("src")
		if !exists {
			return true
		}
		if strings.Contains(src, "map") || strings.Contains(src, "osm") || strings.Contains(src, "@") {
			url = src
			return false
		}
		return true
	})
	return url
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
