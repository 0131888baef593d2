package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mbergner/oberfranken-events/internal/event"
	"github.com/mbergner/oberfranken-events/internal/fetch"
)

// Frankenpost is the site-specific handler for the Frankenpost event
// calendar, whose markup is regular enough for precise selectors. It is
// registered under an exact-name override so the source reaches it even
// when its declared type is plain "html".
type Frankenpost struct {
	cfg  Config
	deps Deps
}

// NewFrankenpost creates the Frankenpost calendar source.
func NewFrankenpost(cfg Config, deps Deps) Source {
	return &Frankenpost{cfg: cfg, deps: deps}
}

// Scrape fetches the calendar page and extracts its event entries.
func (f *Frankenpost) Scrape() ([]*event.Candidate, error) {
	body, err := fetch.Get(f.deps.Client, f.cfg.URL, f.deps.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", f.cfg.Name, err)
	}
	return f.parse(body)
}

func (f *Frankenpost) parse(body []byte) ([]*event.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var candidates []*event.Candidate
	doc.Find(".veranstaltungskalender .termin").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(".termin-titel").Text())
		if title == "" {
			return
		}

		dateText := strings.TrimSpace(sel.Find(".termin-datum").Text())
		start, ok := ParseEventTime(dateText)
		if !ok {
			return
		}

		c := event.NewCandidate(f.cfg.Name, title, start, f.cfg.URL)
		c.Description = strings.TrimSpace(sel.Find(".termin-beschreibung").Text())
		c.LocationName = strings.TrimSpace(sel.Find(".termin-ort").Text())
		c.LocationAddress = strings.TrimSpace(sel.Find(".termin-adresse").Text())
		if href, exists := sel.Find("a.termin-link").Attr("href"); exists {
			c.SourceURL = href
		}
		if src, exists := sel.Find("iframe.termin-karte").Attr("src"); exists {
			c.MapEmbedURL = src
		}
		candidates = append(candidates, c)
	})
	return candidates, nil
}
