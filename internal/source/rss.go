package source

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/mbergner/oberfranken-events/internal/event"
	"github.com/mbergner/oberfranken-events/internal/fetch"
)

// RSS scrapes an RSS 2.0 feed of event announcements. The item title and
// description carry the event text; the publication date stands in for the
// start time when the feed provides nothing better.
type RSS struct {
	cfg  Config
	deps Deps
}

// NewRSS creates the RSS feed source.
func NewRSS(cfg Config, deps Deps) Source {
	return &RSS{cfg: cfg, deps: deps}
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Location    string `xml:"location"`
	StartDate   string `xml:"startdate"`
}

// Scrape fetches and parses the configured feed.
func (r *RSS) Scrape() ([]*event.Candidate, error) {
	body, err := fetch.Get(r.deps.Client, r.cfg.URL, r.deps.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", r.cfg.Name, err)
	}
	return r.parse(body)
}

func (r *RSS) parse(body []byte) ([]*event.Candidate, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	candidates := make([]*event.Candidate, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		start, ok := ParseEventTime(item.StartDate)
		if !ok {
			start, ok = ParseEventTime(item.PubDate)
		}
		if !ok {
			continue
		}

		c := event.NewCandidate(r.cfg.Name, title, start, r.cfg.URL)
		c.Description = strings.TrimSpace(stripTags(item.Description))
		c.LocationName = strings.TrimSpace(item.Location)
		if item.Link != "" {
			c.SourceURL = item.Link
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// stripTags removes simple markup feeds embed in descriptions.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
