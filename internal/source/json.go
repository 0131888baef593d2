package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mbergner/oberfranken-events/internal/event"
	"github.com/mbergner/oberfranken-events/internal/fetch"
)

// JSON scrapes a JSON endpoint that publishes an array of event objects,
// either at the top level or under an "events" key. Field names vary
// between endpoints, so each field tolerates a couple of spellings.
type JSON struct {
	cfg  Config
	deps Deps
}

// NewJSON creates the JSON endpoint source.
func NewJSON(cfg Config, deps Deps) Source {
	return &JSON{cfg: cfg, deps: deps}
}

type jsonEnvelope struct {
	Events []jsonEvent `json:"events"`
}

type jsonEvent struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Start       string `json:"start"`
	StartTime   string `json:"start_time"`
	Date        string `json:"date"`
	End         string `json:"end"`
	EndTime     string `json:"end_time"`
	URL         string `json:"url"`
	MapURL      string `json:"map_url"`
	Category    string `json:"category"`
	Location    struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"location"`
	Venue   string `json:"venue"`
	Address string `json:"address"`
}

// Scrape fetches and parses the configured endpoint.
func (j *JSON) Scrape() ([]*event.Candidate, error) {
	body, err := fetch.Get(j.deps.Client, j.cfg.URL, j.deps.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", j.cfg.Name, err)
	}
	return j.parse(body)
}

func (j *JSON) parse(body []byte) ([]*event.Candidate, error) {
	var items []jsonEvent
	if err := json.Unmarshal(body, &items); err != nil {
		var envelope jsonEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("parsing endpoint response: %w", err)
		}
		items = envelope.Events
	}

	candidates := make([]*event.Candidate, 0, len(items))
	for _, item := range items {
		title := firstNonEmpty(item.Title, item.Name)
		if title == "" {
			continue
		}

		start, ok := ParseEventTime(firstNonEmpty(item.StartTime, item.Start, item.Date))
		if !ok {
			continue
		}

		c := event.NewCandidate(j.cfg.Name, title, start, j.cfg.URL)
		c.Description = strings.TrimSpace(item.Description)
		c.LocationName = firstNonEmpty(item.Location.Name, item.Venue)
		c.LocationAddress = firstNonEmpty(item.Location.Address, item.Address)
		c.MapEmbedURL = item.MapURL
		c.Category = strings.TrimSpace(item.Category)
		if end, ok := ParseEventTime(firstNonEmpty(item.EndTime, item.End)); ok {
			c.EndTime = end
		}
		if item.URL != "" {
			c.SourceURL = item.URL
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
