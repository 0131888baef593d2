package source

import (
	"testing"
)

func TestJSONParse(t *testing.T) {
	j := &JSON{cfg: Config{Name: "test-json", URL: "https://api.example.com/events"}}

	t.Run("top-level array", func(t *testing.T) {
		body := `[
  {
    "title": "Weihnachtsmarkt",
    "description": "Glühwein und Stände",
    "start_time": "2026-12-01T16:00:00Z",
    "end_time": "2026-12-01T21:00:00Z",
    "location": {"name": "Marktplatz Kulmbach", "address": "Marktplatz, 95326 Kulmbach"},
    "map_url": "https://maps.example.com/?ll=50.1003,11.4504",
    "url": "https://api.example.com/events/42"
  }
]`
		candidates, err := j.parse([]byte(body))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}

		c := candidates[0]
		if c.Title != "Weihnachtsmarkt" {
			t.Errorf("unexpected title %q", c.Title)
		}
		if c.LocationName != "Marktplatz Kulmbach" {
			t.Errorf("unexpected location name %q", c.LocationName)
		}
		if c.LocationAddress != "Marktplatz, 95326 Kulmbach" {
			t.Errorf("unexpected address %q", c.LocationAddress)
		}
		if c.MapEmbedURL == "" {
			t.Error("expected map URL to be kept")
		}
		if c.EndTime == "" {
			t.Error("expected end time to be parsed")
		}
		if c.SourceURL != "https://api.example.com/events/42" {
			t.Errorf("unexpected source URL %q", c.SourceURL)
		}
	})

	t.Run("events envelope with alternate field names", func(t *testing.T) {
		body := `{"events": [
  {"name": "Stadtlauf", "date": "2026-09-12", "venue": "Innenstadt", "address": "95028 Hof", "category": "Sport"}
]}`
		candidates, err := j.parse([]byte(body))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}

		c := candidates[0]
		if c.Title != "Stadtlauf" {
			t.Errorf("unexpected title %q", c.Title)
		}
		if c.LocationName != "Innenstadt" {
			t.Errorf("unexpected location name %q", c.LocationName)
		}
		if c.Category != "Sport" {
			t.Errorf("expected the source category to be kept, got %q", c.Category)
		}
	})

	t.Run("items without title or date are skipped", func(t *testing.T) {
		body := `[
  {"title": "", "start_time": "2026-09-12T10:00:00Z"},
  {"title": "Ohne Datum", "start_time": "bald"}
]`
		candidates, err := j.parse([]byte(body))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(candidates) != 0 {
			t.Errorf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		if _, err := j.parse([]byte("not json")); err == nil {
			t.Error("expected a parse error")
		}
	})
}
