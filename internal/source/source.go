// Package source defines the scraping contract, the per-source options
// model and the registry that routes configured sources to their handlers.
package source

import (
	"net/http"
	"strings"
	"time"

	"github.com/mbergner/oberfranken-events/internal/event"
)

// Source emits raw event candidates. Ownership of the returned slice
// transfers to the caller.
type Source interface {
	Scrape() ([]*event.Candidate, error)
}

// Options is the immutable per-source filtering and behavior record. It is
// built once from configuration at orchestration start and never mutated
// during a run.
type Options struct {
	IncludeKeywords []string `toml:"include_keywords" json:"include_keywords,omitempty"`
	ExcludeKeywords []string `toml:"exclude_keywords" json:"exclude_keywords,omitempty"`
	FilterAds       bool     `toml:"filter_ads" json:"filter_ads,omitempty"`
	MinDaysAhead    int      `toml:"min_days_ahead" json:"min_days_ahead,omitempty"`
	MaxDaysAhead    int      `toml:"max_days_ahead" json:"max_days_ahead,omitempty"`
	DefaultLocation string   `toml:"default_location" json:"default_location,omitempty"`
	AIProvider      string   `toml:"ai_provider" json:"ai_provider,omitempty"`
	DedupFields     []string `toml:"dedup_fields" json:"dedup_fields,omitempty"`
	RateLimitMS     int      `toml:"rate_limit_ms" json:"rate_limit_ms,omitempty"`
}

// Config describes one configured source.
type Config struct {
	Name    string  `toml:"name" json:"name"`
	Type    string  `toml:"type" json:"type"`
	URL     string  `toml:"url" json:"url"`
	Enabled bool    `toml:"enabled" json:"enabled"`
	Options Options `toml:"options" json:"options"`
}

// Deps carries the shared collaborators every source is built with, so
// each instance is freshly constructed per scrape with consistent
// transport settings.
type Deps struct {
	Client    *http.Client
	UserAgent string
}

// dateLayouts are the start-time formats sources commonly publish, tried
// in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
}

// ParseEventTime normalizes a published date string to RFC 3339. The
// second return is false when no known layout matches; callers decide
// whether to keep the raw text or drop the item.
func ParseEventTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC3339), true
		}
	}
	if t, err := time.Parse(time.RFC1123Z, s); err == nil {
		return t.Format(time.RFC3339), true
	}
	if t, err := time.Parse(time.RFC1123, s); err == nil {
		return t.Format(time.RFC3339), true
	}
	return "", false
}
