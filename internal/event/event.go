package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"

	"github.com/mbergner/oberfranken-events/internal/geoloc"
)

// Candidate represents a raw event announcement emitted by a source.
// A candidate is created by a Source, annotated by the orchestrator
// (filtering, category defaulting, location resolution) and then handed
// downstream unchanged.
type Candidate struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	LocationName    string           `json:"location_name,omitempty"`
	LocationAddress string           `json:"location_address,omitempty"`
	MapEmbedURL     string           `json:"map_embed_url,omitempty"`
	StartTime       string           `json:"start_time"`
	EndTime         string           `json:"end_time,omitempty"`
	SourceURL       string           `json:"source_url"`
	SourceName      string           `json:"source_name"`
	Category        string           `json:"category,omitempty"`
	ScrapedAt       time.Time        `json:"scraped_at"`
	Location        *geoloc.Resolved `json:"location,omitempty"`
}

// GenerateID creates a deterministic ID for a candidate based on the fields
// that identify an announcement within its source. IDs are only guaranteed
// unique after deduplication.
func GenerateID(sourceName, title, startTime string) string {
	h := sha1.New()
	h.Write([]byte(sourceName + "|" + strings.ToLower(strings.TrimSpace(title)) + "|" + startTime))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NewCandidate creates a Candidate with ID and ScrapedAt populated.
func NewCandidate(sourceName, title, startTime, sourceURL string) *Candidate {
	return &Candidate{
		ID:         GenerateID(sourceName, title, startTime),
		Title:      strings.TrimSpace(title),
		StartTime:  startTime,
		SourceURL:  sourceURL,
		SourceName: sourceName,
		ScrapedAt:  time.Now().UTC(),
	}
}

// LocationHint returns the best available textual hint for where the event
// takes place: the venue name if set, otherwise the raw address.
func (c *Candidate) LocationHint() string {
	if c.LocationName != "" {
		return c.LocationName
	}
	return c.LocationAddress
}
