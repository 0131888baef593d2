package locstore

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"
)

// UnverifiedEntry is one unresolved or low-confidence venue sighting,
// aggregated across candidates and sources. Coordinates are rounded to 4
// decimal places so near-duplicate scrapes of the same venue collapse into
// one entry.
type UnverifiedEntry struct {
	Name            string   `json:"name"`
	Lat             *float64 `json:"lat,omitempty"`
	Lon             *float64 `json:"lon,omitempty"`
	Address         string   `json:"address,omitempty"`
	OccurrenceCount int      `json:"occurrence_count"`
	Sources         []string `json:"sources"`
	FirstSeen       string   `json:"first_seen"`
	LastSeen        string   `json:"last_seen"`
}

// unverifiedFile is the on-disk shape written by Save.
type unverifiedFile struct {
	GeneratedAt      string             `json:"generated_at"`
	TotalLocations   int                `json:"total_locations"`
	TotalOccurrences int                `json:"total_occurrences"`
	Locations        []*UnverifiedEntry `json:"locations"`
}

// excludedGenericNames are bare generic place names that are pointless to
// queue for review on their own.
var excludedGenericNames = map[string]bool{
	"sportheim":    true,
	"sporthalle":   true,
	"turnhalle":    true,
	"rathaus":      true,
	"gemeindehaus": true,
	"pfarrheim":    true,
	"vereinsheim":  true,
	"schule":       true,
	"kirche":       true,
	"festplatz":    true,
	"marktplatz":   true,
	"online":       true,
}

const (
	hintMinLocations   = 5
	hintMinOccurrences = 10
)

// Tracker accumulates unresolved venue sightings during a run and persists
// them for editorial review. Entries the verified store already knows are
// skipped; removal of tracked entries only ever happens when a human
// promotes one into the verified store.
type Tracker struct {
	path     string
	verified *VerifiedStore
	entries  map[string]*UnverifiedEntry
	now      func() time.Time
}

// NewTracker creates a Tracker that writes to path on Save.
func NewTracker(path string, verified *VerifiedStore) *Tracker {
	return &Tracker{
		path:     path,
		verified: verified,
		entries:  make(map[string]*UnverifiedEntry),
		now:      time.Now,
	}
}

// Track records a sighting of an unresolved or city-level-only venue.
// Verified venues and bare generic place names are ignored. Repeat
// sightings increment the occurrence count, refresh last_seen and append
// the source if it is new.
func (t *Tracker) Track(name, address string, lat, lon *float64, sourceName string) {
	key := strings.TrimSpace(name)
	if key == "" {
		key = strings.TrimSpace(address)
	}
	if key == "" {
		return
	}
	if excludedGenericNames[strings.ToLower(key)] {
		return
	}
	if t.verified != nil && t.verified.Contains(key) {
		return
	}

	now := t.now().UTC().Format(time.RFC3339)

	if entry, ok := t.entries[key]; ok {
		entry.OccurrenceCount++
		entry.LastSeen = now
		if sourceName != "" && !containsString(entry.Sources, sourceName) {
			entry.Sources = append(entry.Sources, sourceName)
		}
		return
	}

	entry := &UnverifiedEntry{
		Name:            key,
		Address:         strings.TrimSpace(address),
		OccurrenceCount: 1,
		FirstSeen:       now,
		LastSeen:        now,
	}
	if lat != nil && lon != nil {
		rl, ro := round4(*lat), round4(*lon)
		entry.Lat, entry.Lon = &rl, &ro
	}
	if sourceName != "" {
		entry.Sources = []string{sourceName}
	}
	t.entries[key] = entry
}

// Len returns the number of distinct tracked locations.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Entries returns the tracked entries sorted by descending occurrence count
// so the most-recurring unresolved venues surface first.
func (t *Tracker) Entries() []*UnverifiedEntry {
	out := make([]*UnverifiedEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurrenceCount != out[j].OccurrenceCount {
			return out[i].OccurrenceCount > out[j].OccurrenceCount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Save persists all tracked entries together with aggregate stats.
func (t *Tracker) Save() error {
	entries := t.Entries()

	total := 0
	for _, e := range entries {
		total += e.OccurrenceCount
	}

	file := unverifiedFile{
		GeneratedAt:      t.now().UTC().Format(time.RFC3339),
		TotalLocations:   len(entries),
		TotalOccurrences: total,
		Locations:        entries,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding unverified store: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0644); err != nil {
		return fmt.Errorf("writing unverified store: %w", err)
	}
	return nil
}

// HintMessage returns an advisory for the operator once enough unresolved
// venues have accumulated to be worth a review pass. Below the threshold it
// returns an empty string so small runs stay quiet.
func (t *Tracker) HintMessage() string {
	entries := t.entries
	total := 0
	for _, e := range entries {
		total += e.OccurrenceCount
	}
	if len(entries) < hintMinLocations && total < hintMinOccurrences {
		return ""
	}
	return fmt.Sprintf("%d unresolved locations seen %d times; review them with 'oberfranken-events locations' and promote known venues into the verified store",
		len(entries), total)
}

// LoadUnverified reads a previously saved unverified store, used by the
// locations listing command. A missing file yields an empty result.
func LoadUnverified(path string) ([]*UnverifiedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading unverified store: %w", err)
	}
	var file unverifiedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing unverified store: %w", err)
	}
	return file.Locations, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
