// Package locstore holds the two location stores the pipeline touches: the
// read-only verified venue store maintained by editorial tooling, and the
// tracker that accumulates unresolved venues for review.
package locstore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// VerifiedLocation is a venue→coordinate mapping a human has confirmed.
type VerifiedLocation struct {
	Name    string  `json:"name,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address,omitempty"`
}

// VerifiedStore is a name-keyed table of confirmed venues. The core only
// reads it; editorial tooling elsewhere writes it.
type VerifiedStore struct {
	locations map[string]VerifiedLocation
}

// LoadVerified reads the verified store from a JSON file. A missing file is
// an empty store, not an error.
func LoadVerified(path string) (*VerifiedStore, error) {
	store := &VerifiedStore{locations: make(map[string]VerifiedLocation)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("reading verified store: %w", err)
	}

	if err := json.Unmarshal(data, &store.locations); err != nil {
		return nil, fmt.Errorf("parsing verified store: %w", err)
	}
	return store, nil
}

// NewVerifiedStore builds a store from an in-memory table, mainly for tests.
func NewVerifiedStore(locations map[string]VerifiedLocation) *VerifiedStore {
	if locations == nil {
		locations = make(map[string]VerifiedLocation)
	}
	return &VerifiedStore{locations: locations}
}

// Lookup finds a venue by exact name first, then by a case-insensitive
// scan. The second return reports whether a record was found.
func (s *VerifiedStore) Lookup(name string) (VerifiedLocation, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return VerifiedLocation{}, false
	}
	if loc, ok := s.locations[name]; ok {
		return loc, true
	}
	lower := strings.ToLower(name)
	for key, loc := range s.locations {
		if strings.ToLower(key) == lower {
			return loc, true
		}
	}
	return VerifiedLocation{}, false
}

// Contains reports whether a venue name is in the store.
func (s *VerifiedStore) Contains(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Len returns the number of verified venues.
func (s *VerifiedStore) Len() int {
	return len(s.locations)
}
