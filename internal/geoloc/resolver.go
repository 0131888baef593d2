// Package geoloc turns free-text venue hints into coordinates with an
// explicit confidence signal. Resolution tries an ordered set of
// strategies and records anything below venue precision for editorial
// review; absence of location data is a valid terminal state, never an
// error.
package geoloc

import (
	"fmt"
	"strings"

	"github.com/mbergner/oberfranken-events/internal/gazetteer"
	"github.com/mbergner/oberfranken-events/internal/locstore"
)

// Method identifies which resolution strategy produced a result.
type Method string

const (
	MethodIframeExtraction Method = "iframe_extraction"
	MethodVerifiedDatabase Method = "verified_database"
	MethodAddressCity      Method = "address_city_lookup"
	MethodVenueNameCity    Method = "venue_name_city_lookup"
	MethodUnresolved       Method = "unresolved"
)

// Resolved is the outcome of one resolution. It is never patched in place;
// a new resolution replaces an old one. Lat and Lon are nil exactly when
// Method is MethodUnresolved.
type Resolved struct {
	Name    string   `json:"name,omitempty"`
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	// NeedsReview marks results a human should confirm before publication.
	NeedsReview bool `json:"needs_review"`
	// AddressSynthesized marks an address guessed from name and nearest
	// city; the coordinates themselves stay trusted in that case.
	AddressSynthesized bool   `json:"address_synthesized,omitempty"`
	Method             Method `json:"resolution_method"`
}

// Resolver composes the gazetteer, the verified store and the unresolved
// tracker into the ordered resolution strategy. Each Resolve call is a pure
// function of its inputs plus those read-only collaborators; the only side
// effect is tracking sightings of strategies 3 to 5.
type Resolver struct {
	verified *locstore.VerifiedStore
	gaz      *gazetteer.Gazetteer
	tracker  *locstore.Tracker
}

// NewResolver creates a Resolver. tracker may be nil when sightings should
// not be recorded (tests, dry runs).
func NewResolver(verified *locstore.VerifiedStore, gaz *gazetteer.Gazetteer, tracker *locstore.Tracker) *Resolver {
	return &Resolver{verified: verified, gaz: gaz, tracker: tracker}
}

// synthesizeToleranceKm bounds the city search when inventing an address
// for coordinates that came without one.
const synthesizeToleranceKm = 15.0

// Resolve turns a venue hint into a located, confidence-tagged result.
// Strategies, first success wins:
//
//  1. explicit coordinates (already extracted from a map embed)
//  2. verified store match on the venue name
//  3. recognizable city in the address, at city-center precision
//  4. recognizable city in the venue name, at city-center precision
//  5. unresolved
//
// Strategies 3-5 record the sighting with the tracker. Missing data never
// produces an error; it lands in the unresolved terminal state.
func (r *Resolver) Resolve(name, address string, lat, lon *float64, sourceName string) *Resolved {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)

	// Strategy 1: trusted coordinates from a map embed.
	if lat != nil && lon != nil {
		rl, ro := Round4(*lat), Round4(*lon)
		res := &Resolved{
			Name:    name,
			Address: address,
			Lat:     &rl,
			Lon:     &ro,
			Method:  MethodIframeExtraction,
		}
		if address == "" {
			if city, ok := r.gaz.FromCoordinates(rl, ro, synthesizeToleranceKm); ok {
				res.Address = synthesizeAddress(name, city.Name)
				res.AddressSynthesized = true
			}
		}
		return res
	}

	// Strategy 2: previously confirmed venue.
	if name != "" {
		if loc, ok := r.verified.Lookup(name); ok {
			lv, lo := loc.Lat, loc.Lon
			addr := loc.Address
			if addr == "" {
				addr = address
			}
			return &Resolved{
				Name:    name,
				Address: addr,
				Lat:     &lv,
				Lon:     &lo,
				Method:  MethodVerifiedDatabase,
			}
		}
	}

	// Strategy 3: city extracted from the address, city-center precision.
	if address != "" {
		if city, ok := r.gaz.FromAddress(address); ok {
			return r.cityLevel(name, address, city, MethodAddressCity, sourceName)
		}
	}

	// Strategy 4: city extracted from the venue name itself.
	if name != "" {
		if city, ok := r.gaz.FromText(name); ok {
			return r.cityLevel(name, address, city, MethodVenueNameCity, sourceName)
		}
	}

	// Strategy 5: nothing matched; surface it for a human instead of
	// guessing.
	res := &Resolved{
		Name:        name,
		Address:     address,
		NeedsReview: true,
		Method:      MethodUnresolved,
	}
	r.trackSighting(res, sourceName)
	return res
}

func (r *Resolver) cityLevel(name, address string, city gazetteer.City, method Method, sourceName string) *Resolved {
	lat, lon := Round4(city.Lat), Round4(city.Lon)
	res := &Resolved{
		Name:        name,
		Address:     address,
		Lat:         &lat,
		Lon:         &lon,
		NeedsReview: true, // city center is not venue-precise
		Method:      method,
	}
	r.trackSighting(res, sourceName)
	return res
}

func (r *Resolver) trackSighting(res *Resolved, sourceName string) {
	if r.tracker == nil {
		return
	}
	r.tracker.Track(res.Name, res.Address, res.Lat, res.Lon, sourceName)
}

func synthesizeAddress(name, city string) string {
	if name == "" {
		return city
	}
	return fmt.Sprintf("%s, %s", name, city)
}
