// Package gazetteer provides a fixed table of known Upper Franconia towns
// with canonical coordinates, plus text, address and coordinate lookups
// against that table.
package gazetteer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// City is one gazetteer entry with its canonical center coordinates.
type City struct {
	Name string
	Lat  float64
	Lon  float64
}

// knownCities covers the towns the pipeline's sources regularly announce
// events for. Coordinates are town centers, not venue-precise.
var knownCities = []City{
	{"Hof", 50.3219, 11.9180},
	{"Bayreuth", 49.9481, 11.5783},
	{"Bamberg", 49.8988, 10.9028},
	{"Coburg", 50.2612, 10.9627},
	{"Kulmbach", 50.1003, 11.4504},
	{"Kronach", 50.2411, 11.3281},
	{"Lichtenfels", 50.1458, 11.0591},
	{"Forchheim", 49.7197, 11.0581},
	{"Selb", 50.1708, 12.1337},
	{"Marktredwitz", 50.0043, 12.0852},
	{"Wunsiedel", 50.0376, 12.0038},
	{"Münchberg", 50.1904, 11.7895},
	{"Helmbrechts", 50.2358, 11.7157},
	{"Naila", 50.3302, 11.7021},
	{"Rehau", 50.2485, 12.0358},
	{"Schwarzenbach", 50.2244, 11.9358},
	{"Pegnitz", 49.7564, 11.5445},
	{"Ebermannstadt", 49.7811, 11.1838},
	{"Bad Staffelstein", 50.1028, 11.0005},
	{"Burgkunstadt", 50.1350, 11.2530},
	{"Stadtsteinach", 50.1650, 11.5030},
	{"Weidenberg", 49.9420, 11.7230},
	{"Speichersdorf", 49.8720, 11.7790},
	{"Gefrees", 50.0950, 11.7370},
	{"Bad Berneck", 50.0450, 11.6720},
}

// postalCityPattern matches a German five-digit postal code followed by the
// city portion at the end of an address line.
var postalCityPattern = regexp.MustCompile(`(\d{5})\s+([\p{L}][\p{L}\-. ]*?)\s*$`)

// Gazetteer answers city lookups against the fixed town table.
type Gazetteer struct {
	cities []City
	byName map[string]City
}

// New builds a Gazetteer over the built-in town table. Cities are matched
// longest-name-first so that entries like "Bad Staffelstein" win over any
// shorter entry contained in them.
func New() *Gazetteer {
	cities := make([]City, len(knownCities))
	copy(cities, knownCities)
	sort.SliceStable(cities, func(i, j int) bool {
		return len(cities[i].Name) > len(cities[j].Name)
	})

	byName := make(map[string]City, len(cities))
	for _, c := range cities {
		byName[strings.ToLower(c.Name)] = c
	}

	return &Gazetteer{cities: cities, byName: byName}
}

// Cities returns the gazetteer entries in matching order.
func (g *Gazetteer) Cities() []City {
	return g.cities
}

// Lookup returns the entry for an exact (case-insensitive) city name.
func (g *Gazetteer) Lookup(name string) (City, bool) {
	c, ok := g.byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// FromText returns the first known city whose name appears in s as a whole
// word. Matching is case-insensitive and rune-boundary aware: "Hof" matches
// in "Veranstaltung in Hof" but not inside "Bahnhofstraße".
func (g *Gazetteer) FromText(s string) (City, bool) {
	if s == "" {
		return City{}, false
	}
	lower := strings.ToLower(s)
	for _, c := range g.cities {
		if containsWord(lower, strings.ToLower(c.Name)) {
			return c, true
		}
	}
	return City{}, false
}

// FromAddress extracts the city from an address string. German addresses
// end in "<postal code> <city>", so the token after a trailing postal code
// is tried first; anything unrecognized falls back to FromText over the
// whole address.
func (g *Gazetteer) FromAddress(address string) (City, bool) {
	if m := postalCityPattern.FindStringSubmatch(address); m != nil {
		if c, ok := g.Lookup(m[2]); ok {
			return c, true
		}
		// Postal city may carry a district suffix ("Hof Saale"); retry on
		// its first token.
		if fields := strings.Fields(m[2]); len(fields) > 0 {
			if c, ok := g.Lookup(fields[0]); ok {
				return c, true
			}
		}
	}
	return g.FromText(address)
}

// FromCoordinates returns the nearest gazetteer city within toleranceKm of
// the given point. Distances use a flat-earth approximation, which is fine
// at town-center granularity over the short distances involved.
func (g *Gazetteer) FromCoordinates(lat, lon, toleranceKm float64) (City, bool) {
	best := City{}
	bestDist := math.MaxFloat64
	for _, c := range g.cities {
		d := flatDistanceKm(lat, lon, c.Lat, c.Lon)
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	if bestDist <= toleranceKm {
		return best, true
	}
	return City{}, false
}

// flatDistanceKm approximates the distance between two points, scaling
// longitude by the cosine of the latitude.
func flatDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	const kmPerDegree = 111.32
	dLat := (lat1 - lat2) * kmPerDegree
	dLon := (lon1 - lon2) * kmPerDegree * math.Cos(lat1*math.Pi/180)
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// containsWord reports whether word occurs in s delimited by non-letter,
// non-digit runes (or the string edges). Both arguments must already be
// lowercased.
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(s[start:], word)
		if idx < 0 {
			return false
		}
		idx += start

		if wordBoundaryBefore(s, idx) && wordBoundaryAfter(s, idx+len(word)) {
			return true
		}
		start = idx + 1
	}
}

func wordBoundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func wordBoundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[idx:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
