package geoloc

import (
	"strings"

	"github.com/mbergner/oberfranken-events/internal/gazetteer"
)

// ambiguousTerms are generic venue-type names that recur across many towns.
// A bare "Sportheim" could be in any village, so it is unsafe to treat as
// unique without a city qualifier.
var ambiguousTerms = []string{
	"Sportheim",
	"Sporthalle",
	"Turnhalle",
	"Mehrzweckhalle",
	"Festhalle",
	"Stadthalle",
	"Rathaus",
	"Gemeindehaus",
	"Bürgerhaus",
	"Gemeindezentrum",
	"Dorfgemeinschaftshaus",
	"Pfarrheim",
	"Pfarrzentrum",
	"Schützenhaus",
	"Feuerwehrhaus",
	"Vereinsheim",
	"Jugendzentrum",
	"Grundschule",
	"Schule",
	"Kirche",
	"Festplatz",
	"Marktplatz",
}

// disambiguateToleranceKm bounds how far away the nearest gazetteer city
// may be when qualifying an ambiguous venue name from coordinates.
const disambiguateToleranceKm = 15.0

// IsAmbiguous reports whether name is a generic venue-type name. A term
// only matches as the whole name, a leading or trailing token, or a
// hyphen-joined component, never as an arbitrary substring, so compound
// proper nouns that merely contain a term do not match.
func IsAmbiguous(name string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return false
	}
	for _, term := range ambiguousTerms {
		t := strings.ToLower(term)
		if trimmed == t ||
			strings.HasPrefix(trimmed, t+" ") ||
			strings.HasSuffix(trimmed, " "+t) ||
			strings.HasPrefix(trimmed, t+"-") ||
			strings.HasSuffix(trimmed, "-"+t) ||
			strings.Contains(trimmed, " "+t+" ") ||
			strings.Contains(trimmed, "-"+t+" ") ||
			strings.Contains(trimmed, " "+t+"-") {
			return true
		}
	}
	return false
}

// Disambiguate returns a copy of loc with the nearest gazetteer city
// appended to an ambiguous name, so that "Sportheim" near Hof becomes
// "Sportheim Hof". The name is left unchanged when it already contains a
// known city (which makes the operation idempotent) or when no coordinates
// are available to pick a city from.
func Disambiguate(loc *Resolved, gaz *gazetteer.Gazetteer) *Resolved {
	if loc == nil {
		return nil
	}
	out := *loc

	if !IsAmbiguous(out.Name) {
		return &out
	}
	if _, found := gaz.FromText(out.Name); found {
		return &out
	}
	if out.Lat == nil || out.Lon == nil {
		return &out
	}

	city, found := gaz.FromCoordinates(*out.Lat, *out.Lon, disambiguateToleranceKm)
	if !found {
		return &out
	}
	out.Name = strings.TrimSpace(out.Name) + " " + city.Name
	return &out
}
