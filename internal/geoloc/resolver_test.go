package geoloc

import (
	"path/filepath"
	"testing"

	"github.com/mbergner/oberfranken-events/internal/gazetteer"
	"github.com/mbergner/oberfranken-events/internal/locstore"
)

func newTestResolver(t *testing.T, verified map[string]locstore.VerifiedLocation) (*Resolver, *locstore.Tracker) {
	t.Helper()
	store := locstore.NewVerifiedStore(verified)
	tracker := locstore.NewTracker(filepath.Join(t.TempDir(), "unverified.json"), store)
	return NewResolver(store, gazetteer.New(), tracker), tracker
}

func floatPtr(v float64) *float64 { return &v }

func TestResolveStrategyOrder(t *testing.T) {
	t.Run("explicit coordinates beat a verified match", func(t *testing.T) {
		r, _ := newTestResolver(t, map[string]locstore.VerifiedLocation{
			"Freiheitshalle": {Lat: 50.3167, Lon: 11.9100, Address: "Kulmbacher Str. 4, 95030 Hof"},
		})

		res := r.Resolve("Freiheitshalle", "Kulmbacher Str. 4, 95030 Hof", floatPtr(50.3177), floatPtr(11.9111), "test")
		if res.Method != MethodIframeExtraction {
			t.Fatalf("expected iframe_extraction, got %s", res.Method)
		}
		if *res.Lat != 50.3177 || *res.Lon != 11.9111 {
			t.Errorf("expected explicit coordinates, got (%v, %v)", *res.Lat, *res.Lon)
		}
		if res.NeedsReview {
			t.Error("explicit coordinates should not need review")
		}
	})

	t.Run("verified match before city lookup", func(t *testing.T) {
		r, _ := newTestResolver(t, map[string]locstore.VerifiedLocation{
			"Freiheitshalle Hof": {Lat: 50.3167, Lon: 11.9100, Address: "Kulmbacher Str. 4, 95030 Hof"},
		})

		res := r.Resolve("Freiheitshalle Hof", "", nil, nil, "test")
		if res.Method != MethodVerifiedDatabase {
			t.Fatalf("expected verified_database, got %s", res.Method)
		}
		if *res.Lat != 50.3167 || *res.Lon != 11.9100 {
			t.Errorf("expected stored coordinates, got (%v, %v)", *res.Lat, *res.Lon)
		}
		if res.NeedsReview {
			t.Error("verified venue should not need review")
		}
		if res.Address != "Kulmbacher Str. 4, 95030 Hof" {
			t.Errorf("expected stored address, got %q", res.Address)
		}
	})

	t.Run("verified match is case-insensitive", func(t *testing.T) {
		r, _ := newTestResolver(t, map[string]locstore.VerifiedLocation{
			"Freiheitshalle Hof": {Lat: 50.3167, Lon: 11.9100},
		})
		res := r.Resolve("freiheitshalle hof", "", nil, nil, "test")
		if res.Method != MethodVerifiedDatabase {
			t.Errorf("expected verified_database, got %s", res.Method)
		}
	})

	t.Run("address city before venue name city", func(t *testing.T) {
		r, _ := newTestResolver(t, nil)
		res := r.Resolve("Stadthalle Bayreuth", "Hauptstraße 2, 95030 Hof", nil, nil, "test")
		if res.Method != MethodAddressCity {
			t.Fatalf("expected address_city_lookup, got %s", res.Method)
		}
		// Hof's center, not Bayreuth's.
		if *res.Lat != 50.3219 {
			t.Errorf("expected Hof center latitude, got %v", *res.Lat)
		}
	})

	t.Run("venue name city lookup", func(t *testing.T) {
		r, _ := newTestResolver(t, nil)
		res := r.Resolve("Stadthalle Bayreuth", "", nil, nil, "test")
		if res.Method != MethodVenueNameCity {
			t.Fatalf("expected venue_name_city_lookup, got %s", res.Method)
		}
		if !res.NeedsReview {
			t.Error("city-level precision must need review")
		}
	})
}

func TestResolveTotality(t *testing.T) {
	r, tracker := newTestResolver(t, nil)

	res := r.Resolve("", "", nil, nil, "test")
	if res.Method != MethodUnresolved {
		t.Fatalf("expected unresolved, got %s", res.Method)
	}
	if res.Lat != nil || res.Lon != nil {
		t.Error("unresolved must carry nil coordinates")
	}
	if !res.NeedsReview {
		t.Error("unresolved must need review")
	}
	// A fully empty hint has nothing worth tracking.
	if tracker.Len() != 0 {
		t.Errorf("expected empty tracker, got %d entries", tracker.Len())
	}
}

func TestResolveUnresolvedTracksSighting(t *testing.T) {
	r, tracker := newTestResolver(t, nil)

	res := r.Resolve("Kulturscheune Wirsberg", "", nil, nil, "feed-a")
	if res.Method != MethodUnresolved {
		t.Fatalf("expected unresolved, got %s", res.Method)
	}
	if tracker.Len() != 1 {
		t.Fatalf("expected 1 tracked entry, got %d", tracker.Len())
	}
	entry := tracker.Entries()[0]
	if entry.Name != "Kulturscheune Wirsberg" {
		t.Errorf("unexpected entry name %q", entry.Name)
	}
	if len(entry.Sources) != 1 || entry.Sources[0] != "feed-a" {
		t.Errorf("unexpected sources %v", entry.Sources)
	}
}

func TestResolveSportheimScenario(t *testing.T) {
	// Coordinates from a map embed in the Hof region, no address, and a
	// venue name that is generic across towns.
	r, _ := newTestResolver(t, nil)
	gaz := gazetteer.New()

	res := r.Resolve("Sportheim", "", floatPtr(50.3191), floatPtr(11.9173), "test")
	if res.Method != MethodIframeExtraction {
		t.Fatalf("expected iframe_extraction, got %s", res.Method)
	}
	if res.NeedsReview {
		t.Error("trusted coordinates must not need review")
	}
	if !res.AddressSynthesized {
		t.Error("expected the synthesized address to be flagged")
	}
	if res.Address != "Sportheim, Hof" {
		t.Errorf("expected synthesized address 'Sportheim, Hof', got %q", res.Address)
	}

	// The caller qualifies ambiguous names after resolution.
	res = Disambiguate(res, gaz)
	if res.Name != "Sportheim Hof" {
		t.Errorf("expected disambiguated name 'Sportheim Hof', got %q", res.Name)
	}
}

func TestResolveAddressScenario(t *testing.T) {
	r, tracker := newTestResolver(t, nil)

	res := r.Resolve("", "Maximilianstraße 33, 95444 Bayreuth", nil, nil, "stadt-bayreuth")
	if res.Method != MethodAddressCity {
		t.Fatalf("expected address_city_lookup, got %s", res.Method)
	}
	if *res.Lat != 49.9481 || *res.Lon != 11.5783 {
		t.Errorf("expected Bayreuth center, got (%v, %v)", *res.Lat, *res.Lon)
	}
	if !res.NeedsReview {
		t.Error("city-center coordinates must need review")
	}

	if tracker.Len() != 1 {
		t.Fatalf("expected 1 tracked entry, got %d", tracker.Len())
	}
	entry := tracker.Entries()[0]
	if entry.Name != "Maximilianstraße 33, 95444 Bayreuth" {
		t.Errorf("unexpected entry name %q", entry.Name)
	}
	if len(entry.Sources) != 1 || entry.Sources[0] != "stadt-bayreuth" {
		t.Errorf("unexpected sources %v", entry.Sources)
	}
}

func TestResolveSynthesizedAddressKeepsGivenAddress(t *testing.T) {
	r, _ := newTestResolver(t, nil)

	res := r.Resolve("Sportheim", "Jahnstraße 1, 95030 Hof", floatPtr(50.3191), floatPtr(11.9173), "test")
	if res.Address != "Jahnstraße 1, 95030 Hof" {
		t.Errorf("expected supplied address to be kept, got %q", res.Address)
	}
	if res.AddressSynthesized {
		t.Error("a supplied address must not be flagged as synthesized")
	}
}
