package locstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadVerified(t *testing.T) {
	t.Run("missing file is an empty store", func(t *testing.T) {
		store, err := LoadVerified(filepath.Join(t.TempDir(), "does-not-exist.json"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.Len() != 0 {
			t.Errorf("expected empty store, got %d entries", store.Len())
		}
	})

	t.Run("loads a name-keyed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "verified.json")
		content := `{
  "Freiheitshalle Hof": {"lat": 50.3167, "lon": 11.9100, "address": "Kulmbacher Str. 4, 95030 Hof"}
}`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		store, err := LoadVerified(path)
		if err != nil {
			t.Fatalf("LoadVerified: %v", err)
		}
		loc, ok := store.Lookup("Freiheitshalle Hof")
		if !ok {
			t.Fatal("expected venue to be found")
		}
		if loc.Lat != 50.3167 || loc.Lon != 11.9100 {
			t.Errorf("unexpected coordinates (%v, %v)", loc.Lat, loc.Lon)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "verified.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadVerified(path); err == nil {
			t.Error("expected a parse error")
		}
	})
}

func TestVerifiedLookup(t *testing.T) {
	store := NewVerifiedStore(map[string]VerifiedLocation{
		"Freiheitshalle Hof": {Lat: 50.3167, Lon: 11.9100},
	})

	t.Run("exact match", func(t *testing.T) {
		if _, ok := store.Lookup("Freiheitshalle Hof"); !ok {
			t.Error("expected exact match")
		}
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		if _, ok := store.Lookup("FREIHEITSHALLE hof"); !ok {
			t.Error("expected case-insensitive match")
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		if _, ok := store.Lookup("  Freiheitshalle Hof "); !ok {
			t.Error("expected trimmed match")
		}
	})

	t.Run("miss", func(t *testing.T) {
		if _, ok := store.Lookup("Stadthalle Bayreuth"); ok {
			t.Error("expected a miss")
		}
	})

	t.Run("empty name misses", func(t *testing.T) {
		if _, ok := store.Lookup(""); ok {
			t.Error("expected a miss for empty name")
		}
	})
}
