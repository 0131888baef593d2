package source

// Constructor builds a fresh Source for one scrape.
type Constructor func(cfg Config, deps Deps) Source

// Registry maps source-type strings to constructors. Overrides route a
// source by its exact configured name to a site-specific handler even when
// its declared type would route elsewhere; the match is exact-name only,
// never substring, so unrelated sources whose names merely contain a
// fragment are not hijacked.
type Registry struct {
	constructors map[string]Constructor
	overrides    map[string]string
	fallbackType string
}

// NewRegistry creates an empty registry with the given fallback type for
// sources whose type has no registered handler.
func NewRegistry(fallbackType string) *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
		overrides:    make(map[string]string),
		fallbackType: fallbackType,
	}
}

// Register binds a source type to its constructor.
func (r *Registry) Register(sourceType string, fn Constructor) {
	r.constructors[sourceType] = fn
}

// RegisterOverride routes the source with exactly this configured name to
// the given type's handler.
func (r *Registry) RegisterOverride(sourceName, sourceType string) {
	r.overrides[sourceName] = sourceType
}

// Handler resolves the constructor for a configured source: the exact-name
// override first, then the declared type. The second return is false when
// neither is registered.
func (r *Registry) Handler(cfg Config) (Constructor, bool) {
	if typ, ok := r.overrides[cfg.Name]; ok {
		if fn, ok := r.constructors[typ]; ok {
			return fn, true
		}
	}
	fn, ok := r.constructors[cfg.Type]
	return fn, ok
}

// Fallback returns the generic legacy constructor used when no handler is
// registered for a source, or nil if the fallback type itself is missing.
func (r *Registry) Fallback() Constructor {
	return r.constructors[r.fallbackType]
}

// NewDefaultRegistry wires up all built-in handlers. The generic HTML
// scraper doubles as the legacy fallback.
func NewDefaultRegistry() *Registry {
	r := NewRegistry("html")
	r.Register("html", NewHTML)
	r.Register("rss", NewRSS)
	r.Register("json", NewJSON)
	r.Register("frankenpost", NewFrankenpost)
	r.RegisterOverride("Frankenpost Veranstaltungskalender", "frankenpost")
	return r
}
