// Package orchestrator drives the batch run: it routes every configured
// source to its handler, scrapes, filters, categorizes and geolocates the
// results, and aggregates whatever subset of sources succeeded. Execution
// is strictly sequential; the verified store, gazetteer and tracker are
// loaded once at construction and touched by one source at a time.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/mbergner/oberfranken-events/internal/ai"
	"github.com/mbergner/oberfranken-events/internal/config"
	"github.com/mbergner/oberfranken-events/internal/event"
	"github.com/mbergner/oberfranken-events/internal/fetch"
	"github.com/mbergner/oberfranken-events/internal/gazetteer"
	"github.com/mbergner/oberfranken-events/internal/geoloc"
	"github.com/mbergner/oberfranken-events/internal/locstore"
	"github.com/mbergner/oberfranken-events/internal/logger"
	"github.com/mbergner/oberfranken-events/internal/ratelimit"
	"github.com/mbergner/oberfranken-events/internal/source"
)

// Orchestrator aggregates event candidates across all configured sources.
type Orchestrator struct {
	sources         []source.Config
	registry        *source.Registry
	deps            source.Deps
	gaz             *gazetteer.Gazetteer
	resolver        *geoloc.Resolver
	tracker         *locstore.Tracker
	remote          ai.Categorizer
	keywords        *ai.KeywordCategorizer
	defaultCategory string
	now             func() time.Time
	sleep           func(time.Duration)
}

// New builds an Orchestrator from the loaded configuration, reading the
// verified store and wiring the default source registry and categorizers.
func New(cfg *config.Config) (*Orchestrator, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	verified, err := locstore.LoadVerified(cfg.VerifiedLocationsPath())
	if err != nil {
		return nil, fmt.Errorf("loading verified locations: %w", err)
	}

	gaz := gazetteer.New()
	tracker := locstore.NewTracker(cfg.UnverifiedLocationsPath(), verified)

	var remote ai.Categorizer
	if cfg.AI.Enabled {
		limiter := ratelimit.New(
			time.Duration(cfg.RateLimit.MinDelayMS)*time.Millisecond,
			time.Duration(cfg.RateLimit.MaxDelayMS)*time.Millisecond,
			cfg.RateLimit.MaxRequestsPerSession,
		)
		remote = ai.NewHTTPCategorizer(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model,
			time.Duration(cfg.AI.TimeoutSeconds)*time.Second, limiter)
	}

	return NewWithDeps(Deps{
		Sources:         cfg.Sources,
		Registry:        source.NewDefaultRegistry(),
		SourceDeps:      source.Deps{Client: fetch.NewClient(), UserAgent: cfg.Scrape.UserAgent},
		Gazetteer:       gaz,
		Resolver:        geoloc.NewResolver(verified, gaz, tracker),
		Tracker:         tracker,
		Remote:          remote,
		DefaultCategory: cfg.Scrape.DefaultCategory,
	}), nil
}

// Deps carries the orchestrator's collaborators, exposed so tests can
// substitute their own.
type Deps struct {
	Sources         []source.Config
	Registry        *source.Registry
	SourceDeps      source.Deps
	Gazetteer       *gazetteer.Gazetteer
	Resolver        *geoloc.Resolver
	Tracker         *locstore.Tracker
	Remote          ai.Categorizer
	DefaultCategory string
	Now             func() time.Time
	Sleep           func(time.Duration)
}

// NewWithDeps builds an Orchestrator from explicit collaborators.
func NewWithDeps(d Deps) *Orchestrator {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	return &Orchestrator{
		sources:         d.Sources,
		registry:        d.Registry,
		deps:            d.SourceDeps,
		gaz:             d.Gazetteer,
		resolver:        d.Resolver,
		tracker:         d.Tracker,
		remote:          d.Remote,
		keywords:        ai.NewKeywordCategorizer(d.DefaultCategory),
		defaultCategory: d.DefaultCategory,
		now:             d.Now,
		sleep:           d.Sleep,
	}
}

// Tracker exposes the unresolved-location accumulator so the CLI can save
// it and print the review hint after a run.
func (o *Orchestrator) Tracker() *locstore.Tracker {
	return o.tracker
}

// Run scrapes all enabled sources in order and returns the aggregate
// enriched candidate list. A failing source is logged and skipped; the run
// itself always completes with whatever subset succeeded.
func (o *Orchestrator) Run(ctx context.Context) []*event.Candidate {
	var results []*event.Candidate

	for i, cfg := range o.sources {
		if !cfg.Enabled {
			continue
		}

		// Per-source rate-limit override: pause before hitting the host.
		if i > 0 && cfg.Options.RateLimitMS > 0 {
			o.sleep(time.Duration(cfg.Options.RateLimitMS) * time.Millisecond)
		}

		ctor, ok := o.registry.Handler(cfg)
		if !ok {
			logger.Warn("no handler registered, using generic fallback", logger.Fields{
				"source": cfg.Name,
				"type":   cfg.Type,
			})
			ctor = o.registry.Fallback()
			if ctor == nil {
				logger.Error("no fallback handler available", logger.Fields{"source": cfg.Name}, nil)
				continue
			}
		}

		candidates, err := scrape(ctor(cfg, o.deps))
		if err != nil {
			logger.Error("source failed", logger.Fields{"source": cfg.Name}, err)
			logger.IncrCounter("sources.failed")
			continue
		}

		now := o.now()
		kept := source.ApplyFilters(candidates, cfg.Options, now)
		kept = source.Dedup(kept, cfg.Options.DedupFields)

		for _, c := range kept {
			o.enrich(ctx, c, cfg)
		}

		logger.Info("source scraped", logger.Fields{
			"source":   cfg.Name,
			"scraped":  len(candidates),
			"kept":     len(kept),
			"filtered": len(candidates) - len(kept),
		})
		logger.IncrCounter("sources.succeeded")
		logger.AddCounter("events.aggregated", int64(len(kept)))

		results = append(results, kept...)
	}

	return results
}

// scrape invokes a source and converts panics into errors so one broken
// handler cannot abort the run.
func scrape(src source.Source) (candidates []*event.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scrape panicked: %v", r)
		}
	}()
	return src.Scrape()
}

// enrich defaults the category and resolves the location of one candidate.
func (o *Orchestrator) enrich(ctx context.Context, c *event.Candidate, cfg source.Config) {
	if c.Category == "" {
		c.Category = o.categorize(ctx, c, cfg.Options)
	}

	var lat, lon *float64
	if c.MapEmbedURL != "" {
		if la, lo, ok := geoloc.ExtractFromIframe(c.MapEmbedURL); ok {
			lat, lon = &la, &lo
		}
	}

	name, address := c.LocationName, c.LocationAddress
	if name == "" && address == "" && cfg.Options.DefaultLocation != "" {
		name = cfg.Options.DefaultLocation
	}

	resolved := o.resolver.Resolve(name, address, lat, lon, cfg.Name)
	if resolved.Lat != nil && geoloc.IsAmbiguous(resolved.Name) {
		resolved = geoloc.Disambiguate(resolved, o.gaz)
	}
	c.Location = resolved

	logger.IncrCounter("resolve." + string(resolved.Method))
	if resolved.NeedsReview {
		logger.IncrCounter("resolve.needs_review")
	}
}

// categorize tries the remote provider first when one is configured and
// always falls back to the local keyword table, so categorization never
// fails the run. A per-source ai_provider of "keyword" or "none" skips the
// remote call entirely.
func (o *Orchestrator) categorize(ctx context.Context, c *event.Candidate, opts source.Options) string {
	useRemote := o.remote != nil
	switch opts.AIProvider {
	case "keyword", "none":
		useRemote = false
	}

	if useRemote {
		category, _, err := o.remote.Categorize(ctx, c.Title, c.Description)
		if err == nil {
			return category
		}
		logger.Warn("remote categorization failed, using keyword fallback", logger.Fields{
			"event": c.Title,
		})
	}

	category, _, _ := o.keywords.Categorize(ctx, c.Title, c.Description)
	return category
}
