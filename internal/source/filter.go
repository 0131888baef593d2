package source

import (
	"regexp"
	"strings"
	"time"

	"github.com/mbergner/oberfranken-events/internal/event"
)

// adPatterns flag announcements that are advertising rather than events.
var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\banzeige\b`),
	regexp.MustCompile(`(?i)\bwerbung\b`),
	regexp.MustCompile(`(?i)\bsponsored\b`),
	regexp.MustCompile(`(?i)\bgewinnspiel\b`),
	regexp.MustCompile(`(?i)\brabatt\b`),
}

// ApplyFilters applies the per-source options to a candidate list:
// exclude keywords, include keywords, the ad-pattern filter and the
// days-ahead date window relative to now. Candidates with unparseable
// start times pass the window check; missing data is not an error here.
func ApplyFilters(cands []*event.Candidate, opts Options, now time.Time) []*event.Candidate {
	kept := make([]*event.Candidate, 0, len(cands))
	for _, c := range cands {
		if !passesFilters(c, opts, now) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func passesFilters(c *event.Candidate, opts Options, now time.Time) bool {
	text := strings.ToLower(c.Title + " " + c.Description)

	for _, kw := range opts.ExcludeKeywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}

	if len(opts.IncludeKeywords) > 0 {
		matched := false
		for _, kw := range opts.IncludeKeywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if opts.FilterAds {
		for _, p := range adPatterns {
			if p.MatchString(c.Title) || p.MatchString(c.Description) {
				return false
			}
		}
	}

	return withinDateWindow(c.StartTime, opts, now)
}

func withinDateWindow(startTime string, opts Options, now time.Time) bool {
	if opts.MinDaysAhead == 0 && opts.MaxDaysAhead == 0 {
		return true
	}
	start, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		if start, err = time.Parse("2006-01-02", startTime); err != nil {
			return true
		}
	}

	daysAhead := start.Sub(now).Hours() / 24
	if daysAhead < float64(opts.MinDaysAhead) {
		return false
	}
	if opts.MaxDaysAhead > 0 && daysAhead > float64(opts.MaxDaysAhead) {
		return false
	}
	return true
}

// Dedup removes duplicate candidates. The key is built from the configured
// dedup fields; with none configured it defaults to title plus start time.
// The first occurrence wins.
func Dedup(cands []*event.Candidate, fields []string) []*event.Candidate {
	if len(fields) == 0 {
		fields = []string{"title", "start_time"}
	}

	seen := make(map[string]bool, len(cands))
	unique := make([]*event.Candidate, 0, len(cands))
	for _, c := range cands {
		key := dedupKey(c, fields)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}

func dedupKey(c *event.Candidate, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "title":
			parts = append(parts, strings.ToLower(strings.TrimSpace(c.Title)))
		case "start_time":
			parts = append(parts, c.StartTime)
		case "location":
			parts = append(parts, strings.ToLower(c.LocationHint()))
		case "source_url":
			parts = append(parts, c.SourceURL)
		case "description":
			parts = append(parts, strings.ToLower(strings.TrimSpace(c.Description)))
		}
	}
	return strings.Join(parts, "|")
}
