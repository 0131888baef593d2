package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mbergner/oberfranken-events/internal/event"
)

// OutputFormat selects the scan output rendering
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult is the aggregate scan result handed to the editorial queue.
type OutputResult struct {
	CheckedAt   time.Time          `json:"checked_at"`
	Events      []*event.Candidate `json:"events"`
	EventCount  int                `json:"event_count"`
	NeedsReview int                `json:"needs_review_count"`
	Counters    map[string]int64   `json:"counters,omitempty"`
}

// WriteOutput renders the scan result in the requested format.
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeText(w, result, verbose)
}

func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	fmt.Fprintf(w, "%d events (%d need location review):\n\n", result.EventCount, result.NeedsReview)

	for _, e := range result.Events {
		fmt.Fprintf(w, "  %s  %s", e.StartTime, e.Title)
		if e.Category != "" {
			fmt.Fprintf(w, " [%s]", e.Category)
		}
		fmt.Fprintln(w)

		if loc := e.Location; loc != nil {
			switch {
			case loc.Lat != nil && loc.Lon != nil:
				fmt.Fprintf(w, "      %s (%.4f, %.4f) via %s", loc.Name, *loc.Lat, *loc.Lon, loc.Method)
			case loc.Name != "":
				fmt.Fprintf(w, "      %s (unresolved)", loc.Name)
			default:
				fmt.Fprintf(w, "      (no location)")
			}
			if loc.NeedsReview {
				fmt.Fprint(w, " *review*")
			}
			fmt.Fprintln(w)
		}

		if verbose {
			fmt.Fprintf(w, "      source: %s (%s)\n", e.SourceName, e.SourceURL)
		}
	}
	return nil
}
