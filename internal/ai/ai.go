// Package ai provides best-effort event categorization. A remote
// chat-completion provider can be configured; the keyword categorizer is
// the always-available local fallback, so a provider outage never fails a
// run.
package ai

import (
	"context"
)

// Categorizer assigns a category label to free event text together with a
// confidence in [0,1].
type Categorizer interface {
	Categorize(ctx context.Context, title, description string) (category string, confidence float64, err error)
}

// Categories the pipeline knows. Sources may still deliver their own
// labels, which are kept as-is.
var Categories = []string{
	"Konzert",
	"Theater",
	"Markt",
	"Fest",
	"Sport",
	"Vortrag",
	"Kinder",
	"Sonstiges",
}

// DefaultCategory is used when no rule and no provider produces a label.
const DefaultCategory = "Sonstiges"
