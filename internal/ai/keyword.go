package ai

import (
	"context"
	"strings"
)

type keywordRule struct {
	category string
	keywords []string
}

// Rule order matters: the first category with a keyword hit wins, so the
// more specific categories come first.
var keywordRules = []keywordRule{
	{"Kinder", []string{"kinder", "familien", "ferienprogramm", "puppentheater", "kasperl"}},
	{"Konzert", []string{"konzert", "musik", "band", "chor", "orchester", "open air", "jazz", "rock"}},
	{"Theater", []string{"theater", "schauspiel", "bühne", "kabarett", "comedy", "oper"}},
	{"Markt", []string{"markt", "flohmarkt", "basar", "messe", "börse"}},
	{"Fest", []string{"fest", "kirchweih", "kerwa", "feier", "jubiläum", "fasching"}},
	{"Sport", []string{"sport", "turnier", "lauf", "wanderung", "fußball", "tennis", "radeln"}},
	{"Vortrag", []string{"vortrag", "lesung", "seminar", "workshop", "kurs", "führung"}},
}

// KeywordCategorizer labels events from a fixed keyword table. It never
// returns an error, which makes it the terminal fallback when a remote
// provider is unavailable.
type KeywordCategorizer struct {
	defaultCategory string
}

// NewKeywordCategorizer creates the local categorizer. An empty
// defaultCategory falls back to DefaultCategory.
func NewKeywordCategorizer(defaultCategory string) *KeywordCategorizer {
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return &KeywordCategorizer{defaultCategory: defaultCategory}
}

// Categorize scans title and description for category keywords. Confidence
// is 0.5 on a keyword hit and 0.1 for the default label.
func (k *KeywordCategorizer) Categorize(_ context.Context, title, description string) (string, float64, error) {
	text := strings.ToLower(title + " " + description)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category, 0.5, nil
			}
		}
	}
	return k.defaultCategory, 0.1, nil
}
