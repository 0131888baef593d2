// Package event provides the candidate record that flows through the
// pipeline.
//
// A candidate is the normalized form of one raw event announcement: title,
// free-text description, a location hint (venue name, raw address and/or
// map-embed URL) and timing. Each candidate carries a deterministic
// SHA1-based ID generated from its source name, normalized title and start
// time, enabling reliable deduplication across scrapes.
package event
