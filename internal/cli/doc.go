// Package cli implements the command-line interface for oberfranken-events.
//
// The cli package provides the Cobra-based CLI with the scan command, which
// runs the full scrape/filter/geolocate pipeline and emits the enriched
// event list as text or JSON, and the locations command, which renders the
// tracked unresolved venues for editorial review. It coordinates the
// config, orchestrator and locstore packages.
package cli
