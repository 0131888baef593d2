package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbergner/oberfranken-events/internal/config"
	"github.com/mbergner/oberfranken-events/internal/logger"
	"github.com/mbergner/oberfranken-events/internal/orchestrator"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitNeedsReview = 2
)

var (
	flagConfig  string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oberfranken-events",
		Short: "Aggregate and geolocate event announcements from regional sources",
		Long: `A batch pipeline that scrapes event announcements from configured
regional sources, filters them, resolves venue locations against the
gazetteer and the verified venue store, and emits review-ready records.`,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "~/.config/oberfranken-events/config.toml", "Path to the TOML configuration file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newLocationsCmd())

	return cmd
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scrape all enabled sources and emit enriched events",
		RunE:  runScan,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

// runScan is the main pipeline entry point.
func runScan(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	orch, err := orchestrator.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing orchestrator: %w", err)
	}

	events := orch.Run(context.Background())

	if err := orch.Tracker().Save(); err != nil {
		return fmt.Errorf("saving unverified locations: %w", err)
	}
	if hint := orch.Tracker().HintMessage(); hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}

	needsReview := 0
	for _, e := range events {
		if e.Location != nil && e.Location.NeedsReview {
			needsReview++
		}
	}

	result := &OutputResult{
		CheckedAt:   time.Now().UTC(),
		Events:      events,
		EventCount:  len(events),
		NeedsReview: needsReview,
		Counters:    logger.CounterSnapshot(),
	}

	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if needsReview > 0 {
		os.Exit(ExitNeedsReview)
	}
	os.Exit(ExitSuccess)
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
