package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mbergner/oberfranken-events/internal/config"
	"github.com/mbergner/oberfranken-events/internal/locstore"
)

var flagLocationsLimit int

func newLocationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List tracked unresolved locations, most frequent first",
		RunE:  runLocations,
	}
	cmd.Flags().IntVar(&flagLocationsLimit, "limit", 0, "Show at most this many locations (0 = all)")
	return cmd
}

func runLocations(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	entries, err := locstore.LoadUnverified(cfg.UnverifiedLocationsPath())
	if err != nil {
		return fmt.Errorf("loading unverified locations: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No unresolved locations tracked yet.")
		return nil
	}

	if flagLocationsLimit > 0 && len(entries) > flagLocationsLimit {
		entries = entries[:flagLocationsLimit]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Count", "Name", "Coordinates", "Sources", "Last Seen"})
	for _, e := range entries {
		coords := "-"
		if e.Lat != nil && e.Lon != nil {
			coords = fmt.Sprintf("%.4f, %.4f", *e.Lat, *e.Lon)
		}
		t.AppendRow(table.Row{
			e.OccurrenceCount,
			e.Name,
			coords,
			strings.Join(e.Sources, ", "),
			e.LastSeen,
		})
	}
	t.Render()
	return nil
}
