package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nba-winshares/internal/bbref"
	"nba-winshares/internal/config"
	"nba-winshares/internal/pipeline"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		die("Error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bbref_advanced_fetch",
		Short: "Scrape Basketball-Reference advanced stats into one CSV",
		Long: `Fetches the league advanced stats page for every season from --start-year
down to --end-year, tags each row with its season ("2022/2023") and writes
the concatenated table as CSV.

A season whose page lacks the table is skipped. Any HTTP error aborts the run.`,
		Example: `  # Default range 2024..2000
  bbref_advanced_fetch

  # A few seasons into a custom file
  bbref_advanced_fetch --start-year 2024 --end-year 2020 --output data/recent.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			ctx := config.WithLogger(cmd.Context(), cfg.NewLogger(cmd.ErrOrStderr()))
			_, err = pipeline.Fetch(ctx, cfg, cmd.OutOrStdout())
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfgFile, "config", "", "config file (default: ./winshares.yaml)")
	fs.Int("start-year", config.DefaultStartYear, "First season end year (YYYY), fetched first")
	fs.Int("end-year", config.DefaultEndYear, "Last season end year (YYYY), inclusive")
	fs.String("base-url", bbref.DefaultBaseURL, "Site base URL")
	fs.StringSlice("table-ids", bbref.AdvancedTableIDs, "Table ids to look for, in order")
	fs.String("user-agent", bbref.DefaultUserAgent, "HTTP User-Agent")
	fs.Duration("timeout", 0, "HTTP timeout (0 = none)")
	fs.Int64("max-body", config.DefaultMaxBody, "Max response body bytes (0 = unlimited)")
	fs.StringP("output", "o", config.DefaultOutput, "Output CSV path")
	fs.BoolP("verbose", "v", false, "Debug logging")
	fs.String("log-format", "text", "Log format (text|json)")

	return cmd
}

func die(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}
