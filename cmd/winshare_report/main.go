package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

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
		Use:   "winshare_report",
		Short: "Summarise how win shares concentrate in each team's top players",
		Long: `Reads the combined advanced stats CSV, groups players by (Season, Team) and
computes, for the top 2, 3, 5 and 8 players by OWS+DWS, their average age and
summed OWS and DWS. Groups smaller than N use every player.

Prints a per-team overview and optionally writes the summaries as CSV, an
Excel workbook with one share chart per team, and a SQLite export.`,
		Example: `  # Overview only, reading the default fetch output
  winshare_report

  # Everything
  winshare_report --input nba_advanced_2000_to_2023.csv \
    --summaries team_summaries.csv --workbook shares.xlsx --database winshares.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			ctx := config.WithLogger(cmd.Context(), cfg.NewLogger(cmd.ErrOrStderr()))
			_, err = pipeline.Report(ctx, cfg, cmd.OutOrStdout())
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfgFile, "config", "", "config file (default: ./winshares.yaml)")
	fs.StringP("input", "i", "", "Combined CSV to read (default: the fetch output path)")
	fs.String("summaries", "", "Write per-group summaries CSV here")
	fs.String("workbook", "", "Write the per-team share charts (.xlsx) here")
	fs.String("database", "", "Export rows and summaries to this SQLite file")
	fs.BoolP("verbose", "v", false, "Debug logging")
	fs.String("log-format", "text", "Log format (text|json)")

	return cmd
}

func die(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}
