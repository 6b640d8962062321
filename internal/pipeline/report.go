package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"nba-winshares/internal/config"
	"nba-winshares/internal/report"
	"nba-winshares/internal/store"
	"nba-winshares/internal/winshare"
)

// ReportResult describes a completed report run.
type ReportResult struct {
	Rows   int
	Groups int
	Teams  int
	RunID  string
}

// Report loads the combined CSV, summarises every (season, team) group and
// writes whichever outputs are configured. The overview table always goes to
// out.
func Report(ctx context.Context, cfg *config.Config, out io.Writer) (*ReportResult, error) {
	logger := config.Logger(ctx)
	in := cfg.InputPath()

	f, err := os.Open(in)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	rows, err := winshare.LoadRows(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", in, err)
	}

	sums, err := winshare.SummarizeAll(rows)
	if err != nil {
		return nil, err
	}
	logger.Debug("summarised groups", slog.Int("rows", len(rows)), slog.Int("groups", len(sums)))

	if cfg.Summaries != "" {
		if err := writeSummaries(cfg.Summaries, sums); err != nil {
			return nil, err
		}
		logger.Info("wrote summaries", slog.String("path", cfg.Summaries))
	}

	series := report.Shares(sums)
	if cfg.Workbook != "" && len(series) > 0 {
		if err := report.WriteWorkbook(cfg.Workbook, series); err != nil {
			return nil, err
		}
		logger.Info("wrote workbook", slog.String("path", cfg.Workbook), slog.Int("teams", len(series)))
	}

	res := &ReportResult{Rows: len(rows), Groups: len(sums), Teams: len(series)}
	if cfg.Database != "" {
		st, err := store.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		run, err := st.SaveRun(ctx, in, rows, sums)
		if err != nil {
			return nil, err
		}
		res.RunID = run.ID
		logger.Info("saved run", slog.String("database", cfg.Database), slog.String("run_id", run.ID))
	}

	report.RenderOverview(out, series)
	success(out, "Summarised %d groups across %d teams from %s", len(sums), len(series), in)
	return res, nil
}

func writeSummaries(path string, sums []winshare.Summary) error {
	return writeFile(path, func(w io.Writer) error {
		return winshare.WriteSummaries(w, sums)
	})
}
