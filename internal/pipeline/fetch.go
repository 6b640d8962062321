// Package pipeline runs the collect and report stages end to end.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"nba-winshares/internal/bbref"
	"nba-winshares/internal/config"
)

// FetchResult describes a completed collection run.
type FetchResult struct {
	Path    string
	Tables  int
	Rows    int
	Missing []int
}

// Fetch scrapes the configured season range and writes the combined CSV.
// When no season yields a table nothing is written and bbref.ErrNoTables is
// returned.
func Fetch(ctx context.Context, cfg *config.Config, out io.Writer) (*FetchResult, error) {
	logger := config.Logger(ctx)
	client := bbref.NewClient(cfg.Timeout, cfg.MaxBody, cfg.UserAgent)
	c := bbref.NewCollector(client, cfg.BaseURL, cfg.TableIDs, out, logger)

	res, err := c.Collect(ctx, cfg.StartYear, cfg.EndYear)
	if err != nil {
		return nil, err
	}
	if len(res.Tables) == 0 {
		failure(out, "No tables were found. Check if the table IDs have changed.")
		return nil, bbref.ErrNoTables
	}

	combined := bbref.Concat(res.Tables)
	if dir := filepath.Dir(cfg.Output); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	var wrote int
	err = writeFile(cfg.Output, func(w io.Writer) error {
		var err error
		wrote, err = bbref.WriteCSV(w, combined)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("collection finished",
		slog.Int("tables", len(res.Tables)),
		slog.Int("rows", wrote),
		slog.Any("missing_years", res.Missing))
	success(out, "Successfully saved combined data to %s", cfg.Output)

	return &FetchResult{
		Path:    cfg.Output,
		Tables:  len(res.Tables),
		Rows:    wrote,
		Missing: res.Missing,
	}, nil
}

// writeFile writes path through a temp file in the same directory, renamed
// into place only once write and close succeed. On failure path is untouched.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = f.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", f.Name(), err)
	}
	if err = write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
