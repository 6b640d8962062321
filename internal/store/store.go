// Package store exports loaded rows and group summaries to SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"nba-winshares/internal/winshare"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Run describes one export.
type Run struct {
	ID         string
	Source     string
	RowCount   int
	GroupCount int
	CreatedAt  time.Time
}

// Store is a SQLite export target.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A memory database lives on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes rows and summaries under a fresh run id in one transaction.
func (s *Store) SaveRun(ctx context.Context, source string, rows []winshare.Row, sums []winshare.Summary) (*Run, error) {
	run := &Run{
		ID:         uuid.New().String(),
		Source:     source,
		RowCount:   len(rows),
		GroupCount: len(sums),
		CreatedAt:  time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, row_count, group_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.RowCount, run.GroupCount, run.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	rowStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO player_seasons (run_id, ord, season, team, age, ows, dws, contrib) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare rows: %w", err)
	}
	defer rowStmt.Close()
	for i, r := range rows {
		if _, err := rowStmt.ExecContext(ctx, run.ID, i, r.Season, r.Team, r.Age, r.OWS, r.DWS, r.Contrib); err != nil {
			return nil, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	sumStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO group_summaries (run_id, season, team, size, total_contrib, top_n, avg_age, sum_ows, sum_dws)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare summaries: %w", err)
	}
	defer sumStmt.Close()
	for _, sm := range sums {
		for _, t := range sm.Tiers {
			if _, err := sumStmt.ExecContext(ctx, run.ID, sm.Season, sm.Team, sm.Size, sm.TotalContrib,
				t.N, t.AvgAge, t.SumOWS, t.SumDWS); err != nil {
				return nil, fmt.Errorf("insert summary %s %s top %d: %w", sm.Season, sm.Team, t.N, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// Summaries reads back the summaries of a run, ordered by season, team.
func (s *Store) Summaries(ctx context.Context, runID string) ([]winshare.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT season, team, size, total_contrib, top_n, avg_age, sum_ows, sum_dws
		 FROM group_summaries WHERE run_id = ? ORDER BY season, team, top_n`, runID)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []winshare.Summary
	for rows.Next() {
		var (
			k    winshare.Key
			size int
			tot  float64
			t    winshare.Tier
		)
		if err := rows.Scan(&k.Season, &k.Team, &size, &tot, &t.N, &t.AvgAge, &t.SumOWS, &t.SumDWS); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].Key != k {
			out = append(out, winshare.Summary{Key: k, Size: size, TotalContrib: tot})
		}
		out[len(out)-1].Tiers = append(out[len(out)-1].Tiers, t)
	}
	return out, rows.Err()
}

// RowCount returns how many player rows a run stored.
func (s *Store) RowCount(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM player_seasons WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}
