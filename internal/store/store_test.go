package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-winshares/internal/winshare"
)

func num(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

func fixture(t *testing.T) ([]winshare.Row, []winshare.Summary) {
	t.Helper()
	rows := []winshare.Row{
		winshare.NewRow("2022/2023", "BOS", num(25), num(4), num(2)),
		winshare.NewRow("2022/2023", "BOS", sql.NullFloat64{}, num(1), sql.NullFloat64{}),
		winshare.NewRow("2023/2024", "LAL", num(30), num(3), num(1)),
	}
	sums, err := winshare.SummarizeAll(rows)
	require.NoError(t, err)
	return rows, sums
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	rows, sums := fixture(t)

	run, err := s.SaveRun(ctx, "combined.csv", rows, sums)
	require.NoError(t, err)
	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, run.RowCount)
	assert.Equal(t, 2, run.GroupCount)

	n, err := s.RowCount(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.Summaries(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, sums, got)

	bos := got[0]
	top8, ok := bos.Tier(8)
	require.True(t, ok)
	assert.InDelta(t, 7.0, bos.TotalContrib, 1e-9, "half-null row counts its OWS")
	assert.InDelta(t, bos.TotalContrib, top8.Contrib(), 1e-9)
}

func TestSaveRun_SeparateRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "winshares.db")
	ctx := context.Background()
	rows, sums := fixture(t)

	s, err := Open(path)
	require.NoError(t, err)
	first, err := s.SaveRun(ctx, "a.csv", rows, sums)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening applies no new migrations and keeps earlier runs.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	second, err := s.SaveRun(ctx, "b.csv", rows[:1], sums[:1])
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	n, err := s.RowCount(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.Summaries(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, winshare.Key{Season: "2022/2023", Team: "BOS"}, got[0].Key)
}
