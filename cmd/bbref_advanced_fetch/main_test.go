package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-winshares/internal/bbref"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestRootCmd(t *testing.T) {
	dir := chdirTemp(t)

	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.UserAgent())
		var year int
		if _, err := fmt.Sscanf(r.URL.Path, "/leagues/NBA_%d_advanced.html", &year); err != nil {
			http.NotFound(w, r)
			return
		}
		// Only the second default id, so the fallback must come from the flag default.
		fmt.Fprintf(w, `<html><body><table id="advanced"><thead><tr>
<th>Player</th><th>Age</th><th>Team</th><th>OWS</th><th>DWS</th></tr></thead>
<tbody><tr><td>A</td><td>25</td><td>DEN</td><td>%d.0</td><td>1.0</td></tr></tbody></table></body></html>`, year-2020)
	}))
	defer srv.Close()

	output := filepath.Join(dir, "data", "advanced.csv")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{
		"--base-url", srv.URL,
		"--start-year", "2024",
		"--end-year", "2023",
		"-o", output,
	})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, []string{bbref.DefaultUserAgent, bbref.DefaultUserAgent}, agents)
	assert.Contains(t, out.String(), "Scraping 2024...\nScraping 2023...\n")
	assert.Contains(t, out.String(), "Successfully saved combined data to "+output)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, []string{
		"Player,Age,Team,OWS,DWS,Season",
		"A,25,DEN,4.0,1.0,2023/2024",
		"A,25,DEN,3.0,1.0,2022/2023",
	}, lines)
}

func TestRootCmd_TableIDsFlag(t *testing.T) {
	dir := chdirTemp(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table id="advanced"><thead><tr><th>Team</th></tr></thead>
<tbody><tr><td>DEN</td></tr></tbody></table></body></html>`)
	}))
	defer srv.Close()

	output := filepath.Join(dir, "advanced.csv")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--base-url", srv.URL,
		"--start-year", "2024",
		"--end-year", "2024",
		"--table-ids", "per_game_stats,totals_stats",
		"--output", output,
	})
	err := cmd.Execute()
	assert.ErrorIs(t, err, bbref.ErrNoTables)
	assert.Contains(t, out.String(), "No tables were found")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootCmd_InvalidRange(t *testing.T) {
	chdirTemp(t)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--start-year", "2000", "--end-year", "2010"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
