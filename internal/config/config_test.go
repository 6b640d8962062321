package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("start-year", DefaultStartYear, "")
	fs.Int("end-year", DefaultEndYear, "")
	fs.String("output", DefaultOutput, "")
	fs.StringSlice("table-ids", nil, "")
	fs.Duration("timeout", 0, "")
	fs.Bool("verbose", false, "")
	return fs
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 2024, cfg.StartYear)
	assert.Equal(t, 2000, cfg.EndYear)
	assert.Equal(t, "https://www.basketball-reference.com", cfg.BaseURL)
	assert.Equal(t, "Mozilla/5.0", cfg.UserAgent)
	assert.Equal(t, []string{"advanced_stats", "advanced"}, cfg.TableIDs)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, "nba_advanced_2000_to_2023.csv", cfg.Output)
	assert.Equal(t, cfg.Output, cfg.InputPath())
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(`
start_year: 2015
end_year: 2010
output: from_file.csv
input: stats.csv
timeout: 20s
`), 0o644))

	t.Setenv("WINSHARES_END_YEAR", "2012")
	t.Setenv("WINSHARES_OUTPUT", "from_env.csv")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--output", "from_flag.csv", "--table-ids", "advanced"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, 2015, cfg.StartYear, "file beats default")
	assert.Equal(t, 2012, cfg.EndYear, "env beats file")
	assert.Equal(t, "from_flag.csv", cfg.Output, "flag beats env")
	assert.Equal(t, []string{"advanced"}, cfg.TableIDs)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, "stats.csv", cfg.InputPath())
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WINSHARES_START_YEAR", "2010")

	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 2010, cfg.StartYear)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("nope.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"start before end", func(c *Config) { c.StartYear = 1999 }, "StartYear"},
		{"end before league", func(c *Config) { c.EndYear = 1900; c.StartYear = 1901 }, "EndYear"},
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }, "BaseURL"},
		{"no table ids", func(c *Config) { c.TableIDs = nil }, "TableIDs"},
		{"blank table id", func(c *Config) { c.TableIDs = []string{""} }, "TableIDs[0]"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LogFormat"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "Timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				StartYear: 2024,
				EndYear:   2000,
				BaseURL:   "https://www.basketball-reference.com",
				UserAgent: "Mozilla/5.0",
				TableIDs:  []string{"advanced_stats"},
				Output:    "out.csv",
				LogFormat: "text",
			}
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogFormat: "json", Verbose: true}
	l := cfg.NewLogger(&buf)
	l.Debug("hello", "year", 2024)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"year":2024`)

	buf.Reset()
	cfg = &Config{LogFormat: "text"}
	cfg.NewLogger(&buf).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLoggerContext(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, Logger(ctx))

	var buf bytes.Buffer
	l := (&Config{LogFormat: "text"}).NewLogger(&buf)
	assert.Same(t, l, Logger(WithLogger(ctx, l)))
}
