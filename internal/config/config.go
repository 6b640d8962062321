// Package config loads settings for both binaries.
//
// Precedence, lowest to highest: defaults, config file, WINSHARES_* env vars,
// explicitly set flags.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"nba-winshares/internal/bbref"
)

const (
	EnvPrefix         = "WINSHARES_"
	DefaultConfigFile = "winshares.yaml"
	DefaultOutput     = "nba_advanced_2000_to_2023.csv"
	DefaultStartYear  = 2024
	DefaultEndYear    = 2000
	DefaultMaxBody    = 16 << 20
)

// Config holds every setting. Fields unused by a binary are ignored by it.
type Config struct {
	StartYear int           `koanf:"start_year" validate:"gtefield=EndYear"`
	EndYear   int           `koanf:"end_year" validate:"gte=1947"`
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	UserAgent string        `koanf:"user_agent" validate:"required"`
	TableIDs  []string      `koanf:"table_ids" validate:"min=1,dive,required"`
	Timeout   time.Duration `koanf:"timeout" validate:"gte=0"`
	MaxBody   int64         `koanf:"max_body" validate:"gte=0"`

	Output    string `koanf:"output" validate:"required"`
	Input     string `koanf:"input"`
	Summaries string `koanf:"summaries"`
	Workbook  string `koanf:"workbook"`
	Database  string `koanf:"database"`

	Verbose   bool   `koanf:"verbose"`
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`
}

// InputPath is where the report stage reads from: Input, or the collector's
// Output when unset.
func (c *Config) InputPath() string {
	if c.Input != "" {
		return c.Input
	}
	return c.Output
}

func defaults() map[string]any {
	return map[string]any{
		"start_year": DefaultStartYear,
		"end_year":   DefaultEndYear,
		"base_url":   bbref.DefaultBaseURL,
		"user_agent": bbref.DefaultUserAgent,
		"table_ids":  slices.Clone(bbref.AdvancedTableIDs),
		"timeout":    "0s",
		"max_body":   DefaultMaxBody,
		"output":     DefaultOutput,
		"log_format": "text",
	}
}

// Load builds a Config. cfgFile may be empty, in which case winshares.yaml is
// read from the working directory if present.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// WINSHARES_START_YEAR -> start_year
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

var validate = validator.New()

// Validate checks struct tags and reports every failing field.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// NewLogger builds the stderr logger the binaries use.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

type loggerKey struct{}

// WithLogger stores a logger in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger retrieves the logger from ctx, or a discard logger.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
