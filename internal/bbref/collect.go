package bbref

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// SeasonColumn is appended to every scraped row.
const SeasonColumn = "Season"

var ErrNoTables = errors.New("no tables were found")

// Getter is the part of Client the collector needs.
type Getter interface {
	Get(ctx context.Context, url string) (string, int, error)
}

// Collector walks a range of seasons one page at a time.
type Collector struct {
	client   Getter
	baseURL  string
	tableIDs []string
	progress io.Writer
	logger   *slog.Logger
}

// NewCollector wires a collector. Nil progress or logger discard output.
func NewCollector(client Getter, baseURL string, tableIDs []string, progress io.Writer, logger *slog.Logger) *Collector {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if len(tableIDs) == 0 {
		tableIDs = AdvancedTableIDs
	}
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{
		client:   client,
		baseURL:  baseURL,
		tableIDs: tableIDs,
		progress: progress,
		logger:   logger,
	}
}

// Scrape fetches one season. A missing table is not an error: it is logged
// and (nil, nil) is returned. Transport failures and non-2xx statuses are.
func (c *Collector) Scrape(ctx context.Context, year int) (*Table, error) {
	url := AdvancedURL(c.baseURL, year)
	page, code, err := c.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, &StatusError{URL: url, Code: code}
	}

	sel, id, err := ExtractTable(page, c.tableIDs...)
	if errors.Is(err, ErrTableNotFound) {
		c.logger.Warn("could not find the advanced stats table",
			slog.Int("year", year),
			slog.Any("table_ids", c.tableIDs))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", year, err)
	}

	t, err := ParseTable(sel)
	if err != nil {
		return nil, fmt.Errorf("season %d table %q: %w", year, id, err)
	}
	t.AddConstant(SeasonColumn, SeasonLabel(year))
	c.logger.Debug("parsed table",
		slog.Int("year", year),
		slog.String("table_id", id),
		slog.Int("rows", len(t.Rows)))
	return t, nil
}

// Result holds the tables in fetch order and the years that had none.
type Result struct {
	Tables  []*Table
	Missing []int
}

// Collect scrapes start down to end. The first fatal error stops the run.
func (c *Collector) Collect(ctx context.Context, start, end int) (*Result, error) {
	res := &Result{}
	for _, year := range Years(start, end) {
		fmt.Fprintf(c.progress, "Scraping %d...\n", year)
		t, err := c.Scrape(ctx, year)
		if err != nil {
			return nil, err
		}
		if t == nil {
			res.Missing = append(res.Missing, year)
			continue
		}
		res.Tables = append(res.Tables, t)
	}
	return res, nil
}
