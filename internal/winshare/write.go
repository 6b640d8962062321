package winshare

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// SummaryHeader is the column layout WriteSummaries emits.
func SummaryHeader() []string {
	h := []string{"Season", "Team"}
	for _, n := range TopNs {
		h = append(h, fmt.Sprintf("top_%d_avg_age", n))
	}
	for _, n := range TopNs {
		h = append(h, fmt.Sprintf("top_%d_sum_ows", n))
	}
	for _, n := range TopNs {
		h = append(h, fmt.Sprintf("top_%d_sum_dws", n))
	}
	return h
}

// WriteSummaries writes one CSV line per group. Null means are left blank.
func WriteSummaries(w io.Writer, sums []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader()); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, s := range sums {
		rec := []string{s.Season, s.Team}
		for _, t := range s.Tiers {
			rec = append(rec, formatNull(t.AvgAge))
		}
		for _, t := range s.Tiers {
			rec = append(rec, formatFloat(t.SumOWS))
		}
		for _, t := range s.Tiers {
			rec = append(rec, formatFloat(t.SumDWS))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv row %s %s: %w", s.Season, s.Team, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatNull(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Float64)
}
