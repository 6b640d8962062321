// Package winshare groups player seasons by team and measures how much of a
// team's win shares its top players hold.
package winshare

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Row is one player-season line. Numbers that did not parse are null.
type Row struct {
	Season  string
	Team    string
	Age     sql.NullFloat64
	OWS     sql.NullFloat64
	DWS     sql.NullFloat64
	Contrib sql.NullFloat64
}

// NewRow derives Contrib as OWS + DWS, null when either side is.
func NewRow(season, team string, age, ows, dws sql.NullFloat64) Row {
	r := Row{Season: season, Team: team, Age: age, OWS: ows, DWS: dws}
	if ows.Valid && dws.Valid {
		r.Contrib = sql.NullFloat64{Float64: ows.Float64 + dws.Float64, Valid: true}
	}
	return r
}

// Coerce parses s as a float, returning null for anything non-numeric.
func Coerce(s string) sql.NullFloat64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// Required columns. Older exports label the team column "Tm".
var (
	RequiredCols         = []string{"Season", "Team", "Age", "OWS", "DWS"}
	RequiredColsFallback = []string{"Season", "Tm", "Age", "OWS", "DWS"}
)

// LoadRows reads a combined advanced-stats CSV.
func LoadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header, RequiredCols)
	if err != nil {
		idx, err = columnIndex(header, RequiredColsFallback)
		if err != nil {
			return nil, err
		}
	}

	cell := func(rec []string, i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		rows = append(rows, NewRow(
			strings.TrimSpace(cell(rec, idx[0])),
			strings.TrimSpace(cell(rec, idx[1])),
			Coerce(cell(rec, idx[2])),
			Coerce(cell(rec, idx[3])),
			Coerce(cell(rec, idx[4])),
		))
	}
	return rows, nil
}

func columnIndex(header, want []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}
	out := make([]int, len(want))
	var missing []string
	for i, w := range want {
		p, ok := pos[w]
		if !ok {
			missing = append(missing, w)
			continue
		}
		out[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns missing: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
