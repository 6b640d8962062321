package bbref

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Concat stacks tables in order. Columns are matched by name; the result has
// the union of columns in first-seen order and blanks where a table lacks one.
func Concat(tables []*Table) *Table {
	out := &Table{}
	pos := map[string]int{}
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := pos[c]; !ok {
				pos[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}
	for _, t := range tables {
		for _, r := range t.Rows {
			row := make([]string, len(out.Columns))
			for i, c := range t.Columns {
				if i < len(r) {
					row[pos[c]] = r[i]
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// WriteCSV writes the header then every row.
func WriteCSV(w io.Writer, t *Table) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return 0, fmt.Errorf("csv header: %w", err)
	}
	wrote := 0
	for _, r := range t.Rows {
		if err := cw.Write(r); err != nil {
			return wrote, fmt.Errorf("csv row %d: %w", wrote, err)
		}
		wrote++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return wrote, fmt.Errorf("csv flush: %w", err)
	}
	return wrote, nil
}
