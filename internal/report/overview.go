package report

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderOverview prints each team's mean top-N share across its seasons.
func RenderOverview(w io.Writer, series []TeamSeries) {
	if len(series) == 0 {
		_, _ = fmt.Fprintln(w, "(0 teams)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{"Team", "Seasons"}
	for _, n := range ShareNs {
		header = append(header, fmt.Sprintf("Top %d %%", n))
	}
	t.AppendHeader(header)

	configs := []table.ColumnConfig{{Number: 2, Align: text.AlignRight}}
	for i := range ShareNs {
		configs = append(configs, table.ColumnConfig{Number: i + 3, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	for _, ts := range series {
		row := table.Row{ts.Team, len(ts.Points)}
		for i := range ShareNs {
			row = append(row, formatPct(ts.MeanPct(i)))
		}
		t.AppendRow(row)
	}
	t.Render()
}

func formatPct(v sql.NullFloat64) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1f", v.Float64)
}
