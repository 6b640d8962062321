package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoSeries = errors.New("no team series to render")

const maxSheetName = 31

// ChartTitle is the title of a team's chart.
func ChartTitle(team string) string {
	parts := make([]string, len(ShareNs))
	for i, n := range ShareNs {
		parts[i] = fmt.Sprintf("Top %d", n)
	}
	last := len(parts) - 1
	return fmt.Sprintf("Team %s: Win Share Split by %s, & %s Players",
		team, strings.Join(parts[:last], ", "), parts[last])
}

// WriteWorkbook saves one sheet per team holding the season table and a line
// chart of the top-N shares.
func WriteWorkbook(path string, series []TeamSeries) error {
	if len(series) == 0 {
		return ErrNoSeries
	}
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	used := map[string]bool{}
	for i, ts := range series {
		name := sheetName(ts.Team, used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
		if err := writeTeamSheet(f, name, ts); err != nil {
			return fmt.Errorf("team %s: %w", ts.Team, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeTeamSheet(f *excelize.File, sheet string, ts TeamSeries) error {
	header := []any{"Season"}
	for _, n := range ShareNs {
		header = append(header, fmt.Sprintf("Top %d", n))
	}
	header = append(header, "Total")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, p := range ts.Points {
		row := r + 2
		if err := setCell(f, sheet, 1, row, p.Season); err != nil {
			return err
		}
		for i, pct := range p.Pct {
			if !pct.Valid {
				continue
			}
			if err := setCell(f, sheet, i+2, row, pct.Float64); err != nil {
				return err
			}
		}
		if err := setCell(f, sheet, len(ShareNs)+2, row, p.Total); err != nil {
			return err
		}
	}
	if len(ts.Points) == 0 {
		return nil
	}

	last := len(ts.Points) + 1
	ref := "'" + sheet + "'"
	chartSeries := make([]excelize.ChartSeries, 0, len(ShareNs))
	for i := range ShareNs {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		chartSeries = append(chartSeries, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", ref, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", ref, col, col, last),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
		})
	}
	anchor, err := excelize.CoordinatesToCellName(len(ShareNs)+4, 2)
	if err != nil {
		return err
	}
	return f.AddChart(sheet, anchor, &excelize.Chart{
		Type:   excelize.Line,
		Series: chartSeries,
		Title:  []excelize.RichTextRun{{Text: ChartTitle(ts.Team)}},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Season"}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Percentage of Total Win Shares (%)"}},
		},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 800, Height: 480},
	})
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_", "'", "",
)

// sheetName makes a valid, unique Excel sheet name from a team code. The
// 31-character limit counts runes.
func sheetName(team string, used map[string]bool) string {
	base := []rune(sheetNameReplacer.Replace(team))
	if len(base) == 0 {
		base = []rune("Team")
	}
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	name := string(base)
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		cut := min(len(base), maxSheetName-len(suffix))
		name = string(base[:cut]) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
