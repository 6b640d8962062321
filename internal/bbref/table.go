package bbref

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

var ErrTableNotFound = errors.New("table not found")

// Table is a scraped table in row order. Every row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddConstant appends a column holding the same value on every row.
func (t *Table) AddConstant(name, value string) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// ExtractTable finds the first table matching one of ids, in order.
// Sports-Reference ships some tables inside HTML comments, so when the live
// DOM has no match the page is searched again with comment markers removed.
func ExtractTable(page string, ids ...string) (*goquery.Selection, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, "", fmt.Errorf("parse html: %w", err)
	}
	if sel, id := findByID(doc, ids); sel != nil {
		return sel, id, nil
	}

	if !strings.Contains(page, "<!--") {
		return nil, "", ErrTableNotFound
	}
	clean := strings.ReplaceAll(page, "<!--", "")
	clean = strings.ReplaceAll(clean, "-->", "")
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return nil, "", fmt.Errorf("parse uncommented html: %w", err)
	}
	if sel, id := findByID(doc, ids); sel != nil {
		return sel, id, nil
	}
	return nil, "", ErrTableNotFound
}

func findByID(doc *goquery.Document, ids []string) (*goquery.Selection, string) {
	for _, id := range ids {
		sel := doc.Find(fmt.Sprintf(`table[id=%q]`, id))
		if sel.Length() > 0 {
			return sel.First(), id
		}
	}
	return nil, ""
}

// ParseTable reads the header from the last <thead> row and the data from
// <tbody> and <tfoot>. Header rows repeated inside the body are skipped.
func ParseTable(tbl *goquery.Selection) (*Table, error) {
	hdr := tbl.Find("thead tr").Last()
	if hdr.Length() == 0 {
		hdr = tbl.Find("tr").First()
	}
	var raw []string
	hdr.Find("th,td").Each(func(_ int, c *goquery.Selection) {
		raw = append(raw, cellText(c))
	})
	if len(raw) == 0 {
		return nil, errors.New("table has no header row")
	}
	t := &Table{Columns: columnNames(raw)}

	tbl.Find("tbody tr, tfoot tr").Each(func(_ int, tr *goquery.Selection) {
		if isHeaderRow(tr) {
			return
		}
		row := make([]string, len(t.Columns))
		i := 0
		tr.Find("th,td").Each(func(_ int, c *goquery.Selection) {
			if i < len(row) {
				row[i] = cellText(c)
			}
			i++
		})
		if i == 0 {
			return
		}
		t.Rows = append(t.Rows, row)
	})
	return t, nil
}

func isHeaderRow(tr *goquery.Selection) bool {
	for _, cl := range strings.Fields(tr.AttrOr("class", "")) {
		if cl == "thead" || cl == "over_header" {
			return true
		}
	}
	return false
}

func cellText(c *goquery.Selection) string {
	return norm.NFC.String(strings.TrimSpace(c.Text()))
}

// columnNames fills blank headers with "Unnamed: i" and suffixes duplicates
// with ".1", ".2", ...
func columnNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, name := range raw {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}
