// Package bbref scrapes Basketball-Reference league pages.
package bbref

import (
	"fmt"
	"strings"
)

const DefaultBaseURL = "https://www.basketball-reference.com"

// Table ids used for the advanced stats table, primary first.
var AdvancedTableIDs = []string{"advanced_stats", "advanced"}

// SeasonLabel turns an end year into the "2022/2023" form.
func SeasonLabel(year int) string {
	return fmt.Sprintf("%d/%d", year-1, year)
}

// AdvancedURL is the league advanced stats page for the season ending in year.
func AdvancedURL(base string, year int) string {
	return fmt.Sprintf("%s/leagues/NBA_%d_advanced.html", strings.TrimRight(base, "/"), year)
}

// Years lists start down to end inclusive. Empty when start < end.
func Years(start, end int) []int {
	if start < end {
		return nil
	}
	out := make([]int, 0, start-end+1)
	for y := start; y >= end; y-- {
		out = append(out, y)
	}
	return out
}
