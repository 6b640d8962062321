// Package report turns group summaries into per-team share-of-total series
// and renders them.
package report

import (
	"cmp"
	"database/sql"
	"slices"

	"nba-winshares/internal/winshare"
)

// ShareNs are the tiers plotted for every team.
var ShareNs = []int{2, 3, 5}

// Point is one season of a team series. Pct follows ShareNs order.
type Point struct {
	Season string
	Total  float64
	Pct    []sql.NullFloat64
}

// TeamSeries is a team's points ordered by season.
type TeamSeries struct {
	Team   string
	Points []Point
}

// Shares builds one series per team, teams in order of first appearance.
// A season whose total contribution is zero gets null percentages.
func Shares(sums []winshare.Summary) []TeamSeries {
	idx := map[string]int{}
	var out []TeamSeries
	for _, s := range sums {
		i, ok := idx[s.Team]
		if !ok {
			i = len(out)
			idx[s.Team] = i
			out = append(out, TeamSeries{Team: s.Team})
		}
		out[i].Points = append(out[i].Points, point(s))
	}
	for i := range out {
		slices.SortStableFunc(out[i].Points, func(a, b Point) int {
			return cmp.Compare(a.Season, b.Season)
		})
	}
	return out
}

func point(s winshare.Summary) Point {
	p := Point{Season: s.Season, Total: s.TotalContrib, Pct: make([]sql.NullFloat64, len(ShareNs))}
	if s.TotalContrib == 0 {
		return p
	}
	for i, n := range ShareNs {
		t, ok := s.Tier(n)
		if !ok {
			continue
		}
		p.Pct[i] = sql.NullFloat64{Float64: t.Contrib() / s.TotalContrib * 100, Valid: true}
	}
	return p
}

// MeanPct averages the non-null percentages of tier i across seasons.
func (ts TeamSeries) MeanPct(i int) sql.NullFloat64 {
	var (
		total float64
		n     int
	)
	for _, p := range ts.Points {
		if i < len(p.Pct) && p.Pct[i].Valid {
			total += p.Pct[i].Float64
			n++
		}
	}
	if n == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: total / float64(n), Valid: true}
}
