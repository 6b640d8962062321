package winshare

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sort"
)

// TopNs are the subset sizes every group is summarised at.
var TopNs = []int{2, 3, 5, 8}

var ErrEmptyGroup = errors.New("empty group")

// Key identifies a group.
type Key struct {
	Season string
	Team   string
}

// Group is the rows sharing a key, in input order.
type Group struct {
	Key
	Rows []Row
}

// Tier is the top-N slice of a group. When the group is smaller than N the
// whole group is used.
type Tier struct {
	N      int
	AvgAge sql.NullFloat64
	SumOWS float64
	SumDWS float64
}

// Contrib is SumOWS + SumDWS.
func (t Tier) Contrib() float64 { return t.SumOWS + t.SumDWS }

// Summary is the per-group result. Tiers follow TopNs order.
type Summary struct {
	Key
	Size         int
	TotalContrib float64
	Tiers        []Tier
}

// Tier returns the tier for n.
func (s Summary) Tier(n int) (Tier, bool) {
	for _, t := range s.Tiers {
		if t.N == n {
			return t, true
		}
	}
	return Tier{}, false
}

// GroupRows buckets rows by (Season, Team), ordered by Season then Team.
// Rows with an empty Season or Team have no key and are dropped. Nothing is
// deduplicated: a traded player counts once per team row in the table.
func GroupRows(rows []Row) []Group {
	idx := map[Key]int{}
	var groups []Group
	for _, r := range rows {
		if r.Season == "" || r.Team == "" {
			continue
		}
		k := Key{Season: r.Season, Team: r.Team}
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return cmp.Or(cmp.Compare(a.Season, b.Season), cmp.Compare(a.Team, b.Team))
	})
	return groups
}

// RankByContrib returns a copy of rows ordered by Contrib descending. Equal
// values keep input order and null Contrib goes last.
func RankByContrib(rows []Row) []Row {
	out := slices.Clone(rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Contrib, out[j].Contrib
		if !a.Valid {
			return false
		}
		return !b.Valid || a.Float64 > b.Float64
	})
	return out
}

// Summarize computes the top-N tiers for one group.
//
// Nulls: sums skip them, so a sum over nothing but nulls is 0. Means skip them
// too, and a mean with no values is null. TotalContrib is the group's OWS sum
// plus its DWS sum under the same rule, so every tier's Contrib is bounded by
// it even when a row has only one of the two.
func Summarize(g Group) (Summary, error) {
	if len(g.Rows) == 0 {
		return Summary{}, fmt.Errorf("summarize %s %s: %w", g.Season, g.Team, ErrEmptyGroup)
	}
	ranked := RankByContrib(g.Rows)

	s := Summary{Key: g.Key, Size: len(ranked), Tiers: make([]Tier, 0, len(TopNs))}
	s.TotalContrib = sum(ranked, func(r Row) sql.NullFloat64 { return r.OWS }) +
		sum(ranked, func(r Row) sql.NullFloat64 { return r.DWS })
	for _, n := range TopNs {
		top := ranked
		if len(ranked) >= n {
			top = ranked[:n]
		}
		s.Tiers = append(s.Tiers, Tier{
			N:      n,
			AvgAge: mean(top, func(r Row) sql.NullFloat64 { return r.Age }),
			SumOWS: sum(top, func(r Row) sql.NullFloat64 { return r.OWS }),
			SumDWS: sum(top, func(r Row) sql.NullFloat64 { return r.DWS }),
		})
	}
	return s, nil
}

// SummarizeAll groups rows and summarises every group in key order.
func SummarizeAll(rows []Row) ([]Summary, error) {
	groups := GroupRows(rows)
	out := make([]Summary, 0, len(groups))
	for _, g := range groups {
		s, err := Summarize(g)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func sum(rows []Row, field func(Row) sql.NullFloat64) float64 {
	var total float64
	for _, r := range rows {
		if v := field(r); v.Valid {
			total += v.Float64
		}
	}
	return total
}

func mean(rows []Row, field func(Row) sql.NullFloat64) sql.NullFloat64 {
	var (
		total float64
		n     int
	)
	for _, r := range rows {
		if v := field(r); v.Valid {
			total += v.Float64
			n++
		}
	}
	if n == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: total / float64(n), Valid: true}
}
