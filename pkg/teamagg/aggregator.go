package teamagg

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/elonfeng/gridfact/internal/store"
	"github.com/elonfeng/gridfact/pkg/schedule"
	"github.com/elonfeng/gridfact/pkg/tabular"
)

// groupKeys are the team-week grouping columns, in primary-key order.
var groupKeys = []string{"year", "week", "season_type", "team_id"}

// carryCols pass through unchanged from the first contributing row.
var carryCols = map[string]bool{
	"opponent_id":             true,
	"opponent_offense_rating": true,
	"opponent_defense_rating": true,
}

// identityCols are per-player columns dropped entirely from team rows.
var identityCols = map[string]bool{
	"player_id":         true,
	"player":            true,
	"position":          true,
	"team_name":         true,
	"player_game_count": true,
}

// Stats summarizes one aggregation pass.
type Stats struct {
	PlayerRows int
	TeamRows   int
}

// Aggregator reduces player-week rows into team-week rows under the
// family's per-column policy.
type Aggregator struct {
	store *store.Store
	log   *logrus.Logger
}

func New(st *store.Store, log *logrus.Logger) *Aggregator {
	return &Aggregator{store: st, log: log}
}

// policy is the reduction applied to one column.
type policy int

const (
	policySum policy = iota
	policyWeighted
	policyMean
	policyCarry
)

// columnPolicy decides how a metric column reduces. Adjusted grade
// siblings inherit the policy of their base column.
func columnPolicy(fam tabular.Family, col string) (policy, string) {
	base := strings.TrimSuffix(col, schedule.AdjustedSuffix)

	if w, ok := fam.WeightPairs[base]; ok {
		return policyWeighted, w
	}
	for _, m := range fam.MeanCols {
		if m == base {
			return policyMean, ""
		}
	}
	if carryCols[col] {
		return policyCarry, ""
	}
	return policySum, ""
}

// group accumulates one team-week's contributing rows.
type group struct {
	key  store.Row
	rows []store.Row
}

// AggregateFamily rebuilds the family's team-week table from its
// player-week rows across all requested years. The table covers every
// year in one rebuild, so no year's pass can clobber another's rows.
func (a *Aggregator) AggregateFamily(ctx context.Context, fam tabular.Family, years []int) (*Stats, error) {
	weekTable := fam.WeekTable()

	cols, err := a.store.TableColumns(ctx, weekTable)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return &Stats{}, nil
	}

	var rows []store.Row
	for _, year := range years {
		yearRows, err := a.store.SelectRows(ctx, weekTable, store.Row{"year": year})
		if err != nil {
			return nil, err
		}
		rows = append(rows, yearRows...)
	}

	// Group rows by (year, week, seasonType, teamID), preserving first-seen
	// order for deterministic carry-through.
	groups := make(map[string]*group)
	var order []string
	for _, row := range rows {
		teamID, ok := row.Float("team_id")
		if !ok {
			continue
		}
		year, ok := row.Float("year")
		if !ok {
			continue
		}
		week, _ := row.Float("week")
		seasonType, _ := row["season_type"].(string)
		id := fmt.Sprintf("%d|%d|%s|%d", int(year), int(week), seasonType, int64(teamID))

		g, seen := groups[id]
		if !seen {
			g = &group{key: store.Row{
				"year":        int(year),
				"week":        int(week),
				"season_type": seasonType,
				"team_id":     int64(teamID),
			}}
			groups[id] = g
			order = append(order, id)
		}
		g.rows = append(g.rows, row)
	}

	// Reduce every metric column under its policy.
	var metricCols []string
	isKey := make(map[string]bool, len(groupKeys))
	for _, k := range groupKeys {
		isKey[k] = true
	}
	for _, c := range cols {
		if isKey[c] || identityCols[c] {
			continue
		}
		metricCols = append(metricCols, c)
	}
	sort.Strings(metricCols)

	teamRows := make([]store.Row, 0, len(order))
	for _, id := range order {
		g := groups[id]
		out := store.Row{}
		for k, v := range g.key {
			out[k] = v
		}
		for _, col := range metricCols {
			out[col] = reduceColumn(fam, col, g.rows)
		}
		teamRows = append(teamRows, out)
	}

	// Rebuild the result table with sorted inferred columns.
	keys := []store.Column{
		{Name: "year", Type: "INTEGER"},
		{Name: "week", Type: "INTEGER"},
		{Name: "season_type", Type: "TEXT"},
		{Name: "team_id", Type: "INTEGER"},
	}
	reserved := []store.Column{
		{Name: "opponent_id", Type: "INTEGER"},
		{Name: "opponent_offense_rating", Type: "REAL"},
		{Name: "opponent_defense_rating", Type: "REAL"},
	}
	var metrics []string
	for _, c := range metricCols {
		if !carryCols[c] {
			metrics = append(metrics, c)
		}
	}

	teamTable := fam.TeamWeekTable()
	if err := a.store.Rebuild(ctx, teamTable, keys, reserved, metrics); err != nil {
		return nil, err
	}
	for _, row := range teamRows {
		if err := a.store.InsertRow(ctx, teamTable, row); err != nil {
			return nil, err
		}
	}

	return &Stats{PlayerRows: len(rows), TeamRows: len(teamRows)}, nil
}

// reduceColumn applies the column's policy over the group's rows. Nulls
// do not contribute; a weighted column with zero total weight reduces
// to 0.
func reduceColumn(fam tabular.Family, col string, rows []store.Row) any {
	pol, weightCol := columnPolicy(fam, col)

	switch pol {
	case policyCarry:
		for _, r := range rows {
			if v, ok := r[col]; ok && v != nil {
				return v
			}
		}
		return nil

	case policyWeighted:
		var num, den float64
		for _, r := range rows {
			x, okX := r.Float(col)
			w, okW := r.Float(weightCol)
			if !okX || !okW {
				continue
			}
			num += x * w
			den += w
		}
		if den <= 0 {
			return 0.0
		}
		return num / den

	case policyMean:
		var sum float64
		var n int
		for _, r := range rows {
			if x, ok := r.Float(col); ok {
				sum += x
				n++
			}
		}
		if n == 0 {
			return nil
		}
		return sum / float64(n)

	default: // sum
		var sum float64
		var seen bool
		for _, r := range rows {
			if x, ok := r.Float(col); ok {
				sum += x
				seen = true
			}
		}
		if !seen {
			return nil
		}
		return sum
	}
}
