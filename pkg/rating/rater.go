package rating

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/elonfeng/gridfact/internal/store"
)

// Stats summarizes one rating pass.
type Stats struct {
	Rated int
	Gated int // gate failed, rating written as NULL
}

// Rater computes composite ratings and metric percentiles over the season
// metric tables.
type Rater struct {
	store *store.Store
	log   *logrus.Logger
}

func New(st *store.Store, log *logrus.Logger) *Rater {
	return &Rater{store: st, log: log}
}

// seasonTable is the per-player season table for a profile's family.
func seasonTable(p Profile) string { return "players_" + p.Family + "_season" }

// qualifies applies the profile's usage gate to one row.
func qualifies(p Profile, row store.Row) bool {
	pos, _ := row["position"].(string)
	pos = strings.ToUpper(strings.TrimSpace(pos))
	found := false
	for _, want := range p.Positions {
		if pos == want {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	g, ok := row.Float(p.GateColumn)
	if !ok {
		return false
	}
	if p.GateStrict {
		return g > p.GateMin
	}
	return g >= p.GateMin
}

// componentValue returns the standardization input for one component on
// one row: the raw value for rate metrics, the per-game value for volume
// metrics. ok is false when the value is null or, for volume, the game
// count is unusable.
func componentValue(c Component, row store.Row) (float64, bool) {
	v, ok := row.Float(c.Metric)
	if !ok {
		return 0, false
	}
	if !c.Volume {
		return v, true
	}
	games, ok := row.Float("player_game_count")
	if !ok || games <= 0 {
		return 0, false
	}
	return v / games, true
}

// distribution is the historical mean and standard deviation of one
// component over qualifying rows.
type distribution struct {
	mean, std float64
}

// stdEpsilon bounds the deviation below which a component distribution is
// degenerate. Identical inputs leave float noise in the sum of squares,
// so an exact zero check is not enough.
const stdEpsilon = 1e-9

// componentStats computes sample mean and Bessel-corrected standard
// deviation for each component over the qualifying rows. A degenerate
// deviation is forced to 1 so z-scores stay finite.
func componentStats(p Profile, rows []store.Row) map[string]distribution {
	stats := make(map[string]distribution, len(p.Components))
	for _, c := range p.Components {
		var vals []float64
		for _, row := range rows {
			if v, ok := componentValue(c, row); ok {
				vals = append(vals, v)
			}
		}

		var mean float64
		for _, v := range vals {
			mean += v
		}
		if len(vals) > 0 {
			mean /= float64(len(vals))
		}

		std := 1.0
		if len(vals) > 1 {
			var ss float64
			for _, v := range vals {
				d := v - mean
				ss += d * d
			}
			std = math.Sqrt(ss / float64(len(vals)-1))
			if std < stdEpsilon {
				std = 1
			}
		}

		stats[c.Metric] = distribution{mean: mean, std: std}
	}
	return stats
}

// score computes the clamped composite rating for one qualifying row.
// Missing components contribute a zero z-score.
func score(p Profile, stats map[string]distribution, row store.Row) float64 {
	var s float64
	for _, c := range p.Components {
		v, ok := componentValue(c, row)
		if !ok {
			continue
		}
		d := stats[c.Metric]
		s += c.Weight * (v - d.mean) / d.std
	}

	r := ((s + 3) / 6) * 100
	if r < 0 {
		r = 0
	}
	if r > 100 {
		r = 100
	}
	return r
}

// RateProfile rates every player of the profile's positions for a year.
// Historical distributions span all seasons in the table;
// ratings are written for the requested year only, NULL when the usage
// gate fails.
func (r *Rater) RateProfile(ctx context.Context, p Profile, year int) (*Stats, error) {
	table := seasonTable(p)

	cols, err := r.store.TableColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return &Stats{}, nil
	}

	all, err := r.store.SelectRows(ctx, table, nil)
	if err != nil {
		return nil, err
	}

	var qualifying []store.Row
	for _, row := range all {
		if qualifies(p, row) {
			qualifying = append(qualifying, row)
		}
	}
	stats := componentStats(p, qualifying)

	out := &Stats{}
	for _, row := range all {
		y, ok := row.Float("year")
		if !ok || int(y) != year {
			continue
		}
		pos, _ := row["position"].(string)
		if !positionIn(p, pos) {
			continue
		}
		playerID, _ := row["player_id"].(string)
		if playerID == "" {
			continue
		}

		var rating sql.NullFloat64
		if qualifies(p, row) {
			rating = sql.NullFloat64{Float64: score(p, stats, row), Valid: true}
			out.Rated++
		} else {
			out.Gated++
		}
		if err := r.store.UpsertCompositeRating(ctx, playerID, year, p.Name, rating); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func positionIn(p Profile, pos string) bool {
	pos = strings.ToUpper(strings.TrimSpace(pos))
	for _, want := range p.Positions {
		if pos == want {
			return true
		}
	}
	return false
}

// PercentilePrefix names derived percentile columns.
const PercentilePrefix = "percentile_"

// PercentilesProfile recomputes percentile_<metric> columns for a
// profile's qualifying rows of one year: min-max rescaled to [0,100],
// with 50 on a degenerate range. Non-qualifying rows keep NULL.
func (r *Rater) PercentilesProfile(ctx context.Context, p Profile, year int) error {
	table := seasonTable(p)

	cols, err := r.store.TableColumns(ctx, table)
	if err != nil {
		return err
	}
	if cols == nil {
		return nil
	}

	metrics := percentileTargets(cols)
	if len(metrics) == 0 {
		return nil
	}

	derived := make([]string, len(metrics))
	for i, m := range metrics {
		derived[i] = PercentilePrefix + m
	}
	if err := r.store.ExtendColumns(ctx, table, derived); err != nil {
		return err
	}

	rows, err := r.store.SelectRows(ctx, table, store.Row{"year": year})
	if err != nil {
		return err
	}
	var qualifying []store.Row
	for _, row := range rows {
		if qualifies(p, row) {
			qualifying = append(qualifying, row)
		}
	}
	if len(qualifying) == 0 {
		return nil
	}

	for _, m := range metrics {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, row := range qualifying {
			if v, ok := row.Float(m); ok {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
		if math.IsInf(lo, 1) {
			continue // column entirely null among qualifiers
		}

		for _, row := range qualifying {
			v, ok := row.Float(m)
			if !ok {
				continue
			}
			pct := 50.0
			if hi > lo {
				pct = (v - lo) / (hi - lo) * 100
			}
			set := store.Row{PercentilePrefix + m: pct}
			key := store.Row{"player_id": row["player_id"], "year": row["year"]}
			if err := r.store.UpdateRow(ctx, table, set, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// percentileTargets picks the metric columns that get a percentile
// sibling: real metrics only, never keys, identity, or derived columns.
func percentileTargets(cols []string) []string {
	reserved := map[string]bool{
		"player_id": true, "year": true, "player": true, "team_name": true,
		"team_id": true, "position": true, "player_game_count": true,
	}
	var out []string
	for _, c := range cols {
		if reserved[c] || strings.HasPrefix(c, PercentilePrefix) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// String renders a profile for step banners.
func (p Profile) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, strings.Join(p.Positions, "/"))
}
