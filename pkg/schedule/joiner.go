package schedule

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/elonfeng/gridfact/internal/store"
	"github.com/elonfeng/gridfact/pkg/tabular"
)

const (
	// adjustK scales the strength adjustment; maxShift caps it at ±10%.
	adjustK  = 0.10
	maxShift = 0.10

	// AdjustedSuffix marks the opponent-adjusted sibling of a grade column.
	AdjustedSuffix = "_adjusted"
)

// Adjust applies the bounded opponent-strength adjustment to a grade
// value. The factor is monotone and continuous in the opponent rating:
// above-average opponents scale the grade up by k·√((r−μ)/μ), weaker ones
// scale it down symmetrically, capped at ±10%. At r=μ or value 0 the
// grade is unchanged.
func Adjust(value, rating, avg float64) float64 {
	if avg <= 0 || rating == avg {
		return value
	}
	shift := adjustK * math.Sqrt(math.Abs(rating-avg)/avg)
	if shift > maxShift {
		shift = maxShift
	}
	if rating < avg {
		shift = -shift
	}
	return value * (1 + shift)
}

// Stats summarizes one join pass over a family's weekly table.
type Stats struct {
	Rows        int
	MissingGame int
	Adjusted    int
}

// Joiner assigns opponents to player-week rows and writes
// opponent-adjusted grade columns.
type Joiner struct {
	store *store.Store
	log   *logrus.Logger
}

func NewJoiner(st *store.Store, log *logrus.Logger) *Joiner {
	return &Joiner{store: st, log: log}
}

// gradeColumns returns the family table's grade columns, excluding
// already-derived adjusted siblings.
func gradeColumns(cols []string) []string {
	var out []string
	for _, c := range cols {
		if strings.Contains(c, tabular.GradeMarker) && !strings.HasSuffix(c, AdjustedSuffix) {
			out = append(out, c)
		}
	}
	return out
}

// JoinFamily walks the player-week rows of the family for a year, assigns
// opponent_id from the game table and writes an adjusted sibling for every
// grade column. A non-zero week restricts the pass to that week. Rows with
// no matching game are counted and left alone; an ambiguous game slot
// aborts the pass.
func (j *Joiner) JoinFamily(ctx context.Context, fam tabular.Family, year, week int) (*Stats, error) {
	table := fam.WeekTable()

	cols, err := j.store.TableColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return &Stats{}, nil
	}

	grades := gradeColumns(cols)
	adjusted := make([]string, len(grades))
	for i, g := range grades {
		adjusted[i] = g + AdjustedSuffix
	}
	if err := j.store.ExtendColumns(ctx, table, adjusted); err != nil {
		return nil, err
	}

	natOffense, natDefense, err := j.store.NationalAverages(ctx, year)
	if err != nil {
		return nil, err
	}
	avg := natDefense
	if !fam.Offensive() {
		avg = natOffense
	}

	scope := store.Row{"year": year}
	if week > 0 {
		scope["week"] = week
	}
	rows, err := j.store.SelectRows(ctx, table, scope)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	for _, row := range rows {
		stats.Rows++

		teamID, ok := row.Float("team_id")
		if !ok {
			continue
		}
		week, _ := row.Float("week")
		seasonType, _ := row["season_type"].(string)

		game, err := j.store.FindGame(ctx, year, int(week), seasonType, int64(teamID))
		if errors.Is(err, sql.ErrNoRows) {
			stats.MissingGame++
			continue
		}
		if err != nil {
			// Ambiguity means the game table violates its key; fail loudly
			// rather than pick a side.
			return nil, err
		}

		opponentID, _ := game.Opponent(int64(teamID))

		var oppOffense, oppDefense any
		rating := avg
		if r, err := j.store.GetTeamRatingByID(ctx, year, opponentID); err != nil {
			return nil, err
		} else if r != nil {
			if r.Offense.Valid {
				oppOffense = r.Offense.Float64
			}
			if r.Defense.Valid {
				oppDefense = r.Defense.Float64
			}
			if fam.Offensive() && r.Defense.Valid {
				rating = r.Defense.Float64
			}
			if !fam.Offensive() && r.Offense.Valid {
				rating = r.Offense.Float64
			}
		}

		set := store.Row{
			"opponent_id":             opponentID,
			"opponent_offense_rating": oppOffense,
			"opponent_defense_rating": oppDefense,
		}
		for _, g := range grades {
			v, ok := row.Float(g)
			if !ok {
				continue // adjusted sibling is defined iff the grade is
			}
			set[g+AdjustedSuffix] = Adjust(v, rating, avg)
			stats.Adjusted++
		}

		key := store.Row{
			"player_id":   row["player_id"],
			"year":        row["year"],
			"week":        row["week"],
			"season_type": row["season_type"],
		}
		if err := j.store.UpdateRow(ctx, table, set, key); err != nil {
			return nil, err
		}
	}

	return stats, nil
}
