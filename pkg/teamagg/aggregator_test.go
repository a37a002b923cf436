package teamagg

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/gridfact/internal/store"
	"github.com/elonfeng/gridfact/pkg/tabular"
)

func newTestAggregator(t *testing.T) (*Aggregator, *store.Store) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return New(s, log), s
}

var weekKeys = []store.Column{
	{Name: "player_id", Type: "TEXT"},
	{Name: "year", Type: "INTEGER"},
	{Name: "week", Type: "INTEGER"},
	{Name: "season_type", Type: "TEXT"},
}

var weekReserved = []store.Column{
	{Name: "player", Type: "TEXT"},
	{Name: "position", Type: "TEXT"},
	{Name: "team_id", Type: "INTEGER"},
	{Name: "opponent_id", Type: "INTEGER"},
	{Name: "opponent_offense_rating", Type: "REAL"},
	{Name: "opponent_defense_rating", Type: "REAL"},
}

func TestAggregateFamilyWeightedMean(t *testing.T) {
	a, s := newTestAggregator(t)
	ctx := context.Background()

	fam, ok := tabular.ByName("passing_grades")
	require.True(t, ok)

	require.NoError(t, s.Rebuild(ctx, fam.WeekTable(), weekKeys, weekReserved,
		[]string{"attempts", "grades_pass", "grades_pass_adjusted", "yards"}))

	// Two quarterbacks share a team-week: 80 over 20 attempts and 60 over
	// 10 attempts.
	require.NoError(t, s.InsertRow(ctx, fam.WeekTable(), store.Row{
		"player_id": "p1", "year": 2024, "week": 3, "season_type": "regular",
		"team_id": 5, "opponent_id": 9,
		"attempts": 20.0, "grades_pass": 80.0, "grades_pass_adjusted": 84.0, "yards": 210.0,
	}))
	require.NoError(t, s.InsertRow(ctx, fam.WeekTable(), store.Row{
		"player_id": "p2", "year": 2024, "week": 3, "season_type": "regular",
		"team_id": 5, "opponent_id": 9,
		"attempts": 10.0, "grades_pass": 60.0, "grades_pass_adjusted": 63.0, "yards": 95.0,
	}))

	stats, err := a.AggregateFamily(ctx, fam, []int{2024})
	require.NoError(t, err)
	require.Equal(t, 2, stats.PlayerRows)
	require.Equal(t, 1, stats.TeamRows)

	rows, err := s.SelectRows(ctx, fam.TeamWeekTable(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]

	// grades_pass weighted by attempts: (80*20 + 60*10) / 30.
	g, ok := row.Float("grades_pass")
	require.True(t, ok)
	require.InDelta(t, 73.3333, g, 1e-3)

	// The adjusted sibling inherits the weighted policy.
	adj, ok := row.Float("grades_pass_adjusted")
	require.True(t, ok)
	require.InDelta(t, 77.0, adj, 1e-9)

	// attempts and yards sum.
	att, ok := row.Float("attempts")
	require.True(t, ok)
	require.Equal(t, 30.0, att)
	yds, ok := row.Float("yards")
	require.True(t, ok)
	require.Equal(t, 305.0, yds)

	// Opponent carries through; identity columns are gone.
	opp, ok := row.Float("opponent_id")
	require.True(t, ok)
	require.Equal(t, 9.0, opp)
	cols, err := s.TableColumns(ctx, fam.TeamWeekTable())
	require.NoError(t, err)
	require.NotContains(t, cols, "player_id")
	require.NotContains(t, cols, "position")
}

func TestAggregateFamilySingleRowPassesThrough(t *testing.T) {
	a, s := newTestAggregator(t)
	ctx := context.Background()

	fam, _ := tabular.ByName("passing_grades")
	require.NoError(t, s.Rebuild(ctx, fam.WeekTable(), weekKeys, weekReserved,
		[]string{"attempts", "grades_pass"}))

	require.NoError(t, s.InsertRow(ctx, fam.WeekTable(), store.Row{
		"player_id": "p1", "year": 2024, "week": 1, "season_type": "regular",
		"team_id": 5, "attempts": 25.0, "grades_pass": 77.5,
	}))

	_, err := a.AggregateFamily(ctx, fam, []int{2024})
	require.NoError(t, err)

	rows, err := s.SelectRows(ctx, fam.TeamWeekTable(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// A single contributing row reproduces its own values.
	g, ok := rows[0].Float("grades_pass")
	require.True(t, ok)
	require.Equal(t, 77.5, g)
	att, ok := rows[0].Float("attempts")
	require.True(t, ok)
	require.Equal(t, 25.0, att)
}

func TestAggregateFamilyZeroWeight(t *testing.T) {
	a, s := newTestAggregator(t)
	ctx := context.Background()

	fam, _ := tabular.ByName("passing_grades")
	require.NoError(t, s.Rebuild(ctx, fam.WeekTable(), weekKeys, weekReserved,
		[]string{"attempts", "grades_pass"}))

	require.NoError(t, s.InsertRow(ctx, fam.WeekTable(), store.Row{
		"player_id": "p1", "year": 2024, "week": 1, "season_type": "regular",
		"team_id": 5, "attempts": 0.0, "grades_pass": 80.0,
	}))

	_, err := a.AggregateFamily(ctx, fam, []int{2024})
	require.NoError(t, err)

	rows, err := s.SelectRows(ctx, fam.TeamWeekTable(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Zero total weight reduces to 0, not a division blowup.
	g, ok := rows[0].Float("grades_pass")
	require.True(t, ok)
	require.Zero(t, g)
}

func TestAggregateFamilyGroupsByWeekAndTeam(t *testing.T) {
	a, s := newTestAggregator(t)
	ctx := context.Background()

	fam, _ := tabular.ByName("passing_grades")
	require.NoError(t, s.Rebuild(ctx, fam.WeekTable(), weekKeys, weekReserved,
		[]string{"attempts"}))

	for _, r := range []store.Row{
		{"player_id": "p1", "year": 2024, "week": 1, "season_type": "regular", "team_id": 5, "attempts": 10.0},
		{"player_id": "p1", "year": 2024, "week": 2, "season_type": "regular", "team_id": 5, "attempts": 12.0},
		{"player_id": "p2", "year": 2024, "week": 1, "season_type": "regular", "team_id": 9, "attempts": 30.0},
		{"player_id": "p3", "year": 2024, "week": 1, "season_type": "postseason", "team_id": 5, "attempts": 8.0},
		{"player_id": "p4", "year": 2023, "week": 1, "season_type": "regular", "team_id": 5, "attempts": 99.0},
	} {
		require.NoError(t, s.InsertRow(ctx, fam.WeekTable(), r))
	}

	stats, err := a.AggregateFamily(ctx, fam, []int{2024})
	require.NoError(t, err)
	require.Equal(t, 4, stats.PlayerRows) // 2023 row excluded
	require.Equal(t, 4, stats.TeamRows)
}

func TestAggregateFamilyKeepsAllYears(t *testing.T) {
	a, s := newTestAggregator(t)
	ctx := context.Background()

	fam, _ := tabular.ByName("passing_grades")
	require.NoError(t, s.Rebuild(ctx, fam.WeekTable(), weekKeys, weekReserved,
		[]string{"attempts"}))

	for _, r := range []store.Row{
		{"player_id": "p1", "year": 2023, "week": 1, "season_type": "regular", "team_id": 5, "attempts": 10.0},
		{"player_id": "p2", "year": 2024, "week": 1, "season_type": "regular", "team_id": 5, "attempts": 20.0},
	} {
		require.NoError(t, s.InsertRow(ctx, fam.WeekTable(), r))
	}

	stats, err := a.AggregateFamily(ctx, fam, []int{2023, 2024})
	require.NoError(t, err)
	require.Equal(t, 2, stats.TeamRows)

	// Both seasons survive one rebuild.
	for year, want := range map[int]float64{2023: 10.0, 2024: 20.0} {
		rows, err := s.SelectRows(ctx, fam.TeamWeekTable(), store.Row{"year": year})
		require.NoError(t, err)
		require.Len(t, rows, 1, "year %d", year)
		att, ok := rows[0].Float("attempts")
		require.True(t, ok)
		require.Equal(t, want, att)
	}
}

func TestAggregateFamilyMissingTable(t *testing.T) {
	a, _ := newTestAggregator(t)

	fam, _ := tabular.ByName("slot_coverage")
	stats, err := a.AggregateFamily(context.Background(), fam, []int{2024})
	require.NoError(t, err)
	require.Zero(t, stats.PlayerRows)
}
