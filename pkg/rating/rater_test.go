package rating

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/gridfact/internal/store"
)

func newTestRater(t *testing.T) (*Rater, *store.Store) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return New(s, log), s
}

func qbrProfile(t *testing.T) Profile {
	t.Helper()
	for _, p := range Profiles {
		if p.Name == "QBR" {
			return p
		}
	}
	t.Fatal("QBR profile missing")
	return Profile{}
}

func seedQBTable(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()

	keys := []store.Column{
		{Name: "player_id", Type: "TEXT"},
		{Name: "year", Type: "INTEGER"},
	}
	reserved := []store.Column{
		{Name: "player", Type: "TEXT"},
		{Name: "team_name", Type: "TEXT"},
		{Name: "position", Type: "TEXT"},
		{Name: "team_id", Type: "INTEGER"},
		{Name: "player_game_count", Type: "REAL"},
	}
	metrics := []string{
		"attempts", "grades_pass", "accuracy_percent", "big_time_throws",
		"turnover_worthy_plays", "yards", "touchdowns", "interceptions",
	}
	require.NoError(t, s.Rebuild(ctx, "players_passing_grades_season", keys, reserved, metrics))
}

func qbRow(id string, attempts float64) store.Row {
	return store.Row{
		"player_id": id, "year": 2024, "position": "QB",
		"player_game_count": 10.0,
		"attempts":          attempts,
		"grades_pass":       80.0, "accuracy_percent": 75.0,
		"big_time_throws": 20.0, "turnover_worthy_plays": 8.0,
		"yards": 2500.0, "touchdowns": 24.0, "interceptions": 6.0,
	}
}

func TestRateProfileGateAndMidpoint(t *testing.T) {
	r, s := newTestRater(t)
	ctx := context.Background()
	seedQBTable(t, s)

	// Identical stat lines put every qualifier exactly at the cohort mean.
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", qbRow("p1", 300)))
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", qbRow("p2", 300)))
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", qbRow("p3", 40)))

	// 39 attempts misses the 40-attempt gate.
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", qbRow("p4", 39)))

	// Wrong position gets no rating row at all.
	notQB := qbRow("p5", 300)
	notQB["position"] = "WR"
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", notQB))

	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, s.UpsertPlayerSeason(ctx, &store.PlayerSeason{
			PlayerID: id, Year: 2024, Player: id, Team: "T", TeamID: 1, Position: "QB",
		}))
	}

	stats, err := r.RateProfile(ctx, qbrProfile(t), 2024)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Rated)
	require.Equal(t, 1, stats.Gated)

	top, err := s.TopRatings(ctx, "QBR", 2024, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	for _, row := range top {
		require.True(t, row.Rating.Valid)
		// Every z-score is zero, so the composite sits at the midpoint.
		require.InDelta(t, 50.0, row.Rating.Float64, 1e-9)
	}
}

func TestRateProfileRanksAboveAverage(t *testing.T) {
	r, s := newTestRater(t)
	ctx := context.Background()
	seedQBTable(t, s)

	good := qbRow("good", 300)
	good["grades_pass"] = 92.0
	good["yards"] = 4000.0
	bad := qbRow("bad", 300)
	bad["grades_pass"] = 55.0
	bad["yards"] = 1500.0
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", qbRow("mid", 300)))
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", good))
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", bad))

	for _, id := range []string{"good", "mid", "bad"} {
		require.NoError(t, s.UpsertPlayerSeason(ctx, &store.PlayerSeason{
			PlayerID: id, Year: 2024, Player: id, Team: "T", TeamID: 1, Position: "QB",
		}))
	}

	_, err := r.RateProfile(ctx, qbrProfile(t), 2024)
	require.NoError(t, err)

	top, err := s.TopRatings(ctx, "QBR", 2024, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	require.Equal(t, "good", top[0].PlayerID)
	require.Equal(t, "mid", top[1].PlayerID)
	require.Equal(t, "bad", top[2].PlayerID)
	require.LessOrEqual(t, top[0].Rating.Float64, 100.0)
	require.GreaterOrEqual(t, top[2].Rating.Float64, 0.0)
}

func TestPercentilesProfile(t *testing.T) {
	r, s := newTestRater(t)
	ctx := context.Background()
	seedQBTable(t, s)

	low := qbRow("low", 300)
	low["yards"] = 1000.0
	mid := qbRow("mid", 300)
	mid["yards"] = 2000.0
	high := qbRow("high", 300)
	high["yards"] = 3000.0
	gated := qbRow("gated", 10)
	for _, row := range []store.Row{low, mid, high, gated} {
		require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", row))
	}

	require.NoError(t, r.PercentilesProfile(ctx, qbrProfile(t), 2024))

	rows, err := s.SelectRows(ctx, "players_passing_grades_season", nil)
	require.NoError(t, err)

	byID := make(map[string]store.Row)
	for _, row := range rows {
		id, _ := row["player_id"].(string)
		byID[id] = row
	}

	v, ok := byID["low"].Float("percentile_yards")
	require.True(t, ok)
	require.Equal(t, 0.0, v)
	v, ok = byID["mid"].Float("percentile_yards")
	require.True(t, ok)
	require.Equal(t, 50.0, v)
	v, ok = byID["high"].Float("percentile_yards")
	require.True(t, ok)
	require.Equal(t, 100.0, v)

	// A degenerate range scores 50 across the board.
	v, ok = byID["low"].Float("percentile_grades_pass")
	require.True(t, ok)
	require.Equal(t, 50.0, v)

	// Non-qualifiers keep NULL percentiles.
	_, ok = byID["gated"].Float("percentile_yards")
	require.False(t, ok)
}
