package store

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertTeamAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := &Team{ID: 52, Year: 2024, School: "Ohio State", Conference: "Big Ten"}
	require.NoError(t, s.UpsertTeam(ctx, team))

	// Re-upsert with updated fields keeps the same row.
	team.Conference = "B1G"
	require.NoError(t, s.UpsertTeam(ctx, team))

	got, err := s.GetTeamBySchool(ctx, 2024, "ohio state")
	require.NoError(t, err)
	require.Equal(t, int64(52), got.ID)
	require.Equal(t, "B1G", got.Conference)

	teams, err := s.ListTeams(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, teams, 1)
}

func TestFindGame(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertGame(ctx, &Game{
		ID: 101, Season: 2024, Week: 3, SeasonType: "regular",
		HomeID: 5, AwayID: 9, Completed: true,
	}))

	game, err := s.FindGame(ctx, 2024, 3, "regular", 5)
	require.NoError(t, err)
	require.Equal(t, int64(101), game.ID)

	opp, ok := game.Opponent(5)
	require.True(t, ok)
	require.Equal(t, int64(9), opp)
	opp, ok = game.Opponent(9)
	require.True(t, ok)
	require.Equal(t, int64(5), opp)
	_, ok = game.Opponent(7)
	require.False(t, ok)

	_, err = s.FindGame(ctx, 2024, 4, "regular", 5)
	require.ErrorIs(t, err, sql.ErrNoRows)

	// A second game in the same slot is a corrupt schedule.
	require.NoError(t, s.UpsertGame(ctx, &Game{
		ID: 102, Season: 2024, Week: 3, SeasonType: "regular",
		HomeID: 5, AwayID: 12,
	}))
	_, err = s.FindGame(ctx, 2024, 3, "regular", 5)
	require.ErrorIs(t, err, ErrAmbiguousGame)
}

func TestNationalAverages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	off, def, err := s.NationalAverages(ctx, 2024)
	require.NoError(t, err)
	require.Equal(t, DefaultNationalOffense, off)
	require.Equal(t, DefaultNationalDefense, def)

	require.NoError(t, s.SeedNationalAverages(ctx, 2024, 11.5, 38.0))
	off, def, err = s.NationalAverages(ctx, 2024)
	require.NoError(t, err)
	require.Equal(t, 11.5, off)
	require.Equal(t, 38.0, def)

	// Seeding never overwrites an existing row.
	require.NoError(t, s.SeedNationalAverages(ctx, 2024, 99, 99))
	off, def, err = s.NationalAverages(ctx, 2024)
	require.NoError(t, err)
	require.Equal(t, 11.5, off)
	require.Equal(t, 38.0, def)
}

func TestExternalIDRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &PlayerSeason{
		PlayerID: "cfbd-1", Year: 2024,
		Player: "Sam Example", Team: "Ohio State", TeamID: 52, Position: "QB",
	}
	require.NoError(t, s.UpsertPlayerSeason(ctx, p))

	got, err := s.GetPlayerByExternalID(ctx, 2024, "ext-77")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, s.SetExternalID(ctx, "cfbd-1", 2024, "ext-77"))
	got, err = s.GetPlayerByExternalID(ctx, 2024, "ext-77")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "cfbd-1", got.PlayerID)

	// Re-upserting the roster row keeps the claim.
	require.NoError(t, s.UpsertPlayerSeason(ctx, p))
	got, err = s.GetPlayerByExternalID(ctx, 2024, "ext-77")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestTopRatings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, s.UpsertPlayerSeason(ctx, &PlayerSeason{
			PlayerID: id, Year: 2024, Player: "Player " + id, Team: "Team", TeamID: 1, Position: "QB",
		}))
		require.NoError(t, s.UpsertCompositeRating(ctx, id, 2024, "QBR",
			sql.NullFloat64{Float64: float64(50 + 10*i), Valid: true}))
	}
	// NULL ratings never rank.
	require.NoError(t, s.UpsertPlayerSeason(ctx, &PlayerSeason{
		PlayerID: "p4", Year: 2024, Player: "Player p4", Team: "Team", TeamID: 1, Position: "QB",
	}))
	require.NoError(t, s.UpsertCompositeRating(ctx, "p4", 2024, "QBR", sql.NullFloat64{}))

	top, err := s.TopRatings(ctx, "QBR", 2024, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "p3", top[0].PlayerID)
	require.Equal(t, "p2", top[1].PlayerID)

	none, err := s.TopRatings(ctx, "QBR", 2023, 10)
	require.NoError(t, err)
	require.Empty(t, none)
}
