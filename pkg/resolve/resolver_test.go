package resolve

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/gridfact/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(s, log), s
}

func seedRoster(t *testing.T, s *store.Store, id, name, school, position string) {
	t.Helper()
	require.NoError(t, s.UpsertPlayerSeason(context.Background(), &store.PlayerSeason{
		PlayerID: id, Year: 2024, Player: name, Team: school, TeamID: 1, Position: position,
	}))
}

func externalOf(t *testing.T, s *store.Store, id string) string {
	t.Helper()
	players, err := s.ListPlayerSeasons(context.Background(), 2024)
	require.NoError(t, err)
	for _, p := range players {
		if p.PlayerID == id {
			if p.ExternalID.Valid {
				return p.ExternalID.String
			}
			return ""
		}
	}
	t.Fatalf("player %s not found", id)
	return ""
}

func TestResolveYearExactAndFuzzy(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	seedRoster(t, s, "cfbd-1", "Sam Example", "Ohio State", "QB")
	seedRoster(t, s, "cfbd-2", "D.J. Moore", "Ohio State", "WR")

	index := []ExternalPlayer{
		{Key: "1001", Name: "Sam Example", Team: "OHIO ST", Position: "QB"},
		{Key: "1002", Name: "DJ Moore", Team: "OHIO ST", Position: "WR"},
	}

	res, err := r.ResolveYear(ctx, 2024, index)
	require.NoError(t, err)
	require.Equal(t, 2, res.Matched)
	require.Zero(t, res.Unmatched)

	require.Equal(t, "1001", externalOf(t, s, "cfbd-1"))
	require.Equal(t, "1002", externalOf(t, s, "cfbd-2"))
}

func TestResolveYearRequiresTeamAndPosition(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	// Same name, wrong team token in the index.
	seedRoster(t, s, "cfbd-1", "Sam Example", "Ohio State", "QB")
	// Same name and team, wrong position.
	seedRoster(t, s, "cfbd-2", "Max Sample", "Alabama", "QB")

	index := []ExternalPlayer{
		{Key: "1001", Name: "Sam Example", Team: "ALABAMA", Position: "QB"},
		{Key: "1002", Name: "Max Sample", Team: "ALABAMA", Position: "WR"},
	}

	res, err := r.ResolveYear(ctx, 2024, index)
	require.NoError(t, err)
	require.Zero(t, res.Matched)
	require.Equal(t, 2, res.Unmatched)
}

func TestResolveYearGreedyClaims(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	// Two roster players competing for one external key; the closer name
	// wins, the other stays unmatched.
	seedRoster(t, s, "cfbd-1", "Jon Smith", "Ohio State", "QB")
	seedRoster(t, s, "cfbd-2", "John Smith", "Ohio State", "QB")

	index := []ExternalPlayer{
		{Key: "1001", Name: "John Smith", Team: "OHIO ST", Position: "QB"},
	}

	res, err := r.ResolveYear(ctx, 2024, index)
	require.NoError(t, err)
	require.Equal(t, 1, res.Matched)
	require.Equal(t, 1, res.Unmatched)
	require.Equal(t, "1001", externalOf(t, s, "cfbd-2"))
	require.Empty(t, externalOf(t, s, "cfbd-1"))
}

func TestResolveYearIdempotent(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	seedRoster(t, s, "cfbd-1", "Sam Example", "Ohio State", "QB")
	index := []ExternalPlayer{
		{Key: "1001", Name: "Sam Example", Team: "OHIO ST", Position: "QB"},
	}

	res, err := r.ResolveYear(ctx, 2024, index)
	require.NoError(t, err)
	require.Equal(t, 1, res.Matched)

	res, err = r.ResolveYear(ctx, 2024, index)
	require.NoError(t, err)
	require.Zero(t, res.Matched)
	require.Equal(t, 1, res.Skipped)
	require.Equal(t, "1001", externalOf(t, s, "cfbd-1"))
}

func TestResolveYearRefinesLinePosition(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	seedRoster(t, s, "cfbd-1", "Big Blocker", "Ohio State", "OL")
	index := []ExternalPlayer{
		{Key: "1001", Name: "Big Blocker", Team: "OHIO ST", Position: "G"},
	}

	res, err := r.ResolveYear(ctx, 2024, index)
	require.NoError(t, err)
	require.Equal(t, 1, res.Matched)
	require.Equal(t, 1, res.Refined)

	players, err := s.ListPlayerSeasons(ctx, 2024)
	require.NoError(t, err)
	require.Equal(t, "G", players[0].Position)
}

func TestIndexFromRecords(t *testing.T) {
	index := IndexFromRecords([]ExternalPlayer{
		{Key: "1001", Name: "Sam Example", Team: "OHIO ST"},
		{Key: "1002", Name: "Max Sample", Team: "ALABAMA"},
		{Key: "1001", Name: "Sam Example Updated", Team: "OHIO ST"},
		{Key: "", Name: "Keyless"},
	})
	require.Len(t, index, 2)
	require.Equal(t, "1001", index[0].Key)
	require.Equal(t, "Sam Example Updated", index[0].Name)
	require.Equal(t, "1002", index[1].Key)
}
