package runner

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/gridfact/internal/config"
	"github.com/elonfeng/gridfact/internal/store"
)

func newTestRunner(t *testing.T) (*Runner, *store.Store, *bytes.Buffer) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()

	r := New(cfg, s, nil, log)
	out := &bytes.Buffer{}
	r.out = out
	return r, s, out
}

func TestRatePrintsLeaders(t *testing.T) {
	r, s, out := newTestRunner(t)
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
	require.NoError(t, s.Rebuild(ctx, "players_passing_grades_season", keys, reserved,
		[]string{"attempts", "grades_pass", "yards"}))
	require.NoError(t, s.InsertRow(ctx, "players_passing_grades_season", store.Row{
		"player_id": "p1", "year": 2024, "position": "QB",
		"player_game_count": 10.0,
		"attempts":          300.0, "grades_pass": 85.0, "yards": 2800.0,
	}))
	require.NoError(t, s.UpsertPlayerSeason(ctx, &store.PlayerSeason{
		PlayerID: "p1", Year: 2024, Player: "Sam Example",
		Team: "Ohio State", TeamID: 52, Position: "QB",
	}))

	require.NoError(t, r.Rate(ctx))

	got := out.String()
	require.Contains(t, got, "QBR 2024")
	require.Contains(t, got, "RATING")
	require.Contains(t, got, "Sam Example")
	require.Contains(t, got, "Ohio State")
}

func TestRatePrintsNothingWithoutQualifiers(t *testing.T) {
	r, _, out := newTestRunner(t)

	require.NoError(t, r.Rate(context.Background()))
	require.Empty(t, out.String())
}
