package cfbd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTeamsRequestShape(t *testing.T) {
	var gotPath, gotAuth, gotYear string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotYear = r.URL.Query().Get("year")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 52, "school": "Ohio State", "conference": "Big Ten", "logos": ["x.png"]}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	teams, err := c.Teams(context.Background(), 2024)
	require.NoError(t, err)

	require.Equal(t, "/teams/fbs", gotPath)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "2024", gotYear)
	require.Len(t, teams, 1)
	require.Equal(t, int64(52), teams[0].ID)
	require.Equal(t, "Ohio State", teams[0].School)
}

func TestGamesNullPoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "both", r.URL.Query().Get("seasonType"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "season": 2024, "week": 3, "seasonType": "regular",
			 "homeId": 52, "homePoints": 31, "awayId": 9, "awayPoints": null,
			 "completed": false}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	games, err := c.Games(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.NotNil(t, games[0].HomePoints)
	require.Equal(t, int64(31), *games[0].HomePoints)
	require.Nil(t, games[0].AwayPoints)
}

func TestGetJSONClientErrorIsFinal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad")
	_, err := c.Teams(context.Background(), 2024)
	require.Error(t, err)
	// 4xx other than 429 is not retried.
	require.Equal(t, 1, calls)
}

func TestGetJSONCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, "")
	c.lastCall = time.Now() // force the throttle to wait, then observe the cancel
	_, err := c.Teams(ctx, 2024)
	require.ErrorIs(t, err, context.Canceled)
}
