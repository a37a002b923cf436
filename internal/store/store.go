package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Fallback strength ratings used when no nationalAverages row exists
// for a season.
const (
	DefaultNationalOffense = 10.0
	DefaultNationalDefense = 40.0
)

// ErrAmbiguousGame is returned when more than one game matches a
// (season, week, seasonType, teamID) slot. The schema guarantees at most
// one; multiplicity means the game table is corrupt.
var ErrAmbiguousGame = errors.New("ambiguous game slot")

// Team is a season-scoped team row.
type Team struct {
	ID           int64  `db:"id"`
	Year         int    `db:"year"`
	School       string `db:"school"`
	Conference   string `db:"conference"`
	Abbreviation string `db:"abbreviation"`
	Logo         string `db:"logo"`
}

// Game is a single scheduled or completed game.
type Game struct {
	ID         int64         `db:"id"`
	Season     int           `db:"season"`
	Week       int           `db:"week"`
	SeasonType string        `db:"season_type"`
	StartDate  string        `db:"start_date"`
	HomeID     int64         `db:"home_id"`
	AwayID     int64         `db:"away_id"`
	HomePoints sql.NullInt64 `db:"home_points"`
	AwayPoints sql.NullInt64 `db:"away_points"`
	Completed  bool          `db:"completed"`
}

// Opponent returns the other side of the game for teamID.
func (g *Game) Opponent(teamID int64) (int64, bool) {
	switch teamID {
	case g.HomeID:
		return g.AwayID, true
	case g.AwayID:
		return g.HomeID, true
	}
	return 0, false
}

// TeamRating is a season-level strength rating row.
type TeamRating struct {
	Year    int             `db:"year"`
	Team    string          `db:"team"`
	TeamID  sql.NullInt64   `db:"team_id"`
	Offense sql.NullFloat64 `db:"offense_rating"`
	Defense sql.NullFloat64 `db:"defense_rating"`
}

// PlayerSeason is a roster player for one season.
type PlayerSeason struct {
	PlayerID   string         `db:"player_id"`
	Year       int            `db:"year"`
	Player     string         `db:"player"`
	Team       string         `db:"team"`
	TeamID     int64          `db:"team_id"`
	Position   string         `db:"position"`
	ExternalID sql.NullString `db:"player_id_external"`
}

// CompositeRating is one named rating for a player-season. Rating is NULL
// when the player failed the usage gate for that position.
type CompositeRating struct {
	PlayerID string          `db:"player_id"`
	Year     int             `db:"year"`
	Name     string          `db:"name"`
	Rating   sql.NullFloat64 `db:"rating"`
	Player   string          `db:"player"`
	Team     string          `db:"team"`
}

// Store wraps the embedded SQLite database. The pipeline is the single
// writer for the lifetime of a run.
type Store struct {
	db  *sqlx.DB
	log *logrus.Logger
}

// Open opens the SQLite database at path and applies the static schema.
func Open(path string, log *logrus.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) UpsertTeam(ctx context.Context, t *Team) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (id, year, school, conference, abbreviation, logo)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, year) DO UPDATE SET
			school = excluded.school,
			conference = excluded.conference,
			abbreviation = excluded.abbreviation,
			logo = excluded.logo
	`, t.ID, t.Year, t.School, t.Conference, t.Abbreviation, t.Logo)
	if err != nil {
		return fmt.Errorf("upsert team %d/%d: %w", t.ID, t.Year, err)
	}
	return nil
}

func (s *Store) GetTeamBySchool(ctx context.Context, year int, school string) (*Team, error) {
	var t Team
	err := s.db.GetContext(ctx, &t,
		"SELECT * FROM teams WHERE year = ? AND school = ? COLLATE NOCASE", year, school)
	if err != nil {
		return nil, fmt.Errorf("get team %q/%d: %w", school, year, err)
	}
	return &t, nil
}

func (s *Store) ListTeams(ctx context.Context, year int) ([]Team, error) {
	var teams []Team
	if err := s.db.SelectContext(ctx, &teams,
		"SELECT * FROM teams WHERE year = ? ORDER BY school", year); err != nil {
		return nil, fmt.Errorf("list teams %d: %w", year, err)
	}
	return teams, nil
}

func (s *Store) UpsertGame(ctx context.Context, g *Game) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, season, week, season_type, start_date, home_id, away_id, home_points, away_points, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			home_points = excluded.home_points,
			away_points = excluded.away_points,
			completed = excluded.completed
	`, g.ID, g.Season, g.Week, g.SeasonType, g.StartDate,
		g.HomeID, g.AwayID, g.HomePoints, g.AwayPoints, g.Completed)
	if err != nil {
		return fmt.Errorf("upsert game %d: %w", g.ID, err)
	}
	return nil
}

// FindGame returns the unique game for a (season, week, seasonType, teamID)
// slot. More than one candidate returns ErrAmbiguousGame; none returns
// sql.ErrNoRows.
func (s *Store) FindGame(ctx context.Context, season, week int, seasonType string, teamID int64) (*Game, error) {
	var games []Game
	err := s.db.SelectContext(ctx, &games, `
		SELECT * FROM games
		WHERE season = ? AND week = ? AND season_type = ? AND (home_id = ? OR away_id = ?)
	`, season, week, seasonType, teamID, teamID)
	if err != nil {
		return nil, fmt.Errorf("find game %d w%d %s team %d: %w", season, week, seasonType, teamID, err)
	}
	switch len(games) {
	case 0:
		return nil, sql.ErrNoRows
	case 1:
		return &games[0], nil
	}
	return nil, fmt.Errorf("%w: %d w%d %s team %d has %d candidates",
		ErrAmbiguousGame, season, week, seasonType, teamID, len(games))
}

func (s *Store) UpsertTeamRating(ctx context.Context, r *TeamRating) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_ratings (year, team, team_id, offense_rating, defense_rating)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(year, team) DO UPDATE SET
			team_id = excluded.team_id,
			offense_rating = excluded.offense_rating,
			defense_rating = excluded.defense_rating
	`, r.Year, r.Team, r.TeamID, r.Offense, r.Defense)
	if err != nil {
		return fmt.Errorf("upsert rating %s/%d: %w", r.Team, r.Year, err)
	}
	return nil
}

// GetTeamRatingByID returns the strength rating row for a team, or nil when
// the team has none for that season.
func (s *Store) GetTeamRatingByID(ctx context.Context, year int, teamID int64) (*TeamRating, error) {
	var r TeamRating
	err := s.db.GetContext(ctx, &r,
		"SELECT * FROM team_ratings WHERE year = ? AND team_id = ?", year, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rating team %d/%d: %w", teamID, year, err)
	}
	return &r, nil
}

// NationalAverages returns the season's national-average offense and
// defense ratings, falling back to the fixed defaults when the
// nationalAverages row is absent or incomplete.
func (s *Store) NationalAverages(ctx context.Context, year int) (offense, defense float64, err error) {
	offense, defense = DefaultNationalOffense, DefaultNationalDefense

	var r TeamRating
	getErr := s.db.GetContext(ctx, &r,
		"SELECT * FROM team_ratings WHERE year = ? AND team = 'nationalAverages'", year)
	if errors.Is(getErr, sql.ErrNoRows) {
		return offense, defense, nil
	}
	if getErr != nil {
		return 0, 0, fmt.Errorf("get national averages %d: %w", year, getErr)
	}
	if r.Offense.Valid {
		offense = r.Offense.Float64
	}
	if r.Defense.Valid {
		defense = r.Defense.Float64
	}
	return offense, defense, nil
}

// SeedNationalAverages inserts a nationalAverages row for the season when
// none was landed, so the strength adjustment has a baseline. A landed row
// is never overwritten.
func (s *Store) SeedNationalAverages(ctx context.Context, year int, offense, defense float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_ratings (year, team, team_id, offense_rating, defense_rating)
		VALUES (?, 'nationalAverages', NULL, ?, ?)
		ON CONFLICT(year, team) DO NOTHING
	`, year, offense, defense)
	if err != nil {
		return fmt.Errorf("seed national averages %d: %w", year, err)
	}
	return nil
}

func (s *Store) UpsertPlayerSeason(ctx context.Context, p *PlayerSeason) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO player_seasons (player_id, year, player, team, team_id, position, player_id_external)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, year) DO UPDATE SET
			player = excluded.player,
			team = excluded.team,
			team_id = excluded.team_id,
			position = excluded.position
	`, p.PlayerID, p.Year, p.Player, p.Team, p.TeamID, p.Position, p.ExternalID)
	if err != nil {
		return fmt.Errorf("upsert player season %s/%d: %w", p.PlayerID, p.Year, err)
	}
	return nil
}

func (s *Store) ListPlayerSeasons(ctx context.Context, year int) ([]PlayerSeason, error) {
	var players []PlayerSeason
	if err := s.db.SelectContext(ctx, &players,
		"SELECT * FROM player_seasons WHERE year = ? ORDER BY player_id", year); err != nil {
		return nil, fmt.Errorf("list player seasons %d: %w", year, err)
	}
	return players, nil
}

// GetPlayerByExternalID resolves an external tabular key back to a canonical
// player for the year, or nil when unclaimed.
func (s *Store) GetPlayerByExternalID(ctx context.Context, year int, externalID string) (*PlayerSeason, error) {
	var p PlayerSeason
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM player_seasons WHERE year = ? AND player_id_external = ?", year, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player by external id %s/%d: %w", externalID, year, err)
	}
	return &p, nil
}

// SetExternalID records a resolved external key for a player-season.
func (s *Store) SetExternalID(ctx context.Context, playerID string, year int, externalID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE player_seasons SET player_id_external = ? WHERE player_id = ? AND year = ?",
		externalID, playerID, year)
	if err != nil {
		return fmt.Errorf("set external id %s/%d: %w", playerID, year, err)
	}
	return nil
}

// SetPosition overwrites a player's canonical position. Only the resolver
// calls this, to refine OL/OT into C/G/T.
func (s *Store) SetPosition(ctx context.Context, playerID string, year int, position string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE player_seasons SET position = ? WHERE player_id = ? AND year = ?",
		position, playerID, year)
	if err != nil {
		return fmt.Errorf("set position %s/%d: %w", playerID, year, err)
	}
	return nil
}

func (s *Store) UpsertCompositeRating(ctx context.Context, playerID string, year int, name string, rating sql.NullFloat64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO composite_ratings (player_id, year, name, rating)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id, year, name) DO UPDATE SET rating = excluded.rating
	`, playerID, year, name, rating)
	if err != nil {
		return fmt.Errorf("upsert rating %s %s/%d: %w", name, playerID, year, err)
	}
	return nil
}

// TopRatings returns the highest non-null ratings for a name and year,
// joined with player identity for display.
func (s *Store) TopRatings(ctx context.Context, name string, year, limit int) ([]CompositeRating, error) {
	if limit <= 0 {
		limit = 10
	}
	var ratings []CompositeRating
	err := s.db.SelectContext(ctx, &ratings, `
		SELECT r.player_id, r.year, r.name, r.rating, p.player, p.team
		FROM composite_ratings r
		JOIN player_seasons p ON p.player_id = r.player_id AND p.year = r.year
		WHERE r.name = ? AND r.year = ? AND r.rating IS NOT NULL
		ORDER BY r.rating DESC
		LIMIT ?
	`, name, year, limit)
	if err != nil {
		return nil, fmt.Errorf("top ratings %s/%d: %w", name, year, err)
	}
	return ratings, nil
}
