package store

const schema = `
CREATE TABLE IF NOT EXISTS teams (
    id           INTEGER NOT NULL,
    year         INTEGER NOT NULL,
    school       TEXT NOT NULL,
    conference   TEXT NOT NULL DEFAULT '',
    abbreviation TEXT NOT NULL DEFAULT '',
    logo         TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (id, year)
);

CREATE INDEX IF NOT EXISTS idx_teams_school ON teams(school, year);

CREATE TABLE IF NOT EXISTS games (
    id          INTEGER PRIMARY KEY,
    season      INTEGER NOT NULL,
    week        INTEGER NOT NULL,
    season_type TEXT NOT NULL,
    start_date  TEXT NOT NULL DEFAULT '',
    home_id     INTEGER NOT NULL,
    away_id     INTEGER NOT NULL,
    home_points INTEGER,
    away_points INTEGER,
    completed   BOOLEAN NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_games_slot_home ON games(season, week, season_type, home_id);
CREATE INDEX IF NOT EXISTS idx_games_slot_away ON games(season, week, season_type, away_id);

CREATE TABLE IF NOT EXISTS team_ratings (
    year           INTEGER NOT NULL,
    team           TEXT NOT NULL,
    team_id        INTEGER,
    offense_rating REAL,
    defense_rating REAL,
    PRIMARY KEY (year, team)
);

CREATE INDEX IF NOT EXISTS idx_team_ratings_team_id ON team_ratings(year, team_id);

CREATE TABLE IF NOT EXISTS player_seasons (
    player_id          TEXT NOT NULL,
    year               INTEGER NOT NULL,
    player             TEXT NOT NULL,
    team               TEXT NOT NULL,
    team_id            INTEGER NOT NULL,
    position           TEXT NOT NULL,
    player_id_external TEXT,
    PRIMARY KEY (player_id, year)
);

CREATE INDEX IF NOT EXISTS idx_player_seasons_team ON player_seasons(year, team_id);
CREATE INDEX IF NOT EXISTS idx_player_seasons_external ON player_seasons(year, player_id_external);

CREATE TABLE IF NOT EXISTS composite_ratings (
    player_id TEXT NOT NULL,
    year      INTEGER NOT NULL,
    name      TEXT NOT NULL,
    rating    REAL,
    PRIMARY KEY (player_id, year, name)
);

CREATE INDEX IF NOT EXISTS idx_composite_ratings_name ON composite_ratings(name, year, rating);
`
