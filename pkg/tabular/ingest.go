package tabular

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/elonfeng/gridfact/internal/store"
	"github.com/elonfeng/gridfact/pkg/resolve"
)

// Reserved columns of the dynamic metric tables. A discovered metric
// whose name collides with one of these is logged and skipped.
var (
	seasonKeys = []store.Column{
		{Name: "player_id", Type: "TEXT"},
		{Name: "year", Type: "INTEGER"},
	}
	weekKeys = []store.Column{
		{Name: "player_id", Type: "TEXT"},
		{Name: "year", Type: "INTEGER"},
		{Name: "week", Type: "INTEGER"},
		{Name: "season_type", Type: "TEXT"},
	}
	seasonReserved = []store.Column{
		{Name: "player", Type: "TEXT"},
		{Name: "team_name", Type: "TEXT"},
		{Name: "position", Type: "TEXT"},
		{Name: "team_id", Type: "INTEGER"},
		{Name: "player_game_count", Type: "REAL"},
	}
	weekReserved = append(append([]store.Column{}, seasonReserved...),
		store.Column{Name: "opponent_id", Type: "INTEGER"},
		store.Column{Name: "opponent_offense_rating", Type: "REAL"},
		store.Column{Name: "opponent_defense_rating", Type: "REAL"},
	)
)

// IngestStats extends the loader's counters with ingest outcomes.
type IngestStats struct {
	Stats
	Inserted   int
	Unresolved int // rows whose external key has no canonical owner
	Collisions int // discovered columns colliding with reserved names
}

// Ingester lands parsed tabular files into the dynamic metric tables.
// Target tables are rebuildable: each pass drops and recreates them from
// the discovered column union.
type Ingester struct {
	store  *store.Store
	loader *Loader
	log    *logrus.Logger
}

func NewIngester(st *store.Store, loader *Loader, log *logrus.Logger) *Ingester {
	return &Ingester{store: st, loader: loader, log: log}
}

// reservedNames indexes the reserved and key column names of a table kind.
func reservedNames(keys, reserved []store.Column) map[string]bool {
	set := make(map[string]bool, len(keys)+len(reserved))
	for _, c := range keys {
		set[c.Name] = true
	}
	for _, c := range reserved {
		set[c.Name] = true
	}
	return set
}

// columnUnion collects the sorted union of metric columns across files,
// dropping reserved collisions.
func (in *Ingester) columnUnion(files []*File, reserved map[string]bool, stats *IngestStats) []string {
	seen := make(map[string]bool)
	collided := make(map[string]bool)
	for _, f := range files {
		for _, c := range f.Columns {
			if reserved[c] {
				if !collided[c] {
					in.log.WithField("column", c).Warn("discovered column collides with a reserved name, skipping")
					collided[c] = true
					stats.Collisions++
				}
				continue
			}
			seen[c] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for c := range seen {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// externalIndex maps resolved external keys to their canonical players
// for the years under ingest.
func (in *Ingester) externalIndex(ctx context.Context, years []int) (map[int]map[string]store.PlayerSeason, error) {
	idx := make(map[int]map[string]store.PlayerSeason, len(years))
	for _, y := range years {
		players, err := in.store.ListPlayerSeasons(ctx, y)
		if err != nil {
			return nil, err
		}
		m := make(map[string]store.PlayerSeason)
		for _, p := range players {
			if p.ExternalID.Valid {
				m[p.ExternalID.String] = p
			}
		}
		idx[y] = m
	}
	return idx, nil
}

// IngestSeason rebuilds the family's season table from every season file
// of the configured years.
func (in *Ingester) IngestSeason(ctx context.Context, fam Family, years []int) (*IngestStats, error) {
	return in.ingest(ctx, fam, years, 0, true)
}

// IngestWeekly rebuilds the family's weekly table from every weekly file
// of the configured years. A non-zero week restricts the pass to that
// week's files.
func (in *Ingester) IngestWeekly(ctx context.Context, fam Family, years []int, week int) (*IngestStats, error) {
	return in.ingest(ctx, fam, years, week, false)
}

func (in *Ingester) ingest(ctx context.Context, fam Family, years []int, week int, seasonal bool) (*IngestStats, error) {
	files, loadStats, err := in.loader.LoadFamily(fam)
	if err != nil {
		return nil, err
	}

	stats := &IngestStats{Stats: *loadStats}

	wantYear := make(map[int]bool, len(years))
	for _, y := range years {
		wantYear[y] = true
	}
	var selected []*File
	for _, f := range files {
		if f.Seasonal != seasonal || !wantYear[f.Year] {
			continue
		}
		if !seasonal && week > 0 && f.Week != week {
			continue
		}
		selected = append(selected, f)
	}

	keys, reserved := seasonKeys, seasonReserved
	table := fam.SeasonTable()
	if !seasonal {
		keys, reserved = weekKeys, weekReserved
		table = fam.WeekTable()
	}
	resSet := reservedNames(keys, reserved)
	union := in.columnUnion(selected, resSet, stats)

	if err := in.store.Rebuild(ctx, table, keys, reserved, union); err != nil {
		return nil, fmt.Errorf("rebuild %s: %w", table, err)
	}
	if len(selected) == 0 {
		return stats, nil
	}

	index, err := in.externalIndex(ctx, years)
	if err != nil {
		return nil, err
	}

	for _, f := range selected {
		for _, rec := range f.Rows {
			owner, ok := index[f.Year][rec.PlayerKey]
			if !ok {
				// No canonical owner: the row is quietly ignored for
				// this family-year.
				stats.Unresolved++
				continue
			}

			row := store.Row{
				"player_id": owner.PlayerID,
				"year":      f.Year,
				"player":    owner.Player,
				"team_name": rec.Team,
				"position":  owner.Position,
				"team_id":   owner.TeamID,
			}
			if rec.HasGames {
				row["player_game_count"] = rec.GameCount
			}
			if !seasonal {
				row["week"] = f.Week
				row["season_type"] = f.SeasonType
			}
			for name, v := range rec.Metrics {
				if resSet[name] {
					continue
				}
				row[name] = v
			}

			if err := in.store.InsertRow(ctx, table, row); err != nil {
				return nil, err
			}
			stats.Inserted++
		}
	}

	return stats, nil
}

// SeasonIndex loads the identity columns of every season file for a year
// across all families, deduplicated for identity resolution. Rows without
// a name are useless to the resolver and dropped.
func (in *Ingester) SeasonIndex(year int) ([]resolve.ExternalPlayer, *Stats, error) {
	total := &Stats{}
	var entries []resolve.ExternalPlayer
	for _, fam := range Families {
		files, stats, err := in.loader.LoadFamily(fam)
		if err != nil {
			return nil, nil, err
		}
		total.Files += stats.Files
		total.BadFilename += stats.BadFilename
		total.MissingKey += stats.MissingKey
		total.Empty += stats.Empty
		for _, f := range files {
			if !f.Seasonal || f.Year != year {
				continue
			}
			for _, rec := range f.Rows {
				if rec.Player == "" {
					continue
				}
				entries = append(entries, resolve.ExternalPlayer{
					Key:      rec.PlayerKey,
					Name:     rec.Player,
					Team:     rec.Team,
					Position: rec.Position,
				})
				total.Rows++
			}
		}
	}
	return resolve.IndexFromRecords(entries), total, nil
}
