package resolve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/elonfeng/gridfact/internal/store"
)

// Match-acceptance thresholds on the 0-100 ratio scale.
const (
	acceptScore   = 90
	fallbackScore = 80
)

// ExternalPlayer is one entry of the tabular source's player index.
type ExternalPlayer struct {
	Key      string
	Name     string
	Team     string
	Position string
}

// Result summarizes one resolution pass.
type Result struct {
	Matched   int
	Refined   int
	Unmatched int
	Skipped   int // already resolved on a previous pass
}

// Resolver assigns tabular external keys to canonical roster players.
type Resolver struct {
	store *store.Store
	log   *logrus.Logger
}

func New(st *store.Store, log *logrus.Logger) *Resolver {
	return &Resolver{store: st, log: log}
}

// candidate is a scored pairing of one roster player with one external
// index entry.
type candidate struct {
	player   store.PlayerSeason
	external ExternalPlayer
	score    float64
}

// ResolveYear matches every unresolved roster player of a year against the
// external index. Candidates must share a team (through the static
// bijection) and a position class; they are scored by name similarity and
// accepted greedily from the highest score down, so an external key is
// claimed at most once and re-running the pass changes nothing.
func (r *Resolver) ResolveYear(ctx context.Context, year int, index []ExternalPlayer) (*Result, error) {
	players, err := r.store.ListPlayerSeasons(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("resolve %d: %w", year, err)
	}

	// Index external players by team token.
	byTeam := make(map[string][]ExternalPlayer)
	for _, e := range index {
		team := strings.ToUpper(strings.TrimSpace(e.Team))
		byTeam[team] = append(byTeam[team], e)
	}

	claimed := make(map[string]bool)
	res := &Result{}

	// Keys resolved on earlier passes stay claimed; idempotency depends
	// on it.
	var unresolved []store.PlayerSeason
	for _, p := range players {
		if p.ExternalID.Valid {
			claimed[p.ExternalID.String] = true
			res.Skipped++
			continue
		}
		unresolved = append(unresolved, p)
	}

	var candidates []candidate
	for _, p := range unresolved {
		token, ok := TabularTeam(p.Team)
		if !ok {
			res.Unmatched++
			continue
		}

		normRoster := NormalizeName(p.Player)
		best := candidate{score: -1}
		for _, e := range byTeam[token] {
			if !PositionMatches(p.Position, e.Position) {
				continue
			}
			score := Ratio(normRoster, NormalizeName(e.Name))
			if score > best.score {
				best = candidate{player: p, external: e, score: score}
			}
		}
		if best.score < fallbackScore {
			res.Unmatched++
			continue
		}
		candidates = append(candidates, best)
	}

	// Highest scores claim first. Ties break on player id so the pass is
	// deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].player.PlayerID < candidates[j].player.PlayerID
	})

	for _, c := range candidates {
		if claimed[c.external.Key] {
			// A higher-scoring match already owns this key.
			if c.score >= acceptScore {
				r.log.WithFields(logrus.Fields{
					"player": c.player.Player,
					"key":    c.external.Key,
				}).Warn("strong match lost key to a stronger claim")
			}
			res.Unmatched++
			continue
		}
		claimed[c.external.Key] = true

		if err := r.store.SetExternalID(ctx, c.player.PlayerID, year, c.external.Key); err != nil {
			return nil, err
		}
		res.Matched++

		if RefinesPosition(c.player.Position, c.external.Position) {
			pos := strings.ToUpper(strings.TrimSpace(c.external.Position))
			if err := r.store.SetPosition(ctx, c.player.PlayerID, year, pos); err != nil {
				return nil, err
			}
			res.Refined++
		}

		r.log.WithFields(logrus.Fields{
			"player":   c.player.Player,
			"external": c.external.Name,
			"score":    fmt.Sprintf("%.1f", c.score),
		}).Debug("resolved")
	}

	return res, nil
}

// IndexFromRecords builds the external player index from parsed season
// files, deduplicating by external key. Later files win, matching ingest
// order.
func IndexFromRecords(names []ExternalPlayer) []ExternalPlayer {
	byKey := make(map[string]ExternalPlayer, len(names))
	var order []string
	for _, e := range names {
		if e.Key == "" {
			continue
		}
		if _, seen := byKey[e.Key]; !seen {
			order = append(order, e.Key)
		}
		byKey[e.Key] = e
	}
	out := make([]ExternalPlayer, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}
