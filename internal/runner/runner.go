// Package runner sequences the pipeline: land reference data, resolve
// identities, ingest tabular exports, join opponents, aggregate teams and
// compute composite ratings.
package runner

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/elonfeng/gridfact/internal/config"
	"github.com/elonfeng/gridfact/internal/store"
	"github.com/elonfeng/gridfact/pkg/cfbd"
	"github.com/elonfeng/gridfact/pkg/rating"
	"github.com/elonfeng/gridfact/pkg/resolve"
	"github.com/elonfeng/gridfact/pkg/schedule"
	"github.com/elonfeng/gridfact/pkg/tabular"
	"github.com/elonfeng/gridfact/pkg/teamagg"
)

// Runner wires the pipeline stages over one store.
type Runner struct {
	cfg      *config.Config
	store    *store.Store
	client   *cfbd.Client
	ingester *tabular.Ingester
	resolver *resolve.Resolver
	joiner   *schedule.Joiner
	agg      *teamagg.Aggregator
	rater    *rating.Rater
	log      *logrus.Logger
	out      io.Writer
}

func New(cfg *config.Config, st *store.Store, client *cfbd.Client, log *logrus.Logger) *Runner {
	loader := tabular.NewLoader(cfg.Data.Dir, log)
	return &Runner{
		cfg:      cfg,
		store:    st,
		client:   client,
		ingester: tabular.NewIngester(st, loader, log),
		resolver: resolve.New(st, log),
		joiner:   schedule.NewJoiner(st, log),
		agg:      teamagg.New(st, log),
		rater:    rating.New(st, log),
		log:      log,
		out:      os.Stdout,
	}
}

// Run executes the full pipeline for the configured years. Landing is
// skipped without an API token, so a run can work from previously landed
// reference data.
func (r *Runner) Run(ctx context.Context) error {
	if r.cfg.CFBD.Token != "" {
		if err := r.Land(ctx); err != nil {
			return err
		}
	} else {
		r.log.Warn("no CFBD token, landing skipped")
	}
	if err := r.Resolve(ctx); err != nil {
		return err
	}
	if err := r.Ingest(ctx); err != nil {
		return err
	}
	if err := r.Aggregate(ctx); err != nil {
		return err
	}
	return r.Rate(ctx)
}

// Land fetches teams, games, strength ratings and rosters from the
// CollegeFootballData API and upserts them.
func (r *Runner) Land(ctx context.Context) error {
	for _, year := range r.cfg.Data.Years {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.log.WithField("year", year).Info("landing reference data")

		teams, err := r.client.Teams(ctx, year)
		if err != nil {
			return fmt.Errorf("land teams %d: %w", year, err)
		}
		for _, t := range teams {
			logo := ""
			if len(t.Logos) > 0 {
				logo = t.Logos[0]
			}
			err := r.store.UpsertTeam(ctx, &store.Team{
				ID:           t.ID,
				Year:         year,
				School:       t.School,
				Conference:   t.Conference,
				Abbreviation: t.Abbreviation,
				Logo:         logo,
			})
			if err != nil {
				return err
			}
		}
		r.log.WithField("teams", len(teams)).Info("teams landed")

		games, err := r.client.Games(ctx, year)
		if err != nil {
			return fmt.Errorf("land games %d: %w", year, err)
		}
		for _, g := range games {
			err := r.store.UpsertGame(ctx, &store.Game{
				ID:         g.ID,
				Season:     g.Season,
				Week:       g.Week,
				SeasonType: g.SeasonType,
				StartDate:  g.StartDate,
				HomeID:     g.HomeID,
				AwayID:     g.AwayID,
				HomePoints: nullInt(g.HomePoints),
				AwayPoints: nullInt(g.AwayPoints),
				Completed:  g.Completed,
			})
			if err != nil {
				return err
			}
		}
		r.log.WithField("games", len(games)).Info("games landed")

		ratings, err := r.client.Ratings(ctx, year)
		if err != nil {
			return fmt.Errorf("land ratings %d: %w", year, err)
		}
		for _, sp := range ratings {
			row := &store.TeamRating{
				Year:    year,
				Team:    sp.Team,
				Offense: sql.NullFloat64{Float64: sp.Offense.Rating, Valid: true},
				Defense: sql.NullFloat64{Float64: sp.Defense.Rating, Valid: true},
			}
			if t, err := r.store.GetTeamBySchool(ctx, year, sp.Team); err == nil {
				row.TeamID = sql.NullInt64{Int64: t.ID, Valid: true}
			}
			if err := r.store.UpsertTeamRating(ctx, row); err != nil {
				return err
			}
		}
		r.log.WithField("ratings", len(ratings)).Info("strength ratings landed")

		if err := r.landRosters(ctx, year); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) landRosters(ctx context.Context, year int) error {
	schools := r.cfg.Data.Teams
	if len(schools) == 0 {
		teams, err := r.store.ListTeams(ctx, year)
		if err != nil {
			return err
		}
		for _, t := range teams {
			schools = append(schools, t.School)
		}
	}

	total := 0
	for _, school := range schools {
		if err := ctx.Err(); err != nil {
			return err
		}
		roster, err := r.client.Roster(ctx, year, school)
		if err != nil {
			return fmt.Errorf("land roster %s/%d: %w", school, year, err)
		}
		team, err := r.store.GetTeamBySchool(ctx, year, school)
		if err != nil {
			r.log.WithField("team", school).Warn("roster for unknown team, skipping")
			continue
		}
		for _, p := range roster {
			if p.ID == "" {
				continue
			}
			err := r.store.UpsertPlayerSeason(ctx, &store.PlayerSeason{
				PlayerID: p.ID,
				Year:     year,
				Player:   p.FirstName + " " + p.LastName,
				Team:     school,
				TeamID:   team.ID,
				Position: p.Position,
			})
			if err != nil {
				return err
			}
		}
		total += len(roster)
	}
	r.log.WithFields(logrus.Fields{"year": year, "players": total}).Info("rosters landed")
	return nil
}

// Resolve matches roster players against the tabular season exports.
// It runs before ingest because ingest only lands rows whose external
// key has a canonical owner.
func (r *Runner) Resolve(ctx context.Context) error {
	for _, year := range r.cfg.Data.Years {
		if err := ctx.Err(); err != nil {
			return err
		}

		index, stats, err := r.ingester.SeasonIndex(year)
		if err != nil {
			return fmt.Errorf("build player index %d: %w", year, err)
		}
		r.log.WithFields(logrus.Fields{
			"year": year, "entries": len(index), "files": stats.Files,
		}).Info("player index built")

		res, err := r.resolver.ResolveYear(ctx, year, index)
		if err != nil {
			return fmt.Errorf("resolve %d: %w", year, err)
		}
		r.log.WithFields(logrus.Fields{
			"year":      year,
			"matched":   res.Matched,
			"refined":   res.Refined,
			"unmatched": res.Unmatched,
			"skipped":   res.Skipped,
		}).Info("identity resolution done")
	}
	return nil
}

// Ingest rebuilds the season and weekly metric tables for every family,
// then joins opponents and writes adjusted grades onto the weekly rows.
func (r *Runner) Ingest(ctx context.Context) error {
	years := r.cfg.Data.Years

	for _, fam := range tabular.Families {
		if err := ctx.Err(); err != nil {
			return err
		}
		log := r.log.WithField("family", fam.Name)

		sStats, err := r.ingester.IngestSeason(ctx, fam, years)
		if err != nil {
			return fmt.Errorf("ingest season %s: %w", fam.Name, err)
		}
		wStats, err := r.ingester.IngestWeekly(ctx, fam, years, r.cfg.Data.Week)
		if err != nil {
			return fmt.Errorf("ingest weekly %s: %w", fam.Name, err)
		}
		log.WithFields(logrus.Fields{
			"season_rows": sStats.Inserted,
			"week_rows":   wStats.Inserted,
			"unresolved":  sStats.Unresolved + wStats.Unresolved,
		}).Info("family ingested")
	}

	for _, year := range years {
		if err := r.store.SeedNationalAverages(ctx, year,
			r.cfg.Strength.NationalOffense, r.cfg.Strength.NationalDefense); err != nil {
			return err
		}
		for _, fam := range tabular.Families {
			if err := ctx.Err(); err != nil {
				return err
			}
			jStats, err := r.joiner.JoinFamily(ctx, fam, year, r.cfg.Data.Week)
			if err != nil {
				return fmt.Errorf("join %s/%d: %w", fam.Name, year, err)
			}
			r.log.WithFields(logrus.Fields{
				"family":       fam.Name,
				"year":         year,
				"rows":         jStats.Rows,
				"missing_game": jStats.MissingGame,
				"adjusted":     jStats.Adjusted,
			}).Info("opponents joined")
		}
	}
	return nil
}

// Aggregate reduces player-week rows into team-week rows for every family.
// Each family's table is rebuilt once over all configured years.
func (r *Runner) Aggregate(ctx context.Context) error {
	for _, fam := range tabular.Families {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats, err := r.agg.AggregateFamily(ctx, fam, r.cfg.Data.Years)
		if err != nil {
			return fmt.Errorf("aggregate %s: %w", fam.Name, err)
		}
		r.log.WithFields(logrus.Fields{
			"family":      fam.Name,
			"player_rows": stats.PlayerRows,
			"team_rows":   stats.TeamRows,
		}).Info("team aggregation done")
	}
	return nil
}

// topRatingsCount is how many leaders each profile prints after rating.
const topRatingsCount = 10

// Rate computes every composite rating profile and its metric percentiles,
// then prints each profile's leaders as a sanity signal.
func (r *Runner) Rate(ctx context.Context) error {
	for _, year := range r.cfg.Data.Years {
		for _, p := range rating.Profiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats, err := r.rater.RateProfile(ctx, p, year)
			if err != nil {
				return fmt.Errorf("rate %s/%d: %w", p.Name, year, err)
			}
			if err := r.rater.PercentilesProfile(ctx, p, year); err != nil {
				return fmt.Errorf("percentiles %s/%d: %w", p.Name, year, err)
			}
			r.log.WithFields(logrus.Fields{
				"profile": p.Name,
				"year":    year,
				"rated":   stats.Rated,
				"gated":   stats.Gated,
			}).Info("composite rating done")

			if stats.Rated > 0 {
				if err := r.printTopRatings(ctx, p.Name, year); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Runner) printTopRatings(ctx context.Context, name string, year int) error {
	top, err := r.store.TopRatings(ctx, name, year, topRatingsCount)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return nil
	}

	fmt.Fprintf(r.out, "\n%s %d\n", name, year)
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RATING\tPLAYER\tTEAM")
	for _, row := range top {
		fmt.Fprintf(w, "%.1f\t%s\t%s\n", row.Rating.Float64, row.Player, row.Team)
	}
	return w.Flush()
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
