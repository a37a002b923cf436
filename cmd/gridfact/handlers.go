package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/elonfeng/gridfact/internal/config"
	"github.com/elonfeng/gridfact/internal/runner"
	"github.com/elonfeng/gridfact/internal/store"
	"github.com/elonfeng/gridfact/pkg/cfbd"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}

// setup builds the runner and a context cancelled on SIGINT/SIGTERM.
// The caller owns the store and must Close it.
func setup() (context.Context, context.CancelFunc, *runner.Runner, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg)

	db, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	client := cfbd.New(cfg.CFBD.BaseURL, cfg.CFBD.Token)
	r := runner.New(cfg, db, client, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx, cancel, r, db, nil
}

func runPipeline() error {
	ctx, cancel, r, db, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer db.Close()
	return r.Run(ctx)
}

func runLand() error {
	ctx, cancel, r, db, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer db.Close()
	return r.Land(ctx)
}

func runResolve() error {
	ctx, cancel, r, db, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer db.Close()
	return r.Resolve(ctx)
}

func runIngest() error {
	ctx, cancel, r, db, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer db.Close()
	return r.Ingest(ctx)
}

func runAggregate() error {
	ctx, cancel, r, db, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer db.Close()
	return r.Aggregate(ctx)
}

func runRate() error {
	ctx, cancel, r, db, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer db.Close()
	return r.Rate(ctx)
}

func runRatings(name string, year, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg)

	db, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if year == 0 {
		if len(cfg.Data.Years) == 0 {
			return fmt.Errorf("no year configured, pass --year")
		}
		year = cfg.Data.Years[0]
	}

	ratings, err := db.TopRatings(context.Background(), strings.ToUpper(name), year, limit)
	if err != nil {
		return err
	}
	if len(ratings) == 0 {
		fmt.Printf("no %s ratings for %d (run the pipeline first: gridfact run)\n", strings.ToUpper(name), year)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RATING\tPLAYER\tTEAM")
	for _, r := range ratings {
		fmt.Fprintf(w, "%.1f\t%s\t%s\n", r.Rating.Float64, r.Player, r.Team)
	}
	return w.Flush()
}
