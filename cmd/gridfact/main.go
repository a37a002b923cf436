package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridfact",
		Short: "Ingest college football grade exports and derive team and player ratings",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(runPipelineCmd())
	root.AddCommand(landCmd())
	root.AddCommand(resolveCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(aggregateCmd())
	root.AddCommand(rateCmd())
	root.AddCommand(ratingsCmd())

	return root
}

func runPipelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: land, resolve, ingest, aggregate, rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline()
		},
	}
}

func landCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "land",
		Short: "Fetch teams, games, ratings and rosters from the CFBD API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLand()
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Match roster players to the tabular player index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve()
		},
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Rebuild the metric tables from the CSV exports and join opponents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest()
		},
	}
}

func aggregateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate",
		Short: "Reduce player-week metrics into team-week tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate()
		},
	}
}

func rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate",
		Short: "Compute composite ratings and metric percentiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRate()
		},
	}
}

func ratingsCmd() *cobra.Command {
	var (
		year  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "ratings [name]",
		Short: "Show the top composite ratings for a profile (e.g. QBR)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRatings(args[0], year, limit)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "season (default: first configured year)")
	cmd.Flags().IntVar(&limit, "limit", 20, "max players to show")
	return cmd
}
