package rating

// Component is one metric entering a composite rating. Weight sign encodes
// good (+) or bad (−); Volume marks counts that are normalized by
// player_game_count before standardization.
type Component struct {
	Metric string
	Weight float64
	Volume bool
}

// Profile declares one position family's composite rating: where its
// metrics live, who qualifies, and how the components weigh. Profiles are
// data; the rater is the only code.
type Profile struct {
	Name       string   // rating name, e.g. "QBR"
	Family     string   // season table family supplying the metrics
	Positions  []string // tabular positions the profile covers
	GateColumn string
	GateMin    float64
	GateStrict bool // true: gate passes on >, false: on >=
	Components []Component
}

// Profiles enumerates every composite rating the pipeline produces. The
// weight vectors sum to a nominal 1.0 in absolute value over the positive
// components.
var Profiles = []Profile{
	{
		Name: "QBR", Family: "passing_grades",
		Positions:  []string{"QB"},
		GateColumn: "attempts", GateMin: 40,
		Components: []Component{
			{Metric: "grades_pass", Weight: 0.25},
			{Metric: "accuracy_percent", Weight: 0.25},
			{Metric: "big_time_throws", Weight: 0.10, Volume: true},
			{Metric: "turnover_worthy_plays", Weight: -0.10, Volume: true},
			{Metric: "yards", Weight: 0.40, Volume: true},
			{Metric: "touchdowns", Weight: 0.25, Volume: true},
			{Metric: "interceptions", Weight: -0.20, Volume: true},
		},
	},
	{
		Name: "RBR", Family: "rushing_grades",
		Positions:  []string{"HB", "RB", "FB"},
		GateColumn: "total_touches", GateMin: 20,
		Components: []Component{
			{Metric: "grades_run", Weight: 0.30},
			{Metric: "yco_attempt", Weight: 0.20},
			{Metric: "elusive_rating", Weight: 0.10},
			{Metric: "breakaway_percent", Weight: 0.05},
			{Metric: "yards", Weight: 0.25, Volume: true},
			{Metric: "touchdowns", Weight: 0.10, Volume: true},
			{Metric: "fumbles", Weight: -0.10, Volume: true},
		},
	},
	{
		Name: "RRR", Family: "receiving_grades",
		Positions:  []string{"HB", "RB"},
		GateColumn: "targets", GateMin: 5,
		Components: []Component{
			{Metric: "grades_pass_route", Weight: 0.20},
			{Metric: "yprr", Weight: 0.20},
			{Metric: "yards_after_catch", Weight: 0.15, Volume: true},
			{Metric: "contested_catch_rate", Weight: 0.15},
			{Metric: "drop_rate", Weight: -0.10},
			{Metric: "first_downs", Weight: 0.15, Volume: true},
			{Metric: "fumbles", Weight: -0.05, Volume: true},
		},
	},
	{
		Name: "WRR", Family: "receiving_grades",
		Positions:  []string{"WR"},
		GateColumn: "targets", GateMin: 5,
		Components: []Component{
			{Metric: "grades_pass_route", Weight: 0.25},
			{Metric: "yprr", Weight: 0.20},
			{Metric: "contested_catch_rate", Weight: 0.10},
			{Metric: "drop_rate", Weight: -0.10},
			{Metric: "yards", Weight: 0.25, Volume: true},
			{Metric: "touchdowns", Weight: 0.10, Volume: true},
			{Metric: "first_downs", Weight: 0.10, Volume: true},
			{Metric: "fumbles", Weight: -0.05, Volume: true},
		},
	},
	{
		Name: "TER", Family: "receiving_grades",
		Positions:  []string{"TE"},
		GateColumn: "targets", GateMin: 6,
		Components: []Component{
			{Metric: "grades_pass_route", Weight: 0.25},
			{Metric: "yprr", Weight: 0.20},
			{Metric: "contested_catch_rate", Weight: 0.10},
			{Metric: "drop_rate", Weight: -0.10},
			{Metric: "yards", Weight: 0.20, Volume: true},
			{Metric: "touchdowns", Weight: 0.15, Volume: true},
			{Metric: "grades_run_block", Weight: 0.10},
		},
	},
	{
		Name: "CR", Family: "blocking_grades",
		Positions:  []string{"C"},
		GateColumn: "snap_counts_block", GateMin: 20, GateStrict: true,
		Components: blockingComponents,
	},
	{
		Name: "GR", Family: "blocking_grades",
		Positions:  []string{"G", "OG"},
		GateColumn: "snap_counts_block", GateMin: 20, GateStrict: true,
		Components: blockingComponents,
	},
	{
		Name: "TR", Family: "blocking_grades",
		Positions:  []string{"T", "OT"},
		GateColumn: "snap_counts_block", GateMin: 20, GateStrict: true,
		Components: blockingComponents,
	},
	{
		Name: "DLR", Family: "defense_grades",
		Positions:  []string{"DI", "DT", "ED"},
		GateColumn: "snap_counts_defense", GateMin: 40, GateStrict: true,
		Components: []Component{
			{Metric: "grades_run_defense", Weight: 0.30},
			{Metric: "grades_pass_rush_defense", Weight: 0.30},
			{Metric: "stops", Weight: 0.15, Volume: true},
			{Metric: "sacks", Weight: 0.10, Volume: true},
			{Metric: "hurries", Weight: 0.10, Volume: true},
			{Metric: "batted_passes", Weight: 0.05, Volume: true},
			{Metric: "missed_tackle_rate", Weight: -0.10},
		},
	},
	{
		Name: "LBR", Family: "defense_grades",
		Positions:  []string{"LB", "ILB", "OLB"},
		GateColumn: "snap_counts_defense", GateMin: 40, GateStrict: true,
		Components: []Component{
			{Metric: "grades_defense", Weight: 0.30},
			{Metric: "grades_run_defense", Weight: 0.20},
			{Metric: "grades_coverage_defense", Weight: 0.20},
			{Metric: "tackles", Weight: 0.15, Volume: true},
			{Metric: "stops", Weight: 0.15, Volume: true},
			{Metric: "missed_tackle_rate", Weight: -0.15},
		},
	},
	{
		Name: "CBR", Family: "coverage_grades",
		Positions:  []string{"CB"},
		GateColumn: "snap_counts_coverage", GateMin: 40, GateStrict: true,
		Components: []Component{
			{Metric: "grades_coverage_defense", Weight: 0.40},
			{Metric: "forced_incompletion_rate", Weight: 0.15},
			{Metric: "pass_break_ups", Weight: 0.10, Volume: true},
			{Metric: "interceptions", Weight: 0.15, Volume: true},
			{Metric: "reception_percent", Weight: -0.15},
			{Metric: "yards_per_coverage_snap", Weight: -0.15},
			{Metric: "targeted_qb_rating", Weight: -0.10},
			{Metric: "snap_counts_coverage", Weight: 0.20, Volume: true},
		},
	},
	{
		Name: "SR", Family: "coverage_grades",
		Positions:  []string{"S", "FS", "SS"},
		GateColumn: "snap_counts_defense", GateMin: 40, GateStrict: true,
		Components: []Component{
			{Metric: "grades_coverage_defense", Weight: 0.50},
			{Metric: "forced_incompletion_rate", Weight: 0.15},
			{Metric: "coverage_percent", Weight: 0.10},
			{Metric: "pass_break_ups", Weight: 0.10, Volume: true},
			{Metric: "interceptions", Weight: 0.15, Volume: true},
			{Metric: "yards_per_coverage_snap", Weight: -0.10},
			{Metric: "snap_counts_coverage", Weight: 0.25, Volume: true},
			{Metric: "missed_tackle_rate", Weight: -0.05},
		},
	},
	{
		Name: "DBR", Family: "coverage_grades",
		Positions:  []string{"DB"},
		GateColumn: "snap_counts_coverage", GateMin: 40, GateStrict: true,
		Components: []Component{
			{Metric: "grades_coverage_defense", Weight: 0.45},
			{Metric: "forced_incompletion_rate", Weight: 0.15},
			{Metric: "pass_break_ups", Weight: 0.10, Volume: true},
			{Metric: "interceptions", Weight: 0.15, Volume: true},
			{Metric: "snap_counts_coverage", Weight: 0.15, Volume: true},
			{Metric: "yards_per_coverage_snap", Weight: -0.10},
			{Metric: "missed_tackle_rate", Weight: -0.05},
		},
	},
}

// blockingComponents is shared by the three interior/edge line ratings;
// the positions differ, the vector does not.
var blockingComponents = []Component{
	{Metric: "grades_pass_block", Weight: 0.35},
	{Metric: "grades_run_block", Weight: 0.35},
	{Metric: "pbe", Weight: 0.30},
	{Metric: "sacks_allowed", Weight: -0.15, Volume: true},
	{Metric: "pressures_allowed", Weight: -0.10, Volume: true},
	{Metric: "penalties", Weight: -0.05, Volume: true},
}
