package tabular

// Side marks whether a family describes offensive or defensive play. The
// side decides which opponent strength rating adjusts its grade columns.
type Side string

const (
	SideOffense Side = "offense"
	SideDefense Side = "defense"
)

// GradeMarker is the substring identifying grade columns. Every column
// containing it gets an opponent-adjusted sibling on weekly tables.
const GradeMarker = "grade"

// Family describes one metric export group. Everything the engine needs to
// ingest, adjust and aggregate a family is declared here; there is no
// per-family code.
type Family struct {
	// Name is the filename token and table stem, e.g. "passing_grades".
	Name  string
	Title string
	Side  Side

	// WeightPairs maps a rate column to the volume column that weights it
	// during team aggregation: team value = Σ(x·w)/Σw. Columns absent from
	// the input are ignored.
	WeightPairs map[string]string

	// MeanCols are rate columns with no natural weight, aggregated as a
	// plain arithmetic mean.
	MeanCols []string
}

// SeasonTable is the per-player season metric table.
func (f Family) SeasonTable() string { return "players_" + f.Name + "_season" }

// WeekTable is the per-player weekly metric table.
func (f Family) WeekTable() string { return "players_" + f.Name + "_week" }

// TeamWeekTable is the aggregated per-team weekly table.
func (f Family) TeamWeekTable() string { return "team_" + f.Name + "_week" }

// ByName returns the family for a filename token.
func ByName(name string) (Family, bool) {
	for _, f := range Families {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}

// Offensive reports whether the family grades offensive play.
func (f Family) Offensive() bool { return f.Side == SideOffense }

// Families enumerates every export group the pipeline understands. The
// weight pairings are data taken from the export column dictionaries, not
// derived; edits here track export releases.
var Families = []Family{
	{
		Name:  "passing_grades",
		Title: "Passing Grades",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"accuracy_percent":       "attempts",
			"avg_depth_of_target":    "attempts",
			"btt_rate":               "attempts",
			"completion_percent":     "attempts",
			"grades_pass":            "attempts",
			"qb_rating":              "attempts",
			"twp_rate":               "attempts",
			"ypa":                    "attempts",
			"grades_run":             "run_plays",
			"avg_time_to_throw":      "passing_snaps",
			"grades_hands_fumble":    "passing_snaps",
			"grades_offense":         "passing_snaps",
			"grades_offense_penalty": "passing_snaps",
			"pressure_to_sack_rate":  "passing_snaps",
			"sack_percent":           "passing_snaps",
		},
	},
	{
		Name:  "passing_concept",
		Title: "Passing Concept",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"npa_accuracy_percent":    "npa_attempts",
			"npa_btt_rate":            "npa_attempts",
			"npa_completion_percent":  "npa_attempts",
			"npa_grades_pass":         "npa_attempts",
			"npa_qb_rating":           "npa_attempts",
			"npa_twp_rate":            "npa_attempts",
			"npa_ypa":                 "npa_attempts",
			"npa_avg_depth_of_target": "npa_attempts",

			"pa_accuracy_percent":    "pa_attempts",
			"pa_btt_rate":            "pa_attempts",
			"pa_completion_percent":  "pa_attempts",
			"pa_grades_pass":         "pa_attempts",
			"pa_qb_rating":           "pa_attempts",
			"pa_twp_rate":            "pa_attempts",
			"pa_ypa":                 "pa_attempts",
			"pa_avg_depth_of_target": "pa_attempts",

			"screen_accuracy_percent":   "screen_attempts",
			"screen_completion_percent": "screen_attempts",
			"screen_grades_pass":        "screen_attempts",
			"screen_qb_rating":          "screen_attempts",
			"screen_twp_rate":           "screen_attempts",
			"screen_ypa":                "screen_attempts",

			"no_screen_accuracy_percent":   "no_screen_attempts",
			"no_screen_btt_rate":           "no_screen_attempts",
			"no_screen_completion_percent": "no_screen_attempts",
			"no_screen_grades_pass":        "no_screen_attempts",
			"no_screen_qb_rating":          "no_screen_attempts",
			"no_screen_twp_rate":           "no_screen_attempts",
			"no_screen_ypa":                "no_screen_attempts",

			"npa_sack_percent":           "npa_passing_snaps",
			"npa_pressure_to_sack_rate":  "npa_passing_snaps",
			"npa_grades_offense_penalty": "npa_passing_snaps",
			"npa_grades_hands_fumble":    "npa_passing_snaps",
			"pa_sack_percent":            "pa_passing_snaps",
			"pa_pressure_to_sack_rate":   "pa_passing_snaps",
			"pa_grades_offense_penalty":  "pa_passing_snaps",
			"pa_grades_hands_fumble":     "pa_passing_snaps",
		},
	},
	{
		Name:  "passing_depth",
		Title: "Passing Depth",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"behind_los_percentage": "base_attempts",
			"short_percentage":      "base_attempts",
			"medium_percentage":     "base_attempts",
			"deep_percentage":       "base_attempts",

			"behind_los_accuracy_percent":    "behind_los_attempts",
			"behind_los_completion_percent":  "behind_los_attempts",
			"behind_los_grades_pass":         "behind_los_attempts",
			"behind_los_qb_rating":           "behind_los_attempts",
			"behind_los_twp_rate":            "behind_los_attempts",
			"behind_los_ypa":                 "behind_los_attempts",
			"behind_los_avg_depth_of_target": "behind_los_attempts",

			"short_accuracy_percent":    "short_attempts",
			"short_btt_rate":            "short_attempts",
			"short_completion_percent":  "short_attempts",
			"short_grades_pass":         "short_attempts",
			"short_qb_rating":           "short_attempts",
			"short_twp_rate":            "short_attempts",
			"short_ypa":                 "short_attempts",
			"short_avg_depth_of_target": "short_attempts",

			"medium_accuracy_percent":    "medium_attempts",
			"medium_btt_rate":            "medium_attempts",
			"medium_completion_percent":  "medium_attempts",
			"medium_grades_pass":         "medium_attempts",
			"medium_qb_rating":           "medium_attempts",
			"medium_twp_rate":            "medium_attempts",
			"medium_ypa":                 "medium_attempts",
			"medium_avg_depth_of_target": "medium_attempts",

			"deep_accuracy_percent":    "deep_attempts",
			"deep_btt_rate":            "deep_attempts",
			"deep_completion_percent":  "deep_attempts",
			"deep_grades_pass":         "deep_attempts",
			"deep_qb_rating":           "deep_attempts",
			"deep_twp_rate":            "deep_attempts",
			"deep_ypa":                 "deep_attempts",
			"deep_avg_depth_of_target": "deep_attempts",
		},
	},
	{
		Name:  "passing_pressure",
		Title: "Passing Pressure",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"blitz_accuracy_percent":   "blitz_attempts",
			"blitz_btt_rate":           "blitz_attempts",
			"blitz_completion_percent": "blitz_attempts",
			"blitz_grades_pass":        "blitz_attempts",
			"blitz_qb_rating":          "blitz_attempts",
			"blitz_twp_rate":           "blitz_attempts",
			"blitz_ypa":                "blitz_attempts",

			"no_blitz_accuracy_percent":   "no_blitz_attempts",
			"no_blitz_btt_rate":           "no_blitz_attempts",
			"no_blitz_completion_percent": "no_blitz_attempts",
			"no_blitz_grades_pass":        "no_blitz_attempts",
			"no_blitz_qb_rating":          "no_blitz_attempts",
			"no_blitz_twp_rate":           "no_blitz_attempts",
			"no_blitz_ypa":                "no_blitz_attempts",

			"pressure_accuracy_percent":   "pressure_attempts",
			"pressure_btt_rate":           "pressure_attempts",
			"pressure_completion_percent": "pressure_attempts",
			"pressure_grades_pass":        "pressure_attempts",
			"pressure_qb_rating":          "pressure_attempts",
			"pressure_twp_rate":           "pressure_attempts",
			"pressure_ypa":                "pressure_attempts",

			"no_pressure_accuracy_percent":   "no_pressure_attempts",
			"no_pressure_btt_rate":           "no_pressure_attempts",
			"no_pressure_completion_percent": "no_pressure_attempts",
			"no_pressure_grades_pass":        "no_pressure_attempts",
			"no_pressure_qb_rating":          "no_pressure_attempts",
			"no_pressure_twp_rate":           "no_pressure_attempts",
			"no_pressure_ypa":                "no_pressure_attempts",

			"blitz_sack_percent":             "blitz_passing_snaps",
			"blitz_pressure_to_sack_rate":    "blitz_passing_snaps",
			"no_blitz_sack_percent":          "no_blitz_passing_snaps",
			"no_blitz_pressure_to_sack_rate": "no_blitz_passing_snaps",
			"pressure_sack_percent":          "pressure_passing_snaps",
			"pressure_pressure_to_sack_rate": "pressure_passing_snaps",
		},
	},
	{
		Name:  "rushing_grades",
		Title: "Rushing Grades",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"breakaway_percent":   "attempts",
			"grades_run":          "attempts",
			"yco_attempt":         "attempts",
			"ypa":                 "attempts",
			"grades_hands_fumble": "total_touches",
			"grades_offense":      "run_snaps",
			"grades_pass_block":   "pass_block_snaps",
			"grades_run_block":    "run_block_snaps",
		},
		MeanCols: []string{"elusive_rating"},
	},
	{
		Name:  "receiving_grades",
		Title: "Receiving Grades",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"avg_depth_of_target":  "targets",
			"caught_percent":       "targets",
			"drop_rate":            "targets",
			"grades_hands_drop":    "targets",
			"targeted_qb_rating":   "targets",
			"contested_catch_rate": "contested_targets",
			"grades_pass_route":    "routes",
			"yprr":                 "routes",
			"yards_per_reception":  "receptions",
			"grades_offense":       "snap_counts_offense",
			"grades_hands_fumble":  "total_touches",
		},
	},
	{
		Name:  "receiving_concept",
		Title: "Receiving Concept",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"man_caught_percent":       "man_targets",
			"man_contested_catch_rate": "man_contested_targets",
			"man_drop_rate":            "man_targets",
			"man_grades_pass_route":    "man_routes",
			"man_targeted_qb_rating":   "man_targets",
			"man_yprr":                 "man_routes",

			"zone_caught_percent":       "zone_targets",
			"zone_contested_catch_rate": "zone_contested_targets",
			"zone_drop_rate":            "zone_targets",
			"zone_grades_pass_route":    "zone_routes",
			"zone_targeted_qb_rating":   "zone_targets",
			"zone_yprr":                 "zone_routes",
		},
	},
	{
		Name:  "receiving_depth",
		Title: "Receiving Depth",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"behind_los_target_share": "base_targets",
			"short_target_share":      "base_targets",
			"medium_target_share":     "base_targets",
			"deep_target_share":       "base_targets",

			"behind_los_caught_percent":       "behind_los_targets",
			"behind_los_drop_rate":            "behind_los_targets",
			"behind_los_grades_pass_route":    "behind_los_routes",
			"behind_los_targeted_qb_rating":   "behind_los_targets",
			"behind_los_yprr":                 "behind_los_routes",
			"behind_los_contested_catch_rate": "behind_los_contested_targets",

			"short_caught_percent":       "short_targets",
			"short_drop_rate":            "short_targets",
			"short_grades_pass_route":    "short_routes",
			"short_targeted_qb_rating":   "short_targets",
			"short_yprr":                 "short_routes",
			"short_contested_catch_rate": "short_contested_targets",

			"medium_caught_percent":       "medium_targets",
			"medium_drop_rate":            "medium_targets",
			"medium_grades_pass_route":    "medium_routes",
			"medium_targeted_qb_rating":   "medium_targets",
			"medium_yprr":                 "medium_routes",
			"medium_contested_catch_rate": "medium_contested_targets",

			"deep_caught_percent":       "deep_targets",
			"deep_drop_rate":            "deep_targets",
			"deep_grades_pass_route":    "deep_routes",
			"deep_targeted_qb_rating":   "deep_targets",
			"deep_yprr":                 "deep_routes",
			"deep_contested_catch_rate": "deep_contested_targets",
		},
	},
	{
		Name:  "receiving_scheme",
		Title: "Receiving Scheme",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"pa_caught_percent":     "pa_targets",
			"pa_grades_pass_route":  "pa_routes",
			"pa_targeted_qb_rating": "pa_targets",
			"pa_yprr":               "pa_routes",

			"npa_caught_percent":     "npa_targets",
			"npa_grades_pass_route":  "npa_routes",
			"npa_targeted_qb_rating": "npa_targets",
			"npa_yprr":               "npa_routes",

			"screen_caught_percent":     "screen_targets",
			"screen_grades_pass_route":  "screen_routes",
			"screen_targeted_qb_rating": "screen_targets",
			"screen_yprr":               "screen_routes",
		},
	},
	{
		Name:  "blocking_grades",
		Title: "Blocking Grades",
		Side:  SideOffense,
		WeightPairs: map[string]string{
			"grades_offense":         "snap_counts_offense",
			"grades_offense_penalty": "snap_counts_offense",
			"grades_pass_block":      "snap_counts_pass_block",
			"pbe":                    "snap_counts_pass_block",
			"grades_run_block":       "snap_counts_run_block",
		},
	},
	{
		Name:  "defense_grades",
		Title: "Defense Grades",
		Side:  SideDefense,
		WeightPairs: map[string]string{
			"grades_defense":           "snap_counts_defense",
			"grades_defense_penalty":   "snap_counts_defense",
			"grades_tackle":            "snap_counts_defense",
			"grades_run_defense":       "snap_counts_run_defense",
			"grades_pass_rush_defense": "snap_counts_pass_rush",
			"grades_coverage_defense":  "snap_counts_coverage",
			"missed_tackle_rate":       "tackle_attempts",
			"stop_percent":             "snap_counts_defense",
		},
	},
	{
		Name:  "coverage_grades",
		Title: "Coverage Grades",
		Side:  SideDefense,
		WeightPairs: map[string]string{
			"grades_coverage_defense":  "snap_counts_coverage",
			"yards_per_coverage_snap":  "snap_counts_coverage",
			"coverage_percent":         "snap_counts_defense",
			"forced_incompletion_rate": "targets",
			"reception_percent":        "targets",
			"targeted_qb_rating":       "targets",
			"yards_per_reception":      "receptions",
			"missed_tackle_rate":       "tackle_attempts",
			"avg_depth_of_target":      "targets",
		},
	},
	{
		Name:  "pass_rush",
		Title: "Pass Rush",
		Side:  SideDefense,
		WeightPairs: map[string]string{
			"grades_pass_rush_defense": "snap_counts_pass_rush",
			"pass_rush_win_rate":       "snap_counts_pass_rush",
			"prp":                      "snap_counts_pass_rush",

			"true_pass_set_grades_pass_rush_defense": "true_pass_set_snap_counts_pass_rush",
			"true_pass_set_pass_rush_win_rate":       "true_pass_set_snap_counts_pass_rush",
			"true_pass_set_prp":                      "true_pass_set_snap_counts_pass_rush",
		},
	},
	{
		Name:  "run_defense",
		Title: "Run Defense",
		Side:  SideDefense,
		WeightPairs: map[string]string{
			"grades_run_defense":      "snap_counts_run_defense",
			"grades_tackle":           "snap_counts_run_defense",
			"stop_percent":            "snap_counts_run_defense",
			"missed_tackle_rate":      "tackle_attempts",
			"average_depth_of_tackle": "tackles",
		},
	},
	{
		Name:  "slot_coverage",
		Title: "Slot Coverage",
		Side:  SideDefense,
		WeightPairs: map[string]string{
			"slot_grades_coverage_defense":  "snap_counts_slot",
			"slot_yards_per_coverage_snap":  "snap_counts_slot",
			"slot_forced_incompletion_rate": "slot_targets",
			"slot_reception_percent":        "slot_targets",
			"slot_targeted_qb_rating":       "slot_targets",

			"wide_grades_coverage_defense":  "snap_counts_wide",
			"wide_yards_per_coverage_snap":  "snap_counts_wide",
			"wide_forced_incompletion_rate": "wide_targets",
			"wide_reception_percent":        "wide_targets",
			"wide_targeted_qb_rating":       "wide_targets",
		},
	},
}
