package resolve

import "strings"

// TeamAliases is the bijection between the canonical school name (HTTP
// roster source, lowercased) and the team token used by the tabular
// exports. Resolution never fuzzy-matches teams; a school absent from this
// table simply produces no candidates.
var TeamAliases = map[string]string{
	"air force":             "AIR FORCE",
	"akron":                 "AKRON",
	"alabama":               "ALABAMA",
	"appalachian state":     "APP STATE",
	"arizona":               "ARIZONA",
	"arizona state":         "ARIZONA ST",
	"arkansas":              "ARKANSAS",
	"arkansas state":        "ARKANSAS ST",
	"army":                  "ARMY",
	"auburn":                "AUBURN",
	"ball state":            "BALL ST",
	"baylor":                "BAYLOR",
	"boise state":           "BOISE ST",
	"boston college":        "BOSTON COL",
	"bowling green":         "BOWLING GREEN",
	"buffalo":               "BUFFALO",
	"byu":                   "BYU",
	"california":            "CALIFORNIA",
	"central michigan":      "CENT MICHIGAN",
	"charlotte":             "CHARLOTTE",
	"cincinnati":            "CINCINNATI",
	"clemson":               "CLEMSON",
	"coastal carolina":      "COASTAL CAR",
	"colorado":              "COLORADO",
	"colorado state":        "COLORADO ST",
	"duke":                  "DUKE",
	"east carolina":         "E CAROLINA",
	"eastern michigan":      "E MICHIGAN",
	"florida":               "FLORIDA",
	"florida atlantic":      "FLA ATLANTIC",
	"florida international": "FIU",
	"florida state":         "FLORIDA ST",
	"fresno state":          "FRESNO ST",
	"georgia":               "GEORGIA",
	"georgia southern":      "GA SOUTHERN",
	"georgia state":         "GA STATE",
	"georgia tech":          "GA TECH",
	"hawai'i":               "HAWAII",
	"houston":               "HOUSTON",
	"illinois":              "ILLINOIS",
	"indiana":               "INDIANA",
	"iowa":                  "IOWA",
	"iowa state":            "IOWA ST",
	"jacksonville state":    "JACKSONVILLE ST",
	"james madison":         "JAMES MADISON",
	"kansas":                "KANSAS",
	"kansas state":          "KANSAS ST",
	"kennesaw state":        "KENNESAW ST",
	"kent state":            "KENT ST",
	"kentucky":              "KENTUCKY",
	"liberty":               "LIBERTY",
	"louisiana":             "LOUISIANA",
	"louisiana tech":        "LA TECH",
	"louisville":            "LOUISVILLE",
	"lsu":                   "LSU",
	"marshall":              "MARSHALL",
	"maryland":              "MARYLAND",
	"memphis":               "MEMPHIS",
	"miami":                 "MIAMI FL",
	"miami (oh)":            "MIAMI OH",
	"michigan":              "MICHIGAN",
	"michigan state":        "MICHIGAN ST",
	"middle tennessee":      "MID TENNESSEE",
	"minnesota":             "MINNESOTA",
	"mississippi state":     "MISS ST",
	"missouri":              "MISSOURI",
	"navy":                  "NAVY",
	"nc state":              "NC STATE",
	"nebraska":              "NEBRASKA",
	"nevada":                "NEVADA",
	"new mexico":            "NEW MEXICO",
	"new mexico state":      "NEW MEXICO ST",
	"north carolina":        "N CAROLINA",
	"north texas":           "N TEXAS",
	"northern illinois":     "N ILLINOIS",
	"northwestern":          "NORTHWESTERN",
	"notre dame":            "NOTRE DAME",
	"ohio":                  "OHIO",
	"ohio state":            "OHIO ST",
	"oklahoma":              "OKLAHOMA",
	"oklahoma state":        "OKLAHOMA ST",
	"old dominion":          "OLD DOMINION",
	"ole miss":              "OLE MISS",
	"oregon":                "OREGON",
	"oregon state":          "OREGON ST",
	"penn state":            "PENN ST",
	"pittsburgh":            "PITTSBURGH",
	"purdue":                "PURDUE",
	"rice":                  "RICE",
	"rutgers":               "RUTGERS",
	"sam houston state":     "SAM HOUSTON ST",
	"san diego state":       "SAN DIEGO ST",
	"san josé state":        "SAN JOSE ST",
	"smu":                   "SMU",
	"south alabama":         "S ALABAMA",
	"south carolina":        "S CAROLINA",
	"south florida":         "S FLORIDA",
	"southern miss":         "SOUTHERN MISS",
	"stanford":              "STANFORD",
	"syracuse":              "SYRACUSE",
	"tcu":                   "TCU",
	"temple":                "TEMPLE",
	"tennessee":             "TENNESSEE",
	"texas":                 "TEXAS",
	"texas a&m":             "TEXAS A&M",
	"texas state":           "TEXAS STATE",
	"texas tech":            "TEXAS TECH",
	"toledo":                "TOLEDO",
	"troy":                  "TROY",
	"tulane":                "TULANE",
	"tulsa":                 "TULSA",
	"uab":                   "UAB",
	"ucf":                   "UCF",
	"ucla":                  "UCLA",
	"uconn":                 "UCONN",
	"ul monroe":             "LA MONROE",
	"umass":                 "MASSACHUSETTS",
	"unlv":                  "UNLV",
	"usc":                   "USC",
	"utah":                  "UTAH",
	"utah state":            "UTAH ST",
	"utep":                  "UTEP",
	"utsa":                  "UTSA",
	"vanderbilt":            "VANDERBILT",
	"virginia":              "VIRGINIA",
	"virginia tech":         "VA TECH",
	"wake forest":           "WAKE FOREST",
	"washington":            "WASHINGTON",
	"washington state":      "WASHINGTON ST",
	"west virginia":         "W VIRGINIA",
	"western kentucky":      "W KENTUCKY",
	"western michigan":      "W MICHIGAN",
	"wisconsin":             "WISCONSIN",
	"wyoming":               "WYOMING",
}

// TabularTeam maps a canonical school to its tabular token.
func TabularTeam(school string) (string, bool) {
	token, ok := TeamAliases[strings.ToLower(strings.TrimSpace(school))]
	return token, ok
}
