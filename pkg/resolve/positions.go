package resolve

import "strings"

// PositionClasses maps each canonical roster position to the set of
// tabular-source positions it may match. The tabular source uses its own
// vocabulary (ED for edge rushers, DI for interior linemen, split
// safeties), so equivalence runs through these classes rather than string
// equality.
var PositionClasses = map[string][]string{
	"QB":   {"QB"},
	"RB":   {"RB", "HB"},
	"HB":   {"RB", "HB"},
	"FB":   {"FB", "RB", "HB"},
	"WR":   {"WR"},
	"TE":   {"TE"},
	"OL":   {"OL", "C", "G", "T", "OG", "OT"},
	"OT":   {"T", "OT", "OL"},
	"OG":   {"G", "OG", "OL"},
	"C":    {"C", "OL"},
	"G":    {"G", "OG", "OL"},
	"T":    {"T", "OT", "OL"},
	"DE":   {"ED"},
	"EDGE": {"ED"},
	"DT":   {"DT", "DI"},
	"NT":   {"DT", "DI", "NT"},
	"DL":   {"DT", "DI", "ED"},
	"LB":   {"LB", "ILB", "OLB"},
	"ILB":  {"LB", "ILB"},
	"OLB":  {"LB", "OLB", "ED"},
	"CB":   {"CB", "DB"},
	"S":    {"S", "FS", "SS"},
	"FS":   {"S", "FS"},
	"SS":   {"S", "SS"},
	"DB":   {"DB", "CB", "S"},
	"K":    {"K"},
	"P":    {"P"},
	"LS":   {"LS"},
}

// refinable are the generic line positions that resolution may overwrite
// with the more specific tabular token.
var refinable = map[string]bool{"OL": true, "OT": true}

// specificLine are the tabular line positions considered more specific
// than a generic OL/OT roster listing.
var specificLine = map[string]bool{"C": true, "G": true, "T": true}

// PositionMatches reports whether a tabular position is acceptable for a
// canonical roster position.
func PositionMatches(canonical, tabular string) bool {
	allowed, ok := PositionClasses[strings.ToUpper(strings.TrimSpace(canonical))]
	if !ok {
		return false
	}
	tab := strings.ToUpper(strings.TrimSpace(tabular))
	for _, a := range allowed {
		if a == tab {
			return true
		}
	}
	return false
}

// RefinesPosition reports whether a matched tabular position should
// overwrite the canonical one. Only OL/OT refine, and only to C/G/T.
func RefinesPosition(canonical, tabular string) bool {
	return refinable[strings.ToUpper(strings.TrimSpace(canonical))] &&
		specificLine[strings.ToUpper(strings.TrimSpace(tabular))]
}
