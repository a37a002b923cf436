package cfbd

// Team is one entry of the /teams/fbs feed.
type Team struct {
	ID           int64    `json:"id"`
	School       string   `json:"school"`
	Mascot       string   `json:"mascot"`
	Abbreviation string   `json:"abbreviation"`
	Conference   string   `json:"conference"`
	Logos        []string `json:"logos"`
}

// Game is one entry of the /games feed.
type Game struct {
	ID         int64  `json:"id"`
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	SeasonType string `json:"seasonType"`
	StartDate  string `json:"startDate"`
	Completed  bool   `json:"completed"`
	HomeID     int64  `json:"homeId"`
	HomeTeam   string `json:"homeTeam"`
	HomePoints *int64 `json:"homePoints"`
	AwayID     int64  `json:"awayId"`
	AwayTeam   string `json:"awayTeam"`
	AwayPoints *int64 `json:"awayPoints"`
}

// Rating is one entry of the /ratings/sp feed. Team "nationalAverages"
// carries the league-wide means instead of a real team.
type Rating struct {
	Year    int        `json:"year"`
	Team    string     `json:"team"`
	Rating  float64    `json:"rating"`
	Offense SideRating `json:"offense"`
	Defense SideRating `json:"defense"`
}

// SideRating is one side's rating block inside a Rating entry.
type SideRating struct {
	Rating float64 `json:"rating"`
}

// RosterPlayer is one entry of the /roster feed.
type RosterPlayer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	Jersey    *int   `json:"jersey"`
	Year      int    `json:"year"`
}
