package models

// StatLeader is one row of the season leaders widget.
type StatLeader struct {
	AthleteID   string  `json:"athlete_id"`
	AthleteName string  `json:"athlete_name"`
	Season      string  `json:"season"`
	StatValue   float64 `json:"stat_value"`
	GamesPlayed int     `json:"games_played"`
}

// LeadersResponse mirrors GET /stats/leaders.
type LeadersResponse struct {
	Stat    string       `json:"stat"`
	Season  string       `json:"season"`
	Leaders []StatLeader `json:"leaders"`
}

// DailyKing is the top points+rebounds+assists performer for one date.
type DailyKing struct {
	AthleteID  string  `json:"athlete_id"`
	PlayerName string  `json:"player_name"`
	Headshot   string  `json:"player_headshot,omitempty"`
	TeamID     string  `json:"team_id"`
	TeamName   string  `json:"team_name"`
	Points     float64 `json:"points"`
	Rebounds   float64 `json:"rebounds"`
	Assists    float64 `json:"assists"`
	TotalScore float64 `json:"total_score"`
}

// KingOfTheCourtResponse mirrors GET /stats/king-of-the-court.
type KingOfTheCourtResponse struct {
	Date string      `json:"date"`
	King *DailyKing  `json:"king,omitempty"`
	Top  []DailyKing `json:"top_5,omitempty"`
}
