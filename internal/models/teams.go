package models

// Team represents an NBA franchise as returned by the standings endpoint.
type Team struct {
	ID           string `json:"team_id"`
	DisplayName  string `json:"team_display_name"`
	Abbreviation string `json:"team_abbreviation"`
	Logo         string `json:"team_logo,omitempty"`
	Color        string `json:"team_color,omitempty"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// StandingsResponse mirrors GET /teams/standings.
type StandingsResponse struct {
	EasternConference []Team `json:"eastern_conference"`
	WesternConference []Team `json:"western_conference"`
}

// AllTeams flattens both conferences into a single list.
func (s *StandingsResponse) AllTeams() []Team {
	teams := make([]Team, 0, len(s.EasternConference)+len(s.WesternConference))
	teams = append(teams, s.EasternConference...)
	teams = append(teams, s.WesternConference...)
	return teams
}

// FindTeam looks up a team by id across both conferences.
func (s *StandingsResponse) FindTeam(id string) (Team, bool) {
	for _, t := range s.AllTeams() {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// Athlete represents a rostered player.
type Athlete struct {
	ID          string `json:"athlete_id"`
	DisplayName string `json:"athlete_display_name"`
	Headshot    string `json:"athlete_headshot,omitempty"`
	Position    string `json:"position,omitempty"`
	Jersey      string `json:"jersey,omitempty"`
}

// RosterResponse mirrors GET /teams/{id}/roster.
type RosterResponse struct {
	TeamID string    `json:"team_id"`
	Roster []Athlete `json:"roster"`
}

// FindAthlete looks up a rostered athlete by id.
func (r *RosterResponse) FindAthlete(id string) (Athlete, bool) {
	for _, a := range r.Roster {
		if a.ID == id {
			return a, true
		}
	}
	return Athlete{}, false
}
