package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlayerSummary describes one side of a correlation analysis.
type PlayerSummary struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Stat StatKind `json:"stat"`
	Avg  float64  `json:"avg"`
	Std  float64  `json:"std"`
	Min  float64  `json:"min"`
	Max  float64  `json:"max"`
}

// CorrelationStats carries the core statistical measures computed by the
// analytics service. Coefficient is in [-1, 1], RSquared in [0, 1].
type CorrelationStats struct {
	Coefficient   float64 `json:"coefficient"`
	PValue        float64 `json:"p_value"`
	IsSignificant bool    `json:"is_significant"`
	Strength      string  `json:"strength"`
	Direction     string  `json:"direction"`
	RSquared      float64 `json:"r_squared"`
}

// Regression carries the service-side linear fit. The equation string is
// display-only and must not be recomputed client-side.
type Regression struct {
	Slope          float64 `json:"slope"`
	Intercept      float64 `json:"intercept"`
	Equation       string  `json:"equation"`
	Interpretation string  `json:"interpretation"`
}

// GamePoint is one qualifying game shared by both players. Betting lines and
// odds are absent when no prop was posted; a nil line is distinct from a
// zero line.
type GamePoint struct {
	GameID         string           `json:"game_id"`
	GameDate       time.Time        `json:"game_date"`
	OpponentAbbrev string           `json:"opponent_abbreviation"`
	OpponentName   string           `json:"opponent_name"`
	HomeAway       string           `json:"home_away"`
	Player1Value   float64          `json:"player1_value"`
	Player2Value   float64          `json:"player2_value"`
	Player1Line    *decimal.Decimal `json:"player1_line,omitempty"`
	Player1Over    *int             `json:"player1_over_odds,omitempty"`
	Player1Under   *int             `json:"player1_under_odds,omitempty"`
	Player2Line    *decimal.Decimal `json:"player2_line,omitempty"`
	Player2Over    *int             `json:"player2_over_odds,omitempty"`
	Player2Under   *int             `json:"player2_under_odds,omitempty"`
	Player1HitOver *bool            `json:"player1_hit_over,omitempty"`
	Player2HitOver *bool            `json:"player2_hit_over,omitempty"`
}

// DataBlock wraps the per-game series backing a correlation.
type DataBlock struct {
	GamesAnalyzed int         `json:"games_analyzed"`
	Season        string      `json:"season"`
	DataPoints    []GamePoint `json:"data_points"`
}

// BettingInsight is the service's plain-language read on the correlation.
type BettingInsight struct {
	Summary        string `json:"summary"`
	Actionable     bool   `json:"actionable"`
	Recommendation string `json:"recommendation"`
}

// CorrelationResult is the full payload of GET /stats/correlation. A
// populated Error field marks a domain-level failure delivered inside a
// successful response; such a result carries no statistics.
type CorrelationResult struct {
	Error          string           `json:"error,omitempty"`
	GamesFound     int              `json:"games_found,omitempty"`
	Player1        PlayerSummary    `json:"player1"`
	Player2        PlayerSummary    `json:"player2"`
	Correlation    CorrelationStats `json:"correlation"`
	Regression     Regression       `json:"regression"`
	Data           DataBlock        `json:"data"`
	BettingInsight BettingInsight   `json:"betting_insight"`
}

// IsDomainError reports whether the payload is an error panel rather than an
// analysis.
func (r *CorrelationResult) IsDomainError() bool {
	return r != nil && r.Error != ""
}

// TeammateCorrelation is one row of a teammate scan.
type TeammateCorrelation struct {
	TeammateID     string   `json:"teammate_id"`
	TeammateName   string   `json:"teammate_name"`
	TeammateStat   StatKind `json:"teammate_stat"`
	Correlation    float64  `json:"correlation"`
	PValue         float64  `json:"p_value"`
	Strength       string   `json:"strength"`
	IsSignificant  bool     `json:"is_significant"`
	GamesTogether  int      `json:"games_together"`
	Recommendation string   `json:"recommendation"`
	Reasoning      string   `json:"reasoning,omitempty"`
	Score          float64  `json:"score,omitempty"`
}

// TeammateCorrelationSet mirrors GET /stats/correlation/teammates.
type TeammateCorrelationSet struct {
	Error             string                `json:"error,omitempty"`
	PlayerID          string                `json:"player_id"`
	Stat              StatKind              `json:"stat"`
	Season            string                `json:"season"`
	CorrelationsFound int                   `json:"correlations_found"`
	TopCorrelations   []TeammateCorrelation `json:"top_correlations"`
	BestCorrelation   *TeammateCorrelation  `json:"best_correlation,omitempty"`
}

// IsDomainError reports whether the scan payload is an error panel.
func (s *TeammateCorrelationSet) IsDomainError() bool {
	return s != nil && s.Error != ""
}

// BestPairing points at the strongest positive pairing on a team. It only
// drives the auto-chain; it is never rendered directly.
type BestPairing struct {
	Player1ID     string   `json:"player1_id"`
	Player1Name   string   `json:"player1_name,omitempty"`
	Player1Stat   StatKind `json:"player1_stat"`
	Player2ID     string   `json:"player2_id"`
	Player2Name   string   `json:"player2_name,omitempty"`
	Player2Stat   StatKind `json:"player2_stat"`
	Correlation   float64  `json:"correlation"`
	PValue        float64  `json:"p_value"`
	Strength      string   `json:"strength"`
	IsSignificant bool     `json:"is_significant"`
	GamesTogether int      `json:"games_together"`
	Reasoning     string   `json:"reasoning,omitempty"`
}

// BestPairingResponse mirrors GET /stats/correlation/team/best.
type BestPairingResponse struct {
	Error           string       `json:"error,omitempty"`
	TeamID          string       `json:"team_id"`
	Season          string       `json:"season"`
	MinGames        int          `json:"min_games"`
	BestCorrelation *BestPairing `json:"best_correlation,omitempty"`
}

// IsDomainError reports whether the search payload is an error panel.
func (r *BestPairingResponse) IsDomainError() bool {
	return r != nil && r.Error != ""
}
