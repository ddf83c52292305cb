// Package views derives renderable structures from correlation payloads.
// Everything here is a pure function over a result plus display filter
// state; nothing fetches, caches or mutates.
package views

import (
	"math"

	"github.com/courtside/courtside-ai-go/internal/models"
)

// StrengthTier is the four-tier presentation bucket derived client-side
// from the numeric coefficient. It deliberately does not reuse the
// service's three-tier label: visuals stay consistent even if the server
// enum changes.
type StrengthTier string

const (
	TierStrong     StrengthTier = "Strong"
	TierModerate   StrengthTier = "Moderate"
	TierWeak       StrengthTier = "Weak"
	TierNegligible StrengthTier = "Negligible"
)

// TierFor buckets a correlation coefficient by magnitude.
func TierFor(coefficient float64) StrengthTier {
	abs := math.Abs(coefficient)
	switch {
	case abs >= 0.7:
		return TierStrong
	case abs >= 0.4:
		return TierModerate
	case abs >= 0.2:
		return TierWeak
	default:
		return TierNegligible
	}
}

// FilterGames returns the data-point subsequence matching the home/away
// filter, preserving order.
func FilterGames(points []models.GamePoint, filter models.HomeAwayFilter) []models.GamePoint {
	if filter == models.FilterAll || filter == "" {
		return append([]models.GamePoint(nil), points...)
	}
	var out []models.GamePoint
	for _, p := range points {
		if p.HomeAway == string(filter) {
			out = append(out, p)
		}
	}
	return out
}

// ScatterPoint is one plotted game. NormX and NormY are scaled into [0, 1]
// against the filtered subsequence's own maxima.
type ScatterPoint struct {
	GameID   string  `json:"game_id"`
	HomeAway string  `json:"home_away"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	NormX    float64 `json:"norm_x"`
	NormY    float64 `json:"norm_y"`
}

// Scatter computes plot coordinates for the filtered games. The maxima are
// recomputed from the filtered subset every time, not carried over from the
// full series: filtering to home games rescales against home-game maxima.
func Scatter(points []models.GamePoint, filter models.HomeAwayFilter) []ScatterPoint {
	filtered := FilterGames(points, filter)
	if len(filtered) == 0 {
		return nil
	}

	var maxX, maxY float64
	for _, p := range filtered {
		if p.Player1Value > maxX {
			maxX = p.Player1Value
		}
		if p.Player2Value > maxY {
			maxY = p.Player2Value
		}
	}

	out := make([]ScatterPoint, len(filtered))
	for i, p := range filtered {
		sp := ScatterPoint{
			GameID:   p.GameID,
			HomeAway: p.HomeAway,
			X:        p.Player1Value,
			Y:        p.Player2Value,
		}
		if maxX > 0 {
			sp.NormX = p.Player1Value / maxX
		}
		if maxY > 0 {
			sp.NormY = p.Player2Value / maxY
		}
		out[i] = sp
	}
	return out
}

// HitRate aggregates prop results for one athlete. Lined counts only games
// where a line was posted; games without a line are excluded from both
// numerator and denominator rather than counted as misses.
type HitRate struct {
	Hits  int     `json:"hits"`
	Lined int     `json:"lined"`
	Rate  float64 `json:"rate"`
}

// PropHitRates computes per-athlete over hit rates for the filtered games.
func PropHitRates(points []models.GamePoint, filter models.HomeAwayFilter) (player1, player2 HitRate) {
	for _, p := range FilterGames(points, filter) {
		if p.Player1Line != nil {
			player1.Lined++
			if p.Player1HitOver != nil && *p.Player1HitOver {
				player1.Hits++
			}
		}
		if p.Player2Line != nil {
			player2.Lined++
			if p.Player2HitOver != nil && *p.Player2HitOver {
				player2.Hits++
			}
		}
	}
	if player1.Lined > 0 {
		player1.Rate = float64(player1.Hits) / float64(player1.Lined)
	}
	if player2.Lined > 0 {
		player2.Rate = float64(player2.Hits) / float64(player2.Lined)
	}
	return player1, player2
}

// TrendLine is a decorative direction hint in unit coordinates. It is
// driven purely by the coefficient's sign and is not the service's
// regression fit.
type TrendLine struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Trend returns a rising line for a positive coefficient and a falling one
// otherwise.
func Trend(coefficient float64) TrendLine {
	if coefficient > 0 {
		return TrendLine{X1: 0, Y1: 0, X2: 1, Y2: 1}
	}
	return TrendLine{X1: 0, Y1: 1, X2: 1, Y2: 0}
}

// AnalysisView is the full presentation bundle for one correlation result.
type AnalysisView struct {
	Tier         StrengthTier   `json:"strength_tier"`
	Coefficient  float64        `json:"coefficient"`
	Significant  bool           `json:"is_significant"`
	Scatter      []ScatterPoint `json:"scatter"`
	Trend        TrendLine      `json:"trend"`
	Player1Hits  HitRate        `json:"player1_hit_rate"`
	Player2Hits  HitRate        `json:"player2_hit_rate"`
	GamesVisible int            `json:"games_visible"`
}

// Compose builds the complete derived view for a result under a filter.
// Domain-error results compose to a zero view; the caller renders the error
// panel instead.
func Compose(result *models.CorrelationResult, filter models.HomeAwayFilter) AnalysisView {
	if result == nil || result.IsDomainError() {
		return AnalysisView{}
	}
	points := result.Data.DataPoints
	p1, p2 := PropHitRates(points, filter)
	scatter := Scatter(points, filter)
	return AnalysisView{
		Tier:         TierFor(result.Correlation.Coefficient),
		Coefficient:  result.Correlation.Coefficient,
		Significant:  result.Correlation.IsSignificant,
		Scatter:      scatter,
		Trend:        Trend(result.Correlation.Coefficient),
		Player1Hits:  p1,
		Player2Hits:  p2,
		GamesVisible: len(scatter),
	}
}
