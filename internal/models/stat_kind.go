package models

import "fmt"

// StatKind identifies a per-game box score metric that can be correlated.
// The enumeration is fixed; anything outside it is a configuration error.
type StatKind string

const (
	StatPoints    StatKind = "points"
	StatRebounds  StatKind = "rebounds"
	StatAssists   StatKind = "assists"
	StatSteals    StatKind = "steals"
	StatBlocks    StatKind = "blocks"
	StatTurnovers StatKind = "turnovers"
)

// AllStatKinds lists every valid stat kind in display order.
var AllStatKinds = []StatKind{
	StatPoints,
	StatRebounds,
	StatAssists,
	StatSteals,
	StatBlocks,
	StatTurnovers,
}

// Valid reports whether the stat kind is part of the fixed enumeration.
func (s StatKind) Valid() bool {
	switch s {
	case StatPoints, StatRebounds, StatAssists, StatSteals, StatBlocks, StatTurnovers:
		return true
	default:
		return false
	}
}

// ParseStatKind converts a raw string into a StatKind or fails.
func ParseStatKind(raw string) (StatKind, error) {
	kind := StatKind(raw)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown stat kind %q", raw)
	}
	return kind, nil
}

// HomeAwayFilter narrows a correlation's game list for display.
type HomeAwayFilter string

const (
	FilterAll  HomeAwayFilter = "all"
	FilterHome HomeAwayFilter = "home"
	FilterAway HomeAwayFilter = "away"
)

// Valid reports whether the filter value is recognized.
func (f HomeAwayFilter) Valid() bool {
	switch f {
	case FilterAll, FilterHome, FilterAway:
		return true
	default:
		return false
	}
}
