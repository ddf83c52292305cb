package resolver

import (
	"strconv"
	"strings"

	"github.com/courtside/courtside-ai-go/internal/statsapi"
)

// Query families. Every cached result belongs to exactly one family; the
// stale-response guard compares keys within a family.
const (
	FamilyStandings   = "standings"
	FamilyRoster      = "roster"
	FamilyCorrelation = "correlation"
	FamilyTeammates   = "teammates"
	FamilyTeamBest    = "team_best"
)

// Key is a composite query identifier. Two fetches with equal keys are the
// same logical query and share cache entries and in-flight requests.
type Key struct {
	Family string
	Parts  []string
}

// String renders the canonical cache key.
func (k Key) String() string {
	if len(k.Parts) == 0 {
		return k.Family
	}
	return k.Family + ":" + strings.Join(k.Parts, ":")
}

// Equal reports whether two keys identify the same query.
func (k Key) Equal(other Key) bool {
	if k.Family != other.Family || len(k.Parts) != len(other.Parts) {
		return false
	}
	for i := range k.Parts {
		if k.Parts[i] != other.Parts[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.Family == ""
}

// StandingsKey identifies the league standings query.
func StandingsKey() Key {
	return Key{Family: FamilyStandings}
}

// RosterKey identifies one team's roster query.
func RosterKey(teamID string) Key {
	return Key{Family: FamilyRoster, Parts: []string{teamID}}
}

// CorrelationKey identifies one pairwise correlation query.
func CorrelationKey(req statsapi.CorrelationRequest) Key {
	return Key{Family: FamilyCorrelation, Parts: []string{
		req.Player1ID,
		string(req.Player1Stat),
		req.Player2ID,
		string(req.Player2Stat),
		req.Season,
	}}
}

// TeammatesKey identifies one teammate correlation scan.
func TeammatesKey(req statsapi.TeammateRequest) Key {
	return Key{Family: FamilyTeammates, Parts: []string{
		req.PlayerID,
		string(req.PlayerStat),
		req.Season,
		req.TeamID,
	}}
}

// TeamBestKey identifies one whole-team best pairing search.
func TeamBestKey(req statsapi.BestPairingRequest) Key {
	return Key{Family: FamilyTeamBest, Parts: []string{
		req.TeamID,
		req.Season,
		strconv.Itoa(req.MinGames),
	}}
}
