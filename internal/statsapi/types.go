package statsapi

import (
	"fmt"

	"github.com/courtside/courtside-ai-go/internal/models"
)

// CorrelationRequest identifies one pairwise correlation query. MinGames is
// forwarded to the analytics service; the service applies the filtering.
type CorrelationRequest struct {
	Player1ID   string
	Player1Stat models.StatKind
	Player2ID   string
	Player2Stat models.StatKind
	Season      string
	MinGames    int
}

// TeammateRequest identifies a teammate correlation scan for one player.
type TeammateRequest struct {
	PlayerID       string
	PlayerStat     models.StatKind
	Season         string
	TeamID         string
	MinCorrelation float64
}

// BestPairingRequest identifies a whole-team best correlation search.
type BestPairingRequest struct {
	TeamID   string
	Season   string
	MinGames int
}

// StatusError is a transport-level failure: the analytics service answered
// with a non-2xx status. Domain errors inside 200 payloads are not
// StatusErrors.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stats service error (%d): %s", e.StatusCode, e.Message)
}
