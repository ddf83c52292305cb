package statsapi

import (
	"context"

	"github.com/courtside/courtside-ai-go/internal/models"
)

// StatsAPI is the surface the rest of the application depends on. The
// resolver and enrichment layers accept this interface so tests can stand in
// a fake service.
type StatsAPI interface {
	GetStandings(ctx context.Context) (*models.StandingsResponse, error)
	GetRoster(ctx context.Context, teamID string) (*models.RosterResponse, error)
	GetCorrelation(ctx context.Context, req CorrelationRequest) (*models.CorrelationResult, error)
	GetTeammateCorrelations(ctx context.Context, req TeammateRequest) (*models.TeammateCorrelationSet, error)
	GetBestTeamPairing(ctx context.Context, req BestPairingRequest) (*models.BestPairingResponse, error)
	GetStatLeaders(ctx context.Context, stat, season string, limit int) (*models.LeadersResponse, error)
	GetKingOfTheCourt(ctx context.Context, date string) (*models.KingOfTheCourtResponse, error)
}

var _ StatsAPI = (*Client)(nil)
