// Package enrichment serves the secondary widgets (stat leaders, daily top
// performer). These are best-effort: any failure degrades to an absent
// widget and never reaches the page-level error state.
package enrichment

import (
	"context"

	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/statsapi"
	"github.com/sirupsen/logrus"
)

// Service wraps the analytics client with swallow-and-log semantics.
type Service struct {
	api    statsapi.StatsAPI
	logger *logrus.Entry
}

// New creates the enrichment service.
func New(api statsapi.StatsAPI, logger *logrus.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.WithField("component", "enrichment"),
	}
}

// StatLeaders returns the season leaders widget, or nil if the lookup
// failed for any reason. No retry; the widget simply does not render.
func (s *Service) StatLeaders(ctx context.Context, stat, season string, limit int) *models.LeadersResponse {
	leaders, err := s.api.GetStatLeaders(ctx, stat, season, limit)
	if err != nil {
		s.logger.WithError(err).WithField("stat", stat).Debug("Leaders widget unavailable")
		return nil
	}
	return leaders
}

// KingOfTheCourt returns the daily top performer widget, or nil on failure.
func (s *Service) KingOfTheCourt(ctx context.Context, date string) *models.KingOfTheCourtResponse {
	king, err := s.api.GetKingOfTheCourt(ctx, date)
	if err != nil {
		s.logger.WithError(err).WithField("date", date).Debug("King of the court widget unavailable")
		return nil
	}
	return king
}
