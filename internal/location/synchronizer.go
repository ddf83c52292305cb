package location

import (
	"context"
	"net/url"

	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/selection"
	"github.com/sirupsen/logrus"
)

// Sink receives the canonical query string on every flush. Implementations
// replace the previous value rather than appending history entries.
type Sink interface {
	Replace(values url.Values)
}

// RosterLoader resolves the roster the second restore pass depends on.
type RosterLoader func(ctx context.Context, teamID string) (*models.RosterResponse, error)

// Synchronizer keeps the selection store and the shareable location string
// in lockstep. Flushes are driven by store commits and suppressed while the
// store is restoring, so a half-applied restore can never clobber the
// location it is being restored from.
type Synchronizer struct {
	store  *selection.Store
	sink   Sink
	logger *logrus.Entry
	unsub  func()
}

// NewSynchronizer wires the synchronizer to the store's commit stream.
func NewSynchronizer(store *selection.Store, sink Sink, logger *logrus.Logger) *Synchronizer {
	s := &Synchronizer{
		store:  store,
		sink:   sink,
		logger: logger.WithField("component", "location_sync"),
	}
	s.unsub = store.Subscribe(s.onCommit)
	return s
}

// Close detaches the synchronizer from the store.
func (s *Synchronizer) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

func (s *Synchronizer) onCommit(state selection.State) {
	if state.Restoring {
		return
	}
	s.sink.Replace(Encode(state))
}

// Restore applies location-derived parameters to the store. It runs in two
// passes: the team is validated against the loaded standings first, then
// player ids are validated against the team's roster, which itself depends
// on the restored team. Ids that no longer resolve are skipped without
// error; the analyzed flag is only honored once both players resolved.
// Flushing stays suppressed for the whole restore and the closing commit
// re-publishes whatever actually survived.
func (s *Synchronizer) Restore(ctx context.Context, params Params, standings *models.StandingsResponse, loadRoster RosterLoader) (selection.State, error) {
	s.store.BeginRestore()
	defer s.store.EndRestore()

	if params.TeamID == "" || standings == nil {
		return s.store.Snapshot(), nil
	}
	if _, ok := standings.FindTeam(params.TeamID); !ok {
		s.logger.WithField("team_id", params.TeamID).Debug("Restored team no longer in standings, skipping")
		return s.store.Snapshot(), nil
	}

	state := s.store.SelectTeam(params.TeamID)

	roster, err := loadRoster(ctx, params.TeamID)
	if err != nil {
		// Roster fetch failed: the team selection survives, players degrade
		// to unset.
		s.logger.WithError(err).WithField("team_id", params.TeamID).Warn("Roster load failed during restore")
		return state, err
	}

	if params.Player1ID != "" && params.Player1Stat.Valid() {
		if _, ok := roster.FindAthlete(params.Player1ID); ok {
			if next, err := s.store.SelectPlayer1(params.Player1ID, params.Player1Stat); err == nil {
				state = next
			}
		} else {
			s.logger.WithField("player_id", params.Player1ID).Debug("Restored player1 not on roster, skipping")
		}
	}
	if params.Player2ID != "" && params.Player2Stat.Valid() {
		if _, ok := roster.FindAthlete(params.Player2ID); ok {
			if next, err := s.store.SelectPlayer2(params.Player2ID, params.Player2Stat); err == nil {
				state = next
			}
		} else {
			s.logger.WithField("player_id", params.Player2ID).Debug("Restored player2 not on roster, skipping")
		}
	}

	if params.Analyzed && state.PairingComplete() {
		if next, err := s.store.StartAnalysis(); err == nil {
			state = next
		}
	}

	return state, nil
}
