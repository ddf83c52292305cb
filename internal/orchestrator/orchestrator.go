// Package orchestrator sequences multi-step automated flows: find the best
// pairing for a team, commit both selections, then trigger the analysis —
// without ever racing ahead of a state commit.
package orchestrator

import (
	"context"
	"sync"

	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/resolver"
	"github.com/courtside/courtside-ai-go/internal/selection"
	"github.com/courtside/courtside-ai-go/internal/statsapi"
	"github.com/courtside/courtside-ai-go/internal/utils"
	"github.com/sirupsen/logrus"
)

// Phase is the auto-chain state machine.
type Phase int

const (
	Idle Phase = iota
	Searching
	Found
	NotFound
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ChainResult reports the outcome of one auto-chain run.
type ChainResult struct {
	Phase     Phase                     `json:"phase"`
	Candidate *models.BestPairing       `json:"candidate,omitempty"`
	State     selection.State           `json:"state"`
	Analysis  *models.CorrelationResult `json:"analysis,omitempty"`
	// Aborted is set when a candidate id was missing from the roster and
	// the chain terminated before committing anything.
	Aborted bool `json:"aborted,omitempty"`
}

// Orchestrator drives the auto-chains. The commit-then-fetch barrier is the
// store itself: every transition returns the committed snapshot, and the
// follow-up fetch key is built from that snapshot, never from state captured
// before the commit. No settle delays, no timers.
type Orchestrator struct {
	store    *selection.Store
	resolver *resolver.Resolver
	analysis *resolver.Slot[models.CorrelationResult]
	cfg      config.AnalysisConfig
	logger   *logrus.Entry

	mu    sync.Mutex
	phase Phase
}

// New creates an orchestrator bound to one session's store and analysis
// slot.
func New(store *selection.Store, res *resolver.Resolver, analysis *resolver.Slot[models.CorrelationResult], cfg config.AnalysisConfig, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		resolver: res,
		analysis: analysis,
		cfg:      cfg,
		logger:   logger.WithField("component", "auto_chain"),
	}
}

// Phase returns the current chain phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	if o.phase != p {
		o.logger.WithFields(logrus.Fields{
			"old_phase": o.phase.String(),
			"new_phase": p.String(),
		}).Debug("Auto-chain phase changed")
		o.phase = p
	}
	o.mu.Unlock()
}

// RunBestPairing executes the full "find best correlation" chain for the
// currently selected team: manual best-pairing fetch, candidate resolution
// against the loaded roster, one-commit pairing application, then the
// correlation fetch keyed on the committed selection.
func (o *Orchestrator) RunBestPairing(ctx context.Context, roster *models.RosterResponse) (*ChainResult, error) {
	snapshot := o.store.Snapshot()
	if snapshot.TeamID == "" {
		return nil, utils.NewValidationError("best pairing search requires a selected team")
	}

	o.setPhase(Searching)

	resp, _, err := o.resolver.BestTeamPairing(ctx, statsapi.BestPairingRequest{
		TeamID:   snapshot.TeamID,
		Season:   snapshot.Season,
		MinGames: o.cfg.TeamBestMinGames,
	})
	if err != nil {
		o.setPhase(Idle)
		return nil, err
	}
	if resp.IsDomainError() || resp.BestCorrelation == nil {
		o.setPhase(NotFound)
		return &ChainResult{Phase: NotFound, State: o.store.Snapshot()}, nil
	}

	o.setPhase(Found)
	return o.RunCandidate(ctx, resp.BestCorrelation, roster)
}

// RunCandidate finishes a chain whose candidate pairing is already known:
// the tail of the best-pairing search, a teammate-row click, or the
// headline best-correlation card. If either athlete id is absent from the
// roster the chain terminates silently with nothing committed.
func (o *Orchestrator) RunCandidate(ctx context.Context, candidate *models.BestPairing, roster *models.RosterResponse) (*ChainResult, error) {
	if roster == nil {
		return nil, utils.NewValidationError("candidate chain requires a loaded roster")
	}

	_, ok1 := roster.FindAthlete(candidate.Player1ID)
	_, ok2 := roster.FindAthlete(candidate.Player2ID)
	if !ok1 || !ok2 {
		o.logger.WithFields(logrus.Fields{
			"player1": candidate.Player1ID,
			"player2": candidate.Player2ID,
		}).Debug("Candidate no longer on roster, terminating chain")
		o.setPhase(Idle)
		return &ChainResult{Phase: Idle, Candidate: candidate, State: o.store.Snapshot(), Aborted: true}, nil
	}

	// One logical commit for both players; the returned snapshot is the
	// commit acknowledgment the fetch below is allowed to depend on.
	committed, err := o.store.ApplyPairing(
		selection.PlayerSelection{ID: candidate.Player1ID, Stat: candidate.Player1Stat},
		selection.PlayerSelection{ID: candidate.Player2ID, Stat: candidate.Player2Stat},
	)
	if err != nil {
		o.setPhase(Idle)
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"player1": candidate.Player1ID,
		"player2": candidate.Player2ID,
		"version": committed.Version,
	}).Info("Auto-chain committed pairing")

	analyzed, err := o.store.StartAnalysis()
	if err != nil {
		// Unreachable after a successful ApplyPairing, but never fetch on a
		// refused commit.
		o.setPhase(Idle)
		return nil, err
	}

	result, err := o.TriggerAnalysis(ctx, analyzed)
	if err != nil {
		o.setPhase(Idle)
		return &ChainResult{Phase: Idle, Candidate: candidate, State: analyzed}, err
	}

	o.setPhase(Idle)
	return &ChainResult{Phase: Found, Candidate: candidate, State: analyzed, Analysis: result}, nil
}

// TriggerAnalysis issues the manual correlation fetch for a committed
// snapshot. The request key is derived from the snapshot argument alone, so
// callers decide exactly which commit the fetch observes. Responses are
// published through the analysis slot, which drops anything whose key no
// longer matches the active selection.
func (o *Orchestrator) TriggerAnalysis(ctx context.Context, committed selection.State) (*models.CorrelationResult, error) {
	if committed.Player1 == nil || committed.Player2 == nil {
		return nil, utils.NewValidationError("analysis requires both players to be selected")
	}

	req := statsapi.CorrelationRequest{
		Player1ID:   committed.Player1.ID,
		Player1Stat: committed.Player1.Stat,
		Player2ID:   committed.Player2.ID,
		Player2Stat: committed.Player2.Stat,
		Season:      committed.Season,
		MinGames:    o.cfg.MinGames,
	}
	key := resolver.CorrelationKey(req)
	o.analysis.Activate(key)

	result, originKey, err := o.resolver.Correlation(ctx, req)
	if err != nil {
		// Stale-while-error: the slot keeps whatever was visible before.
		return nil, err
	}

	if !o.analysis.Publish(originKey, result) {
		o.logger.WithField("key", originKey.String()).Debug("Dropped stale correlation response")
		return nil, nil
	}
	return result, nil
}
