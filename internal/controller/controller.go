// Package controller composes the selection store, fetch resolver,
// auto-chain orchestrator and location synchronizer into one per-session
// orchestration core.
package controller

import (
	"context"

	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/location"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/orchestrator"
	"github.com/courtside/courtside-ai-go/internal/resolver"
	"github.com/courtside/courtside-ai-go/internal/selection"
	"github.com/courtside/courtside-ai-go/internal/statsapi"
	"github.com/courtside/courtside-ai-go/internal/utils"
	"github.com/courtside/courtside-ai-go/internal/views"
	"github.com/sirupsen/logrus"
)

// Controller owns one user's interactive state and the flows over it. The
// resolver (and its cache) is shared across controllers; everything else is
// per session.
type Controller struct {
	ID string

	store     *selection.Store
	resolver  *resolver.Resolver
	analysis  *resolver.Slot[models.CorrelationResult]
	teammates *resolver.Slot[models.TeammateCorrelationSet]
	chain     *orchestrator.Orchestrator
	sink      *location.MemorySink
	sync      *location.Synchronizer
	cfg       config.AnalysisConfig
	logger    *logrus.Entry
}

// New creates a controller for one session.
func New(id string, res *resolver.Resolver, cfg config.AnalysisConfig, logger *logrus.Logger) *Controller {
	store := selection.NewStore(cfg.DefaultSeason, logger)
	sink := location.NewMemorySink()

	c := &Controller{
		ID:        id,
		store:     store,
		resolver:  res,
		analysis:  &resolver.Slot[models.CorrelationResult]{},
		teammates: &resolver.Slot[models.TeammateCorrelationSet]{},
		sink:      sink,
		sync:      location.NewSynchronizer(store, sink, logger),
		cfg:       cfg,
		logger:    logger.WithFields(logrus.Fields{"component": "controller", "session_id": id}),
	}
	c.chain = orchestrator.New(store, res, c.analysis, cfg, logger)
	return c
}

// Close detaches the controller from its store subscriptions.
func (c *Controller) Close() {
	c.sync.Close()
}

// State returns the current committed selection.
func (c *Controller) State() selection.State {
	return c.store.Snapshot()
}

// ShareLink returns the canonical query string for the current selection.
func (c *Controller) ShareLink() string {
	return c.sink.Query()
}

// ChainPhase reports the auto-chain state machine phase.
func (c *Controller) ChainPhase() orchestrator.Phase {
	return c.chain.Phase()
}

// Standings resolves the team list (automatic query, no dependencies).
func (c *Controller) Standings(ctx context.Context) (*models.StandingsResponse, error) {
	return c.resolver.Standings(ctx)
}

// Roster resolves the selected team's roster.
func (c *Controller) Roster(ctx context.Context) (*models.RosterResponse, error) {
	state := c.store.Snapshot()
	if state.TeamID == "" {
		return nil, utils.NewValidationError("no team selected")
	}
	return c.resolver.Roster(ctx, state.TeamID)
}

// SelectTeam validates the team against the loaded standings and commits
// the switch. Players and the analyzed flag are cleared in the same commit;
// the analysis slot is dropped because its key can no longer match.
func (c *Controller) SelectTeam(ctx context.Context, teamID string) (selection.State, error) {
	standings, err := c.resolver.Standings(ctx)
	if err != nil {
		return selection.State{}, err
	}
	if _, ok := standings.FindTeam(teamID); !ok {
		return selection.State{}, utils.NewValidationErrorf("unknown team id %q", teamID)
	}

	committed := c.store.SelectTeam(teamID)
	c.analysis.Clear()
	c.teammates.Clear()
	c.refreshAutomatic(ctx, committed)
	return committed, nil
}

// SelectPlayer1 validates the athlete against the roster and commits the
// first half of the pairing.
func (c *Controller) SelectPlayer1(ctx context.Context, id string, stat models.StatKind) (selection.State, error) {
	if err := c.requireRostered(ctx, id); err != nil {
		return selection.State{}, err
	}
	committed, err := c.store.SelectPlayer1(id, stat)
	if err != nil {
		return selection.State{}, err
	}
	c.refreshAutomatic(ctx, committed)
	return committed, nil
}

// SelectPlayer2 validates the athlete against the roster and commits the
// second half of the pairing.
func (c *Controller) SelectPlayer2(ctx context.Context, id string, stat models.StatKind) (selection.State, error) {
	if err := c.requireRostered(ctx, id); err != nil {
		return selection.State{}, err
	}
	committed, err := c.store.SelectPlayer2(id, stat)
	if err != nil {
		return selection.State{}, err
	}
	c.refreshAutomatic(ctx, committed)
	return committed, nil
}

// ClearPlayer1 unsets the first player, which also invalidates any
// analysis.
func (c *Controller) ClearPlayer1(ctx context.Context) selection.State {
	committed := c.store.ClearPlayer1()
	c.refreshAutomatic(ctx, committed)
	return committed
}

// ClearPlayer2 reopens the pairing, which also re-enables the teammate
// scan.
func (c *Controller) ClearPlayer2(ctx context.Context) selection.State {
	committed := c.store.ClearPlayer2()
	c.refreshAutomatic(ctx, committed)
	return committed
}

// SetSeason switches the season under analysis.
func (c *Controller) SetSeason(ctx context.Context, season string) selection.State {
	committed := c.store.SetSeason(season)
	c.refreshAutomatic(ctx, committed)
	return committed
}

// SetHomeAwayFilter changes the display filter only.
func (c *Controller) SetHomeAwayFilter(f models.HomeAwayFilter) (selection.State, error) {
	return c.store.SetHomeAwayFilter(f)
}

// Analyze gates on a complete pairing, commits the analyzed flag, and only
// then triggers the manual correlation fetch keyed on the committed
// snapshot. With either player unset nothing is fetched and nothing is
// committed.
func (c *Controller) Analyze(ctx context.Context) (*models.CorrelationResult, selection.State, error) {
	committed, err := c.store.StartAnalysis()
	if err != nil {
		return nil, selection.State{}, err
	}
	result, err := c.chain.TriggerAnalysis(ctx, committed)
	if err != nil {
		return nil, committed, err
	}
	return result, committed, nil
}

// ClearAnalysis hides the results section without touching the selection.
func (c *Controller) ClearAnalysis() selection.State {
	return c.store.ClearAnalysis()
}

// BestPairing runs the "find best correlation" auto-chain for the selected
// team.
func (c *Controller) BestPairing(ctx context.Context) (*orchestrator.ChainResult, error) {
	state := c.store.Snapshot()
	if state.TeamID == "" {
		return nil, utils.NewValidationError("best pairing search requires a selected team")
	}
	roster, err := c.resolver.Roster(ctx, state.TeamID)
	if err != nil {
		return nil, err
	}
	return c.chain.RunBestPairing(ctx, roster)
}

// SelectTeammate runs the teammate-row chain: the candidate pairing is
// already fully known (current player1 plus the clicked row), so only the
// id-to-object mapping against the roster remains.
func (c *Controller) SelectTeammate(ctx context.Context, row models.TeammateCorrelation) (*orchestrator.ChainResult, error) {
	state := c.store.Snapshot()
	if state.Player1 == nil {
		return nil, utils.NewValidationError("teammate chain requires player1 to be selected")
	}
	if state.TeamID == "" {
		return nil, utils.NewValidationError("teammate chain requires a selected team")
	}
	roster, err := c.resolver.Roster(ctx, state.TeamID)
	if err != nil {
		return nil, err
	}
	candidate := &models.BestPairing{
		Player1ID:   state.Player1.ID,
		Player1Stat: state.Player1.Stat,
		Player2ID:   row.TeammateID,
		Player2Stat: row.TeammateStat,
	}
	return c.chain.RunCandidate(ctx, candidate, roster)
}

// AnalysisResult returns the guarded analysis slot contents. The boolean is
// false until a result for the active key has landed.
func (c *Controller) AnalysisResult() (*models.CorrelationResult, bool) {
	_, result, ok := c.analysis.Current()
	return result, ok
}

// AnalysisView derives the presentation bundle. Results only render once
// the selection is analyzed AND data is present; a restored analyzed flag
// with no data yet shows nothing rather than an empty results section.
func (c *Controller) AnalysisView() (views.AnalysisView, bool) {
	state := c.store.Snapshot()
	result, ok := c.AnalysisResult()
	if !ok || !state.Analyzed || result.IsDomainError() {
		return views.AnalysisView{}, false
	}
	return views.Compose(result, state.HomeAway), true
}

// TeammateResult returns the guarded teammate-scan slot contents.
func (c *Controller) TeammateResult() (*models.TeammateCorrelationSet, bool) {
	_, result, ok := c.teammates.Current()
	return result, ok
}

// ClearTeammates invalidates every cached teammate scan and drops the slot.
// Safe to call with nothing cached.
func (c *Controller) ClearTeammates(ctx context.Context) error {
	c.teammates.Clear()
	return c.resolver.InvalidateTeammates(ctx)
}

// Restore applies a shared location string. Standings must load first; the
// roster pass happens inside the synchronizer. If the restored state is
// analyzed, the correlation fetch fires afterwards so the results section
// can actually fill in.
func (c *Controller) Restore(ctx context.Context, query string) (selection.State, error) {
	standings, err := c.resolver.Standings(ctx)
	if err != nil {
		return selection.State{}, err
	}

	params := location.DecodeString(query)
	if _, err := c.sync.Restore(ctx, params, standings, c.resolver.Roster); err != nil {
		return c.store.Snapshot(), err
	}

	state := c.store.Snapshot()
	c.refreshAutomatic(ctx, state)
	if state.Analyzed {
		if _, err := c.chain.TriggerAnalysis(ctx, state); err != nil {
			c.logger.WithError(err).Warn("Correlation fetch after restore failed")
		}
		state = c.store.Snapshot()
	}
	return state, nil
}

// requireRostered rejects athlete ids that are not on the selected team's
// roster. Direct selection of an unknown id is a caller error, unlike the
// silent skip during location restore.
func (c *Controller) requireRostered(ctx context.Context, athleteID string) error {
	state := c.store.Snapshot()
	if state.TeamID == "" {
		return utils.NewValidationError("select a team before selecting players")
	}
	roster, err := c.resolver.Roster(ctx, state.TeamID)
	if err != nil {
		return err
	}
	if _, ok := roster.FindAthlete(athleteID); !ok {
		return utils.NewValidationErrorf("athlete %q is not on the selected roster", athleteID)
	}
	return nil
}

// refreshAutomatic re-evaluates automatic query eligibility after a commit
// and dispatches the ones that became ready. Fetch failures here surface as
// loading-stalled state on the next explicit read, not as errors from the
// mutation that triggered them.
func (c *Controller) refreshAutomatic(ctx context.Context, committed selection.State) {
	for _, family := range c.resolver.EligibleAutomatic(committed) {
		switch family {
		case resolver.FamilyStandings:
			// Standings are fetched on demand and long-cached; nothing to
			// do on commit.
		case resolver.FamilyRoster:
			if _, err := c.resolver.Roster(ctx, committed.TeamID); err != nil {
				c.logger.WithError(err).WithField("team_id", committed.TeamID).Warn("Roster prefetch failed")
			}
		case resolver.FamilyTeammates:
			c.fetchTeammates(ctx, committed)
		}
	}
}

// fetchTeammates runs the automatic teammate scan for an open pairing and
// publishes through the guarded slot.
func (c *Controller) fetchTeammates(ctx context.Context, committed selection.State) {
	req := statsapi.TeammateRequest{
		PlayerID:       committed.Player1.ID,
		PlayerStat:     committed.Player1.Stat,
		Season:         committed.Season,
		TeamID:         committed.TeamID,
		MinCorrelation: c.cfg.MinCorrelation,
	}
	key := resolver.TeammatesKey(req)
	c.teammates.Activate(key)

	result, originKey, err := c.resolver.TeammateCorrelations(ctx, req)
	if err != nil {
		c.logger.WithError(err).Warn("Teammate scan failed")
		return
	}
	if !c.teammates.Publish(originKey, result) {
		c.logger.WithField("key", originKey.String()).Debug("Dropped stale teammate scan")
	}
}
