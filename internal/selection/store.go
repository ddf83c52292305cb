package selection

import (
	"sync"

	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/utils"
	"github.com/sirupsen/logrus"
)

// PlayerSelection pairs an athlete id with the stat kind under analysis.
type PlayerSelection struct {
	ID   string          `json:"id"`
	Stat models.StatKind `json:"stat"`
}

// State is one committed snapshot of the interactive selection. Snapshots
// are values; mutating a copy never affects the store.
//
// Invariants:
//   - Analyzed implies Player1 and Player2 are both set.
//   - While Restoring, the location synchronizer performs no outbound flush.
type State struct {
	TeamID    string                `json:"team_id,omitempty"`
	Player1   *PlayerSelection      `json:"player1,omitempty"`
	Player2   *PlayerSelection      `json:"player2,omitempty"`
	Season    string                `json:"season"`
	HomeAway  models.HomeAwayFilter `json:"home_away_filter"`
	Analyzed  bool                  `json:"analyzed"`
	Restoring bool                  `json:"restoring"`
	Version   uint64                `json:"version"`
}

// PairingComplete reports whether both players are selected.
func (s State) PairingComplete() bool {
	return s.Player1 != nil && s.Player2 != nil
}

// clone deep-copies the snapshot so callers can never alias store-held
// player selections.
func (s State) clone() State {
	out := s
	if s.Player1 != nil {
		p := *s.Player1
		out.Player1 = &p
	}
	if s.Player2 != nil {
		p := *s.Player2
		out.Player2 = &p
	}
	return out
}

// Subscriber receives every committed snapshot, in commit order.
type Subscriber func(State)

// Store is the single writable source of truth for user intent. All
// mutations go through named transitions; each transition commits
// atomically, bumps the version, returns the committed snapshot, and then
// notifies subscribers. The returned snapshot is the commit acknowledgment:
// any follow-up action built from it provably reads post-commit state.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]Subscriber
	nextSubID   int
	logger      *logrus.Entry
}

// NewStore creates a store with an initial season and an all-games filter.
func NewStore(season string, logger *logrus.Logger) *Store {
	return &Store{
		state: State{
			Season:   season,
			HomeAway: models.FilterAll,
			Version:  1,
		},
		subscribers: make(map[int]Subscriber),
		logger:      logger.WithField("component", "selection_store"),
	}
}

// Snapshot returns the current committed state.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Subscribe registers a subscriber for committed snapshots and returns an
// unsubscribe function. The subscriber is invoked outside the store lock.
func (st *Store) Subscribe(fn Subscriber) func() {
	st.mu.Lock()
	id := st.nextSubID
	st.nextSubID++
	st.subscribers[id] = fn
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		delete(st.subscribers, id)
		st.mu.Unlock()
	}
}

// commit applies fn to the state under lock, bumps the version and returns
// the committed snapshot. Subscribers observe the snapshot after the lock is
// released, so a subscriber may call back into the store.
func (st *Store) commit(fn func(*State)) State {
	snapshot, _ := st.commitIf(func(s *State) error {
		fn(s)
		return nil
	})
	return snapshot
}

// commitIf is commit with a veto: if fn returns an error, nothing is
// committed, the version does not move and no subscriber fires.
func (st *Store) commitIf(fn func(*State) error) (State, error) {
	st.mu.Lock()
	if err := fn(&st.state); err != nil {
		st.mu.Unlock()
		return State{}, err
	}
	st.state.Version++
	snapshot := st.state.clone()
	subs := make([]Subscriber, 0, len(st.subscribers))
	for _, s := range st.subscribers {
		subs = append(subs, s)
	}
	st.mu.Unlock()

	for _, s := range subs {
		s(snapshot)
	}
	return snapshot, nil
}

// SelectTeam switches the active team. Changing team invalidates any
// in-progress analysis, so both players and the analyzed flag are cleared in
// the same commit. Selecting the already-active team is a no-op commit that
// still clears players, matching a fresh team pick.
func (st *Store) SelectTeam(teamID string) State {
	snapshot := st.commit(func(s *State) {
		s.TeamID = teamID
		s.Player1 = nil
		s.Player2 = nil
		s.Analyzed = false
	})
	st.logger.WithField("team_id", teamID).Debug("Team selected")
	return snapshot
}

// SelectPlayer1 sets the first athlete/stat pair, leaving player2 untouched.
// Any existing analysis is invalidated because the selection key changed.
func (st *Store) SelectPlayer1(id string, stat models.StatKind) (State, error) {
	if !stat.Valid() {
		return State{}, utils.NewValidationErrorf("invalid stat kind %q for player1", stat)
	}
	return st.commit(func(s *State) {
		s.Player1 = &PlayerSelection{ID: id, Stat: stat}
		s.Analyzed = false
	}), nil
}

// SelectPlayer2 sets the second athlete/stat pair, leaving player1 untouched.
func (st *Store) SelectPlayer2(id string, stat models.StatKind) (State, error) {
	if !stat.Valid() {
		return State{}, utils.NewValidationErrorf("invalid stat kind %q for player2", stat)
	}
	return st.commit(func(s *State) {
		s.Player2 = &PlayerSelection{ID: id, Stat: stat}
		s.Analyzed = false
	}), nil
}

// ClearPlayer1 unsets the first player. Analyzed cannot survive with a
// missing player.
func (st *Store) ClearPlayer1() State {
	return st.commit(func(s *State) {
		s.Player1 = nil
		s.Analyzed = false
	})
}

// ClearPlayer2 unsets the second player.
func (st *Store) ClearPlayer2() State {
	return st.commit(func(s *State) {
		s.Player2 = nil
		s.Analyzed = false
	})
}

// ApplyPairing commits both athlete/stat pairs as one logical update. The
// auto-chain depends on this being a single commit: there is no intermediate
// state where one player is new and the other stale.
func (st *Store) ApplyPairing(p1, p2 PlayerSelection) (State, error) {
	if !p1.Stat.Valid() {
		return State{}, utils.NewValidationErrorf("invalid stat kind %q for player1", p1.Stat)
	}
	if !p2.Stat.Valid() {
		return State{}, utils.NewValidationErrorf("invalid stat kind %q for player2", p2.Stat)
	}
	snapshot := st.commit(func(s *State) {
		s.Player1 = &PlayerSelection{ID: p1.ID, Stat: p1.Stat}
		s.Player2 = &PlayerSelection{ID: p2.ID, Stat: p2.Stat}
		s.Analyzed = false
	})
	st.logger.WithFields(logrus.Fields{
		"player1": p1.ID,
		"player2": p2.ID,
	}).Debug("Pairing applied")
	return snapshot, nil
}

// SetSeason changes the season under analysis, invalidating any analysis.
func (st *Store) SetSeason(season string) State {
	return st.commit(func(s *State) {
		s.Season = season
		s.Analyzed = false
	})
}

// SetHomeAwayFilter changes the display filter. Filters are presentation
// state only and do not invalidate the analysis.
func (st *Store) SetHomeAwayFilter(f models.HomeAwayFilter) (State, error) {
	if !f.Valid() {
		return State{}, utils.NewValidationErrorf("invalid home/away filter %q", f)
	}
	return st.commit(func(s *State) {
		s.HomeAway = f
	}), nil
}

// StartAnalysis marks the selection analyzed. It is rejected while either
// player is unset: no commit happens, no subscriber fires, and the caller
// must not fall through to a fetch.
func (st *Store) StartAnalysis() (State, error) {
	return st.commitIf(func(s *State) error {
		if s.Player1 == nil || s.Player2 == nil {
			return utils.NewValidationError("analysis requires both players to be selected")
		}
		s.Analyzed = true
		return nil
	})
}

// ClearAnalysis unsets the analyzed flag without touching the selection.
func (st *Store) ClearAnalysis() State {
	return st.commit(func(s *State) {
		s.Analyzed = false
	})
}

// BeginRestore suppresses outbound location flushes until EndRestore.
func (st *Store) BeginRestore() State {
	return st.commit(func(s *State) {
		s.Restoring = true
	})
}

// EndRestore re-enables outbound flushes.
func (st *Store) EndRestore() State {
	return st.commit(func(s *State) {
		s.Restoring = false
	})
}
