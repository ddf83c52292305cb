package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/selection"
	"github.com/courtside/courtside-ai-go/internal/statsapi"
	"github.com/sirupsen/logrus"
)

// TriggerMode distinguishes queries that fire as soon as their key
// dependencies are satisfied from queries that wait for an explicit trigger.
type TriggerMode int

const (
	// Automatic queries are eligible whenever their key dependencies are
	// non-null.
	Automatic TriggerMode = iota
	// Manual queries share the same cache and key semantics but are only
	// fetched on explicit invocation.
	Manual
)

// QueryDef declares one query family: its trigger mode, cache TTL, and (for
// automatic queries) the dependency predicate over the selection state.
type QueryDef struct {
	Family string
	Mode   TriggerMode
	TTL    time.Duration
	Ready  func(selection.State) bool
}

// inflightCall tracks a single in-flight fetch so duplicate invocations for
// the same key join it instead of issuing a second request.
type inflightCall struct {
	done    chan struct{}
	payload json.RawMessage
	err     error
}

// Resolver is the declarative cache/fetch layer. Every query is identified
// by a composite Key; per key there is at most one request in flight, and
// successful results land in the shared ResultCache. A transport failure
// leaves whatever was cached earlier untouched (stale-while-error).
type Resolver struct {
	api    statsapi.StatsAPI
	cache  *ResultCache
	logger *logrus.Entry
	defs   map[string]QueryDef

	mu       sync.Mutex
	inflight map[string]*inflightCall
}

// New creates a resolver with the standard query registry.
func New(api statsapi.StatsAPI, cache *ResultCache, cacheCfg config.CacheConfig, logger *logrus.Logger) *Resolver {
	standingsTTL := config.DurationOr(cacheCfg.StandingsTTL, time.Hour)
	rosterTTL := config.DurationOr(cacheCfg.RosterTTL, 30*time.Minute)
	correlationTTL := config.DurationOr(cacheCfg.CorrelationTTL, 10*time.Minute)

	defs := map[string]QueryDef{
		FamilyStandings: {
			Family: FamilyStandings,
			Mode:   Automatic,
			TTL:    standingsTTL,
			Ready:  func(selection.State) bool { return true },
		},
		FamilyRoster: {
			Family: FamilyRoster,
			Mode:   Automatic,
			TTL:    rosterTTL,
			Ready:  func(s selection.State) bool { return s.TeamID != "" },
		},
		FamilyTeammates: {
			Family: FamilyTeammates,
			Mode:   Automatic,
			TTL:    correlationTTL,
			// Teammate scans only make sense while the pairing is still
			// open: player1 picked, player2 not yet.
			Ready: func(s selection.State) bool {
				return s.TeamID != "" && s.Player1 != nil && s.Player2 == nil
			},
		},
		FamilyCorrelation: {
			Family: FamilyCorrelation,
			Mode:   Manual,
			TTL:    correlationTTL,
		},
		FamilyTeamBest: {
			Family: FamilyTeamBest,
			Mode:   Manual,
			TTL:    correlationTTL,
		},
	}

	return &Resolver{
		api:      api,
		cache:    cache,
		logger:   logger.WithField("component", "fetch_resolver"),
		defs:     defs,
		inflight: make(map[string]*inflightCall),
	}
}

// Definition returns the query definition for a family.
func (r *Resolver) Definition(family string) (QueryDef, bool) {
	def, ok := r.defs[family]
	return def, ok
}

// EligibleAutomatic lists the automatic query families whose dependencies
// are satisfied by the given committed state.
func (r *Resolver) EligibleAutomatic(state selection.State) []string {
	var families []string
	for family, def := range r.defs {
		if def.Mode == Automatic && def.Ready != nil && def.Ready(state) {
			families = append(families, family)
		}
	}
	return families
}

// Standings resolves the league standings (automatic query, no deps).
func (r *Resolver) Standings(ctx context.Context) (*models.StandingsResponse, error) {
	var out models.StandingsResponse
	err := r.fetch(ctx, StandingsKey(), r.defs[FamilyStandings].TTL, func(ctx context.Context) (interface{}, error) {
		return r.api.GetStandings(ctx)
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Roster resolves one team's roster (automatic once a team is selected).
func (r *Resolver) Roster(ctx context.Context, teamID string) (*models.RosterResponse, error) {
	var out models.RosterResponse
	err := r.fetch(ctx, RosterKey(teamID), r.defs[FamilyRoster].TTL, func(ctx context.Context) (interface{}, error) {
		return r.api.GetRoster(ctx, teamID)
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Correlation resolves a pairwise correlation (manual trigger). The
// originating key is returned alongside the payload so consumers can apply
// the stale-response guard. Domain-error payloads are returned as normal
// results but kept out of the cache so a corrected selection can retry
// immediately.
func (r *Resolver) Correlation(ctx context.Context, req statsapi.CorrelationRequest) (*models.CorrelationResult, Key, error) {
	key := CorrelationKey(req)
	var out models.CorrelationResult
	err := r.fetch(ctx, key, r.defs[FamilyCorrelation].TTL, func(ctx context.Context) (interface{}, error) {
		return r.api.GetCorrelation(ctx, req)
	}, func(payload interface{}) bool {
		result, ok := payload.(*models.CorrelationResult)
		return ok && !result.IsDomainError()
	}, &out)
	if err != nil {
		return nil, key, err
	}
	return &out, key, nil
}

// TeammateCorrelations resolves the teammate scan for the open pairing.
func (r *Resolver) TeammateCorrelations(ctx context.Context, req statsapi.TeammateRequest) (*models.TeammateCorrelationSet, Key, error) {
	key := TeammatesKey(req)
	var out models.TeammateCorrelationSet
	err := r.fetch(ctx, key, r.defs[FamilyTeammates].TTL, func(ctx context.Context) (interface{}, error) {
		return r.api.GetTeammateCorrelations(ctx, req)
	}, func(payload interface{}) bool {
		set, ok := payload.(*models.TeammateCorrelationSet)
		return ok && !set.IsDomainError()
	}, &out)
	if err != nil {
		return nil, key, err
	}
	return &out, key, nil
}

// BestTeamPairing resolves the whole-team best pairing search (manual
// trigger, drives the auto-chain).
func (r *Resolver) BestTeamPairing(ctx context.Context, req statsapi.BestPairingRequest) (*models.BestPairingResponse, Key, error) {
	key := TeamBestKey(req)
	var out models.BestPairingResponse
	err := r.fetch(ctx, key, r.defs[FamilyTeamBest].TTL, func(ctx context.Context) (interface{}, error) {
		return r.api.GetBestTeamPairing(ctx, req)
	}, func(payload interface{}) bool {
		resp, ok := payload.(*models.BestPairingResponse)
		return ok && !resp.IsDomainError()
	}, &out)
	if err != nil {
		return nil, key, err
	}
	return &out, key, nil
}

// InvalidateTeammates clears every cached teammate scan. Safe to call with
// nothing cached; an in-flight scan that lands afterwards simply re-caches
// (last writer wins).
func (r *Resolver) InvalidateTeammates(ctx context.Context) error {
	return r.cache.DeleteFamily(ctx, FamilyTeammates)
}

// InvalidateCorrelation clears one cached correlation result.
func (r *Resolver) InvalidateCorrelation(ctx context.Context, req statsapi.CorrelationRequest) error {
	return r.cache.Delete(ctx, CorrelationKey(req))
}

// fetch implements the shared cache/in-flight/fetch path. shouldCache may be
// nil, in which case every successful payload is cached.
func (r *Resolver) fetch(ctx context.Context, key Key, ttl time.Duration, call func(context.Context) (interface{}, error), shouldCache func(interface{}) bool, out interface{}) error {
	if r.cache.Get(ctx, key, out) {
		return nil
	}

	keyStr := key.String()

	r.mu.Lock()
	if existing, ok := r.inflight[keyStr]; ok {
		r.mu.Unlock()
		return r.join(ctx, existing, out)
	}
	flight := &inflightCall{done: make(chan struct{})}
	r.inflight[keyStr] = flight
	r.mu.Unlock()

	payload, err := call(ctx)
	if err == nil {
		flight.payload, err = json.Marshal(payload)
		if err != nil {
			err = fmt.Errorf("failed to encode %s payload: %w", key.Family, err)
		}
	}
	flight.err = err

	if err == nil && (shouldCache == nil || shouldCache(payload)) {
		r.cache.Set(ctx, key, payload, ttl)
	}

	r.mu.Lock()
	delete(r.inflight, keyStr)
	r.mu.Unlock()
	close(flight.done)

	if err != nil {
		r.logger.WithError(err).WithField("key", keyStr).Warn("Fetch failed")
		return err
	}
	return json.Unmarshal(flight.payload, out)
}

// join waits for an already in-flight fetch with the same key and reuses its
// outcome.
func (r *Resolver) join(ctx context.Context, flight *inflightCall, out interface{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-flight.done:
	}
	if flight.err != nil {
		return flight.err
	}
	return json.Unmarshal(flight.payload, out)
}
