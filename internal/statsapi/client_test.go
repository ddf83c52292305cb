package statsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(&config.StatsAPIConfig{ServiceURL: server.URL, Timeout: 5}, logger)
}

func TestGetStandings(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/standings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"eastern_conference": [{"team_id": "celtics", "team_display_name": "Boston Celtics", "wins": 50, "losses": 12}],
			"western_conference": [{"team_id": "lakers", "team_display_name": "Los Angeles Lakers", "wins": 42, "losses": 20}]
		}`))
	}))

	standings, err := client.GetStandings(context.Background())
	require.NoError(t, err)

	require.Len(t, standings.EasternConference, 1)
	assert.Equal(t, "celtics", standings.EasternConference[0].ID)
	team, ok := standings.FindTeam("lakers")
	require.True(t, ok)
	assert.Equal(t, 42, team.Wins)
}

func TestGetRosterFillsTeamID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/lakers/roster", r.URL.Path)
		_, _ = w.Write([]byte(`{"roster": [{"athlete_id": "lebron", "athlete_display_name": "LeBron James"}]}`))
	}))

	roster, err := client.GetRoster(context.Background(), "lakers")
	require.NoError(t, err)

	assert.Equal(t, "lakers", roster.TeamID)
	_, ok := roster.FindAthlete("lebron")
	assert.True(t, ok)
}

func TestGetCorrelationForwardsParams(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/correlation", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "lebron", q.Get("player1_id"))
		assert.Equal(t, "points", q.Get("player1_stat"))
		assert.Equal(t, "davis", q.Get("player2_id"))
		assert.Equal(t, "rebounds", q.Get("player2_stat"))
		assert.Equal(t, "2025", q.Get("season"))
		assert.Equal(t, "3", q.Get("min_games"))
		_, _ = w.Write([]byte(`{"correlation": {"coefficient": 0.62, "is_significant": true}}`))
	}))

	result, err := client.GetCorrelation(context.Background(), CorrelationRequest{
		Player1ID:   "lebron",
		Player1Stat: models.StatPoints,
		Player2ID:   "davis",
		Player2Stat: models.StatRebounds,
		Season:      "2025",
		MinGames:    3,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.62, result.Correlation.Coefficient, 1e-9)
	assert.True(t, result.Correlation.IsSignificant)
	assert.False(t, result.IsDomainError())
}

func TestGetCorrelationDomainErrorIsNotTransportError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Domain failures ride inside a 200 payload.
		_, _ = w.Write([]byte(`{"error": "Not enough games found for both players", "games_found": 1}`))
	}))

	result, err := client.GetCorrelation(context.Background(), CorrelationRequest{})
	require.NoError(t, err)

	assert.True(t, result.IsDomainError())
	assert.Equal(t, 1, result.GamesFound)
}

func TestGetTeammateCorrelationsForwardsThreshold(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/correlation/teammates", r.URL.Path)
		assert.Equal(t, "0.3", r.URL.Query().Get("min_correlation"))
		_, _ = w.Write([]byte(`{
			"player_id": "lebron",
			"correlations_found": 1,
			"top_correlations": [{"teammate_id": "davis", "teammate_stat": "rebounds", "correlation": 0.55}]
		}`))
	}))

	set, err := client.GetTeammateCorrelations(context.Background(), TeammateRequest{
		PlayerID:       "lebron",
		PlayerStat:     models.StatPoints,
		MinCorrelation: 0.3,
	})
	require.NoError(t, err)

	require.Len(t, set.TopCorrelations, 1)
	assert.Equal(t, "davis", set.TopCorrelations[0].TeammateID)
}

func TestGetBestTeamPairing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/correlation/team/best", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("min_games"))
		_, _ = w.Write([]byte(`{
			"team_id": "lakers",
			"best_correlation": {"player1_id": "lebron", "player1_stat": "points", "player2_id": "davis", "player2_stat": "rebounds", "correlation": 0.71}
		}`))
	}))

	resp, err := client.GetBestTeamPairing(context.Background(), BestPairingRequest{
		TeamID:   "lakers",
		MinGames: 10,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.BestCorrelation)
	assert.Equal(t, "lebron", resp.BestCorrelation.Player1ID)
}

func TestStatusErrorFromDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "player1_id is required"}`))
	}))

	_, err := client.GetCorrelation(context.Background(), CorrelationRequest{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, "player1_id is required", statusErr.Message)
}

func TestStatusErrorFromPlainBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))

	_, err := client.GetStandings(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "upstream exploded", statusErr.Message)
}

func TestGetStatLeaders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/leaders", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "points", q.Get("stat"))
		assert.Equal(t, "10", q.Get("limit"))
		_, _ = w.Write([]byte(`{"stat": "points", "season": "2025", "leaders": [{"athlete_id": "sga", "stat_value": 32.7}]}`))
	}))

	leaders, err := client.GetStatLeaders(context.Background(), "points", "2025", 10)
	require.NoError(t, err)

	require.Len(t, leaders.Leaders, 1)
	assert.Equal(t, "sga", leaders.Leaders[0].AthleteID)
}

func TestGetKingOfTheCourt(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/king-of-the-court", r.URL.Path)
		assert.Equal(t, "2026-08-29", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{"date": "2026-08-29", "king": {"athlete_id": "jokic", "total_score": 58}}`))
	}))

	king, err := client.GetKingOfTheCourt(context.Background(), "2026-08-29")
	require.NoError(t, err)

	require.NotNil(t, king.King)
	assert.Equal(t, "jokic", king.King.AthleteID)
}

func TestBaseURLTrimsTrailingSlash(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	client := NewClient(&config.StatsAPIConfig{ServiceURL: "http://stats.local/"}, logger)
	assert.Equal(t, "http://stats.local", client.BaseURL())
}
