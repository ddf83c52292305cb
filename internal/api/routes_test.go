package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/controller"
	"github.com/courtside/courtside-ai-go/internal/enrichment"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/resolver"
	"github.com/courtside/courtside-ai-go/internal/statsapi"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureAPI serves a small consistent league for endpoint tests.
type fixtureAPI struct{}

func (fixtureAPI) GetStandings(ctx context.Context) (*models.StandingsResponse, error) {
	return &models.StandingsResponse{
		WesternConference: []models.Team{{ID: "lakers", DisplayName: "Los Angeles Lakers"}},
	}, nil
}

func (fixtureAPI) GetRoster(ctx context.Context, teamID string) (*models.RosterResponse, error) {
	return &models.RosterResponse{
		TeamID: teamID,
		Roster: []models.Athlete{
			{ID: "lebron", DisplayName: "LeBron James"},
			{ID: "davis", DisplayName: "Anthony Davis"},
		},
	}, nil
}

func (fixtureAPI) GetCorrelation(ctx context.Context, req statsapi.CorrelationRequest) (*models.CorrelationResult, error) {
	return &models.CorrelationResult{
		Correlation: models.CorrelationStats{Coefficient: 0.62, IsSignificant: true},
		Data: models.DataBlock{
			GamesAnalyzed: 1,
			DataPoints:    []models.GamePoint{{GameID: "g1", HomeAway: "home", Player1Value: 20, Player2Value: 10}},
		},
	}, nil
}

func (fixtureAPI) GetTeammateCorrelations(ctx context.Context, req statsapi.TeammateRequest) (*models.TeammateCorrelationSet, error) {
	return &models.TeammateCorrelationSet{
		PlayerID: req.PlayerID,
		TopCorrelations: []models.TeammateCorrelation{
			{TeammateID: "davis", TeammateStat: models.StatRebounds, Correlation: 0.55},
		},
	}, nil
}

func (fixtureAPI) GetBestTeamPairing(ctx context.Context, req statsapi.BestPairingRequest) (*models.BestPairingResponse, error) {
	return &models.BestPairingResponse{
		TeamID: req.TeamID,
		BestCorrelation: &models.BestPairing{
			Player1ID:   "lebron",
			Player1Stat: models.StatPoints,
			Player2ID:   "davis",
			Player2Stat: models.StatRebounds,
		},
	}, nil
}

func (fixtureAPI) GetStatLeaders(ctx context.Context, stat, season string, limit int) (*models.LeadersResponse, error) {
	return &models.LeadersResponse{Stat: stat, Season: season}, nil
}

func (fixtureAPI) GetKingOfTheCourt(ctx context.Context, date string) (*models.KingOfTheCourtResponse, error) {
	return &models.KingOfTheCourtResponse{Date: date}, nil
}

var _ statsapi.StatsAPI = fixtureAPI{}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		Analysis: config.AnalysisConfig{
			DefaultSeason:    "2025",
			MinGames:         3,
			TeamBestMinGames: 10,
			MinCorrelation:   0.3,
		},
		Session: config.SessionConfig{IdleExpiry: "30m"},
	}

	api := fixtureAPI{}
	res := resolver.New(api, resolver.NewResultCache(client, logger), config.CacheConfig{}, logger)
	manager := controller.NewManager(res, cfg.Analysis, cfg.Session, logger)
	t.Cleanup(manager.Close)

	router := gin.New()
	SetupRoutes(router, Deps{
		Manager:    manager,
		Enrichment: enrichment.New(api, logger),
		Redis:      client,
		Config:     cfg,
		Logger:     logger,
	})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w, body := doJSON(t, router, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id, ok := body["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, body["session_id"])
	assert.Equal(t, "idle", body["chain_phase"])

	w, _ = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownSession(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectTeamFlow(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	w, body := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/team", `{"team_id": "lakers"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "team=lakers", body["share_link"])

	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/team", `{"team_id": "sonics"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectPlayersAndAnalyze(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	w, _ := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/team", `{"team_id": "lakers"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/players/1", `{"athlete_id": "lebron", "stat": "points"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/players/2", `{"athlete_id": "davis", "stat": "rebounds"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/analyze", "")
	require.Equal(t, http.StatusOK, w.Code)

	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	correlation := result["correlation"].(map[string]interface{})
	assert.InDelta(t, 0.62, correlation["coefficient"].(float64), 1e-9)
	assert.NotNil(t, body["view"])
}

func TestAnalyzeWithoutPairingRejected(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/analyze", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidStatRejected(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	w, _ := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/team", `{"team_id": "lakers"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/players/1", `{"athlete_id": "lebron", "stat": "dunks"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeammateScanAfterPlayer1(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/team", `{"team_id": "lakers"}`)
	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/players/1", `{"athlete_id": "lebron", "stat": "points"}`)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/teammates", "")
	require.Equal(t, http.StatusOK, w.Code)

	teammates, ok := body["teammates"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "lebron", teammates["player_id"])
}

func TestBestPairingChainEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/team", `{"team_id": "lakers"}`)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/chain/best-pairing", "")
	require.Equal(t, http.StatusOK, w.Code)

	candidate, ok := body["candidate"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "lebron", candidate["player1_id"])

	state := body["state"].(map[string]interface{})
	assert.Equal(t, true, state["analyzed"])
}

func TestTeammateChainEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/team", `{"team_id": "lakers"}`)
	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/players/1", `{"athlete_id": "lebron", "stat": "points"}`)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/chain/teammate",
		`{"teammate_id": "davis", "teammate_stat": "rebounds"}`)
	require.Equal(t, http.StatusOK, w.Code)

	state := body["state"].(map[string]interface{})
	assert.Equal(t, true, state["analyzed"])
}

func TestShareAndRestore(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/team", `{"team_id": "lakers"}`)
	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/players/1", `{"athlete_id": "lebron", "stat": "points"}`)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/share", "")
	require.Equal(t, http.StatusOK, w.Code)
	shared := body["share_link"].(string)
	require.NotEmpty(t, shared)

	other := createSession(t, router)
	w, body = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+other+"/restore",
		`{"query": "`+shared+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	state := body["state"].(map[string]interface{})
	assert.Equal(t, "lakers", state["team_id"])
}

func TestWidgetEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/widgets/leaders?stat=assists", "")
	require.Equal(t, http.StatusOK, w.Code)
	leaders := body["leaders"].(map[string]interface{})
	assert.Equal(t, "assists", leaders["stat"])

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/widgets/king-of-the-court?date=2026-08-29", "")
	require.Equal(t, http.StatusOK, w.Code)
	king := body["king_of_the_court"].(map[string]interface{})
	assert.Equal(t, "2026-08-29", king["date"])
}

func TestSetFilterEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router)

	w, body := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/filter", `{"filter": "home"}`)
	require.Equal(t, http.StatusOK, w.Code)
	state := body["state"].(map[string]interface{})
	assert.Equal(t, "home", state["home_away_filter"])

	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/filter", `{"filter": "neutral"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
