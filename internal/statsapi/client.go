package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Client talks to the remote analytics service that computes correlations,
// rosters and standings. Statistical work happens on the other side of this
// boundary; the client only forwards query parameters and decodes payloads.
type Client struct {
	HTTPClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// NewClient creates an analytics service client from configuration.
func NewClient(cfg *config.StatsAPIConfig, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.ServiceURL, "/"),
		logger:     logger,
	}
}

// GetStandings retrieves the full league standings, split by conference.
func (c *Client) GetStandings(ctx context.Context) (*models.StandingsResponse, error) {
	var response models.StandingsResponse
	if err := c.getJSON(ctx, "/teams/standings", nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetRoster retrieves the current roster for a team.
func (c *Client) GetRoster(ctx context.Context, teamID string) (*models.RosterResponse, error) {
	path := fmt.Sprintf("/teams/%s/roster", url.PathEscape(teamID))
	var response models.RosterResponse
	if err := c.getJSON(ctx, path, nil, &response); err != nil {
		return nil, err
	}
	if response.TeamID == "" {
		response.TeamID = teamID
	}
	return &response, nil
}

// GetCorrelation runs a pairwise correlation analysis. A payload carrying a
// domain error field decodes successfully and is returned as a normal
// result; only transport failures return a non-nil error.
func (c *Client) GetCorrelation(ctx context.Context, req CorrelationRequest) (*models.CorrelationResult, error) {
	params := url.Values{}
	params.Set("player1_id", req.Player1ID)
	params.Set("player1_stat", string(req.Player1Stat))
	params.Set("player2_id", req.Player2ID)
	params.Set("player2_stat", string(req.Player2Stat))
	params.Set("season", req.Season)
	params.Set("min_games", strconv.Itoa(req.MinGames))

	var response models.CorrelationResult
	if err := c.getJSON(ctx, "/stats/correlation", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetTeammateCorrelations scans a player's current teammates for correlated
// stats. MinCorrelation is applied by the service, not here.
func (c *Client) GetTeammateCorrelations(ctx context.Context, req TeammateRequest) (*models.TeammateCorrelationSet, error) {
	params := url.Values{}
	params.Set("player_id", req.PlayerID)
	params.Set("player_stat", string(req.PlayerStat))
	params.Set("season", req.Season)
	params.Set("team_id", req.TeamID)
	params.Set("min_correlation", strconv.FormatFloat(req.MinCorrelation, 'f', -1, 64))

	var response models.TeammateCorrelationSet
	if err := c.getJSON(ctx, "/stats/correlation/teammates", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetBestTeamPairing asks the service for the strongest positive pairing
// across a whole roster.
func (c *Client) GetBestTeamPairing(ctx context.Context, req BestPairingRequest) (*models.BestPairingResponse, error) {
	params := url.Values{}
	params.Set("team_id", req.TeamID)
	params.Set("season", req.Season)
	params.Set("min_games", strconv.Itoa(req.MinGames))

	var response models.BestPairingResponse
	if err := c.getJSON(ctx, "/stats/correlation/team/best", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetStatLeaders retrieves season leaders for a stat. Best-effort widget
// data; callers are expected to drop the widget on failure.
func (c *Client) GetStatLeaders(ctx context.Context, stat, season string, limit int) (*models.LeadersResponse, error) {
	params := url.Values{}
	params.Set("stat", stat)
	if season != "" {
		params.Set("season", season)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var response models.LeadersResponse
	if err := c.getJSON(ctx, "/stats/leaders", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetKingOfTheCourt retrieves the top combined performer for a date. Also
// best-effort widget data.
func (c *Client) GetKingOfTheCourt(ctx context.Context, date string) (*models.KingOfTheCourtResponse, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}

	var response models.KingOfTheCourtResponse
	if err := c.getJSON(ctx, "/stats/king-of-the-court", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// getJSON performs a GET against the analytics service and decodes the JSON
// body into result. Non-2xx statuses become a *StatusError.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Courtside-AI-Go/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Error closing response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errorResp struct {
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		message := string(respBody)
		if err := json.Unmarshal(respBody, &errorResp); err == nil {
			if errorResp.Detail != "" {
				message = errorResp.Detail
			} else if errorResp.Error != "" {
				message = errorResp.Error
			}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: message}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
