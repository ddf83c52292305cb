package handlers

import (
	"net/http"

	"github.com/courtside/courtside-ai-go/internal/controller"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SelectionHandler exposes the selection-store transitions.
type SelectionHandler struct {
	manager *controller.Manager
	logger  *logrus.Logger
}

// NewSelectionHandler creates a selection handler.
func NewSelectionHandler(manager *controller.Manager, logger *logrus.Logger) *SelectionHandler {
	return &SelectionHandler{manager: manager, logger: logger}
}

// GetStandings handles GET /api/v1/sessions/:id/standings.
func (h *SelectionHandler) GetStandings(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	standings, err := ctrl.Standings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, standings)
}

// GetRoster handles GET /api/v1/sessions/:id/roster.
func (h *SelectionHandler) GetRoster(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	roster, err := ctrl.Roster(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// TeamRequest selects a team by id.
type TeamRequest struct {
	TeamID string `json:"team_id" binding:"required"`
}

// SelectTeam handles PUT /api/v1/sessions/:id/team.
func (h *SelectionHandler) SelectTeam(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	var req TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if _, err := ctrl.SelectTeam(c.Request.Context(), req.TeamID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view(ctrl))
}

// PlayerRequest selects an athlete/stat pair for one slot.
type PlayerRequest struct {
	AthleteID string `json:"athlete_id" binding:"required"`
	Stat      string `json:"stat" binding:"required"`
}

// SelectPlayer1 handles PUT /api/v1/sessions/:id/players/1.
func (h *SelectionHandler) SelectPlayer1(c *gin.Context) {
	h.selectPlayer(c, 1)
}

// SelectPlayer2 handles PUT /api/v1/sessions/:id/players/2.
func (h *SelectionHandler) SelectPlayer2(c *gin.Context) {
	h.selectPlayer(c, 2)
}

func (h *SelectionHandler) selectPlayer(c *gin.Context, slot int) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	var req PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	stat, err := models.ParseStatKind(req.Stat)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if slot == 1 {
		_, err = ctrl.SelectPlayer1(c.Request.Context(), req.AthleteID, stat)
	} else {
		_, err = ctrl.SelectPlayer2(c.Request.Context(), req.AthleteID, stat)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view(ctrl))
}

// ClearPlayer1 handles DELETE /api/v1/sessions/:id/players/1.
func (h *SelectionHandler) ClearPlayer1(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	ctrl.ClearPlayer1(c.Request.Context())
	c.JSON(http.StatusOK, view(ctrl))
}

// ClearPlayer2 handles DELETE /api/v1/sessions/:id/players/2.
func (h *SelectionHandler) ClearPlayer2(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	ctrl.ClearPlayer2(c.Request.Context())
	c.JSON(http.StatusOK, view(ctrl))
}

// SeasonRequest switches the season under analysis.
type SeasonRequest struct {
	Season string `json:"season" binding:"required"`
}

// SetSeason handles PUT /api/v1/sessions/:id/season.
func (h *SelectionHandler) SetSeason(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	var req SeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	ctrl.SetSeason(c.Request.Context(), req.Season)
	c.JSON(http.StatusOK, view(ctrl))
}

// FilterRequest changes the home/away display filter.
type FilterRequest struct {
	Filter string `json:"filter" binding:"required"`
}

// SetFilter handles PUT /api/v1/sessions/:id/filter.
func (h *SelectionHandler) SetFilter(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if _, err := ctrl.SetHomeAwayFilter(models.HomeAwayFilter(req.Filter)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view(ctrl))
}
