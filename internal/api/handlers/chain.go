package handlers

import (
	"net/http"

	"github.com/courtside/courtside-ai-go/internal/controller"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ChainHandler exposes the automated multi-step flows.
type ChainHandler struct {
	manager *controller.Manager
	logger  *logrus.Logger
}

// NewChainHandler creates a chain handler.
func NewChainHandler(manager *controller.Manager, logger *logrus.Logger) *ChainHandler {
	return &ChainHandler{manager: manager, logger: logger}
}

// BestPairing handles POST /api/v1/sessions/:id/chain/best-pairing: search
// the selected team for its strongest pairing, commit it, analyze it.
func (h *ChainHandler) BestPairing(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	result, err := ctrl.BestPairing(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TeammateRowRequest is a clicked teammate-scan row: the candidate second
// player plus its stat.
type TeammateRowRequest struct {
	TeammateID   string `json:"teammate_id" binding:"required"`
	TeammateStat string `json:"teammate_stat" binding:"required"`
}

// SelectTeammate handles POST /api/v1/sessions/:id/chain/teammate: commit
// the clicked row as player2 and run the analysis.
func (h *ChainHandler) SelectTeammate(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	var req TeammateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	stat, err := models.ParseStatKind(req.TeammateStat)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := models.TeammateCorrelation{TeammateID: req.TeammateID, TeammateStat: stat}
	result, err := ctrl.SelectTeammate(c.Request.Context(), row)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
