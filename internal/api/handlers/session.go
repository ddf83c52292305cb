package handlers

import (
	"net/http"

	"github.com/courtside/courtside-ai-go/internal/controller"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionHandler manages session lifecycle and state reads.
type SessionHandler struct {
	manager *controller.Manager
	logger  *logrus.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(manager *controller.Manager, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{manager: manager, logger: logger}
}

// sessionView is the state payload shared by most endpoints.
type sessionView struct {
	SessionID string      `json:"session_id"`
	State     interface{} `json:"state"`
	ShareLink string      `json:"share_link"`
	Phase     string      `json:"chain_phase"`
}

func view(ctrl *controller.Controller) sessionView {
	return sessionView{
		SessionID: ctrl.ID,
		State:     ctrl.State(),
		ShareLink: ctrl.ShareLink(),
		Phase:     ctrl.ChainPhase().String(),
	}
}

// CreateSession handles POST /api/v1/sessions.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	ctrl, err := h.manager.Create(h.logger)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view(ctrl))
}

// GetSession handles GET /api/v1/sessions/:id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view(ctrl))
}

// DeleteSession handles DELETE /api/v1/sessions/:id.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.manager.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// GetShareLink handles GET /api/v1/sessions/:id/share.
func (h *SessionHandler) GetShareLink(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"share_link": ctrl.ShareLink()})
}

// RestoreRequest carries a previously shared query string.
type RestoreRequest struct {
	Query string `json:"query" binding:"required"`
}

// Restore handles POST /api/v1/sessions/:id/restore.
func (h *SessionHandler) Restore(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if _, err := ctrl.Restore(c.Request.Context(), req.Query); err != nil {
		// Partial restores are still useful: report the surviving state
		// alongside the failure.
		c.JSON(http.StatusOK, gin.H{
			"session_id": ctrl.ID,
			"state":      ctrl.State(),
			"share_link": ctrl.ShareLink(),
			"warning":    err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, view(ctrl))
}
