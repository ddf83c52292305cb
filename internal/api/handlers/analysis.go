package handlers

import (
	"net/http"

	"github.com/courtside/courtside-ai-go/internal/controller"
	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnalysisHandler exposes the analyze flow and the derived result views.
type AnalysisHandler struct {
	manager *controller.Manager
	logger  *logrus.Logger
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(manager *controller.Manager, logger *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{manager: manager, logger: logger}
}

// analysisPayload bundles the raw correlation result with the derived view.
// Domain errors ship the raw error payload and no view; the client renders
// the error panel from it.
type analysisPayload struct {
	SessionID string                    `json:"session_id"`
	State     interface{}               `json:"state"`
	Result    *models.CorrelationResult `json:"result,omitempty"`
	View      interface{}               `json:"view,omitempty"`
}

func (h *AnalysisHandler) payload(ctrl *controller.Controller) analysisPayload {
	p := analysisPayload{
		SessionID: ctrl.ID,
		State:     ctrl.State(),
	}
	if result, ok := ctrl.AnalysisResult(); ok {
		p.Result = result
	}
	if v, ok := ctrl.AnalysisView(); ok {
		p.View = v
	}
	return p
}

// Analyze handles POST /api/v1/sessions/:id/analyze.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	if _, _, err := ctrl.Analyze(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.payload(ctrl))
}

// GetAnalysis handles GET /api/v1/sessions/:id/analysis.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.payload(ctrl))
}

// ClearAnalysis handles DELETE /api/v1/sessions/:id/analysis.
func (h *AnalysisHandler) ClearAnalysis(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	ctrl.ClearAnalysis()
	c.JSON(http.StatusOK, view(ctrl))
}

// GetTeammates handles GET /api/v1/sessions/:id/teammates: the current
// teammate-scan slot contents, if any.
func (h *AnalysisHandler) GetTeammates(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	result, has := ctrl.TeammateResult()
	if !has {
		c.JSON(http.StatusOK, gin.H{"session_id": ctrl.ID, "teammates": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": ctrl.ID, "teammates": result})
}

// ClearTeammates handles DELETE /api/v1/sessions/:id/teammates: drops the
// cached scans so the next open pairing recomputes.
func (h *AnalysisHandler) ClearTeammates(c *gin.Context) {
	ctrl, ok := sessionFrom(c, h.manager)
	if !ok {
		return
	}
	if err := ctrl.ClearTeammates(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
