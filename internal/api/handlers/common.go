// Package handlers implements the HTTP endpoints over the per-session
// orchestration core.
package handlers

import (
	"errors"
	"net/http"

	"github.com/courtside/courtside-ai-go/internal/controller"
	"github.com/courtside/courtside-ai-go/internal/statsapi"
	"github.com/courtside/courtside-ai-go/internal/utils"
	"github.com/gin-gonic/gin"
)

// writeError maps internal failures onto HTTP statuses. Validation problems
// are the caller's fault; upstream analytics failures surface as bad
// gateway. Domain errors never reach this path: they are 200 payloads with
// an error field, rendered by the client as the error panel.
func writeError(c *gin.Context, err error) {
	var statusErr *statsapi.StatusError
	switch {
	case utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &statusErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "analytics service error", "details": statusErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}

// sessionFrom resolves the :id path parameter to a live controller, writing
// a 404 when the session is unknown or expired.
func sessionFrom(c *gin.Context, manager *controller.Manager) (*controller.Controller, bool) {
	ctrl, ok := manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
		return nil, false
	}
	return ctrl, true
}
