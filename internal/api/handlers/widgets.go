package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/enrichment"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WidgetHandler serves the best-effort page widgets. These endpoints never
// fail: an unavailable widget is a null payload, not an error.
type WidgetHandler struct {
	service *enrichment.Service
	cfg     config.AnalysisConfig
	logger  *logrus.Logger
}

// NewWidgetHandler creates a widget handler.
func NewWidgetHandler(service *enrichment.Service, cfg config.AnalysisConfig, logger *logrus.Logger) *WidgetHandler {
	return &WidgetHandler{service: service, cfg: cfg, logger: logger}
}

// GetLeaders handles GET /api/v1/widgets/leaders.
func (h *WidgetHandler) GetLeaders(c *gin.Context) {
	stat := c.DefaultQuery("stat", "points")
	season := c.DefaultQuery("season", h.cfg.DefaultSeason)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	leaders := h.service.StatLeaders(c.Request.Context(), stat, season, limit)
	c.JSON(http.StatusOK, gin.H{"leaders": leaders})
}

// GetKingOfTheCourt handles GET /api/v1/widgets/king-of-the-court.
func (h *WidgetHandler) GetKingOfTheCourt(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	king := h.service.KingOfTheCourt(c.Request.Context(), date)
	c.JSON(http.StatusOK, gin.H{"king_of_the_court": king})
}
