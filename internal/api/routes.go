// Package api wires the gin router for the orchestration service.
package api

import (
	"net/http"
	"time"

	"github.com/courtside/courtside-ai-go/internal/api/handlers"
	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/controller"
	"github.com/courtside/courtside-ai-go/internal/enrichment"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// HealthResponse reports service liveness plus dependency status.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Sessions  int       `json:"sessions"`
	Services  Services  `json:"services"`
}

// Services holds per-dependency health strings.
type Services struct {
	Redis string `json:"redis"`
}

// Deps carries everything the routes need.
type Deps struct {
	Manager    *controller.Manager
	Enrichment *enrichment.Service
	Redis      *redis.Client
	Config     *config.Config
	Logger     *logrus.Logger
}

// SetupRoutes registers every endpoint on the router.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", healthCheck(deps))

	session := handlers.NewSessionHandler(deps.Manager, deps.Logger)
	selection := handlers.NewSelectionHandler(deps.Manager, deps.Logger)
	analysis := handlers.NewAnalysisHandler(deps.Manager, deps.Logger)
	chain := handlers.NewChainHandler(deps.Manager, deps.Logger)
	widgets := handlers.NewWidgetHandler(deps.Enrichment, deps.Config.Analysis, deps.Logger)

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", session.CreateSession)
			sessions.GET("/:id", session.GetSession)
			sessions.DELETE("/:id", session.DeleteSession)
			sessions.GET("/:id/share", session.GetShareLink)
			sessions.POST("/:id/restore", session.Restore)

			sessions.GET("/:id/standings", selection.GetStandings)
			sessions.GET("/:id/roster", selection.GetRoster)
			sessions.PUT("/:id/team", selection.SelectTeam)
			sessions.PUT("/:id/players/1", selection.SelectPlayer1)
			sessions.DELETE("/:id/players/1", selection.ClearPlayer1)
			sessions.PUT("/:id/players/2", selection.SelectPlayer2)
			sessions.DELETE("/:id/players/2", selection.ClearPlayer2)
			sessions.PUT("/:id/season", selection.SetSeason)
			sessions.PUT("/:id/filter", selection.SetFilter)

			sessions.POST("/:id/analyze", analysis.Analyze)
			sessions.GET("/:id/analysis", analysis.GetAnalysis)
			sessions.DELETE("/:id/analysis", analysis.ClearAnalysis)
			sessions.GET("/:id/teammates", analysis.GetTeammates)
			sessions.DELETE("/:id/teammates", analysis.ClearTeammates)

			sessions.POST("/:id/chain/best-pairing", chain.BestPairing)
			sessions.POST("/:id/chain/teammate", chain.SelectTeammate)
		}

		w := v1.Group("/widgets")
		{
			w.GET("/leaders", widgets.GetLeaders)
			w.GET("/king-of-the-court", widgets.GetKingOfTheCourt)
		}
	}
}

func healthCheck(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Sessions:  deps.Manager.Count(),
			Services: Services{
				Redis: "ok",
			},
		}

		if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
			response.Services.Redis = "error"
			response.Status = "degraded"
		}

		statusCode := http.StatusOK
		if response.Status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}
