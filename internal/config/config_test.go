package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "http://localhost:8000", cfg.StatsAPI.ServiceURL)
	assert.Equal(t, "2025", cfg.Analysis.DefaultSeason)
	assert.Equal(t, 3, cfg.Analysis.MinGames)
	assert.Equal(t, 10, cfg.Analysis.TeamBestMinGames)
	assert.InDelta(t, 0.3, cfg.Analysis.MinCorrelation, 1e-9)
	assert.Equal(t, "30m", cfg.Session.IdleExpiry)
	assert.Equal(t, "1h", cfg.Cache.StandingsTTL)
}

func TestValidateRejectsEmptyServiceURL(t *testing.T) {
	err := validate(&Config{
		Analysis: AnalysisConfig{MinGames: 3, MinCorrelation: 0.3},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service_url")
}

func TestValidateRejectsBadMinGames(t *testing.T) {
	err := validate(&Config{
		StatsAPI: StatsAPIConfig{ServiceURL: "http://stats.local"},
		Analysis: AnalysisConfig{MinGames: 0, MinCorrelation: 0.3},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_games")
}

func TestValidateRejectsBadCorrelationThreshold(t *testing.T) {
	err := validate(&Config{
		StatsAPI: StatsAPIConfig{ServiceURL: "http://stats.local"},
		Analysis: AnalysisConfig{MinGames: 3, MinCorrelation: 1.5},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_correlation")
}

func TestValidateRejectsMalformedDuration(t *testing.T) {
	err := validate(&Config{
		StatsAPI: StatsAPIConfig{ServiceURL: "http://stats.local"},
		Analysis: AnalysisConfig{MinGames: 3, MinCorrelation: 0.3},
		Session:  SessionConfig{IdleExpiry: "soon"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.idle_expiry")
}

func TestValidateAcceptsEmptyDurations(t *testing.T) {
	err := validate(&Config{
		StatsAPI: StatsAPIConfig{ServiceURL: "http://stats.local"},
		Analysis: AnalysisConfig{MinGames: 3, MinCorrelation: 0.3},
	})
	assert.NoError(t, err)
}

func TestDurationOr(t *testing.T) {
	assert.Equal(t, 10*time.Minute, DurationOr("10m", time.Hour))
	assert.Equal(t, time.Hour, DurationOr("", time.Hour))
	assert.Equal(t, time.Hour, DurationOr("garbage", time.Hour))
}
