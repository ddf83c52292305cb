package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Redis       RedisConfig    `mapstructure:"redis"`
	StatsAPI    StatsAPIConfig `mapstructure:"stats_api"`
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	Session     SessionConfig  `mapstructure:"session"`
	Cache       CacheConfig    `mapstructure:"cache"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StatsAPIConfig points at the remote analytics service that computes the
// actual correlations.
type StatsAPIConfig struct {
	ServiceURL string `mapstructure:"service_url"`
	Timeout    int    `mapstructure:"timeout"`
}

// AnalysisConfig holds the query parameters forwarded to the analytics
// service. The filtering itself happens server-side.
type AnalysisConfig struct {
	DefaultSeason    string  `mapstructure:"default_season"`
	MinGames         int     `mapstructure:"min_games"`
	TeamBestMinGames int     `mapstructure:"team_best_min_games"`
	MinCorrelation   float64 `mapstructure:"min_correlation"`
}

type SessionConfig struct {
	IdleExpiry  string `mapstructure:"idle_expiry"`
	MaxSessions int    `mapstructure:"max_sessions"`
}

type CacheConfig struct {
	StandingsTTL   string `mapstructure:"standings_ttl"`
	RosterTTL      string `mapstructure:"roster_ttl"`
	CorrelationTTL string `mapstructure:"correlation_ttl"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(cfg *Config) error {
	if cfg.StatsAPI.ServiceURL == "" {
		return fmt.Errorf("stats_api.service_url must not be empty")
	}
	if cfg.Analysis.MinGames < 1 {
		return fmt.Errorf("analysis.min_games must be at least 1, got %d", cfg.Analysis.MinGames)
	}
	if cfg.Analysis.MinCorrelation < 0 || cfg.Analysis.MinCorrelation > 1 {
		return fmt.Errorf("analysis.min_correlation must be in [0, 1], got %g", cfg.Analysis.MinCorrelation)
	}
	for name, raw := range map[string]string{
		"session.idle_expiry":   cfg.Session.IdleExpiry,
		"cache.standings_ttl":   cfg.Cache.StandingsTTL,
		"cache.roster_ttl":      cfg.Cache.RosterTTL,
		"cache.correlation_ttl": cfg.Cache.CorrelationTTL,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Analytics service
	viper.SetDefault("stats_api.service_url", "http://localhost:8000")
	viper.SetDefault("stats_api.timeout", 30)

	// Analysis parameters forwarded to the analytics service
	viper.SetDefault("analysis.default_season", "2025")
	viper.SetDefault("analysis.min_games", 3)
	viper.SetDefault("analysis.team_best_min_games", 10)
	viper.SetDefault("analysis.min_correlation", 0.3)

	// Sessions
	viper.SetDefault("session.idle_expiry", "30m")
	viper.SetDefault("session.max_sessions", 10000)

	// Cache TTLs
	viper.SetDefault("cache.standings_ttl", "1h")
	viper.SetDefault("cache.roster_ttl", "30m")
	viper.SetDefault("cache.correlation_ttl", "10m")
}

// DurationOr parses a configured duration string, falling back when the
// value is empty or malformed. Validation already rejected malformed values
// for known keys, so the fallback mostly covers empty strings.
func DurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
