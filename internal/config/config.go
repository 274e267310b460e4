package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dota-dashboard/internal/constants"
	"dota-dashboard/internal/steamid"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var defaultSteamIDs = []string{
	"76561198355928347",
	"76561198220727716",
}

type Config struct {
	DotaAPIKey      string
	OpenDotaBaseURL string
	ServerPort      string
	LogLevel        string
	DefaultSteamIDs []string
	CacheTTL        time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DotaAPIKey:      getEnv("DOTA_API_KEY", ""),
		OpenDotaBaseURL: strings.TrimRight(getEnv("OPENDOTA_BASE_URL", "https://api.opendota.com/api"), "/"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DefaultSteamIDs: defaultSteamIDs,
		CacheTTL:        constants.MatchCacheTTL,
	}

	if raw := os.Getenv("DEFAULT_STEAM_IDS"); raw != "" {
		ids := steamid.NormalizeIdentifierList(raw)
		if len(ids) == 0 {
			return nil, fmt.Errorf("DEFAULT_STEAM_IDS contains no valid steam64 id")
		}
		cfg.DefaultSteamIDs = ids
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", ttl)
		}
		cfg.CacheTTL = ttl
	}

	if cfg.DotaAPIKey == "" {
		logger.Warn().Msg("DOTA_API_KEY not set, requests are unauthenticated and subject to stricter rate limits")
	}

	logger.Info().
		Str("opendota_base_url", cfg.OpenDotaBaseURL).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("default_ids", len(cfg.DefaultSteamIDs)).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) DefaultIDsText() string {
	return strings.Join(c.DefaultSteamIDs, "\n")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
