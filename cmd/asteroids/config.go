package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/davidsl88/asteroids/internal/api"
	"github.com/davidsl88/asteroids/internal/auth"
	"github.com/davidsl88/asteroids/internal/neo"
)

var errInvalidConfig = errors.New("invalid configuration")

const defaultFeedTimeout = 30 * time.Second

func loadLogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ASTEROIDS_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadClientConfig reads the feed endpoint and key. Both are required.
func loadClientConfig(logger *slog.Logger) (neo.ClientConfig, error) {
	cfg, err := neo.NewClientConfig(
		os.Getenv("ASTEROIDS_NEO_BASE_URL"),
		os.Getenv("ASTEROIDS_NEO_API_KEY"),
	)
	if err != nil {
		return cfg, err
	}

	logger.Info("NEO client config", "base_url", cfg.BaseURL())
	return cfg, nil
}

func loadFeedTimeout(logger *slog.Logger) time.Duration {
	timeout := defaultFeedTimeout

	if v := os.Getenv("ASTEROIDS_NEO_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid ASTEROIDS_NEO_TIMEOUT value, using default", "value", v, "default", int(defaultFeedTimeout.Seconds()))
		} else {
			timeout = time.Duration(n) * time.Second
		}
	}

	return timeout
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	if v := os.Getenv("ASTEROIDS_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: ASTEROIDS_AUTH_ENABLED must be a boolean value (true/false/1/0)", errInvalidConfig)
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("ASTEROIDS_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, fmt.Errorf("%w: ASTEROIDS_AUTH_TOKEN is required when auth is enabled", errInvalidConfig)
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}

// loadAPIConfig builds the inbound server configuration. A non-empty addr
// flag wins over ASTEROIDS_HTTP_ADDR.
func loadAPIConfig(logger *slog.Logger, addr string, feedTimeout time.Duration) (api.Config, error) {
	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		return api.Config{}, err
	}

	cfg := api.Config{
		Addr:         addr,
		Auth:         authCfg,
		WriteTimeout: feedTimeout + 10*time.Second,
	}

	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("ASTEROIDS_HTTP_ADDR")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	if v := os.Getenv("ASTEROIDS_CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if v := os.Getenv("ASTEROIDS_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid ASTEROIDS_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			cfg.TrustProxy = trust
		}
	}

	logger.Info("API config",
		"addr", cfg.Addr,
		"cors_origins", cfg.CORSOrigins,
		"trust_proxy", cfg.TrustProxy,
		"write_timeout_seconds", cfg.WriteTimeout.Seconds(),
	)

	return cfg, nil
}
