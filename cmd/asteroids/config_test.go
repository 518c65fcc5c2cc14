package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidsl88/asteroids/internal/neo"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// clearEnv blanks every variable the loaders read so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ASTEROIDS_LOG_LEVEL",
		"ASTEROIDS_NEO_BASE_URL",
		"ASTEROIDS_NEO_API_KEY",
		"ASTEROIDS_NEO_TIMEOUT",
		"ASTEROIDS_AUTH_ENABLED",
		"ASTEROIDS_AUTH_TOKEN",
		"ASTEROIDS_HTTP_ADDR",
		"ASTEROIDS_CORS_ORIGINS",
		"ASTEROIDS_TRUST_PROXY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadClientConfig(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		wantErr bool
	}{
		{"both set", "https://api.nasa.gov/neo/rest/v1/feed", "DEMO_KEY", false},
		{"missing base URL", "", "DEMO_KEY", true},
		{"missing API key", "https://api.nasa.gov/neo/rest/v1/feed", "", true},
		{"both missing", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ASTEROIDS_NEO_BASE_URL", tt.baseURL)
			t.Setenv("ASTEROIDS_NEO_API_KEY", tt.apiKey)

			cfg, err := loadClientConfig(testLogger())
			if tt.wantErr {
				require.ErrorIs(t, err, neo.ErrConfig)
				assert.Equal(t, exitConfigError, exitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, cfg.BaseURL())
			assert.Equal(t, tt.apiKey, cfg.APIKey())
		})
	}
}

func TestLoadClientConfigDoesNotLogKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASTEROIDS_NEO_BASE_URL", "https://api.nasa.gov/neo/rest/v1/feed")
	t.Setenv("ASTEROIDS_NEO_API_KEY", "SECRET")

	var buf bytes.Buffer
	_, err := loadClientConfig(slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "SECRET")
}

func TestLoadFeedTimeout(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", defaultFeedTimeout},
		{"5", 5 * time.Second},
		{"0", defaultFeedTimeout},
		{"-3", defaultFeedTimeout},
		{"soon", defaultFeedTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ASTEROIDS_NEO_TIMEOUT", tt.value)
			assert.Equal(t, tt.want, loadFeedTimeout(testLogger()))
		})
	}
}

func TestLoadLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for value, want := range tests {
		t.Setenv("ASTEROIDS_LOG_LEVEL", value)
		assert.Equal(t, want, loadLogLevel(), "value %q", value)
	}
}

func TestLoadAuthConfig(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		clearEnv(t)
		cfg, err := loadAuthConfig(testLogger())
		require.NoError(t, err)
		assert.False(t, cfg.Enabled)
	})

	t.Run("enabled with token", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ASTEROIDS_AUTH_ENABLED", "true")
		t.Setenv("ASTEROIDS_AUTH_TOKEN", "s3cret")
		cfg, err := loadAuthConfig(testLogger())
		require.NoError(t, err)
		assert.True(t, cfg.Enabled)
		assert.Equal(t, "s3cret", cfg.Token)
	})

	t.Run("enabled without token", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ASTEROIDS_AUTH_ENABLED", "1")
		_, err := loadAuthConfig(testLogger())
		require.ErrorIs(t, err, errInvalidConfig)
		assert.Equal(t, exitConfigError, exitCode(err))
	})

	t.Run("not a boolean", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ASTEROIDS_AUTH_ENABLED", "maybe")
		_, err := loadAuthConfig(testLogger())
		require.ErrorIs(t, err, errInvalidConfig)
	})
}

func TestLoadAPIConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := loadAPIConfig(testLogger(), "", 30*time.Second)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Empty(t, cfg.CORSOrigins)
		assert.False(t, cfg.TrustProxy)
		assert.Equal(t, 40*time.Second, cfg.WriteTimeout)
	})

	t.Run("environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ASTEROIDS_HTTP_ADDR", ":9090")
		t.Setenv("ASTEROIDS_CORS_ORIGINS", " https://a.example , ,https://b.example")
		t.Setenv("ASTEROIDS_TRUST_PROXY", "true")
		cfg, err := loadAPIConfig(testLogger(), "", 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
		assert.True(t, cfg.TrustProxy)
		assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	})

	t.Run("flag wins over environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ASTEROIDS_HTTP_ADDR", ":9090")
		cfg, err := loadAPIConfig(testLogger(), "127.0.0.1:7000", 30*time.Second)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
	})

	t.Run("invalid trust proxy falls back", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ASTEROIDS_TRUST_PROXY", "sometimes")
		cfg, err := loadAPIConfig(testLogger(), "", 30*time.Second)
		require.NoError(t, err)
		assert.False(t, cfg.TrustProxy)
	})
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"version"}, &stdout, &stderr)

	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout.String(), "asteroids version dev")
}

func TestRunTopMissingConfig(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"top", "--days", "0"}, &stdout, &stderr)

	assert.Equal(t, exitConfigError, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "base URL is not defined")
}

func TestRunTopNegativeDays(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"top", "--days=-2"}, &stdout, &stderr)

	assert.Equal(t, exitGeneralError, code)
	assert.Contains(t, stderr.String(), "must not be negative")
}

func TestRunTop(t *testing.T) {
	fixture, err := os.ReadFile("../../internal/neo/testdata/feed.json")
	require.NoError(t, err)

	// Serve the fixture under whatever day the command computes as today.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := bytes.ReplaceAll(fixture, []byte(`"2022-11-16"`), []byte(`"`+r.URL.Query().Get("start_date")+`"`))
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer server.Close()

	clearEnv(t)
	t.Setenv("ASTEROIDS_NEO_BASE_URL", server.URL)
	t.Setenv("ASTEROIDS_NEO_API_KEY", "DEMO_KEY")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"top", "-d", "0"}, &stdout, &stderr)

	require.Equal(t, exitSuccess, code, stderr.String())
	assert.Contains(t, stdout.String(), `"name": "495615 (2015 PQ291)"`)
	assert.Contains(t, stdout.String(), `"diameter": 1.2403453329`)
	assert.Contains(t, stdout.String(), `"name": "(2016 WY7)"`)
}

func TestRunTopUnreachableFeed(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	clearEnv(t)
	t.Setenv("ASTEROIDS_NEO_BASE_URL", baseURL)
	t.Setenv("ASTEROIDS_NEO_API_KEY", "DEMO_KEY")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"top"}, &stdout, &stderr)

	assert.Equal(t, exitNetworkError, code)
}
