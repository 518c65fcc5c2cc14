package neo

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ClientConfig holds the feed endpoint and API key. The zero value is not
// usable; build one with NewClientConfig.
type ClientConfig struct {
	baseURL string
	apiKey  string
}

// NewClientConfig validates and returns a ClientConfig. Both values are
// required and the base URL must be an absolute http(s) URL.
func NewClientConfig(baseURL, apiKey string) (ClientConfig, error) {
	baseURL = strings.TrimSpace(baseURL)
	apiKey = strings.TrimSpace(apiKey)

	if baseURL == "" {
		return ClientConfig{}, fmt.Errorf("%w: base URL is not defined", ErrConfig)
	}
	if apiKey == "" {
		return ClientConfig{}, fmt.Errorf("%w: API key is not defined", ErrConfig)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("%w: invalid base URL: %v", ErrConfig, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ClientConfig{}, fmt.Errorf("%w: base URL must be an absolute http(s) URL, got %q", ErrConfig, baseURL)
	}

	return ClientConfig{baseURL: baseURL, apiKey: apiKey}, nil
}

// BaseURL returns the feed endpoint.
func (c ClientConfig) BaseURL() string {
	return c.baseURL
}

// APIKey returns the feed API key.
func (c ClientConfig) APIKey() string {
	return c.apiKey
}

// BuildURL returns the feed query URL for the inclusive date window.
// Query parameters already present on the base URL are kept.
func BuildURL(cfg ClientConfig, start, end time.Time) (string, error) {
	u, err := url.Parse(cfg.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	q := u.Query()
	q.Set("start_date", start.Format(DateLayout))
	q.Set("end_date", end.Format(DateLayout))
	q.Set("api_key", cfg.apiKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// redact replaces the api_key query value so URLs can be logged.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
