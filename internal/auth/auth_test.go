package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	enabled := Config{Enabled: true, Token: "s3cret"}

	tests := []struct {
		name       string
		cfg        Config
		path       string
		header     string
		wantStatus int
	}{
		{"disabled passes everything", Config{}, "/api/asteroids/get", "", http.StatusOK},
		{"missing header", enabled, "/api/asteroids/get", "", http.StatusUnauthorized},
		{"wrong token", enabled, "/api/asteroids/get", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", enabled, "/api/asteroids/get", "Basic s3cret", http.StatusUnauthorized},
		{"bare token", enabled, "/api/asteroids/get", "s3cret", http.StatusUnauthorized},
		{"empty bearer", enabled, "/api/asteroids/get", "Bearer ", http.StatusUnauthorized},
		{"valid token", enabled, "/api/asteroids/get", "Bearer s3cret", http.StatusOK},
		{"lowercase scheme", enabled, "/api/asteroids/get", "bearer s3cret", http.StatusOK},
		{"healthz exempt", enabled, "/healthz", "", http.StatusOK},
		{"readyz exempt", enabled, "/readyz", "", http.StatusOK},
		{"metrics exempt", enabled, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			Middleware(tt.cfg)(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
