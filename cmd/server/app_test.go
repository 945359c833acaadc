package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calref/retouch-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "info",
			ShutdownTimeoutSeconds: 1,
		},
		Queue: config.QueueConfig{
			MaxUploadBytes:   1 << 20,
			ThumbnailMaxEdge: 64,
		},
		LLM: config.LLMConfig{
			GeminiAPIKey: "test-key",
			ModelName:    "gemini-test-model",
		},
	}
}

func TestNewApplication(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := newApplication(testConfig(), logger)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.NotNil(t, app.queueService)
	assert.NotNil(t, app.runner)
	assert.True(t, app.creds.Usable())

	// Cleanup with no active run is a no-op.
	app.cleanup()
}

func TestRouterRoutes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(testConfig(), logger)
	require.NoError(t, err)

	router := app.setupRouter()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/queue", http.StatusOK},
		{http.MethodGet, "/api/instruction", http.StatusOK},
		{http.MethodGet, "/api/runs/current", http.StatusOK},
		{http.MethodGet, "/api/credential", http.StatusOK},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rr.Code, "%s %s", tt.method, tt.path)
	}
}
