package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/credit-engine/internal/handler"
)

func readyStatus(t *testing.T, w *httptest.ResponseRecorder) handler.HealthStatus {
	t.Helper()
	var body struct {
		Data handler.HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestHealthHandler_Health(t *testing.T) {
	h := handler.NewHealthHandler(nil, 0)
	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", readyStatus(t, w).Status)
}

func TestHealthHandler_Ready(t *testing.T) {
	ok := handler.PingFunc(func(ctx context.Context) error { return nil })
	down := handler.PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })
	slow := handler.PingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	tests := []struct {
		name           string
		checks         map[string]handler.Pinger
		expectedStatus int
		expectedChecks map[string]string
	}{
		{
			name:           "all dependencies up",
			checks:         map[string]handler.Pinger{"database": ok, "redis": ok},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name:           "redis down",
			checks:         map[string]handler.Pinger{"database": ok, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]string{"database": "ok", "redis": "failed: connection refused"},
		},
		{
			name:           "database times out",
			checks:         map[string]handler.Pinger{"database": slow},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]string{"database": "failed: context deadline exceeded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.checks, 20*time.Millisecond)
			w := httptest.NewRecorder()
			h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedChecks, readyStatus(t, w).Checks)
		})
	}
}
