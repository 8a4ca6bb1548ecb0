package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/segyhp/credit-engine/internal/handler"
	"github.com/segyhp/credit-engine/internal/metrics"
	"github.com/segyhp/credit-engine/internal/mocks"
	"github.com/segyhp/credit-engine/pkg/response"
)

func TestSetupRoutes(t *testing.T) {
	router := setupRoutes(
		handler.NewCreditHandler(new(mocks.MockCreditService), zap.NewNop()),
		handler.NewHealthHandler(nil, 0),
		metrics.New(prometheus.NewRegistry()),
		zap.NewNop(),
	)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(response.RequestIDHeader))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "route /api/v1/loans not found", body.Message)
	})
}
