package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/pkg/errors"
)

func okChecker(name string) HealthChecker {
	return CheckerFunc{ComponentName: name, Fn: func(context.Context) error { return nil }}
}

func failingChecker(name string) HealthChecker {
	return CheckerFunc{ComponentName: name, Fn: func(context.Context) error { return fmt.Errorf("%s down", name) }}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("v1.2.3", failingChecker("redis"))
	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		checkers []HealthChecker
		code     int
		status   string
	}{
		{"no checkers", nil, http.StatusOK, "ready"},
		{"all healthy", []HealthChecker{okChecker("corpus"), okChecker("redis")}, http.StatusOK, "ready"},
		{"one failing", []HealthChecker{okChecker("corpus"), failingChecker("redis")}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("test", tt.checkers...)
			w := httptest.NewRecorder()
			h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.code, w.Code)
			var resp ReadinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
			assert.Len(t, resp.Components, len(tt.checkers))
		})
	}
}

func TestHealthHandler_ReadinessReportsError(t *testing.T) {
	h := NewHealthHandler("test", failingChecker("minio"))
	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ComponentCheck{Status: "unhealthy", Latency: resp.Components["minio"].Latency, Error: "minio down"},
		resp.Components["minio"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────────────────────────────────────

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body ErrorResponse
	}{
		{
			name: "client error keeps detail",
			err:  errors.New(errors.ErrCodeUnknownSplit, "unknown subset name").WithDetail("split=holdout"),
			code: http.StatusBadRequest,
			body: ErrorResponse{Code: "DS_004", Message: "unknown subset name", Detail: "split=holdout"},
		},
		{
			name: "server error hides detail",
			err:  errors.New(errors.ErrCodeSplitSizeMismatch, "split sizes do not match").WithDetail("sum=12 len=10"),
			code: http.StatusInternalServerError,
			body: ErrorResponse{Code: "DS_006", Message: "split sizes do not match"},
		},
		{
			name: "wrapped coded error",
			err:  fmt.Errorf("loading: %w", errors.New(errors.ErrCodeCacheIO, "redis unreachable")),
			code: http.StatusServiceUnavailable,
			body: ErrorResponse{Code: "CACHE_003", Message: "redis unreachable"},
		},
		{
			name: "plain error is masked",
			err:  fmt.Errorf("boom"),
			code: http.StatusInternalServerError,
			body: ErrorResponse{Code: string(errors.ErrCodeInternal), Message: "internal server error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeAppError(w, tt.err)
			assert.Equal(t, tt.code, w.Code)
			var got ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.body, got)
		})
	}
}

func TestIntParam(t *testing.T) {
	v, err := intParam("n", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	for _, raw := range []string{"", "-1", "x"} {
		_, err := intParam("n", raw)
		assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest), raw)
	}
}

//Personal.AI order the ending
