package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/testutil"
)

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRequestLogging_LevelsByStatus(t *testing.T) {
	tests := []struct {
		code  int
		level string
		msg   string
	}{
		{http.StatusOK, "info", "request served"},
		{http.StatusNotFound, "warn", "request rejected"},
		{http.StatusInternalServerError, "error", "request failed"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			logger := testutil.NewMockLogger()
			h := RequestLogging(logger, DefaultLoggingConfig())(statusHandler(tt.code))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/subsets/train?pad=true", nil))

			assert.Equal(t, tt.code, w.Code)
			require.Equal(t, 1, logger.Count(tt.level, tt.msg))

			fields := map[string]interface{}{}
			for _, f := range logger.Messages()[0].Fields {
				fields[f.Key] = f.Value
			}
			assert.Equal(t, "/api/v1/subsets/train?pad=true", fields["path"])
			assert.Equal(t, tt.code, fields["status"])
			assert.Equal(t, int64(2), fields["bytes"])
		})
	}
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	logger := testutil.NewMockLogger()
	h := RequestLogging(logger, DefaultLoggingConfig())(statusHandler(http.StatusOK))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, logger.Messages())
}

func TestRequestLogging_SlowRequest(t *testing.T) {
	logger := testutil.NewMockLogger()
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	})
	h := RequestLogging(logger, LoggingConfig{SlowThreshold: time.Millisecond})(slow)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.True(t, logger.HasMessage("warn", "slow request"))
}

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (r *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{method, route, status})
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(obs))
	r.Get("/subsets/{split}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/subsets/train", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, obs.obs, 2)
	assert.Equal(t, observation{"GET", "/subsets/{split}", http.StatusTeapot}, obs.obs[0])
	assert.Equal(t, "unmatched", obs.obs[1].route)
	assert.Equal(t, http.StatusNotFound, obs.obs[1].status)
}

//Personal.AI order the ending
