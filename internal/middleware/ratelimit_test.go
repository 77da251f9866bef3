package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchday/route-roster/internal/middleware"
)

func newLimitedHandler(t *testing.T, rps float64, burst int) http.Handler {
	t.Helper()
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	return middleware.NewRateLimiter(rps, burst, stop).Handler(trivialHandler)
}

// TestRateLimiter_BurstThenLimited verifies that a caller gets its full burst
// and is then rejected with 429 and a Retry-After hint.
func TestRateLimiter_BurstThenLimited(t *testing.T) {
	h := newLimitedHandler(t, 1, 2)
	volID := uuid.NewString()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/slots/open", nil)
		req.Header.Set("X-Volunteer-ID", volID)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d within burst", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/slots/open", nil)
	req.Header.Set("X-Volunteer-ID", volID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

// TestRateLimiter_CallersAreIndependent verifies that exhausting one
// volunteer's bucket leaves other volunteers unaffected.
func TestRateLimiter_CallersAreIndependent(t *testing.T) {
	h := newLimitedHandler(t, 1, 1)

	first := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/slots/open", nil)
	req.Header.Set("X-Volunteer-ID", first)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/slots/open", nil)
	req.Header.Set("X-Volunteer-ID", first)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/slots/open", nil)
	req.Header.Set("X-Volunteer-ID", uuid.NewString())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "a fresh caller has a fresh bucket")
}

// TestRateLimiter_FallsBackToClientIP verifies that anonymous requests are
// keyed by remote address.
func TestRateLimiter_FallsBackToClientIP(t *testing.T) {
	h := newLimitedHandler(t, 1, 1)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:4444"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:5555" // same host, different port
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "the key is the host, not the port")

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.2:4444"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
