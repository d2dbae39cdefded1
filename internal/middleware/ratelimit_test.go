package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = "10.0.0.1:5000" + string(rune('0'+i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_ErrorEnvelope(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/questions", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)
	assert.Equal(t, "req-1", body.Error.RequestID)
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("k"))
}

func TestRateLimiter_RetriesDoNotExtendWindow(t *testing.T) {
	rl := NewRateLimiter(1, 60*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("k"))
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		if rl.Allow("k") {
			// The window opened by the first hit has run out.
			return
		}
	}
	t.Fatal("key stayed blocked past the end of its window")
}
