package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newLimiter(t *testing.T) (*RateLimiter, *manualClock) {
	t.Helper()
	clock := &manualClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(time.Hour)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/subjects/s1/timeline", nil)
	req.RemoteAddr = remote
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	rl, _ := newLimiter(t)
	h := rl.Limit(5)(okHandler(nil))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "1.2.3.4:1234").Code, "request %d", i)
	}

	rec := hit(h, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "13", rec.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "rate limit exceeded", body["error"])
}

func TestRateLimiter_KeysByIPNotPort(t *testing.T) {
	rl, _ := newLimiter(t)
	h := rl.Limit(2)(okHandler(nil))

	hit(h, "1.1.1.1:1000")
	hit(h, "1.1.1.1:2000")
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "1.1.1.1:3000").Code)
	assert.Equal(t, http.StatusOK, hit(h, "2.2.2.2:1000").Code)
}

func TestRateLimiter_Refill(t *testing.T) {
	rl, clock := newLimiter(t)
	h := rl.Limit(60)(okHandler(nil))

	for i := 0; i < 60; i++ {
		hit(h, "3.3.3.3:1")
	}
	require.Equal(t, http.StatusTooManyRequests, hit(h, "3.3.3.3:1").Code)

	clock.Advance(time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "3.3.3.3:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "3.3.3.3:1").Code)

	clock.Advance(time.Hour)
	for i := 0; i < 60; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "3.3.3.3:1").Code, "bucket refills to capacity, not beyond")
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "3.3.3.3:1").Code)
}

func TestRateLimiter_DisabledWhenNonPositive(t *testing.T) {
	rl, _ := newLimiter(t)
	h := rl.Limit(0)(okHandler(nil))

	for i := 0; i < 100; i++ {
		require.Equal(t, http.StatusOK, hit(h, "4.4.4.4:1").Code)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(time.Millisecond)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
