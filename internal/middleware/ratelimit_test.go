package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitCeiling(t *testing.T) {
	p := Policy{Window: time.Minute, Max: 5, Message: "Too many requests"}
	h := RateLimit(NewMemoryCounter(), p, "test")(okHandler())

	for i := 1; i <= 5; i++ {
		rec := doRequest(t, h, "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, rec.Code, "request %d within ceiling", i)
	}

	rec := doRequest(t, h, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code, "request N+1 rejected")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body struct {
		Success    bool   `json:"success"`
		Message    string `json:"message"`
		RetryAfter int    `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Too many requests", body.Message)
	assert.Greater(t, body.RetryAfter, 0)
}

func TestRateLimitPerAddress(t *testing.T) {
	p := Policy{Window: time.Minute, Max: 1, Message: "limited"}
	h := RateLimit(NewMemoryCounter(), p, "test")(okHandler())

	require.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.1:1").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(t, h, "10.0.0.1:2").Code)

	// A different address has its own window.
	require.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.2:1").Code)
}

func TestRateLimitSkipSuccessful(t *testing.T) {
	p := Policy{Window: time.Minute, Max: 2, SkipSuccessful: true, Message: "limited"}

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	counter := NewMemoryCounter()
	okChain := RateLimit(counter, p, "auth")(okHandler())
	failChain := RateLimit(counter, p, "auth")(failing)

	// Successful requests are refunded, so far more than Max can pass.
	for i := 0; i < 6; i++ {
		rec := doRequest(t, okChain, "10.0.0.9:1")
		require.Equal(t, http.StatusOK, rec.Code, "successful request %d not counted", i)
	}

	// Failures stay counted.
	require.Equal(t, http.StatusUnauthorized, doRequest(t, failChain, "10.0.0.9:1").Code)
	require.Equal(t, http.StatusUnauthorized, doRequest(t, failChain, "10.0.0.9:1").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(t, failChain, "10.0.0.9:1").Code)
}

func TestMemoryCounterWindowReset(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	count, _, err := c.Incr(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, _, err = c.Incr(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	time.Sleep(30 * time.Millisecond)

	count, _, err = c.Incr(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "window restarted after expiry")
}

func TestMemoryCounterConcurrent(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	const n = 64
	var wg sync.WaitGroup
	counts := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counts[i], _, _ = c.Incr(ctx, "burst", time.Minute)
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, n)
	max := 0
	for _, v := range counts {
		assert.False(t, seen[v], "count %d handed out twice", v)
		seen[v] = true
		if v > max {
			max = v
		}
	}
	assert.Equal(t, n, max, "no increments lost under concurrency")
}
