// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shippedBaseDelay captures the backoff base before tests shrink it so
// retry schedules finish instantly.
var shippedBaseDelay time.Duration

func init() {
	shippedBaseDelay = RetryBaseDelay
	RetryBaseDelay = 1 * time.Millisecond
}

func TestRetryBaseDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, shippedBaseDelay)
}

// rateLimitedAPI serves 429 for the first rejections requests, then the
// given status, the way the registry and hosting APIs throttle
// unauthenticated clients.
func rateLimitedAPI(t *testing.T, rejections int, then int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if n := atomic.AddInt32(&calls, 1); int(n) <= rejections {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(then)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		rejections int
		then       int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{
			name:       "api answers immediately",
			rejections: 0,
			then:       http.StatusOK,
			maxRetries: 5,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "rate limit clears after two rejections",
			rejections: 2,
			then:       http.StatusOK,
			maxRetries: 5,
			wantStatus: http.StatusOK,
			wantCalls:  3,
		},
		{
			name:       "rate limit outlasts the budget",
			rejections: 1000,
			maxRetries: 3,
			wantStatus: http.StatusTooManyRequests,
			wantCalls:  4, // 1 initial + 3 retries
		},
		{
			name:       "zero budget selects the default of five retries",
			rejections: 1000,
			maxRetries: 0,
			wantStatus: http.StatusTooManyRequests,
			wantCalls:  6,
		},
		{
			name:       "server errors pass through without retrying",
			rejections: 0,
			then:       http.StatusBadGateway,
			maxRetries: 5,
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
		{
			name:       "missing project passes through without retrying",
			rejections: 0,
			then:       http.StatusNotFound,
			maxRetries: 5,
			wantStatus: http.StatusNotFound,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := rateLimitedAPI(t, tt.rejections, tt.then)

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDoWithRetryBackoffDoubles(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = 10 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ts, _ := rateLimitedAPI(t, 1000, 0)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	start := time.Now()
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 3)
	require.NoError(t, err)
	resp.Body.Close()

	// Three waits at base, 2x, and 4x the base delay.
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestDoWithRetryCancelledDuringBackoff(t *testing.T) {
	ts, _ := rateLimitedAPI(t, 1000, 0)

	// A long base delay so the context deadline lands inside the wait.
	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
