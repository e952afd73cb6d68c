package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fastSchedule = []time.Duration{time.Millisecond, 2 * time.Millisecond}

func newTestPoller(url string, retries uint64) *Poller {
	return New(Options{BaseURL: url + "/", Token: "tok", Schedule: fastSchedule, MaxRetries: retries}, zap.NewNop())
}

func TestScheduleSteps(t *testing.T) {
	s := newSchedule(DefaultSchedule)
	got := make([]time.Duration, 0, 6)
	for i := 0; i < 6; i++ {
		got = append(got, s.NextBackOff())
	}
	assert.Equal(t, []time.Duration{
		3 * time.Second, 5 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second, 10 * time.Second,
	}, got)

	s.Reset()
	assert.Equal(t, 3*time.Second, s.NextBackOff())
}

func TestWait_CompletesAfterProgress(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/meditations/abc", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case n < 3:
			_, _ = w.Write([]byte(`{"id":"abc","status":"processing"}`))
		case n == 3:
			_, _ = w.Write([]byte(`{"id":"abc","status":"mixed"}`))
		default:
			_, _ = w.Write([]byte(`{"id":"abc","status":"completed","finalAudioUrl":"https://cdn/final.mp3"}`))
		}
	}))
	defer srv.Close()

	var seen []string
	p := newTestPoller(srv.URL, 0)
	p.opts.OnPoll = func(_ int, snap *StatusSnapshot) { seen = append(seen, snap.Status) }

	snap, err := p.Wait(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "completed", snap.Status)
	require.NotNil(t, snap.FinalAudioURL)
	assert.Equal(t, "https://cdn/final.mp3", *snap.FinalAudioURL)
	assert.Equal(t, []string{"processing", "processing", "mixed", "completed"}, seen)
}

func TestWait_FailedIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc","status":"failed","error":"fulfillment pipeline failed: speech stage: boom"}`))
	}))
	defer srv.Close()

	snap, err := newTestPoller(srv.URL, 0).Wait(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "failed", snap.Status)
	require.NotNil(t, snap.Error)
}

func TestWait_CeilingTimesOut(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"id":"abc","status":"processing"}`))
	}))
	defer srv.Close()

	snap, err := newTestPoller(srv.URL, DefaultMaxRetries).Wait(context.Background(), "abc")

	assert.ErrorIs(t, err, ErrTimedOut)
	assert.Equal(t, "taking longer than expected", err.Error())
	require.NotNil(t, snap)
	assert.Equal(t, "processing", snap.Status)
	assert.EqualValues(t, 21, atomic.LoadInt32(&calls))
}

func TestWait_RateLimitedStopsImmediately(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			_, _ = w.Write([]byte(`{"id":"abc","status":"processing"}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestPoller(srv.URL, 0).Wait(context.Background(), "abc")

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestWait_NotFoundIsRejected(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","message":"Meditation not found"}`))
	}))
	defer srv.Close()

	_, err := newTestPoller(srv.URL, 0).Wait(context.Background(), "abc")

	assert.ErrorIs(t, err, ErrRejected)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestWait_ServerErrorsAreRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":"abc","status":"completed"}`))
	}))
	defer srv.Close()

	snap, err := newTestPoller(srv.URL, 0).Wait(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "completed", snap.Status)
}

func TestWait_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc","status":"processing"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := New(Options{BaseURL: srv.URL, Schedule: []time.Duration{time.Hour}}, zap.NewNop())
	p.opts.OnPoll = func(int, *StatusSnapshot) { cancel() }

	_, err := p.Wait(ctx, "abc")

	assert.ErrorIs(t, err, context.Canceled)
}
