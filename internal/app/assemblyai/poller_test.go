package assemblyai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sequenceHandler serves one canned status per poll, repeating the last
// status once the sequence is exhausted.
func sequenceHandler(polls *atomic.Int32, statuses ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(polls.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":     "job-1",
			"status": statuses[n],
			"text":   "hello",
		})
	})
}

func newTestPoller(t *testing.T, handler http.Handler) *Poller {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, stubSecrets{key: "test-key"}, zap.NewNop())
	return &Poller{Client: client, Interval: time.Millisecond, MaxAttempts: 10}
}

func TestPoller_WaitsThroughIntermediateStates(t *testing.T) {
	var polls atomic.Int32
	poller := newTestPoller(t, sequenceHandler(&polls, StatusQueued, StatusProcessing, StatusCompleted))

	var seen []string
	result, err := poller.Wait(context.Background(), "job-1", func(tr Transcript) {
		seen = append(seen, tr.Status)
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, result.Outcome)
	assert.Equal(t, "hello", result.Transcript.Text)
	assert.Equal(t, []string{StatusQueued, StatusProcessing, StatusCompleted}, seen)
	assert.Equal(t, int32(3), polls.Load(), "polling must stop at the first terminal state")
}

func TestPoller_ReportsProviderError(t *testing.T) {
	poller := newTestPoller(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id":     "job-1",
			"status": StatusError,
			"error":  "audio could not be decoded",
		})
	}))

	result, err := poller.Wait(context.Background(), "job-1", nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeError, result.Outcome)
	assert.Equal(t, "audio could not be decoded", result.Transcript.Error)
}

func TestPoller_TimesOutAfterAttemptBudget(t *testing.T) {
	var polls atomic.Int32
	poller := newTestPoller(t, sequenceHandler(&polls, StatusProcessing))
	poller.MaxAttempts = 3

	result, err := poller.Wait(context.Background(), "job-1", nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimedOut, result.Outcome)
	assert.Equal(t, StatusProcessing, result.Transcript.Status)
	assert.Equal(t, int32(3), polls.Load())
}

func TestPoller_CancelledBetweenPolls(t *testing.T) {
	poller := newTestPoller(t, sequenceHandler(new(atomic.Int32), StatusProcessing))
	poller.Interval = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	done := make(chan Result, 1)
	go func() {
		result, err := poller.Wait(ctx, "job-1", nil)
		require.NoError(t, err)
		done <- result
	}()

	select {
	case result := <-done:
		assert.Equal(t, OutcomeCancelled, result.Outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not react to cancellation")
	}
}

func TestPoller_SurfacesPollErrors(t *testing.T) {
	poller := newTestPoller(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := poller.Wait(context.Background(), "missing", nil)
	assert.Error(t, err, "a missing job is a hard failure, not a retry")
}
