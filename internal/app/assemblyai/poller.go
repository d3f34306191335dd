package assemblyai

import (
	"context"
	"errors"
	"time"
)

// Outcome is the final state of a polling task.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeError     Outcome = "error"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeTimedOut  Outcome = "timed_out"
)

// DefaultPollInterval matches the UI's historical 3-second cadence.
const DefaultPollInterval = 3 * time.Second

// DefaultMaxAttempts bounds a poll loop at 30 minutes on the default
// interval. A stuck external job no longer polls forever.
const DefaultMaxAttempts = 600

// Result is what a finished poll loop produced. Transcript holds the last
// observed job state, which for OutcomeTimedOut may still be non-terminal.
type Result struct {
	Outcome    Outcome
	Transcript Transcript
}

// Poller drives a transcription job to a terminal state by polling the
// provider on a fixed interval, bounded by a maximum attempt count and the
// caller's context deadline.
type Poller struct {
	Client      *Client
	Interval    time.Duration
	MaxAttempts int
}

// NewPoller returns a poller with the default interval and attempt bound.
func NewPoller(client *Client) *Poller {
	return &Poller{
		Client:      client,
		Interval:    DefaultPollInterval,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Wait polls the job until it completes, fails, the context is cancelled
// or the attempt budget is exhausted. onUpdate, when non-nil, is invoked
// after every successful poll with the observed state.
func (p *Poller) Wait(ctx context.Context, id string, onUpdate func(Transcript)) (Result, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var last Transcript
	for attempt := 0; attempt < maxAttempts; attempt++ {
		t, err := p.Client.GetTranscript(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Result{Outcome: OutcomeCancelled, Transcript: last}, nil
			}
			return Result{}, err
		}
		last = t
		if onUpdate != nil {
			onUpdate(t)
		}

		switch t.Status {
		case StatusCompleted:
			return Result{Outcome: OutcomeCompleted, Transcript: t}, nil
		case StatusError:
			return Result{Outcome: OutcomeError, Transcript: t}, nil
		}

		select {
		case <-ctx.Done():
			return Result{Outcome: OutcomeCancelled, Transcript: last}, nil
		case <-time.After(interval):
		}
	}

	return Result{Outcome: OutcomeTimedOut, Transcript: last}, nil
}
