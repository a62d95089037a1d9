// Package queue holds background workers for best-effort operations the UI
// does not wait on.
package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultInterval    = 30 * time.Second
	defaultMaxAttempts = 10
	signalBuffer       = 4
)

// FinishRetry re-issues a failed finish-shift call in the background until
// the backend accepts it or the attempt budget runs out. The UI already
// moved on to the shift-ended screen; this worker only settles the
// PendingFinish flag the session exposes.
type FinishRetry struct {
	attempt     func(ctx context.Context) error
	interval    time.Duration
	maxAttempts int
	signals     chan struct{}
	log         zerolog.Logger
}

// NewFinishRetry creates the worker. attempt must perform one finish call
// and return an error only when another round is worth scheduling; it is
// also responsible for resolving the session state once the close settles,
// whether the backend accepted it or refused it for good.
func NewFinishRetry(attempt func(ctx context.Context) error, interval time.Duration, log zerolog.Logger) *FinishRetry {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &FinishRetry{
		attempt:     attempt,
		interval:    interval,
		maxAttempts: defaultMaxAttempts,
		signals:     make(chan struct{}, signalBuffer),
		log:         log,
	}
}

// Start launches the worker goroutine. It stops when ctx is cancelled.
func (q *FinishRetry) Start(ctx context.Context) {
	go q.run(ctx)
}

// Enqueue schedules a retry round. Non-blocking; a full signal buffer means
// a round is already pending, which is equivalent.
func (q *FinishRetry) Enqueue() {
	select {
	case q.signals <- struct{}{}:
	default:
	}
}

func (q *FinishRetry) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.signals:
			q.retryLoop(ctx)
		}
	}
}

func (q *FinishRetry) retryLoop(ctx context.Context) {
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for attempts := 1; attempts <= q.maxAttempts; attempts++ {
		err := q.attempt(ctx)
		if err == nil {
			q.log.Info().Int("attempts", attempts).Msg("pending shift close settled")
			return
		}
		q.log.Warn().Err(err).Int("attempt", attempts).Msg("finish shift retry failed")

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	q.log.Error().Int("attempts", q.maxAttempts).Msg("giving up on pending shift close")
}
