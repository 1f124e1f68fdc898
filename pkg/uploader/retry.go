// Package uploader drives deliveries: a bounded retry scheduler around each
// destination and the on-demand worker that drains the task queue.
package uploader

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/snapcourier/snapcourier/pkg/model"
)

// Destination is one configured upload target. Send performs a single
// delivery pass and returns nil on success, including configured skips.
// Failures wrapping model.ErrRejected are permanent and never retried.
type Destination interface {
	Name() string
	Send(ctx context.Context, task model.UploadTask) error
}

// Retrier wraps destination sends with a bounded retry loop and exponential
// backoff. The attempt budget depends on the task's file kind.
type Retrier struct {
	log   zerolog.Logger
	sleep func(time.Duration)
}

// NewRetrier returns a retry scheduler logging through log.
func NewRetrier(log zerolog.Logger) *Retrier {
	return &Retrier{log: log, sleep: time.Sleep}
}

// backoffDelay returns the pause before retry index i: 1s, 2s, 4s, ...
func backoffDelay(i int) time.Duration {
	return time.Duration(1<<i) * time.Second
}

// Do sends the task to dest, retrying transport failures up to the kind's
// attempt budget with exponential backoff between attempts. It stops early
// on success or on a permanent (non-retryable) failure and returns the last
// error when the budget is exhausted.
func (r *Retrier) Do(ctx context.Context, dest Destination, task model.UploadTask) error {
	budget := task.Kind().MaxAttempts()

	var err error
	for attempt := 0; attempt < budget; attempt++ {
		if attempt > 0 {
			r.log.Info().
				Str("destination", dest.Name()).
				Int("retry", attempt).
				Int("budget", budget).
				Msg("retrying upload")
			r.sleep(backoffDelay(attempt - 1))
		}

		err = dest.Send(ctx, task)
		if err == nil {
			return nil
		}
		if errors.Is(err, model.ErrRejected) {
			return err
		}
	}
	return err
}
