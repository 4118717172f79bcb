package worker

import (
	"context"
	"time"
)

// Worker a long-running job
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker drives onWork in a loop, backing off after errors. An
// idle pass should return an error (conventionally "EOF") to pick the
// longer delay.
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick run the loop until ctx is done.
func (w *TickWorker) StartTick(ctx context.Context, onWork func(ctx context.Context) error) error {
	dur := time.Millisecond
	timer := time.NewTimer(dur)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := onWork(ctx); err != nil {
				dur = w.errDelay()
			} else {
				dur = w.delay()
			}

			timer.Reset(dur)
		}
	}
}

func (w *TickWorker) delay() time.Duration {
	if w.Delay > 0 {
		return w.Delay
	}

	return 300 * time.Millisecond
}

func (w *TickWorker) errDelay() time.Duration {
	if w.ErrDelay > 0 {
		return w.ErrDelay
	}

	return time.Second
}
