package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PassFunc runs one full monitoring pass over the product list.
type PassFunc func(ctx context.Context) error

// Options tune scheduler behaviour.
type Options struct {
	// Every is the gap between the start of one pass and the next.
	Every time.Duration
}

// Scheduler repeats monitoring passes on a fixed interval until the
// context is cancelled. The first pass runs immediately.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Every <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Run blocks, invoking the pass function now and then once per interval
// until ctx is cancelled. A failed pass is logged and the loop continues;
// a pass never cancels its successors.
func (s *Scheduler) Run(ctx context.Context, pass PassFunc) error {
	for {
		started := time.Now()
		s.logger.Info().Time("started", started).Msg("executing monitoring pass")

		if err := pass(ctx); err != nil {
			s.logger.Error().Err(err).Msg("monitoring pass failed")
		}

		next := started.Add(s.opts.Every)
		delay := time.Until(next)
		if delay < 0 {
			delay = 0
		}

		timer := time.NewTimer(delay)
		s.logger.Debug().Time("next_pass", next).Msg("waiting for next pass")

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
