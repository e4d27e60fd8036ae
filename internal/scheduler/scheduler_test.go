package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSchedulerRunsImmediatelyAndRepeats(t *testing.T) {
	s := New(Options{Every: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	err := s.Run(ctx, func(ctx context.Context) error {
		runs++
		if runs == 3 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if runs != 3 {
		t.Fatalf("expected 3 passes, got %d", runs)
	}
}

func TestSchedulerContinuesAfterFailedPass(t *testing.T) {
	s := New(Options{Every: time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	_ = s.Run(ctx, func(ctx context.Context) error {
		runs++
		if runs >= 2 {
			cancel()
			return nil
		}
		return errors.New("pass blew up")
	})

	if runs < 2 {
		t.Fatalf("a failed pass must not stop the loop, got %d runs", runs)
	}
}

func TestSchedulerRejectsZeroInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("zero interval must panic at construction")
		}
	}()
	New(Options{}, zerolog.Nop())
}
