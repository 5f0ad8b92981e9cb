package deck2pdf

import (
	"context"
	"errors"
	"time"
)

// Sleeper pauses between navigation steps.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// timerSleeper sleeps on a real timer and wakes early when ctx is done.
type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Settle tuning.
const (
	settlePollTimeout = 3 * time.Second
	settleOpacity     = 0.9
)

// settler implements the animation-settle wait: an unconditional sleep,
// then a bounded poll for the content element to become opaque.
type settler struct {
	page    Page
	sleeper Sleeper
	content string
}

// Settle sleeps d, then waits up to 3s for the content opacity to exceed
// 0.9. An expired poll is not an error.
func (s *settler) Settle(ctx context.Context, d time.Duration) error {
	if err := s.sleeper.Sleep(ctx, d); err != nil {
		return err
	}
	pred := OpacityAbove(s.content, settleOpacity)
	return swallowTimeout(pred.Wait(ctx, s.page, settlePollTimeout))
}

// swallowTimeout drops ErrWaitTimeout so a slow page never blocks the run.
func swallowTimeout(err error) error {
	if errors.Is(err, ErrWaitTimeout) {
		return nil
	}
	return err
}
