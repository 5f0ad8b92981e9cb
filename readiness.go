package deck2pdf

import (
	"context"
	"time"
)

// ReadinessPredicate is a boolean check evaluated in the page. JS is a
// function expression receiving Args as parameters.
type ReadinessPredicate struct {
	Name string
	JS   string
	Args []any
}

// Wait polls the predicate until it holds or timeout expires.
func (p ReadinessPredicate) Wait(ctx context.Context, page Page, timeout time.Duration) error {
	return page.WaitTrue(ctx, p.JS, timeout, p.Args...)
}

// OpacityAbove holds once the element's computed opacity exceeds threshold.
func OpacityAbove(selector string, threshold float64) ReadinessPredicate {
	return ReadinessPredicate{
		Name: "opacity",
		JS: `(sel, min) => {
			const el = document.querySelector(sel);
			return !!el && parseFloat(getComputedStyle(el).opacity) > min;
		}`,
		Args: []any{selector, threshold},
	}
}

// ChildCountAbove holds once the element has more than n child nodes, the
// completion signal of a typed-text effect.
func ChildCountAbove(selector string, n int) ReadinessPredicate {
	return ReadinessPredicate{
		Name: "child-count",
		JS: `(sel, n) => {
			const el = document.querySelector(sel);
			return !!el && el.childNodes.length > n;
		}`,
		Args: []any{selector, n},
	}
}

// Readiness tuning.
const (
	contentVisibleTimeout   = 5 * time.Second
	specialPollTimeout      = 3 * time.Second
	specialMinChildren      = 20
	readinessSettleDuration = 1500 * time.Millisecond
)

// readiness waits for a slide's content to finish rendering. Every bound
// is best effort: expiry lets the capture proceed.
type readiness struct {
	cfg     *Config
	page    Page
	sleeper Sleeper
	settle  *settler
}

// Wait runs: content visible (5s), then for special slides the terminal
// poll and the extra sleep, then a 1.5s settle.
func (r *readiness) Wait(ctx context.Context, slide int) error {
	err := r.page.WaitVisible(ctx, r.cfg.Selectors.Content, contentVisibleTimeout)
	if err := swallowTimeout(err); err != nil {
		return err
	}

	if special, ok := r.cfg.SpecialFor(slide); ok {
		if err := swallowTimeout(r.specialPredicate(special).Wait(ctx, r.page, specialTimeout(special))); err != nil {
			return err
		}
		if err := r.sleeper.Sleep(ctx, millis(special.ExtraWait)); err != nil {
			return err
		}
	}

	return r.settle.Settle(ctx, readinessSettleDuration)
}

func (r *readiness) specialPredicate(s SpecialTiming) ReadinessPredicate {
	sel := s.Terminal
	if sel == "" {
		sel = r.cfg.Selectors.Terminal
	}
	n := s.MinChildren
	if n <= 0 {
		n = specialMinChildren
	}
	return ChildCountAbove(sel, n)
}

func specialTimeout(s SpecialTiming) time.Duration {
	if s.PollTimeout > 0 {
		return millis(s.PollTimeout)
	}
	return specialPollTimeout
}
