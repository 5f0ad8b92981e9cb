package deck2pdf

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// positionScript reads the numeric progress attribute, -1 when the element
// or a numeric value is missing.
const positionScript = `(sel, attr) => {
	const el = document.querySelector(sel);
	if (!el) return -1;
	const v = parseInt(el.getAttribute(attr), 10);
	return Number.isNaN(v) ? -1 : v;
}`

// navigator moves the presentation with synthetic key events. The current
// slide is read from the page on every move; the navigator only remembers
// its last target for pages whose indicator is missing.
//
// Stalls are not detected: every key event is followed by its settle wait
// whether or not the indicator changed.
type navigator struct {
	cfg    *Config
	page   Page
	settle *settler
	logger logrus.FieldLogger
	last   int
}

// Position returns the zero-based slide index shown by the page.
func (n *navigator) Position(ctx context.Context) (int, error) {
	v, err := n.page.EvalInt(ctx, positionScript, n.cfg.Selectors.Progress, n.cfg.Selectors.ProgressAttr)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		n.logger.WithField("selector", n.cfg.Selectors.Progress).
			Debug("progress indicator unreadable, using last known slide")
		return n.last, nil
	}
	if n.cfg.Selectors.ProgressOneBased {
		v--
	}
	return v, nil
}

// GoTo moves from the page's current slide to target, one ArrowRight or
// ArrowLeft per slide, each followed by the inter-slide wait.
func (n *navigator) GoTo(ctx context.Context, target int) error {
	current, err := n.Position(ctx)
	if err != nil {
		return err
	}

	steps, key := target-current, KeyNext
	if steps < 0 {
		steps, key = -steps, KeyPrev
	}
	for range steps {
		if err := n.press(ctx, key, millis(n.cfg.Waits.Slide)); err != nil {
			return err
		}
	}
	n.last = target
	return nil
}

// NextSub advances one sub-state with ArrowDown and the inter-sub-slide wait.
func (n *navigator) NextSub(ctx context.Context) error {
	return n.press(ctx, KeyDown, millis(n.cfg.Waits.SubSlide))
}

// ResetSub returns the slide to its first sub-state after taken NextSub
// calls. Sub-slides rewind with one ArrowUp per step taken. Steps emit a
// single ArrowDown and rely on the presentation cycling from the last step
// back to step 1; that behavior is specific to the decks this tool targets.
// A step slide with max 1 never leaves step 1, so nothing is taken and no
// wrap-forward key is sent.
func (n *navigator) ResetSub(ctx context.Context, spec SubSlideSpec, taken int) error {
	if taken <= 0 {
		return nil
	}
	wait := millis(n.cfg.Waits.SubSlide)
	if spec.Type == VariantStep {
		return n.press(ctx, KeyDown, wait)
	}
	for range taken {
		if err := n.press(ctx, KeyUp, wait); err != nil {
			return err
		}
	}
	return nil
}

func (n *navigator) press(ctx context.Context, key Key, wait time.Duration) error {
	if err := n.page.Press(ctx, key); err != nil {
		return err
	}
	return n.settle.Settle(ctx, wait)
}
