package deck2pdf

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Coordinate identifies the slide state a screenshot shows.
// Sub holds the raw state index of Variant; it is unused for VariantNone.
type Coordinate struct {
	Slide   int
	Sub     int
	Variant Variant
}

// Screenshot is one captured PNG and the state it shows.
type Screenshot struct {
	Coordinate
	PNG []byte
}

// capturer takes one screenshot per call. It never writes to disk.
type capturer struct {
	cfg       *Config
	page      Page
	readiness *readiness
	logger    logrus.FieldLogger
}

// Capture re-applies the viewport, waits for content readiness, hides the
// presentation chrome when configured, and captures the full document.
func (c *capturer) Capture(ctx context.Context, at Coordinate) (*Screenshot, error) {
	if err := c.page.SetViewport(ctx, c.cfg.Viewport); err != nil {
		return nil, err
	}
	if err := c.readiness.Wait(ctx, at.Slide); err != nil {
		return nil, err
	}
	if c.cfg.HideUI {
		n, err := hideUI(ctx, c.page, c.cfg.Selectors)
		if err != nil {
			return nil, err
		}
		c.logger.WithField("hidden", n).Debug("hid presentation chrome")
	}
	data, err := c.page.Screenshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Screenshot{Coordinate: at, PNG: data}, nil
}
