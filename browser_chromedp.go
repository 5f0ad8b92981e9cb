package deck2pdf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	jsoniter "github.com/json-iterator/go"

	"github.com/alnah/go-deck2pdf/internal/process"
)

// Compile-time interface checks.
var (
	_ Session = (*chromedpSession)(nil)
	_ Page    = (*chromedpPage)(nil)
)

// chromedpKeys maps navigation keys to chromedp key strings.
var chromedpKeys = map[Key]string{
	KeyNext: kb.ArrowRight,
	KeyPrev: kb.ArrowLeft,
	KeyDown: kb.ArrowDown,
	KeyUp:   kb.ArrowUp,
}

var jsArgs = jsoniter.ConfigCompatibleWithStandardLibrary

// chromedpSession drives a Chrome process allocated by chromedp. The first
// tab of the browser is the export page.
type chromedpSession struct {
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// launchChromedp allocates Chrome and starts it within launchTimeout.
// The session outlives ctx; only Close releases it.
func launchChromedp(ctx context.Context, bin string, noSandbox bool) (*chromedpSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.ExecPath(bin))
	if noSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	s := &chromedpSession{allocCancel: allocCancel, tabCtx: tabCtx, tabCancel: tabCancel}

	launchCtx, cancel := context.WithTimeout(ctx, launchTimeout)
	defer cancel()

	started := make(chan error, 1)
	go func() { started <- chromedp.Run(tabCtx) }()

	select {
	case err := <-started:
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		}
		return s, nil
	case <-launchCtx.Done():
		_ = s.Close()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: no response within %s", ErrBrowserConnect, launchTimeout)
	}
}

// Open navigates the first tab to url.
func (s *chromedpSession) Open(ctx context.Context, url string) (Page, error) {
	p := &chromedpPage{tabCtx: s.tabCtx}
	if err := p.run(ctx, operationTimeout, ErrPageLoad, chromedp.Navigate(url)); err != nil {
		return nil, err
	}
	return p, nil
}

// Close shuts the browser down gracefully, then kills the process group.
// Safe to call more than once.
func (s *chromedpSession) Close() error {
	s.closeOnce.Do(func() {
		pid := 0
		if c := chromedp.FromContext(s.tabCtx); c != nil && c.Browser != nil {
			if proc := c.Browser.Process(); proc != nil {
				pid = proc.Pid
			}
		}

		closeCtx, cancel := context.WithTimeout(s.tabCtx, 10*time.Second)
		err := chromedp.Cancel(closeCtx)
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = err
		}

		s.tabCancel()
		s.allocCancel()
		_ = process.KillGroup(pid)
	})
	return s.closeErr
}

// chromedpPage implements Page on the session's tab context.
type chromedpPage struct {
	tabCtx context.Context
}

// run executes actions on the tab, bounded by timeout and by ctx.
func (p *chromedpPage) run(ctx context.Context, timeout time.Duration, kind error, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(p.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return opError(ctx, opCtx, kind, chromedp.Run(opCtx, actions...))
}

func (p *chromedpPage) SetViewport(ctx context.Context, vp Viewport) error {
	return p.run(ctx, operationTimeout, ErrPageEval,
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)))
}

func (p *chromedpPage) Press(ctx context.Context, key Key) error {
	k, ok := chromedpKeys[key]
	if !ok {
		return fmt.Errorf("unsupported key %v", key)
	}
	return p.run(ctx, operationTimeout, ErrPageEval, chromedp.KeyEvent(k))
}

func (p *chromedpPage) EvalInt(ctx context.Context, fn string, args ...any) (int, error) {
	expr, err := callExpression(fn, args)
	if err != nil {
		return 0, err
	}
	var n float64
	if err := p.run(ctx, operationTimeout, ErrPageEval, chromedp.Evaluate(expr, &n)); err != nil {
		return 0, err
	}
	return int(math.Round(n)), nil
}

func (p *chromedpPage) WaitTrue(ctx context.Context, fn string, timeout time.Duration, args ...any) error {
	// The outer bound leaves the poll's own timeout room to report first.
	err := p.run(ctx, timeout+time.Second, nil, chromedp.PollFunction(fn, nil,
		chromedp.WithPollingTimeout(timeout),
		chromedp.WithPollingArgs(args...),
	))
	switch {
	case err == nil || errors.Is(err, ErrWaitTimeout) || ctx.Err() != nil:
		return err
	case errors.Is(err, chromedp.ErrPollingTimeout):
		return fmt.Errorf("%w: %v", ErrWaitTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrPageEval, err)
	}
}

func (p *chromedpPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return p.run(ctx, timeout, ErrPageEval, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Screenshot clips the capture to the CSS content size so the whole
// document is included.
func (p *chromedpPage) Screenshot(ctx context.Context) ([]byte, error) {
	var data []byte
	capture := chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, _, _, _, content, err := page.GetLayoutMetrics().Do(ctx)
		if err != nil {
			return err
		}
		data, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			WithClip(&page.Viewport{
				Width:  math.Ceil(content.Width),
				Height: math.Ceil(content.Height),
				Scale:  1,
			}).
			Do(ctx)
		return err
	})
	if err := p.run(ctx, operationTimeout, ErrScreenshot, capture); err != nil {
		return nil, err
	}
	return data, nil
}

// callExpression renders "(fn)(arg1, arg2)" with JSON-encoded arguments.
func callExpression(fn string, args []any) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		b, err := jsArgs.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("%w: encoding argument %d: %v", ErrPageEval, i, err)
		}
		parts[i] = string(b)
	}
	return "(" + strings.TrimSpace(fn) + ")(" + strings.Join(parts, ", ") + ")", nil
}
