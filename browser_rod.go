package deck2pdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-deck2pdf/internal/process"
)

// Compile-time interface checks.
var (
	_ Session  = (*rodSession)(nil)
	_ Page     = (*rodPage)(nil)
	_ Launcher = LaunchBrowser
)

// rodKeys maps navigation keys to rod key codes.
var rodKeys = map[Key]input.Key{
	KeyNext: input.ArrowRight,
	KeyPrev: input.ArrowLeft,
	KeyDown: input.ArrowDown,
	KeyUp:   input.ArrowUp,
}

// rodSession drives a Chrome process launched through go-rod.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser

	closeOnce sync.Once
	closeErr  error
}

// launchRod starts Chrome and connects to it within launchTimeout.
func launchRod(ctx context.Context, bin string, noSandbox bool) (*rodSession, error) {
	launchCtx, cancel := context.WithTimeout(ctx, launchTimeout)
	defer cancel()

	l := launcher.New().
		Context(launchCtx).
		Bin(bin).
		Headless(true).
		NoSandbox(noSandbox)

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		_ = process.KillGroup(l.PID())
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &rodSession{launcher: l, browser: browser}, nil
}

// Open creates the export tab and performs the only URL navigation of the run.
func (s *rodSession) Open(ctx context.Context, url string) (Page, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	p := &rodPage{page: page}

	bound, opCtx, cancel := p.bound(ctx, operationTimeout)
	defer cancel()
	if err := bound.Navigate(url); err != nil {
		return nil, opError(ctx, opCtx, ErrPageLoad, err)
	}
	if err := bound.WaitLoad(); err != nil {
		return nil, opError(ctx, opCtx, ErrPageLoad, err)
	}
	return p, nil
}

// Close closes the browser, then kills the launcher and its process group.
// Safe to call more than once.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.browser.Close()
		s.launcher.Kill()
		_ = process.KillGroup(s.launcher.PID())
		s.launcher.Cleanup()
	})
	return s.closeErr
}

// rodPage implements Page on a rod tab.
type rodPage struct {
	page *rod.Page
}

// bound returns the tab bound to ctx with a local timeout.
func (p *rodPage) bound(ctx context.Context, timeout time.Duration) (*rod.Page, context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	return p.page.Context(opCtx), opCtx, cancel
}

func (p *rodPage) SetViewport(ctx context.Context, vp Viewport) error {
	page, opCtx, cancel := p.bound(ctx, operationTimeout)
	defer cancel()
	err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
	})
	return opError(ctx, opCtx, ErrPageEval, err)
}

func (p *rodPage) Press(ctx context.Context, key Key) error {
	k, ok := rodKeys[key]
	if !ok {
		return fmt.Errorf("unsupported key %v", key)
	}
	page, opCtx, cancel := p.bound(ctx, operationTimeout)
	defer cancel()
	return opError(ctx, opCtx, ErrPageEval, dispatchKey(page, k))
}

// dispatchKey sends a key down and up through c. rod's Keyboard keeps the
// tab it was created with, so a bound tab must be the caller here for the
// events to carry its context.
func dispatchKey(c proto.Client, k input.Key) error {
	if err := k.Encode(proto.InputDispatchKeyEventTypeKeyDown, 0).Call(c); err != nil {
		return err
	}
	return k.Encode(proto.InputDispatchKeyEventTypeKeyUp, 0).Call(c)
}

func (p *rodPage) EvalInt(ctx context.Context, fn string, args ...any) (int, error) {
	page, opCtx, cancel := p.bound(ctx, operationTimeout)
	defer cancel()
	res, err := page.Eval(fn, args...)
	if err != nil {
		return 0, opError(ctx, opCtx, ErrPageEval, err)
	}
	return res.Value.Int(), nil
}

func (p *rodPage) WaitTrue(ctx context.Context, fn string, timeout time.Duration, args ...any) error {
	page, opCtx, cancel := p.bound(ctx, timeout)
	defer cancel()
	return opError(ctx, opCtx, ErrPageEval, page.Wait(rod.Eval(fn, args...)))
}

func (p *rodPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	page, opCtx, cancel := p.bound(ctx, timeout)
	defer cancel()
	el, err := page.Element(selector)
	if err != nil {
		return opError(ctx, opCtx, ErrPageEval, err)
	}
	return opError(ctx, opCtx, ErrPageEval, el.WaitVisible())
}

// Screenshot captures the whole document, beyond the viewport.
func (p *rodPage) Screenshot(ctx context.Context) ([]byte, error) {
	page, opCtx, cancel := p.bound(ctx, operationTimeout)
	defer cancel()
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:                proto.PageCaptureScreenshotFormatPng,
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, opError(ctx, opCtx, ErrScreenshot, err)
	}
	return data, nil
}
