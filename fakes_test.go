package deck2pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"
)

// timeline records page and sleeper events in call order.
type timeline struct {
	mu     sync.Mutex
	events []string
}

func (tl *timeline) add(format string, args ...any) {
	if tl == nil {
		return
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.events = append(tl.events, fmt.Sprintf(format, args...))
}

func (tl *timeline) all() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]string(nil), tl.events...)
}

// count returns the number of events equal to event.
func (tl *timeline) count(event string) int {
	n := 0
	for _, e := range tl.all() {
		if e == event {
			n++
		}
	}
	return n
}

// fakeSleeper records durations instead of sleeping.
type fakeSleeper struct {
	tl *timeline
}

func (s fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.tl.add("sleep %s", d)
	return ctx.Err()
}

// fakePage simulates a presentation: ArrowRight/ArrowLeft move between
// slides and reset the sub-state, ArrowDown/ArrowUp move the sub-state.
type fakePage struct {
	tl *timeline

	mu          sync.Mutex
	slide       int
	sub         int
	noIndicator bool
	oneBased    bool
	viewports   []Viewport
	hideCalls   int
	shots       int

	waitErr    error // returned by WaitTrue
	visibleErr error // returned by WaitVisible
	failShotAt int   // 1-based screenshot that fails, 0 for none
	width      int
	height     int
}

func newFakePage(tl *timeline) *fakePage {
	return &fakePage{tl: tl, width: 64, height: 36}
}

func (p *fakePage) SetViewport(_ context.Context, vp Viewport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.viewports = append(p.viewports, vp)
	p.tl.add("viewport %dx%d", vp.Width, vp.Height)
	return nil
}

func (p *fakePage) Press(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch key {
	case KeyNext:
		p.slide++
		p.sub = 0
	case KeyPrev:
		p.slide--
		p.sub = 0
	case KeyDown:
		p.sub++
	case KeyUp:
		p.sub--
	}
	p.tl.add("key %s", key)
	return nil
}

func (p *fakePage) EvalInt(_ context.Context, fn string, _ ...any) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch fn {
	case positionScript:
		if p.noIndicator {
			return -1, nil
		}
		if p.oneBased {
			return p.slide + 1, nil
		}
		return p.slide, nil
	case hideUIScript:
		p.hideCalls++
		p.tl.add("hide")
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: unexpected script", ErrPageEval)
	}
}

func (p *fakePage) WaitTrue(ctx context.Context, _ string, timeout time.Duration, args ...any) error {
	p.tl.add("poll %v %s", args, timeout)
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.waitErr
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	p.tl.add("visible %s %s", selector, timeout)
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.visibleErr
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shots++
	p.tl.add("shot %d.%d", p.slide, p.sub)
	if p.failShotAt > 0 && p.shots == p.failShotAt {
		return nil, fmt.Errorf("%w: target crashed", ErrScreenshot)
	}
	return pngBytes(p.width, p.height), nil
}

// fakeSession hands out one page and counts lifecycle calls.
type fakeSession struct {
	page    *fakePage
	openErr error

	mu     sync.Mutex
	opened []string
	closes int
}

func (s *fakeSession) Open(_ context.Context, url string) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = append(s.opened, url)
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.page, nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

// countingLauncher returns a Launcher yielding session and counting calls.
func countingLauncher(session Session, err error, calls *int) Launcher {
	return func(context.Context, BrowserConfig) (Session, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

// staticProber answers every probe with ok.
type staticProber struct {
	ok    bool
	calls int
}

func (p *staticProber) Available(context.Context, string) bool {
	p.calls++
	return p.ok
}

// pngBytes encodes a solid w x h image.
func pngBytes(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := color.RGBA{R: 0x20, G: 0x40, B: 0x80, A: 0xff}
	for y := range h {
		for x := range w {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
