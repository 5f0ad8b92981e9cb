package deck2pdf

import (
	"context"
	"time"
)

// Key is a synthetic key event sent to the presentation.
type Key int

// Navigation keys.
const (
	KeyNext Key = iota // ArrowRight
	KeyPrev            // ArrowLeft
	KeyDown            // ArrowDown
	KeyUp              // ArrowUp
)

func (k Key) String() string {
	switch k {
	case KeyNext:
		return "ArrowRight"
	case KeyPrev:
		return "ArrowLeft"
	case KeyDown:
		return "ArrowDown"
	case KeyUp:
		return "ArrowUp"
	default:
		return "Unknown"
	}
}

// Page is the single browser tab an export drives.
// JavaScript arguments are passed as function parameters: fn is a function
// expression such as "(sel) => document.querySelector(sel) !== null".
//
// WaitTrue and WaitVisible return ErrWaitTimeout when their own bound
// expires; every method returns ctx.Err() once ctx is done.
type Page interface {
	SetViewport(ctx context.Context, vp Viewport) error
	Press(ctx context.Context, key Key) error
	EvalInt(ctx context.Context, fn string, args ...any) (int, error)
	WaitTrue(ctx context.Context, fn string, timeout time.Duration, args ...any) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Screenshot(ctx context.Context) ([]byte, error)
}

// Session owns one headless browser process. Close is idempotent and kills
// the launched process group.
type Session interface {
	Open(ctx context.Context, url string) (Page, error)
	Close() error
}

// Launcher starts a browser session.
type Launcher func(ctx context.Context, cfg BrowserConfig) (Session, error)

// Browser timeouts.
const (
	launchTimeout    = 60 * time.Second
	operationTimeout = 60 * time.Second
)
