package deck2pdf

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// ---------------------------------------------------------------------------
// TestResolveBrowserBin - Platform selection rules
// ---------------------------------------------------------------------------

func TestResolveBrowserBin(t *testing.T) {
	t.Parallel()

	chrome := MacOSBrowserPaths[0]
	chromium := MacOSBrowserPaths[1]
	downloadErr := errors.New("offline")

	tests := []struct {
		name       string
		goos       string
		override   string
		existing   []string
		lookPath   string
		downloaded string
		dlErr      error
		want       string
		wantErr    error
	}{
		{
			name:     "override that exists wins",
			goos:     "linux",
			override: "/opt/chrome/chrome",
			existing: []string{"/opt/chrome/chrome"},
			lookPath: "/usr/bin/chromium",
			want:     "/opt/chrome/chrome",
		},
		{
			name:     "missing override is an error",
			goos:     "linux",
			override: "/opt/chrome/chrome",
			lookPath: "/usr/bin/chromium",
			wantErr:  ErrBrowserNotFound,
		},
		{
			name:     "darwin prefers Google Chrome",
			goos:     "darwin",
			existing: []string{chrome, chromium},
			want:     chrome,
		},
		{
			name:     "darwin falls back to Chromium",
			goos:     "darwin",
			existing: []string{chromium},
			want:     chromium,
		},
		{
			name:       "darwin without install downloads",
			goos:       "darwin",
			lookPath:   "/usr/local/bin/chromium",
			downloaded: "/cache/rod/chromium",
			want:       "/cache/rod/chromium",
		},
		{
			name:     "linux uses library lookup",
			goos:     "linux",
			lookPath: "/usr/bin/chromium",
			want:     "/usr/bin/chromium",
		},
		{
			name:       "linux downloads when lookup fails",
			goos:       "linux",
			downloaded: "/cache/rod/chromium",
			want:       "/cache/rod/chromium",
		},
		{
			name:    "download failure is ErrBrowserNotFound",
			goos:    "linux",
			dlErr:   downloadErr,
			wantErr: ErrBrowserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loc := browserLocator{
				exists: func(p string) bool {
					for _, e := range tt.existing {
						if e == p {
							return true
						}
					}
					return false
				},
				lookPath: func() (string, bool) { return tt.lookPath, tt.lookPath != "" },
				download: func() (string, error) { return tt.downloaded, tt.dlErr },
			}

			got, err := resolveBrowserBin(tt.goos, tt.override, loc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveBrowserBin() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveBrowserBin() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSandboxDisabledByEnv(t *testing.T) {
	tests := []struct {
		name   string
		ci     string
		noSbx  string
		expect bool
	}{
		{"nothing set", "", "", false},
		{"CI true", "true", "", true},
		{"ROD_NO_SANDBOX", "", "1", true},
		{"CI other value", "1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ci)
			t.Setenv("ROD_NO_SANDBOX", tt.noSbx)
			if got := sandboxDisabledByEnv(); got != tt.expect {
				t.Errorf("sandboxDisabledByEnv() = %v, want %v", got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestOpError - Classification of failed page operations
// ---------------------------------------------------------------------------

func TestOpError(t *testing.T) {
	t.Parallel()

	cause := errors.New("cdp: target closed")

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		if err := opError(ctx, ctx, ErrPageEval, nil); err != nil {
			t.Errorf("opError(nil) = %v", err)
		}
	})

	t.Run("caller cancellation wins", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := opError(ctx, ctx, ErrPageEval, cause)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("opError() = %v, want context.Canceled", err)
		}
	})

	t.Run("own deadline is a wait timeout", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		opCtx, cancel := context.WithTimeout(ctx, time.Nanosecond)
		defer cancel()
		<-opCtx.Done()

		err := opError(ctx, opCtx, ErrPageEval, cause)
		if !errors.Is(err, ErrWaitTimeout) {
			t.Errorf("opError() = %v, want ErrWaitTimeout", err)
		}
	})

	t.Run("other errors take the kind", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		err := opError(ctx, ctx, ErrScreenshot, cause)
		if !errors.Is(err, ErrScreenshot) {
			t.Errorf("opError() = %v, want ErrScreenshot", err)
		}
		if !strings.Contains(err.Error(), "target closed") {
			t.Errorf("opError() = %q, want cause in message", err)
		}
	})

	t.Run("no kind returns cause", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		if err := opError(ctx, ctx, nil, cause); !errors.Is(err, cause) {
			t.Errorf("opError() = %v, want cause", err)
		}
	})
}

func TestCallExpression(t *testing.T) {
	t.Parallel()

	got, err := callExpression("  (sel, n) => sel.length > n  ", []any{`main "x"`, 0.9})
	if err != nil {
		t.Fatalf("callExpression() error = %v", err)
	}
	want := `((sel, n) => sel.length > n)("main \"x\"", 0.9)`
	if got != want {
		t.Errorf("callExpression() = %s, want %s", got, want)
	}
}

func TestKey_String(t *testing.T) {
	t.Parallel()

	want := map[Key]string{
		KeyNext: "ArrowRight",
		KeyPrev: "ArrowLeft",
		KeyDown: "ArrowDown",
		KeyUp:   "ArrowUp",
		Key(99): "Unknown",
	}
	for k, s := range want {
		if got := k.String(); got != s {
			t.Errorf("Key(%d).String() = %q, want %q", int(k), got, s)
		}
	}
	for k := range rodKeys {
		if _, ok := chromedpKeys[k]; !ok {
			t.Errorf("key %s mapped for rod but not chromedp", k)
		}
	}
}

// ---------------------------------------------------------------------------
// TestDispatchKey - Key events follow the caller's context
// ---------------------------------------------------------------------------

// recordingClient is a proto.Client that remembers every CDP call.
type recordingClient struct {
	ctx     context.Context
	methods []string
	types   []proto.InputDispatchKeyEventType
	ctxs    []context.Context
	failAt  int // 1-based call that fails, 0 for none
}

func (c *recordingClient) GetContext() context.Context { return c.ctx }

func (c *recordingClient) Call(ctx context.Context, _, method string, params any) ([]byte, error) {
	c.methods = append(c.methods, method)
	c.ctxs = append(c.ctxs, ctx)
	if ev, ok := params.(proto.InputDispatchKeyEvent); ok {
		c.types = append(c.types, ev.Type)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.failAt == len(c.methods) {
		return nil, errors.New("target closed")
	}
	return []byte("{}"), nil
}

func TestDispatchKey(t *testing.T) {
	t.Parallel()

	t.Run("sends down then up on the bound context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()
		c := &recordingClient{ctx: ctx}

		if err := dispatchKey(c, input.ArrowRight); err != nil {
			t.Fatalf("dispatchKey() error = %v", err)
		}
		wantTypes := []proto.InputDispatchKeyEventType{
			proto.InputDispatchKeyEventTypeRawKeyDown,
			proto.InputDispatchKeyEventTypeKeyUp,
		}
		if len(c.types) != 2 || c.types[0] != wantTypes[0] || c.types[1] != wantTypes[1] {
			t.Errorf("event types = %v, want %v", c.types, wantTypes)
		}
		for i, got := range c.ctxs {
			if got != ctx {
				t.Errorf("call %d (%s) did not use the bound context", i, c.methods[i])
			}
		}
	})

	t.Run("cancelled context stops the key", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := &recordingClient{ctx: ctx}

		if err := dispatchKey(c, input.ArrowLeft); !errors.Is(err, context.Canceled) {
			t.Errorf("dispatchKey() error = %v, want context.Canceled", err)
		}
		if len(c.methods) != 1 {
			t.Errorf("calls = %d, want 1 (no key up after a failed key down)", len(c.methods))
		}
	})

	t.Run("key down failure skips key up", func(t *testing.T) {
		t.Parallel()

		c := &recordingClient{ctx: context.Background(), failAt: 1}
		if err := dispatchKey(c, input.ArrowDown); err == nil {
			t.Fatal("dispatchKey() error = nil")
		}
		if len(c.methods) != 1 {
			t.Errorf("calls = %d, want 1", len(c.methods))
		}
	})
}

// ---------------------------------------------------------------------------
// TestPage_MethodSet - Every Page method has a caller
// ---------------------------------------------------------------------------

func TestPage_MethodSet(t *testing.T) {
	t.Parallel()

	pageType := reflect.TypeOf((*Page)(nil)).Elem()
	var got []string
	for i := range pageType.NumMethod() {
		got = append(got, pageType.Method(i).Name)
	}
	want := []string{"EvalInt", "Press", "Screenshot", "SetViewport", "WaitTrue", "WaitVisible"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Page methods = %v, want %v", got, want)
	}
}
