package deck2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-deck2pdf/internal/fileutil"
)

// MacOSBrowserPaths are probed, in order, before falling back to the
// library-managed browser on darwin.
var MacOSBrowserPaths = []string{
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// LaunchBrowser starts the backend named by cfg.Backend.
func LaunchBrowser(ctx context.Context, cfg BrowserConfig) (Session, error) {
	bin, err := ResolveBrowserBin(cfg)
	if err != nil {
		return nil, err
	}
	noSandbox := cfg.NoSandbox || sandboxDisabledByEnv()

	switch cfg.Backend {
	case BackendChromedp:
		return launchChromedp(ctx, bin, noSandbox)
	case "", BackendRod:
		return launchRod(ctx, bin, noSandbox)
	default:
		return nil, fmt.Errorf("%w: unknown browser backend %q", ErrConfigInvalid, cfg.Backend)
	}
}

// ResolveBrowserBin returns the executable the session launches.
// ROD_BROWSER_BIN wins over cfg.Bin.
func ResolveBrowserBin(cfg BrowserConfig) (string, error) {
	override := os.Getenv("ROD_BROWSER_BIN")
	if override == "" {
		override = cfg.Bin
	}
	return resolveBrowserBin(runtime.GOOS, override, browserLocator{
		exists:   fileutil.FileExists,
		lookPath: launcher.LookPath,
		download: func() (string, error) { return launcher.NewBrowser().Get() },
	})
}

// browserLocator abstracts filesystem probing and the rod browser manager.
type browserLocator struct {
	exists   func(path string) bool
	lookPath func() (string, bool)
	download func() (string, error)
}

// resolveBrowserBin applies the platform selection rules: an explicit path
// must exist; darwin probes the fixed install paths then uses the bundled
// browser; other platforms ask the library, then download.
func resolveBrowserBin(goos, override string, loc browserLocator) (string, error) {
	if override != "" {
		if !loc.exists(override) {
			return "", fmt.Errorf("%w: %s", ErrBrowserNotFound, override)
		}
		return override, nil
	}

	if goos == "darwin" {
		for _, p := range MacOSBrowserPaths {
			if loc.exists(p) {
				return p, nil
			}
		}
	} else if p, ok := loc.lookPath(); ok {
		return p, nil
	}

	p, err := loc.download()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBrowserNotFound, err)
	}
	return p, nil
}

// sandboxDisabledByEnv reports whether CI or ROD_NO_SANDBOX asks for
// --no-sandbox.
func sandboxDisabledByEnv() bool {
	return os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1"
}

// opError classifies a failed page operation: cancellation of the caller's
// ctx is returned as is, expiry of the operation's own bound as
// ErrWaitTimeout, anything else wrapped with kind when kind is set.
func opError(ctx, opCtx context.Context, kind, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrWaitTimeout, err)
	}
	if kind != nil {
		return fmt.Errorf("%w: %v", kind, err)
	}
	return err
}
