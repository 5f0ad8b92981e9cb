package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every package the CLI calls,
//   plus wrapped errors to verify the errors.Is() chain.
// - Exit code constants: Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes below 126.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	deck2pdf "github.com/alnah/go-deck2pdf"
	"github.com/alnah/go-deck2pdf/internal/config"
	"github.com/alnah/go-deck2pdf/internal/detect"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Server errors (exit 5)
		{"server unavailable", deck2pdf.ErrServerUnavailable, ExitServer},
		{"wrapped server unavailable", fmt.Errorf("%w: http://localhost:5173", deck2pdf.ErrServerUnavailable), ExitServer},

		// Browser errors (exit 4)
		{"browser not found", deck2pdf.ErrBrowserNotFound, ExitBrowser},
		{"browser connect", deck2pdf.ErrBrowserConnect, ExitBrowser},
		{"page load", deck2pdf.ErrPageLoad, ExitBrowser},
		{"page eval", deck2pdf.ErrPageEval, ExitBrowser},
		{"screenshot", deck2pdf.ErrScreenshot, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("launch: %w", deck2pdf.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"output dir", deck2pdf.ErrOutputDir, ExitIO},
		{"output locked", deck2pdf.ErrOutputLocked, ExitIO},
		{"write image", deck2pdf.ErrWriteImage, ExitIO},
		{"write pdf", deck2pdf.ErrWritePDF, ExitIO},
		{"fix failed", ErrFixFailed, ExitIO},
		{"write config", ErrWriteConfig, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config invalid", deck2pdf.ErrConfigInvalid, ExitUsage},
		{"no sources", detect.ErrNoSources, ExitUsage},
		{"no slides", detect.ErrNoSlides, ExitUsage},
		{"package.json", detect.ErrPackageJSON, ExitUsage},
		{"usage", ErrUsage, ExitUsage},
		{"config exists", ErrConfigExists, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading config: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"pdf merge", deck2pdf.ErrPDFMerge, ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exitCodeFor(tt.err)
			if got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix convention compliance
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}

	for name, code := range map[string]int{"ExitIO": ExitIO, "ExitBrowser": ExitBrowser, "ExitServer": ExitServer} {
		if code >= 126 {
			t.Errorf("%s = %d, should be < 126", name, code)
		}
	}
}
