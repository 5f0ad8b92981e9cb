package main

import (
	"errors"
	"os"

	deck2pdf "github.com/alnah/go-deck2pdf"
	"github.com/alnah/go-deck2pdf/internal/config"
	"github.com/alnah/go-deck2pdf/internal/detect"
)

// Exit codes for deck2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, output not writable
	ExitBrowser = 4 // Browser/Chrome errors
	ExitServer  = 5 // Presentation server not reachable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Server errors (exit 5)
	if errors.Is(err, deck2pdf.ErrServerUnavailable) {
		return ExitServer
	}

	// Browser errors (exit 4)
	if errors.Is(err, deck2pdf.ErrBrowserNotFound) ||
		errors.Is(err, deck2pdf.ErrBrowserConnect) ||
		errors.Is(err, deck2pdf.ErrPageLoad) ||
		errors.Is(err, deck2pdf.ErrPageEval) ||
		errors.Is(err, deck2pdf.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, deck2pdf.ErrOutputDir) ||
		errors.Is(err, deck2pdf.ErrOutputLocked) ||
		errors.Is(err, deck2pdf.ErrWriteImage) ||
		errors.Is(err, deck2pdf.ErrWritePDF) ||
		errors.Is(err, ErrFixFailed) ||
		errors.Is(err, ErrWriteConfig) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, deck2pdf.ErrConfigInvalid) ||
		errors.Is(err, detect.ErrNoSources) ||
		errors.Is(err, detect.ErrNoSlides) ||
		errors.Is(err, detect.ErrPackageJSON) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrConfigExists) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
