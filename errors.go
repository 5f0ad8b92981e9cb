package deck2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrConfigInvalid     = errors.New("invalid config")
	ErrServerUnavailable = errors.New("presentation server unavailable")

	// Browser errors.
	ErrBrowserNotFound = errors.New("browser executable not found")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageLoad        = errors.New("failed to load page")
	ErrPageEval        = errors.New("page evaluation failed")
	ErrScreenshot      = errors.New("screenshot capture failed")

	// ErrWaitTimeout is returned by Page waits whose own bound expired while
	// the caller's context was still alive. Readiness checks swallow it.
	ErrWaitTimeout = errors.New("wait timed out")

	// Document errors.
	ErrImageDecode   = errors.New("cannot decode screenshot image")
	ErrEmptyDocument = errors.New("document has no pages")
	ErrPDFMerge      = errors.New("PDF merge failed")

	// Output errors.
	ErrOutputDir    = errors.New("cannot create output directory")
	ErrOutputLocked = errors.New("output directory is locked by another export")
	ErrWriteImage   = errors.New("failed to write screenshot")
	ErrWritePDF     = errors.New("failed to write PDF")
)
