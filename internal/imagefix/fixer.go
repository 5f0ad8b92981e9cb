package imagefix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-deck2pdf/internal/fileutil"
)

// DefaultDirs are scanned when no directory is given.
var DefaultDirs = []string{"public", "dist"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Status is the outcome of checking one file.
type Status int

// File outcomes.
const (
	StatusSkipped  Status = iota // already binary, or not base64 PNG text
	StatusFixed                  // rewritten as binary (or would be, in dry-run)
	StatusRejected               // base64 text that does not decode to a PNG
	StatusFailed                 // read or write error
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusFixed:
		return "fixed"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports what happened to one file.
type Outcome struct {
	Path   string
	Status Status
	Err    error
}

// Report aggregates the outcomes of a run, in scan order.
type Report struct {
	Outcomes []Outcome
	Missing  []string // requested directories that do not exist
}

// Count returns the number of outcomes with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Fixer rewrites base64 PNG files in place.
type Fixer struct {
	Jobs   int           // concurrent files, defaults to GOMAXPROCS
	DryRun bool          // report without writing
	Settle time.Duration // Watch: quiet period before a written file is fixed, defaults to DefaultSettle
	Logger logrus.FieldLogger
}

func (f *Fixer) logger() logrus.FieldLogger {
	if f.Logger != nil {
		return f.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (f *Fixer) settle() time.Duration {
	if f.Settle > 0 {
		return f.Settle
	}
	return DefaultSettle
}

func (f *Fixer) jobs() int {
	if f.Jobs > 0 {
		return f.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Fix scans dirs and fixes every PNG found. Per-file failures are reported
// in the outcomes; the returned error is reserved for scan failures and
// cancellation.
func (f *Fixer) Fix(ctx context.Context, dirs []string) (*Report, error) {
	if len(dirs) == 0 {
		dirs = DefaultDirs
	}
	files, missing, err := Scan(dirs)
	if err != nil {
		return nil, err
	}
	for _, d := range missing {
		f.logger().WithField("dir", d).Debug("directory not found, skipping")
	}

	outcomes := make([]Outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.jobs())
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = f.FixFile(path)
			f.log(outcomes[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{Outcomes: outcomes, Missing: missing}, nil
}

// FixFile checks one file and rewrites it when it holds base64 PNG text.
// Rejected files are left untouched. Running it twice is a no-op the
// second time.
func (f *Fixer) FixFile(path string) Outcome {
	out := Outcome{Path: path}

	data, perm, err := readFile(path)
	if err != nil {
		out.Status, out.Err = StatusFailed, err
		return out
	}
	if IsBinaryPNG(data) || !IsBase64PNG(data) {
		out.Status = StatusSkipped
		return out
	}

	decoded, err := Decode(data)
	if err != nil {
		out.Status, out.Err = StatusRejected, err
		return out
	}

	out.Status = StatusFixed
	if f.DryRun {
		return out
	}
	if err := fileutil.WriteFileAtomic(path, decoded, perm); err != nil {
		out.Status, out.Err = StatusFailed, err
	}
	return out
}

func (f *Fixer) log(o Outcome) {
	entry := f.logger().WithFields(logrus.Fields{"file": o.Path, "status": o.Status.String()})
	switch o.Status {
	case StatusFixed:
		if f.DryRun {
			entry.Info("would fix")
		} else {
			entry.Info("fixed")
		}
	case StatusRejected, StatusFailed:
		entry.WithError(o.Err).Warn("not fixed")
	default:
		entry.Debug("skipped")
	}
}

func readFile(path string) ([]byte, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if info.Size() > MaxFileSize {
		return nil, 0, fmt.Errorf("%w: %s (%d bytes, max %d)", ErrTooLarge, path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the scanned directories
	if err != nil {
		return nil, 0, err
	}
	return data, info.Mode().Perm(), nil
}

// Scan returns the PNG files under dirs in lexical order per directory.
// Directories that do not exist are returned separately.
func Scan(dirs []string) (files, missing []string, err error) {
	for _, dir := range dirs {
		if !fileutil.DirExists(dir) {
			missing = append(missing, dir)
			continue
		}
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if isPNGName(path) && d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if walkErr != nil && !errors.Is(walkErr, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("scanning %s: %w", dir, walkErr)
		}
	}
	return files, missing, nil
}

func isPNGName(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}
