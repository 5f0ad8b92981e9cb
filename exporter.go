package deck2pdf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-deck2pdf/internal/fileutil"
)

// lockFileName guards an output directory against concurrent exports.
const lockFileName = ".deck2pdf.lock"

// Result summarizes a finished export.
type Result struct {
	PDFPath  string
	Images   []string
	Pages    int
	Duration time.Duration
}

// Exporter captures every slide of a presentation and merges the
// screenshots into one PDF. Create with NewExporter.
type Exporter struct {
	logger  logrus.FieldLogger
	sleeper Sleeper
	prober  Prober
	launch  Launcher
	now     func() time.Time
}

// NewExporter creates an Exporter with production defaults: real timers,
// an HTTP probe and the browser selected by the config.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		logger:  discardLogger(),
		sleeper: timerSleeper{},
		prober:  HTTPProber{},
		launch:  LaunchBrowser,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export runs the pipeline: probe the server, launch one browser, visit
// slides 0..TotalSlides-1 in order and write each PNG as it is captured,
// then write the merged PDF once. On error the browser is closed, the PNGs
// already written are kept and no PDF is produced.
func (e *Exporter) Export(ctx context.Context, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()
	start := e.now()

	if keys := cfg.InertSubSlides(); len(keys) > 0 {
		e.logger.WithField("keys", keys).Debug("subSlides entries outside the deck are ignored")
	}

	if !e.prober.Available(ctx, cfg.URL) {
		return nil, fmt.Errorf("%w: %s", ErrServerUnavailable, cfg.URL)
	}

	if err := fileutil.EnsureDir(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	lock := flock.New(filepath.Join(cfg.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, cfg.OutputDir)
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil {
			e.logger.WithError(uerr).Warn("failed to release output lock")
		}
	}()

	e.logger.WithFields(logrus.Fields{
		"url":     cfg.URL,
		"slides":  cfg.TotalSlides,
		"pages":   cfg.PageCount(),
		"backend": cfg.Browser.Backend,
	}).Info("starting export")

	session, err := e.launch(ctx, cfg.Browser)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			e.logger.WithError(cerr).Debug("browser close reported an error")
		}
	}()

	page, err := session.Open(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}

	run := newRun(cfg, page, e.sleeper, e.logger)
	if err := run.settle.Settle(ctx, millis(cfg.Waits.Animation)); err != nil {
		return nil, err
	}
	if err := run.captureAll(ctx); err != nil {
		return nil, err
	}

	pdfPath := filepath.Join(cfg.OutputDir, cfg.PDFName)
	if err := run.doc.Save(pdfPath); err != nil {
		return nil, err
	}

	result := &Result{
		PDFPath:  pdfPath,
		Images:   run.images,
		Pages:    run.doc.Len(),
		Duration: e.now().Sub(start),
	}
	e.logger.WithFields(logrus.Fields{
		"file":     pdfPath,
		"pages":    result.Pages,
		"duration": result.Duration.Round(time.Millisecond),
	}).Info("export complete")
	return result, nil
}

// run holds the per-export components bound to the single page.
type run struct {
	cfg     *Config
	logger  logrus.FieldLogger
	settle  *settler
	nav     *navigator
	capture *capturer
	doc     *Document
	images  []string
}

func newRun(cfg *Config, page Page, sleeper Sleeper, logger logrus.FieldLogger) *run {
	st := &settler{page: page, sleeper: sleeper, content: cfg.Selectors.Content}
	return &run{
		cfg:    cfg,
		logger: logger,
		settle: st,
		nav:    &navigator{cfg: cfg, page: page, settle: st, logger: logger},
		capture: &capturer{
			cfg:       cfg,
			page:      page,
			readiness: &readiness{cfg: cfg, page: page, sleeper: sleeper, settle: st},
			logger:    logger,
		},
		doc: NewDocument(map[string]string{
			"SlideFormat":      cfg.Format,
			"SlideOrientation": cfg.Orientation,
			"SourceURL":        cfg.URL,
		}),
	}
}

// captureAll visits every slide and its sub-states in order.
func (r *run) captureAll(ctx context.Context) error {
	for slide := 0; slide < r.cfg.TotalSlides; slide++ {
		if err := r.nav.GoTo(ctx, slide); err != nil {
			return fmt.Errorf("navigating to slide %d: %w", slide+1, err)
		}

		spec, ok := r.cfg.SubSlideFor(slide)
		if !ok {
			if err := r.shoot(ctx, Coordinate{Slide: slide}); err != nil {
				return err
			}
			continue
		}

		taken := 0
		for sub := spec.First(); sub <= spec.Last(); sub++ {
			if sub > spec.First() {
				if err := r.nav.NextSub(ctx); err != nil {
					return fmt.Errorf("advancing slide %d: %w", slide+1, err)
				}
				taken++
			}
			if err := r.shoot(ctx, Coordinate{Slide: slide, Sub: sub, Variant: spec.Type}); err != nil {
				return err
			}
		}
		if slide < r.cfg.TotalSlides-1 {
			if err := r.nav.ResetSub(ctx, spec, taken); err != nil {
				return fmt.Errorf("resetting slide %d: %w", slide+1, err)
			}
		}
	}
	return nil
}

// shoot captures one state, persists the PNG, and appends it as a page.
func (r *run) shoot(ctx context.Context, at Coordinate) error {
	shot, err := r.capture.Capture(ctx, at)
	if err != nil {
		return fmt.Errorf("capturing %s: %w", at, err)
	}

	path := filepath.Join(r.cfg.OutputDir, at.FileName())
	if err := fileutil.WriteFileAtomic(path, shot.PNG, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteImage, err)
	}
	r.images = append(r.images, path)

	if err := r.doc.AddImage(shot.PNG); err != nil {
		return fmt.Errorf("%s: %w", at, err)
	}

	r.logger.WithFields(logrus.Fields{
		"slide": at.Slide + 1,
		"sub":   at.Sub,
		"file":  path,
	}).Info("captured " + at.String())
	return nil
}

// IsServerUnavailable reports whether err aborted an export before any
// browser was launched because the server did not answer.
func IsServerUnavailable(err error) bool {
	return errors.Is(err, ErrServerUnavailable)
}
