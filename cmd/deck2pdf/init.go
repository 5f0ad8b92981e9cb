package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	deck2pdf "github.com/alnah/go-deck2pdf"
	"github.com/alnah/go-deck2pdf/internal/config"
	"github.com/alnah/go-deck2pdf/internal/detect"
	"github.com/alnah/go-deck2pdf/internal/fileutil"
	"github.com/alnah/go-deck2pdf/internal/hints"
)

// configFilePermissions is rw-r--r--: the config is meant to be committed.
const configFilePermissions = 0o644

// runInit detects the slide count and dev server of a project and writes a
// starter config. Flags win over detection.
func runInit(args []string, env *Environment) error {
	flags, positional, err := parseInitFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: init takes at most one project directory", ErrUsage)
	}
	dir := "."
	if len(positional) == 1 {
		dir = positional[0]
	}
	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	target := flags.common.config
	if target == "" {
		target = filepath.Join(dir, config.DefaultName+".json")
	}
	if fileutil.FileExists(target) && !flags.force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, target)
	}

	project, err := detect.Scan(dir)
	if project == nil {
		return err
	}
	cfg, err := starterConfig(project, err, flags.target, logger)
	if err != nil {
		return err
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := fileutil.WriteFileAtomic(target, append(data, '\n'), configFilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteConfig, err)
	}

	if !flags.common.quiet {
		printInitResult(env.Stdout, target, cfg, project)
	}
	return nil
}

// starterConfig builds the config to write. scanErr is the detection
// failure, if any; it is fatal only when no --slides override covers it.
func starterConfig(p *detect.Project, scanErr error, target targetFlags, log logrus.FieldLogger) (*deck2pdf.Config, error) {
	cfg := deck2pdf.DefaultConfig()
	cfg.HideUI = true
	cfg.URL = p.URL()
	cfg.TotalSlides = p.TotalSlides

	if target.url != "" {
		cfg.URL = target.url
	}
	if target.slides > 0 {
		cfg.TotalSlides = target.slides
	} else if scanErr != nil {
		if errors.Is(scanErr, detect.ErrNoSlides) || errors.Is(scanErr, detect.ErrNoSources) {
			return nil, fmt.Errorf("%w%s", scanErr, hints.ForSlideCount())
		}
		return nil, scanErr
	}

	log.WithFields(logrus.Fields{
		"slides":    p.TotalSlides,
		"rule":      p.Rule,
		"source":    p.SlideSource,
		"framework": p.Framework,
		"port":      p.Port,
	}).Debug("detection result")
	return cfg, nil
}

// printInitResult outputs what was written and where the values came from.
func printInitResult(w io.Writer, path string, cfg *deck2pdf.Config, p *detect.Project) {
	color.New(color.FgGreen, color.Bold).Fprint(w, "Wrote ")
	fmt.Fprintln(w, path)

	if p.TotalSlides == cfg.TotalSlides && p.Rule != "" {
		fmt.Fprintf(w, "  totalSlides: %d (%s rule in %s)\n", cfg.TotalSlides, p.Rule, p.SlideSource)
	} else {
		fmt.Fprintf(w, "  totalSlides: %d\n", cfg.TotalSlides)
	}
	if p.Framework != "" && cfg.URL == p.URL() {
		fmt.Fprintf(w, "  url:         %s (%s)\n", cfg.URL, p.Framework)
	} else {
		fmt.Fprintf(w, "  url:         %s\n", cfg.URL)
	}
	color.New(color.Faint).Fprintln(w, "Review subSlides and special timings by hand: they are not detected.")
}
