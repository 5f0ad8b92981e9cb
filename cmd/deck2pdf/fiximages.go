package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/alnah/go-deck2pdf/internal/imagefix"
)

// runFixImages rewrites base64 PNG files under the given directories, then
// keeps watching them when --watch is set.
func runFixImages(ctx context.Context, args []string, env *Environment) error {
	flags, dirs, err := parseFixFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if flags.jobs < 0 {
		return fmt.Errorf("%w: --jobs must be >= 0, got %d", ErrUsage, flags.jobs)
	}
	if len(dirs) == 0 {
		dirs = imagefix.DefaultDirs
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	fixer := &imagefix.Fixer{Jobs: flags.jobs, DryRun: flags.dryRun, Logger: logger}

	report, err := fixer.Fix(ctx, dirs)
	if err != nil {
		return err
	}
	for _, d := range report.Missing {
		logger.WithField("dir", d).Info("directory not found, skipping")
	}
	printFixReport(env.Stdout, report, flags.dryRun, flags.common.quiet)

	if flags.watch {
		if err := fixer.Watch(ctx, dirs, nil); err != nil {
			return err
		}
		return nil
	}

	if n := report.Count(imagefix.StatusFailed); n > 0 {
		return fmt.Errorf("%w: %d file(s) failed", ErrFixFailed, n)
	}
	return nil
}

// printFixReport outputs the per-status counts of a fix run.
func printFixReport(w io.Writer, r *imagefix.Report, dryRun, quiet bool) {
	if quiet {
		return
	}
	fixed := r.Count(imagefix.StatusFixed)
	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}

	c := color.New(color.FgGreen)
	if fixed == 0 {
		c = color.New(color.Faint)
	}
	c.Fprintf(w, "%s %d image(s)", verb, fixed)
	fmt.Fprintf(w, ", %d unchanged", r.Count(imagefix.StatusSkipped))

	if n := r.Count(imagefix.StatusRejected); n > 0 {
		fmt.Fprint(w, ", ")
		color.New(color.FgYellow).Fprintf(w, "%d rejected", n)
	}
	if n := r.Count(imagefix.StatusFailed); n > 0 {
		fmt.Fprint(w, ", ")
		color.New(color.FgRed).Fprintf(w, "%d failed", n)
	}
	fmt.Fprintln(w)
}
