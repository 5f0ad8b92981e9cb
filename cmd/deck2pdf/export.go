package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	deck2pdf "github.com/alnah/go-deck2pdf"
	"github.com/alnah/go-deck2pdf/internal/config"
	"github.com/alnah/go-deck2pdf/internal/hints"
)

// runExport loads the config, applies overrides and runs one export.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, positional[0])
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	warnUnknownEnvVars(logger, env.environ())
	envCfg := loadEnvConfig()

	cfg, err := loadExportConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeExportFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w%s", err, hints.ForConfigInvalid())
	}

	result, err := env.NewExporter(logger).Export(ctx, cfg)
	if err != nil {
		return withHint(err, cfg.URL)
	}

	printExportResult(env.Stdout, result, flags.common.quiet, flags.common.verbose)
	return nil
}

// loadExportConfig reads the config named by the flag, the environment,
// or the default name, in that order.
func loadExportConfig(flagName, envName string) (*deck2pdf.Config, error) {
	name := config.DefaultName
	switch {
	case flagName != "":
		name = flagName
	case envName != "":
		name = envName
	}

	cfg, _, err := config.Load(name)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.Candidates(name)))
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeExportFlags applies explicitly set CLI flags over cfg (CLI wins).
func mergeExportFlags(flags *exportFlags, cfg *deck2pdf.Config) {
	if flags.target.url != "" {
		cfg.URL = flags.target.url
	}
	if flags.target.slides > 0 {
		cfg.TotalSlides = flags.target.slides
	}
	if flags.output != "" {
		cfg.OutputDir = flags.output
	}
	if flags.pdfName != "" {
		cfg.PDFName = flags.pdfName
	}
	if flags.hideUISet {
		cfg.HideUI = flags.hideUI
	}
	if flags.browser.backend != "" {
		cfg.Browser.Backend = flags.browser.backend
	}
	if flags.browser.bin != "" {
		cfg.Browser.Bin = flags.browser.bin
	}
	if flags.browser.noSandbox {
		cfg.Browser.NoSandbox = true
	}
}

// withHint appends the remediation for the common fatal failures.
func withHint(err error, url string) error {
	var hint string
	switch {
	case deck2pdf.IsServerUnavailable(err):
		hint = hints.ForServerUnavailable(url)
	case errors.Is(err, deck2pdf.ErrBrowserNotFound), errors.Is(err, deck2pdf.ErrBrowserConnect):
		hint = hints.ForBrowserConnect()
	case errors.Is(err, deck2pdf.ErrOutputDir):
		hint = hints.ForOutputDirectory()
	case errors.Is(err, deck2pdf.ErrWaitTimeout), errors.Is(err, context.DeadlineExceeded):
		hint = hints.ForTimeout()
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// printExportResult outputs the export summary.
func printExportResult(w io.Writer, r *deck2pdf.Result, quiet, verbose bool) {
	if quiet {
		return
	}
	ok := color.New(color.FgGreen, color.Bold)
	ok.Fprint(w, "Created ")
	fmt.Fprintf(w, "%s (%d pages)\n", r.PDFPath, r.Pages)
	if verbose {
		for _, img := range r.Images {
			fmt.Fprintf(w, "  %s\n", img)
		}
		fmt.Fprintf(w, "Done in %v\n", r.Duration.Round(time.Millisecond))
	}
}
