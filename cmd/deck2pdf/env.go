package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	deck2pdf "github.com/alnah/go-deck2pdf"
)

// Exporter is the interface for the export pipeline.
type Exporter interface {
	Export(ctx context.Context, cfg *deck2pdf.Config) (*deck2pdf.Result, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*deck2pdf.Exporter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the exporter factory and the server probe.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Environ     func() []string
	NewExporter func(logger logrus.FieldLogger) Exporter
	Prober      deck2pdf.Prober
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
		NewExporter: func(logger logrus.FieldLogger) Exporter {
			return deck2pdf.NewExporter(deck2pdf.WithLogger(logger))
		},
		Prober: deck2pdf.HTTPProber{},
	}
}

// environ returns the process environment, tolerating a nil hook.
func (e *Environment) environ() []string {
	if e.Environ == nil {
		return nil
	}
	return e.Environ()
}
