package deck2pdf

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the progress logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSleeper replaces the timer used for unconditional waits.
func WithSleeper(s Sleeper) Option {
	return func(e *Exporter) {
		if s != nil {
			e.sleeper = s
		}
	}
}

// WithProber replaces the server availability check.
func WithProber(p Prober) Option {
	return func(e *Exporter) {
		if p != nil {
			e.prober = p
		}
	}
}

// WithLauncher replaces the browser launcher.
func WithLauncher(l Launcher) Option {
	return func(e *Exporter) {
		if l != nil {
			e.launch = l
		}
	}
}

// discardLogger returns a logger that drops all entries.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
