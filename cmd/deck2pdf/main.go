package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for CLI operations.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrFixFailed    = errors.New("some images could not be fixed")
	ErrConfigExists = errors.New("config file already exists")
	ErrWriteConfig  = errors.New("failed to write config file")
)

// Command names.
const (
	cmdExport     = "export"
	cmdFixImages  = "fix-images"
	cmdInit       = "init"
	cmdDoctor     = "doctor"
	cmdCompletion = "completion"
	cmdVersion    = "version"
	cmdHelp       = "help"
)

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if wantsVerbose(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// run dispatches to a command and returns the process exit code.
// A missing command, or one starting with a flag, means export.
func run(ctx context.Context, args []string, env *Environment) int {
	cmd, rest := splitCommand(args[1:])

	var err error
	switch cmd {
	case cmdExport:
		err = runExport(ctx, rest, env)
	case cmdFixImages:
		err = runFixImages(ctx, rest, env)
	case cmdInit:
		err = runInit(rest, env)
	case cmdDoctor:
		return runDoctorCmd(ctx, rest, env)
	case cmdCompletion:
		err = runCompletion(rest, env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "deck2pdf %s\n", Version)
	case cmdHelp:
		runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}

// splitCommand separates the command name from its arguments.
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		if len(args) > 0 && (args[0] == "--version" || args[0] == "-V") {
			return cmdVersion, nil
		}
		if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
			return cmdHelp, args[1:]
		}
		return cmdExport, args
	}
	return args[0], args[1:]
}

// wantsVerbose scans raw arguments for the verbose flag before parsing.
func wantsVerbose(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "--verbose" || a == "-v" {
			return true
		}
	}
	return false
}

// newLogger builds the CLI logger: text to w, Info by default.
func newLogger(w io.Writer, quiet, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case verbose:
		l.SetLevel(logrus.DebugLevel)
	case quiet:
		l.SetLevel(logrus.WarnLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// usageError wraps a flag parse failure, leaving help requests alone.
func usageError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
