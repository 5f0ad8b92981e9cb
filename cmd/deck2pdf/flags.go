package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// targetFlags override what the config says about the presentation.
type targetFlags struct {
	url    string
	slides int
}

// browserFlags holds browser backend flags.
type browserFlags struct {
	backend   string
	bin       string
	noSandbox bool
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common  commonFlags
	target  targetFlags
	browser browserFlags
	output  string
	pdfName string
	hideUI  bool

	hideUISet bool // --hide-ui given explicitly, so false is meaningful
}

// fixFlags holds flags for the fix-images command.
type fixFlags struct {
	common commonFlags
	dryRun bool
	watch  bool
	jobs   int
}

// initFlags holds flags for the init command.
type initFlags struct {
	common commonFlags
	target targetFlags
	force  bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
	probe  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")
}

// addTargetFlags adds presentation target flags to a FlagSet.
func addTargetFlags(fs *flag.FlagSet, f *targetFlags) {
	fs.StringVar(&f.url, "url", "", "presentation URL")
	fs.IntVar(&f.slides, "slides", 0, "total number of slides")
}

// addBrowserFlags adds browser backend flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.backend, "backend", "", "browser backend: rod, chromedp")
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Chromium executable path")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
}

// newFlagSet creates a FlagSet whose usage goes to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// buildExportFlagSet registers export flags into f.
func buildExportFlagSet(w io.Writer, f *exportFlags) *flag.FlagSet {
	fs := newFlagSet("export", w, printExportUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.pdfName, "pdf-name", "", "PDF file name")
	fs.BoolVar(&f.hideUI, "hide-ui", false, "hide header and navigation while capturing")

	addCommonFlags(fs, &f.common)
	addTargetFlags(fs, &f.target)
	addBrowserFlags(fs, &f.browser)
	return fs
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, w io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := buildExportFlagSet(w, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.hideUISet = fs.Changed("hide-ui")
	return f, fs.Args(), nil
}

// buildFixFlagSet registers fix-images flags into f.
func buildFixFlagSet(w io.Writer, f *fixFlags) *flag.FlagSet {
	fs := newFlagSet("fix-images", w, printFixImagesUsage)

	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "report files without rewriting them")
	fs.BoolVarP(&f.watch, "watch", "w", false, "keep running and fix new files")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "files fixed in parallel (0 = auto)")

	addCommonFlags(fs, &f.common)
	return fs
}

// parseFixFlags parses fix-images flags and returns the directories.
func parseFixFlags(args []string, w io.Writer) (*fixFlags, []string, error) {
	f := &fixFlags{}
	fs := buildFixFlagSet(w, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// buildInitFlagSet registers init flags into f.
func buildInitFlagSet(w io.Writer, f *initFlags) *flag.FlagSet {
	fs := newFlagSet("init", w, printInitUsage)

	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing config file")

	addCommonFlags(fs, &f.common)
	addTargetFlags(fs, &f.target)
	return fs
}

// parseInitFlags parses init flags and returns the project directory args.
func parseInitFlags(args []string, w io.Writer) (*initFlags, []string, error) {
	f := &initFlags{}
	fs := buildInitFlagSet(w, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// buildDoctorFlagSet registers doctor flags into f.
func buildDoctorFlagSet(w io.Writer, f *doctorFlags) *flag.FlagSet {
	fs := newFlagSet("doctor", w, printDoctorUsage)

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.BoolVar(&f.probe, "probe", true, "check the configured presentation URL")

	addCommonFlags(fs, &f.common)
	return fs
}

// parseDoctorFlags parses doctor flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := buildDoctorFlagSet(w, f)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
