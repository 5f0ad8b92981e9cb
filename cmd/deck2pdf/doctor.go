package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/go-rod/rod/lib/launcher"
	jsoniter "github.com/json-iterator/go"
	flag "github.com/spf13/pflag"

	deck2pdf "github.com/alnah/go-deck2pdf"
	"github.com/alnah/go-deck2pdf/internal/config"
	"github.com/alnah/go-deck2pdf/internal/fileutil"
	"github.com/alnah/go-deck2pdf/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Config   configInfo  `json:"config"`
	Chrome   chromeInfo  `json:"chrome"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Server   *serverInfo `json:"server,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// configInfo records which config file, if any, was read.
type configInfo struct {
	Path   string `json:"path,omitempty"`
	Loaded bool   `json:"loaded"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
	Backend string `json:"backend"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable   bool   `json:"temp_writable"`
	OutputDir      string `json:"output_dir"`
	OutputWritable bool   `json:"output_writable"`
}

// serverInfo holds the presentation probe result.
type serverInfo struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", usageError(err))
		return ExitUsage
	}

	result := runDoctor(ctx, flags, env.Prober)

	if flags.json {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, flags *doctorFlags, prober deck2pdf.Prober) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := checkConfig(result, flags.common.config)
	checkChrome(result, cfg)
	checkEnvironment(result, cfg)
	checkSystem(result, cfg)
	if flags.probe && prober != nil && cfg.URL != "" {
		checkServer(ctx, result, prober, cfg.URL)
	}

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConfig loads the config when present. A missing default config is a
// warning; a missing or broken explicit one is an error.
func checkConfig(result *doctorResult, name string) *deck2pdf.Config {
	explicit := name != ""
	if !explicit {
		name = config.DefaultName
	}

	cfg, path, err := config.Load(name)
	result.Config.Path = path
	switch {
	case err == nil:
		result.Config.Loaded = true
		return cfg.WithDefaults()
	case errors.Is(err, config.ErrConfigNotFound) && !explicit:
		result.Warnings = append(result.Warnings,
			"No config file found. Run `deck2pdf init` to create one")
	default:
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
	}
	return deck2pdf.DefaultConfig()
}

// checkChrome detects Chrome/Chromium installation without downloading.
func checkChrome(result *doctorResult, cfg *deck2pdf.Config) {
	result.Chrome.Backend = cfg.Browser.Backend
	result.Chrome.Sandbox = !(cfg.Browser.NoSandbox || result.Env.NoSandbox == "1" || os.Getenv("CI") == "true")

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		chromePath = cfg.Browser.Bin
	}
	if chromePath != "" {
		if !fileutil.FileExists(chromePath) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Chrome not found at %s", chromePath))
			return
		}
	} else {
		var found bool
		chromePath, found = lookupChrome()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found. A browser will be downloaded on first export, or set ROD_BROWSER_BIN")
			return
		}
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	// Get version by running chrome --version
	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path is the detected browser
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}
}

// lookupChrome mirrors the export's browser selection minus the download.
func lookupChrome() (string, bool) {
	if runtime.GOOS == "darwin" {
		for _, p := range deck2pdf.MacOSBrowserPaths {
			if fileutil.FileExists(p) {
				return p, true
			}
		}
		return "", false
	}
	return launcher.LookPath()
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, cfg *deck2pdf.Config) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Env.Container && result.Chrome.Sandbox && !cfg.Browser.NoSandbox {
		result.Warnings = append(result.Warnings,
			"Container detected but the Chrome sandbox is enabled. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("DECK2PDF_CONTAINER") == "1" {
		return true, "DECK2PDF_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp and output directories are writable.
func checkSystem(result *doctorResult, cfg *deck2pdf.Config) {
	if fileutil.IsWritableDir(os.TempDir()) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	}

	result.System.OutputDir = cfg.OutputDir
	if outputWritable(cfg.OutputDir) {
		result.System.OutputWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s", cfg.OutputDir))
	}
}

// outputWritable checks dir, or its nearest existing parent when dir does
// not exist yet, so the check creates nothing.
func outputWritable(dir string) bool {
	dir = filepath.Clean(dir)
	for !fileutil.DirExists(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
	return fileutil.IsWritableDir(dir)
}

// checkServer probes the presentation URL. An unreachable server is a
// warning: doctor may run before the dev server is started.
func checkServer(ctx context.Context, result *doctorResult, prober deck2pdf.Prober, url string) {
	result.Server = &serverInfo{URL: url, Reachable: prober.Available(ctx, url)}
	if !result.Server.Reachable {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Presentation not reachable at %s. Start it with `%s`", url, hints.DevServerCommand))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	ok := color.GreenString("[OK]")
	warn := color.YellowString("[WARN]")
	fail := color.RedString("[ERROR]")
	heading := color.New(color.Bold)

	heading.Fprintln(w, "deck2pdf doctor")
	fmt.Fprintln(w)

	heading.Fprintln(w, "Config")
	if r.Config.Loaded {
		fmt.Fprintf(w, "  %s Loaded %s\n", ok, r.Config.Path)
	} else {
		fmt.Fprintf(w, "  %s Not loaded\n", warn)
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  %s Found at %s\n", ok, r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  %s Version: %s\n", ok, r.Chrome.Version)
		}
	} else {
		fmt.Fprintf(w, "  %s Not found\n", warn)
	}
	fmt.Fprintf(w, "  %s Backend: %s\n", ok, r.Chrome.Backend)
	if r.Chrome.Sandbox {
		fmt.Fprintf(w, "  %s Sandbox: enabled\n", ok)
	} else {
		fmt.Fprintf(w, "  %s Sandbox: disabled\n", ok)
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  %s Platform: %s/%s\n", ok, r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  %s Container: detected (%s)\n", ok, r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintf(w, "  %s CI: detected\n", ok)
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  %s Temp directory: writable\n", ok)
	} else {
		fmt.Fprintf(w, "  %s Temp directory: not writable\n", fail)
	}
	if r.System.OutputWritable {
		fmt.Fprintf(w, "  %s Output directory %s: writable\n", ok, r.System.OutputDir)
	} else {
		fmt.Fprintf(w, "  %s Output directory %s: not writable\n", fail, r.System.OutputDir)
	}
	fmt.Fprintln(w)

	if r.Server != nil {
		heading.Fprintln(w, "Presentation")
		if r.Server.Reachable {
			fmt.Fprintf(w, "  %s Reachable at %s\n", ok, r.Server.URL)
		} else {
			fmt.Fprintf(w, "  %s Not reachable at %s\n", warn, r.Server.URL)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		heading.Fprintln(w, "Warnings:")
		for _, msg := range r.Warnings {
			fmt.Fprintf(w, "  %s %s\n", warn, msg)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		heading.Fprintln(w, "Errors:")
		for _, msg := range r.Errors {
			fmt.Fprintf(w, "  %s %s\n", fail, msg)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to export")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
