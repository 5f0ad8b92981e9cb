package main

// Notes:
// - Tests go through runDoctorCmd() and assert on its JSON or text output.
// - Chrome detection depends on the machine, so only the explicit-path
//   branches are asserted; they use t.Setenv() and cannot run in parallel.

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-deck2pdf/internal/fileutil"
)

func runDoctorJSON(t *testing.T, env *Environment, args ...string) (doctorResult, int) {
	t.Helper()
	code := runDoctorCmd(context.Background(), append([]string{"--json"}, args...), env)

	var result doctorResult
	out := env.Stdout.(*bytes.Buffer)
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput was: %s", err, out.String())
	}
	return result, code
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - Verifies JSON output format and structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "deck.json",
		`{"url": "http://localhost:5173", "totalSlides": 3, "outputDir": "`+filepath.ToSlash(filepath.Join(dir, "out"))+`"}`)
	env, _, _ := testEnv(&fakeExporter{})

	result, code := runDoctorJSON(t, env, "--config", path)

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s", result.Env.OS, result.Env.Arch)
	}
	if !result.Config.Loaded || result.Config.Path != path {
		t.Errorf("config = %+v, want loaded from %s", result.Config, path)
	}
	if !result.System.OutputWritable {
		t.Error("output directory under a temp dir should be writable")
	}
	if result.Server == nil || !result.Server.Reachable {
		t.Errorf("server = %+v, want reachable", result.Server)
	}

	validStatuses := map[string]bool{statusReady: true, statusWarnings: true, statusErrors: true}
	if !validStatuses[result.Status] {
		t.Errorf("invalid status %q", result.Status)
	}
	if (result.Status == statusErrors) != (code == ExitGeneral) {
		t.Errorf("status %q with exit code %d", result.Status, code)
	}
}

func TestRunDoctorCmd_ServerDown(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "deck.json", minimalConfig)
	env, _, _ := testEnv(&fakeExporter{})
	env.Prober = staticProber(false)

	result, _ := runDoctorJSON(t, env, "--config", path)

	if result.Server == nil || result.Server.Reachable {
		t.Fatalf("server = %+v, want unreachable", result.Server)
	}
	if result.Status == statusReady {
		t.Error("status ready with the server down")
	}
	if !containsAny(result.Warnings, "npm run dev") {
		t.Errorf("warnings = %v, want dev server suggestion", result.Warnings)
	}
}

func TestRunDoctorCmd_NoProbe(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "deck.json", minimalConfig)
	env, _, _ := testEnv(&fakeExporter{})

	result, _ := runDoctorJSON(t, env, "--config", path, "--probe=false")
	if result.Server != nil {
		t.Errorf("server = %+v, want no probe", result.Server)
	}
}

func TestRunDoctorCmd_ExplicitConfigMissing(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(&fakeExporter{})
	result, code := runDoctorJSON(t, env, "--config", filepath.Join(t.TempDir(), "nope.json"))

	if result.Status != statusErrors || code != ExitGeneral {
		t.Errorf("status = %q, code = %d; want errors, %d", result.Status, code, ExitGeneral)
	}
	if !containsAny(result.Errors, "config file not found") {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestRunDoctorCmd_BrowserBin(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", "")
	t.Setenv("CI", "")

	t.Run("configured binary missing", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "deck.json",
			`{"url": "http://localhost:5173", "totalSlides": 1, "browser": {"bin": "/nonexistent/chrome"}}`)
		env, _, _ := testEnv(&fakeExporter{})

		result, code := runDoctorJSON(t, env, "--config", path)
		if code != ExitGeneral || result.Chrome.Found {
			t.Errorf("code = %d, found = %v; want error", code, result.Chrome.Found)
		}
		if !containsAny(result.Errors, "/nonexistent/chrome") {
			t.Errorf("errors = %v", result.Errors)
		}
	})

	t.Run("env binary wins over config", func(t *testing.T) {
		t.Setenv("ROD_BROWSER_BIN", "/also/missing")
		path := writeConfig(t, t.TempDir(), "deck.json",
			`{"url": "http://localhost:5173", "totalSlides": 1, "browser": {"bin": "/nonexistent/chrome"}}`)
		env, _, _ := testEnv(&fakeExporter{})

		result, _ := runDoctorJSON(t, env, "--config", path)
		if !containsAny(result.Errors, "/also/missing") {
			t.Errorf("errors = %v, want the env path", result.Errors)
		}
	})

	t.Run("no-sandbox in config disables sandbox", func(t *testing.T) {
		t.Setenv("ROD_NO_SANDBOX", "")
		path := writeConfig(t, t.TempDir(), "deck.json",
			`{"url": "http://localhost:5173", "totalSlides": 1, "browser": {"noSandbox": true}}`)
		env, _, _ := testEnv(&fakeExporter{})

		result, _ := runDoctorJSON(t, env, "--config", path)
		if result.Chrome.Sandbox {
			t.Error("sandbox reported enabled")
		}
	})
}

func TestIsContainer_Override(t *testing.T) {
	t.Setenv("DECK2PDF_CONTAINER", "1")

	ok, hint := isContainer()
	if !ok || hint != "DECK2PDF_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", ok, hint)
	}
}

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human-readable output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *doctorResult
		want   []string
	}{
		{
			name: "ready",
			result: &doctorResult{
				Status: statusReady,
				Config: configInfo{Path: "deck2pdf.config.json", Loaded: true},
				Chrome: chromeInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 120", Sandbox: true, Backend: "rod"},
				Env:    envInfo{OS: "linux", Arch: "amd64"},
				System: systemInfo{TempWritable: true, OutputDir: "deck-export", OutputWritable: true},
				Server: &serverInfo{URL: "http://localhost:5173", Reachable: true},
			},
			want: []string{"Loaded deck2pdf.config.json", "Found at /usr/bin/chromium", "Sandbox: enabled", "Reachable at", "Status: Ready to export"},
		},
		{
			name: "errors",
			result: &doctorResult{
				Status: statusErrors,
				Env:    envInfo{OS: "linux", Arch: "arm64", Container: true, ContainerHint: "/.dockerenv"},
				System: systemInfo{OutputDir: "/ro"},
				Errors: []string{"Output directory not writable: /ro"},
			},
			want: []string{"Not loaded", "Container: detected (/.dockerenv)", "/ro: not writable", "[ERROR] Output directory", "Status: Not ready"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printDoctorResult(&buf, tt.result)
			for _, s := range tt.want {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output missing %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestOutputWritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if !outputWritable(filepath.Join(dir, "not", "yet", "created")) {
		t.Error("outputWritable() = false for a path under a writable dir")
	}
	if fileutil.DirExists(filepath.Join(dir, "not")) {
		t.Error("outputWritable() created directories")
	}
}

func containsAny(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
