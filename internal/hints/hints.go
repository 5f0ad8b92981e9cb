// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-deck2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// DevServerCommand is the command suggested when the presentation is not served.
const DevServerCommand = "npm run dev"

// ForServerUnavailable returns the remediation for an unreachable dev server.
func ForServerUnavailable(url string) string {
	return format("start the presentation with `" + DevServerCommand + "` and check it answers at " + url)
}

// ForBrowserConnect returns hints for browser launch or connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a custom Chrome")
	}

	return formatHints(hints)
}

// ForConfigNotFound suggests creating a config or pointing at an existing one.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "run `deck2pdf init` to generate one, or use --config /path/to/file.json"
	if len(searchedPaths) > 0 {
		hint += " (searched: " + strings.Join(searchedPaths, ", ") + ")"
	}
	return format(hint)
}

// ForConfigInvalid reminds the user of the required fields.
func ForConfigInvalid() string {
	return format(`"url" and "totalSlides" are required`)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForSlideCount suggests setting the slide count by hand when detection fails.
func ForSlideCount() string {
	return format("pass --slides N, or set \"totalSlides\" in the config yourself")
}

// ForTimeout returns a hint about slow, animation-heavy pages.
func ForTimeout() string {
	return format(`increase "waits" in the config for animation-heavy slides`)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
