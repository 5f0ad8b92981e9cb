// Package detect guesses export settings from a presentation's sources.
// Every rule is a heuristic tuned for generated React decks; the result is
// a starting point for the config file, not a guarantee.
package detect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/shlex"
	jsoniter "github.com/json-iterator/go"
)

// Sentinel errors for detection.
var (
	ErrNoSources      = errors.New("no source files found")
	ErrNoSlides       = errors.New("no slides detected")
	ErrPackageJSON    = errors.New("failed to read package.json")
	ErrSourceTooLarge = errors.New("source file exceeds maximum size")
)

// MaxSourceSize bounds each scanned file (default 2MB).
var MaxSourceSize int64 = 2 << 20

// SourceDir is scanned relative to the project root.
const SourceDir = "src"

// DefaultPort is used when neither the dev script nor the framework names one.
const DefaultPort = 5173

// sourceExts lists the scanned file extensions.
var sourceExts = map[string]bool{".jsx": true, ".tsx": true, ".js": true, ".ts": true}

// skipDirs are never descended into.
var skipDirs = map[string]bool{"node_modules": true, ".git": true, "dist": true, "build": true}

// Slide counting rules, strongest first.
var (
	// const TOTAL_SLIDES = 12 / totalSlides: 12
	explicitTotal = regexp.MustCompile(`(?i)\btotal_?slides\b\s*[:=]\s*(\d+)`)
	// case 11: inside a switch over the slide index
	switchCase = regexp.MustCompile(`\bcase\s+(\d+)\s*:`)
	// <Slide ...> or <Slide3 ...> component usages, not <Slides> or <SlideLayout>
	slideElement = regexp.MustCompile(`<Slide\d*[\s/>]`)
	// components: [Slide1, Slide2] arrays of imported slide components
	slideIdent = regexp.MustCompile(`\bSlide(\d+)\b`)
)

// Project holds what was detected.
type Project struct {
	Dir         string
	TotalSlides int
	SlideSource string // file the count came from
	Rule        string // rule that produced the count
	Port        int
	Framework   string
	DevScript   string
}

// URL returns the local dev server address.
func (p *Project) URL() string {
	return "http://localhost:" + strconv.Itoa(p.Port)
}

// Scan inspects dir. A missing package.json is not an error; the port then
// falls back to DefaultPort. ErrNoSlides is returned with the partial
// project so callers can still use the port.
func Scan(dir string) (*Project, error) {
	p := &Project{Dir: dir, Port: DefaultPort}

	pkgPath := filepath.Join(dir, "package.json")
	if data, err := os.ReadFile(pkgPath); err == nil { // #nosec G304 -- project path is user-provided
		port, framework, script, err := DevServer(data)
		if err != nil {
			return nil, err
		}
		p.Framework, p.DevScript = framework, script
		if port > 0 {
			p.Port = port
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrPackageJSON, err)
	}

	files, err := sourceFiles(filepath.Join(dir, SourceDir))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return p, fmt.Errorf("%w in %s", ErrNoSources, filepath.Join(dir, SourceDir))
	}

	for _, f := range files {
		data, err := readSource(f)
		if err != nil {
			return nil, err
		}
		n, rule := CountSlides(string(data))
		if better(n, rule, p.TotalSlides, p.Rule) {
			p.TotalSlides, p.Rule, p.SlideSource = n, rule, f
		}
	}
	if p.TotalSlides == 0 {
		return p, ErrNoSlides
	}
	return p, nil
}

// Rule names, in decreasing strength.
const (
	RuleExplicit = "explicit"
	RuleSwitch   = "switch"
	RuleIdent    = "components"
	RuleElements = "elements"
)

var ruleRank = map[string]int{RuleExplicit: 4, RuleSwitch: 3, RuleIdent: 2, RuleElements: 1}

// better prefers the stronger rule, then the larger count.
func better(n int, rule string, curN int, curRule string) bool {
	if n == 0 {
		return false
	}
	if ruleRank[rule] != ruleRank[curRule] {
		return ruleRank[rule] > ruleRank[curRule]
	}
	return n > curN
}

// CountSlides estimates the slide count of one source file and names the
// rule that produced it. It returns 0 when nothing matched.
func CountSlides(src string) (int, string) {
	if m := explicitTotal.FindStringSubmatch(src); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, RuleExplicit
		}
	}
	if strings.Contains(src, "switch") {
		if n := maxIndex(switchCase.FindAllStringSubmatch(src, -1)); n >= 0 {
			return n + 1, RuleSwitch
		}
	}
	if idents := slideIdent.FindAllStringSubmatch(src, -1); len(idents) > 0 {
		n := maxIndex(idents)
		if minIndex(idents) == 0 {
			n++
		}
		if n > 0 {
			return n, RuleIdent
		}
	}
	if n := len(slideElement.FindAllString(src, -1)); n > 0 {
		return n, RuleElements
	}
	return 0, ""
}

// maxIndex returns the largest captured integer, -1 when there is none.
func maxIndex(matches [][]string) int {
	best := -1
	for _, m := range matches {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}
	return best
}

// minIndex returns the smallest captured integer, -1 when there is none.
func minIndex(matches [][]string) int {
	best := -1
	for _, m := range matches {
		if n, err := strconv.Atoi(m[1]); err == nil && (best < 0 || n < best) {
			best = n
		}
	}
	return best
}

// packageJSON is the subset of package.json that detection reads.
type packageJSON struct {
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// frameworkPorts are the default dev ports, checked in order.
var frameworkPorts = []struct {
	pkg  string
	port int
}{
	{"vite", 5173},
	{"next", 3000},
	{"react-scripts", 3000},
}

// DevServer reads package.json and returns the dev server port, the
// detected framework and the dev script. An explicit --port or -p in the
// dev script wins over the framework default. Port 0 means unknown.
func DevServer(data []byte) (port int, framework, script string, err error) {
	var pkg packageJSON
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &pkg); err != nil {
		return 0, "", "", fmt.Errorf("%w: %v", ErrPackageJSON, err)
	}

	script = pkg.Scripts["dev"]
	if script == "" {
		script = pkg.Scripts["start"]
	}

	// The command the script runs beats whatever else is installed.
	for _, fw := range frameworkPorts {
		if scriptRuns(script, fw.pkg) {
			framework, port = fw.pkg, fw.port
			break
		}
	}
	if framework == "" {
		for _, fw := range frameworkPorts {
			_, inDeps := pkg.Dependencies[fw.pkg]
			_, inDev := pkg.DevDependencies[fw.pkg]
			if inDeps || inDev {
				framework, port = fw.pkg, fw.port
				break
			}
		}
	}

	if p := scriptPort(script); p > 0 {
		port = p
	}
	return port, framework, script, nil
}

// scriptRuns reports whether the script invokes command.
func scriptRuns(script, command string) bool {
	args, err := shlex.Split(script)
	if err != nil {
		return false
	}
	for _, a := range args {
		if a == command {
			return true
		}
	}
	return false
}

// scriptPort extracts --port N, --port=N, -p N or -p=N from a script.
func scriptPort(script string) int {
	args, err := shlex.Split(script)
	if err != nil {
		return 0
	}
	for i, a := range args {
		var v string
		switch {
		case a == "--port" || a == "-p":
			if i+1 < len(args) {
				v = args[i+1]
			}
		case strings.HasPrefix(a, "--port="):
			v = strings.TrimPrefix(a, "--port=")
		case strings.HasPrefix(a, "-p="):
			v = strings.TrimPrefix(a, "-p=")
		default:
			continue
		}
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 65536 {
			return n
		}
	}
	return 0
}

func sourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if sourceExts[strings.ToLower(filepath.Ext(path))] && !isTestFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

func isTestFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.")
}

func readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxSourceSize {
		return nil, fmt.Errorf("%w: %s", ErrSourceTooLarge, path)
	}
	return os.ReadFile(path) // #nosec G304 -- path comes from the scanned tree
}
