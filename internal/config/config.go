// Package config locates and decodes export configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	deck2pdf "github.com/alnah/go-deck2pdf"
	"github.com/alnah/go-deck2pdf/internal/yamlutil"
)

// DefaultName is the config base name searched in the working directory.
const DefaultName = "deck2pdf.config"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Extensions lists the config file extensions tried in order.
var Extensions = []string{".json", ".yaml", ".yml"}

// Load reads a config file from a path or a base name without validating it,
// so callers can apply overrides first. It returns the path actually read.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a base name and searched in the working directory.
func Load(nameOrPath string) (*deck2pdf.Config, string, error) {
	if nameOrPath == "" {
		return nil, "", ErrEmptyConfigName
	}

	configPath, err := Resolve(nameOrPath)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, configPath, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, configPath, fmt.Errorf("reading config file: %w", err)
	}

	var cfg deck2pdf.Config
	if err := yamlutil.Unmarshal(data, &cfg); err != nil {
		return nil, configPath, fmt.Errorf("%w: %s: %v", ErrConfigParse, yamlutil.FormatOf(configPath), err)
	}
	return &cfg, configPath, nil
}

// Resolve returns the path a name or path refers to.
// Tries extensions in order: .json, .yaml, .yml
func Resolve(nameOrPath string) (string, error) {
	if isFilePath(nameOrPath) {
		return nameOrPath, nil
	}
	if fileExists(nameOrPath) && hasKnownExtension(nameOrPath) {
		return nameOrPath, nil
	}

	triedPaths := make([]string, 0, len(Extensions))
	for _, ext := range Extensions {
		path := nameOrPath + ext
		if fileExists(path) {
			return path, nil
		}
		triedPaths = append(triedPaths, path)
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// Candidates returns the paths Resolve looks at for nameOrPath, in order.
func Candidates(nameOrPath string) []string {
	if isFilePath(nameOrPath) {
		return []string{nameOrPath}
	}
	out := make([]string, 0, len(Extensions)+1)
	if hasKnownExtension(nameOrPath) {
		out = append(out, nameOrPath)
	}
	for _, ext := range Extensions {
		out = append(out, nameOrPath+ext)
	}
	return out
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

func hasKnownExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
