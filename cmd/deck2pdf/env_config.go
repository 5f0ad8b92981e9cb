package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	deck2pdf "github.com/alnah/go-deck2pdf"
)

// envPrefix marks the environment variables deck2pdf reads.
const envPrefix = "DECK2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without editing the config file.
type envConfig struct {
	ConfigPath string // DECK2PDF_CONFIG: config file name or path
	URL        string // DECK2PDF_URL: presentation URL
	OutputDir  string // DECK2PDF_OUTPUT_DIR: output directory
	Backend    string // DECK2PDF_BACKEND: rod or chromedp
}

// knownEnvVars lists valid DECK2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DECK2PDF_CONFIG":     true,
	"DECK2PDF_URL":        true,
	"DECK2PDF_OUTPUT_DIR": true,
	"DECK2PDF_BACKEND":    true,
	"DECK2PDF_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath: os.Getenv("DECK2PDF_CONFIG"),
		URL:        os.Getenv("DECK2PDF_URL"),
		OutputDir:  os.Getenv("DECK2PDF_OUTPUT_DIR"),
		Backend:    os.Getenv("DECK2PDF_BACKEND"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized DECK2PDF_* variables.
// Helps catch typos like DECK2PDF_OUTPUTDIR instead of DECK2PDF_OUTPUT_DIR.
func warnUnknownEnvVars(log logrus.FieldLogger, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			log.WithField("variable", name).Warn("unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeExportFlags).
func applyEnvConfig(env *envConfig, cfg *deck2pdf.Config) {
	if env.URL != "" {
		cfg.URL = env.URL
	}
	if env.OutputDir != "" {
		cfg.OutputDir = env.OutputDir
	}
	if env.Backend != "" {
		cfg.Browser.Backend = env.Backend
	}
}
