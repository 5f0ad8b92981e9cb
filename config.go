package deck2pdf

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
)

// Variant tags the numbering convention of a slide's secondary states.
type Variant string

// Sub-state variants.
const (
	VariantNone     Variant = ""
	VariantSubSlide Variant = "subSlide" // zero-based, range [0, max]
	VariantStep     Variant = "step"     // one-based, range [1, max]
)

// Browser backends.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
)

// Default values merged over absent config fields.
const (
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
	DefaultAnimationWait  = 800  // ms
	DefaultSlideWait      = 1000 // ms
	DefaultSubSlideWait   = 1500 // ms
	DefaultOutputDir      = "deck-export"
	DefaultPDFName        = "presentation.pdf"
	DefaultFormat         = "A4"
	DefaultOrientation    = "landscape"

	DefaultProgressSelector = "[data-current]"
	DefaultProgressAttr     = "data-current"
	DefaultContentSelector  = "main"
	DefaultHeaderSelector   = "header"
	DefaultNavSelector      = "nav"
	DefaultTerminalSelector = ".terminal"
)

// Config drives one export run. It is read once and never mutated afterwards;
// components receive it explicitly.
type Config struct {
	URL         string                   `json:"url" yaml:"url"`
	TotalSlides int                      `json:"totalSlides" yaml:"totalSlides"`
	SubSlides   map[string]SubSlideSpec  `json:"subSlides,omitempty" yaml:"subSlides"`
	Format      string                   `json:"format,omitempty" yaml:"format"`           // recorded in PDF metadata
	Orientation string                   `json:"orientation,omitempty" yaml:"orientation"` // recorded in PDF metadata
	HideUI      bool                     `json:"hideUI" yaml:"hideUI"`
	Waits       Waits                    `json:"waits" yaml:"waits"`
	Viewport    Viewport                 `json:"viewport" yaml:"viewport"`
	Selectors   Selectors                `json:"selectors" yaml:"selectors"`
	Special     map[string]SpecialTiming `json:"special,omitempty" yaml:"special"`
	OutputDir   string                   `json:"outputDir,omitempty" yaml:"outputDir"`
	PDFName     string                   `json:"pdfName,omitempty" yaml:"pdfName"`
	Browser     BrowserConfig            `json:"browser,omitempty" yaml:"browser"`
}

// SubSlideSpec describes the secondary states of one slide.
type SubSlideSpec struct {
	Type Variant `json:"type" yaml:"type"`
	Max  int     `json:"max" yaml:"max"`
}

// First returns the first state index of the range.
func (s SubSlideSpec) First() int {
	if s.Type == VariantStep {
		return 1
	}
	return 0
}

// Last returns the last state index of the range.
func (s SubSlideSpec) Last() int {
	return s.Max
}

// Count returns the number of states in the range, zero when empty.
func (s SubSlideSpec) Count() int {
	if n := s.Last() - s.First() + 1; n > 0 {
		return n
	}
	return 0
}

// Waits holds the navigation settle durations in milliseconds.
type Waits struct {
	Animation int `json:"animation" yaml:"animation"`
	Slide     int `json:"slide" yaml:"slide"`
	SubSlide  int `json:"subSlide" yaml:"subSlide"`
}

// Viewport is the browser window size in CSS pixels.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Selectors locate the presentation chrome. ProgressAttr names the numeric
// attribute of the progress element holding the current slide index.
type Selectors struct {
	Progress         string `json:"progress" yaml:"progress"`
	ProgressAttr     string `json:"progressAttr" yaml:"progressAttr"`
	ProgressOneBased bool   `json:"progressOneBased,omitempty" yaml:"progressOneBased"`
	Content          string `json:"content" yaml:"content"`
	Header           string `json:"header" yaml:"header"`
	Nav              string `json:"nav" yaml:"nav"`
	Terminal         string `json:"terminal" yaml:"terminal"`
}

// SpecialTiming overrides readiness for one slide, typically one with a
// typed-text effect. Zero fields fall back to the defaults.
type SpecialTiming struct {
	ExtraWait   int    `json:"extraWait" yaml:"extraWait"`               // ms slept after the poll
	PollTimeout int    `json:"pollTimeout,omitempty" yaml:"pollTimeout"` // ms, default 3000
	Terminal    string `json:"terminal,omitempty" yaml:"terminal"`       // overrides selectors.terminal
	MinChildren int    `json:"minChildren,omitempty" yaml:"minChildren"` // default 20
}

// BrowserConfig selects and tunes the browser backend.
type BrowserConfig struct {
	Backend   string `json:"backend,omitempty" yaml:"backend"` // "rod" (default) or "chromedp"
	Bin       string `json:"bin,omitempty" yaml:"bin"`
	NoSandbox bool   `json:"noSandbox,omitempty" yaml:"noSandbox"`
}

// DefaultConfig returns a config with every optional field set.
// URL and TotalSlides are left for the caller.
func DefaultConfig() *Config {
	return &Config{
		Format:      DefaultFormat,
		Orientation: DefaultOrientation,
		Waits: Waits{
			Animation: DefaultAnimationWait,
			Slide:     DefaultSlideWait,
			SubSlide:  DefaultSubSlideWait,
		},
		Viewport: Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		Selectors: Selectors{
			Progress:     DefaultProgressSelector,
			ProgressAttr: DefaultProgressAttr,
			Content:      DefaultContentSelector,
			Header:       DefaultHeaderSelector,
			Nav:          DefaultNavSelector,
			Terminal:     DefaultTerminalSelector,
		},
		OutputDir: DefaultOutputDir,
		PDFName:   DefaultPDFName,
		Browser:   BrowserConfig{Backend: BackendRod},
	}
}

// WithDefaults returns a copy of c with defaults merged over absent fields.
// The receiver is not modified.
func (c *Config) WithDefaults() *Config {
	d := DefaultConfig()
	out := *c
	out.SubSlides = maps.Clone(c.SubSlides)
	out.Special = maps.Clone(c.Special)

	setString(&out.Format, d.Format)
	setString(&out.Orientation, d.Orientation)
	setInt(&out.Waits.Animation, d.Waits.Animation)
	setInt(&out.Waits.Slide, d.Waits.Slide)
	setInt(&out.Waits.SubSlide, d.Waits.SubSlide)
	setInt(&out.Viewport.Width, d.Viewport.Width)
	setInt(&out.Viewport.Height, d.Viewport.Height)
	setString(&out.Selectors.Progress, d.Selectors.Progress)
	setString(&out.Selectors.ProgressAttr, d.Selectors.ProgressAttr)
	setString(&out.Selectors.Content, d.Selectors.Content)
	setString(&out.Selectors.Header, d.Selectors.Header)
	setString(&out.Selectors.Nav, d.Selectors.Nav)
	setString(&out.Selectors.Terminal, d.Selectors.Terminal)
	setString(&out.OutputDir, d.OutputDir)
	setString(&out.PDFName, d.PDFName)
	setString(&out.Browser.Backend, d.Browser.Backend)

	if !strings.HasSuffix(strings.ToLower(out.PDFName), ".pdf") {
		out.PDFName += ".pdf"
	}
	return &out
}

func setString(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}

// Validate checks the required fields and the tagged values.
// Sub-slide indices outside [0, totalSlides) are accepted: the export loop
// never reaches them.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("%w: url is required", ErrConfigInvalid)
	}
	if c.TotalSlides <= 0 {
		return fmt.Errorf("%w: totalSlides must be positive, got %d", ErrConfigInvalid, c.TotalSlides)
	}
	for key, spec := range c.SubSlides {
		if _, err := strconv.Atoi(key); err != nil {
			return fmt.Errorf("%w: subSlides key %q is not a slide index", ErrConfigInvalid, key)
		}
		if spec.Type != VariantSubSlide && spec.Type != VariantStep {
			return fmt.Errorf("%w: subSlides[%s].type: invalid value %q (must be subSlide or step)",
				ErrConfigInvalid, key, spec.Type)
		}
	}
	for key := range c.Special {
		if _, err := strconv.Atoi(key); err != nil {
			return fmt.Errorf("%w: special key %q is not a slide index", ErrConfigInvalid, key)
		}
	}
	switch c.Browser.Backend {
	case "", BackendRod, BackendChromedp:
	default:
		return fmt.Errorf("%w: browser.backend: invalid value %q (must be rod or chromedp)",
			ErrConfigInvalid, c.Browser.Backend)
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("%w: viewport must not be negative", ErrConfigInvalid)
	}
	return nil
}

// SubSlideFor returns the sub-state spec of a zero-based slide index.
// Specs with an empty range are reported as absent.
func (c *Config) SubSlideFor(slide int) (SubSlideSpec, bool) {
	spec, ok := c.SubSlides[strconv.Itoa(slide)]
	if !ok || spec.Count() == 0 {
		return SubSlideSpec{}, false
	}
	return spec, true
}

// SpecialFor returns the timing override of a zero-based slide index.
func (c *Config) SpecialFor(slide int) (SpecialTiming, bool) {
	s, ok := c.Special[strconv.Itoa(slide)]
	return s, ok
}

// PageCount returns the number of pages an export of c produces.
func (c *Config) PageCount() int {
	n := 0
	for slide := 0; slide < c.TotalSlides; slide++ {
		if spec, ok := c.SubSlideFor(slide); ok {
			n += spec.Count()
		} else {
			n++
		}
	}
	return n
}

// InertSubSlides returns sub-slide keys the export loop never reaches.
func (c *Config) InertSubSlides() []string {
	var keys []string
	for key := range c.SubSlides {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= c.TotalSlides {
			keys = append(keys, key)
		}
	}
	return keys
}

// millis converts a config duration in milliseconds.
func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
