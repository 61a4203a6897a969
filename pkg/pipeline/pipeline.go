// Package pipeline runs scenes through load → solve → render with caching.
//
// The CLI and the HTTP server both go through a [Runner] so that defaults,
// cache keys and logging stay identical across entry points.
//
// # Stages
//
//  1. Load: read a scene document (YAML, TOML or JSON) and hash it
//  2. Solve: build the stage and lay it out at the requested size
//  3. Render: produce artifacts (SVG, PNG, PDF, JSON, DOT)
//
// Solved layouts are cached by scene hash and layout options; artifacts by
// layout hash and render options. The pull graph (DOT) is keyed by the
// scene itself since it does not depend on the solved geometry unless the
// detailed view is requested.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "card.yaml",
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnet/pkg/cache"
	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/scene"
)

const (
	// DefaultStyle is the default SVG style.
	DefaultStyle = "simple"

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidStyles is the set of supported SVG styles.
var ValidStyles = map[string]bool{
	"simple":    true,
	"blueprint": true,
}

// Options configures a pipeline run. It doubles as the JSON body of the
// server's render endpoint.
type Options struct {
	// Input: either a scene file path or an already parsed document.
	Path     string          `json:"-"`
	Document *scene.Document `json:"scene,omitempty"`

	// Layout options. Zero sizes fall back to the scene's stage size.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Policy string  `json:"policy,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Margins     bool     `json:"margins,omitempty"`
	Guides      bool     `json:"guides,omitempty"`
	Interaction bool     `json:"interaction,omitempty"`
	Scale       float64  `json:"scale,omitempty"`

	// Pull graph options (dot format)
	Detailed   bool `json:"detailed,omitempty"`
	Horizontal bool `json:"horizontal,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Document  *scene.Document
	SceneHash string
	Layout    layout.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	ViewCount    int
	LoadTime     time.Duration
	SolveTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // solved layout came from cache
	RenderHit bool // every artifact came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid style: %q (must be one of: simple, blueprint)", style)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" && o.Document == nil {
		return errors.New(errors.ErrCodeInvalidInput, "a scene path or document is required")
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must not be negative, got %vx%v", o.Width, o.Height)
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for solving.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: o.Width, Height: o.Height, Policy: o.Policy}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Style,
		Margins:     o.Margins,
		Guides:      o.Guides,
		Interaction: o.Interaction,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// GraphKeyOpts returns cache key options for the pull graph.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{Format: FormatDOT, Detailed: o.Detailed, Horizontal: o.Horizontal}
}
