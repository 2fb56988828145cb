// Package pipeline provides the core load → layout → render pipeline.
//
// The same pipeline backs the CLI, the HTTP API, and the interactive
// viewer. Centralizing it keeps caching and defaulting behavior identical
// across every entry point.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: read the document JSON from a file, URL, or raw bytes and
//     normalize it
//  2. Layout: compute node positions for the document and collapsed set
//  3. Render: serialize the positioned frame into output formats
//
// Each stage can run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "summary.json",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhersch/treeline/pkg/cache"
	"github.com/mhersch/treeline/pkg/doc"
	"github.com/mhersch/treeline/pkg/errors"
	"github.com/mhersch/treeline/pkg/layout"
	"github.com/mhersch/treeline/pkg/render"
	"github.com/mhersch/treeline/pkg/viewport"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI, API, and Viewer
// =============================================================================

const (
	// DefaultWidth is the default export window width in pixels, used
	// when a format needs a window and none was given.
	DefaultWidth = 1280.0

	// DefaultHeight is the default export window height in pixels.
	DefaultHeight = 800.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for the pipeline. The struct
// serializes to JSON for API requests.
type Options struct {
	// Load options. Exactly one of Source (file path or http(s) URL)
	// or Raw (document bytes) must be set.
	Source  string `json:"source,omitempty"`
	Raw     []byte `json:"raw,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Collapsed []string `json:"collapsed,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Culled   bool     `json:"culled,omitempty"`   // restrict SVG output to the window
	Detailed bool     `json:"detailed,omitempty"` // include node content text

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Root is the normalized document.
	Root *doc.Node

	// DocHash is the content hash of the normalized document.
	DocHash string

	// Tree is the positioned tree. Nil when the layout stage was
	// served entirely from the frame cache.
	Tree *layout.Tree

	// Frame is the drawable frame derived from the layout.
	Frame *render.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	VisibleCount int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: svg, json, dot, png)", format)
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

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidViewport,
			"render window %gx%g is degenerate, dimensions must be positive", o.Width, o.Height)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" && len(o.Raw) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "source or raw document is required")
	}
	if o.Source != "" && len(o.Raw) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "source and raw document are mutually exclusive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults applies defaults for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Window returns the export camera window implied by the options: the
// top-left corner of the content at the configured pixel size.
func (o *Options) Window(bounds layout.Box) viewport.Viewport {
	return viewport.Viewport{X: bounds.X, Y: bounds.Y, Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	collapsed := append([]string(nil), o.Collapsed...)
	sort.Strings(collapsed)
	return cache.LayoutKeyOpts{Collapsed: collapsed}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Culled:   o.Culled,
		Detailed: o.Detailed,
	}
}
