// Package pipeline runs diagram documents through parse → build → render.
//
// The CLI and the HTTP service both render through a [Runner] so that
// caching and format handling behave the same on every entry point.
//
// # Stages
//
//  1. Parse: decode the TOML or JSON document (pkg/diagram)
//  2. Build: draw its elements on a canvas (pkg/diagram, pkg/canvas)
//  3. Render: write the canvas as SVG, JSON, PNG or PDF (pkg/sink)
//
// Rendered artifacts are cached by the hash of the document source and the
// output format, so an unchanged document is never rebuilt.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Format:  diagram.FormatTOML,
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdraw/pkg/canvas"
	"github.com/matzehuels/stackdraw/pkg/diagram"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/text"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultPNGScale is the PNG zoom factor relative to the frame's pixel size.
const DefaultPNGScale = 1.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps each output format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// Options configures a pipeline run.
type Options struct {
	// Format is the encoding of the document source. Empty means TOML.
	Format diagram.Format `json:"format,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`

	// Metadata embeds the JSON description of the canvas in the SVG.
	Metadata bool `json:"metadata,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	TTL      time.Duration `json:"-"`
	Logger   *log.Logger   `json:"-"`
	Measurer text.Measurer `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocHash is the content hash of the document source.
	DocHash string

	// Document and Canvas are nil when every artifact came from the cache.
	Document *diagram.Document
	Canvas   *canvas.Canvas

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	EntityCount  int
	ParseTime    time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
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

// ParseFormats splits a comma-separated list. Empty means SVG.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	switch o.Format {
	case "":
		o.Format = diagram.FormatTOML
	case diagram.FormatTOML, diagram.FormatJSON:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", o.Format)
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "png scale must be positive, got %g", o.PNGScale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// formatKey distinguishes artifacts of one format rendered with different
// options.
func (o *Options) formatKey(format string) string {
	switch {
	case format == FormatPNG:
		return fmt.Sprintf("png@%g", o.PNGScale)
	case format == FormatSVG && o.Metadata:
		return "svg+metadata"
	}
	return format
}
