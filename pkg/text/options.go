package text

import (
	"strings"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/fonts"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// Defaults applied by [New].
const (
	DefaultFontSize = 48.0 // pixels
	DefaultMaxWidth = 6.0  // diagram units
	DefaultLeading  = 0.2  // fraction of the line height
	DefaultZIndex   = 1
)

// Decoration is the CSS text-decoration of a text box.
type Decoration string

const (
	DecorationNone        Decoration = "none"
	DecorationUnderline   Decoration = "underline"
	DecorationOverline    Decoration = "overline"
	DecorationLineThrough Decoration = "line-through"
)

// ParseDecoration resolves a decoration name. The empty string is
// [DecorationNone].
func ParseDecoration(s string) (Decoration, error) {
	switch d := Decoration(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DecorationNone, nil
	case DecorationNone, DecorationUnderline, DecorationOverline, DecorationLineThrough:
		return d, nil
	}
	return "", errors.New(errors.ErrCodeInvalidArgument, "unknown text decoration %q", s)
}

// Option configures a text box.
type Option func(*options)

type options struct {
	face       fonts.Face
	size       float64
	decoration Decoration
	color      style.Color
	opacity    float64
	maxWidth   float64
	padX, padY float64
	leading    float64
	heading    float64
	z          int
	measurer   Measurer
}

func applyOptions(opts []Option) options {
	o := options{
		face:       fonts.Face{Family: fonts.Sans},
		size:       DefaultFontSize,
		decoration: DecorationNone,
		color:      style.White,
		opacity:    1,
		maxWidth:   DefaultMaxWidth,
		leading:    DefaultLeading,
		z:          DefaultZIndex,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.measurer == nil {
		o.measurer = DefaultMeasurer()
	}
	return o
}

// WithFamily selects the font family.
func WithFamily(f fonts.Family) Option {
	return func(o *options) { o.face.Family = f }
}

// WithBold selects the bold style.
func WithBold(b bool) Option {
	return func(o *options) { o.face.Bold = b }
}

// WithItalic selects the italic style.
func WithItalic(i bool) Option {
	return func(o *options) { o.face.Italic = i }
}

// WithFontSize sets the font size in pixels.
func WithFontSize(px float64) Option {
	return func(o *options) { o.size = px }
}

// WithDecoration sets the text decoration.
func WithDecoration(d Decoration) Option {
	return func(o *options) { o.decoration = d }
}

// WithColor sets the text color.
func WithColor(c style.Color) Option {
	return func(o *options) { o.color = c }
}

// WithOpacity sets the text opacity.
func WithOpacity(op float64) Option {
	return func(o *options) { o.opacity = op }
}

// WithMaxWidth sets the wrapping width in diagram units.
func WithMaxWidth(w float64) Option {
	return func(o *options) { o.maxWidth = w }
}

// WithPadding sets the space between the text and its box, in diagram units.
func WithPadding(x, y float64) Option {
	return func(o *options) { o.padX, o.padY = x, y }
}

// WithLeading sets the gap between lines as a fraction of the line height.
func WithLeading(l float64) Option {
	return func(o *options) { o.leading = l }
}

// WithHeading sets the initial reading direction in radians.
func WithHeading(angle float64) Option {
	return func(o *options) { o.heading = angle }
}

// WithZIndex overrides the default z-index of 1.
func WithZIndex(z int) Option {
	return func(o *options) { o.z = z }
}

// WithMeasurer replaces the font measurer.
func WithMeasurer(m Measurer) Option {
	return func(o *options) { o.measurer = m }
}
