// Package style holds the visual attributes attached to diagram entities.
//
// The geometry packages never interpret a Style; they carry it through
// transforms untouched (apart from stroke width, which lines scale with
// themselves) and hand it to the sinks.
package style

import "strings"

// Color is a CSS color string such as "#58C4DD" or "red". The empty string
// means "none".
type Color string

// Palette colors.
const (
	White  Color = "#FFFFFF"
	Black  Color = "#000000"
	Gray   Color = "#888888"
	Blue   Color = "#58C4DD"
	Green  Color = "#83C167"
	Yellow Color = "#FFFF00"
	Red    Color = "#FC6255"
	Purple Color = "#9A72AC"
	Pink   Color = "#D147BD"
	Orange Color = "#FF862F"
)

var named = map[string]Color{
	"white":  White,
	"black":  Black,
	"gray":   Gray,
	"grey":   Gray,
	"blue":   Blue,
	"green":  Green,
	"yellow": Yellow,
	"red":    Red,
	"purple": Purple,
	"pink":   Pink,
	"orange": Orange,
}

// ParseColor resolves palette names case-insensitively and passes any other
// value through as a raw CSS color.
func ParseColor(s string) Color {
	if c, ok := named[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return Color(strings.TrimSpace(s))
}

// None reports whether the color paints nothing.
func (c Color) None() bool { return c == "" || strings.EqualFold(string(c), "none") }

// String returns the SVG attribute value.
func (c Color) String() string {
	if c.None() {
		return "none"
	}
	return string(c)
}

// DefaultStrokeWidth is the stroke width of outlined shapes, in pixels.
const DefaultStrokeWidth = 4.0

// Style is the paint description of one entity.
type Style struct {
	Fill          Color   `json:"fill,omitempty" toml:"fill"`
	FillOpacity   float64 `json:"fill_opacity,omitempty" toml:"fill_opacity"`
	Stroke        Color   `json:"stroke,omitempty" toml:"stroke"`
	StrokeOpacity float64 `json:"stroke_opacity,omitempty" toml:"stroke_opacity"`
	StrokeWidth   float64 `json:"stroke_width,omitempty" toml:"stroke_width"`
	Dashed        bool    `json:"dashed,omitempty" toml:"dashed"`
}

// Filled returns an opaque fill-only style.
func Filled(c Color) Style {
	return Style{Fill: c, FillOpacity: 1}
}

// Stroked returns an opaque outline-only style with the default width.
func Stroked(c Color) Style {
	return Style{Stroke: c, StrokeOpacity: 1, StrokeWidth: DefaultStrokeWidth}
}

// HasFill reports whether the style paints an interior.
func (s Style) HasFill() bool { return !s.Fill.None() }

// HasStroke reports whether the style paints an outline. A style with
// neither fill nor stroke is treated as stroked so it stays visible.
func (s Style) HasStroke() bool {
	if !s.Stroke.None() {
		return true
	}
	return s.Fill.None()
}

// WithColor recolors whichever of fill and stroke are showing.
func (s Style) WithColor(c Color) Style {
	if s.HasStroke() {
		s.Stroke = c
	}
	if s.HasFill() {
		s.Fill = c
	}
	return s
}

// WithOpacity sets the opacity of the stroke if there is one, else of the fill.
func (s Style) WithOpacity(o float64) Style {
	switch {
	case !s.Stroke.None():
		s.StrokeOpacity = o
	case !s.Fill.None():
		s.FillOpacity = o
	}
	return s
}

// DashArray returns the SVG stroke-dasharray value.
func (s Style) DashArray() string {
	if s.Dashed {
		return "8 8"
	}
	return "none"
}

// Merge overlays the non-zero fields of o onto s.
func (s Style) Merge(o Style) Style {
	if o.Fill != "" {
		s.Fill = o.Fill
		if s.FillOpacity == 0 {
			s.FillOpacity = 1
		}
	}
	if o.FillOpacity != 0 {
		s.FillOpacity = o.FillOpacity
	}
	if o.Stroke != "" {
		s.Stroke = o.Stroke
		if s.StrokeOpacity == 0 {
			s.StrokeOpacity = 1
		}
		if s.StrokeWidth == 0 {
			s.StrokeWidth = DefaultStrokeWidth
		}
	}
	if o.StrokeOpacity != 0 {
		s.StrokeOpacity = o.StrokeOpacity
	}
	if o.StrokeWidth != 0 {
		s.StrokeWidth = o.StrokeWidth
	}
	if o.Dashed {
		s.Dashed = true
	}
	return s
}
