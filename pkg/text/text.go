// Package text provides the text box entity.
//
// A [Text] is positioned by its box: an axis-aligned rectangle in the text's
// own frame, turned by the heading. The box is laid out from font metrics
// reported by a [Measurer], so every layout helper in package scene works on
// text exactly as it does on shapes.
//
// Text reacts to the four primitive transforms differently from paths:
//
//   - rotating in place about the z axis turns the heading and the box
//   - rotating about a pivot moves the box center and keeps the heading
//   - scaling scales the box and the font size; a negative factor also
//     turns the heading by a half-turn
//   - stretching along x re-wraps the text to the stretched width
//   - shifting moves the box
package text

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/fonts"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// Text is a wrapped, single-style text box.
type Text struct {
	scene.Node
	Style style.Style

	content    string
	face       fonts.Face
	size       float64
	decoration Decoration
	maxWidth   float64
	padX, padY float64
	leading    float64
	heading    float64

	lines   []string
	widths  []float64 // pixels, padding included
	metrics Metrics

	center        geom.Point
	width, height float64 // unrotated, diagram units
	box           []geom.Point

	frame    config.Frame
	measurer Measurer
}

// New lays out content in frame and centers the box on the origin.
func New(content string, frame config.Frame, opts ...Option) (*Text, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "text cannot be empty")
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	if err := errors.ValidateFinite("text", o.size, o.maxWidth, o.padX, o.padY, o.leading, o.heading, o.opacity); err != nil {
		return nil, err
	}
	if o.maxWidth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "text max width must be positive, got %g", o.maxWidth)
	}
	if o.padX < 0 || o.padY < 0 || o.leading < 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "text padding and leading cannot be negative")
	}
	if _, err := ParseDecoration(string(o.decoration)); err != nil {
		return nil, err
	}
	t := &Text{
		Style:      style.Style{Fill: o.color, FillOpacity: o.opacity},
		content:    content,
		face:       o.face.Normalize(),
		size:       o.size,
		decoration: o.decoration,
		maxWidth:   o.maxWidth,
		padX:       o.padX,
		padY:       o.padY,
		leading:    o.leading,
		heading:    o.heading,
		frame:      frame,
		measurer:   o.measurer,
	}
	t.ZIndex = o.z
	t.Bind(t)
	if err := t.layout(); err != nil {
		return nil, err
	}
	return t, nil
}

// layout wraps the content at the current font size and rebuilds the box
// around the current center.
func (t *Text) layout() error {
	m, err := t.measurer.Metrics(t.face, t.size)
	if err != nil {
		return err
	}
	measure := func(s string) (float64, error) { return t.measurer.Width(s, t.face, t.size) }
	lines, widths, err := Wrap(t.content, t.frame.ToPixelLen(t.maxWidth), measure)
	if err != nil {
		return err
	}
	padPx := t.frame.ToPixelLen(t.padX)
	widest := 0.0
	for i := range widths {
		widths[i] += 2 * padPx
		widest = max(widest, widths[i])
	}
	t.lines, t.widths, t.metrics = lines, widths, m

	n := float64(len(lines))
	t.width = t.frame.ToFrameLen(widest)
	if len(lines) > 1 {
		t.width = max(t.maxWidth, t.width)
	}
	t.height = t.frame.ToFrameLen(m.LineHeight())*n + t.frame.ToFrameLen(t.LeadingPixels())*(n-1) + 2*t.padY
	t.refresh()
	return nil
}

// refresh recomputes the box from center, size and heading.
func (t *Text) refresh() {
	hw, hh := t.width/2, t.height/2
	corners := []geom.Point{geom.Pt(hw, hh), geom.Pt(-hw, hh), geom.Pt(-hw, -hh), geom.Pt(hw, -hh)}
	if t.heading != 0 {
		corners, _ = geom.RotatePoints(corners, t.heading, geom.ZAxis, geom.Origin)
	}
	t.box = geom.ShiftPoints(corners, t.center)
}

// BoundingPolygon implements [scene.Entity]: the box corners UR, UL, DL, DR
// turned by the heading.
func (t *Text) BoundingPolygon() []geom.Point { return t.box }

// CheckTransform implements [scene.TransformChecker]. A zero scale or x
// stretch would leave no width to wrap into.
func (t *Text) CheckTransform(tr scene.Transform) error {
	switch {
	case tr.Op == scene.OpScale && tr.Factor == 0:
		return errors.New(errors.ErrCodeInvalidArgument, "text %s cannot be scaled by 0", t.ID)
	case tr.Op == scene.OpStretch && tr.Dim == 0 && tr.Factor == 0:
		return errors.New(errors.ErrCodeInvalidArgument, "text %s cannot be stretched by 0 along x", t.ID)
	}
	return nil
}

// ApplyTransform implements [scene.Entity]. A negative scale is a half-turn
// of the box combined with a scale by the magnitude.
func (t *Text) ApplyTransform(tr scene.Transform) error {
	if err := t.CheckTransform(tr); err != nil {
		return err
	}
	switch tr.Op {
	case scene.OpRotate:
		if tr.InPlace && tr.Axis == geom.ZAxis {
			t.heading += tr.Angle
			break
		}
		c, err := tr.Point(t.center)
		if err != nil {
			return err
		}
		t.center = c
	case scene.OpScale:
		t.center = geom.ScalePoints([]geom.Point{t.center}, tr.Factor, tr.About)[0]
		f := math.Abs(tr.Factor)
		t.size *= f
		t.maxWidth *= f
		t.padX *= f
		t.padY *= f
		t.width *= f
		t.height *= f
		t.metrics.Ascent *= f
		t.metrics.Descent *= f
		for i := range t.widths {
			t.widths[i] *= f
		}
		if tr.Factor < 0 {
			t.heading = math.Remainder(t.heading+math.Pi, 2*math.Pi)
		}
	case scene.OpStretch:
		t.center = t.center.WithComponent(tr.Dim, t.center.Component(tr.Dim)*tr.Factor)
		if tr.Dim != 0 {
			break
		}
		// glyphs are never mirrored; only the wrap width follows the stretch
		t.maxWidth = t.width * math.Abs(tr.Factor)
		return t.layout()
	case scene.OpShift:
		t.center = t.center.Add(tr.Vector)
	}
	t.refresh()
	return nil
}

// Content returns the raw text.
func (t *Text) Content() string { return t.content }

// SetContent replaces the text and re-wraps it around the current center.
func (t *Text) SetContent(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "text cannot be empty")
	}
	t.content = s
	return t.layout()
}

// Lines returns the wrapped lines.
func (t *Text) Lines() []string { return slices.Clone(t.lines) }

// LineWidths returns the pixel width of each line, padding included.
func (t *Text) LineWidths() []float64 { return slices.Clone(t.widths) }

// Face returns the font face.
func (t *Text) Face() fonts.Face { return t.face }

// FontSize returns the font size in pixels.
func (t *Text) FontSize() float64 { return t.size }

// Decoration returns the text decoration.
func (t *Text) Decoration() Decoration { return t.decoration }

// Heading returns the reading direction in radians.
func (t *Text) Heading() float64 { return t.heading }

// SetHeading turns the box in place to the given heading. Children are not
// affected.
func (t *Text) SetHeading(angle float64) error {
	if err := errors.ValidateFinite("heading", angle); err != nil {
		return err
	}
	t.heading = angle
	t.refresh()
	return nil
}

// MaxWidth returns the wrapping width in diagram units.
func (t *Text) MaxWidth() float64 { return t.maxWidth }

// Metrics returns the line metrics in pixels at the current size.
func (t *Text) Metrics() Metrics { return t.metrics }

// LeadingPixels returns the gap between lines in pixels.
func (t *Text) LeadingPixels() float64 { return t.metrics.LineHeight() * t.leading }

// PaddingPixels returns the horizontal and vertical padding in pixels.
func (t *Text) PaddingPixels() (x, y float64) {
	return t.frame.ToPixelLen(t.padX), t.frame.ToPixelLen(t.padY)
}

// BoxCenter returns the center of the box, ignoring children.
func (t *Text) BoxCenter() geom.Point { return t.center }

// Anchor returns the upper-left corner of the box before the heading is
// applied. Sinks draw the lines from here and then turn them about
// [Text.BoxCenter].
func (t *Text) Anchor() geom.Point {
	return t.center.Add(geom.Pt(-t.width/2, t.height/2))
}

// Size returns the unrotated box width and height.
func (t *Text) Size() (w, h float64) { return t.width, t.height }

// Color returns the text color.
func (t *Text) Color() style.Color { return t.Style.Fill }

// PaintStyle returns the style for in-place edits.
func (t *Text) PaintStyle() *style.Style { return &t.Style }

// String returns the content, for logs.
func (t *Text) String() string { return "Text(" + t.content + ")" }
