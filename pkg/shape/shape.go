// Package shape builds path-based diagram entities: polygons, arcs, circles,
// lines and arrows.
//
// Every builder returns a [Shape]: a [Path] buffer plus a [Variant] recording
// how it was constructed. There is one concrete shape type; triangles,
// squares and arcs differ only in the builder that produced their points.
//
//	sq := shape.NewSquare(2, shape.WithStyle(style.Filled(style.Blue)))
//	c := shape.NewCircle(1)
//	if err := c.NextTo(sq, geom.Right, scene.WithBuff(1)); err != nil {
//	    return err
//	}
//	arrow, err := shape.NewArrow(shape.AtEntity(sq), shape.AtEntity(c))
package shape

import (
	"math"

	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// Kind names the builder that produced a shape.
type Kind int

const (
	KindCustom Kind = iota
	KindPolyline
	KindPolygon
	KindRectangle
	KindSquare
	KindRegularPolygon
	KindTriangle
	KindArc
	KindCircle
	KindDot
	KindLine
	KindArrow
	KindArrowTip
	KindSurroundingRectangle
)

var kindNames = map[Kind]string{
	KindCustom:               "custom",
	KindPolyline:             "polyline",
	KindPolygon:              "polygon",
	KindRectangle:            "rectangle",
	KindSquare:               "square",
	KindRegularPolygon:       "regular_polygon",
	KindTriangle:             "triangle",
	KindArc:                  "arc",
	KindCircle:               "circle",
	KindDot:                  "dot",
	KindLine:                 "line",
	KindArrow:                "arrow",
	KindArrowTip:             "arrow_tip",
	KindSurroundingRectangle: "surrounding_rectangle",
}

// String returns the snake_case kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Variant records the construction parameters of a shape. The values
// describe the shape as built; later transforms change the points but not
// the variant.
type Variant struct {
	Kind Kind

	Width, Height float64 // rectangle; square side in both
	N             int     // regular polygon vertex count
	Radius        float64 // regular polygon circumradius, arc radius
	StartAngle    float64 // regular polygon, arc
	Angle         float64 // arc sweep
	Components    int     // arc anchor count
	Center        geom.Point
	CornerRadius  float64
	Buff          float64 // line end gap
	TipLength     float64 // arrow
	TipWidth      float64 // arrow
}

// Shape is a path-based entity.
type Shape struct {
	scene.Node

	Style   style.Style
	variant Variant
	path    Path

	// vertices are the polygon corners the points were generated from. They
	// are transformed together with the points.
	vertices []geom.Point
	rounded  bool
}

var _ scene.Positionable = (*Shape)(nil)

// New wraps a raw point buffer in a shape of kind [KindCustom].
func New(points []geom.Point, closed bool, opts ...Option) (*Shape, error) {
	s := &Shape{}
	s.init(Variant{Kind: KindCustom}, closed, nil, style.Stroked(style.White), opts)
	if err := s.path.SetPoints(points); err != nil {
		return nil, err
	}
	s.Bind(s)
	return s, nil
}

func (s *Shape) init(v Variant, closed bool, vertices []geom.Point, def style.Style, opts []Option) options {
	o := applyOptions(opts)
	s.variant = v
	s.path = Path{closed: closed}
	s.vertices = geom.Clone(vertices)
	s.Style = def.Merge(o.style)
	if o.color != "" {
		s.Style = s.Style.WithColor(o.color)
	}
	if o.zSet {
		s.ZIndex = o.z
	}
	return o
}

// Variant returns the construction parameters.
func (s *Shape) Variant() Variant { return s.variant }

// Kind returns the builder that produced the shape.
func (s *Shape) Kind() Kind { return s.variant.Kind }

// Points returns a copy of the bezier point buffer.
func (s *Shape) Points() []geom.Point { return s.path.Points() }

// SetPoints replaces the bezier point buffer; the bounding polygon follows.
func (s *Shape) SetPoints(pts []geom.Point) error { return s.path.SetPoints(pts) }

// AppendPoints adds whole quads to the path.
func (s *Shape) AppendPoints(pts []geom.Point) error { return s.path.AppendPoints(pts) }

// Closed reports whether the path is closed.
func (s *Shape) Closed() bool { return s.path.Closed() }

// Path returns the underlying path for read access.
func (s *Shape) Path() *Path { return &s.path }

// Vertices returns a copy of the polygon corners, or nil for shapes not
// built from vertices.
func (s *Shape) Vertices() []geom.Point { return geom.Clone(s.vertices) }

// Rounded reports whether corner rounding has been applied.
func (s *Shape) Rounded() bool { return s.rounded }

// BoundingPolygon implements [scene.Entity].
func (s *Shape) BoundingPolygon() []geom.Point { return s.path.BoundingPolygon() }

// PaintStyle returns the style for in-place edits.
func (s *Shape) PaintStyle() *style.Style { return &s.Style }

// ApplyTransform implements [scene.Entity]. Points and vertices move
// together. Lines also scale their stroke width.
func (s *Shape) ApplyTransform(t scene.Transform) error {
	pts, err := t.Points(s.path.points)
	if err != nil {
		return err
	}
	if len(s.vertices) > 0 {
		if s.vertices, err = t.Points(s.vertices); err != nil {
			return err
		}
	}
	if t.Op == scene.OpScale && (s.variant.Kind == KindLine || s.variant.Kind == KindArrow) {
		s.Style.StrokeWidth *= math.Abs(t.Factor)
	}
	return s.path.SetPoints(pts)
}

// SetVertices regenerates the points from new vertices using straight edges.
// Closed shapes get a closing edge back to the first vertex.
func (s *Shape) SetVertices(vertices []geom.Point) error {
	s.vertices = geom.Clone(vertices)
	s.rounded = false
	return s.path.SetPoints(edgePoints(vertices, s.path.closed))
}

// edgePoints builds one straight quad per consecutive vertex pair.
func edgePoints(vertices []geom.Point, closed bool) []geom.Point {
	n := len(vertices)
	if n < 2 {
		return nil
	}
	edges := n - 1
	if closed {
		edges = n
	}
	pts := make([]geom.Point, 0, edges*geom.PointsPerCurve)
	for i := 0; i < edges; i++ {
		q := geom.LineQuad(vertices[i], vertices[(i+1)%n])
		pts = append(pts, q[:]...)
	}
	return pts
}

// SetColor recolors every shape in e's family that paints a fill or stroke.
func SetColor(e scene.Entity, c style.Color) {
	for _, m := range e.Base().Family() {
		if st, ok := m.(interface{ PaintStyle() *style.Style }); ok {
			*st.PaintStyle() = st.PaintStyle().WithColor(c)
		}
	}
}

// SetOpacity sets the opacity of every styled member of e's family.
func SetOpacity(e scene.Entity, opacity float64) {
	for _, m := range e.Base().Family() {
		if st, ok := m.(interface{ PaintStyle() *style.Style }); ok {
			*st.PaintStyle() = st.PaintStyle().WithOpacity(opacity)
		}
	}
}
