package shape

import (
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// crossStrokeWidth is the default stroke width of NewCross lines.
const crossStrokeWidth = 6.0

// NewSurroundingRectangle builds an outline around target's bounding box,
// buff away from it on every side.
func NewSurroundingRectangle(target scene.Entity, buff float64, opts ...Option) (*Shape, error) {
	tb := target.Base()
	w, h := tb.Width()+2*buff, tb.Height()+2*buff
	if err := validateExtent("surrounding rectangle", w, h); err != nil {
		return nil, err
	}
	vertices := []geom.Point{
		geom.Pt(w/2, h/2), geom.Pt(-w/2, h/2), geom.Pt(-w/2, -h/2), geom.Pt(w/2, -h/2),
	}
	v := Variant{Kind: KindSurroundingRectangle, Width: w, Height: h, Buff: buff}
	s, err := newPolygon(v, vertices, style.Stroked(style.Yellow), opts)
	if err != nil {
		return nil, err
	}
	if err := s.MoveTo(tb); err != nil {
		return nil, err
	}
	return s, nil
}

// NewCross builds two red diagonals spanning target's bounding box.
func NewCross(target scene.Entity, opts ...Option) (*scene.Group, error) {
	opts = append([]Option{WithStyle(style.Style{Stroke: style.Red, StrokeWidth: crossStrokeWidth})}, opts...)
	down, err := NewLine(AtPoint(geom.UL), AtPoint(geom.DR), opts...)
	if err != nil {
		return nil, err
	}
	up, err := NewLine(AtPoint(geom.UR), AtPoint(geom.DL), opts...)
	if err != nil {
		return nil, err
	}
	g, err := scene.NewGroup(down, up)
	if err != nil {
		return nil, err
	}
	tb := target.Base()
	if err := g.StretchToFitWidth(tb.Width()); err != nil {
		return nil, err
	}
	if err := g.StretchToFitHeight(tb.Height()); err != nil {
		return nil, err
	}
	if err := g.MoveTo(tb); err != nil {
		return nil, err
	}
	return g, nil
}
