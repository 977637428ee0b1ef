package plot

import (
	"math"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
)

// DefaultBraceDepth is the distance from a brace's ends to its tip.
const DefaultBraceDepth = 0.25

// kappa places cubic handles that approximate a quarter circle.
const kappa = 0.5523

// tipAnchor is the index of the tip in a brace's point buffer: the end of
// its third quad.
const tipAnchor = 3*geom.PointsPerCurve - 1

// Brace is a curly bracket spanning two points. Seen from its start
// looking toward its end, the tip points to the right.
type Brace struct {
	scene.Node

	outline *shape.Shape
	label   scene.Entity
}

var _ scene.Positionable = (*Brace)(nil)

// NewBrace spans start to end. The brace is DefaultBraceDepth deep, or
// shallower when the span is too short to fit both curls.
func NewBrace(start, end geom.Point, opts ...shape.Option) (*Brace, error) {
	if err := errors.ValidateFinite("brace endpoint", start.X, start.Y, end.X, end.Y); err != nil {
		return nil, err
	}
	w := end.Distance(start)
	if w == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "brace endpoints coincide at %v", start)
	}
	r := math.Min(DefaultBraceDepth/2, w/4)
	k := kappa * r

	a, b := geom.Pt(-w/2, 0), geom.Pt(-w/2+r, -r)
	c, tip := geom.Pt(-r, -r), geom.Pt(0, -2*r)
	c2, b2, a2 := geom.Pt(r, -r), geom.Pt(w/2-r, -r), geom.Pt(w/2, 0)
	quads := []geom.Quad{
		{a, a.Add(geom.Pt(0, -k)), b.Add(geom.Pt(-k, 0)), b},
		geom.LineQuad(b, c),
		{c, c.Add(geom.Pt(k, 0)), tip.Add(geom.Pt(0, k)), tip},
		{tip, tip.Add(geom.Pt(0, k)), c2.Add(geom.Pt(-k, 0)), c2},
		geom.LineQuad(c2, b2),
		{b2, b2.Add(geom.Pt(k, 0)), a2.Add(geom.Pt(0, -k)), a2},
	}
	outline, err := shape.New(geom.Flatten(quads), false, opts...)
	if err != nil {
		return nil, err
	}
	if err := outline.Rotate(geom.AngleFromVector(end.Sub(start)), geom.ZAxis, geom.Origin); err != nil {
		return nil, err
	}
	if err := outline.Shift(start.Add(end).Div(2)); err != nil {
		return nil, err
	}

	br := &Brace{outline: outline}
	br.Bind(br)
	if err := br.Add(outline); err != nil {
		return nil, err
	}
	return br, nil
}

// NewBraceForEdge spans one side of target's bounding box, buff away from
// it, with the tip pointing away along edge. edge must be UP, DOWN, LEFT or
// RIGHT.
func NewBraceForEdge(target scene.Entity, edge geom.Point, buff float64, opts ...shape.Option) (*Brace, error) {
	var from, to geom.Point
	switch edge {
	case geom.Down:
		from, to = geom.DL, geom.DR
	case geom.Up:
		from, to = geom.UR, geom.UL
	case geom.Left:
		from, to = geom.UL, geom.DL
	case geom.Right:
		from, to = geom.DR, geom.UR
	default:
		return nil, errors.New(errors.ErrCodeInvalidDirection, "brace edge %v is not UP, DOWN, LEFT or RIGHT", edge)
	}
	n := target.Base()
	start, err := n.Corner(from)
	if err != nil {
		return nil, err
	}
	end, err := n.Corner(to)
	if err != nil {
		return nil, err
	}
	off := edge.Mul(buff)
	return NewBrace(start.Add(off), end.Add(off), opts...)
}

// Outline returns the brace path.
func (b *Brace) Outline() *shape.Shape { return b.outline }

// Start returns the first end of the brace.
func (b *Brace) Start() geom.Point {
	pts := b.outline.Points()
	return pts[0]
}

// End returns the second end of the brace.
func (b *Brace) End() geom.Point {
	pts := b.outline.Points()
	return pts[len(pts)-1]
}

// Tip returns the point of the brace.
func (b *Brace) Tip() geom.Point { return b.outline.Points()[tipAnchor] }

// Label returns the attached label, or nil.
func (b *Brace) Label() scene.Entity { return b.label }

// AddLabel places label beyond the tip, buff away from it, and makes it a
// member of the brace. The label is not rotated.
func (b *Brace) AddLabel(label scene.Entity, buff float64) error {
	tip := b.Tip()
	dir := tip.Sub(b.Start().Add(b.End()).Div(2)).Normalize()
	lb := label.Base()
	center := lb.Center()
	var half float64
	for _, p := range lb.FamilyPolygon() {
		half = math.Max(half, math.Abs(p.Sub(center).Dot(dir)))
	}
	if err := lb.MoveTo(scene.At(tip.Add(dir.Mul(buff + half)))); err != nil {
		return err
	}
	if err := b.Add(label); err != nil {
		return err
	}
	b.label = label
	return nil
}
