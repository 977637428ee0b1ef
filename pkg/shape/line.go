package shape

import (
	"math"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// Endpoint is one end of a connector: a fixed point or an entity. Entity
// endpoints are clipped to the entity's boundary.
type Endpoint struct {
	point  geom.Point
	entity scene.Entity
}

// AtPoint anchors a connector end at p.
func AtPoint(p geom.Point) Endpoint { return Endpoint{point: p} }

// AtEntity anchors a connector end on e's boundary.
func AtEntity(e scene.Entity) Endpoint { return Endpoint{entity: e} }

func (e Endpoint) rough() geom.Point {
	if e.entity != nil {
		return e.entity.Base().Center()
	}
	return e.point
}

// Line is a straight connector. Arrows are lines with a triangular tip child.
type Line struct {
	Shape
	tip *Shape
}

var _ scene.Positionable = (*Line)(nil)

// NewLine connects start and end. Entity endpoints are found by casting a
// ray between the rough centers and intersecting each entity's bounding
// polygon. [WithBuff] pulls both ends in; a buff of more than half the line
// length is an error.
func NewLine(start, end Endpoint, opts ...Option) (*Line, error) {
	return newLine(KindLine, start, end, opts)
}

// NewArrow is [NewLine] with a filled triangular tip at the end. The line is
// shortened by the tip length so the tip point lands where the line would
// have ended.
func NewArrow(start, end Endpoint, opts ...Option) (*Line, error) {
	l, err := newLine(KindArrow, start, end, opts)
	if err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	l.variant.TipLength, l.variant.TipWidth = o.tipLength, o.tipWidth
	if err := l.attachTip(); err != nil {
		return nil, err
	}
	return l, nil
}

func newLine(kind Kind, start, end Endpoint, opts []Option) (*Line, error) {
	startPt, endPt := lineAnchors(start, end)
	l := &Line{}
	o := l.init(Variant{Kind: kind}, false, nil, style.Stroked(style.White), opts)
	if err := errors.ValidateFinite("line buff", o.buff); err != nil {
		return nil, err
	}
	length := endPt.Distance(startPt)
	if 2*o.buff > length {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"buff %g is larger than half the line length %g", o.buff, length)
	}
	dir := endPt.Sub(startPt).Div(length)
	l.variant.Buff = o.buff
	q := geom.LineQuad(startPt.Add(dir.Mul(o.buff)), endPt.Sub(dir.Mul(o.buff)))
	if err := l.path.SetPoints(q[:]); err != nil {
		return nil, err
	}
	l.Bind(l)
	return l, nil
}

// lineAnchors resolves both endpoints. The start is clipped along the
// direction between the rough centers; the end is clipped along the ray from
// the resolved start, so the line leaves and enters the boundaries exactly.
func lineAnchors(start, end Endpoint) (geom.Point, geom.Point) {
	roughStart, roughEnd := start.rough(), end.rough()
	startPt := start.point
	if start.entity != nil {
		startPt = start.entity.Base().ClosestIntersection(roughStart, roughEnd.Sub(roughStart))
	}
	endPt := end.point
	if end.entity != nil {
		endPt = end.entity.Base().ClosestIntersection(startPt, roughEnd.Sub(startPt))
	}
	if startPt == endPt {
		scene.Logger().Warn("line endpoints coincide, nudging end", "point", endPt)
		endPt = endPt.Add(geom.Pt(lineNudge, lineNudge))
	}
	return startPt, endPt
}

// attachTip shortens the line by the tip length and adds the tip as a child.
func (l *Line) attachTip() error {
	tipLength, tipWidth := l.variant.TipLength, l.variant.TipWidth
	start := l.path.points[0]
	end := l.path.points[len(l.path.points)-1]
	length := end.Distance(start)
	if tipLength <= 0 || tipWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "arrow tip size must be positive, got %gx%g", tipLength, tipWidth)
	}
	if tipLength >= length {
		return errors.New(errors.ErrCodeInvalidArgument,
			"arrow tip length %g does not fit on a line of length %g", tipLength, length)
	}
	dir := end.Sub(start).Div(length)
	q := geom.LineQuad(start, start.Add(dir.Mul(length-tipLength)))
	if err := l.path.SetPoints(q[:]); err != nil {
		return err
	}

	tip, err := newTip(dir, tipLength, tipWidth, l.Style.Stroke)
	if err != nil {
		return err
	}
	if err := tip.Shift(q.End().Sub(tipBase(tip))); err != nil {
		return err
	}
	l.tip = tip
	return l.Add(tip)
}

// newTip builds a triangle of the given size pointing along dir. Its first
// vertex is the tip point.
func newTip(dir geom.Point, length, width float64, color style.Color) (*Shape, error) {
	tip, err := newRegular(KindArrowTip, 3, 1, []Option{WithStyle(style.Filled(color))})
	if err != nil {
		return nil, err
	}
	if err := tip.StretchToFitWidth(width); err != nil {
		return nil, err
	}
	if err := tip.StretchToFitHeight(length); err != nil {
		return nil, err
	}
	if err := tip.Rotate(math.Atan2(dir.Y, dir.X)-math.Pi/2, geom.ZAxis, geom.Origin); err != nil {
		return nil, err
	}
	tip.variant.TipLength, tip.variant.TipWidth = length, width
	return tip, nil
}

// tipBase is the midpoint of the edge opposite the tip point.
func tipBase(tip *Shape) geom.Point {
	return tip.vertices[1].Add(tip.vertices[2]).Div(2)
}

// Tip returns the arrow tip, or nil for a plain line.
func (l *Line) Tip() *Shape { return l.tip }

// Start returns the first point of the line.
func (l *Line) Start() geom.Point { return l.path.points[0] }

// End returns the last point of the line, or the tip point for arrows.
func (l *Line) End() geom.Point {
	if l.tip != nil {
		return l.tip.vertices[0]
	}
	return l.path.points[len(l.path.points)-1]
}

// Length returns the distance from Start to End.
func (l *Line) Length() float64 { return l.End().Distance(l.Start()) }

// Direction returns the unit vector from Start to End.
func (l *Line) Direction() geom.Point { return l.End().Sub(l.Start()).Normalize() }

// Midpoint returns the point halfway between Start and End.
func (l *Line) Midpoint() geom.Point { return l.Start().Add(l.End()).Div(2) }

// SetStartAndEnd moves the line to run from start to end. Arrows get a new
// tip at the new end.
func (l *Line) SetStartAndEnd(start, end geom.Point) error {
	if start == end {
		scene.Logger().Warn("line endpoints coincide, nudging end", "entity", l.ID, "point", end)
		end = end.Add(geom.Pt(lineNudge, lineNudge))
	}
	q := geom.LineQuad(start, end)
	if l.tip == nil {
		return l.path.SetPoints(q[:])
	}
	old := l.tip
	if err := l.path.SetPoints(q[:]); err != nil {
		return err
	}
	if err := l.attachTip(); err != nil {
		return err
	}
	l.Remove(old)
	return nil
}

// AddLabel attaches label alongside the middle of the line. The label is
// turned parallel to the line but kept upright, and placed buff away from
// the line on its left side (seen from Start), or on the right when opposite
// is set. Left and right swap for lines pointing leftwards so the label
// stays above the line.
func (l *Line) AddLabel(label scene.Entity, buff float64, opposite bool) error {
	dir := l.Direction()
	angle := geom.AngleFromVector(dir)
	turn, side := angle, 1.0
	if angle > math.Pi/2 && angle <= 3*math.Pi/2 {
		turn, side = angle-math.Pi, -1
	}
	if opposite {
		side = -side
	}

	lb := label.Base()
	if turn != 0 {
		if err := lb.RotateInPlace(turn, geom.ZAxis); err != nil {
			return err
		}
	}
	perp := dir.Perp()
	center := lb.Center()
	var half float64
	for _, p := range lb.FamilyPolygon() {
		half = math.Max(half, math.Abs(p.Sub(center).Dot(perp)))
	}
	target := l.Midpoint().Add(perp.Mul(side * (buff + half)))
	if err := lb.MoveTo(scene.At(target)); err != nil {
		return err
	}
	return l.Add(label)
}
