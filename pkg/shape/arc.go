package shape

import (
	"math"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// NewArc builds a circular arc of the given radius sweeping angle radians
// counter-clockwise from startAngle. The arc is closed only for a full turn.
// It is approximated by [WithComponents] anchors (default 30), which also
// makes the bounding polygon accurate enough for ray intersection.
func NewArc(radius, startAngle, angle float64, opts ...Option) (*Shape, error) {
	return newArc(KindArc, radius, startAngle, angle, style.Stroked(style.White), opts)
}

// NewCircle builds a full circle of the given radius.
func NewCircle(radius float64, opts ...Option) (*Shape, error) {
	return newArc(KindCircle, radius, 0, geom.Tau, style.Filled(style.Blue), opts)
}

// NewDot builds a small filled circle centered on p. A non-positive radius
// selects [DefaultDotRadius].
func NewDot(p geom.Point, radius float64, opts ...Option) (*Shape, error) {
	if radius <= 0 {
		radius = DefaultDotRadius
	}
	opts = append([]Option{WithCenter(p)}, opts...)
	return newArc(KindDot, radius, 0, geom.Tau, style.Filled(style.White), opts)
}

// NewArcBetweenPoints builds the counter-clockwise arc from start to end that
// sweeps angle radians. When angle is zero it is derived from radius instead;
// radius must then be at least half the chord.
func NewArcBetweenPoints(start, end geom.Point, angle, radius float64, opts ...Option) (*Shape, error) {
	center, r, startAngle, sweep, err := arcThrough(start, end, angle, radius)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithCenter(center)}, opts...)
	return newArc(KindArc, r, startAngle, sweep, style.Stroked(style.White), opts)
}

func newArc(kind Kind, radius, startAngle, angle float64, def style.Style, opts []Option) (*Shape, error) {
	if err := errors.ValidateFinite("arc", radius, startAngle, angle); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "arc radius must be positive, got %g", radius)
	}
	if angle > geom.Tau {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "arc angle %g exceeds a full turn", angle)
	}
	s := &Shape{}
	o := s.init(Variant{}, angle == geom.Tau, nil, def, opts)
	if o.components < 2 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "arc needs at least 2 components, got %d", o.components)
	}
	s.variant = Variant{
		Kind:       kind,
		Radius:     radius,
		StartAngle: startAngle,
		Angle:      angle,
		Components: o.components,
		Center:     o.center,
	}
	if err := s.path.SetPoints(arcPoints(radius, startAngle, angle, o.components, o.center)); err != nil {
		return nil, err
	}
	s.Bind(s)
	return s, nil
}

// arcPoints approximates an arc with components anchors. Each quad's handles
// lie on the tangents at its anchors, a third of the step angle away.
func arcPoints(radius, startAngle, angle float64, components int, center geom.Point) []geom.Point {
	step := angle / float64(components-1)
	anchor := func(i int) (geom.Point, geom.Point) {
		a := startAngle + float64(i)*step
		p := geom.Pt(math.Cos(a), math.Sin(a))
		return p, geom.Pt(-p.Y, p.X)
	}
	pts := make([]geom.Point, 0, (components-1)*geom.PointsPerCurve)
	a0, t0 := anchor(0)
	for i := 1; i < components; i++ {
		a1, t1 := anchor(i)
		pts = append(pts,
			a0,
			a0.Add(t0.Mul(step/3)),
			a1.Sub(t1.Mul(step/3)),
			a1,
		)
		a0, t0 = a1, t1
	}
	for i := range pts {
		pts[i] = pts[i].Mul(radius).Add(center)
	}
	return pts
}

// arcThrough solves for the circle carrying a counter-clockwise arc from
// start to end.
func arcThrough(start, end geom.Point, angle, radius float64) (center geom.Point, r, startAngle, sweep float64, err error) {
	chord := end.Sub(start)
	length := chord.Norm()
	if length == 0 {
		return geom.Point{}, 0, 0, 0, errors.New(errors.ErrCodeInvalidArgument, "arc endpoints coincide")
	}
	if angle == 0 {
		if radius < length/2 {
			return geom.Point{}, 0, 0, 0, errors.New(errors.ErrCodeInvalidArgument,
				"radius %g is shorter than half the chord %g", radius, length/2)
		}
		angle = 2 * math.Asin(length/(2*radius))
	}
	if angle <= 0 || angle >= geom.Tau {
		return geom.Point{}, 0, 0, 0, errors.New(errors.ErrCodeInvalidArgument,
			"arc angle between points must be in (0, 2π), got %g", angle)
	}
	dir := chord.Div(length)
	mid := start.Add(end).Div(2)
	center = mid.Add(dir.Perp().Mul((length / 2) / math.Tan(angle/2)))
	r = length / (2 * math.Sin(angle/2))
	return center, r, geom.AngleFromVector(start.Sub(center)), angle, nil
}
