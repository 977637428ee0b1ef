package geom

import (
	"math"
	"sort"

	"github.com/matzehuels/stackdraw/pkg/errors"
)

// PointsPerCurve is the number of points in one cubic bezier quad:
// anchor, handle, handle, anchor.
const PointsPerCurve = 4

// Quad is one cubic bezier segment.
type Quad [PointsPerCurve]Point

// Start returns the first anchor.
func (q Quad) Start() Point { return q[0] }

// End returns the last anchor.
func (q Quad) End() Point { return q[3] }

// Eval evaluates the cubic at parameter t using the Bernstein form.
func (q Quad) Eval(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return q[0].Mul(a).Add(q[1].Mul(b)).Add(q[2].Mul(c)).Add(q[3].Mul(d))
}

// Quads chunks a flat point sequence into quads. The length must be a
// multiple of [PointsPerCurve]; anything else is an INVALID_ARGUMENT error.
func Quads(pts []Point) ([]Quad, error) {
	if len(pts)%PointsPerCurve != 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"point count %d is not divisible by %d", len(pts), PointsPerCurve)
	}
	quads := make([]Quad, 0, len(pts)/PointsPerCurve)
	for i := 0; i < len(pts); i += PointsPerCurve {
		quads = append(quads, Quad{pts[i], pts[i+1], pts[i+2], pts[i+3]})
	}
	return quads, nil
}

// Flatten concatenates quads back into a flat point sequence.
func Flatten(quads []Quad) []Point {
	pts := make([]Point, 0, len(quads)*PointsPerCurve)
	for _, q := range quads {
		pts = append(pts, q[:]...)
	}
	return pts
}

// StartAnchors returns the first point of every quad (offset 0, stride 4).
func StartAnchors(pts []Point) []Point {
	return strided(pts, 0)
}

// EndAnchors returns the last point of every quad (offset 3, stride 4).
func EndAnchors(pts []Point) []Point {
	return strided(pts, PointsPerCurve-1)
}

func strided(pts []Point, offset int) []Point {
	out := make([]Point, 0, len(pts)/PointsPerCurve)
	for i := offset; i < len(pts); i += PointsPerCurve {
		out = append(out, pts[i])
	}
	return out
}

// LineQuad returns a degenerate cubic for the straight segment start→end,
// with its handles at 1/3 and 2/3 along the segment. Straight edges and real
// curves share the same representation this way.
func LineQuad(start, end Point) Quad {
	var q Quad
	for i := range q {
		q[i] = Interpolate(start, end, float64(i)/float64(PointsPerCurve-1))
	}
	return q
}

// SmoothQuad returns a quad that continues a previous curve with tangent
// continuity. prevHandle and prevAnchor are the second handle and end anchor
// of the previous quad. The incoming tangent is mirrored across the chord to
// newAnchor to place the second handle.
func SmoothQuad(prevHandle, prevAnchor, newAnchor Point) (Quad, error) {
	if prevAnchor == newAnchor {
		return Quad{}, errors.New(errors.ErrCodeInvalidArgument, "new anchor must differ from the previous anchor")
	}
	lastTangent := prevAnchor.Sub(prevHandle)
	handle1 := prevAnchor.Add(lastTangent)
	newTangent := MirrorVector(lastTangent, newAnchor.Sub(prevAnchor))
	handle2 := newAnchor.Sub(newTangent)
	return Quad{prevAnchor, handle1, handle2, newAnchor}, nil
}

// MirrorVector reflects v across axis: mirrored = v - 2*(v - proj(v, axis)).
func MirrorVector(v, axis Point) Point {
	den := axis.Dot(axis)
	if den == 0 {
		return v
	}
	projection := axis.Mul(v.Dot(axis) / den)
	perpendicular := v.Sub(projection)
	return v.Sub(perpendicular.Mul(2))
}

// PointFromProportion returns the point a fraction t of the way along pts.
//
// This is an approximation: the point sequence, handles included, is treated
// as a polyline and its segment lengths are summed. Curves are not measured
// analytically, so positions on strongly curved quads drift from true
// arc-length positions.
func PointFromProportion(pts []Point, t float64) (Point, error) {
	if err := errors.ValidateProportion(t); err != nil {
		return Point{}, err
	}
	switch len(pts) {
	case 0:
		return Point{}, errors.New(errors.ErrCodeInvalidArgument, "cannot take a proportion of an empty path")
	case 1:
		return pts[0], nil
	}

	lengths := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		lengths[i] = lengths[i-1] + pts[i].Distance(pts[i-1])
	}

	total := lengths[len(lengths)-1]
	if total == 0 {
		return pts[0], nil
	}
	target := t * total

	// first index whose cumulative length is >= target
	idx := sort.SearchFloat64s(lengths, target)
	if idx == 0 {
		return pts[0], nil
	}
	if idx >= len(pts) {
		return pts[len(pts)-1], nil
	}
	lower, upper := lengths[idx-1], lengths[idx]
	if math.Abs(upper-target) < 1e-12 || upper == lower {
		return pts[idx], nil
	}
	return Interpolate(pts[idx-1], pts[idx], (target-lower)/(upper-lower)), nil
}
