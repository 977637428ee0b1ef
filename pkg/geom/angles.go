package geom

import "math"

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// AngleFromVector returns the polar angle of v's XY projection in [0, 2π).
func AngleFromVector(v Point) float64 {
	a := math.Atan2(v.Y, v.X)
	if a < 0 {
		a += Tau
	}
	return a
}

// AngleBetween returns the unsigned angle between two vectors in [0, π].
// A zero vector yields 0.
func AngleBetween(a, b Point) float64 {
	den := a.Norm() * b.Norm()
	if den == 0 {
		return 0
	}
	c := a.Dot(b) / den
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// CompassDirections returns n unit vectors spaced evenly around the circle,
// the first at startAngle.
func CompassDirections(n int, startAngle float64) []Point {
	out := make([]Point, n)
	step := Tau / float64(n)
	for i := range out {
		a := startAngle + float64(i)*step
		out[i] = Pt(math.Cos(a), math.Sin(a))
	}
	return out
}

// DefaultStartAngle returns the start angle used for regular polygons when
// none is given: flat bottom for odd vertex counts, a vertex on the right for
// even ones.
func DefaultStartAngle(n int) float64 {
	if n%2 == 0 {
		return 0
	}
	return Tau / 4
}

// RegularVertices returns the n vertices of a regular polygon of the given
// circumradius centered on the origin, counter-clockwise from startAngle.
func RegularVertices(n int, radius, startAngle float64) []Point {
	dirs := CompassDirections(n, startAngle)
	for i := range dirs {
		dirs[i] = dirs[i].Mul(radius)
	}
	return dirs
}

// SignedArea returns the signed XY area of a closed polygon. Positive means
// counter-clockwise winding.
func SignedArea(poly []Point) float64 {
	var sum float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		sum += p.Cross2(q)
	}
	return sum / 2
}

// IsConvex reports whether the closed polygon turns the same way at every
// vertex. Collinear vertices are ignored.
func IsConvex(poly []Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	sign := 0
	for i := range poly {
		a := poly[(i+1)%n].Sub(poly[i])
		b := poly[(i+2)%n].Sub(poly[(i+1)%n])
		c := a.Cross2(b)
		switch {
		case c > 1e-12:
			if sign < 0 {
				return false
			}
			sign = 1
		case c < -1e-12:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}
