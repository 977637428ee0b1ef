package geom

import (
	"fmt"
	"math"
)

// Point is a position or vector in diagram space. Diagrams are planar, but
// points carry a Z component so rotations about the X and Y axes are
// well-defined and so bounding polygons keep the same shape as path data.
type Point struct {
	X, Y, Z float64
}

// Pt creates a planar point (Z = 0).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Pt3 creates a point with all three components.
func Pt3(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Canonical directions. Diagram space is y-up.
var (
	Origin = Point{}
	Up     = Point{Y: 1}
	Down   = Point{Y: -1}
	Right  = Point{X: 1}
	Left   = Point{X: -1}
	In     = Point{Z: -1}
	Out    = Point{Z: 1}

	UL = Up.Add(Left)
	UR = Up.Add(Right)
	DL = Down.Add(Left)
	DR = Down.Add(Right)
)

// Unit axes accepted by [RotationMatrix].
var (
	XAxis = Point{X: 1}
	YAxis = Point{Y: 1}
	ZAxis = Point{Z: 1}
)

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Div returns the point divided by a scalar.
func (p Point) Div(s float64) Point {
	return Point{X: p.X / s, Y: p.Y / s, Z: p.Z / s}
}

// Neg returns the opposite vector.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y, Z: -p.Z}
}

// Hadamard returns the component-wise product.
func (p Point) Hadamard(q Point) Point {
	return Point{X: p.X * q.X, Y: p.Y * q.Y, Z: p.Z * q.Z}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross2 returns the Z component of the cross product of the XY projections.
func (p Point) Cross2(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Norm returns the Euclidean length of the vector.
func (p Point) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Norm()
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (p Point) Normalize() Point {
	n := p.Norm()
	if n == 0 {
		return Point{}
	}
	return p.Div(n)
}

// Perp returns the planar vector rotated 90 degrees counter-clockwise.
func (p Point) Perp() Point {
	return Point{X: -p.Y, Y: p.X}
}

// XY drops the Z component.
func (p Point) XY() Point {
	return Point{X: p.X, Y: p.Y}
}

// Component returns the coordinate along dim (0 = X, 1 = Y, 2 = Z).
func (p Point) Component(dim int) float64 {
	switch dim {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// WithComponent returns p with the coordinate along dim replaced by v.
func (p Point) WithComponent(dim int, v float64) Point {
	switch dim {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// ApproxEqual reports whether p and q differ by at most eps on every axis.
func (p Point) ApproxEqual(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps && math.Abs(p.Z-q.Z) <= eps
}

// IsFinite reports whether no component is NaN or infinite.
func (p Point) IsFinite() bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// String formats the point for logs and error messages.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Interpolate returns the point a fraction alpha of the way from start to end.
func Interpolate(start, end Point, alpha float64) Point {
	return start.Mul(1 - alpha).Add(end.Mul(alpha))
}

// Clone returns an independent copy of pts.
func Clone(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}
