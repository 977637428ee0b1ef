package geom

import (
	"math"

	"github.com/matzehuels/stackdraw/pkg/errors"
)

// Matrix3 is a row-major 3x3 linear map.
type Matrix3 [3][3]float64

// Apply multiplies the matrix by p treated as a column vector.
func (m Matrix3) Apply(p Point) Point {
	return Point{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z,
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z,
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z,
	}
}

// RotationMatrix returns the counter-clockwise axis-angle rotation matrix.
// Only the three unit axes are supported; any other axis is an
// INVALID_AXIS error.
func RotationMatrix(angle float64, axis Point) (Matrix3, error) {
	if axis != XAxis && axis != YAxis && axis != ZAxis {
		return Matrix3{}, errors.New(errors.ErrCodeInvalidAxis, "axis %v must be one of X, Y or Z", axis)
	}

	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Matrix3{
		{t*x*x + c, t*x*y - z*s, t*x*z + y*s},
		{t*x*y + z*s, t*y*y + c, t*y*z - x*s},
		{t*x*z - y*s, t*y*z + x*s, t*z*z + c},
	}, nil
}

// RotateVector rotates v counter-clockwise by angle about axis.
func RotateVector(v Point, angle float64, axis Point) (Point, error) {
	m, err := RotationMatrix(angle, axis)
	if err != nil {
		return Point{}, err
	}
	return m.Apply(v), nil
}

// RotatePoints returns pts rotated counter-clockwise by angle about axis,
// pivoting on about. The input slice is not modified.
func RotatePoints(pts []Point, angle float64, axis, about Point) ([]Point, error) {
	m, err := RotationMatrix(angle, axis)
	if err != nil {
		return nil, err
	}
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p.Sub(about)).Add(about)
	}
	return out, nil
}

// ScalePoints returns pts scaled uniformly by factor around about.
// Scaling about the origin skips the translate/untranslate round trip.
func ScalePoints(pts []Point, factor float64, about Point) []Point {
	out := make([]Point, len(pts))
	if about == Origin {
		for i, p := range pts {
			out[i] = p.Mul(factor)
		}
		return out
	}
	for i, p := range pts {
		out[i] = p.Sub(about).Mul(factor).Add(about)
	}
	return out
}

// StretchPoints returns pts with only the coordinate along dim multiplied by
// factor. Unlike [ScalePoints] this changes the aspect ratio.
func StretchPoints(pts []Point, factor float64, dim int) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = p.WithComponent(dim, p.Component(dim)*factor)
	}
	return out
}

// ShiftPoints returns pts translated by v.
func ShiftPoints(pts []Point, v Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = p.Add(v)
	}
	return out
}

// ValidateDim checks that dim names a coordinate axis.
func ValidateDim(dim int) error {
	if dim < 0 || dim > 2 {
		return errors.New(errors.ErrCodeInvalidArgument, "dimension must be 0, 1 or 2, got %d", dim)
	}
	return nil
}
