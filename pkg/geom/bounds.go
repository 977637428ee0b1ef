package geom

import (
	"math"

	"github.com/matzehuels/stackdraw/pkg/errors"
)

// Bounds is the axis-aligned box of a point set, kept as per-axis min, mid
// and max so critical points can be looked up by direction.
type Bounds struct {
	Min, Mid, Max Point
	Empty         bool
}

// BoundsOf computes the bounds of pts. An empty input yields empty bounds
// located at the origin.
func BoundsOf(pts []Point) Bounds {
	if len(pts) == 0 {
		return Bounds{Empty: true}
	}
	lo := Point{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := Point{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range pts {
		lo = Point{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = Point{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return Bounds{Min: lo, Mid: lo.Add(hi.Sub(lo).Div(2)), Max: hi}
}

// ValidateDirection checks that the X and Y components of dir are each one
// of -1, 0 or 1. Z is ignored.
func ValidateDirection(dir Point) error {
	if !unitStep(dir.X) || !unitStep(dir.Y) {
		return errors.New(errors.ErrCodeInvalidDirection,
			"direction %v must have x and y components in {-1, 0, 1}", dir)
	}
	return nil
}

func unitStep(v float64) bool {
	return v == -1 || v == 0 || v == 1
}

// Critical returns one of the nine canonical box points selected by dir:
// each axis indexes [min, mid, max] with dir+1. Z always resolves to mid.
func (b Bounds) Critical(dir Point) (Point, error) {
	if err := ValidateDirection(dir); err != nil {
		return Point{}, err
	}
	pick := func(d, lo, mid, hi float64) float64 {
		switch d {
		case -1:
			return lo
		case 1:
			return hi
		default:
			return mid
		}
	}
	return Point{
		X: pick(dir.X, b.Min.X, b.Mid.X, b.Max.X),
		Y: pick(dir.Y, b.Min.Y, b.Mid.Y, b.Max.Y),
		Z: b.Mid.Z,
	}, nil
}

// Size returns the extent along each axis.
func (b Bounds) Size() Point {
	return b.Max.Sub(b.Min)
}

// Corners returns the box corners in the order UR, UL, DL, DR.
func (b Bounds) Corners() []Point {
	return []Point{
		Pt(b.Max.X, b.Max.Y),
		Pt(b.Min.X, b.Max.Y),
		Pt(b.Min.X, b.Min.Y),
		Pt(b.Max.X, b.Min.Y),
	}
}
