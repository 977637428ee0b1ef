package plot

import (
	"math"

	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
)

// DefaultSamples is the number of intervals [Axes.Plot] samples across the
// x axis when no step is given.
const DefaultSamples = 100

// Axes is a pair of number lines crossing at coordinate zero.
type Axes struct {
	scene.Node

	x, y *NumberLine
}

var _ scene.Positionable = (*Axes)(nil)

// NewAxes joins a horizontal x axis and a vertical y axis. The y axis is
// shifted so its zero lands on the x axis's zero; zero may lie outside
// either range, in which case the crossing is extrapolated.
func NewAxes(x, y *NumberLine) (*Axes, error) {
	if x == nil || y == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "axes need both number lines")
	}
	if x.IsVertical() || !y.IsVertical() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "axes need a horizontal x axis and a vertical y axis")
	}
	a := &Axes{x: x, y: y}
	a.Bind(a)
	if err := y.Shift(x.CoordToPoint(0).Sub(y.CoordToPoint(0))); err != nil {
		return nil, err
	}
	if err := a.Add(x, y); err != nil {
		return nil, err
	}
	return a, nil
}

// DefaultAxes builds axes over the default range on both lines, the x axis
// as wide as the frame and the y axis as tall. Neither line ticks zero.
func DefaultAxes(frame config.Frame, opts ...NumberLineOption) (*Axes, error) {
	frame = frame.WithDefaults()
	base := append([]NumberLineOption{WithOriginTick(false)}, opts...)
	x, err := NewNumberLine(frame, base...)
	if err != nil {
		return nil, err
	}
	y, err := NewNumberLine(frame, append(base, Vertical(), WithLength(frame.FrameHeight()))...)
	if err != nil {
		return nil, err
	}
	return NewAxes(x, y)
}

// XAxis returns the horizontal number line.
func (a *Axes) XAxis() *NumberLine { return a.x }

// YAxis returns the vertical number line.
func (a *Axes) YAxis() *NumberLine { return a.y }

// Origin returns the diagram point of coordinates (0, 0).
func (a *Axes) Origin() geom.Point { return a.x.CoordToPoint(0) }

// PointToPoint returns the diagram point of coordinates (x, y). The mapping
// is affine in the two axis directions, so it holds after the axes are
// rotated or stretched.
func (a *Axes) PointToPoint(x, y float64) geom.Point {
	return a.x.CoordToPoint(x).Add(a.y.CoordToPoint(y).Sub(a.y.CoordToPoint(0)))
}

// CoordsOf inverts [Axes.PointToPoint]. It fails when the axes have been
// flattened onto one direction.
func (a *Axes) CoordsOf(p geom.Point) (x, y float64, err error) {
	ux := a.x.line.Direction().Mul(a.x.UnitSize())
	uy := a.y.line.Direction().Mul(a.y.UnitSize())
	den := ux.Cross2(uy)
	if math.Abs(den) < 1e-12 {
		return 0, 0, errors.New(errors.ErrCodeInvalidStructure, "axes are parallel")
	}
	d := p.Sub(a.Origin())
	return d.Cross2(uy) / den, ux.Cross2(d) / den, nil
}

// Plot samples y = f(x) over the x axis's coordinate bounds and returns the
// curve in diagram space. The curve is not added to the axes.
func (a *Axes) Plot(f func(x float64) float64, opts ...CurveOption) (*Curve, error) {
	lo, hi := a.x.CoordBounds()
	opts = append([]CurveOption{WithTRange(lo, hi, (hi-lo)/DefaultSamples)}, opts...)
	return NewCurve(func(t float64) geom.Point { return a.PointToPoint(t, f(t)) }, opts...)
}
