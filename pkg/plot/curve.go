package plot

import (
	"math"
	"slices"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
)

// Curve sampling defaults.
const (
	DefaultTStep = 0.01
	// DefaultGap is how far sampling stops short of each discontinuity.
	DefaultGap = 1e-8
	// derivativeStep is the forward-difference step of [Derivative].
	derivativeStep = 1e-4
)

// CurveOption configures [NewCurve].
type CurveOption func(*curveOptions)

type curveOptions struct {
	t               Range
	discontinuities []float64
	gap             float64
	shapeOpts       []shape.Option
}

// WithTRange sets the parameter interval and the sampling step.
func WithTRange(lo, hi, step float64) CurveOption {
	return func(o *curveOptions) { o.t = Range{Min: lo, Max: hi, Step: step} }
}

// WithDiscontinuities lists parameters where the curve breaks. Sampling
// stops [DefaultGap] short of each one and resumes just past it.
func WithDiscontinuities(ts ...float64) CurveOption {
	return func(o *curveOptions) { o.discontinuities = append(o.discontinuities, ts...) }
}

// WithGap overrides [DefaultGap].
func WithGap(g float64) CurveOption {
	return func(o *curveOptions) { o.gap = g }
}

// WithShapeOptions styles every piece of the curve.
func WithShapeOptions(opts ...shape.Option) CurveOption {
	return func(o *curveOptions) { o.shapeOpts = append(o.shapeOpts, opts...) }
}

// Curve is a sampled parametric function. Each continuous stretch is one
// open path whose anchors are the samples, joined by tangent-continuous
// cubics.
type Curve struct {
	scene.Node

	fn     func(t float64) geom.Point
	pieces []*shape.Shape
}

var _ scene.Positionable = (*Curve)(nil)

// NewCurve samples fn over the parameter range, 0 to 1 by default. Samples
// where fn is not finite also break the curve. Pieces with fewer than two
// distinct samples are dropped; a curve with no pieces left is an error.
func NewCurve(fn func(t float64) geom.Point, opts ...CurveOption) (*Curve, error) {
	o := curveOptions{t: Range{Min: 0, Max: 1, Step: DefaultTStep}, gap: DefaultGap}
	for _, opt := range opts {
		opt(&o)
	}
	if fn == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "curve needs a function")
	}
	if err := o.t.validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidateFinite("curve gap", o.gap); err != nil {
		return nil, err
	}
	if err := errors.ValidateFinite("discontinuity", o.discontinuities...); err != nil {
		return nil, err
	}

	c := &Curve{fn: fn}
	c.Bind(c)
	for _, span := range o.spans() {
		for _, run := range sampleRuns(fn, span) {
			pts, err := smoothThrough(run)
			if err != nil {
				return nil, err
			}
			if pts == nil {
				continue
			}
			piece, err := shape.New(pts, false, o.shapeOpts...)
			if err != nil {
				return nil, err
			}
			c.pieces = append(c.pieces, piece)
			if err := c.Add(piece); err != nil {
				return nil, err
			}
		}
	}
	if len(c.pieces) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"curve has no drawable piece over [%g, %g]", o.t.Min, o.t.Max)
	}
	return c, nil
}

// spans splits the parameter range at the discontinuities inside it.
func (o curveOptions) spans() []Range {
	cuts := slices.Clone(o.discontinuities)
	slices.Sort(cuts)
	var out []Range
	lo := o.t.Min
	for _, d := range cuts {
		if d <= o.t.Min || d >= o.t.Max {
			continue
		}
		if hi := d - o.gap; hi > lo {
			out = append(out, Range{Min: lo, Max: hi, Step: o.t.Step})
		}
		lo = d + o.gap
	}
	if o.t.Max > lo {
		out = append(out, Range{Min: lo, Max: o.t.Max, Step: o.t.Step})
	}
	return out
}

// sampleRuns evaluates fn across span, always including both ends, and
// splits the samples wherever fn is not finite.
func sampleRuns(fn func(float64) geom.Point, span Range) [][]geom.Point {
	ts := span.values()
	if last := ts[len(ts)-1]; span.Max-last > span.Step*1e-9 {
		ts = append(ts, span.Max)
	}
	var runs [][]geom.Point
	var run []geom.Point
	for _, t := range ts {
		p := fn(t)
		if !p.IsFinite() {
			if len(run) > 0 {
				runs = append(runs, run)
			}
			run = nil
			continue
		}
		if len(run) > 0 && run[len(run)-1] == p {
			continue
		}
		run = append(run, p)
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}

// smoothThrough joins anchors with a straight first quad followed by
// tangent-continuous quads. It returns nil for fewer than two anchors.
func smoothThrough(anchors []geom.Point) ([]geom.Point, error) {
	if len(anchors) < 2 {
		return nil, nil
	}
	quads := []geom.Quad{geom.LineQuad(anchors[0], anchors[1])}
	for _, a := range anchors[2:] {
		prev := quads[len(quads)-1]
		q, err := geom.SmoothQuad(prev[2], prev[3], a)
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
	}
	return geom.Flatten(quads), nil
}

// Pieces returns the continuous stretches in parameter order.
func (c *Curve) Pieces() []*shape.Shape { return c.pieces }

// Func returns the function the curve was sampled from.
func (c *Curve) Func() func(t float64) geom.Point { return c.fn }

// Derivative approximates f' with a forward difference.
func Derivative(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		return (f(x+derivativeStep) - f(x)) / derivativeStep
	}
}

// Slope returns the angle of the tangent of f at x, in radians.
func Slope(f func(float64) float64, x float64) float64 {
	return math.Atan(Derivative(f)(x))
}
