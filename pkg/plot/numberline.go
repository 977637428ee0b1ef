package plot

import (
	"math"
	"strconv"

	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
	"github.com/matzehuels/stackdraw/pkg/style"
	"github.com/matzehuels/stackdraw/pkg/text"
)

// Number line defaults.
const (
	DefaultTickSize   = 0.1
	DefaultTipExtent  = 0.5 // length of each end arrow
	DefaultLabelSize  = 24.0
	DefaultLabelBuff  = 0.1
	DefaultStrokeSize = 2.0
)

// DefaultRange is the range of a number line built without [WithRange].
var DefaultRange = Range{Min: -2, Max: 2, Step: 1}

// Range is an inclusive span of values with a tick step.
type Range struct {
	Min, Max, Step float64
}

func (r Range) validate() error {
	if err := errors.ValidateFinite("range", r.Min, r.Max, r.Step); err != nil {
		return err
	}
	if r.Max <= r.Min {
		return errors.New(errors.ErrCodeInvalidArgument, "range max %g must exceed min %g", r.Max, r.Min)
	}
	if r.Step <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "range step must be positive, got %g", r.Step)
	}
	return nil
}

// values lists Min, Min+Step, ... up to and including Max.
func (r Range) values() []float64 {
	n := int(math.Floor((r.Max-r.Min)/r.Step + 1e-9))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, r.Min+float64(i)*r.Step)
	}
	return out
}

// NumberLineOption configures [NewNumberLine].
type NumberLineOption func(*numberLineOptions)

type numberLineOptions struct {
	rng        Range
	length     float64
	scale      Scale
	vertical   bool
	ticks      bool
	originTick bool
	numbers    bool
	tips       bool
	tickSize   float64
	color      style.Color
	labelOpts  []text.Option
}

// WithRange sets the values covered by the line and the tick step.
func WithRange(lo, hi, step float64) NumberLineOption {
	return func(o *numberLineOptions) { o.rng = Range{Min: lo, Max: hi, Step: step} }
}

// WithLength sets the total length including the end arrows. The default is
// the frame width.
func WithLength(l float64) NumberLineOption {
	return func(o *numberLineOptions) { o.length = l }
}

// WithScale maps range values to displayed coordinates.
func WithScale(s Scale) NumberLineOption {
	return func(o *numberLineOptions) { o.scale = s }
}

// Vertical builds the line pointing up.
func Vertical() NumberLineOption {
	return func(o *numberLineOptions) { o.vertical = true }
}

// WithTicks toggles the tick marks.
func WithTicks(on bool) NumberLineOption {
	return func(o *numberLineOptions) { o.ticks = on }
}

// WithOriginTick toggles the tick and label at coordinate zero.
func WithOriginTick(on bool) NumberLineOption {
	return func(o *numberLineOptions) { o.originTick = on }
}

// WithNumbers toggles the number labels.
func WithNumbers(on bool) NumberLineOption {
	return func(o *numberLineOptions) { o.numbers = on }
}

// WithTips toggles the arrows at both ends.
func WithTips(on bool) NumberLineOption {
	return func(o *numberLineOptions) { o.tips = on }
}

// WithTickSize sets the half-length of a tick mark.
func WithTickSize(s float64) NumberLineOption {
	return func(o *numberLineOptions) { o.tickSize = s }
}

// WithColor colors the line, ticks, tips and labels.
func WithColor(c style.Color) NumberLineOption {
	return func(o *numberLineOptions) { o.color = c }
}

// WithLabelOptions passes extra options to every number label.
func WithLabelOptions(opts ...text.Option) NumberLineOption {
	return func(o *numberLineOptions) { o.labelOpts = append(o.labelOpts, opts...) }
}

// NumberLine is an axis line with ticks, number labels and end arrows.
type NumberLine struct {
	scene.Node

	line   *shape.Line
	tips   []*shape.Line
	ticks  []*shape.Line
	labels []*text.Text

	rng      Range
	scale    Scale
	min, max float64 // displayed coordinates at the line ends
	vertical bool
}

var _ scene.Positionable = (*NumberLine)(nil)

// NewNumberLine builds a number line centered on the origin. The line runs
// left to right, or bottom to top with [Vertical]. Labels are placed below
// a horizontal line and left of a vertical one and stay upright.
func NewNumberLine(frame config.Frame, opts ...NumberLineOption) (*NumberLine, error) {
	o := numberLineOptions{
		rng:        DefaultRange,
		length:     frame.WithDefaults().FrameWidth(),
		scale:      Linear{Factor: 1},
		ticks:      true,
		originTick: true,
		numbers:    true,
		tips:       true,
		tickSize:   DefaultTickSize,
		color:      style.White,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.rng.validate(); err != nil {
		return nil, err
	}
	if v, ok := o.scale.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}
	if err := errors.ValidateFinite("number line length", o.length, o.tickSize); err != nil {
		return nil, err
	}

	nl := &NumberLine{
		rng:      o.rng,
		scale:    o.scale,
		min:      o.scale.Apply(o.rng.Min),
		max:      o.scale.Apply(o.rng.Max),
		vertical: o.vertical,
	}
	nl.Bind(nl)
	if nl.max <= nl.min {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"scaled range [%g, %g] must increase", nl.min, nl.max)
	}

	lineLength := o.length
	if o.tips {
		lineLength -= 2 * DefaultTipExtent
	}
	if lineLength <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"number line length %g leaves no room for the line", o.length)
	}

	stroke := []shape.Option{
		shape.WithColor(o.color),
		shape.WithStyle(style.Style{StrokeWidth: DefaultStrokeSize}),
	}
	line, err := shape.NewLine(shape.AtPoint(geom.Pt(-lineLength/2, 0)), shape.AtPoint(geom.Pt(lineLength/2, 0)), stroke...)
	if err != nil {
		return nil, err
	}
	nl.line = line
	if err := nl.Add(line); err != nil {
		return nil, err
	}

	if o.tips {
		for _, end := range []struct{ at, dir geom.Point }{{line.Start(), geom.Left}, {line.End(), geom.Right}} {
			tip, err := shape.NewArrow(shape.AtPoint(end.at), shape.AtPoint(end.at.Add(end.dir.Mul(DefaultTipExtent))), stroke...)
			if err != nil {
				return nil, err
			}
			nl.tips = append(nl.tips, tip)
			if err := nl.Add(tip); err != nil {
				return nil, err
			}
		}
	}

	values := nl.tickValues(o.originTick)
	if o.ticks {
		for _, v := range values {
			p := nl.CoordToPoint(v)
			tick, err := shape.NewLine(shape.AtPoint(p.Add(geom.Down.Mul(o.tickSize))), shape.AtPoint(p.Add(geom.Up.Mul(o.tickSize))), stroke...)
			if err != nil {
				return nil, err
			}
			nl.ticks = append(nl.ticks, tick)
			if err := nl.Add(tick); err != nil {
				return nil, err
			}
		}
	}

	if o.vertical {
		if err := nl.Rotate(math.Pi/2, geom.ZAxis, geom.Origin); err != nil {
			return nil, err
		}
	}

	if o.numbers {
		side := geom.Down
		if o.vertical {
			side = geom.Left
		}
		labelOpts := append([]text.Option{text.WithFontSize(DefaultLabelSize), text.WithColor(o.color)}, o.labelOpts...)
		for i, v := range values {
			label, err := text.New(FormatCoord(v), frame, labelOpts...)
			if err != nil {
				return nil, err
			}
			var anchor scene.Target = scene.At(nl.CoordToPoint(v))
			if o.ticks {
				anchor = nl.ticks[i]
			}
			if err := label.NextTo(anchor, side, scene.WithBuff(DefaultLabelBuff)); err != nil {
				return nil, err
			}
			nl.labels = append(nl.labels, label)
			if err := nl.Add(label); err != nil {
				return nil, err
			}
		}
	}
	return nl, nil
}

// tickValues are the displayed coordinates that get a tick.
func (nl *NumberLine) tickValues(origin bool) []float64 {
	var out []float64
	for _, v := range nl.rng.values() {
		if !origin && math.Abs(v) < nl.rng.Step*1e-9 {
			continue
		}
		out = append(out, nl.scale.Apply(v))
	}
	return out
}

// FormatCoord prints integral coordinates without a fraction.
func FormatCoord(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Line returns the axis line without its end arrows.
func (nl *NumberLine) Line() *shape.Line { return nl.line }

// Tips returns the end arrows, start first. It is empty without tips.
func (nl *NumberLine) Tips() []*shape.Line { return nl.tips }

// Ticks returns the tick marks in coordinate order.
func (nl *NumberLine) Ticks() []*shape.Line { return nl.ticks }

// Labels returns the number labels in coordinate order.
func (nl *NumberLine) Labels() []*text.Text { return nl.labels }

// CoordBounds returns the displayed coordinates at the two ends of the line.
func (nl *NumberLine) CoordBounds() (lo, hi float64) { return nl.min, nl.max }

// Range returns the range the line was built with.
func (nl *NumberLine) Range() Range { return nl.rng }

// IsVertical reports whether the line was built with [Vertical].
func (nl *NumberLine) IsVertical() bool { return nl.vertical }

// UnitSize is the diagram length of one coordinate unit.
func (nl *NumberLine) UnitSize() float64 {
	return nl.line.Length() / (nl.max - nl.min)
}

// CoordToPoint returns the diagram point of coordinate v. Coordinates
// outside the line's bounds are extrapolated along it.
func (nl *NumberLine) CoordToPoint(v float64) geom.Point {
	return nl.line.Start().Add(nl.line.Direction().Mul((v - nl.min) * nl.UnitSize()))
}

// PointToCoord projects p onto the line and returns its coordinate.
func (nl *NumberLine) PointToCoord(p geom.Point) float64 {
	return nl.min + p.Sub(nl.line.Start()).Dot(nl.line.Direction())/nl.UnitSize()
}

// ValueAt returns the range value whose coordinate lies under p, undoing
// the scale.
func (nl *NumberLine) ValueAt(p geom.Point) float64 {
	return nl.scale.Inverse(nl.PointToCoord(p))
}
