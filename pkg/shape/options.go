package shape

import (
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// Default construction parameters.
const (
	DefaultArcComponents = 30
	DefaultDotRadius     = 0.08
	DefaultTipLength     = 0.2
	DefaultTipWidth      = 0.2

	// lineNudge separates connector endpoints that would otherwise coincide.
	lineNudge = 1e-4
	// roundingSlack is added to twice the corner radius before comparing it
	// with an edge length.
	roundingSlack = 0.001
)

// Option configures a shape builder.
type Option func(*options)

type options struct {
	style        style.Style
	color        style.Color
	z            int
	zSet         bool
	cornerRadius float64
	buff         float64
	tipLength    float64
	tipWidth     float64
	components   int
	center       geom.Point
	startAngle   *float64
}

// WithStyle overlays s on the builder's default style.
func WithStyle(s style.Style) Option { return func(o *options) { o.style = o.style.Merge(s) } }

// WithColor recolors whichever of fill and stroke the shape paints.
func WithColor(c style.Color) Option { return func(o *options) { o.color = c } }

// WithZIndex sets the paint order of the new shape.
func WithZIndex(z int) Option { return func(o *options) { o.z, o.zSet = z, true } }

// WithCornerRadius rounds the corners of a polygon after construction.
func WithCornerRadius(r float64) Option { return func(o *options) { o.cornerRadius = r } }

// WithBuff leaves a gap of buff at both ends of a line.
func WithBuff(buff float64) Option { return func(o *options) { o.buff = buff } }

// WithTip sets the arrow tip size.
func WithTip(length, width float64) Option {
	return func(o *options) { o.tipLength, o.tipWidth = length, width }
}

// WithComponents sets how many anchors approximate an arc.
func WithComponents(n int) Option { return func(o *options) { o.components = n } }

// WithCenter places an arc, circle or regular polygon around c.
func WithCenter(c geom.Point) Option { return func(o *options) { o.center = c } }

// WithStartAngle sets the angle of the first vertex of a regular polygon.
func WithStartAngle(a float64) Option { return func(o *options) { o.startAngle = &a } }

func applyOptions(opts []Option) options {
	o := options{
		components: DefaultArcComponents,
		tipLength:  DefaultTipLength,
		tipWidth:   DefaultTipWidth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
