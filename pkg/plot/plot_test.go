package plot

import (
	"math"
	"os"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/fonts"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
	"github.com/matzehuels/stackdraw/pkg/text"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestMain(m *testing.M) {
	scene.SetLogger(nil)
	os.Exit(m.Run())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// halfMeasurer gives every rune an advance of half the font size.
type halfMeasurer struct{}

func (halfMeasurer) Width(s string, _ fonts.Face, size float64) (float64, error) {
	return float64(utf8.RuneCountInString(s)) * size / 2, nil
}

func (halfMeasurer) Metrics(_ fonts.Face, size float64) (text.Metrics, error) {
	return text.Metrics{Ascent: size * 0.75, Descent: size * 0.25}, nil
}

// bareLine is a line over [lo, hi] one unit per coordinate, without tips
// or labels.
func bareLine(t *testing.T, lo, hi float64, opts ...NumberLineOption) *NumberLine {
	t.Helper()
	opts = append([]NumberLineOption{WithRange(lo, hi, 1), WithLength(hi - lo), WithTips(false), WithNumbers(false)}, opts...)
	nl, err := NewNumberLine(config.DefaultFrame(), opts...)
	if err != nil {
		t.Fatalf("NewNumberLine: %v", err)
	}
	return nl
}

func TestNumberLineCoordToPoint(t *testing.T) {
	nl := bareLine(t, -3, 4)

	tests := []struct {
		coord float64
		want  geom.Point
	}{
		{-3, geom.Pt(-3.5, 0)},
		{0, geom.Pt(-0.5, 0)},
		{4, geom.Pt(3.5, 0)},
		{6, geom.Pt(5.5, 0)},   // extrapolated
		{-4.5, geom.Pt(-5, 0)}, // extrapolated
	}
	for _, tt := range tests {
		got := nl.CoordToPoint(tt.coord)
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("CoordToPoint(%g) mismatch (-want +got):\n%s", tt.coord, diff)
		}
		if c := nl.PointToCoord(got); math.Abs(c-tt.coord) > 1e-9 {
			t.Errorf("PointToCoord(CoordToPoint(%g)) = %g", tt.coord, c)
		}
	}
	if u := nl.UnitSize(); math.Abs(u-1) > 1e-9 {
		t.Errorf("UnitSize() = %g, want 1", u)
	}

	if got := len(nl.Ticks()); got != 8 {
		t.Fatalf("got %d ticks, want 8", got)
	}
	for i, tick := range nl.Ticks() {
		want := nl.CoordToPoint(float64(i - 3))
		if diff := cmp.Diff(want, tick.Midpoint(), approx); diff != "" {
			t.Errorf("tick %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestNumberLineTips(t *testing.T) {
	nl := must(NewNumberLine(config.DefaultFrame(), WithRange(-2, 2, 1), WithLength(9), WithNumbers(false)))

	if got := nl.Line().Length(); math.Abs(got-8) > 1e-9 {
		t.Errorf("line length = %g, want 8", got)
	}
	tips := nl.Tips()
	if len(tips) != 2 {
		t.Fatalf("got %d tips, want 2", len(tips))
	}
	if diff := cmp.Diff(geom.Pt(-4.5, 0), tips[0].End(), approx); diff != "" {
		t.Errorf("start tip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.Pt(4.5, 0), tips[1].End(), approx); diff != "" {
		t.Errorf("end tip mismatch (-want +got):\n%s", diff)
	}
	if got := nl.Width(); math.Abs(got-9) > 1e-9 {
		t.Errorf("Width() = %g, want 9", got)
	}
}

func TestNumberLineOriginTick(t *testing.T) {
	nl := bareLine(t, -2, 2, WithOriginTick(false))
	var got []float64
	for _, tick := range nl.Ticks() {
		got = append(got, nl.PointToCoord(tick.Midpoint()))
	}
	if diff := cmp.Diff([]float64{-2, -1, 1, 2}, got, approx); diff != "" {
		t.Errorf("tick coords mismatch (-want +got):\n%s", diff)
	}
}

func TestNumberLineScale(t *testing.T) {
	nl := bareLine(t, -2, 2, WithScale(Linear{Factor: 2}))
	lo, hi := nl.CoordBounds()
	if lo != -4 || hi != 4 {
		t.Errorf("CoordBounds() = %g, %g; want -4, 4", lo, hi)
	}
	p := nl.CoordToPoint(2)
	if diff := cmp.Diff(geom.Pt(1, 0), p, approx); diff != "" {
		t.Errorf("CoordToPoint(2) mismatch (-want +got):\n%s", diff)
	}
	if v := nl.ValueAt(p); math.Abs(v-1) > 1e-9 {
		t.Errorf("ValueAt = %g, want 1", v)
	}
}

func TestNumberLineVertical(t *testing.T) {
	nl := bareLine(t, -2, 2, Vertical())
	if !nl.IsVertical() {
		t.Fatal("IsVertical() = false")
	}
	if diff := cmp.Diff(geom.Pt(0, 2), nl.CoordToPoint(2), approx); diff != "" {
		t.Errorf("CoordToPoint(2) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.Up, nl.Line().Direction(), approx); diff != "" {
		t.Errorf("direction mismatch (-want +got):\n%s", diff)
	}
}

func TestNumberLineFollowsTransforms(t *testing.T) {
	nl := bareLine(t, -3, 4)
	arrow := must(shape.NewArrow(shape.AtPoint(nl.CoordToPoint(-2)), shape.AtPoint(nl.CoordToPoint(2))))
	g := must(scene.NewGroup(nl, arrow))
	if err := g.Scale(1.3, geom.Origin); err != nil {
		t.Fatalf("Scale: %v", err)
	}

	want := geom.Pt(1.5*1.3, 0)
	if diff := cmp.Diff(want, nl.CoordToPoint(2), approx); diff != "" {
		t.Errorf("CoordToPoint(2) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, arrow.End(), approx); diff != "" {
		t.Errorf("arrow end mismatch (-want +got):\n%s", diff)
	}
	if u := nl.UnitSize(); math.Abs(u-1.3) > 1e-9 {
		t.Errorf("UnitSize() = %g, want 1.3", u)
	}
}

func TestNumberLineLabels(t *testing.T) {
	nl := must(NewNumberLine(config.DefaultFrame(),
		WithRange(-1, 1, 0.5), WithLength(4), WithTips(false),
		WithLabelOptions(text.WithMeasurer(halfMeasurer{}))))

	var got []string
	for _, l := range nl.Labels() {
		got = append(got, l.Content())
	}
	if diff := cmp.Diff([]string{"-1", "-0.5", "0", "0.5", "1"}, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	for i, l := range nl.Labels() {
		tick := nl.Ticks()[i]
		if gap := tick.Bottom().Y - l.Top().Y; math.Abs(gap-DefaultLabelBuff) > 1e-9 {
			t.Errorf("label %q sits %g below its tick, want %g", l.Content(), gap, DefaultLabelBuff)
		}
		if dx := l.Center().X - tick.Midpoint().X; math.Abs(dx) > 1e-9 {
			t.Errorf("label %q is off its tick by %g", l.Content(), dx)
		}
	}

	vert := must(NewNumberLine(config.DefaultFrame(),
		WithRange(-1, 1, 1), WithLength(2), WithTips(false), Vertical(),
		WithLabelOptions(text.WithMeasurer(halfMeasurer{}))))
	for i, l := range vert.Labels() {
		if l.Heading() != 0 {
			t.Errorf("label %q heading = %g, want upright", l.Content(), l.Heading())
		}
		if gap := vert.Ticks()[i].Left().X - l.Right().X; math.Abs(gap-DefaultLabelBuff) > 1e-9 {
			t.Errorf("label %q sits %g left of its tick, want %g", l.Content(), gap, DefaultLabelBuff)
		}
	}
}

func TestNumberLineInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts []NumberLineOption
	}{
		{"empty range", []NumberLineOption{WithRange(2, 2, 1)}},
		{"zero step", []NumberLineOption{WithRange(0, 2, 0)}},
		{"nan range", []NumberLineOption{WithRange(math.NaN(), 2, 1)}},
		{"zero scale", []NumberLineOption{WithScale(Linear{})}},
		{"flipping scale", []NumberLineOption{WithScale(Linear{Factor: -1})}},
		{"no room for tips", []NumberLineOption{WithLength(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]NumberLineOption{WithNumbers(false)}, tt.opts...)
			_, err := NewNumberLine(config.DefaultFrame(), opts...)
			if !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("err = %v, want INVALID_ARGUMENT", err)
			}
		})
	}
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{3, "3"},
		{-2, "-2"},
		{0, "0"},
		{0.5, "0.5"},
		{-1.25, "-1.25"},
	}
	for _, tt := range tests {
		if got := FormatCoord(tt.v); got != tt.want {
			t.Errorf("FormatCoord(%g) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

// customAxes builds axes over x in [-3, 4] and y in [-4, 1], one unit per
// coordinate.
func customAxes(t *testing.T) *Axes {
	t.Helper()
	x := bareLine(t, -3, 4)
	y := bareLine(t, -4, 1, Vertical())
	a, err := NewAxes(x, y)
	if err != nil {
		t.Fatalf("NewAxes: %v", err)
	}
	return a
}

func TestAxesPointToPoint(t *testing.T) {
	a := customAxes(t)

	if diff := cmp.Diff(a.XAxis().CoordToPoint(0), a.YAxis().CoordToPoint(0), approx); diff != "" {
		t.Errorf("axes do not cross at zero (-x +y):\n%s", diff)
	}
	tests := []struct {
		x, y float64
		want geom.Point
	}{
		{0, 0, geom.Pt(-0.5, 0)},
		{1, 2, geom.Pt(0.5, 2)},
		{-3, -4, geom.Pt(-3.5, -4)},
	}
	for _, tt := range tests {
		got := a.PointToPoint(tt.x, tt.y)
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("PointToPoint(%g, %g) mismatch (-want +got):\n%s", tt.x, tt.y, diff)
		}
		x, y, err := a.CoordsOf(got)
		if err != nil {
			t.Fatalf("CoordsOf: %v", err)
		}
		if math.Abs(x-tt.x) > 1e-9 || math.Abs(y-tt.y) > 1e-9 {
			t.Errorf("CoordsOf(%v) = (%g, %g), want (%g, %g)", got, x, y, tt.x, tt.y)
		}
	}
}

func TestAxesVectorArrow(t *testing.T) {
	a := customAxes(t)
	arrow := must(shape.NewArrow(shape.AtPoint(a.PointToPoint(0, 0)), shape.AtPoint(a.PointToPoint(1, 2))))
	if diff := cmp.Diff(a.Origin(), arrow.Start(), approx); diff != "" {
		t.Errorf("arrow start mismatch (-want +got):\n%s", diff)
	}
	x, y, err := a.CoordsOf(arrow.End())
	if err != nil {
		t.Fatalf("CoordsOf: %v", err)
	}
	if math.Abs(x-1) > 1e-9 || math.Abs(y-2) > 1e-9 {
		t.Errorf("arrow ends at (%g, %g), want (1, 2)", x, y)
	}
}

func TestAxesAfterRotation(t *testing.T) {
	a := customAxes(t)
	if err := a.Rotate(math.Pi/2, geom.ZAxis, geom.Origin); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if diff := cmp.Diff(geom.Pt(0, 0.5), a.PointToPoint(1, 0), approx); diff != "" {
		t.Errorf("PointToPoint(1, 0) mismatch (-want +got):\n%s", diff)
	}
	x, y, err := a.CoordsOf(a.PointToPoint(1, 2))
	if err != nil {
		t.Fatalf("CoordsOf: %v", err)
	}
	if math.Abs(x-1) > 1e-9 || math.Abs(y-2) > 1e-9 {
		t.Errorf("CoordsOf = (%g, %g), want (1, 2)", x, y)
	}
}

func TestNewAxesNeedsOrientation(t *testing.T) {
	_, err := NewAxes(bareLine(t, -1, 1), bareLine(t, -1, 1))
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestDefaultAxes(t *testing.T) {
	frame := config.DefaultFrame()
	a := must(DefaultAxes(frame, WithNumbers(false)))

	if got, want := a.YAxis().Line().Length(), frame.FrameHeight()-2*DefaultTipExtent; math.Abs(got-want) > 1e-9 {
		t.Errorf("y line length = %g, want %g", got, want)
	}
	if got, want := a.XAxis().Line().Length(), frame.FrameWidth()-2*DefaultTipExtent; math.Abs(got-want) > 1e-9 {
		t.Errorf("x line length = %g, want %g", got, want)
	}
	if got := len(a.XAxis().Ticks()); got != 4 {
		t.Errorf("x axis has %d ticks, want 4 without the origin", got)
	}
	if diff := cmp.Diff(geom.Origin, a.Origin(), approx); diff != "" {
		t.Errorf("Origin() mismatch (-want +got):\n%s", diff)
	}
}

func TestAxesPlot(t *testing.T) {
	a := customAxes(t)
	square := func(x float64) float64 { return x * x / 4 }
	c := must(a.Plot(square))

	if got := len(c.Pieces()); got != 1 {
		t.Fatalf("got %d pieces, want 1", got)
	}
	pts := c.Pieces()[0].Points()
	anchors := append(geom.StartAnchors(pts), pts[len(pts)-1])
	if got := len(anchors); got != DefaultSamples+1 {
		t.Errorf("got %d anchors, want %d", got, DefaultSamples+1)
	}
	if diff := cmp.Diff(a.PointToPoint(-3, 9.0/4), anchors[0], approx); diff != "" {
		t.Errorf("first anchor mismatch (-want +got):\n%s", diff)
	}
	for _, p := range anchors {
		x, y, err := a.CoordsOf(p)
		if err != nil {
			t.Fatalf("CoordsOf: %v", err)
		}
		if math.Abs(y-square(x)) > 1e-9 {
			t.Errorf("anchor (%g, %g) is off the graph", x, y)
		}
	}
}

func TestCurveSplits(t *testing.T) {
	step := func(t float64) geom.Point { return geom.Pt(t, math.Copysign(1, t)) }
	hole := func(t float64) geom.Point {
		if math.Abs(t-0.5) < 0.05 {
			return geom.Pt(math.NaN(), 0)
		}
		return geom.Pt(t, t)
	}

	tests := []struct {
		name   string
		fn     func(float64) geom.Point
		opts   []CurveOption
		pieces int
	}{
		{"continuous", hole, []CurveOption{WithTRange(0, 0.3, 0.1)}, 1},
		{"discontinuity", step, []CurveOption{WithTRange(-1, 1, 0.1), WithDiscontinuities(0)}, 2},
		{"discontinuity outside range", step, []CurveOption{WithTRange(0.5, 1, 0.1), WithDiscontinuities(0, 3)}, 1},
		{"non-finite sample", hole, []CurveOption{WithTRange(0, 1, 0.1)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCurve(tt.fn, tt.opts...)
			if err != nil {
				t.Fatalf("NewCurve: %v", err)
			}
			if got := len(c.Pieces()); got != tt.pieces {
				t.Errorf("got %d pieces, want %d", got, tt.pieces)
			}
		})
	}
}

func TestCurveStopsShortOfDiscontinuity(t *testing.T) {
	c := must(NewCurve(func(t float64) geom.Point { return geom.Pt(t, 0) },
		WithTRange(-1, 1, 0.25), WithDiscontinuities(0), WithGap(0.01)))
	left, right := c.Pieces()[0].Points(), c.Pieces()[1].Points()
	if got := left[len(left)-1].X; math.Abs(got+0.01) > 1e-9 {
		t.Errorf("left piece ends at %g, want -0.01", got)
	}
	if got := right[0].X; math.Abs(got-0.01) > 1e-9 {
		t.Errorf("right piece starts at %g, want 0.01", got)
	}
}

func TestCurveErrors(t *testing.T) {
	flat := func(float64) geom.Point { return geom.Pt(1, 1) }
	tests := []struct {
		name string
		fn   func(float64) geom.Point
		opts []CurveOption
	}{
		{"nil function", nil, nil},
		{"single point", flat, nil},
		{"reversed range", flat, []CurveOption{WithTRange(1, 0, 0.1)}},
		{"nan discontinuity", flat, []CurveOption{WithDiscontinuities(math.NaN())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCurve(tt.fn, tt.opts...)
			if !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("err = %v, want INVALID_ARGUMENT", err)
			}
		})
	}
}

func TestDerivative(t *testing.T) {
	d := Derivative(func(x float64) float64 { return x * x })
	if got := d(3); math.Abs(got-6) > 1e-3 {
		t.Errorf("d/dx x^2 at 3 = %g, want 6", got)
	}
	if got := Slope(func(x float64) float64 { return x }, 0); math.Abs(got-math.Pi/4) > 1e-6 {
		t.Errorf("Slope of identity = %g, want pi/4", got)
	}
}

func TestBrace(t *testing.T) {
	tests := []struct {
		name       string
		start, end geom.Point
		tip        geom.Point
	}{
		{"rightwards", geom.Pt(-1, 0), geom.Pt(1, 0), geom.Pt(0, -DefaultBraceDepth)},
		{"downwards", geom.Pt(0, 1), geom.Pt(0, -1), geom.Pt(-DefaultBraceDepth, 0)},
		{"short span", geom.Pt(0, 0), geom.Pt(0.4, 0), geom.Pt(0.2, -0.2)},
	}
	opts := cmpopts.EquateApprox(0, 1e-6)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := must(NewBrace(tt.start, tt.end))
			if diff := cmp.Diff(tt.start, b.Start(), opts); diff != "" {
				t.Errorf("Start() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.end, b.End(), opts); diff != "" {
				t.Errorf("End() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.tip, b.Tip(), opts); diff != "" {
				t.Errorf("Tip() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := NewBrace(geom.Origin, geom.Origin); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("coincident ends: err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestBraceForEdge(t *testing.T) {
	sq := must(shape.NewSquare(2))
	tests := []struct {
		edge geom.Point
		tip  geom.Point
	}{
		{geom.Down, geom.Pt(0, -1.1-DefaultBraceDepth)},
		{geom.Up, geom.Pt(0, 1.1+DefaultBraceDepth)},
		{geom.Left, geom.Pt(-1.1-DefaultBraceDepth, 0)},
		{geom.Right, geom.Pt(1.1+DefaultBraceDepth, 0)},
	}
	opts := cmpopts.EquateApprox(0, 1e-6)
	for _, tt := range tests {
		b := must(NewBraceForEdge(sq, tt.edge, 0.1))
		if diff := cmp.Diff(tt.tip, b.Tip(), opts); diff != "" {
			t.Errorf("edge %v tip mismatch (-want +got):\n%s", tt.edge, diff)
		}
	}

	if _, err := NewBraceForEdge(sq, geom.UL, 0.1); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("corner edge: err = %v, want INVALID_DIRECTION", err)
	}
}

func TestBraceLabel(t *testing.T) {
	b := must(NewBrace(geom.Pt(-1, 0), geom.Pt(1, 0)))
	label := must(shape.NewSquare(0.5))
	if err := b.AddLabel(label, 0.1); err != nil {
		t.Fatalf("AddLabel: %v", err)
	}
	want := geom.Pt(0, -DefaultBraceDepth-0.1-0.25)
	if diff := cmp.Diff(want, label.Center(), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("label center mismatch (-want +got):\n%s", diff)
	}
	if b.Label() != scene.Entity(label) {
		t.Error("Label() does not return the attached label")
	}
	if b.Len() != 2 {
		t.Errorf("brace has %d children, want outline and label", b.Len())
	}
}

func TestBoxList(t *testing.T) {
	items := []scene.Entity{
		must(shape.NewSquare(1)),
		must(shape.NewSquare(0.5)),
		must(shape.NewSquare(1)),
	}
	bl := must(NewBoxList(items, BoxListOptions{}))

	var xs []float64
	for _, s := range bl.Separators() {
		xs = append(xs, s.Start().X)
		if h := s.Length(); math.Abs(h-1.4) > 1e-9 {
			t.Errorf("separator at %g is %g tall, want 1.4", s.Start().X, h)
		}
	}
	if diff := cmp.Diff([]float64{-1.85, -0.45, 0.45, 1.85}, xs, approx); diff != "" {
		t.Errorf("separator x mismatch (-want +got):\n%s", diff)
	}

	top, bottom := bl.Rules()
	if diff := cmp.Diff(geom.Pt(-1.85, 0.7), top.Start(), approx); diff != "" {
		t.Errorf("top rule start mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.Pt(1.85, -0.7), bottom.End(), approx); diff != "" {
		t.Errorf("bottom rule end mismatch (-want +got):\n%s", diff)
	}
	// UP alignment keeps the small item's top level with the others.
	if got := items[1].Base().Top().Y; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("small item top = %g, want 0.5", got)
	}
	if diff := cmp.Diff(geom.Origin, bl.Center(), approx); diff != "" {
		t.Errorf("Center() mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewBoxList(nil, BoxListOptions{}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("empty list: err = %v, want INVALID_ARGUMENT", err)
	}
}
