package diagram

import (
	"context"
	"math"
	"strings"

	"github.com/matzehuels/stackdraw/pkg/canvas"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/fonts"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/graph"
	"github.com/matzehuels/stackdraw/pkg/plot"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
	"github.com/matzehuels/stackdraw/pkg/style"
	"github.com/matzehuels/stackdraw/pkg/text"
)

// Element defaults.
const (
	DefaultSide     = 2.0
	DefaultWidth    = 4.0
	DefaultHeight   = 2.0
	DefaultRadius   = 1.0
	DefaultSides    = 6
	DefaultArcAngle = 90.0
)

var directions = map[string]geom.Point{
	"up":     geom.Up,
	"down":   geom.Down,
	"left":   geom.Left,
	"right":  geom.Right,
	"ul":     geom.UL,
	"ur":     geom.UR,
	"dl":     geom.DL,
	"dr":     geom.DR,
	"center": geom.Origin,
}

// ParseDirection resolves a direction name: up, down, left, right, ul, ur,
// dl, dr or center.
func ParseDirection(s string) (geom.Point, error) {
	d, ok := directions[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return geom.Point{}, errors.New(errors.ErrCodeInvalidDiagram, "unknown direction %q", s)
	}
	return d, nil
}

// BuildOption configures [Build].
type BuildOption func(*builder)

// WithMeasurer sets the font measurer used for text elements.
func WithMeasurer(m text.Measurer) BuildOption {
	return func(b *builder) { b.measurer = m }
}

type builder struct {
	canvas   *canvas.Canvas
	measurer text.Measurer
	built    map[string]scene.Entity
}

// Build draws the document on a new canvas. Elements are built in order
// and each one is placed before the next is built, so directives see the
// final position of every element they reference.
func Build(ctx context.Context, doc *Document, opts ...BuildOption) (*canvas.Canvas, error) {
	c, err := canvas.New(doc.Canvas.Frame)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "canvas")
	}
	b := &builder{canvas: c, built: make(map[string]scene.Entity, len(doc.Elements))}
	for _, opt := range opts {
		opt(b)
	}

	for i := range doc.Elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		el := &doc.Elements[i]
		e, err := b.element(ctx, el)
		if err != nil {
			return nil, wrapElement(err, el.ID)
		}
		e.Base().ID = el.ID
		if err := b.place(e, el); err != nil {
			return nil, wrapElement(err, el.ID)
		}
		if err := c.Add(e); err != nil {
			return nil, wrapElement(err, el.ID)
		}
		b.built[el.ID] = e
		scene.Logger().Debug("built element", "id", el.ID, "kind", el.Kind)
	}

	if doc.Canvas.Fit {
		if err := c.ScaleToFit(doc.Canvas.FitBuff); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "fit canvas")
		}
	}
	return c, nil
}

func wrapElement(err error, id string) error {
	if errors.Is(err, errors.ErrCodeInvalidDiagram) {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidDiagram, err, "element %q", id)
}

func (b *builder) element(ctx context.Context, el *Element) (scene.Entity, error) {
	if el.CornerRadius != 0 && !isPolygon(el.Kind) {
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "element %q: corner_radius only applies to polygons", el.ID)
	}
	opts := b.shapeOptions(el)

	var (
		e   scene.Entity
		err error
	)
	switch el.Kind {
	case KindSquare:
		e, err = shape.NewSquare(or(el.Side, DefaultSide), opts...)
	case KindRectangle:
		e, err = shape.NewRectangle(or(el.Width, DefaultWidth), or(el.Height, DefaultHeight), opts...)
	case KindPolygon:
		e, err = shape.NewPolygon(points(el.Vertices), opts...)
	case KindRegularPolygon:
		n := el.Sides
		if n == 0 {
			n = DefaultSides
		}
		if el.StartAngle != 0 {
			opts = append(opts, shape.WithStartAngle(radians(el.StartAngle)))
		}
		e, err = shape.NewRegularPolygon(n, or(el.Radius, DefaultRadius), opts...)
	case KindTriangle:
		e, err = shape.NewTriangle(or(el.Side, DefaultSide), opts...)
	case KindCircle:
		e, err = shape.NewCircle(or(el.Radius, DefaultRadius), opts...)
	case KindDot:
		var at geom.Point
		if el.At != nil {
			at = el.At.point()
		}
		e, err = shape.NewDot(at, el.Radius, opts...)
	case KindArc:
		e, err = shape.NewArc(or(el.Radius, DefaultRadius), radians(el.StartAngle), radians(or(el.Angle, DefaultArcAngle)), opts...)
	case KindLine, KindArrow:
		e, err = b.line(el, opts)
	case KindText:
		e, err = b.text(el)
	case KindGraph:
		e, err = b.graph(ctx, el)
	case KindNumberLine:
		e, err = b.numberLine(el)
	case KindAxes:
		e, err = b.axes(el)
	case KindBrace:
		e, err = b.brace(el, opts)
	default:
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "unknown kind %q", el.Kind)
	}
	if err != nil {
		return nil, err
	}
	if el.Opacity != nil && el.Kind != KindText {
		shape.SetOpacity(e, *el.Opacity)
	}
	return e, nil
}

func (b *builder) shapeOptions(el *Element) []shape.Option {
	var opts []shape.Option
	st := style.Style{
		Fill:          style.ParseColor(el.Fill),
		FillOpacity:   el.FillOpacity,
		Stroke:        style.ParseColor(el.Stroke),
		StrokeOpacity: el.StrokeOpacity,
		StrokeWidth:   el.StrokeWidth,
		Dashed:        el.Dashed,
	}
	if st != (style.Style{}) {
		opts = append(opts, shape.WithStyle(st))
	}
	if el.Color != "" {
		opts = append(opts, shape.WithColor(style.ParseColor(el.Color)))
	}
	if el.ZIndex != nil {
		opts = append(opts, shape.WithZIndex(*el.ZIndex))
	}
	if el.CornerRadius > 0 {
		opts = append(opts, shape.WithCornerRadius(el.CornerRadius))
	}
	return opts
}

func (b *builder) line(el *Element, opts []shape.Option) (*shape.Line, error) {
	if el.From == nil || el.To == nil {
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "element %q: %s needs from and to", el.ID, el.Kind)
	}
	from, err := b.endpoint(*el.From)
	if err != nil {
		return nil, err
	}
	to, err := b.endpoint(*el.To)
	if err != nil {
		return nil, err
	}
	if el.Buff != 0 {
		opts = append(opts, shape.WithBuff(el.Buff))
	}
	if el.Kind == KindArrow {
		if el.Tip != 0 {
			opts = append(opts, shape.WithTip(el.Tip, el.Tip))
		}
		return shape.NewArrow(from, to, opts...)
	}
	return shape.NewLine(from, to, opts...)
}

func (b *builder) endpoint(r Ref) (shape.Endpoint, error) {
	if r.ID == "" {
		return shape.AtPoint(r.Point.point()), nil
	}
	e, err := b.lookup(r.ID)
	if err != nil {
		return shape.Endpoint{}, err
	}
	return shape.AtEntity(e), nil
}

func (b *builder) textOptions(el *Element) ([]text.Option, error) {
	var opts []text.Option
	if b.measurer != nil {
		opts = append(opts, text.WithMeasurer(b.measurer))
	}
	if el.Font != "" {
		fam, err := fonts.ParseFamily(el.Font)
		if err != nil {
			return nil, err
		}
		opts = append(opts, text.WithFamily(fam))
	}
	if el.Bold {
		opts = append(opts, text.WithBold(true))
	}
	if el.Italic {
		opts = append(opts, text.WithItalic(true))
	}
	if el.FontSize != 0 {
		opts = append(opts, text.WithFontSize(el.FontSize))
	}
	if el.MaxWidth != 0 {
		opts = append(opts, text.WithMaxWidth(el.MaxWidth))
	}
	if el.Decoration != "" {
		d, err := text.ParseDecoration(el.Decoration)
		if err != nil {
			return nil, err
		}
		opts = append(opts, text.WithDecoration(d))
	}
	if el.Padding != nil {
		opts = append(opts, text.WithPadding(el.Padding[0], el.Padding[1]))
	}
	if el.Leading != nil {
		opts = append(opts, text.WithLeading(*el.Leading))
	}
	if c := or(el.Color, el.Fill); c != "" {
		opts = append(opts, text.WithColor(style.ParseColor(c)))
	}
	if el.Opacity != nil {
		opts = append(opts, text.WithOpacity(*el.Opacity))
	}
	if el.ZIndex != nil {
		opts = append(opts, text.WithZIndex(*el.ZIndex))
	}
	return opts, nil
}

func (b *builder) text(el *Element) (*text.Text, error) {
	opts, err := b.textOptions(el)
	if err != nil {
		return nil, err
	}
	return text.New(el.Text, b.canvas.Frame(), opts...)
}

func (b *builder) graph(ctx context.Context, el *Element) (*graph.Graph, error) {
	def := el.Graph
	if def == nil {
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "element %q: graph needs a [element.graph] table", el.ID)
	}
	labelOpts, err := b.textOptions(&Element{
		Font: el.Font, Bold: el.Bold, Italic: el.Italic, FontSize: el.FontSize,
	})
	if err != nil {
		return nil, err
	}
	opts := graph.Options{
		Scale:           def.Scale,
		Directed:        def.Directed,
		VertexRadius:    el.Radius,
		VertexColor:     style.ParseColor(or(el.Color, el.Fill)),
		EdgeColor:       style.ParseColor(el.Stroke),
		EdgeStrokeWidth: el.StrokeWidth,
		TipLength:       el.Tip,
		TipWidth:        el.Tip,
		LabelVertices:   def.Labels,
		Frame:           b.canvas.Frame(),
		LabelOptions:    labelOpts,
	}

	switch strings.ToLower(def.Layout) {
	case "", "graphviz":
		opts.Layout = graph.GraphvizLayout{Engine: def.Engine, Directed: def.Directed}
	case "circular":
		opts.Layout = graph.CircularLayout{}
	case "tree":
		opts.Layout = graph.TreeLayout{Root: def.Root, Up: def.Up}
	case "fixed":
		fixed := make(graph.Fixed, len(def.Positions))
		for v, p := range def.Positions {
			fixed[v] = p.point()
		}
		opts.Layout = fixed
	default:
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "element %q: unknown graph layout %q", el.ID, def.Layout)
	}

	if len(def.EdgeLabels) > 0 {
		opts.EdgeLabels = make(map[graph.Edge]string, len(def.EdgeLabels))
		for _, l := range def.EdgeLabels {
			opts.EdgeLabels[graph.Edge{From: l.From, To: l.To}] = l.Label
		}
	}
	g, err := graph.New(ctx, def.Vertices, def.Edges, opts)
	if err != nil {
		return nil, err
	}
	if el.ZIndex != nil {
		g.SetZIndex(*el.ZIndex)
	}
	return g, nil
}

func (b *builder) numberLineOptions(el *Element, rng []float64) ([]plot.NumberLineOption, error) {
	def := el.Plot
	if def == nil {
		def = &Plot{}
	}
	var opts []plot.NumberLineOption
	switch len(rng) {
	case 0:
	case 2:
		opts = append(opts, plot.WithRange(rng[0], rng[1], 1))
	case 3:
		opts = append(opts, plot.WithRange(rng[0], rng[1], rng[2]))
	default:
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "element %q: range needs 2 or 3 values, got %d", el.ID, len(rng))
	}
	if def.Numbers != nil {
		opts = append(opts, plot.WithNumbers(*def.Numbers))
	}
	if def.Ticks != nil {
		opts = append(opts, plot.WithTicks(*def.Ticks))
	}
	if def.Tips != nil {
		opts = append(opts, plot.WithTips(*def.Tips))
	}
	if def.OriginTick != nil {
		opts = append(opts, plot.WithOriginTick(*def.OriginTick))
	}
	if c := or(el.Color, el.Stroke); c != "" {
		opts = append(opts, plot.WithColor(style.ParseColor(c)))
	}
	labelOpts, err := b.textOptions(&Element{Font: el.Font, FontSize: el.FontSize})
	if err != nil {
		return nil, err
	}
	return append(opts, plot.WithLabelOptions(labelOpts...)), nil
}

func (b *builder) numberLine(el *Element) (*plot.NumberLine, error) {
	var rng []float64
	vertical := false
	if el.Plot != nil {
		rng, vertical = el.Plot.XRange, el.Plot.Vertical
	}
	opts, err := b.numberLineOptions(el, rng)
	if err != nil {
		return nil, err
	}
	if vertical {
		opts = append(opts, plot.Vertical())
		if el.Height != 0 {
			opts = append(opts, plot.WithLength(el.Height))
		}
	} else if el.Width != 0 {
		opts = append(opts, plot.WithLength(el.Width))
	}
	return plot.NewNumberLine(b.canvas.Frame(), opts...)
}

func (b *builder) axes(el *Element) (*plot.Axes, error) {
	var xRange, yRange []float64
	if el.Plot != nil {
		xRange, yRange = el.Plot.XRange, el.Plot.YRange
	}
	frame := b.canvas.Frame()
	xOpts, err := b.numberLineOptions(el, xRange)
	if err != nil {
		return nil, err
	}
	yOpts, err := b.numberLineOptions(el, yRange)
	if err != nil {
		return nil, err
	}
	if el.Plot == nil || el.Plot.OriginTick == nil {
		xOpts = append(xOpts, plot.WithOriginTick(false))
		yOpts = append(yOpts, plot.WithOriginTick(false))
	}
	xOpts = append(xOpts, plot.WithLength(or(el.Width, frame.FrameWidth())))
	yOpts = append(yOpts, plot.Vertical(), plot.WithLength(or(el.Height, frame.FrameHeight())))
	x, err := plot.NewNumberLine(frame, xOpts...)
	if err != nil {
		return nil, err
	}
	y, err := plot.NewNumberLine(frame, yOpts...)
	if err != nil {
		return nil, err
	}
	return plot.NewAxes(x, y)
}

func (b *builder) brace(el *Element, opts []shape.Option) (*plot.Brace, error) {
	if el.From == nil {
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "element %q: brace needs from", el.ID)
	}
	var (
		br  *plot.Brace
		err error
	)
	switch {
	case el.From.ID != "":
		target, lerr := b.lookup(el.From.ID)
		if lerr != nil {
			return nil, lerr
		}
		edge, derr := ParseDirection(or(el.Edge, "down"))
		if derr != nil {
			return nil, derr
		}
		br, err = plot.NewBraceForEdge(target, edge, or(el.Buff, scene.SmallBuff), opts...)
	case el.To == nil || el.To.ID != "":
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "element %q: a brace from a point needs a point for to", el.ID)
	default:
		br, err = plot.NewBrace(el.From.Point.point(), el.To.Point.point(), opts...)
	}
	if err != nil {
		return nil, err
	}
	if el.Text != "" {
		label, err := b.text(&Element{Text: el.Text, Font: el.Font, FontSize: el.FontSize, Paint: Paint{Color: el.Color}})
		if err != nil {
			return nil, err
		}
		if err := br.AddLabel(label, scene.SmallBuff); err != nil {
			return nil, err
		}
	}
	return br, nil
}

// place runs the placement directives in a fixed order: scale, rotate,
// move_to, next_to, align_to, to_edge, shift.
func (b *builder) place(e scene.Entity, el *Element) error {
	n := e.Base()
	if el.Scale != 0 {
		if err := n.ScaleInPlace(el.Scale); err != nil {
			return err
		}
	}
	if el.Rotate != 0 {
		if err := n.RotateInPlace(radians(el.Rotate), geom.ZAxis); err != nil {
			return err
		}
	}
	if el.MoveTo != nil {
		target, err := b.target(*el.MoveTo)
		if err != nil {
			return err
		}
		if err := n.MoveTo(target); err != nil {
			return err
		}
	}
	if r := el.NextTo; r != nil {
		target, dir, err := b.relation(r, "next_to")
		if err != nil {
			return err
		}
		var opts []scene.LayoutOption
		if r.Buff != nil {
			opts = append(opts, scene.WithBuff(*r.Buff))
		}
		if r.AlignedEdge != "" {
			edge, err := ParseDirection(r.AlignedEdge)
			if err != nil {
				return err
			}
			opts = append(opts, scene.WithAlignedEdge(edge))
		}
		if err := n.NextTo(target, dir, opts...); err != nil {
			return err
		}
	}
	if r := el.AlignTo; r != nil {
		target, dir, err := b.relation(r, "align_to")
		if err != nil {
			return err
		}
		buff := 0.0
		if r.Buff != nil {
			buff = *r.Buff
		}
		if err := n.AlignTo(target, dir, buff); err != nil {
			return err
		}
	}
	if el.ToEdge != "" {
		if err := b.toEdge(n, el); err != nil {
			return err
		}
	}
	if el.Shift != nil {
		if err := n.Shift(el.Shift.point()); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) toEdge(n *scene.Node, el *Element) error {
	edge, err := ParseDirection(el.ToEdge)
	if err != nil {
		return err
	}
	buff := scene.DefaultEdgeBuff
	if el.EdgeBuff != nil {
		buff = *el.EdgeBuff
	}
	f := b.canvas.Frame()
	if err := n.ToEdge(f, edge, buff); err != nil {
		return err
	}
	// ToEdge measures from the origin; follow a shifted frame center.
	return n.Shift(edge.Hadamard(edge).Hadamard(f.Center))
}

func (b *builder) relation(r *Relation, directive string) (scene.Target, geom.Point, error) {
	if r.Target == "" {
		return nil, geom.Point{}, errors.New(errors.ErrCodeInvalidDiagram, "%s needs a target", directive)
	}
	e, err := b.lookup(r.Target)
	if err != nil {
		return nil, geom.Point{}, err
	}
	dir, err := ParseDirection(r.Direction)
	if err != nil {
		return nil, geom.Point{}, err
	}
	return e.Base(), dir, nil
}

func (b *builder) target(r Ref) (scene.Target, error) {
	if r.ID == "" {
		return scene.At(r.Point.point()), nil
	}
	e, err := b.lookup(r.ID)
	if err != nil {
		return nil, err
	}
	return e.Base(), nil
}

func (b *builder) lookup(id string) (scene.Entity, error) {
	e, ok := b.built[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "reference to unknown or later element %q", id)
	}
	return e, nil
}

func isPolygon(k Kind) bool {
	switch k {
	case KindSquare, KindRectangle, KindPolygon, KindRegularPolygon, KindTriangle:
		return true
	}
	return false
}

func (v Vec) point() geom.Point { return geom.Pt(v[0], v[1]) }

func points(vs []Vec) []geom.Point {
	out := make([]geom.Point, len(vs))
	for i, v := range vs {
		out[i] = v.point()
	}
	return out
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
