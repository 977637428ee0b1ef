package graph

import (
	"context"
	"slices"

	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
	"github.com/matzehuels/stackdraw/pkg/style"
	"github.com/matzehuels/stackdraw/pkg/text"
)

// Defaults applied by [New].
const (
	DefaultScale           = 2.0
	DefaultVertexRadius    = 0.2
	DefaultEdgeStrokeWidth = 2.0
	DefaultTipSize         = 0.1
	DefaultLabelFontSize   = 24.0

	edgeLabelBuff = 0.005
)

// Edge joins two vertices. For directed graphs it points From → To.
type Edge struct {
	From string `json:"from" bson:"from" toml:"from"`
	To   string `json:"to" bson:"to" toml:"to"`
}

// Options configures [New]. Zero values take the defaults noted on each
// field.
type Options struct {
	Layout   Layout  // default GraphvizLayout with Directed copied from below
	Scale    float64 // default 2
	Directed bool    // draw arrows instead of lines

	VertexRadius    float64     // default 0.2
	VertexColor     style.Color // default gray
	EdgeColor       style.Color // default white
	EdgeStrokeWidth float64     // default 2
	TipLength       float64     // default 0.1
	TipWidth        float64     // default 0.1

	// VertexLabels labels the vertices. Vertices missing from a non-nil map
	// are labeled with their name; a nil map with LabelVertices set labels
	// every vertex with its name.
	VertexLabels  map[string]string
	LabelVertices bool

	// EdgeLabels puts a label on the midpoint of each listed edge, over a
	// box painted in the frame background.
	EdgeLabels map[Edge]string

	Frame        config.Frame // for labels; zero means config.DefaultFrame()
	LabelOptions []text.Option
}

func (o Options) withDefaults() Options {
	if o.Layout == nil {
		o.Layout = GraphvizLayout{Directed: o.Directed}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.VertexRadius == 0 {
		o.VertexRadius = DefaultVertexRadius
	}
	if o.VertexColor == "" {
		o.VertexColor = style.Gray
	}
	if o.EdgeColor == "" {
		o.EdgeColor = style.White
	}
	if o.EdgeStrokeWidth == 0 {
		o.EdgeStrokeWidth = DefaultEdgeStrokeWidth
	}
	if o.TipLength == 0 {
		o.TipLength = DefaultTipSize
	}
	if o.TipWidth == 0 {
		o.TipWidth = DefaultTipSize
	}
	if o.Frame == (config.Frame{}) {
		o.Frame = config.DefaultFrame()
	}
	return o
}

// Graph is a drawn graph. Vertices, edges and labels are its children, so
// moving the graph moves all of them.
type Graph struct {
	scene.Node

	order        []string
	edgeOrder    []Edge
	vertices     map[string]*shape.Shape
	edges        map[Edge]*shape.Line
	vertexLabels map[string]*text.Text
	edgeLabels   map[Edge]*text.Text
}

// New lays out and draws a graph. Vertex names must be unique and every
// edge must join two distinct, known vertices.
func New(ctx context.Context, vertices []string, edges []Edge, opts Options) (*Graph, error) {
	if err := validate(vertices, edges); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if err := errors.ValidateFinite("graph options", opts.Scale, opts.VertexRadius, opts.EdgeStrokeWidth, opts.TipLength, opts.TipWidth); err != nil {
		return nil, err
	}

	pos, err := opts.Layout.Positions(ctx, vertices, edges, opts.Scale)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		order:        slices.Clone(vertices),
		edgeOrder:    slices.Clone(edges),
		vertices:     make(map[string]*shape.Shape, len(vertices)),
		edges:        make(map[Edge]*shape.Line, len(edges)),
		vertexLabels: make(map[string]*text.Text),
		edgeLabels:   make(map[Edge]*text.Text),
	}
	g.Bind(g)

	for _, v := range vertices {
		dot, err := shape.NewDot(pos[v], opts.VertexRadius, shape.WithColor(opts.VertexColor))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "vertex %q", v)
		}
		g.vertices[v] = dot
		if err := g.Add(dot); err != nil {
			return nil, err
		}
	}

	for _, e := range edges {
		line, err := g.newEdge(e, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "edge %s → %s", e.From, e.To)
		}
		g.edges[e] = line
		if err := g.Add(line); err != nil {
			return nil, err
		}
	}

	if opts.LabelVertices || opts.VertexLabels != nil {
		if err := g.labelVertices(opts); err != nil {
			return nil, err
		}
	}
	if err := g.labelEdges(opts); err != nil {
		return nil, err
	}
	return g, nil
}

func validate(vertices []string, edges []Edge) error {
	if len(vertices) == 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "graph needs at least one vertex")
	}
	seen := make(map[string]bool, len(vertices))
	for _, v := range vertices {
		if seen[v] {
			return errors.New(errors.ErrCodeInvalidArgument, "duplicate vertex %q", v)
		}
		seen[v] = true
	}
	for _, e := range edges {
		if !seen[e.From] || !seen[e.To] {
			return errors.New(errors.ErrCodeInvalidArgument, "edge %s → %s references an unknown vertex", e.From, e.To)
		}
		if e.From == e.To {
			return errors.New(errors.ErrCodeInvalidArgument, "self-loop on vertex %q is not supported", e.From)
		}
	}
	return nil
}

func (g *Graph) newEdge(e Edge, opts Options) (*shape.Line, error) {
	from, to := shape.AtEntity(g.vertices[e.From]), shape.AtEntity(g.vertices[e.To])
	lineOpts := []shape.Option{
		shape.WithStyle(style.Style{Stroke: opts.EdgeColor, StrokeWidth: opts.EdgeStrokeWidth}),
	}
	if opts.Directed {
		lineOpts = append(lineOpts, shape.WithTip(opts.TipLength, opts.TipWidth))
		return shape.NewArrow(from, to, lineOpts...)
	}
	return shape.NewLine(from, to, lineOpts...)
}

func (g *Graph) labelVertices(opts Options) error {
	for _, v := range g.order {
		label, ok := opts.VertexLabels[v]
		if !ok {
			label = v
		}
		t, err := g.newLabel(label, opts)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidArgument, err, "label for vertex %q", v)
		}
		if err := t.MoveTo(g.vertices[v]); err != nil {
			return err
		}
		g.vertexLabels[v] = t
		if err := g.Add(t); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) labelEdges(opts Options) error {
	for _, e := range g.edgeOrder {
		label, ok := opts.EdgeLabels[e]
		if !ok {
			continue
		}
		t, err := g.newLabel(label, opts)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidArgument, err, "label for edge %s → %s", e.From, e.To)
		}
		if err := t.MoveTo(scene.At(g.edges[e].Midpoint())); err != nil {
			return err
		}
		backing, err := shape.NewSurroundingRectangle(t, edgeLabelBuff,
			shape.WithStyle(style.Style{Fill: opts.Frame.Background, FillOpacity: 1, Stroke: "none"}))
		if err != nil {
			return err
		}
		if err := t.Add(backing); err != nil {
			return err
		}
		g.edgeLabels[e] = t
		if err := g.Add(t); err != nil {
			return err
		}
	}
	for e := range opts.EdgeLabels {
		if _, ok := g.edges[e]; !ok {
			return errors.New(errors.ErrCodeInvalidArgument, "label for missing edge %s → %s", e.From, e.To)
		}
	}
	return nil
}

func (g *Graph) newLabel(label string, opts Options) (*text.Text, error) {
	textOpts := append([]text.Option{text.WithFontSize(DefaultLabelFontSize)}, opts.LabelOptions...)
	return text.New(label, opts.Frame, textOpts...)
}

// Vertices returns the vertex names in construction order.
func (g *Graph) Vertices() []string { return slices.Clone(g.order) }

// Edges returns the edges in construction order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edgeOrder) }

// Vertex returns the dot drawn for v, or nil.
func (g *Graph) Vertex(v string) *shape.Shape { return g.vertices[v] }

// Edge returns the line or arrow drawn for e, or nil.
func (g *Graph) Edge(e Edge) *shape.Line { return g.edges[e] }

// VertexLabel returns the label of v, or nil.
func (g *Graph) VertexLabel(v string) *text.Text { return g.vertexLabels[v] }

// EdgeLabel returns the label of e, or nil.
func (g *Graph) EdgeLabel(e Edge) *text.Text { return g.edgeLabels[e] }

// FromAdjacency converts a vertex → neighbors map into vertex and edge
// lists. Vertices are sorted by name; neighbors that are not keys are added
// as vertices too.
func FromAdjacency(adj map[string][]string) ([]string, []Edge) {
	seen := make(map[string]bool)
	var vertices []string
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			vertices = append(vertices, v)
		}
	}
	keys := make([]string, 0, len(adj))
	for v := range adj {
		keys = append(keys, v)
	}
	slices.Sort(keys)

	var edges []Edge
	for _, v := range keys {
		add(v)
		for _, u := range adj[v] {
			edges = append(edges, Edge{From: v, To: u})
		}
	}
	for _, e := range edges {
		add(e.To)
	}
	slices.Sort(vertices)
	return vertices, edges
}
