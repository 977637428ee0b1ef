package graph

import (
	"context"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/fonts"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/style"
	"github.com/matzehuels/stackdraw/pkg/text"
)

func TestMain(m *testing.M) {
	scene.SetLogger(nil)
	m.Run()
}

var approx = cmpopts.EquateApprox(0, 1e-9)

type gridMeasurer struct{}

func (gridMeasurer) Width(s string, _ fonts.Face, size float64) (float64, error) {
	return float64(utf8.RuneCountInString(s)) * size / 2, nil
}

func (gridMeasurer) Metrics(_ fonts.Face, size float64) (text.Metrics, error) {
	return text.Metrics{Ascent: size * 0.75, Descent: size * 0.25}, nil
}

var labelOpts = []text.Option{text.WithMeasurer(gridMeasurer{})}

func near(a, b geom.Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestNewWithFixedLayout(t *testing.T) {
	ctx := context.Background()
	g, err := New(ctx, []string{"a", "b"}, []Edge{{"a", "b"}}, Options{
		Layout:   Fixed{"a": geom.Origin, "b": geom.Pt(2, 0)},
		Directed: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Vertex("b").Center(); !near(got, geom.Pt(2, 0), 1e-3) {
		t.Errorf("vertex b center = %v", got)
	}
	arrow := g.Edge(Edge{"a", "b"})
	if arrow == nil || arrow.Tip() == nil {
		t.Fatal("directed edge should be an arrow")
	}
	if !near(arrow.Start(), geom.Pt(DefaultVertexRadius, 0), 1e-2) {
		t.Errorf("arrow start = %v, want on the boundary of a", arrow.Start())
	}
	if !near(arrow.End(), geom.Pt(2-DefaultVertexRadius, 0), 1e-2) {
		t.Errorf("arrow end = %v, want on the boundary of b", arrow.End())
	}
	if g.Vertex("a").Style.Fill != style.Gray {
		t.Errorf("vertex fill = %q, want gray", g.Vertex("a").Style.Fill)
	}
	if got := arrow.Style.StrokeWidth; got != DefaultEdgeStrokeWidth {
		t.Errorf("edge stroke width = %v", got)
	}
}

func TestUndirectedEdgesAreLines(t *testing.T) {
	g, err := New(context.Background(), []string{"a", "b"}, []Edge{{"a", "b"}}, Options{
		Layout: Fixed{"a": geom.Origin, "b": geom.Pt(0, 3)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.Edge(Edge{"a", "b"}).Tip() != nil {
		t.Error("undirected edge should have no tip")
	}
}

func TestNewErrors(t *testing.T) {
	fixed := Fixed{"a": geom.Origin, "b": geom.Right}
	tests := []struct {
		name     string
		vertices []string
		edges    []Edge
	}{
		{"no vertices", nil, nil},
		{"duplicate vertex", []string{"a", "a"}, nil},
		{"unknown vertex", []string{"a"}, []Edge{{"a", "z"}}},
		{"self loop", []string{"a", "b"}, []Edge{{"a", "a"}}},
		{"missing position", []string{"a", "b", "c"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.vertices, tt.edges, Options{Layout: fixed})
			if !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("error = %v, want INVALID_ARGUMENT", err)
			}
		})
	}
}

func TestCircularLayout(t *testing.T) {
	pos, err := CircularLayout{}.Positions(context.Background(), []string{"a", "b", "c", "d"}, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]geom.Point{
		"a": geom.Pt(2, 0), "b": geom.Pt(0, 2), "c": geom.Pt(-2, 0), "d": geom.Pt(0, -2),
	}
	if diff := cmp.Diff(want, pos, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeLayout(t *testing.T) {
	vertices := []string{"r", "a", "b", "c"}
	edges := []Edge{{"r", "a"}, {"r", "b"}, {"b", "c"}}
	pos, err := TreeLayout{Root: "r"}.Positions(context.Background(), vertices, edges, 2)
	if err != nil {
		t.Fatal(err)
	}
	// raw slots: a (0, -1), c (1, -2), b (1, -1), r (0.5, 0)
	want := map[string]geom.Point{
		"r": geom.Pt(0, 2),
		"a": geom.Pt(-1, 0),
		"b": geom.Pt(1, 0),
		"c": geom.Pt(1, -2),
	}
	if diff := cmp.Diff(want, pos, approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	up, err := TreeLayout{Root: "r", Up: true}.Positions(context.Background(), vertices, edges, 2)
	if err != nil {
		t.Fatal(err)
	}
	if up["r"].Y >= up["c"].Y {
		t.Errorf("upward tree should put the root at the bottom: %v", up)
	}
}

func TestTreeLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		root  string
		edges []Edge
	}{
		{"unknown root", "z", []Edge{{"a", "b"}, {"b", "c"}}},
		{"cycle", "a", []Edge{{"a", "b"}, {"b", "c"}, {"c", "a"}}},
		{"disconnected", "a", []Edge{{"a", "b"}, {"b", "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TreeLayout{Root: tt.root}.Positions(context.Background(), []string{"a", "b", "c"}, tt.edges, 1)
			if !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("error = %v, want INVALID_ARGUMENT", err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(map[string]geom.Point{"a": geom.Pt(10, 10), "b": geom.Pt(14, 12)}, 1)
	want := map[string]geom.Point{"a": geom.Pt(-1, -0.5), "b": geom.Pt(1, 0.5)}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
	single := Normalize(map[string]geom.Point{"a": geom.Pt(3, 4)}, 2)
	if single["a"] != geom.Origin {
		t.Errorf("single point = %v, want origin", single["a"])
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT([]string{"a", "b"}, []Edge{{"a", "b"}}, true)
	for _, want := range []string{"digraph G {", `"a";`, `"a" -> "b";`, "shape=circle"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
	if undirected := ToDOT([]string{"a", "b"}, []Edge{{"a", "b"}}, false); !strings.Contains(undirected, `"a" -- "b";`) {
		t.Errorf("undirected DOT output:\n%s", undirected)
	}
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Point
		wantErr bool
	}{
		{in: "27,90", want: geom.Pt(27, 90)},
		{in: "27.5,18!", want: geom.Pt(27.5, 18)},
		{in: " -3.25, 4 ", want: geom.Pt(-3.25, 4)},
		{in: "1,2,3", want: geom.Pt(1, 2)},
		{in: "", wantErr: true},
		{in: "12", wantErr: true},
		{in: "a,b", wantErr: true},
		{in: "1,2,3,4", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parsePos(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInternal) {
				t.Errorf("parsePos(%q) error = %v, want INTERNAL_ERROR", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePos(%q) error: %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("parsePos(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestGraphvizLayout(t *testing.T) {
	vertices := []string{"a", "b", "c"}
	edges := []Edge{{"a", "b"}, {"b", "c"}}
	pos, err := GraphvizLayout{Engine: "dot", Directed: true}.Positions(context.Background(), vertices, edges, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vertices {
		p, ok := pos[v]
		if !ok {
			t.Fatalf("no position for %q", v)
		}
		if math.Abs(p.X) > 2+1e-9 || math.Abs(p.Y) > 2+1e-9 {
			t.Errorf("%q at %v is outside the layout scale", v, p)
		}
	}
	if !(pos["a"].Y > pos["b"].Y && pos["b"].Y > pos["c"].Y) {
		t.Errorf("dot should rank a above b above c: %v", pos)
	}

	// Names that need quoting in DOT come back under their own name.
	odd := []string{"a-1", "b c"}
	pos, err = GraphvizLayout{Engine: "dot", Directed: true}.Positions(context.Background(), odd, []Edge{{odd[0], odd[1]}}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range odd {
		if _, ok := pos[v]; !ok {
			t.Errorf("no position for %q", v)
		}
	}
	if _, err := (GraphvizLayout{Engine: "bogus"}).Positions(context.Background(), vertices, edges, 2); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("unknown engine error = %v", err)
	}
}

func TestVertexLabels(t *testing.T) {
	g, err := New(context.Background(), []string{"a", "b"}, nil, Options{
		Layout:        Fixed{"a": geom.Origin, "b": geom.Pt(2, 1)},
		VertexLabels:  map[string]string{"a": "start"},
		LabelVertices: true,
		LabelOptions:  labelOpts,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := g.VertexLabel("a").Content(); got != "start" {
		t.Errorf("label a = %q, want start", got)
	}
	if got := g.VertexLabel("b").Content(); got != "b" {
		t.Errorf("label b = %q, want b", got)
	}
	if got := g.VertexLabel("b").BoxCenter(); !near(got, g.Vertex("b").Center(), 1e-9) {
		t.Errorf("label b center %v, vertex center %v", got, g.Vertex("b").Center())
	}
}

func TestEdgeLabels(t *testing.T) {
	e := Edge{"a", "b"}
	g, err := New(context.Background(), []string{"a", "b"}, []Edge{e}, Options{
		Layout:       Fixed{"a": geom.Origin, "b": geom.Pt(4, 0)},
		EdgeLabels:   map[Edge]string{e: "7"},
		LabelOptions: labelOpts,
	})
	if err != nil {
		t.Fatal(err)
	}
	label := g.EdgeLabel(e)
	if label == nil {
		t.Fatal("no edge label")
	}
	if !near(label.BoxCenter(), geom.Pt(2, 0), 1e-2) {
		t.Errorf("label center = %v, want edge midpoint", label.BoxCenter())
	}
	if label.Len() != 1 {
		t.Fatalf("label children = %d, want backing box", label.Len())
	}
	if label.Child(0).Base().ZIndex >= label.ZIndex {
		t.Error("backing box should paint below the label")
	}

	_, err = New(context.Background(), []string{"a", "b"}, []Edge{e}, Options{
		Layout:       Fixed{"a": geom.Origin, "b": geom.Pt(4, 0)},
		EdgeLabels:   map[Edge]string{{"b", "a"}: "7"},
		LabelOptions: labelOpts,
	})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("label on missing edge error = %v", err)
	}
}

func TestShiftMovesWholeGraph(t *testing.T) {
	g, err := New(context.Background(), []string{"a", "b"}, []Edge{{"a", "b"}}, Options{
		Layout:        Fixed{"a": geom.Origin, "b": geom.Pt(2, 0)},
		LabelVertices: true,
		LabelOptions:  labelOpts,
	})
	if err != nil {
		t.Fatal(err)
	}
	startBefore := g.Edge(Edge{"a", "b"}).Start()
	if err := g.Shift(geom.Pt(1, 1)); err != nil {
		t.Fatal(err)
	}
	if got := g.Vertex("a").Center(); !near(got, geom.Pt(1, 1), 1e-3) {
		t.Errorf("vertex a center = %v", got)
	}
	if got := g.Edge(Edge{"a", "b"}).Start(); !near(got, startBefore.Add(geom.Pt(1, 1)), 1e-12) {
		t.Errorf("edge start = %v", got)
	}
	if got := g.VertexLabel("a").BoxCenter(); !near(got, g.Vertex("a").Center(), 1e-9) {
		t.Errorf("label a center = %v", got)
	}
}

func TestFromAdjacency(t *testing.T) {
	vertices, edges := FromAdjacency(map[string][]string{
		"b": {"a"},
		"a": {"c"},
	})
	if diff := cmp.Diff([]string{"a", "b", "c"}, vertices); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Edge{{"a", "c"}, {"b", "a"}}, edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}
