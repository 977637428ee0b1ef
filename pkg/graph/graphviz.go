package graph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

// DefaultEngine is the Graphviz engine used when GraphvizLayout.Engine is
// empty. neato is a spring model, which suits undirected drawings.
const DefaultEngine = "neato"

var engines = map[string]graphviz.Layout{
	"dot":   graphviz.DOT,
	"neato": graphviz.NEATO,
	"fdp":   graphviz.FDP,
	"sfdp":  graphviz.SFDP,
	"circo": graphviz.CIRCO,
	"twopi": graphviz.TWOPI,
}

// GraphvizLayout positions vertices with a Graphviz engine: dot, neato,
// fdp, sfdp, circo or twopi.
type GraphvizLayout struct {
	Engine   string
	Directed bool
}

// Positions implements [Layout].
func (l GraphvizLayout) Positions(ctx context.Context, vertices []string, edges []Edge, scale float64) (map[string]geom.Point, error) {
	name := l.Engine
	if name == "" {
		name = DefaultEngine
	}
	engine, ok := engines[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown graphviz engine %q", name)
	}
	pos, err := layoutDOT(ctx, ToDOT(vertices, edges, l.Directed), engine, vertices)
	if err != nil {
		return nil, err
	}
	return Normalize(pos, scale), nil
}

// ToDOT writes the graph in DOT format with circular, unlabeled nodes so
// that every vertex takes the same room.
func ToDOT(vertices []string, edges []Edge, directed bool) string {
	var buf bytes.Buffer
	kind, arrow := "graph", "--"
	if directed {
		kind, arrow = "digraph", "->"
	}
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  node [shape=circle, label=\"\", width=0.4, fixedsize=true];\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("\n")
	for _, v := range vertices {
		fmt.Fprintf(&buf, "  %q;\n", v)
	}
	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q %s %q;\n", e.From, arrow, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// layoutDOT runs engine over dot and reads each vertex center from the pos
// attribute Graphviz writes back onto the node during DOT output.
func layoutDOT(ctx context.Context, dot string, engine graphviz.Layout, vertices []string) (map[string]geom.Point, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(engine)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	if err := gv.Render(ctx, g, graphviz.XDOT, io.Discard); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "layout")
	}
	pos := make(map[string]geom.Point, len(vertices))
	for _, v := range vertices {
		n, err := g.NodeByName(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "look up vertex %q", v)
		}
		if n == nil {
			return nil, errors.New(errors.ErrCodeInternal, "graphviz output has no node for vertex %q", v)
		}
		p, err := parsePos(n.GetStr("pos"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "vertex %q", v)
		}
		pos[v] = p
	}
	return pos, nil
}

// parsePos reads a Graphviz point "x,y", optionally with a z component or
// a trailing "!" pin marker. Graphviz output is y-up like diagram space.
func parsePos(s string) (geom.Point, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "!")
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return geom.Point{}, errors.New(errors.ErrCodeInternal, "malformed position %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geom.Point{}, errors.Wrap(errors.ErrCodeInternal, err, "position x in %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geom.Point{}, errors.Wrap(errors.ErrCodeInternal, err, "position y in %q", s)
	}
	return geom.Pt(x, y), nil
}
