package graph

import (
	"context"
	"math"
	"slices"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

// Layout computes vertex positions. scale is the half-extent the result
// should span; layouts with absolute positions may ignore it.
type Layout interface {
	Positions(ctx context.Context, vertices []string, edges []Edge, scale float64) (map[string]geom.Point, error)
}

// Fixed places every vertex at the given position.
type Fixed map[string]geom.Point

// Positions implements [Layout]. Every vertex must have a position.
func (f Fixed) Positions(_ context.Context, vertices []string, _ []Edge, _ float64) (map[string]geom.Point, error) {
	out := make(map[string]geom.Point, len(vertices))
	for _, v := range vertices {
		p, ok := f[v]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "no position for vertex %q", v)
		}
		out[v] = p
	}
	return out, nil
}

// CircularLayout spaces vertices evenly on a circle of radius scale,
// counter-clockwise from the positive x axis in vertex order.
type CircularLayout struct{}

// Positions implements [Layout].
func (CircularLayout) Positions(_ context.Context, vertices []string, _ []Edge, scale float64) (map[string]geom.Point, error) {
	out := make(map[string]geom.Point, len(vertices))
	if len(vertices) == 1 {
		out[vertices[0]] = geom.Origin
		return out, nil
	}
	step := 2 * math.Pi / float64(len(vertices))
	for i, v := range vertices {
		a := step * float64(i)
		out[v] = geom.Pt(scale*math.Cos(a), scale*math.Sin(a))
	}
	return out, nil
}

// TreeLayout draws a tree in layers below its root, or above it when Up is
// set. Children are placed left to right in edge order and parents are
// centered over their children. Edge direction is ignored.
type TreeLayout struct {
	Root string
	Up   bool
}

type treeSlot struct {
	x     float64
	depth int
}

// Positions implements [Layout]. The graph must be a tree containing Root.
func (l TreeLayout) Positions(_ context.Context, vertices []string, edges []Edge, scale float64) (map[string]geom.Point, error) {
	adj := undirected(vertices, edges)
	if err := checkTree(l.Root, vertices, adj); err != nil {
		return nil, err
	}

	children := map[string][]string{l.Root: adj[l.Root]}
	parent := map[string]string{}
	for _, c := range adj[l.Root] {
		parent[c] = l.Root
	}
	pos := make(map[string]treeSlot, len(vertices))
	obstruction := make([]float64, len(vertices)+1)

	slide := func(v string, dx float64) {
		for level := []string{v}; len(level) > 0; {
			var next []string
			for _, u := range level {
				s := pos[u]
				s.x += dx
				obstruction[s.depth] = max(s.x+1, obstruction[s.depth])
				pos[u] = s
				next = append(next, children[u]...)
			}
			level = next
		}
	}

	stack := [][]string{slices.Clone(children[l.Root])}
	stick := []string{l.Root}
	for len(stack) > 0 {
		top := len(stack) - 1
		if len(stack[top]) == 0 {
			p := stick[len(stick)-1]
			stick = stick[:len(stick)-1]
			stack = stack[:top]
			depth := len(stack)
			x := obstruction[depth]
			if cp := children[p]; len(cp) > 0 {
				x = 0
				for _, c := range cp {
					x += pos[c].x
				}
				x /= float64(len(cp))
				pos[p] = treeSlot{x, depth}
				if ox := obstruction[depth]; x < ox {
					slide(p, ox-x)
					x = ox
				}
			}
			pos[p] = treeSlot{x, depth}
			obstruction[depth] = x + 1
			continue
		}

		t := stack[top][0]
		stack[top] = stack[top][1:]
		var ct []string
		for _, u := range adj[t] {
			if u != parent[t] {
				ct = append(ct, u)
				parent[u] = t
			}
		}
		children[t] = ct
		stack = append(stack, slices.Clone(ct))
		stick = append(stick, t)
	}

	sign := -1.0
	if l.Up {
		sign = 1
	}
	raw := make(map[string]geom.Point, len(pos))
	for v, s := range pos {
		raw[v] = geom.Pt(s.x, sign*float64(s.depth))
	}
	return Normalize(raw, scale), nil
}

// undirected returns the neighbor lists of every vertex in edge order,
// without duplicates.
func undirected(vertices []string, edges []Edge) map[string][]string {
	adj := make(map[string][]string, len(vertices))
	for _, v := range vertices {
		adj[v] = nil
	}
	link := func(a, b string) {
		if !slices.Contains(adj[a], b) {
			adj[a] = append(adj[a], b)
		}
	}
	for _, e := range edges {
		link(e.From, e.To)
		link(e.To, e.From)
	}
	return adj
}

func checkTree(root string, vertices []string, adj map[string][]string) error {
	if _, ok := adj[root]; !ok {
		return errors.New(errors.ErrCodeInvalidArgument, "tree root %q is not a vertex", root)
	}
	links := 0
	for _, ns := range adj {
		links += len(ns)
	}
	if links/2 != len(vertices)-1 {
		return errors.New(errors.ErrCodeInvalidArgument, "tree layout needs a tree: %d vertices but %d edges", len(vertices), links/2)
	}
	seen := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, u := range adj[v] {
			if !seen[u] {
				seen[u] = true
				queue = append(queue, u)
			}
		}
	}
	if len(seen) != len(vertices) {
		return errors.New(errors.ErrCodeInvalidArgument, "tree layout needs a connected graph")
	}
	return nil
}

// Normalize centers the bounding box of pos on the origin and scales it so
// its larger half-extent equals scale. A single point moves to the origin.
func Normalize(pos map[string]geom.Point, scale float64) map[string]geom.Point {
	pts := make([]geom.Point, 0, len(pos))
	for _, p := range pos {
		pts = append(pts, p)
	}
	b := geom.BoundsOf(pts)
	size := b.Size()
	half := max(size.X, size.Y) / 2
	out := make(map[string]geom.Point, len(pos))
	for v, p := range pos {
		q := p.Sub(b.Mid)
		if half > 0 {
			q = q.Mul(scale / half)
		}
		out[v] = geom.Pt(q.X, q.Y)
	}
	return out
}
