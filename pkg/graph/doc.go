// Package graph builds graph-theory diagrams: vertices drawn as dots joined
// by lines or arrows.
//
// # Building a graph
//
// [New] takes vertex names, [Edge] pairs and [Options]. Vertex positions
// come from a [Layout]:
//
//   - [GraphvizLayout]: a Graphviz engine (neato by default) run through
//     go-graphviz, positions read from each node's pos attribute
//   - [CircularLayout]: vertices evenly spaced on a circle
//   - [TreeLayout]: layered drawing of a tree below (or above) a root
//   - [Fixed]: explicit positions, used as given
//
// Computed layouts are centered on the origin and scaled so that the
// farthest vertex sits Options.Scale units from the center along x or y.
//
// Edges are clipped to the vertex outlines, so arrow tips touch the dots
// they point at. Optional vertex labels sit on the vertices; edge labels
// sit on the edge midpoints over a background-colored box.
//
// # Adjacency lists
//
// [FromAdjacency] converts a vertex → neighbors map into the vertex and
// edge lists [New] takes, with vertices sorted for deterministic output.
//
//	vertices, edges := graph.FromAdjacency(map[string][]string{
//		"a": {"b", "c"},
//		"b": {"c"},
//	})
//	g, err := graph.New(ctx, vertices, edges, graph.Options{Directed: true})
package graph
