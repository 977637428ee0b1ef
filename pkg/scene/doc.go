// Package scene implements the diagram tree: entity ownership, paint order,
// family-wide transforms and the critical-point layout system.
//
// # Entities
//
// Every diagram element embeds a [Node] and implements [Entity]. A node owns
// its children exclusively; [Node.Add] rejects cycles and skips duplicates
// with a warning. The family of a node is the node plus all descendants in
// depth-first pre-order ([Node.Family]).
//
// # Transforms
//
// [Node.Rotate], [Node.Scale], [Node.Stretch] and [Node.Shift] validate their
// arguments once, then hand a resolved [Transform] to every family member's
// ApplyTransform. Derived state such as bounding polygons is recomputed
// eagerly on every call.
//
// # Layout
//
// All relative placement goes through [Node.CriticalPoint], which selects one
// of nine bounding-box points of the family by direction:
//
//	sq.NextTo(other, geom.Right, scene.WithBuff(1))
//	label.AlignTo(sq, geom.Up, 0)
//	title.ToEdge(frame, geom.Up, scene.DefaultEdgeBuff)
//
// The scene graph is not safe for concurrent mutation.
package scene
