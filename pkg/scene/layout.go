package scene

import (
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

// Default gaps used by the layout helpers.
const (
	DefaultBuff     = 0.25
	DefaultEdgeBuff = 0.5
	SmallBuff       = 0.1
)

// Target is anything a layout operation can position against. Every entity
// is a Target through its embedded [Node]; fixed points are wrapped with [At].
type Target interface {
	CriticalPoint(dir geom.Point) (geom.Point, error)
}

// At adapts a fixed point to [Target]. Every critical point of a point is
// the point itself.
type At geom.Point

// CriticalPoint implements [Target].
func (a At) CriticalPoint(dir geom.Point) (geom.Point, error) {
	if err := geom.ValidateDirection(dir); err != nil {
		return geom.Point{}, err
	}
	return geom.Point(a), nil
}

// LayoutOption configures [Node.NextTo] and [Node.CloseTo].
type LayoutOption func(*layoutConfig)

type layoutConfig struct {
	buff        float64
	alignedEdge *geom.Point
}

// WithBuff sets the gap between the two entities.
func WithBuff(buff float64) LayoutOption {
	return func(c *layoutConfig) { c.buff = buff }
}

// WithAlignedEdge aligns the edge perpendicular to the placement direction
// after placing. edge must be UP, DOWN, LEFT, RIGHT or ORIGIN.
func WithAlignedEdge(edge geom.Point) LayoutOption {
	return func(c *layoutConfig) { c.alignedEdge = &edge }
}

func layoutOptions(opts []LayoutOption) layoutConfig {
	c := layoutConfig{buff: DefaultBuff}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NextTo places the family on the dir side of target: the critical point of
// this family opposite to dir is moved onto target's dir critical point, plus
// a gap of buff along dir. dir must be a bounding-box direction (not ORIGIN).
func (n *Node) NextTo(target Target, dir geom.Point, opts ...LayoutOption) error {
	if !isBBoxDirection(dir) {
		return errors.New(errors.ErrCodeInvalidDirection, "direction %v must be a bbox point such as UP or LEFT", dir)
	}
	cfg := layoutOptions(opts)

	dest, err := target.CriticalPoint(dir)
	if err != nil {
		return err
	}
	cur := n.critical(dir.Neg())
	if err := n.Shift(dest.Sub(cur).Add(dir.Mul(cfg.buff))); err != nil {
		return err
	}
	if cfg.alignedEdge != nil {
		return n.AlignTo(target, *cfg.alignedEdge, 0)
	}
	return nil
}

// AlignTo shifts the family along a single axis so that its edge critical
// point lines up with target's, then backs off by buff. edge must be UP,
// DOWN, LEFT, RIGHT or ORIGIN; ORIGIN leaves the family where it is.
func (n *Node) AlignTo(target Target, edge geom.Point, buff float64) error {
	if !isEdge(edge) && edge != geom.Origin {
		return errors.New(errors.ErrCodeInvalidDirection, "edge %v must be one of UP, DOWN, LEFT, RIGHT or ORIGIN", edge)
	}
	dest, err := target.CriticalPoint(edge)
	if err != nil {
		return err
	}
	cur := n.critical(edge)
	back := edge.Mul(buff)
	switch {
	case edge.Y != 0:
		return n.Shift(geom.Pt(0, dest.Y-cur.Y).Sub(back))
	case edge.X != 0:
		return n.Shift(geom.Pt(dest.X-cur.X, 0).Sub(back))
	}
	return nil
}

// MoveTo moves the family center onto target's center.
func (n *Node) MoveTo(target Target) error {
	dest, err := target.CriticalPoint(geom.Origin)
	if err != nil {
		return err
	}
	return n.Shift(dest.Sub(n.Center()))
}

// SetPosition moves the family center to p.
func (n *Node) SetPosition(p geom.Point) error {
	return n.Shift(p.Sub(n.Center()))
}

// SetX moves the family horizontally so its center has the given x.
func (n *Node) SetX(x float64) error {
	c := n.Center()
	c.X = x
	return n.SetPosition(c)
}

// SetY moves the family vertically so its center has the given y.
func (n *Node) SetY(y float64) error {
	c := n.Center()
	c.Y = y
	return n.SetPosition(c)
}

// Frame is the visible area [Node.ToEdge] aligns against.
type Frame interface {
	FrameWidth() float64
	FrameHeight() float64
}

// ToEdge aligns the family against one edge of frame, buff units inside it.
// edge must be UP, DOWN, LEFT or RIGHT.
func (n *Node) ToEdge(frame Frame, edge geom.Point, buff float64) error {
	if !isEdge(edge) {
		return errors.New(errors.ErrCodeInvalidDirection, "edge %v must be one of UP, DOWN, LEFT or RIGHT", edge)
	}
	p := edge.Hadamard(geom.Pt(frame.FrameWidth()/2, frame.FrameHeight()/2))
	return n.AlignTo(At(p), edge, buff)
}

// closeToOrder lists the directions CloseTo tries after the preferred one.
var closeToOrder = []geom.Point{
	geom.Right, geom.Up, geom.Left, geom.Down,
	geom.UR, geom.UL, geom.DL, geom.DR,
}

// CloseTo is NextTo that avoids collisions: it tries dir first, then the
// four edges and four corners, and keeps the first placement whose own
// bounding polygon does not overlap any obstacle. When every direction
// collides it falls back to dir. Overlap is tested on bounding polygons as
// convex shapes, so curved outlines are approximated.
func (n *Node) CloseTo(target Entity, obstacles []Entity, dir geom.Point, opts ...LayoutOption) error {
	if target == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "close-to target must be an entity")
	}
	tries := append([]geom.Point{dir}, closeToOrder...)
	tries = append(tries, dir)

	for _, d := range tries {
		if err := n.NextTo(target.Base(), d, opts...); err != nil {
			return err
		}
		if !n.collides(obstacles) {
			return nil
		}
	}
	return nil
}

func (n *Node) collides(obstacles []Entity) bool {
	own := n.Self().BoundingPolygon()
	for _, o := range obstacles {
		if o == nil || o.Base() == n {
			continue
		}
		other := o.BoundingPolygon()
		if len(other) > 0 && geom.ConvexPolygonOverlap(own, other) {
			return true
		}
	}
	return false
}

func isEdge(dir geom.Point) bool {
	return dir == geom.Up || dir == geom.Down || dir == geom.Left || dir == geom.Right
}
