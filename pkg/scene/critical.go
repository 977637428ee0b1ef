package scene

import (
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

// FamilyPolygon concatenates the bounding polygons of every family member.
func (n *Node) FamilyPolygon() []geom.Point {
	var pts []geom.Point
	for _, m := range n.Family() {
		pts = append(pts, m.BoundingPolygon()...)
	}
	return pts
}

// Bounds returns the axis-aligned bounds of the family.
func (n *Node) Bounds() geom.Bounds {
	return geom.BoundsOf(n.FamilyPolygon())
}

// CriticalPoint returns one of the nine bounding-box points of the family:
// corners, edge midpoints or center. The X and Y components of dir must each
// be -1, 0 or 1; anything else is an INVALID_DIRECTION error. A family with no
// extent reports the origin.
//
// Every other position helper is built on this method.
func (n *Node) CriticalPoint(dir geom.Point) (geom.Point, error) {
	return n.Bounds().Critical(dir)
}

func (n *Node) critical(dir geom.Point) geom.Point {
	p, _ := n.CriticalPoint(dir)
	return p
}

// Top returns the midpoint of the top edge.
func (n *Node) Top() geom.Point { return n.critical(geom.Up) }

// Bottom returns the midpoint of the bottom edge.
func (n *Node) Bottom() geom.Point { return n.critical(geom.Down) }

// Left returns the midpoint of the left edge.
func (n *Node) Left() geom.Point { return n.critical(geom.Left) }

// Right returns the midpoint of the right edge.
func (n *Node) Right() geom.Point { return n.critical(geom.Right) }

// Center returns the center of the family's bounding box.
func (n *Node) Center() geom.Point { return n.critical(geom.Origin) }

// Corner returns the bounding-box corner selected by dir, which must be one
// of UL, UR, DL or DR.
func (n *Node) Corner(dir geom.Point) (geom.Point, error) {
	if !isCorner(dir) {
		return geom.Point{}, errors.New(errors.ErrCodeInvalidDirection, "direction %v is not a corner", dir)
	}
	return n.CriticalPoint(dir)
}

// BBox returns the four bounding-box corners in the order UR, UL, DL, DR.
func (n *Node) BBox() []geom.Point {
	return []geom.Point{
		n.critical(geom.UR),
		n.critical(geom.UL),
		n.critical(geom.DL),
		n.critical(geom.DR),
	}
}

// Width returns the horizontal extent of the family.
func (n *Node) Width() float64 { return n.Right().X - n.Left().X }

// Height returns the vertical extent of the family.
func (n *Node) Height() float64 { return n.Top().Y - n.Bottom().Y }

// ClosestIntersection returns the nearest point where the ray from origin
// along dir crosses this entity's own bounding polygon. When the ray misses
// it logs a warning and falls back to the family center.
func (n *Node) ClosestIntersection(origin, dir geom.Point) geom.Point {
	if p, ok := geom.ClosestBoundaryIntersection(n.Self().BoundingPolygon(), origin, dir); ok {
		return p
	}
	Logger().Warn("no boundary intersection, using center", "entity", n.ID, "origin", origin, "direction", dir)
	return n.Center()
}

func isCorner(dir geom.Point) bool {
	return dir.X != 0 && dir.Y != 0 && geom.ValidateDirection(dir) == nil
}

func isBBoxDirection(dir geom.Point) bool {
	return (dir.X != 0 || dir.Y != 0) && geom.ValidateDirection(dir) == nil
}
