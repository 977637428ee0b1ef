package shape

import (
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

// Path is a sequence of cubic bezier quads (anchor, handle, handle, anchor).
//
// The point buffer is private. SetPoints and AppendPoints are the only
// writers, and both recompute the bounding polygon before returning, so the
// two can never disagree.
type Path struct {
	points   []geom.Point
	closed   bool
	bounding []geom.Point
}

// NewPath returns an empty path. closed selects how the bounding polygon is
// derived: closed paths use the quad start anchors only, open paths also
// include the final end anchor.
func NewPath(closed bool) *Path {
	return &Path{closed: closed}
}

// Points returns a copy of the point buffer.
func (p *Path) Points() []geom.Point { return geom.Clone(p.points) }

// Len returns the number of points.
func (p *Path) Len() int { return len(p.points) }

// Closed reports whether the path closes back on its start.
func (p *Path) Closed() bool { return p.closed }

// BoundingPolygon returns the polygon derived from the current points.
func (p *Path) BoundingPolygon() []geom.Point { return p.bounding }

// SetPoints replaces the point buffer. The length must be a multiple of
// [geom.PointsPerCurve].
func (p *Path) SetPoints(pts []geom.Point) error {
	if len(pts)%geom.PointsPerCurve != 0 {
		return errors.New(errors.ErrCodeInvalidArgument,
			"point count %d is not divisible by %d", len(pts), geom.PointsPerCurve)
	}
	p.points = geom.Clone(pts)
	p.bounding = geom.StartAnchors(p.points)
	if !p.closed && len(p.points) > 0 {
		p.bounding = append(p.bounding, p.points[len(p.points)-1])
	}
	return nil
}

// AppendPoints adds whole quads to the end of the path.
func (p *Path) AppendPoints(pts []geom.Point) error {
	return p.SetPoints(append(geom.Clone(p.points), pts...))
}

// SetClosed changes the closed flag and rederives the bounding polygon.
func (p *Path) SetClosed(closed bool) {
	p.closed = closed
	_ = p.SetPoints(p.points)
}

// StartAnchors returns the first point of every quad.
func (p *Path) StartAnchors() []geom.Point { return geom.StartAnchors(p.points) }

// EndAnchors returns the last point of every quad.
func (p *Path) EndAnchors() []geom.Point { return geom.EndAnchors(p.points) }

// Quads returns the path chunked into quads.
func (p *Path) Quads() []geom.Quad {
	q, _ := geom.Quads(p.points)
	return q
}

// PointFromProportion returns the point a fraction t along the path. The
// path is measured as a polyline through all of its points, so the result
// is an approximation on curved segments.
func (p *Path) PointFromProportion(t float64) (geom.Point, error) {
	return geom.PointFromProportion(p.points, t)
}
