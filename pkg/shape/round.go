package shape

import (
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
)

var (
	// ErrCornerRadiusTooLarge is returned by RoundCorners when some edge is
	// shorter than twice the radius. The shape keeps its sharp corners.
	ErrCornerRadiusTooLarge = errors.New(errors.ErrCodeInvalidArgument, "corner radius too large for polygon edge")

	// ErrUnsupportedWinding is returned by RoundCorners for concave or
	// clockwise polygons. The shape keeps its sharp corners.
	ErrUnsupportedWinding = errors.New(errors.ErrCodeUnsupported, "corner rounding needs a convex counter-clockwise polygon")
)

// collinearTolerance is the turn angle below which two edges are joined by a
// straight quad instead of an arc.
const collinearTolerance = 1e-9

// straightPolygon reports whether s is a closed polygon whose edges are each
// a single quad between consecutive tracked vertices. Circles, arcs and
// already rounded polygons fail.
func (s *Shape) straightPolygon() bool {
	if !s.path.Closed() || s.rounded || len(s.vertices) < 3 {
		return false
	}
	quads := s.path.Quads()
	if len(quads) != len(s.vertices) {
		return false
	}
	for i, q := range quads {
		if !q.Start().ApproxEqual(s.vertices[i], 1e-9) || !q.End().ApproxEqual(s.vertices[(i+1)%len(s.vertices)], 1e-9) {
			return false
		}
	}
	return true
}

// RoundCorners replaces every corner of a closed straight-edged polygon by a
// circular arc of the given radius. Each edge is shortened by radius at both
// ends and consecutive edges, including last to first, are joined by an arc
// sweeping the turn angle between them.
//
// A zero radius is a no-op. If any edge is too short, or the polygon is not
// convex and counter-clockwise, nothing changes: a warning is logged and
// [ErrCornerRadiusTooLarge] or [ErrUnsupportedWinding] is returned.
func (s *Shape) RoundCorners(radius float64) error {
	if err := errors.ValidateFinite("corner radius", radius); err != nil {
		return err
	}
	if radius < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "corner radius must not be negative, got %g", radius)
	}
	if radius == 0 {
		return nil
	}
	if !s.straightPolygon() {
		return errors.New(errors.ErrCodeUnsupported, "corner rounding needs a closed polygon with straight edges")
	}

	log := scene.Logger()
	corners := s.path.StartAnchors()
	if !geom.IsConvex(corners) || geom.SignedArea(corners) <= 0 {
		log.Warn("polygon is not convex and counter-clockwise, keeping sharp corners", "entity", s.ID)
		return ErrUnsupportedWinding
	}

	quads := s.path.Quads()
	edges := make([]geom.Quad, 0, len(quads))
	for i, q := range quads {
		vec := q.End().Sub(q.Start())
		length := vec.Norm()
		if 2*radius+roundingSlack > length {
			log.Warn("corner radius too large, keeping sharp corners",
				"entity", s.ID, "radius", radius, "edge", i, "length", length)
			return ErrCornerRadiusTooLarge
		}
		dir := vec.Div(length)
		edges = append(edges, geom.LineQuad(q.Start().Add(dir.Mul(radius)), q.End().Sub(dir.Mul(radius))))
	}

	pts := make([]geom.Point, 0, len(edges)*(geom.PointsPerCurve+DefaultArcComponents*geom.PointsPerCurve))
	for i, edge := range edges {
		next := edges[(i+1)%len(edges)]
		corner, err := cornerPoints(edge, next)
		if err != nil {
			return err
		}
		pts = append(pts, edge[:]...)
		pts = append(pts, corner...)
	}
	if err := s.path.SetPoints(pts); err != nil {
		return err
	}
	s.rounded = true
	s.variant.CornerRadius = radius
	return nil
}

// cornerPoints joins the end of one shrunk edge to the start of the next.
func cornerPoints(prev, cur geom.Quad) ([]geom.Point, error) {
	turn := geom.AngleBetween(prev.End().Sub(prev.Start()), cur.End().Sub(cur.Start()))
	if turn < collinearTolerance {
		q := geom.LineQuad(prev.End(), cur.Start())
		return q[:], nil
	}
	center, r, start, sweep, err := arcThrough(prev.End(), cur.Start(), turn, 0)
	if err != nil {
		return nil, err
	}
	return arcPoints(r, start, sweep, DefaultArcComponents, center), nil
}
