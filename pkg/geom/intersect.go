package geom

import "math"

// SegmentRayIntersect intersects the ray origin + t*dir (t >= 0) with the
// segment segStart→segEnd in the XY plane. It returns the hit point and the
// ray parameter t. Parallel rays and segments never intersect.
func SegmentRayIntersect(origin, dir, segStart, segEnd Point) (Point, float64, bool) {
	seg := segEnd.Sub(segStart)
	det := dir.Cross2(seg)
	if det == 0 {
		return Point{}, 0, false
	}

	diff := segStart.Sub(origin)
	t := diff.Cross2(seg) / det
	u := diff.Cross2(dir) / det
	if t < 0 || u < 0 || u > 1 {
		return Point{}, 0, false
	}
	return origin.Add(dir.Mul(t)).XY(), t, true
}

// ClosestBoundaryIntersection casts a ray from origin along dir against every
// edge of the closed polygon poly and returns the nearest hit. The origin may
// lie inside or outside the polygon.
func ClosestBoundaryIntersection(poly []Point, origin, dir Point) (Point, bool) {
	best := math.Inf(1)
	var hit Point
	found := false
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		p, t, ok := SegmentRayIntersect(origin, dir, a, b)
		if ok && t < best {
			best, hit, found = t, p, true
		}
	}
	return hit, found
}

// ConvexPolygonOverlap reports whether two convex polygons intersect, using
// the separating axis theorem over the edge normals of both polygons.
// Touching polygons count as overlapping. Concave input may produce false
// negatives.
func ConvexPolygonOverlap(a, b []Point) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for _, poly := range [2][]Point{a, b} {
		for i, p := range poly {
			edge := poly[(i+1)%len(poly)].Sub(p)
			normal := Point{X: -edge.Y, Y: edge.X}
			if normal.X == 0 && normal.Y == 0 {
				continue
			}
			minA, maxA := project(a, normal)
			minB, maxB := project(b, normal)
			if maxA < minB || maxB < minA {
				return false
			}
		}
	}
	return true
}

func project(poly []Point, axis Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		d := p.X*axis.X + p.Y*axis.Y
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
