// Package geom holds the stateless geometry used by the scene graph.
//
// Everything here operates on plain [Point] values and slices and never keeps
// state between calls:
//
//   - Vector arithmetic on [Point]
//   - Pure point transforms: [RotatePoints], [ScalePoints], [StretchPoints],
//     [ShiftPoints]
//   - Cubic bezier quads: [Quads], [LineQuad], [SmoothQuad],
//     [PointFromProportion]
//   - Bounding boxes and the nine critical points: [BoundsOf], [Bounds.Critical]
//   - Intersection tests: [SegmentRayIntersect],
//     [ClosestBoundaryIntersection], [ConvexPolygonOverlap]
//
// Diagram space is y-up with the origin at the frame center. Directions such
// as [Up] or [UR] double as critical-point selectors.
package geom
