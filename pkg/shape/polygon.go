package shape

import (
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/style"
)

// NewPolyline joins vertices with straight edges without closing the path.
func NewPolyline(vertices []geom.Point, opts ...Option) (*Shape, error) {
	if len(vertices) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "polyline needs at least 2 vertices, got %d", len(vertices))
	}
	s := &Shape{}
	s.init(Variant{Kind: KindPolyline}, false, vertices, style.Stroked(style.Green), opts)
	if err := s.path.SetPoints(edgePoints(vertices, false)); err != nil {
		return nil, err
	}
	s.Bind(s)
	return s, nil
}

// NewPolygon builds a closed polygon through vertices, which should wind
// counter-clockwise. A corner radius set with [WithCornerRadius] is applied
// after construction; when it cannot be satisfied the polygon keeps sharp
// corners and the rounding error is logged, not returned.
func NewPolygon(vertices []geom.Point, opts ...Option) (*Shape, error) {
	return newPolygon(Variant{Kind: KindPolygon}, vertices, style.Filled(style.Blue), opts)
}

func newPolygon(v Variant, vertices []geom.Point, def style.Style, opts []Option) (*Shape, error) {
	if len(vertices) < 3 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "polygon needs at least 3 vertices, got %d", len(vertices))
	}
	for _, p := range vertices {
		if !p.IsFinite() {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "polygon vertex %v is not finite", p)
		}
	}
	s := &Shape{}
	o := s.init(v, true, vertices, def, opts)
	if err := s.path.SetPoints(edgePoints(vertices, true)); err != nil {
		return nil, err
	}
	s.Bind(s)
	if o.cornerRadius > 0 {
		// Failure is already logged; the polygon stays usable.
		_ = s.RoundCorners(o.cornerRadius)
	}
	return s, nil
}

// NewRectangle builds a width by height rectangle centered on the origin.
func NewRectangle(width, height float64, opts ...Option) (*Shape, error) {
	if err := validateExtent("rectangle", width, height); err != nil {
		return nil, err
	}
	hw, hh := width/2, height/2
	vertices := []geom.Point{
		geom.Pt(hw, hh), geom.Pt(-hw, hh), geom.Pt(-hw, -hh), geom.Pt(hw, -hh),
	}
	return newPolygon(Variant{Kind: KindRectangle, Width: width, Height: height}, vertices, style.Filled(style.Blue), opts)
}

// NewSquare builds a square of the given side centered on the origin.
func NewSquare(side float64, opts ...Option) (*Shape, error) {
	if err := validateExtent("square", side, side); err != nil {
		return nil, err
	}
	h := side / 2
	vertices := []geom.Point{
		geom.Pt(h, h), geom.Pt(-h, h), geom.Pt(-h, -h), geom.Pt(h, -h),
	}
	return newPolygon(Variant{Kind: KindSquare, Width: side, Height: side}, vertices, style.Filled(style.Blue), opts)
}

// NewRegularPolygon builds an n-gon with the given circumradius. Without
// [WithStartAngle], odd polygons point up and even ones have a vertex on the
// right.
func NewRegularPolygon(n int, radius float64, opts ...Option) (*Shape, error) {
	return newRegular(KindRegularPolygon, n, radius, opts)
}

// NewTriangle builds an upward-pointing equilateral triangle whose
// circumradius is half of side.
func NewTriangle(side float64, opts ...Option) (*Shape, error) {
	return newRegular(KindTriangle, 3, side/2, opts)
}

func newRegular(kind Kind, n int, radius float64, opts []Option) (*Shape, error) {
	if n < 3 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "regular polygon needs n >= 3, got %d", n)
	}
	if err := validateExtent("regular polygon", radius, radius); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	start := geom.DefaultStartAngle(n)
	if o.startAngle != nil {
		start = *o.startAngle
	}
	vertices := geom.ShiftPoints(geom.RegularVertices(n, radius, start), o.center)
	v := Variant{Kind: kind, N: n, Radius: radius, StartAngle: start, Center: o.center}
	return newPolygon(v, vertices, style.Filled(style.Blue), opts)
}

func validateExtent(what string, w, h float64) error {
	if err := errors.ValidateFinite(what+" size", w, h); err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "%s size must be positive, got %gx%g", what, w, h)
	}
	return nil
}
