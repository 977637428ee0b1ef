package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/stackdraw/pkg/errors"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func unitSquare(center Point) []Point {
	return []Point{
		center.Add(Pt(0.5, 0.5)),
		center.Add(Pt(-0.5, 0.5)),
		center.Add(Pt(-0.5, -0.5)),
		center.Add(Pt(0.5, -0.5)),
	}
}

func TestSegmentRayIntersect(t *testing.T) {
	tests := []struct {
		name      string
		origin    Point
		dir       Point
		a, b      Point
		wantPoint Point
		wantT     float64
		wantHit   bool
	}{
		{"vertical segment ahead", Origin, Right, Pt(5, -1), Pt(5, 1), Pt(5, 0), 5, true},
		{"segment behind ray", Origin, Left, Pt(5, -1), Pt(5, 1), Point{}, 0, false},
		{"parallel", Origin, Right, Pt(0, 1), Pt(5, 1), Point{}, 0, false},
		{"misses segment end", Origin, Right, Pt(5, 1), Pt(5, 3), Point{}, 0, false},
		{"hits endpoint", Origin, Right, Pt(5, 0), Pt(5, 3), Pt(5, 0), 5, true},
		{"scaled direction", Origin, Pt(2, 0), Pt(4, -1), Pt(4, 1), Pt(4, 0), 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, tv, ok := SegmentRayIntersect(tt.origin, tt.dir, tt.a, tt.b)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.wantPoint, p, approx); diff != "" {
				t.Errorf("point mismatch (-want +got):\n%s", diff)
			}
			if math.Abs(tv-tt.wantT) > 1e-9 {
				t.Errorf("t = %v, want %v", tv, tt.wantT)
			}
		})
	}
}

func TestClosestBoundaryIntersection(t *testing.T) {
	sq := []Point{Pt(1, 1), Pt(-1, 1), Pt(-1, -1), Pt(1, -1)}

	t.Run("from inside", func(t *testing.T) {
		p, ok := ClosestBoundaryIntersection(sq, Origin, Right)
		if !ok {
			t.Fatal("expected hit")
		}
		if !p.ApproxEqual(Pt(1, 0), 1e-9) {
			t.Errorf("got %v, want (1, 0)", p)
		}
	})

	t.Run("from outside picks nearest edge", func(t *testing.T) {
		p, ok := ClosestBoundaryIntersection(sq, Pt(-5, 0), Right)
		if !ok {
			t.Fatal("expected hit")
		}
		if !p.ApproxEqual(Pt(-1, 0), 1e-9) {
			t.Errorf("got %v, want (-1, 0)", p)
		}
	})

	t.Run("pointing away", func(t *testing.T) {
		if _, ok := ClosestBoundaryIntersection(sq, Pt(-5, 0), Left); ok {
			t.Error("expected no hit")
		}
	})
}

func TestConvexPolygonOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []Point
		want bool
	}{
		{"overlapping squares", unitSquare(Origin), unitSquare(Pt(0.5, 0.5)), true},
		{"separated squares", unitSquare(Origin), unitSquare(Pt(3, 3)), false},
		{"touching edges", unitSquare(Origin), unitSquare(Pt(1, 0)), true},
		{"diamond inside square", unitSquare(Origin), RegularVertices(4, 0.5, 0), true},
		{"empty", nil, unitSquare(Origin), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvexPolygonOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("ConvexPolygonOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuads(t *testing.T) {
	pts := Flatten([]Quad{LineQuad(Origin, Right), LineQuad(Right, Up)})
	quads, err := Quads(pts)
	if err != nil {
		t.Fatalf("Quads: %v", err)
	}
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2", len(quads))
	}
	if quads[1].End() != Up {
		t.Errorf("second quad ends at %v, want %v", quads[1].End(), Up)
	}

	if _, err := Quads(pts[:5]); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Quads(5 points) error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestAnchors(t *testing.T) {
	pts := Flatten([]Quad{LineQuad(Origin, Right), LineQuad(Right, UR)})
	if diff := cmp.Diff([]Point{Origin, Right}, StartAnchors(pts)); diff != "" {
		t.Errorf("StartAnchors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Point{Right, UR}, EndAnchors(pts)); diff != "" {
		t.Errorf("EndAnchors (-want +got):\n%s", diff)
	}
}

func TestLineQuad(t *testing.T) {
	q := LineQuad(Origin, Pt(3, 0))
	want := Quad{Origin, Pt(1, 0), Pt(2, 0), Pt(3, 0)}
	if diff := cmp.Diff(want, q, approx); diff != "" {
		t.Errorf("LineQuad (-want +got):\n%s", diff)
	}
	if mid := q.Eval(0.5); !mid.ApproxEqual(Pt(1.5, 0), 1e-9) {
		t.Errorf("Eval(0.5) = %v, want (1.5, 0)", mid)
	}
}

func TestSmoothQuad(t *testing.T) {
	// previous curve arrives at (1, 0) heading right
	q, err := SmoothQuad(Pt(0.5, 0), Pt(1, 0), Pt(2, 0))
	if err != nil {
		t.Fatalf("SmoothQuad: %v", err)
	}
	want := Quad{Pt(1, 0), Pt(1.5, 0), Pt(1.5, 0), Pt(2, 0)}
	if diff := cmp.Diff(want, q, approx); diff != "" {
		t.Errorf("SmoothQuad (-want +got):\n%s", diff)
	}

	if _, err := SmoothQuad(Origin, Right, Right); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("coincident anchors error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestMirrorVector(t *testing.T) {
	got := MirrorVector(Pt(1, 1), Right)
	if !got.ApproxEqual(Pt(1, -1), 1e-12) {
		t.Errorf("MirrorVector = %v, want (1, -1)", got)
	}
}

func TestPointFromProportion(t *testing.T) {
	pts := []Point{Origin, Pt(1, 0), Pt(1, 1)}
	tests := []struct {
		t    float64
		want Point
	}{
		{0, Origin},
		{0.25, Pt(0.5, 0)},
		{0.5, Pt(1, 0)},
		{0.75, Pt(1, 0.5)},
		{1, Pt(1, 1)},
	}
	for _, tt := range tests {
		got, err := PointFromProportion(pts, tt.t)
		if err != nil {
			t.Fatalf("PointFromProportion(%v): %v", tt.t, err)
		}
		if !got.ApproxEqual(tt.want, 1e-9) {
			t.Errorf("PointFromProportion(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}

	if _, err := PointFromProportion(pts, 1.5); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("out of range error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := PointFromProportion(nil, 0.5); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestTransformRoundTrips(t *testing.T) {
	pts := []Point{Pt(1, 2), Pt(-3, 0.5), Pt3(0.25, -1, 2)}
	about := Pt(0.7, -0.3)

	t.Run("shift", func(t *testing.T) {
		v := Pt(3.5, -2)
		got := ShiftPoints(ShiftPoints(pts, v), v.Neg())
		if diff := cmp.Diff(pts, got, approx); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	for _, axis := range []Point{XAxis, YAxis, ZAxis} {
		t.Run("rotate "+axis.String(), func(t *testing.T) {
			r, err := RotatePoints(pts, 1.1, axis, about)
			if err != nil {
				t.Fatal(err)
			}
			back, err := RotatePoints(r, -1.1, axis, about)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(pts, back, approx); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}

	t.Run("scale", func(t *testing.T) {
		for _, pivot := range []Point{Origin, about} {
			got := ScalePoints(ScalePoints(pts, 2.5, pivot), 1/2.5, pivot)
			if diff := cmp.Diff(pts, got, approx); diff != "" {
				t.Errorf("pivot %v (-want +got):\n%s", pivot, diff)
			}
		}
	})
}

func TestRotationMatrix(t *testing.T) {
	got, err := RotateVector(Right, math.Pi/2, ZAxis)
	if err != nil {
		t.Fatal(err)
	}
	if !got.ApproxEqual(Up, 1e-12) {
		t.Errorf("rotating RIGHT by 90° = %v, want UP", got)
	}

	if _, err := RotationMatrix(1, Pt(1, 1)); !errors.Is(err, errors.ErrCodeInvalidAxis) {
		t.Errorf("diagonal axis error = %v, want INVALID_AXIS", err)
	}
}

func TestStretchPoints(t *testing.T) {
	got := StretchPoints([]Point{Pt(1, 2)}, 3, 0)
	if got[0] != Pt(3, 2) {
		t.Errorf("StretchPoints = %v, want (3, 2)", got[0])
	}
}

func TestBoundsCritical(t *testing.T) {
	b := BoundsOf([]Point{Pt(-1, 0), Pt(3, 2), Pt(0, -2)})
	tests := []struct {
		dir  Point
		want Point
	}{
		{Origin, Pt(1, 0)},
		{UR, Pt(3, 2)},
		{DL, Pt(-1, -2)},
		{Up, Pt(1, 2)},
		{Left, Pt(-1, 0)},
	}
	for _, tt := range tests {
		got, err := b.Critical(tt.dir)
		if err != nil {
			t.Fatalf("Critical(%v): %v", tt.dir, err)
		}
		if got != tt.want {
			t.Errorf("Critical(%v) = %v, want %v", tt.dir, got, tt.want)
		}
	}

	for _, bad := range []Point{Pt(2, 0), Pt(0.5, 0), Pt(0, -3)} {
		if _, err := b.Critical(bad); !errors.Is(err, errors.ErrCodeInvalidDirection) {
			t.Errorf("Critical(%v) error = %v, want INVALID_DIRECTION", bad, err)
		}
	}
}

func TestRegularVertices(t *testing.T) {
	v := RegularVertices(4, 1, 0)
	want := []Point{Right, Up, Left, Down}
	if diff := cmp.Diff(want, v, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if DefaultStartAngle(3) != Tau/4 || DefaultStartAngle(4) != 0 {
		t.Error("unexpected default start angles")
	}
}

func TestWinding(t *testing.T) {
	ccw := unitSquare(Origin)
	if SignedArea(ccw) <= 0 {
		t.Errorf("SignedArea = %v, want positive", SignedArea(ccw))
	}
	if !IsConvex(ccw) {
		t.Error("square should be convex")
	}
	arrowhead := []Point{Pt(0, 0), Pt(2, 1), Pt(0.5, 0), Pt(2, -1)}
	if IsConvex(arrowhead) {
		t.Error("arrowhead should be concave")
	}
}

func TestAngleFromVector(t *testing.T) {
	if got := AngleFromVector(Down); math.Abs(got-3*math.Pi/2) > 1e-12 {
		t.Errorf("AngleFromVector(DOWN) = %v, want 3π/2", got)
	}
	if got := AngleBetween(Right, Up); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("AngleBetween = %v, want π/2", got)
	}
}
