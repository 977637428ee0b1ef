package scene

import (
	stderrors "errors"
	"math"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

func TestMain(m *testing.M) {
	SetLogger(nil)
	os.Exit(m.Run())
}

var approx = cmpopts.EquateApprox(0, 1e-9)

// box is a minimal polygon entity used to exercise the tree.
type box struct {
	Node
	pts []geom.Point
}

func newBox(center geom.Point, side float64) *box {
	h := side / 2
	b := &box{pts: []geom.Point{
		center.Add(geom.Pt(h, h)),
		center.Add(geom.Pt(-h, h)),
		center.Add(geom.Pt(-h, -h)),
		center.Add(geom.Pt(h, -h)),
	}}
	b.Bind(b)
	return b
}

func (b *box) BoundingPolygon() []geom.Point { return b.pts }

func (b *box) ApplyTransform(t Transform) error {
	pts, err := t.Points(b.pts)
	if err != nil {
		return err
	}
	b.pts = pts
	return nil
}

func TestFamilyPreOrder(t *testing.T) {
	root := newBox(geom.Origin, 1)
	a, b, c, d := newBox(geom.Origin, 1), newBox(geom.Origin, 1), newBox(geom.Origin, 1), newBox(geom.Origin, 1)
	mustAdd(t, &root.Node, a, d)
	mustAdd(t, &a.Node, b, c)

	var got []string
	for _, m := range root.Family() {
		got = append(got, m.Base().ID)
	}
	want := []string{root.ID, a.ID, b.ID, c.ID, d.ID}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("family order (-want +got):\n%s", diff)
	}

	if _, ok := root.Family()[0].(*box); !ok {
		t.Error("family root should be the concrete entity")
	}
	if n := len(FamilyOfType[*box](root)); n != 5 {
		t.Errorf("FamilyOfType = %d members, want 5", n)
	}
}

func TestAddRules(t *testing.T) {
	root := newBox(geom.Origin, 1)
	child := newBox(geom.Origin, 1)
	grandchild := newBox(geom.Origin, 1)
	mustAdd(t, &root.Node, child)
	mustAdd(t, &child.Node, grandchild)

	t.Run("self", func(t *testing.T) {
		err := root.Add(root)
		if !errors.Is(err, errors.ErrCodeInvalidStructure) {
			t.Errorf("Add(self) error = %v, want INVALID_STRUCTURE", err)
		}
	})

	t.Run("ancestor into descendant", func(t *testing.T) {
		err := grandchild.Add(root)
		if !errors.Is(err, errors.ErrCodeInvalidStructure) {
			t.Errorf("Add(ancestor) error = %v, want INVALID_STRUCTURE", err)
		}
		if grandchild.Len() != 0 {
			t.Error("nothing should have been added")
		}
	})

	t.Run("duplicate is skipped", func(t *testing.T) {
		if err := root.Add(child, child); err != nil {
			t.Fatalf("Add(duplicate): %v", err)
		}
		if root.Len() != 1 {
			t.Errorf("children = %d, want 1", root.Len())
		}
	})

	t.Run("add to back prepends", func(t *testing.T) {
		other := newBox(geom.Origin, 1)
		if err := root.AddToBack(other); err != nil {
			t.Fatal(err)
		}
		if root.Child(0) != Entity(other) {
			t.Error("AddToBack should insert at index 0")
		}
	})
}

func TestRemove(t *testing.T) {
	root := NewNode()
	a, b := newBox(geom.Origin, 1), newBox(geom.Origin, 1)
	mustAdd(t, root, a, b)

	root.Remove(a)
	root.Remove(a) // missing: warns only
	root.Remove(root)
	if root.Len() != 1 || root.Child(0) != Entity(b) {
		t.Errorf("unexpected children after remove: %d", root.Len())
	}
}

func TestLayering(t *testing.T) {
	root := NewNode()
	a, b, c := newBox(geom.Origin, 1), newBox(geom.Origin, 1), newBox(geom.Origin, 1)
	mustAdd(t, root, a, b, c)

	t.Run("equal z reorders siblings", func(t *testing.T) {
		if err := root.BringToFront(a); err != nil {
			t.Fatal(err)
		}
		if root.Child(2) != Entity(a) || a.ZIndex != 0 {
			t.Errorf("a should be last with z 0, got index z=%d", a.ZIndex)
		}
		if err := root.BringToBack(a); err != nil {
			t.Fatal(err)
		}
		if root.Child(0) != Entity(a) {
			t.Error("a should be first after BringToBack")
		}
	})

	t.Run("strict z bump", func(t *testing.T) {
		c.ZIndex = 5
		if err := root.BringToFront(b); err != nil {
			t.Fatal(err)
		}
		if b.ZIndex != 6 {
			t.Errorf("b.ZIndex = %d, want 6", b.ZIndex)
		}
		if err := root.BringToBack(c); err != nil {
			t.Fatal(err)
		}
		if c.ZIndex != -1 {
			t.Errorf("c.ZIndex = %d, want -1", c.ZIndex)
		}
	})

	t.Run("nested member", func(t *testing.T) {
		inner := newBox(geom.Origin, 1)
		inner2 := newBox(geom.Origin, 1)
		mustAdd(t, &b.Node, inner, inner2)
		root.SetZIndex(0)
		if err := root.BringToBack(inner2); err != nil {
			t.Fatal(err)
		}
		if b.Child(0) != Entity(inner2) || root.Len() != 3 {
			t.Error("nested member should be reordered within its own parent")
		}
	})

	t.Run("outside family", func(t *testing.T) {
		err := root.BringToFront(newBox(geom.Origin, 1))
		if !stderrors.Is(err, ErrNotInFamily) {
			t.Errorf("error = %v, want ErrNotInFamily", err)
		}
	})
}

func TestCriticalPoint(t *testing.T) {
	root := newBox(geom.Pt(1, 1), 2)
	mustAdd(t, &root.Node, newBox(geom.Pt(4, -1), 2))

	b := root.Bounds()
	wantCenter := geom.Pt(b.Min.X+(b.Max.X-b.Min.X)/2, b.Min.Y+(b.Max.Y-b.Min.Y)/2)
	if got := root.Center(); got != wantCenter {
		t.Errorf("Center = %v, want %v", got, wantCenter)
	}

	tests := []struct {
		name string
		got  geom.Point
		want geom.Point
	}{
		{"top", root.Top(), geom.Pt(2.5, 2)},
		{"bottom", root.Bottom(), geom.Pt(2.5, -2)},
		{"left", root.Left(), geom.Pt(0, 0)},
		{"right", root.Right(), geom.Pt(5, 0)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if root.Width() != 5 || root.Height() != 4 {
		t.Errorf("size = %vx%v, want 5x4", root.Width(), root.Height())
	}

	if _, err := root.CriticalPoint(geom.Pt(2, 0)); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("bad direction error = %v", err)
	}
	if _, err := root.Corner(geom.Up); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("Corner(UP) error = %v", err)
	}
	if got := NewNode().Center(); got != geom.Origin {
		t.Errorf("empty family center = %v, want origin", got)
	}
}

func TestTransformRoundTrips(t *testing.T) {
	build := func() *box {
		root := newBox(geom.Pt(1, 2), 1)
		mustAdd(t, &root.Node, newBox(geom.Pt(-3, 0.5), 0.5))
		return root
	}
	snapshot := func(b *box) []geom.Point { return b.FamilyPolygon() }

	t.Run("shift", func(t *testing.T) {
		b := build()
		before := snapshot(b)
		v := geom.Pt(0.125, -4)
		mustOK(t, b.Shift(v))
		mustOK(t, b.Shift(v.Neg()))
		if diff := cmp.Diff(before, snapshot(b)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("rotate", func(t *testing.T) {
		b := build()
		before := snapshot(b)
		about := geom.Pt(0.3, 0.1)
		mustOK(t, b.Rotate(0.9, geom.ZAxis, about))
		mustOK(t, b.Rotate(-0.9, geom.ZAxis, about))
		if diff := cmp.Diff(before, snapshot(b), approx); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("scale", func(t *testing.T) {
		b := build()
		before := snapshot(b)
		about := geom.Pt(-1, 1)
		mustOK(t, b.Scale(3, about))
		mustOK(t, b.Scale(1.0/3, about))
		if diff := cmp.Diff(before, snapshot(b), approx); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("invalid axis", func(t *testing.T) {
		b := build()
		before := snapshot(b)
		err := b.Rotate(1, geom.Pt(1, 1), geom.Origin)
		if !errors.Is(err, errors.ErrCodeInvalidAxis) {
			t.Errorf("error = %v, want INVALID_AXIS", err)
		}
		if diff := cmp.Diff(before, snapshot(b)); diff != "" {
			t.Error("points must not change on a rejected rotation")
		}
	})
}

// rigidBox refuses to be mirrored.
type rigidBox struct {
	*box
}

func newRigidBox(center geom.Point, side float64) *rigidBox {
	r := &rigidBox{box: newBox(center, side)}
	r.Bind(r)
	return r
}

func (r *rigidBox) CheckTransform(t Transform) error {
	if t.Op == OpScale && t.Factor < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "rigid box cannot be mirrored")
	}
	return nil
}

func TestRefusedTransformLeavesFamilyUnchanged(t *testing.T) {
	group := NewNode()
	square := newBox(geom.Pt(3, 0), 1)
	rigid := newRigidBox(geom.Pt(-2, 1), 1)
	mustAdd(t, group, square, rigid)
	before := group.FamilyPolygon()

	err := group.Scale(-1, geom.Origin)
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("error = %v, want INVALID_ARGUMENT", err)
	}
	if diff := cmp.Diff(before, group.FamilyPolygon()); diff != "" {
		t.Errorf("family changed by a refused transform (-want +got):\n%s", diff)
	}
	if got := square.Center(); got != geom.Pt(3, 0) {
		t.Errorf("square center = %v, want (3, 0)", got)
	}

	mustOK(t, group.Scale(2, geom.Origin))
	if got := square.Center(); !got.ApproxEqual(geom.Pt(6, 0), 1e-12) {
		t.Errorf("square center after accepted scale = %v, want (6, 0)", got)
	}
}

func TestRotateInPlace(t *testing.T) {
	root := newBox(geom.Pt(0, 0), 2)
	child := newBox(geom.Pt(5, 0), 2)
	mustAdd(t, &root.Node, child)
	childCenter := child.Center()

	mustOK(t, root.RotateInPlace(math.Pi/2, geom.ZAxis))
	if got := child.Center(); !got.ApproxEqual(childCenter, 1e-9) {
		t.Errorf("child center moved to %v, want %v", got, childCenter)
	}
}

func TestStretch(t *testing.T) {
	b := newBox(geom.Origin, 2)
	mustOK(t, b.StretchToFitWidth(6))
	if math.Abs(b.Width()-6) > 1e-9 || math.Abs(b.Height()-2) > 1e-9 {
		t.Errorf("size = %vx%v, want 6x2", b.Width(), b.Height())
	}
	mustOK(t, b.ScaleToFitHeight(1))
	if math.Abs(b.Width()-3) > 1e-9 {
		t.Errorf("width = %v, want 3", b.Width())
	}
	if err := b.Stretch(2, 3); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Stretch(dim 3) error = %v", err)
	}
}

func TestNextTo(t *testing.T) {
	a := newBox(geom.Origin, 2)
	b := newBox(geom.Origin, 2)
	mustOK(t, a.NextTo(b, geom.Right, WithBuff(1)))

	if got := a.Left().X - b.Right().X; math.Abs(got-1) > 1e-12 {
		t.Errorf("gap = %v, want 1", got)
	}
	if a.Center().Y != b.Center().Y {
		t.Error("NextTo RIGHT should keep vertical centers aligned")
	}

	if err := a.NextTo(b, geom.Origin); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("NextTo(ORIGIN) error = %v", err)
	}
}

func TestNextToAlignedEdge(t *testing.T) {
	big := newBox(geom.Origin, 4)
	small := newBox(geom.Origin, 1)
	mustOK(t, small.NextTo(big, geom.Right, WithBuff(0), WithAlignedEdge(geom.Up)))
	if small.Top().Y != big.Top().Y {
		t.Errorf("top = %v, want %v", small.Top().Y, big.Top().Y)
	}
	if small.Left().X != big.Right().X {
		t.Errorf("left = %v, want %v", small.Left().X, big.Right().X)
	}
}

func TestAlignAndMove(t *testing.T) {
	a := newBox(geom.Pt(3, 3), 1)
	b := newBox(geom.Pt(-2, 0), 2)

	mustOK(t, a.AlignTo(b, geom.Left, 0))
	if a.Left().X != b.Left().X || a.Center().Y != 3 {
		t.Errorf("AlignTo LEFT moved to %v", a.Center())
	}
	mustOK(t, a.MoveTo(b))
	if a.Center() != b.Center() {
		t.Errorf("MoveTo center = %v, want %v", a.Center(), b.Center())
	}
	mustOK(t, a.MoveTo(At(geom.Pt(7, 7))))
	if a.Center() != geom.Pt(7, 7) {
		t.Errorf("MoveTo point center = %v", a.Center())
	}
	mustOK(t, a.SetX(1))
	mustOK(t, a.SetY(-1))
	if a.Center() != geom.Pt(1, -1) {
		t.Errorf("SetX/SetY center = %v", a.Center())
	}
	if err := a.AlignTo(b, geom.UR, 0); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("AlignTo(UR) error = %v", err)
	}
}

type testFrame struct{ w, h float64 }

func (f testFrame) FrameWidth() float64  { return f.w }
func (f testFrame) FrameHeight() float64 { return f.h }

func TestToEdge(t *testing.T) {
	a := newBox(geom.Origin, 1)
	mustOK(t, a.ToEdge(testFrame{16, 9}, geom.Left, 0.5))
	if math.Abs(a.Left().X-(-7.5)) > 1e-12 {
		t.Errorf("left = %v, want -7.5", a.Left().X)
	}
	mustOK(t, a.ToEdge(testFrame{16, 9}, geom.Up, 0.5))
	if math.Abs(a.Top().Y-4) > 1e-12 {
		t.Errorf("top = %v, want 4", a.Top().Y)
	}
}

func TestCloseTo(t *testing.T) {
	anchor := newBox(geom.Origin, 2)
	blocker := newBox(geom.Pt(2.5, 0), 2)
	label := newBox(geom.Pt(9, 9), 0.5)

	mustOK(t, label.CloseTo(anchor, []Entity{anchor, blocker}, geom.Right, WithBuff(0.1)))
	if geom.ConvexPolygonOverlap(label.BoundingPolygon(), blocker.BoundingPolygon()) {
		t.Error("label overlaps the blocker")
	}
	// RIGHT is blocked, UP is the next candidate
	if !label.Center().ApproxEqual(geom.Pt(0, 1.35), 1e-9) {
		t.Errorf("label center = %v, want (0, 1.35)", label.Center())
	}
}

func TestArrange(t *testing.T) {
	g, err := NewGroup(newBox(geom.Origin, 1), newBox(geom.Origin, 1), newBox(geom.Origin, 1))
	if err != nil {
		t.Fatal(err)
	}
	mustOK(t, g.Arrange(geom.Right, geom.Origin, 0.5, true))
	if math.Abs(g.Width()-4) > 1e-12 {
		t.Errorf("width = %v, want 4", g.Width())
	}
	if !g.Center().ApproxEqual(geom.Origin, 1e-12) {
		t.Errorf("center = %v, want origin", g.Center())
	}
}

func TestArrangeInGrid(t *testing.T) {
	var kids []Entity
	for range 6 {
		kids = append(kids, newBox(geom.Origin, 1))
	}
	g, err := NewGroup(kids...)
	if err != nil {
		t.Fatal(err)
	}
	mustOK(t, g.ArrangeInGrid(GridOptions{Cols: 3, RowBuff: 1, ColBuff: 1}))
	if math.Abs(g.Width()-5) > 1e-12 || math.Abs(g.Height()-3) > 1e-12 {
		t.Errorf("grid size = %vx%v, want 5x3", g.Width(), g.Height())
	}
	if g.Len() != 6 {
		t.Errorf("group lost children: %d", g.Len())
	}

	if err := g.ArrangeInGrid(GridOptions{Rows: 4, Cols: 4}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("mismatched grid error = %v", err)
	}
	if err := g.ArrangeInGrid(GridOptions{}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("empty grid options error = %v", err)
	}
}

func mustAdd(t *testing.T, n *Node, entities ...Entity) {
	t.Helper()
	if err := n.Add(entities...); err != nil {
		t.Fatalf("Add: %v", err)
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
