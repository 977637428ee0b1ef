package scene

import (
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

// Op identifies one of the four primitive transforms.
type Op int

const (
	OpRotate Op = iota
	OpScale
	OpStretch
	OpShift
)

// String returns the lowercase operation name.
func (o Op) String() string {
	switch o {
	case OpRotate:
		return "rotate"
	case OpScale:
		return "scale"
	case OpStretch:
		return "stretch"
	case OpShift:
		return "shift"
	default:
		return "unknown"
	}
}

// Transform describes one primitive transform as delivered to a single
// family member through [Entity.ApplyTransform]. About is already resolved
// for that member: for in-place requests it is the member's own center at
// the time it is visited.
type Transform struct {
	Op     Op
	Angle  float64    // rotate
	Axis   geom.Point // rotate
	Factor float64    // scale, stretch
	Dim    int        // stretch
	Vector geom.Point // shift
	About  geom.Point // rotate, scale

	// InPlace is set when the caller asked for a rotation or scale about
	// each member's own center rather than a shared pivot.
	InPlace bool
}

// Points applies the transform to pts and returns the new points.
func (t Transform) Points(pts []geom.Point) ([]geom.Point, error) {
	switch t.Op {
	case OpRotate:
		return geom.RotatePoints(pts, t.Angle, t.Axis, t.About)
	case OpScale:
		return geom.ScalePoints(pts, t.Factor, t.About), nil
	case OpStretch:
		return geom.StretchPoints(pts, t.Factor, t.Dim), nil
	case OpShift:
		return geom.ShiftPoints(pts, t.Vector), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown transform op %d", t.Op)
	}
}

// Point applies the transform to a single point.
func (t Transform) Point(p geom.Point) (geom.Point, error) {
	out, err := t.Points([]geom.Point{p})
	if err != nil {
		return geom.Point{}, err
	}
	return out[0], nil
}

func (t Transform) validate() error {
	switch t.Op {
	case OpRotate:
		if err := errors.ValidateFinite("angle", t.Angle); err != nil {
			return err
		}
		_, err := geom.RotationMatrix(t.Angle, t.Axis)
		return err
	case OpScale:
		return errors.ValidateFinite("scale factor", t.Factor)
	case OpStretch:
		if err := errors.ValidateFinite("stretch factor", t.Factor); err != nil {
			return err
		}
		return geom.ValidateDim(t.Dim)
	case OpShift:
		return errors.ValidateFinite("shift vector", t.Vector.X, t.Vector.Y, t.Vector.Z)
	}
	return nil
}

// TransformChecker is implemented by entities that refuse some transforms
// their family accepts, such as text that cannot be scaled to nothing.
type TransformChecker interface {
	CheckTransform(t Transform) error
}

// apply validates t, asks every member that can refuse it, and only then
// delivers it to the whole family. A refusal leaves every member untouched.
// Members are updated eagerly; nothing is cached between calls.
func (n *Node) apply(t Transform) error {
	if err := t.validate(); err != nil {
		return err
	}
	family := n.Family()
	for _, m := range family {
		c, ok := m.(TransformChecker)
		if !ok {
			continue
		}
		mt := t
		if t.InPlace {
			mt.About = m.Base().Center()
		}
		if err := c.CheckTransform(mt); err != nil {
			return err
		}
	}
	for _, m := range family {
		mt := t
		if t.InPlace {
			mt.About = m.Base().Center()
		}
		if err := m.ApplyTransform(mt); err != nil {
			return err
		}
	}
	return nil
}

// Rotate rotates the family counter-clockwise by angle about axis, pivoting
// on about. axis must be [geom.XAxis], [geom.YAxis] or [geom.ZAxis].
func (n *Node) Rotate(angle float64, axis, about geom.Point) error {
	return n.apply(Transform{Op: OpRotate, Angle: angle, Axis: axis, About: about})
}

// RotateInPlace rotates every family member about its own center. Text
// entities turn their heading instead of moving.
func (n *Node) RotateInPlace(angle float64, axis geom.Point) error {
	return n.apply(Transform{Op: OpRotate, Angle: angle, Axis: axis, InPlace: true})
}

// Scale scales the family uniformly by factor around about.
func (n *Node) Scale(factor float64, about geom.Point) error {
	return n.apply(Transform{Op: OpScale, Factor: factor, About: about})
}

// ScaleInPlace scales the family about the center of the whole family.
func (n *Node) ScaleInPlace(factor float64) error {
	return n.Scale(factor, n.Center())
}

// Stretch multiplies the coordinate along dim (0 = x, 1 = y, 2 = z) by
// factor for every family member. Unlike Scale it changes the aspect ratio.
func (n *Node) Stretch(factor float64, dim int) error {
	return n.apply(Transform{Op: OpStretch, Factor: factor, Dim: dim})
}

// Shift translates the family by v.
func (n *Node) Shift(v geom.Point) error {
	return n.apply(Transform{Op: OpShift, Vector: v})
}

// StretchToFitWidth stretches horizontally to the given width. A family with
// zero width is left unchanged.
func (n *Node) StretchToFitWidth(width float64) error {
	old := n.Width()
	if old == 0 {
		return nil
	}
	return n.Stretch(width/old, 0)
}

// StretchToFitHeight stretches vertically to the given height. A family with
// zero height is left unchanged.
func (n *Node) StretchToFitHeight(height float64) error {
	old := n.Height()
	if old == 0 {
		return nil
	}
	return n.Stretch(height/old, 1)
}

// ScaleToFitWidth scales uniformly about the origin until the family has the
// given width.
func (n *Node) ScaleToFitWidth(width float64) error {
	old := n.Width()
	if old == 0 {
		return nil
	}
	return n.Scale(width/old, geom.Origin)
}

// ScaleToFitHeight scales uniformly about the origin until the family has
// the given height.
func (n *Node) ScaleToFitHeight(height float64) error {
	old := n.Height()
	if old == 0 {
		return nil
	}
	return n.Scale(height/old, geom.Origin)
}
