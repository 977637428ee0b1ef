// Package canvas holds the top of a diagram: a frame and the entities drawn
// in it.
//
// A Canvas owns a root [scene.Group]. Everything added to the canvas becomes
// a child of that group, so family-wide operations such as ScaleToFit act on
// the whole drawing at once. Sinks read the canvas through [Canvas.Entities],
// which lists every entity in paint order.
package canvas

import (
	"slices"

	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
)

// DefaultFitBuff is the margin ScaleToFit keeps from the frame edges.
const DefaultFitBuff = 0.1

// Canvas is a frame plus the entity tree drawn in it. It is not safe for
// concurrent use.
type Canvas struct {
	frame config.Frame
	root  *scene.Group
}

// New returns an empty canvas over frame.
func New(frame config.Frame) (*Canvas, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	root, err := scene.NewGroup()
	if err != nil {
		return nil, err
	}
	return &Canvas{frame: frame, root: root}, nil
}

// Frame returns the canvas frame.
func (c *Canvas) Frame() config.Frame { return c.frame }

// Root returns the group every added entity hangs from.
func (c *Canvas) Root() *scene.Group { return c.root }

// Add appends entities to the drawing. Entities already on the canvas are
// skipped with a warning.
func (c *Canvas) Add(entities ...scene.Entity) error {
	return c.root.Add(entities...)
}

// Remove takes top-level entities off the canvas.
func (c *Canvas) Remove(entities ...scene.Entity) {
	c.root.Remove(entities...)
}

// Len returns the number of top-level entities.
func (c *Canvas) Len() int { return c.root.Len() }

// Entities returns every entity on the canvas, children included, in paint
// order: ascending z-index, with equal z-index keeping family order.
func (c *Canvas) Entities() []scene.Entity {
	family := c.root.Family()[1:]
	slices.SortStableFunc(family, func(a, b scene.Entity) int {
		return a.Base().ZIndex - b.Base().ZIndex
	})
	return family
}

// Find returns the entity with the given ID.
func (c *Canvas) Find(id string) (scene.Entity, error) {
	for _, e := range c.root.Family()[1:] {
		if e.Base().ID == id {
			return e, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "entity %q is not on the canvas", id)
}

// ScaleToFit shrinks the drawing about its center until it fits inside the
// frame with buff to spare on every side. Drawings that already fit are
// left alone; nothing is ever enlarged.
func (c *Canvas) ScaleToFit(buff float64) error {
	if err := errors.ValidateFinite("buff", buff); err != nil {
		return err
	}
	w, h := c.root.Width(), c.root.Height()
	goalW, goalH := c.frame.FrameWidth()-2*buff, c.frame.FrameHeight()-2*buff
	if goalW <= 0 || goalH <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "buff %g leaves no room in a %gx%g frame",
			buff, c.frame.FrameWidth(), c.frame.FrameHeight())
	}
	factor := 1.0
	if w > 0 {
		factor = min(factor, goalW/w)
	}
	if h > 0 {
		factor = min(factor, goalH/h)
	}
	if factor == 1 {
		return nil
	}
	scene.Logger().Debug("scaling drawing to fit frame", "factor", factor)
	return c.root.ScaleInPlace(factor)
}

// Edge returns the midpoint of one frame edge, or a frame corner, in
// diagram coordinates. dir is any bounding-box direction.
func (c *Canvas) Edge(dir geom.Point) (geom.Point, error) {
	b := geom.BoundsOf([]geom.Point{
		c.frame.Center.Add(geom.Pt(-c.frame.FrameWidth()/2, -c.frame.FrameHeight()/2)),
		c.frame.Center.Add(geom.Pt(c.frame.FrameWidth()/2, c.frame.FrameHeight()/2)),
	})
	return b.Critical(dir)
}

// Bounds returns the extent of the drawing.
func (c *Canvas) Bounds() geom.Bounds { return c.root.Bounds() }
