package scene

import (
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

// Positionable is the capability set shared by every placeable entity, path
// based or not. Layout code depends on this rather than on concrete types.
type Positionable interface {
	Entity
	Target
	Rotate(angle float64, axis, about geom.Point) error
	Scale(factor float64, about geom.Point) error
	Stretch(factor float64, dim int) error
	Shift(v geom.Point) error
}

var _ Positionable = (*Group)(nil)

// Group is a plain container. It has no extent of its own; its critical
// points are those of its members.
type Group struct {
	Node
}

// NewGroup returns a group holding entities. Duplicates are skipped with a
// warning; entities that would create a cycle are rejected.
func NewGroup(entities ...Entity) (*Group, error) {
	g := &Group{}
	g.Bind(g)
	if err := g.Add(entities...); err != nil {
		return nil, err
	}
	return g, nil
}

// Arrange chains the children one after another in dir, each placed with
// NextTo against the previous one and aligned on alignedEdge. With center
// set the whole group is then moved to the origin.
func (g *Group) Arrange(dir, alignedEdge geom.Point, buff float64, center bool) error {
	kids := g.children
	for i := 1; i < len(kids); i++ {
		err := kids[i].Base().NextTo(kids[i-1].Base(), dir,
			WithBuff(buff), WithAlignedEdge(alignedEdge))
		if err != nil {
			return err
		}
	}
	if center {
		return g.SetPosition(geom.Origin)
	}
	return nil
}

// GridOptions configures [Group.ArrangeInGrid]. Zero values take the
// defaults noted on each field.
type GridOptions struct {
	Rows, Cols     int        // at least one must be set
	RowAlignedEdge geom.Point // default UP
	ColAlignedEdge geom.Point // default LEFT
	RowDirection   geom.Point // default RIGHT
	ColDirection   geom.Point // default DOWN
	RowBuff        float64    // default DefaultBuff
	ColBuff        float64    // default DefaultBuff
}

func (o GridOptions) withDefaults() GridOptions {
	if o.RowAlignedEdge == (geom.Point{}) {
		o.RowAlignedEdge = geom.Up
	}
	if o.ColAlignedEdge == (geom.Point{}) {
		o.ColAlignedEdge = geom.Left
	}
	if o.RowDirection == (geom.Point{}) {
		o.RowDirection = geom.Right
	}
	if o.ColDirection == (geom.Point{}) {
		o.ColDirection = geom.Down
	}
	if o.RowBuff == 0 {
		o.RowBuff = DefaultBuff
	}
	if o.ColBuff == 0 {
		o.ColBuff = DefaultBuff
	}
	return o
}

// ArrangeInGrid lays the children out row by row. Each row is arranged along
// RowDirection, then the rows are stacked along ColDirection. Cells are
// assumed to be of similar size. When both Rows and Cols are set their
// product must equal the number of children.
func (g *Group) ArrangeInGrid(opts GridOptions) error {
	opts = opts.withDefaults()
	kids := g.Children()
	rows, cols := opts.Rows, opts.Cols

	switch {
	case rows > 0 && cols > 0:
		if rows*cols != len(kids) {
			return errors.New(errors.ErrCodeInvalidArgument,
				"rows*cols (%d) must equal the number of children (%d)", rows*cols, len(kids))
		}
	case cols > 0:
		rows = (len(kids) + cols - 1) / cols
	case rows > 0:
		cols = (len(kids) + rows - 1) / rows
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "either rows or cols must be set")
	}

	// Temporary groups only borrow the children for positioning; ownership
	// stays with g.
	rowGroups := &Group{}
	rowGroups.Bind(rowGroups)
	for r := 0; r < rows; r++ {
		lo := min(r*cols, len(kids))
		hi := min(lo+cols, len(kids))
		if lo == hi {
			break
		}
		row := &Group{}
		row.Bind(row)
		row.children = append(row.children, kids[lo:hi]...)
		if err := row.Arrange(opts.RowDirection, opts.RowAlignedEdge, opts.RowBuff, false); err != nil {
			return err
		}
		rowGroups.children = append(rowGroups.children, row)
	}
	return rowGroups.Arrange(opts.ColDirection, opts.ColAlignedEdge, opts.ColBuff, false)
}
