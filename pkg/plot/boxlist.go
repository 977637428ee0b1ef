package plot

import (
	"math"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
	"github.com/matzehuels/stackdraw/pkg/scene"
	"github.com/matzehuels/stackdraw/pkg/shape"
)

// BoxListOptions configures [NewBoxList]. Zero values take the defaults
// noted on each field.
type BoxListOptions struct {
	AlignedEdge geom.Point // default UP
	PadX, PadY  float64    // default 0.2 each
	Shape       []shape.Option
}

func (o BoxListOptions) withDefaults() BoxListOptions {
	if o.AlignedEdge == (geom.Point{}) {
		o.AlignedEdge = geom.Up
	}
	if o.PadX == 0 {
		o.PadX = 0.2
	}
	if o.PadY == 0 {
		o.PadY = 0.2
	}
	return o
}

// BoxList lays entities out in a row and draws a cell around each one, like
// an array diagram.
type BoxList struct {
	scene.Node

	items      []scene.Entity
	separators []*shape.Line
	top, bot   *shape.Line
}

var _ scene.Positionable = (*BoxList)(nil)

// NewBoxList chains items left to right, 2*PadX apart and aligned on
// AlignedEdge, draws a vertical separator PadX outside each item plus a top
// and bottom rule, and centers the result on the origin. Every cell spans
// the height of the tallest item plus PadY above and below.
func NewBoxList(items []scene.Entity, opts BoxListOptions) (*BoxList, error) {
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "box list needs at least one item")
	}
	o := opts.withDefaults()
	if err := errors.ValidateFinite("box list padding", o.PadX, o.PadY); err != nil {
		return nil, err
	}
	for i := 1; i < len(items); i++ {
		err := items[i].Base().NextTo(items[i-1].Base(), geom.Right,
			scene.WithBuff(2*o.PadX), scene.WithAlignedEdge(o.AlignedEdge))
		if err != nil {
			return nil, err
		}
	}

	top, bottom := math.Inf(-1), math.Inf(1)
	for _, it := range items {
		top = math.Max(top, it.Base().Top().Y)
		bottom = math.Min(bottom, it.Base().Bottom().Y)
	}
	top, bottom = top+o.PadY, bottom-o.PadY

	xs := make([]float64, 0, len(items)+1)
	for _, it := range items {
		xs = append(xs, it.Base().Left().X-o.PadX)
	}
	xs = append(xs, items[len(items)-1].Base().Right().X+o.PadX)

	bl := &BoxList{items: items}
	bl.Bind(bl)
	if err := bl.Add(items...); err != nil {
		return nil, err
	}
	for _, x := range xs {
		sep, err := shape.NewLine(shape.AtPoint(geom.Pt(x, top)), shape.AtPoint(geom.Pt(x, bottom)), o.Shape...)
		if err != nil {
			return nil, err
		}
		bl.separators = append(bl.separators, sep)
	}
	left, right := xs[0], xs[len(xs)-1]
	var err error
	if bl.top, err = shape.NewLine(shape.AtPoint(geom.Pt(left, top)), shape.AtPoint(geom.Pt(right, top)), o.Shape...); err != nil {
		return nil, err
	}
	if bl.bot, err = shape.NewLine(shape.AtPoint(geom.Pt(left, bottom)), shape.AtPoint(geom.Pt(right, bottom)), o.Shape...); err != nil {
		return nil, err
	}
	for _, l := range append(bl.separators, bl.top, bl.bot) {
		if err := bl.Add(l); err != nil {
			return nil, err
		}
	}
	if err := bl.SetPosition(geom.Origin); err != nil {
		return nil, err
	}
	return bl, nil
}

// Items returns the listed entities in order.
func (bl *BoxList) Items() []scene.Entity { return bl.items }

// Separators returns the vertical rules, left to right.
func (bl *BoxList) Separators() []*shape.Line { return bl.separators }

// Rules returns the top and bottom rules.
func (bl *BoxList) Rules() (top, bottom *shape.Line) { return bl.top, bl.bot }
