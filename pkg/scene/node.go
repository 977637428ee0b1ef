package scene

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/geom"
)

// ErrNotInFamily is returned by [Node.BringToFront] and [Node.BringToBack]
// when the entity to move is not a member of the receiver's family.
var ErrNotInFamily = errors.New(errors.ErrCodeInvalidStructure, "entity is not in this family")

// Entity is a node of the diagram tree. Concrete entities embed a [Node]
// (which provides Base) and supply their own extent and transform handling.
type Entity interface {
	// Base returns the embedded tree node.
	Base() *Node

	// BoundingPolygon returns the entity's own extent, excluding children.
	// Callers must not modify the returned slice.
	BoundingPolygon() []geom.Point

	// ApplyTransform applies t to the entity's own geometry only. Family-wide
	// propagation is done by the Node methods, which call ApplyTransform once
	// per member.
	ApplyTransform(t Transform) error
}

// Node carries identity, paint order and owned children. It is meant to be
// embedded; concrete types call [Node.Bind] from their constructor so that
// family traversals see the concrete entity rather than the bare node.
//
// A bare *Node is itself a valid Entity with an empty extent.
type Node struct {
	ID     string
	ZIndex int

	children []Entity
	owner    Entity
}

// NewNode returns an empty container node.
func NewNode() *Node {
	n := &Node{}
	n.Bind(n)
	return n
}

// Bind records the concrete entity that embeds n and assigns an ID if none
// has been set yet.
func (n *Node) Bind(owner Entity) {
	n.owner = owner
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
}

// Base implements [Entity].
func (n *Node) Base() *Node { return n }

// BoundingPolygon implements [Entity]. A bare node has no extent of its own.
func (n *Node) BoundingPolygon() []geom.Point { return nil }

// ApplyTransform implements [Entity]. A bare node has no geometry of its own.
func (n *Node) ApplyTransform(Transform) error { return nil }

// Self returns the concrete entity embedding n.
func (n *Node) Self() Entity {
	if n.owner != nil {
		return n.owner
	}
	return n
}

// Children returns a copy of the direct children in paint order.
func (n *Node) Children() []Entity {
	return slices.Clone(n.children)
}

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th direct child.
func (n *Node) Child(i int) Entity { return n.children[i] }

// Add appends entities as children. Adding the node to itself or to one of
// its own descendants is an INVALID_STRUCTURE error and nothing is added.
// Entities that are already children are skipped with a warning.
func (n *Node) Add(entities ...Entity) error {
	fresh, err := n.admit(entities)
	if err != nil {
		return err
	}
	n.children = append(n.children, fresh...)
	return nil
}

// AddToBack prepends entities as children so they paint first.
// Validation is the same as [Node.Add].
func (n *Node) AddToBack(entities ...Entity) error {
	fresh, err := n.admit(entities)
	if err != nil {
		return err
	}
	n.children = append(fresh, n.children...)
	return nil
}

func (n *Node) admit(entities []Entity) ([]Entity, error) {
	fresh := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if e == nil {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "cannot add a nil entity")
		}
		if e.Base() == n {
			return nil, errors.New(errors.ErrCodeInvalidStructure, "cannot add entity %s to itself", n.ID)
		}
		if isMember(e.Base().Family(), n) {
			return nil, errors.New(errors.ErrCodeInvalidStructure,
				"cannot add entity %s to its own descendant %s", e.Base().ID, n.ID)
		}
		if indexOf(n.children, e) >= 0 || indexOf(fresh, e) >= 0 {
			Logger().Warn("entity already added", "entity", e.Base().ID, "parent", n.ID)
			continue
		}
		fresh = append(fresh, e)
	}
	return fresh, nil
}

// Remove detaches direct children. Entities that are not children are
// reported with a warning and otherwise ignored.
func (n *Node) Remove(entities ...Entity) {
	for _, e := range entities {
		if e != nil && e.Base() == n {
			Logger().Warn("cannot remove entity from itself", "entity", n.ID)
			continue
		}
		i := indexOf(n.children, e)
		if i < 0 {
			id := "<nil>"
			if e != nil {
				id = e.Base().ID
			}
			Logger().Warn("entity not found", "entity", id, "parent", n.ID)
			continue
		}
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// Family returns the node and all of its descendants in depth-first
// pre-order. The traversal uses an explicit stack.
func (n *Node) Family() []Entity {
	var out []Entity
	stack := []Entity{n.Self()}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, e)
		kids := e.Base().children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// FamilyOfType returns the members of e's family whose concrete type is T,
// in family order.
func FamilyOfType[T Entity](e Entity) []T {
	var out []T
	for _, m := range e.Base().Family() {
		if t, ok := m.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// ParentOf returns the family member whose direct children include member,
// or nil if member is the root or not in the family.
func (n *Node) ParentOf(member Entity) Entity {
	for _, m := range n.Family() {
		if indexOf(m.Base().children, member) >= 0 {
			return m
		}
	}
	return nil
}

// SetZIndex sets the paint order of every family member.
func (n *Node) SetZIndex(z int) {
	for _, m := range n.Family() {
		m.Base().ZIndex = z
	}
}

// BringToFront makes member paint above every other member of n's family.
// If member already has the highest z-index it is moved to the end of its
// parent's child list, which keeps equal z-index siblings stable; otherwise
// its z-index is raised one above the current maximum.
func (n *Node) BringToFront(member Entity) error {
	family := n.Family()
	if member == nil || !isMember(family, member.Base()) {
		return ErrNotInFamily
	}
	top := family[0].Base().ZIndex
	for _, m := range family[1:] {
		top = max(top, m.Base().ZIndex)
	}
	if member.Base().ZIndex != top {
		member.Base().ZIndex = top + 1
		return nil
	}
	if parent := n.ParentOf(member); parent != nil {
		p := parent.Base()
		i := indexOf(p.children, member)
		p.children = append(slices.Delete(p.children, i, i+1), member)
	}
	return nil
}

// BringToBack makes member paint below every other member of n's family.
// It mirrors [Node.BringToFront].
func (n *Node) BringToBack(member Entity) error {
	family := n.Family()
	if member == nil || !isMember(family, member.Base()) {
		return ErrNotInFamily
	}
	bottom := family[0].Base().ZIndex
	for _, m := range family[1:] {
		bottom = min(bottom, m.Base().ZIndex)
	}
	if member.Base().ZIndex != bottom {
		member.Base().ZIndex = bottom - 1
		return nil
	}
	if parent := n.ParentOf(member); parent != nil {
		p := parent.Base()
		i := indexOf(p.children, member)
		p.children = slices.Delete(p.children, i, i+1)
		p.children = append([]Entity{member}, p.children...)
	}
	return nil
}

func indexOf(list []Entity, e Entity) int {
	if e == nil {
		return -1
	}
	target := e.Base()
	return slices.IndexFunc(list, func(m Entity) bool { return m.Base() == target })
}

func isMember(family []Entity, n *Node) bool {
	return slices.ContainsFunc(family, func(m Entity) bool { return m.Base() == n })
}
