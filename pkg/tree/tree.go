package tree

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownNode is returned when a NodeID does not belong to the tree.
	ErrUnknownNode = errors.New("unknown node")

	// ErrAlreadyAttached is returned by [Tree.AddChild] when the child
	// already has a parent. Attaching it a second time would create a
	// diamond, which a rooted tree cannot represent.
	ErrAlreadyAttached = errors.New("node already attached to a parent")

	// ErrCycle is returned by [Tree.AddChild] when the child is the parent
	// itself or one of its ancestors.
	ErrCycle = errors.New("attachment would create a cycle")

	// ErrNotAncestor is returned by [Tree.DistanceToAncestor] when the query
	// node is not on the path from the node to the root.
	ErrNotAncestor = errors.New("node is not an ancestor")

	// ErrNoCommonAncestor is returned when two nodes do not share a root.
	ErrNoCommonAncestor = errors.New("nodes have no common ancestor")
)

// NodeID is a handle to a node stored in a [Tree]. Handles are dense
// indices assigned in creation order, starting at zero.
type NodeID int

// None is the NodeID reported as the parent of a root.
const None NodeID = -1

// DefaultBranchLength is the branch length of a node whose input gave none.
const DefaultBranchLength = 1.0

type node struct {
	name     string
	length   float64
	parent   NodeID
	children []NodeID
}

// Tree is an arena of phylogenetic nodes. Ownership flows from parent to
// children; the parent relation is a non-owning index back into the arena.
//
// The zero value is an empty tree ready to use. A Tree is not safe for
// concurrent mutation, but once built it may be read from any number of
// goroutines.
type Tree struct {
	nodes []node
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{}
}

// NewNode allocates a detached node with an empty name and the default
// branch length, and returns its handle.
func (t *Tree) NewNode() NodeID {
	t.nodes = append(t.nodes, node{length: DefaultBranchLength, parent: None})
	return NodeID(len(t.nodes) - 1)
}

// AddChild appends child to the ordered child list of parent and sets the
// child's back-reference. It fails with [ErrAlreadyAttached] if child has a
// parent, and with [ErrCycle] if child is parent or one of its ancestors.
func (t *Tree) AddChild(parent, child NodeID) error {
	if !t.Contains(parent) || !t.Contains(child) {
		return ErrUnknownNode
	}
	if t.nodes[child].parent != None {
		return ErrAlreadyAttached
	}
	for cur, steps := parent, 0; cur != None && steps <= len(t.nodes); cur, steps = t.nodes[cur].parent, steps+1 {
		if cur == child {
			return ErrCycle
		}
	}
	t.nodes[parent].children = append(t.nodes[parent].children, child)
	t.nodes[child].parent = parent
	return nil
}

// SetName sets the label of id.
func (t *Tree) SetName(id NodeID, name string) {
	t.nodes[id].name = name
}

// SetBranchLength sets the distance from id to its parent.
func (t *Tree) SetBranchLength(id NodeID, length float64) {
	t.nodes[id].length = length
}

// Len returns the number of nodes in the arena, attached or not.
func (t *Tree) Len() int { return len(t.nodes) }

// Contains reports whether id is a valid handle into t.
func (t *Tree) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Name returns the label of id.
func (t *Tree) Name(id NodeID) string { return t.nodes[id].name }

// BranchLength returns the distance from id to its parent.
func (t *Tree) BranchLength(id NodeID) float64 { return t.nodes[id].length }

// Parent returns the parent of id, or [None] for a root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns a copy of the ordered children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	return slices.Clone(t.nodes[id].children)
}

// Child returns the i-th child of id.
func (t *Tree) Child(id NodeID, i int) NodeID { return t.nodes[id].children[i] }

// NDescendants returns the number of immediate children of id.
func (t *Tree) NDescendants(id NodeID) int { return len(t.nodes[id].children) }

// IsTip reports whether id has no children.
func (t *Tree) IsTip(id NodeID) bool { return len(t.nodes[id].children) == 0 }

// IsRoot reports whether id has no parent.
func (t *Tree) IsRoot(id NodeID) bool { return t.nodes[id].parent == None }

// Root returns the root of the tree containing the first node created, or
// [None] for an empty tree. The parser always creates the root first, and
// any later node reachable from it shares the same root.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return None
	}
	return t.RootOf(0)
}

// RootOf walks parent references from id to the top.
func (t *Tree) RootOf(id NodeID) NodeID {
	// AddChild forbids cycles, so the walk ends within len(t.nodes) steps.
	for t.nodes[id].parent != None {
		id = t.nodes[id].parent
	}
	return id
}

// Depth returns the number of edges between id and its root.
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for cur := t.nodes[id].parent; cur != None; cur = t.nodes[cur].parent {
		d++
	}
	return d
}
