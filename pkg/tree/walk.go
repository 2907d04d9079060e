package tree

type frame struct {
	id   NodeID
	next int
}

// Walk visits the subtree rooted at id depth-first, left to right. pre is
// called when a node is entered and post after all of its children have
// been visited; either may be nil. The traversal uses an explicit stack.
func (t *Tree) Walk(id NodeID, pre, post func(NodeID)) {
	if pre != nil {
		pre(id)
	}
	stack := []frame{{id: id}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := t.nodes[top.id].children
		if top.next < len(children) {
			c := children[top.next]
			top.next++
			if pre != nil {
				pre(c)
			}
			stack = append(stack, frame{id: c})
			continue
		}
		if post != nil {
			post(top.id)
		}
		stack = stack[:len(stack)-1]
	}
}

// PreOrder returns the subtree rooted at id in pre-order.
func (t *Tree) PreOrder(id NodeID) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID) { out = append(out, n) }, nil)
	return out
}

// PostOrder returns the subtree rooted at id in post-order.
func (t *Tree) PostOrder(id NodeID) []NodeID {
	var out []NodeID
	t.Walk(id, nil, func(n NodeID) { out = append(out, n) })
	return out
}
