package tree

import (
	"fmt"
	"unicode/utf8"
)

// Stats holds derived metrics for every node of one subtree. The slices are
// indexed by NodeID and sized to the whole arena; entries for nodes outside
// the measured subtree are zero.
type Stats struct {
	// Tips is the number of leaf descendants, 1 for a leaf.
	Tips []int
	// MaxCount is the largest number of nodes on a path from the node down
	// to a leaf, counting the node itself.
	MaxCount []int
	// MaxLength is the largest summed branch length on a path from the node
	// down to a leaf, including the node's own branch length.
	MaxLength []float64
	// MaxName is the longest label, in runes, within the subtree.
	MaxName []int
}

// Measure computes [Stats] for the subtree rooted at id in a single
// post-order pass.
func (t *Tree) Measure(id NodeID) Stats {
	n := len(t.nodes)
	s := Stats{
		Tips:      make([]int, n),
		MaxCount:  make([]int, n),
		MaxLength: make([]float64, n),
		MaxName:   make([]int, n),
	}
	t.Walk(id, nil, func(v NodeID) {
		nd := &t.nodes[v]
		name := utf8.RuneCountInString(nd.name)
		if len(nd.children) == 0 {
			s.Tips[v] = 1
			s.MaxCount[v] = 1
			s.MaxLength[v] = nd.length
			s.MaxName[v] = name
			return
		}
		var count int
		var length float64
		for _, c := range nd.children {
			s.Tips[v] += s.Tips[c]
			count = max(count, s.MaxCount[c])
			length = max(length, s.MaxLength[c])
			name = max(name, s.MaxName[c])
		}
		s.MaxCount[v] = count + 1
		s.MaxLength[v] = length + nd.length
		s.MaxName[v] = name
	})
	return s
}

// NTips returns the number of leaves descended from id, or 1 if id is a leaf.
func (t *Tree) NTips(id NodeID) int {
	n := 0
	t.Walk(id, func(v NodeID) {
		if len(t.nodes[v].children) == 0 {
			n++
		}
	}, nil)
	return n
}

// MaxNodeTipLength returns the longest path from id down to a leaf measured
// in summed branch length. The branch length of id itself is included.
func (t *Tree) MaxNodeTipLength(id NodeID) float64 {
	return t.Measure(id).MaxLength[id]
}

// MaxNodeTipCount returns the longest path from id down to a leaf measured
// in nodes, counting id. A lone leaf has count 1.
func (t *Tree) MaxNodeTipCount(id NodeID) int {
	return t.Measure(id).MaxCount[id]
}

// MaxNameLength returns the length in runes of the longest label in the
// subtree rooted at id.
func (t *Tree) MaxNameLength(id NodeID) int {
	return t.Measure(id).MaxName[id]
}

// TipNodes returns the leaves of the subtree rooted at id, left to right.
func (t *Tree) TipNodes(id NodeID) []NodeID {
	var tips []NodeID
	t.Walk(id, func(v NodeID) {
		if len(t.nodes[v].children) == 0 {
			tips = append(tips, v)
		}
	}, nil)
	return tips
}

// TipNames returns the labels of the leaves of the subtree rooted at id,
// left to right.
func (t *Tree) TipNames(id NodeID) []string {
	tips := t.TipNodes(id)
	names := make([]string, len(tips))
	for i, v := range tips {
		names[i] = t.nodes[v].name
	}
	return names
}

// IsDescendant reports whether q lies anywhere in the subtree below id.
// A node is not its own descendant.
func (t *Tree) IsDescendant(id, q NodeID) bool {
	if !t.Contains(id) || !t.Contains(q) {
		return false
	}
	for cur := t.nodes[q].parent; cur != None; cur = t.nodes[cur].parent {
		if cur == id {
			return true
		}
	}
	return false
}

// IsSibling reports whether q and id are distinct children of the same
// parent. A root has no siblings.
func (t *Tree) IsSibling(id, q NodeID) bool {
	if !t.Contains(id) || !t.Contains(q) || id == q {
		return false
	}
	p := t.nodes[id].parent
	return p != None && p == t.nodes[q].parent
}

// DistanceToAncestor returns the summed branch length from id up to anc.
// The distance from a node to itself is zero. It returns an error wrapping
// [ErrNotAncestor] when anc is not on the path from id to the root.
func (t *Tree) DistanceToAncestor(id, anc NodeID) (float64, error) {
	if !t.Contains(id) || !t.Contains(anc) {
		return 0, ErrUnknownNode
	}
	var d float64
	for cur := id; cur != anc; cur = t.nodes[cur].parent {
		if t.nodes[cur].parent == None {
			return 0, fmt.Errorf("node %d to node %d: %w", id, anc, ErrNotAncestor)
		}
		d += t.nodes[cur].length
	}
	return d, nil
}

// CommonAncestor returns the deepest node that is id or an ancestor of id
// and also q or an ancestor of q. When one node is the ancestor of the
// other, the ancestor is returned.
func (t *Tree) CommonAncestor(id, q NodeID) (NodeID, error) {
	if !t.Contains(id) || !t.Contains(q) {
		return None, ErrUnknownNode
	}
	seen := make(map[NodeID]struct{})
	for cur := id; cur != None; cur = t.nodes[cur].parent {
		seen[cur] = struct{}{}
	}
	for cur := q; cur != None; cur = t.nodes[cur].parent {
		if _, ok := seen[cur]; ok {
			return cur, nil
		}
	}
	return None, fmt.Errorf("node %d and node %d: %w", id, q, ErrNoCommonAncestor)
}

// DistanceOnTree returns the summed branch length on the path between id
// and q through their common ancestor.
func (t *Tree) DistanceOnTree(id, q NodeID) (float64, error) {
	lca, err := t.CommonAncestor(id, q)
	if err != nil {
		return 0, err
	}
	a, err := t.DistanceToAncestor(id, lca)
	if err != nil {
		return 0, err
	}
	b, err := t.DistanceToAncestor(q, lca)
	if err != nil {
		return 0, err
	}
	return a + b, nil
}
