package tree

import (
	"strconv"
	"strings"
)

// NoLengths passed as the precision to [Tree.Newick] omits branch lengths.
const NoLengths = -1

// DefaultPrecision is the number of decimals written for branch lengths
// when the caller has no preference.
const DefaultPrecision = 4

// Newick serializes the subtree rooted at id as Newick text terminated by
// ';'. Branch lengths, including the branch length of id itself, are
// written with precision decimals; a negative precision omits them. A
// subtree that is a single tip is written without a length, since Newick
// has no place for one before any '('. Internal labels are written after
// the closing parenthesis when set. A handle outside t yields ";".
func (t *Tree) Newick(id NodeID, precision int) string {
	var b strings.Builder
	if t.Contains(id) {
		t.writeNewick(&b, id, precision)
	}
	b.WriteByte(';')
	return b.String()
}

func (t *Tree) writeNewick(b *strings.Builder, id NodeID, precision int) {
	t.Walk(id,
		func(v NodeID) {
			if v != id {
				if p := t.nodes[v].parent; t.nodes[p].children[0] != v {
					b.WriteByte(',')
				}
			}
			if len(t.nodes[v].children) > 0 {
				b.WriteByte('(')
			}
		},
		func(v NodeID) {
			nd := &t.nodes[v]
			if len(nd.children) > 0 {
				b.WriteByte(')')
			}
			b.WriteString(nd.name)
			if precision >= 0 && (v != id || len(nd.children) > 0) {
				b.WriteByte(':')
				b.WriteString(strconv.FormatFloat(nd.length, 'f', precision, 64))
			}
		})
}

// String returns the Newick form of the whole tree at [DefaultPrecision].
func (t *Tree) String() string {
	return t.Newick(t.Root(), DefaultPrecision)
}
