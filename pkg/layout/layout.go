package layout

import (
	"errors"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/tree"
)

// ErrDegenerateTree is returned for a tree that cannot be laid out: one
// without any node, or, in continuous mode, one whose longest path has no
// positive length to scale against.
var ErrDegenerateTree = errors.New("degenerate tree")

// Mode names the coordinate system of a [Layout].
type Mode string

const (
	// ModeGrid places nodes on a discrete row/column grid.
	ModeGrid Mode = "grid"
	// ModeContinuous places nodes in a pixel frame, with horizontal offsets
	// proportional to branch length.
	ModeContinuous Mode = "continuous"
)

// Taxon is a tip and the row it was placed on. Column is where its label
// starts: the reserved label column in grid mode, the end of its branch in
// continuous mode.
type Taxon struct {
	Node   tree.NodeID `json:"node"`
	Name   string      `json:"name"`
	Row    int         `json:"row"`
	Column int         `json:"column"`
}

// Branch is a horizontal segment on Row covering Span columns (or pixels)
// starting at Column. It joins a node to its ancestor.
type Branch struct {
	Node   tree.NodeID `json:"node"`
	Row    int         `json:"row"`
	Column int         `json:"column"`
	Span   int         `json:"span"`
}

// VLine is a vertical connector at Column for an internal node, running
// from Row down over Span rows (or pixels), from its first to its last
// child. A node with a single child gets a VLine with Span 0.
type VLine struct {
	Node   tree.NodeID `json:"node"`
	Column int         `json:"column"`
	Row    int         `json:"row"`
	Span   int         `json:"span"`
}

// Layout is the drawable geometry of a tree. Taxa are in top-to-bottom
// order; Branches and VLines are in post-order of the tree walk. A Layout
// is a pure function of the tree and the options that produced it.
type Layout struct {
	Mode Mode `json:"mode"`

	// Width and Height are the extents: columns and rows in grid mode,
	// pixels in continuous mode.
	Width  int `json:"width"`
	Height int `json:"height"`

	// RowsPerTip is the grid density; zero in continuous mode.
	RowsPerTip int `json:"rows_per_tip,omitempty"`
	// Scale converts branch length to pixels; zero in grid mode.
	Scale float64 `json:"scale,omitempty"`

	Taxa     []Taxon  `json:"taxa"`
	Branches []Branch `json:"branches"`
	VLines   []VLine  `json:"vlines"`
}

// Mid returns the row of the internal node the connector belongs to: the
// floor of the midpoint of its span.
func (v VLine) Mid() int { return v.Row + v.Span/2 }

// End returns the last row covered by the connector.
func (v VLine) End() int { return v.Row + v.Span }

func degenerate(format string, args ...any) error {
	return derrors.Wrap(derrors.ErrCodeDegenerateTree, ErrDegenerateTree, format, args...)
}

// band is a vertical interval assigned to a subtree, lo inclusive. Its
// upper bound is inclusive in grid mode and exclusive in continuous mode.
type band struct {
	lo, hi int
}

type frame struct {
	id      tree.NodeID
	band    band
	x       int // column or pixel position of the node
	parentX int
	cursor  int // top of the next child's band
	next    int // index of the next child to visit
	first   int // row of the first child
	last    int // row of the last child
}

// geometry supplies the parts that differ between grid and continuous mode.
type geometry interface {
	// root returns the band and frame position of the root.
	root(id tree.NodeID) frame
	// child returns the frame of the next child of p and advances p.cursor.
	child(p *frame, id tree.NodeID) frame
	// tipRow returns the row of a tip placed in b.
	tipRow(b band) int
	// tipColumn returns where the label of a tip starts.
	tipColumn(f *frame) int
	// branch returns the segment joining f to its parent, if any.
	branch(f *frame, row int, isRoot bool) (Branch, bool)
}

// place runs the shared placement walk with an explicit stack, so the
// depth of the tree is not limited by the goroutine stack.
func place(t *tree.Tree, g geometry, l *Layout) {
	root := t.Root()
	stack := []frame{g.root(root)}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := t.NDescendants(top.id)

		if top.next < n {
			c := t.Child(top.id, top.next)
			stack = append(stack, g.child(top, c))
			continue
		}

		var row int
		if n == 0 {
			row = g.tipRow(top.band)
			l.Taxa = append(l.Taxa, Taxon{
				Node:   top.id,
				Name:   t.Name(top.id),
				Row:    row,
				Column: g.tipColumn(top),
			})
		} else {
			l.VLines = append(l.VLines, VLine{
				Node:   top.id,
				Column: top.x,
				Row:    top.first,
				Span:   top.last - top.first,
			})
			row = top.first + (top.last-top.first)/2
		}
		if b, ok := g.branch(top, row, top.id == root); ok {
			b.Node = top.id
			l.Branches = append(l.Branches, b)
		}

		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			break
		}
		parent := &stack[len(stack)-1]
		if parent.next == 0 {
			parent.first = row
		}
		parent.last = row
		parent.next++
	}
}
