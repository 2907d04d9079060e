package layout

import (
	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/tree"
)

// DefaultRowsPerTip is the grid density used when none is given.
const DefaultRowsPerTip = 2

// GridOptions configures [Grid].
type GridOptions struct {
	// RowsPerTip is the number of rows each tip occupies. Tips are
	// separated by the same number of blank rows.
	RowsPerTip int
}

// Columns assigns every node of t its depth column in one full pass:
//
//	depth_column(n) = total - max_node_tip_count(n)
//	total           = max_node_tip_count(root) + 1
//
// The root sits in column 1, the deepest tips in column total-1, and the
// last column is reserved for tip labels. The returned map is fresh on
// every call; t is not modified.
func Columns(t *tree.Tree) (map[tree.NodeID]int, int) {
	root := t.Root()
	if root == tree.None {
		return map[tree.NodeID]int{}, 0
	}
	stats := t.Measure(root)
	total := stats.MaxCount[root] + 1
	cols := make(map[tree.NodeID]int)
	t.Walk(root, func(id tree.NodeID) {
		cols[id] = total - stats.MaxCount[id]
	}, nil)
	return cols, total
}

// GridRows returns the number of rows a subtree with tips leaves occupies
// at the given density.
func GridRows(tips, rowsPerTip int) int {
	return rowsPerTip * (2*tips - 1)
}

// Grid lays t out on a discrete grid. Rows are numbered from 1 to
// Height = RowsPerTip*(2*tips-1) and columns from 1 to Width, the label
// column. Each child gets a band sized by its own tip count, in child
// order, with RowsPerTip blank rows between neighbouring bands.
func Grid(t *tree.Tree, opts GridOptions) (Layout, error) {
	if opts.RowsPerTip == 0 {
		opts.RowsPerTip = DefaultRowsPerTip
	}
	if opts.RowsPerTip < 0 {
		return Layout{}, derrors.New(derrors.ErrCodeInvalidInput, "rows per tip must be positive, got %d", opts.RowsPerTip)
	}
	root := t.Root()
	if root == tree.None {
		return Layout{}, degenerate("tree has no tips")
	}

	cols, total := Columns(t)
	stats := t.Measure(root)
	g := &grid{
		cols: cols,
		tips: stats.Tips,
		d:    opts.RowsPerTip,
	}

	l := Layout{
		Mode:       ModeGrid,
		Width:      total,
		Height:     GridRows(stats.Tips[root], opts.RowsPerTip),
		RowsPerTip: opts.RowsPerTip,
		Taxa:       make([]Taxon, 0, stats.Tips[root]),
		Branches:   make([]Branch, 0, t.Len()),
	}
	g.label = total
	g.height = l.Height
	place(t, g, &l)
	return l, nil
}

type grid struct {
	cols   map[tree.NodeID]int
	tips   []int
	d      int
	label  int
	height int
}

func (g *grid) root(id tree.NodeID) frame {
	return frame{
		id:     id,
		band:   band{lo: 1, hi: g.height},
		x:      g.cols[id],
		cursor: 1,
	}
}

func (g *grid) child(p *frame, id tree.NodeID) frame {
	lo := p.cursor
	hi := lo + GridRows(g.tips[id], g.d) - 1
	p.cursor = hi + 1 + g.d
	return frame{
		id:      id,
		band:    band{lo: lo, hi: hi},
		x:       g.cols[id],
		parentX: p.x,
		cursor:  lo,
	}
}

func (g *grid) tipRow(b band) int { return b.lo }

func (g *grid) tipColumn(*frame) int { return g.label }

func (g *grid) branch(f *frame, row int, isRoot bool) (Branch, bool) {
	if isRoot {
		return Branch{}, false
	}
	return Branch{
		Row:    row,
		Column: f.parentX + 1,
		Span:   f.x - f.parentX,
	}, true
}
