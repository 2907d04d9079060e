package layout

import (
	"math"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/tree"
)

// Default frame dimensions in pixels.
const (
	DefaultWidth        = 1000
	DefaultHeight       = 1000
	DefaultLabelReserve = 100
)

// FrameOptions configures [Continuous].
type FrameOptions struct {
	// Width and Height are the drawing frame in pixels.
	Width, Height int
	// LabelReserve is the width kept free on the right for tip labels.
	LabelReserve int
}

// DefaultFrame returns the frame used when the caller has no preference.
func DefaultFrame() FrameOptions {
	return FrameOptions{Width: DefaultWidth, Height: DefaultHeight, LabelReserve: DefaultLabelReserve}
}

// Continuous lays t out in a pixel frame. Each child gets a share of its
// parent's band proportional to its tip count, floored to whole pixels.
// A node sits floor(branch_length*scale) pixels to the right of its
// parent, with
//
//	scale = (Width - LabelReserve) / max_node_tip_length(root)
//
// Because the longest path includes the root's own branch length, the
// root gets a stem starting at x = 0, emitted as its Branch. Tips are
// placed at the middle of their band.
func Continuous(t *tree.Tree, opts FrameOptions) (Layout, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return Layout{}, derrors.New(derrors.ErrCodeInvalidInput, "frame must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if opts.LabelReserve < 0 || opts.LabelReserve >= opts.Width {
		return Layout{}, derrors.New(derrors.ErrCodeInvalidInput, "label reserve %d must be within frame width %d", opts.LabelReserve, opts.Width)
	}
	root := t.Root()
	if root == tree.None {
		return Layout{}, degenerate("tree has no tips")
	}

	stats := t.Measure(root)
	longest := stats.MaxLength[root]
	if !(longest > 0) || math.IsInf(longest, 0) {
		return Layout{}, degenerate("longest root-to-tip length is %v", longest)
	}
	c := &continuous{
		tips:    stats.Tips,
		scale:   float64(opts.Width-opts.LabelReserve) / longest,
		height:  opts.Height,
		offsets: make([]int, t.Len()),
	}
	for _, id := range t.PreOrder(root) {
		x := math.Floor(t.BranchLength(id) * c.scale)
		if math.IsNaN(x) || math.Abs(x) > maxOffset {
			return Layout{}, degenerate("branch length %v of node %d does not fit the frame at scale %v",
				t.BranchLength(id), id, c.scale)
		}
		c.offsets[id] = int(x)
	}

	l := Layout{
		Mode:     ModeContinuous,
		Width:    opts.Width,
		Height:   opts.Height,
		Scale:    c.scale,
		Taxa:     make([]Taxon, 0, stats.Tips[root]),
		Branches: make([]Branch, 0, t.Len()),
	}
	place(t, c, &l)
	return l, nil
}

// maxOffset bounds the pixel offset of a single branch so that summed
// offsets stay well inside int range.
const maxOffset = 1 << 31

type continuous struct {
	tips    []int
	scale   float64
	height  int
	offsets []int
}

func (c *continuous) offset(id tree.NodeID) int { return c.offsets[id] }

func (c *continuous) root(id tree.NodeID) frame {
	return frame{
		id:     id,
		band:   band{lo: 0, hi: c.height},
		x:      c.offset(id),
		cursor: 0,
	}
}

func (c *continuous) child(p *frame, id tree.NodeID) frame {
	share := float64(c.tips[id]) / float64(c.tips[p.id])
	lo := p.cursor
	hi := lo + int(math.Floor(share*float64(p.band.hi-p.band.lo)))
	p.cursor = hi
	return frame{
		id:      id,
		band:    band{lo: lo, hi: hi},
		x:       p.x + c.offset(id),
		parentX: p.x,
		cursor:  lo,
	}
}

func (c *continuous) tipRow(b band) int { return b.lo + (b.hi-b.lo)/2 }

func (c *continuous) tipColumn(f *frame) int { return f.x }

func (c *continuous) branch(f *frame, row int, _ bool) (Branch, bool) {
	return Branch{
		Row:    row,
		Column: f.parentX,
		Span:   f.x - f.parentX,
	}, true
}
