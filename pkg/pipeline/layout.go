package pipeline

import (
	"github.com/matzehuels/dendro/pkg/layout"
	"github.com/matzehuels/dendro/pkg/tree"
)

// ComputeLayout lays out a tree in the mode named by opts.
func ComputeLayout(t *tree.Tree, opts Options) (layout.Layout, error) {
	if opts.Mode == string(layout.ModeContinuous) {
		return layout.Continuous(t, layout.FrameOptions{
			Width:        opts.Width,
			Height:       opts.Height,
			LabelReserve: opts.LabelReserve,
		})
	}
	return layout.Grid(t, layout.GridOptions{RowsPerTip: opts.RowsPerTip})
}
