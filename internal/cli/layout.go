package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dendro/pkg/pipeline"
	"github.com/matzehuels/dendro/pkg/render"
)

// layoutFlags registers the layout options shared by layout, render and view.
func layoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", pipeline.DefaultMode, "layout mode: grid (default), continuous")
	cmd.Flags().IntVar(&opts.RowsPerTip, "rows-per-tip", 0, "grid rows per tip (grid)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "frame width in pixels (continuous)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "frame height in pixels (continuous)")
	cmd.Flags().IntVar(&opts.LabelReserve, "label-reserve", 0, "frame width kept free for labels (continuous)")
	cmd.Flags().IntVar(&opts.Index, "index", 0, "tree to use from a multi-tree file (0-based)")
}

// layoutCommand creates the layout command for computing tree geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute the layout of a Newick tree as JSON",
		Long: `Compute the layout of a Newick tree as JSON.

Grid mode (-m grid) places tips on rows of a discrete grid and internal nodes
on columns by their height above the tips. Continuous mode (-m continuous)
fits the tree in a pixel frame with branch lengths to scale.

The output holds the frame extents and the taxon, branch and vertical line
records. Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(cmd, &opts)
			opts.Formats = []string{render.FormatJSON}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	layoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, path string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	in, err := openInput(path)
	if err != nil {
		return inputError(path, err)
	}
	defer in.Close()

	prog := newProgress(c.Logger)
	opts.Source = path
	result, err := runner.Execute(ctx, in, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Computed %s layout", result.Layout.Mode))

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	data := append(result.Artifacts[render.FormatJSON], '\n')
	if _, err := out.Write(data); err != nil {
		return err
	}
	if output != "" {
		status := c.report()
		status.success("Layout written")
		status.stats(result.Stats.TipCount, result.Stats.NodeCount, result.CacheInfo.LayoutHit)
		status.file(output)
	}
	return nil
}
