package cli

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dendro/pkg/layout"
	"github.com/matzehuels/dendro/pkg/pipeline"
	"github.com/matzehuels/dendro/pkg/render"
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a tree in the terminal",
		Long: `Browse a tree in the terminal.

Draws the grid layout with box-drawing characters in a scrollable view.
Use the arrow keys or j/k and h/l to move, q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(cmd, &opts)
			opts.Mode = string(layout.ModeGrid)
			opts.Formats = []string{render.FormatText}
			return c.runView(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().IntVar(&opts.RowsPerTip, "rows-per-tip", 0, "grid rows per tip")
	cmd.Flags().IntVar(&opts.Index, "index", 0, "tree to use from a multi-tree file (0-based)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runView(ctx context.Context, path string, opts pipeline.Options, noCache bool) error {
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

	opts.Source = path
	result, err := runner.Execute(ctx, in, opts)
	if err != nil {
		return err
	}

	text := strings.TrimSuffix(string(result.Artifacts[render.FormatText]), "\n")
	model := NewTreeViewModel(path, strings.Split(text, "\n"))
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
