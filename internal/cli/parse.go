package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/newick"
	"github.com/matzehuels/dendro/pkg/tree"
)

// maxListedTips bounds the tip list printed by the parse summary.
const maxListedTips = 20

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		index     int
		all       bool
		asNewick  bool
		precision int
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Newick file and summarize the tree",
		Long: `Parse a Newick file and summarize the tree.

Prints the number of tips and nodes, the depth, the longest root-to-tip path
and the tip labels. With --newick the tree is written back as Newick text,
with branch lengths at the given precision (a negative precision omits them).

Files may hold several ';'-terminated trees; --index selects one, --all
summarizes each. Use "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("precision") {
				precision = c.Config.Precision
			}
			return c.runParse(cmd.Context(), args[0], index, all, asNewick, precision)
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "tree to use from a multi-tree file (0-based)")
	cmd.Flags().BoolVar(&all, "all", false, "process every tree in the file")
	cmd.Flags().BoolVar(&asNewick, "newick", false, "print the tree as Newick instead of a summary")
	cmd.Flags().IntVar(&precision, "precision", tree.DefaultPrecision, "decimals for branch lengths with --newick (negative omits lengths)")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, path string, index int, all, asNewick bool, precision int) error {
	prog := newProgress(c.Logger)

	in, err := openInput(path)
	if err != nil {
		return inputError(path, err)
	}
	defer in.Close()

	var trees []*tree.Tree
	if all {
		trees, err = newick.NewReader(in).ReadAll()
		if err == nil && len(trees) == 0 {
			err = derrors.Wrap(derrors.ErrCodeParse, &newick.ParseError{Line: 1, Err: newick.ErrEmpty}, "parse newick")
		}
	} else {
		var t *tree.Tree
		t, err = newick.ReadFile(in, index)
		trees = []*tree.Tree{t}
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %s", path))

	if err := ctx.Err(); err != nil {
		return err
	}

	out := c.report()
	for i, t := range trees {
		if asNewick {
			out.line(t.Newick(t.Root(), precision))
			continue
		}
		if i > 0 {
			out.blank()
		}
		title := path
		if all || index > 0 {
			n := index
			if all {
				n = i
			}
			title = fmt.Sprintf("%s [%d]", path, n)
		}
		printSummary(out, title, t)
	}
	if !asNewick {
		out.blank()
		out.next("Render it", fmt.Sprintf("%s render %s -f html", appName, path))
	}
	return nil
}

func printSummary(out report, title string, t *tree.Tree) {
	root := t.Root()
	st := t.Measure(root)

	out.title(title)
	out.stats(st.Tips[root], t.Len(), false)
	out.field("Depth", StyleNumber.Render(strconv.Itoa(st.MaxCount[root]-1)))
	out.field("Longest", StyleNumber.Render(strconv.FormatFloat(st.MaxLength[root], 'g', 6, 64)))
	out.field("Label width", StyleNumber.Render(strconv.Itoa(st.MaxName[root])))
	if name := t.Name(root); name != "" {
		out.field("Root", StyleHighlight.Render(name))
	}

	names := t.TipNames(root)
	shown := names
	if len(shown) > maxListedTips {
		shown = shown[:maxListedTips]
	}
	for i, n := range shown {
		if n == "" {
			shown[i] = StyleDim.Render("(unnamed)")
		}
	}
	out.field("Tips", strings.Join(shown, ", "))
	if len(names) > maxListedTips {
		out.detail("... and %d more", len(names)-maxListedTips)
	}
}

// inputError maps a failure to open an input to a coded error.
func inputError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return derrors.Wrap(derrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return derrors.Wrap(derrors.ErrCodeInvalidPath, err, "open %s", path)
}
