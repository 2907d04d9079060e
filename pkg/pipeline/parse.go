package pipeline

import (
	"io"

	"github.com/matzehuels/dendro/pkg/cache"
	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/layout"
	"github.com/matzehuels/dendro/pkg/newick"
	"github.com/matzehuels/dendro/pkg/tree"
)

// hashPrecision is the number of decimals of branch lengths that take part
// in the tree hash.
const hashPrecision = 12

// Parse reads the tree selected by opts.Index from src.
func Parse(src io.Reader, opts Options) (*tree.Tree, error) {
	return newick.ReadFile(src, opts.Index)
}

// TreeHash returns the content hash of a tree, used as the base of its
// cache keys. Trees that serialize to the same Newick text share a hash;
// every tree without nodes hashes alike.
func TreeHash(t *tree.Tree) string {
	if t == nil {
		t = tree.New()
	}
	return cache.Hash([]byte(t.Newick(t.Root(), hashPrecision)))
}

// checkTree rejects trees that no layout can place before any cache key is
// derived from them.
func checkTree(t *tree.Tree) error {
	if t == nil || t.Len() == 0 {
		return derrors.Wrap(derrors.ErrCodeDegenerateTree, layout.ErrDegenerateTree, "tree has no nodes")
	}
	return nil
}
