package newick

import (
	"bufio"
	"errors"
	"io"
	"strings"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/tree"
)

// Reader reads ';'-terminated trees one after another from a stream.
type Reader struct {
	r      *bufio.Reader
	line   int
	offset int
}

// NewReader returns a reader ready for reading trees from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), line: 1}
}

// ReadTree reads the next tree from the input. When only whitespace remains
// it returns a nil tree and io.EOF. Positions in a returned [*ParseError]
// are relative to the whole stream.
func (r *Reader) ReadTree() (*tree.Tree, error) {
	chunk, err := r.r.ReadString(terminal)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "read newick")
	}
	if strings.TrimSpace(chunk) == "" {
		return nil, io.EOF
	}

	t, perr := parse(chunk)
	if perr != nil {
		perr.Line += r.line - 1
		perr.Offset += r.offset
		return nil, derrors.Wrap(derrors.ErrCodeParse, perr, "parse newick")
	}
	r.line += strings.Count(chunk, "\n")
	r.offset += len(chunk)
	return t, nil
}

// ReadAll returns all of the trees in the input. The first error that
// occurs is returned with no trees. The error is never io.EOF.
func (r *Reader) ReadAll() ([]*tree.Tree, error) {
	var trees []*tree.Tree
	for {
		t, err := r.ReadTree()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, nil
}

// ReadFile reads the index-th tree (0-based) from r.
func ReadFile(r io.Reader, index int) (*tree.Tree, error) {
	if index < 0 {
		return nil, derrors.New(derrors.ErrCodeInvalidInput, "tree index must not be negative, got %d", index)
	}
	nr := NewReader(r)
	for i := 0; ; i++ {
		t, err := nr.ReadTree()
		if errors.Is(err, io.EOF) {
			if i == 0 {
				return nil, derrors.Wrap(derrors.ErrCodeParse, &ParseError{Line: 1, Err: ErrEmpty}, "parse newick")
			}
			return nil, derrors.New(derrors.ErrCodeInvalidInput, "tree index %d out of range: input holds %d trees", index, i)
		} else if err != nil {
			return nil, err
		}
		if i == index {
			return t, nil
		}
	}
}
