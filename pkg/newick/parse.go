package newick

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/tree"
)

const (
	terminal      = ';'
	descDelimiter = ','
	descStart     = '('
	descEnd       = ')'
	lengthStart   = ':'
)

var (
	// ErrEmpty is returned for input holding nothing but whitespace before
	// the first ';'.
	ErrEmpty = errors.New("empty input")

	// ErrMissingTerminator is returned when the input ends before ';'.
	ErrMissingTerminator = errors.New("missing terminating ';'")

	// ErrUnbalanced is returned for a ')' without a matching '(' or a ';'
	// reached while descendant lists are still open.
	ErrUnbalanced = errors.New("unbalanced parentheses")

	// ErrUnexpected is returned for a structural character or label in a
	// position the grammar does not allow, such as a ',' before any '('.
	ErrUnexpected = errors.New("unexpected token")

	// ErrBadLength is returned when branch length text is not a finite
	// floating point literal.
	ErrBadLength = errors.New("invalid branch length")
)

// ParseError describes where and why Newick input was rejected.
type ParseError struct {
	Line   int    // 1-based line of the offending byte
	Offset int    // 0-based byte offset into the input
	Err    error  // one of the sentinel errors of this package
	Detail string // additional context, may be empty
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("line %d, offset %d: %v: %s", e.Line, e.Offset, e.Err, e.Detail)
	}
	return fmt.Sprintf("line %d, offset %d: %v", e.Line, e.Offset, e.Err)
}

// Unwrap returns the sentinel error for errors.Is compatibility.
func (e *ParseError) Unwrap() error { return e.Err }

// Parse builds a tree from a single Newick description. Scanning stops at
// the first ';'; anything after it is ignored. The returned tree's
// [tree.Tree.Root] is the root of the description.
func Parse(s string) (*tree.Tree, error) {
	t, err := parse(s)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeParse, err, "parse newick")
	}
	return t, nil
}

// MustParse is like [Parse] but panics on error. It simplifies tests and
// package-level fixtures.
func MustParse(s string) *tree.Tree {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parse(s string) (*tree.Tree, *ParseError) {
	if strings.TrimSpace(s) == "" {
		return nil, errAt(s, 0, ErrEmpty, "")
	}

	t := tree.New()
	cur := t.NewNode()
	labeled := map[tree.NodeID]bool{}
	depth := 0
	closed := false
	consumed := false

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == terminal:
			if !consumed {
				return nil, errAt(s, i, ErrEmpty, "")
			}
			if depth > 0 {
				return nil, errAt(s, i, ErrUnbalanced, fmt.Sprintf("%d '(' left open", depth))
			}
			return t, nil

		case c == descStart:
			if closed {
				return nil, errAt(s, i, ErrUnexpected, "second top-level subtree")
			}
			if labeled[cur] {
				return nil, errAt(s, i, ErrUnexpected, "descendant list after a label")
			}
			child := t.NewNode()
			if err := t.AddChild(cur, child); err != nil {
				return nil, errAt(s, i, err, "")
			}
			cur = child
			depth++
			consumed = true

		case c == descDelimiter:
			if depth == 0 {
				return nil, errAt(s, i, ErrUnexpected, "',' outside a descendant list")
			}
			sibling := t.NewNode()
			if err := t.AddChild(t.Parent(cur), sibling); err != nil {
				return nil, errAt(s, i, err, "")
			}
			cur = sibling

		case c == descEnd:
			if depth == 0 {
				return nil, errAt(s, i, ErrUnbalanced, "')' without matching '('")
			}
			cur = t.Parent(cur)
			depth--
			closed = depth == 0

		case isSpace(c):
			// Whitespace between tokens carries no meaning.

		default:
			j := i
			for j < len(s) && !isStructural(s[j]) {
				j++
			}
			if depth == 0 && !closed && strings.ContainsRune(s[i:j], lengthStart) {
				return nil, errAt(s, i, ErrUnexpected, "branch length before any '('")
			}
			if err := setLabelLength(t, cur, s[i:j]); err != nil {
				return nil, errAt(s, i, ErrBadLength, err.Error())
			}
			labeled[cur] = true
			consumed = true
			i = j - 1
		}
	}
	return nil, errAt(s, len(s), ErrMissingTerminator, "")
}

// setLabelLength applies a label run of the form "name", ":length" or
// "name:length" to id. The run is split on its first ':'.
func setLabelLength(t *tree.Tree, id tree.NodeID, run string) error {
	name, length, hasLength := strings.Cut(run, string(lengthStart))
	t.SetName(id, strings.TrimSpace(name))
	if !hasLength {
		return nil
	}
	v, err := parseLength(length)
	if err != nil {
		return err
	}
	t.SetBranchLength(id, v)
	return nil
}

// parseLength accepts only a finite floating point literal. The text is
// never evaluated as an expression.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("':' not followed by a number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

func errAt(s string, offset int, err error, detail string) *ParseError {
	return &ParseError{
		Line:   1 + strings.Count(s[:min(offset, len(s))], "\n"),
		Offset: offset,
		Err:    err,
		Detail: detail,
	}
}

func isStructural(c byte) bool {
	return c == terminal || c == descDelimiter || c == descStart || c == descEnd
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
