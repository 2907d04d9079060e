package newick

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/tree"
)

func TestParse(t *testing.T) {
	tr, err := Parse("(A:1,B:2,(C:1,D:1):3);")
	if err != nil {
		t.Fatal(err)
	}
	root := tr.Root()

	if got := tr.NTips(root); got != 4 {
		t.Errorf("NTips() = %d, want 4", got)
	}
	if got := tr.NDescendants(root); got != 3 {
		t.Errorf("NDescendants() = %d, want 3", got)
	}
	if got := tr.MaxNodeTipCount(root); got != 3 {
		t.Errorf("MaxNodeTipCount() = %d, want 3", got)
	}
	if got := tr.TipNames(root); !slices.Equal(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("TipNames() = %v", got)
	}
	if got := tr.BranchLength(tr.Child(root, 2)); got != 3 {
		t.Errorf("BranchLength(CD) = %v, want 3", got)
	}
	if got := tr.BranchLength(root); got != tree.DefaultBranchLength {
		t.Errorf("BranchLength(root) = %v, want default", got)
	}
}

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantTips   []string
		wantRoot   string
		wantLength []float64 // branch lengths of the root's children
	}{
		{
			name:       "names only",
			input:      "(A,B,(C,D)E)F;",
			wantTips:   []string{"A", "B", "C", "D"},
			wantRoot:   "F",
			wantLength: []float64{1, 1, 1},
		},
		{
			name:       "lengths only",
			input:      "(:0.1,:0.2,(:0.3,:0.4):0.5);",
			wantTips:   []string{"", "", "", ""},
			wantLength: []float64{0.1, 0.2, 0.5},
		},
		{
			name:       "empty leaves",
			input:      "(,,(,));",
			wantTips:   []string{"", "", "", ""},
			wantLength: []float64{1, 1, 1},
		},
		{
			name:       "whitespace and newlines",
			input:      "( A : 1.5 ,\n\tB:2e-1 ) root ;",
			wantTips:   []string{"A", "B"},
			wantRoot:   "root",
			wantLength: []float64{1.5, 0.2},
		},
		{
			name:       "single leaf",
			input:      "A;",
			wantTips:   []string{"A"},
			wantRoot:   "A",
			wantLength: []float64{},
		},
		{
			name:       "negative length",
			input:      "(A:-1,B:+2);",
			wantTips:   []string{"A", "B"},
			wantLength: []float64{-1, 2},
		},
		{
			name:       "unicode labels",
			input:      "(Étoile:1,Ωmega:2);",
			wantTips:   []string{"Étoile", "Ωmega"},
			wantLength: []float64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			root := tr.Root()
			if got := tr.TipNames(root); !slices.Equal(got, tt.wantTips) {
				t.Errorf("TipNames() = %q, want %q", got, tt.wantTips)
			}
			if got := tr.Name(root); got != tt.wantRoot {
				t.Errorf("root name = %q, want %q", got, tt.wantRoot)
			}
			var lengths []float64
			for _, c := range tr.Children(root) {
				lengths = append(lengths, tr.BranchLength(c))
			}
			if len(lengths) != len(tt.wantLength) {
				t.Fatalf("children = %d, want %d", len(lengths), len(tt.wantLength))
			}
			for i := range lengths {
				if math.Abs(lengths[i]-tt.wantLength[i]) > 1e-12 {
					t.Errorf("length[%d] = %v, want %v", i, lengths[i], tt.wantLength[i])
				}
			}
		})
	}
}

func TestParseNested(t *testing.T) {
	tr := MustParse("((X,Y)C)ROOT;")
	root := tr.Root()

	if got := tr.NDescendants(root); got != 1 {
		t.Fatalf("NDescendants(root) = %d, want 1", got)
	}
	c := tr.Child(root, 0)
	if tr.Name(c) != "C" {
		t.Errorf("child name = %q, want C", tr.Name(c))
	}
	if got := tr.TipNames(c); !slices.Equal(got, []string{"X", "Y"}) {
		t.Errorf("TipNames(C) = %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   error
		offset int
	}{
		{"missing close paren", "(A,B;", ErrUnbalanced, 4},
		{"extra close paren", "(A,B));", ErrUnbalanced, 5},
		{"missing terminator", "(A,B)", ErrMissingTerminator, 5},
		{"empty", "", ErrEmpty, 0},
		{"whitespace only", "  \n ", ErrEmpty, 0},
		{"comma before open", "A,B;", ErrUnexpected, 1},
		{"length before open", ":1(A,B);", ErrUnexpected, 0},
		{"leaf with length", "A:1;", ErrUnexpected, 0},
		{"bare length", ":2;", ErrUnexpected, 0},
		{"terminator only", ";", ErrEmpty, 0},
		{"blank before terminator", "  ;", ErrEmpty, 2},
		{"two top-level lists", "(A)(B);", ErrUnexpected, 3},
		{"label before list", "(A,x(B,C));", ErrUnexpected, 4},
		{"bad number", "(A:1x,B);", ErrBadLength, 1},
		{"expression", "(A:1+1,B);", ErrBadLength, 1},
		{"dangling colon", "(A:,B);", ErrBadLength, 1},
		{"double colon", "(A:1:2,B);", ErrBadLength, 1},
		{"not finite", "(A:NaN,B:Inf);", ErrBadLength, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !derrors.Is(err, derrors.ErrCodeParse) {
				t.Errorf("code = %q, want %q", derrors.GetCode(err), derrors.ErrCodeParse)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if perr.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", perr.Offset, tt.offset)
			}
		})
	}
}

func TestParseErrorLine(t *testing.T) {
	_, err := Parse("(A,\nB,\n(C,D);")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a *ParseError", err)
	}
	if perr.Line != 3 {
		t.Errorf("Line = %d, want 3", perr.Line)
	}
	if !strings.Contains(perr.Error(), "line 3") {
		t.Errorf("Error() = %q, want line number", perr.Error())
	}
}

func TestParseStopsAtTerminator(t *testing.T) {
	tr := MustParse("(A,B);(C,D,E);")
	if got := tr.NTips(tr.Root()); got != 2 {
		t.Errorf("NTips() = %d, want 2", got)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"(A:1,B:2,(C:1,D:1):3);",
		"((d1qbea_:0.597492,d1dwna_:0.632208):0.162939,(d1gav0_:0.526213,(d1unaa_:0.457107,d2iznb1:0.523093):0.043387));",
		"(A,B,(X,Y)C)ROOT;",
		"(,,(,));",
		"solo;",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := MustParse(in)
			text := first.Newick(first.Root(), 6)
			second, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse(%q): %v", text, err)
			}
			if got := second.Newick(second.Root(), 6); got != text {
				t.Errorf("round trip = %q, want %q", got, text)
			}
			if a, b := first.Newick(first.Root(), tree.NoLengths), second.Newick(second.Root(), tree.NoLengths); a != b {
				t.Errorf("topology changed: %q != %q", a, b)
			}
			if a, b := first.TipNames(first.Root()), second.TipNames(second.Root()); !slices.Equal(a, b) {
				t.Errorf("tips changed: %v != %v", a, b)
			}
		})
	}
}
