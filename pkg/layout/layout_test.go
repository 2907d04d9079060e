package layout

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/newick"
	"github.com/matzehuels/dendro/pkg/tree"
)

const sampleNewick = "(A:1,B:2,(C:1,D:1):3);"

// Handles of sampleNewick in parse order.
const (
	nRoot tree.NodeID = iota
	nA
	nB
	nX
	nC
	nD
)

func TestColumns(t *testing.T) {
	tr := newick.MustParse(sampleNewick)
	cols, total := Columns(tr)

	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	want := map[tree.NodeID]int{nRoot: 1, nA: 3, nB: 3, nX: 2, nC: 3, nD: 3}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("Columns() = %v, want %v", cols, want)
	}
}

func TestGrid(t *testing.T) {
	tr := newick.MustParse(sampleNewick)
	l, err := Grid(tr, GridOptions{RowsPerTip: 2})
	if err != nil {
		t.Fatal(err)
	}

	if l.Height != 14 || l.Width != 4 {
		t.Errorf("extent = %dx%d, want 4x14", l.Width, l.Height)
	}

	wantTaxa := []Taxon{
		{Node: nA, Name: "A", Row: 1, Column: 4},
		{Node: nB, Name: "B", Row: 5, Column: 4},
		{Node: nC, Name: "C", Row: 9, Column: 4},
		{Node: nD, Name: "D", Row: 13, Column: 4},
	}
	if !reflect.DeepEqual(l.Taxa, wantTaxa) {
		t.Errorf("Taxa = %+v, want %+v", l.Taxa, wantTaxa)
	}

	wantBranches := []Branch{
		{Node: nA, Row: 1, Column: 2, Span: 2},
		{Node: nB, Row: 5, Column: 2, Span: 2},
		{Node: nC, Row: 9, Column: 3, Span: 1},
		{Node: nD, Row: 13, Column: 3, Span: 1},
		{Node: nX, Row: 11, Column: 2, Span: 1},
	}
	if !reflect.DeepEqual(l.Branches, wantBranches) {
		t.Errorf("Branches = %+v, want %+v", l.Branches, wantBranches)
	}

	wantVLines := []VLine{
		{Node: nX, Column: 2, Row: 9, Span: 4},
		{Node: nRoot, Column: 1, Row: 1, Span: 10},
	}
	if !reflect.DeepEqual(l.VLines, wantVLines) {
		t.Errorf("VLines = %+v, want %+v", l.VLines, wantVLines)
	}
}

func TestGridRowExtent(t *testing.T) {
	inputs := []string{
		"A;",
		"(A,B);",
		"((A,B),(C,(D,E)));",
		"(A,(B,(C,(D,(E,F)))));",
		"(A,B,C,D,E,F,G);",
	}
	for _, in := range inputs {
		tr := newick.MustParse(in)
		k := tr.NTips(tr.Root())
		for _, d := range []int{1, 2, 3, 5} {
			l, err := Grid(tr, GridOptions{RowsPerTip: d})
			if err != nil {
				t.Fatalf("Grid(%q, %d): %v", in, d, err)
			}
			if want := d * (2*k - 1); l.Height != want {
				t.Errorf("Grid(%q, %d).Height = %d, want %d", in, d, l.Height, want)
			}
			for _, tx := range l.Taxa {
				if tx.Row < 1 || tx.Row > l.Height {
					t.Errorf("Grid(%q, %d): taxon %s row %d outside 1..%d", in, d, tx.Name, tx.Row, l.Height)
				}
			}
		}
	}
}

func TestTaxaOrder(t *testing.T) {
	tr := newick.MustParse("((Zeta,Alpha),Mu,(Beta,(Omega,Gamma)));")
	want := tr.TipNames(tr.Root())

	for name, run := range layouts() {
		t.Run(name, func(t *testing.T) {
			l, err := run(tr)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			prev := -1
			for _, tx := range l.Taxa {
				got = append(got, tx.Name)
				if tx.Row <= prev {
					t.Errorf("taxon %s row %d not below previous row %d", tx.Name, tx.Row, prev)
				}
				prev = tx.Row
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("taxa order = %v, want %v", got, want)
			}
		})
	}
}

func TestInternalRowWithinConnector(t *testing.T) {
	tr := newick.MustParse("((A,B,C),((D,E),F),(G,(H,(I,J))));")

	for name, run := range layouts() {
		t.Run(name, func(t *testing.T) {
			l, err := run(tr)
			if err != nil {
				t.Fatal(err)
			}
			rows := map[tree.NodeID]int{}
			for _, b := range l.Branches {
				rows[b.Node] = b.Row
			}
			for _, v := range l.VLines {
				if v.Span < 0 {
					t.Errorf("VLine of %d has negative span %d", v.Node, v.Span)
				}
				row, ok := rows[v.Node]
				if !ok {
					row = v.Mid() // root in grid mode has no branch
				}
				if row < v.Row || row > v.End() {
					t.Errorf("node %d row %d outside connector %d..%d", v.Node, row, v.Row, v.End())
				}
				if row != v.Mid() {
					t.Errorf("node %d row %d, want midpoint %d", v.Node, row, v.Mid())
				}
			}
		})
	}
}

func TestSingleChild(t *testing.T) {
	tr := newick.MustParse("((A));")
	l, err := Grid(tr, GridOptions{RowsPerTip: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(l.VLines) != 2 {
		t.Fatalf("len(VLines) = %d, want 2", len(l.VLines))
	}
	for _, v := range l.VLines {
		if v.Span != 0 {
			t.Errorf("single-child VLine span = %d, want 0", v.Span)
		}
	}
	if l.Height != 1 || l.Taxa[0].Row != 1 {
		t.Errorf("height %d, tip row %d; want 1 and 1", l.Height, l.Taxa[0].Row)
	}
}

func TestGridSingleTip(t *testing.T) {
	tr := newick.MustParse("A;")
	l, err := Grid(tr, GridOptions{RowsPerTip: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Taxa) != 1 || len(l.Branches) != 0 || len(l.VLines) != 0 {
		t.Errorf("records = %d/%d/%d, want 1/0/0", len(l.Taxa), len(l.Branches), len(l.VLines))
	}
	if l.Width != 2 || l.Height != 3 {
		t.Errorf("extent = %dx%d, want 2x3", l.Width, l.Height)
	}
}

func TestContinuous(t *testing.T) {
	tr := newick.MustParse(sampleNewick)
	l, err := Continuous(tr, DefaultFrame())
	if err != nil {
		t.Fatal(err)
	}

	if l.Scale != 180 {
		t.Errorf("Scale = %v, want 180", l.Scale)
	}

	wantTaxa := []Taxon{
		{Node: nA, Name: "A", Row: 125, Column: 360},
		{Node: nB, Name: "B", Row: 375, Column: 540},
		{Node: nC, Name: "C", Row: 625, Column: 900},
		{Node: nD, Name: "D", Row: 875, Column: 900},
	}
	if !reflect.DeepEqual(l.Taxa, wantTaxa) {
		t.Errorf("Taxa = %+v, want %+v", l.Taxa, wantTaxa)
	}

	wantBranches := []Branch{
		{Node: nA, Row: 125, Column: 180, Span: 180},
		{Node: nB, Row: 375, Column: 180, Span: 360},
		{Node: nC, Row: 625, Column: 720, Span: 180},
		{Node: nD, Row: 875, Column: 720, Span: 180},
		{Node: nX, Row: 750, Column: 180, Span: 540},
		{Node: nRoot, Row: 437, Column: 0, Span: 180},
	}
	if !reflect.DeepEqual(l.Branches, wantBranches) {
		t.Errorf("Branches = %+v, want %+v", l.Branches, wantBranches)
	}

	wantVLines := []VLine{
		{Node: nX, Column: 720, Row: 625, Span: 250},
		{Node: nRoot, Column: 180, Row: 125, Span: 625},
	}
	if !reflect.DeepEqual(l.VLines, wantVLines) {
		t.Errorf("VLines = %+v, want %+v", l.VLines, wantVLines)
	}
}

func TestDeterministic(t *testing.T) {
	tr := newick.MustParse("((A:0.3,B:0.7):0.2,(C:1.1,(D:0.4,E:0.9):0.5):0.1,F:2);")
	for name, run := range layouts() {
		t.Run(name, func(t *testing.T) {
			a, err := run(tr)
			if err != nil {
				t.Fatal(err)
			}
			b, _ := run(tr)
			if !reflect.DeepEqual(a, b) {
				t.Error("layout differs between runs")
			}
		})
	}
}

func TestDeepTree(t *testing.T) {
	const depth = 50000
	in := strings.Repeat("(A,", depth) + "B" + strings.Repeat(")", depth) + ";"
	tr := newick.MustParse(in)

	l, err := Grid(tr, GridOptions{RowsPerTip: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Taxa) != depth+1 {
		t.Errorf("len(Taxa) = %d, want %d", len(l.Taxa), depth+1)
	}
	if l.Width != depth+2 {
		t.Errorf("Width = %d, want %d", l.Width, depth+2)
	}
}

func TestErrors(t *testing.T) {
	empty := tree.New()
	flat := newick.MustParse("(A:0,B:0):0;")
	ok := newick.MustParse(sampleNewick)
	overflow := newick.MustParse("(A:-1e300):1e-300;")

	tests := []struct {
		name string
		run  func() error
		code derrors.Code
	}{
		{"grid empty", func() error { _, err := Grid(empty, GridOptions{}); return err }, derrors.ErrCodeDegenerateTree},
		{"continuous empty", func() error { _, err := Continuous(empty, DefaultFrame()); return err }, derrors.ErrCodeDegenerateTree},
		{"continuous zero length", func() error { _, err := Continuous(flat, DefaultFrame()); return err }, derrors.ErrCodeDegenerateTree},
		{"continuous offset overflow", func() error { _, err := Continuous(overflow, DefaultFrame()); return err }, derrors.ErrCodeDegenerateTree},
		{"negative density", func() error { _, err := Grid(ok, GridOptions{RowsPerTip: -1}); return err }, derrors.ErrCodeInvalidInput},
		{"zero frame", func() error { _, err := Continuous(ok, FrameOptions{}); return err }, derrors.ErrCodeInvalidInput},
		{"reserve too wide", func() error {
			_, err := Continuous(ok, FrameOptions{Width: 100, Height: 100, LabelReserve: 100})
			return err
		}, derrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !derrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
			if tt.code == derrors.ErrCodeDegenerateTree && !errors.Is(err, ErrDegenerateTree) {
				t.Errorf("error = %v, want ErrDegenerateTree", err)
			}
		})
	}
}

func TestGridDefaultDensity(t *testing.T) {
	tr := newick.MustParse(sampleNewick)
	l, err := Grid(tr, GridOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if l.RowsPerTip != DefaultRowsPerTip || l.Height != GridRows(4, DefaultRowsPerTip) {
		t.Errorf("RowsPerTip = %d, Height = %d", l.RowsPerTip, l.Height)
	}
}

func layouts() map[string]func(*tree.Tree) (Layout, error) {
	return map[string]func(*tree.Tree) (Layout, error){
		"grid": func(t *tree.Tree) (Layout, error) { return Grid(t, GridOptions{RowsPerTip: 2}) },
		"continuous": func(t *tree.Tree) (Layout, error) {
			return Continuous(t, FrameOptions{Width: 1200, Height: 900, LabelReserve: 100})
		},
	}
}
