package newick_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/dendro/pkg/newick"
	"github.com/matzehuels/dendro/pkg/tree"
)

func ExampleParse() {
	t, err := newick.Parse("(A:1,B:2,(C:1,D:1):3);")
	if err != nil {
		panic(err)
	}

	fmt.Println("tips:", t.NTips(t.Root()))
	fmt.Println(t.Newick(t.Root(), tree.NoLengths))
	// Output:
	// tips: 4
	// (A,B,(C,D));
}

func ExampleParse_error() {
	_, err := newick.Parse("(A,B")

	var perr *newick.ParseError
	fmt.Println(errors.As(err, &perr))
	// Output:
	// true
}

func ExampleReader_ReadAll() {
	r := newick.NewReader(strings.NewReader("(A,B);\n(C,(D,E));\n"))

	trees, err := r.ReadAll()
	if err != nil {
		panic(err)
	}
	for _, t := range trees {
		fmt.Println(t.TipNames(t.Root()))
	}
	// Output:
	// [A B]
	// [C D E]
}
