package cli

import (
	"reflect"
	"testing"

	derrors "github.com/matzehuels/dendro/pkg/errors"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "trees/primates.nwk", "trees/primates"},
		{"", "-", "tree"},
		{"out/plot.svg", "in.nwk", "out/plot"},
		{"out/plot", "in.nwk", "out/plot"},
		{"out/plot.v2", "in.nwk", "out/plot.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{"derived from input", "", "a.nwk", []string{"svg"}, map[string]string{"svg": "a.svg"}},
		{"explicit single", "plot.html", "a.nwk", []string{"html"}, map[string]string{"html": "plot.html"}},
		{"stdin goes to stdout", "", "-", []string{"txt"}, map[string]string{"txt": ""}},
		{"several formats", "out/plot.svg", "a.nwk", []string{"svg", "json"},
			map[string]string{"svg": "out/plot.svg", "json": "out/plot.json"}},
		{"stdin several formats", "", "-", []string{"svg", "dot"},
			map[string]string{"svg": "tree.svg", "dot": "tree.dot"}},
		{"parent of input", "", "../trees/a.nwk", []string{"svg"}, map[string]string{"svg": "../trees/a.svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.output, tt.input, tt.formats)
			if err != nil {
				t.Fatalf("outputPaths() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputPathsRejectsTraversal(t *testing.T) {
	_, err := outputPaths("../../etc/plot.svg", "a.nwk", []string{"svg"})
	if !derrors.Is(err, derrors.ErrCodeInvalidPath) {
		t.Errorf("outputPaths() error = %v, want INVALID_PATH", err)
	}
}
