package sink

import (
	"encoding/json"

	"github.com/matzehuels/dendro/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	newick string
	tips   int
}

// WithJSONNewick records the source tree (as Newick text) in the output so
// the geometry can be traced back to its input.
func WithJSONNewick(s string) JSONOption { return func(r *jsonRenderer) { r.newick = s } }

type jsonOutput struct {
	Newick string `json:"newick,omitempty"`
	Tips   int    `json:"tips"`
	layout.Layout
}

// RenderJSON exports the layout as a pretty-printed JSON document holding
// the extents and the three ordered record lists. It is the interchange
// format for external renderers and the payload the layout cache stores.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{tips: len(l.Taxa)}
	for _, opt := range opts {
		opt(&r)
	}
	return json.MarshalIndent(jsonOutput{Newick: r.newick, Tips: r.tips, Layout: l}, "", "  ")
}

// ReadJSON decodes a layout previously produced by [RenderJSON].
func ReadJSON(data []byte) (layout.Layout, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return layout.Layout{}, err
	}
	return out.Layout, nil
}
