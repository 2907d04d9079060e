package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/layout"
	"github.com/matzehuels/dendro/pkg/newick"
)

const sampleNewick = "(A:1,B:2,(C:1,D:1):3);"

func gridLayout(t *testing.T, s string) layout.Layout {
	t.Helper()
	l, err := layout.Grid(newick.MustParse(s), layout.GridOptions{RowsPerTip: 2})
	if err != nil {
		t.Fatalf("Grid() error: %v", err)
	}
	return l
}

func continuousLayout(t *testing.T, s string) layout.Layout {
	t.Helper()
	l, err := layout.Continuous(newick.MustParse(s), layout.DefaultFrame())
	if err != nil {
		t.Fatalf("Continuous() error: %v", err)
	}
	return l
}

func TestRenderJSON(t *testing.T) {
	l := gridLayout(t, sampleNewick)

	data, err := RenderJSON(l, WithJSONNewick(sampleNewick))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Newick != sampleNewick {
		t.Errorf("Newick = %q, want %q", out.Newick, sampleNewick)
	}
	if out.Tips != 4 {
		t.Errorf("Tips = %d, want 4", out.Tips)
	}
	if out.Mode != layout.ModeGrid {
		t.Errorf("Mode = %q, want grid", out.Mode)
	}
}

func TestReadJSON(t *testing.T) {
	for _, l := range []layout.Layout{gridLayout(t, sampleNewick), continuousLayout(t, sampleNewick)} {
		t.Run(string(l.Mode), func(t *testing.T) {
			data, err := RenderJSON(l)
			if err != nil {
				t.Fatal(err)
			}
			got, err := ReadJSON(data)
			if err != nil {
				t.Fatalf("ReadJSON() error: %v", err)
			}
			if !reflect.DeepEqual(got, l) {
				t.Errorf("ReadJSON() = %+v, want %+v", got, l)
			}
		})
	}

	if _, err := ReadJSON([]byte("{")); err == nil {
		t.Error("ReadJSON(truncated) should fail")
	}
}

func TestRenderHTML(t *testing.T) {
	l := gridLayout(t, sampleNewick)

	page, err := RenderHTML(l, WithTitle("Sample"))
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	s := string(page)

	for _, want := range []string{
		"<title>Sample</title>",
		`class="phylogeny_container"`,
		`class="phylogeny"`,
		"grid-template-columns: repeat(3, 24px) auto;",
		"grid-template-rows: repeat(14, 8px);",
		`<div class="branch" style="grid-row: 1 / span 1; grid-column: 2 / span 2;"></div>`,
		`<div class="vline" style="grid-row: 2 / span 10; grid-column: 1 / span 1;"></div>`,
		`<div class="taxon" style="grid-row: 13 / span 1; grid-column: 4 / span 1;">D</div>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if n := strings.Count(s, `class="taxon"`); n != 4 {
		t.Errorf("taxon cells = %d, want 4", n)
	}
	if n := strings.Count(s, `class="branch"`); n != 5 {
		t.Errorf("branch cells = %d, want 5", n)
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	l := gridLayout(t, "(<b>,A&B);")

	page, err := RenderHTML(l)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(page, []byte("<b>")) {
		t.Error("label was not escaped")
	}
	if !bytes.Contains(page, []byte("&lt;b&gt;")) || !bytes.Contains(page, []byte("A&amp;B")) {
		t.Error("escaped labels missing from output")
	}
}

func TestRenderHTMLNeedsGrid(t *testing.T) {
	_, err := RenderHTML(continuousLayout(t, sampleNewick))
	if !derrors.Is(err, derrors.ErrCodeInvalidFormat) {
		t.Errorf("RenderHTML(continuous) error = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderSVG(t *testing.T) {
	tests := []struct {
		name string
		l    layout.Layout
	}{
		{"grid", gridLayout(t, sampleNewick)},
		{"continuous", continuousLayout(t, sampleNewick)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := string(RenderSVG(tt.l))
			if !strings.HasPrefix(s, "<svg ") || !strings.HasSuffix(s, "</svg>\n") {
				t.Fatalf("not an svg document:\n%s", s)
			}
			if got, want := strings.Count(s, `class="branch"`), len(tt.l.Branches); got != want {
				t.Errorf("branch lines = %d, want %d", got, want)
			}
			if got, want := strings.Count(s, `class="vline"`), len(tt.l.VLines); got != want {
				t.Errorf("vlines = %d, want %d", got, want)
			}
			if got := strings.Count(s, `class="taxon"`); got != 4 {
				t.Errorf("labels = %d, want 4", got)
			}
		})
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := gridLayout(t, sampleNewick)

	s := string(RenderSVG(l, WithoutLabels(), WithMargin(0), WithGridCell(10, 10)))
	if strings.Contains(s, `class="taxon"`) {
		t.Error("WithoutLabels() still drew labels")
	}
	// 4 columns by 14 rows of 10px cells.
	if !strings.Contains(s, `viewBox="0 0 40.0 140.0"`) {
		t.Errorf("unexpected viewBox in:\n%s", s)
	}
	// The first branch spans columns 2 and 3 on row 1.
	if !strings.Contains(s, `x1="10.0" y1="5.0" x2="30.0" y2="5.0"`) {
		t.Errorf("branch of A not found in:\n%s", s)
	}
}

func TestRenderText(t *testing.T) {
	lines, err := RenderText(gridLayout(t, sampleNewick), 3)
	if err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	want := []string{
		"  ┌────── A",
		"  │",
		"  │",
		"  │",
		"  ├────── B",
		"  │",
		"  │",
		"  │",
		"  │  ┌─── C",
		"  │  │",
		"  └──┤",
		"     │",
		"     └─── D",
		"",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("RenderText() =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

func TestRenderTextNeedsGrid(t *testing.T) {
	_, err := RenderText(continuousLayout(t, sampleNewick), 0)
	var e *derrors.Error
	if !errors.As(err, &e) || e.Code != derrors.ErrCodeInvalidFormat {
		t.Errorf("RenderText(continuous) error = %v, want INVALID_FORMAT", err)
	}
}
