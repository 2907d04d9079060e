package sink

import (
	"strings"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/layout"
)

// Directions a cell of the text canvas connects to.
const (
	up = 1 << iota
	down
	left
	right
)

var boxGlyphs = [16]rune{
	0:                        ' ',
	up:                       '│',
	down:                     '│',
	up | down:                '│',
	left:                     '─',
	right:                    '─',
	left | right:             '─',
	down | right:             '┌',
	up | right:               '└',
	down | left:              '┐',
	up | left:                '┘',
	up | down | right:        '├',
	up | down | left:         '┤',
	left | right | down:      '┬',
	left | right | up:        '┴',
	up | down | left | right: '┼',
}

// DefaultTextCellWidth is the number of characters per grid column.
const DefaultTextCellWidth = 3

// RenderText draws a grid layout with box-drawing characters, one line per
// grid row, each grid column cellWidth characters wide. Tip labels follow
// the last tip column. Trailing spaces are trimmed.
func RenderText(l layout.Layout, cellWidth int) ([]string, error) {
	if l.Mode != layout.ModeGrid {
		return nil, derrors.New(derrors.ErrCodeInvalidFormat, "text output needs a grid layout, got %s", l.Mode)
	}
	if cellWidth < 1 {
		cellWidth = DefaultTextCellWidth
	}

	width := (l.Width - 1) * cellWidth
	canvas := make([][]uint8, l.Height+1)
	for i := range canvas {
		canvas[i] = make([]uint8, width)
	}
	set := func(row, x int, dirs uint8) {
		if row >= 1 && row <= l.Height && x >= 0 && x < width {
			canvas[row][x] |= dirs
		}
	}

	// A branch over columns [c, c+span) starts on the connector of its
	// parent, the last character of column c-1.
	for _, b := range l.Branches {
		start := (b.Column-1)*cellWidth - 1
		end := (b.Column-1+b.Span)*cellWidth - 1
		set(b.Row, start, right)
		for x := start + 1; x < end; x++ {
			set(b.Row, x, left|right)
		}
		set(b.Row, end, left)
	}
	for _, v := range l.VLines {
		x := v.Column*cellWidth - 1
		if v.Span == 0 {
			continue
		}
		set(v.Row, x, down)
		for r := v.Row + 1; r < v.End(); r++ {
			set(r, x, up|down)
		}
		set(v.End(), x, up)
	}

	labels := make(map[int]string, len(l.Taxa))
	for _, tx := range l.Taxa {
		labels[tx.Row] = tx.Name
	}

	lines := make([]string, 0, l.Height)
	var sb strings.Builder
	for row := 1; row <= l.Height; row++ {
		sb.Reset()
		for _, dirs := range canvas[row] {
			sb.WriteRune(boxGlyphs[dirs])
		}
		if name, ok := labels[row]; ok {
			sb.WriteByte(' ')
			sb.WriteString(name)
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines, nil
}
