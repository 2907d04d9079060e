package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%02d ──────────", i)
	}
	return lines
}

func press(m TreeViewModel, keys ...string) TreeViewModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(TreeViewModel)
	}
	return m
}

func TestTreeViewScrolling(t *testing.T) {
	m := NewTreeViewModel("t", testLines(50))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 14})
	m = next.(TreeViewModel)

	if m.Height != 10 {
		t.Fatalf("Height = %d, want 10", m.Height)
	}

	m = press(m, "down", "down", "j")
	if m.Offset != 3 {
		t.Errorf("Offset after three downs = %d, want 3", m.Offset)
	}
	m = press(m, "up", "k", "k", "k")
	if m.Offset != 0 {
		t.Errorf("Offset clamps at top, got %d", m.Offset)
	}
	m = press(m, "G")
	if m.Offset != 40 {
		t.Errorf("Offset at end = %d, want 40", m.Offset)
	}
	m = press(m, "pgdown")
	if m.Offset != 40 {
		t.Errorf("Offset clamps at bottom, got %d", m.Offset)
	}
	m = press(m, "g")
	if m.Offset != 0 {
		t.Errorf("Offset after home = %d, want 0", m.Offset)
	}
}

func TestTreeViewShortContent(t *testing.T) {
	m := NewTreeViewModel("t", testLines(3))
	m = press(m, "down", "G")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0 when content fits", m.Offset)
	}
	if got := len(m.visible()); got != 3 {
		t.Errorf("visible lines = %d, want 3", got)
	}
}

func TestTreeViewPanning(t *testing.T) {
	m := NewTreeViewModel("t", []string{"0123456789──────"})
	m.Width = 10

	m = press(m, "l")
	if got := m.visible()[0]; got != "456789────" {
		t.Errorf("visible after pan = %q", got)
	}
	m = press(m, "l", "l")
	if m.Column != 6 {
		t.Errorf("Column clamps at %d, want 6", m.Column)
	}
	m = press(m, "h", "h", "h")
	if m.Column != 0 {
		t.Errorf("Column = %d, want 0", m.Column)
	}
}

func TestTreeViewQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		_, cmd := NewTreeViewModel("t", nil).Update(key)
		if cmd == nil {
			t.Errorf("%s did not quit", key)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s returned a non-quit command", key)
		}
	}
}

func TestTreeViewView(t *testing.T) {
	m := NewTreeViewModel("primates.nwk", testLines(30))
	m.Height = 5
	out := m.View()

	if !strings.Contains(out, "primates.nwk") {
		t.Error("title missing")
	}
	if !strings.Contains(out, "[1-5/30]") {
		t.Errorf("position indicator missing in:\n%s", out)
	}
	if strings.Contains(out, "05 ──") {
		t.Error("line beyond the window was drawn")
	}
}
