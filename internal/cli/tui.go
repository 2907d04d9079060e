package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// viewer styles
var (
	viewerTreeStyle = lipgloss.NewStyle().Foreground(colorText)
	viewerDimStyle  = lipgloss.NewStyle().Foreground(colorFaint)
)

// chromeHeight is the number of lines used by the header and footer.
const chromeHeight = 4

// TreeViewModel is the bubbletea model for scrolling through the text
// rendering of a tree.
type TreeViewModel struct {
	Title  string
	Lines  []string
	Offset int // first visible line
	Column int // first visible rune of each line
	Height int // visible lines
	Width  int // visible runes per line
}

// NewTreeViewModel creates a viewer over the given lines.
func NewTreeViewModel(title string, lines []string) TreeViewModel {
	return TreeViewModel{
		Title:  title,
		Lines:  lines,
		Height: 20,
		Width:  80,
	}
}

func (m TreeViewModel) Init() tea.Cmd {
	return nil
}

func (m TreeViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Offset--
		case "down", "j":
			m.Offset++
		case "pgup", "b":
			m.Offset -= m.Height
		case "pgdown", "f", " ":
			m.Offset += m.Height
		case "home", "g":
			m.Offset = 0
		case "end", "G":
			m.Offset = len(m.Lines)
		case "left", "h":
			m.Column -= 4
		case "right", "l":
			m.Column += 4
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-chromeHeight, 5)
		m.Width = max(msg.Width, 10)
	}
	m.clamp()
	return m, nil
}

// clamp keeps the window inside the content.
func (m *TreeViewModel) clamp() {
	m.Offset = min(m.Offset, len(m.Lines)-m.Height)
	m.Offset = max(m.Offset, 0)

	widest := 0
	for _, l := range m.Lines {
		widest = max(widest, len([]rune(l)))
	}
	m.Column = min(m.Column, widest-m.Width)
	m.Column = max(m.Column, 0)
}

// visible returns the part of the content inside the window.
func (m TreeViewModel) visible() []string {
	end := min(m.Offset+m.Height, len(m.Lines))
	out := make([]string, 0, end-m.Offset)
	for _, l := range m.Lines[m.Offset:end] {
		r := []rune(l)
		if m.Column >= len(r) {
			out = append(out, "")
			continue
		}
		r = r[m.Column:]
		if len(r) > m.Width {
			r = r[:m.Width]
		}
		out = append(out, string(r))
	}
	return out
}

func (m TreeViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(viewerDimStyle.Render("↑/↓ scroll  ←/→ pan  pgup/pgdn page  q quit"))
	b.WriteString("\n")

	for _, l := range m.visible() {
		b.WriteString(viewerTreeStyle.Render(l))
		b.WriteString("\n")
	}

	last := min(m.Offset+m.Height, len(m.Lines))
	b.WriteString(viewerDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.Offset+1, last, len(m.Lines))))

	return b.String()
}
