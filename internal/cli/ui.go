package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	derrors "github.com/matzehuels/dendro/pkg/errors"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorLink   = lipgloss.Color("75")  // light blue
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleTitle renders tree and section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight renders labels worth noticing, such as the root name.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleDim renders hints and secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleNumber renders counts and measurements.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)

	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleText    = lipgloss.NewStyle().Foreground(colorText)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "!"
	markInfo = "›"
	markFile = "→"
)

// =============================================================================
// Report
// =============================================================================

// report writes the human-readable status lines of a command. Machine
// output such as Newick text or artifacts never goes through it.
type report struct {
	w io.Writer
}

func (r report) line(s string) { fmt.Fprintln(r.w, s) }

func (r report) blank() { fmt.Fprintln(r.w) }

func (r report) title(s string) { r.line(StyleTitle.Render(s)) }

func (r report) success(format string, args ...any) {
	r.line(styleOK.Render(markOK) + " " + fmt.Sprintf(format, args...))
}

func (r report) warn(format string, args ...any) {
	r.line(styleWarn.Render(markWarn) + " " + styleWarn.Render(fmt.Sprintf(format, args...)))
}

func (r report) info(format string, args ...any) {
	r.line(styleMuted.Render(markInfo) + " " + fmt.Sprintf(format, args...))
}

// detail writes an indented secondary line.
func (r report) detail(format string, args ...any) {
	r.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file writes a path the command produced.
func (r report) file(path string) {
	r.line("  " + StyleDim.Render(markFile) + " " + styleText.Render(path))
}

// field writes a key column followed by a value.
func (r report) field(key, value string) {
	r.line(styleKey.Render(key) + " " + styleText.Render(value))
}

// stats writes tip and node counts and whether the result was cached.
func (r report) stats(tips, nodes int, cached bool) {
	status := styleMuted.Render("fresh")
	if cached {
		status = styleOK.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	r.line("  " + strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d tips", tips)),
		StyleDim.Render(fmt.Sprintf("%d nodes", nodes)),
		status,
	}, sep))
}

// next suggests a follow-up command.
func (r report) next(description, command string) {
	r.line(StyleDim.Render(description+":") + " " + styleCommand.Render(command))
}

// PrintError writes a failed command's error to w, with its code when the
// error carries one.
func PrintError(w io.Writer, err error) {
	msg := derrors.UserMessage(err)
	if code := derrors.GetCode(err); code != "" {
		msg += " " + StyleDim.Render("["+string(code)+"]")
	}
	fmt.Fprintln(w, styleFail.Render(markFail)+" "+msg)
}
