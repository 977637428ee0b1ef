package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75") // shapes and lines in the inspector
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the commands and the inspector.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// Status line icons
var (
	iconSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	iconWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	iconInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	iconArrow   = StyleDim.Render("→")
	badgeCached = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	badgeFresh  = lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
)

// printer writes styled status lines for humans. Machine output (artifacts
// on stdout, completion scripts) bypasses it.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(s string) { fmt.Fprintln(p.w, s) }

func (p printer) success(format string, args ...any) {
	p.line(iconSuccess + " " + fmt.Sprintf(format, args...))
}

func (p printer) warn(format string, args ...any) {
	p.line(iconWarning + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(iconInfo + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line under the previous status line.
func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (p printer) file(path string) {
	p.line("  " + iconArrow + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// stats prints "  3 elements · 5 entities · cached" for a render.
func (p printer) stats(elementCount, entityCount int, cached bool) {
	var parts []string
	if elementCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d elements", elementCount)))
	}
	if entityCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d entities", entityCount)))
	}
	if cached {
		parts = append(parts, badgeCached)
	} else {
		parts = append(parts, badgeFresh)
	}
	p.line("  " + strings.Join(parts, StyleDim.Render(" · ")))
}
