package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette.
var (
	Accent = lipgloss.Color("#cba6f7")
	Faint  = lipgloss.Color("#6c7086")
	Green  = lipgloss.Color("#a6e3a1")
	Red    = lipgloss.Color("#f38ba8")
	Yellow = lipgloss.Color("#f9e2af")
	Base   = lipgloss.Color("#1e1e2e")
)

// Styler renders text with lipgloss, or returns it untouched when plain.
type Styler struct {
	plain bool
}

// NewStyler styles output only when f is a terminal.
func NewStyler(f *os.File) Styler {
	return Styler{plain: !term.IsTerminal(int(f.Fd()))}
}

// PlainStyler never styles.
func PlainStyler() Styler { return Styler{plain: true} }

func (s Styler) render(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return style.Render(text)
}

// Title renders a banner.
func (s Styler) Title(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(Base).Background(Accent).Bold(true).Padding(0, 1), text)
}

// Header renders a section header.
func (s Styler) Header(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(Accent).Bold(true), text)
}

// Label renders a field label.
func (s Styler) Label(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(Faint), text)
}

// OK renders a success marker or value.
func (s Styler) OK(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(Green), text)
}

// Warn renders a soft warning.
func (s Styler) Warn(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(Yellow), text)
}

// Error renders a failure.
func (s Styler) Error(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(Red).Bold(true), text)
}
