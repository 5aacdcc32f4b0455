package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains the shared console styles.
// Styles render as plain text when the target writer is not a color terminal.
type Styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Rule    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style

	// Usage bar
	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

var (
	defaultStyles *Styles
	once          sync.Once
)

// Default returns the singleton Styles bound to the default (stdout) renderer.
func Default() *Styles {
	once.Do(func() {
		defaultStyles = New(lipgloss.DefaultRenderer())
	})
	return defaultStyles
}

// New returns Styles bound to r, so color detection follows r's writer.
func New(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(White),

		Heading: r.NewStyle().
			Foreground(Purple).
			Bold(true),

		Rule: r.NewStyle().
			Foreground(DarkGray),

		Muted: r.NewStyle().
			Foreground(DimGray),

		Bold: r.NewStyle().
			Bold(true),

		BarFilled: r.NewStyle().
			Foreground(BrightPurple),

		BarEmpty: r.NewStyle().
			Foreground(DimGray),

		Success: r.NewStyle().
			Foreground(Success),

		Warning: r.NewStyle().
			Foreground(Warning).
			Bold(true),

		Error: r.NewStyle().
			Foreground(Error),
	}
}
