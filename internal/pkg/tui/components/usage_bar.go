package components

import (
	"strings"

	"github.com/emiliopalmerini/expconv/internal/pkg/tui/theme"
)

// UsageBar shows how much of a budget is consumed.
type UsageBar struct {
	Width  int
	Used   int
	Budget int
	styles *theme.Styles
}

// NewUsageBar creates a usage bar of the given width in cells.
func NewUsageBar(width, used, budget int, styles *theme.Styles) UsageBar {
	if styles == nil {
		styles = theme.Default()
	}
	return UsageBar{
		Width:  width,
		Used:   used,
		Budget: budget,
		styles: styles,
	}
}

// Filled returns the number of filled cells, capped at Width.
func (b UsageBar) Filled() int {
	if b.Budget <= 0 || b.Width <= 0 || b.Used <= 0 {
		return 0
	}
	filled := b.Used * b.Width / b.Budget
	if filled > b.Width {
		return b.Width
	}
	return filled
}

// Overflow reports whether usage exceeds the budget.
func (b UsageBar) Overflow() bool {
	return b.Used > b.Budget
}

// View renders the bar, switching to the warning style on overflow.
func (b UsageBar) View() string {
	if b.Width <= 0 {
		return ""
	}
	filled := b.Filled()

	fill := b.styles.BarFilled
	if b.Overflow() {
		fill = b.styles.Warning
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(fill.Render(strings.Repeat("█", filled)))
	sb.WriteString(b.styles.BarEmpty.Render(strings.Repeat("░", b.Width-filled)))
	sb.WriteString("]")
	return sb.String()
}
