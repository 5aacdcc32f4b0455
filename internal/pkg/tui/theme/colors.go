package theme

import "github.com/charmbracelet/lipgloss"

// Color palette for console output
var (
	Purple       = lipgloss.Color("#A855F7")
	BrightPurple = lipgloss.Color("#C084FC")

	White    = lipgloss.Color("#FFFFFF")
	DimGray  = lipgloss.Color("#6B7280")
	DarkGray = lipgloss.Color("#374151")

	Success = lipgloss.Color("#22C55E")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
)
