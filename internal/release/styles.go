package release

import "github.com/charmbracelet/lipgloss"

// bannerStyle frames the release completion summary. It degrades to plain
// text on non-TTY output.
var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#10B981")).
	Border(lipgloss.NormalBorder(), true).
	Padding(0, 2)
