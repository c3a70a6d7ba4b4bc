// Package style provides shared styling primitives, colors and icons,
// for consistent presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Indigo = lipgloss.Color("#4F46E5")
	Slate  = lipgloss.Color("#64748B")
	Green  = lipgloss.Color("#16A34A")
	Red    = lipgloss.Color("#DC2626")
	Amber  = lipgloss.Color("#D97706")
	Cyan   = lipgloss.Color("#0891B2")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)
