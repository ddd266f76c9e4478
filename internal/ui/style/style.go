// Package style provides the shared colors and icons of the console output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Emerald = lipgloss.Color("#1BD96A")
	Slate   = lipgloss.Color("#667085")
	Sky     = lipgloss.Color("#3B82F6")
	Green   = lipgloss.Color("#22A06B")
	Red     = lipgloss.Color("#D93025")
	Yellow  = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "↑"
	Equal   = "="
)
