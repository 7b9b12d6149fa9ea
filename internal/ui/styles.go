package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorRed     = lipgloss.Color("#FF0000")
	ColorMagenta = lipgloss.Color("#FF00FF")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorGray    = lipgloss.Color("8")
)

var styled = termenv.EnvColorProfile() != termenv.Ascii

var (
	titleStyle   = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(ColorGray)
	labelStyle   = lipgloss.NewStyle().Foreground(ColorMagenta)
)

func render(style lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

// Title renders a section heading.
func Title(s string) string { return render(titleStyle, s) }

// Success renders a completed-step message.
func Success(s string) string { return render(successStyle, s) }

// Warn renders a warning the operator should read before confirming.
func Warn(s string) string { return render(warnStyle, s) }

// Error renders a failure message.
func Error(s string) string { return render(errorStyle, s) }

// Dim renders secondary detail.
func Dim(s string) string { return render(dimStyle, s) }

// Label renders a field name in a summary block.
func Label(s string) string { return render(labelStyle, s) }

// BranchColor maps a branch's role to a color: the canonical integration
// branch is the dangerous one.
func BranchColor(branch string) lipgloss.Color {
	switch branch {
	case "main", "master":
		return ColorRed
	default:
		return ColorWhite
	}
}

// Branch renders a branch name in its role color.
func Branch(branch string) string {
	return render(lipgloss.NewStyle().Foreground(BranchColor(branch)), branch)
}
