package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner returns the ASCII art banner for the application header
var Banner = []string{
	" ____  ____  __  __ _____ ____   ____ _____ ",
	"|  _ \\|  _ \\|  \\/  | ____|  _ \\ / ___| ____|",
	"| |_) | |_) | |\\/| |  _| | |_) | |  _|  _|  ",
	"|  __/|  _ <| |  | | |___|  _ <| |_| | |___ ",
	"|_|   |_| \\_\\_|  |_|_____|_| \\_\\\\____|_____|",
}

// RenderBanner returns the styled banner as a string
func RenderBanner(localMode bool) string {
	bannerStyle := lipgloss.NewStyle().Foreground(ColorCyan)

	var lines []string
	for _, line := range Banner {
		lines = append(lines, render(bannerStyle, line))
	}

	if localMode {
		lines = append(lines, "")
		lines = append(lines, Warn("LOCAL MODE: nothing will be pushed"))
	}

	return strings.Join(lines, "\n")
}
