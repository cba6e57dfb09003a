package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
▀█▀ █▀▀ █▀▀ ▀█▀   █▄▄ █ █ █ █   █▀▄ █▀▀ █▀█
 █  ██▄ ▄▄█  █    █▄█ █▄█ █ █▄▄ █▄▀ ██▄ █▀▄`

const bannerSubtitle = "Dual-pool test builder • Command-Line Interface"

// RenderBanner returns the styled banner shown while the bank loads.
func RenderBanner() string {
	lines := splitLines(bannerArt)
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(BannerStyle.Render(line))
		b.WriteString("\n")
	}

	subtitleWidth := lipgloss.Width(bannerSubtitle)
	blockWidth := max(maxWidth, subtitleWidth)

	subtitle := MutedStyle.
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(bannerSubtitle)
	underline := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(strings.Repeat("─", subtitleWidth))

	return "\n" + b.String() + "\n" + subtitle + "\n" + underline + "\n"
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
