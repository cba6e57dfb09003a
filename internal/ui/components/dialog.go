package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#273540")).
			Padding(1, 2).
			Width(44)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)

	dialogMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ba0bf"))
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := dialogTitleStyle.Render(title)
	body := dialogMutedStyle.Render(message)
	hint := dialogMutedStyle.Render("\ny: confirm | n: cancel")
	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// InputDialog renders a prompt around an already rendered input field.
func InputDialog(title, field, note string) string {
	header := dialogTitleStyle.Render(title)
	content := header + "\n\n" + field
	if note != "" {
		content += "\n" + dialogMutedStyle.Render(note)
	}
	hint := dialogMutedStyle.Render("\nenter: submit | esc: cancel")
	return dialogStyle.Render(content + hint)
}
