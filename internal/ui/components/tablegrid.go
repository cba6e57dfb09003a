package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// OptionRow is one answer option of a question.
type OptionRow struct {
	Label   string
	Text    string
	Correct bool
}

const (
	optionIndent      = 2
	optionLabelWidth  = 5
	optionMarkWidth   = 7
	optionMinAnswerW  = 4
	optionCorrectMark = "✓"
)

var (
	gridLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))

	correctMarkStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3f866b")).
				Bold(true)

	correctTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da"))

	wrongTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
)

// OptionTable renders answer options as a Label | Answer | Correct grid,
// every line exactly width cells wide. Correct options get a check mark
// and brighter text.
func OptionTable(rows []OptionRow, width int) string {
	if width <= 0 {
		return ""
	}
	sep := lipgloss.RoundedBorder().Left
	answerW := width - optionIndent - optionLabelWidth - optionMarkWidth - 2*ansi.StringWidth(sep)
	if answerW < optionMinAnswerW {
		answerW = optionMinAnswerW
	}
	widths := [3]int{optionLabelWidth, answerW, optionMarkWidth}
	styledSep := gridLineStyle.Render(sep)

	line := func(cells [3]string) string {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", optionIndent))
		for i, c := range cells {
			if i > 0 {
				b.WriteString(styledSep)
			}
			b.WriteString(c)
		}
		return fitCells(b.String(), width)
	}

	header := [3]string{}
	for i, h := range []string{"", "Answer", "Correct"} {
		align := lipgloss.Left
		if i == 2 {
			align = lipgloss.Center
		}
		header[i] = boxLabelStyle.Inline(true).Render(gridCell(h, widths[i], align))
	}
	out := []string{line(header), optionRule(widths, width)}

	for _, r := range rows {
		textStyle, mark := wrongTextStyle, ""
		if r.Correct {
			textStyle, mark = correctTextStyle, optionCorrectMark
		}
		out = append(out, line([3]string{
			boxLabelStyle.Inline(true).Render(gridCell(r.Label, widths[0], lipgloss.Left)),
			textStyle.Inline(true).Render(gridCell(r.Text, widths[1], lipgloss.Left)),
			correctMarkStyle.Inline(true).Render(gridCell(mark, widths[2], lipgloss.Center)),
		}))
	}
	return strings.Join(out, "\n")
}

func optionRule(widths [3]int, width int) string {
	border := lipgloss.RoundedBorder()
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat(border.Top, w)
	}
	rule := strings.Repeat(" ", optionIndent) + strings.Join(parts, border.Middle)
	return gridLineStyle.Render(fitCells(rule, width))
}

// gridCell sanitizes text and pads or cuts it to exactly width cells.
func gridCell(text string, width int, align lipgloss.Position) string {
	clamped := ClampTextWidth(text, width)
	pad := width - ansi.StringWidth(clamped)
	if pad <= 0 {
		return clamped
	}
	switch align {
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + clamped + strings.Repeat(" ", pad-left)
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + clamped
	}
	return clamped + strings.Repeat(" ", pad)
}

// fitCells pads or cuts an already styled line to width cells.
func fitCells(s string, width int) string {
	if ansi.StringWidth(s) > width {
		return ansi.Truncate(s, width, "")
	}
	return padRight(s, width)
}
