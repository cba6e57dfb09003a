package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/testbuilder/internal/pool"
	"github.com/gravitrone/testbuilder/internal/ui/components"
)

const (
	headerLines   = 3 // title, category tabs, status
	tabLineY      = 1
	paneGap       = 1
	minPaneWidth  = 20
	minPaneHeight = 5
	infoTextLines = 4
	defaultWidth  = 100
	defaultHeight = 30
)

// layout is the screen geometry shared by View and the mouse hit tests.
type layout struct {
	width      int
	paneTop    int
	paneHeight int
	paneWidth  int
	infoTop    int
	infoHeight int
	infoWidth  int
}

func (a App) viewSize() (int, int) {
	w, h := a.width, a.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (a App) layout() layout {
	width, height := a.viewSize()
	l := layout{width: width, paneTop: headerLines}
	l.paneWidth = max((width-paneGap)/2, minPaneWidth)

	footer := lipgloss.Height(a.renderFooter())
	if panel := a.renderInfo(); panel != "" {
		l.infoHeight = lipgloss.Height(panel)
		l.infoWidth = lipgloss.Width(panel)
	}
	// One line for the per-category counts.
	l.paneHeight = max(height-headerLines-1-l.infoHeight-footer, minPaneHeight)
	l.infoTop = l.paneTop + l.paneHeight + 1
	return l
}

func (l layout) pageSize() int { return l.paneHeight - 2 }

func (l layout) firstRowY() int { return l.paneTop + 1 }

// paneAt maps a screen column to the pane under it.
func (l layout) paneAt(x int) (pool.PoolID, bool) {
	switch {
	case x >= 0 && x < l.paneWidth:
		return pool.Available, true
	case x >= l.paneWidth+paneGap && x < 2*l.paneWidth+paneGap:
		return pool.Chosen, true
	}
	return 0, false
}

// rowAt maps a screen line to a visible row inside the panes.
func (l layout) rowAt(y int) (int, bool) {
	rel := y - l.firstRowY()
	if rel < 0 || rel >= l.pageSize() {
		return 0, false
	}
	return rel, true
}

func (l layout) inInfo(x, y int) bool {
	return l.infoHeight > 0 &&
		y >= l.infoTop && y < l.infoTop+l.infoHeight &&
		x >= 0 && x < l.infoWidth
}

// --- View ---

func (a App) View() string {
	width, _ := a.viewSize()
	if a.builder == nil {
		return a.renderLoading(width)
	}

	header := strings.Join([]string{a.renderTitle(width), a.renderTabs(width), a.renderStatus(width)}, "\n")
	footer := a.renderFooter()

	var overlay string
	switch {
	case a.quitConfirm:
		overlay = components.ConfirmDialog("Quit", "The test has unsaved changes. Quit anyway?")
	case a.saving:
		note := plural(len(a.builder.ChosenIDs()), "question")
		overlay = components.InputDialog("Save test", a.input.View(), note)
	case a.helpOpen:
		overlay = a.renderHelp(width)
	}
	if overlay != "" {
		return header + "\n\n" + centerBlockUniform(overlay, width) + "\n\n" + footer
	}

	l := a.layout()
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderPane(pool.Available, l),
		strings.Repeat(" ", paneGap),
		a.renderPane(pool.Chosen, l),
	)
	parts := []string{header, panes, a.renderCounts(width)}
	if info := a.renderInfo(); info != "" {
		parts = append(parts, info)
	}
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

func (a App) renderLoading(width int) string {
	body := MutedStyle.Render("Loading item bank...")
	switch {
	case a.err != "":
		body = components.ErrorBox("Error", a.err, width)
	case !a.loading:
		body = MutedStyle.Render("No item bank configured. Run testbuilder login.")
	}
	hints := components.StatusBar(components.BindingHints(a.keys.Quit), width)
	return centerBlockUniform(RenderBanner(), width) + "\n" + centerBlockUniform(body, width) + "\n\n" + hints
}

// --- Header ---

type segment struct {
	text  string
	style lipgloss.Style
}

// fitLine joins styled segments on one line, clamping the tail to width.
func fitLine(width int, segs ...segment) string {
	var b strings.Builder
	used := 0
	for _, s := range segs {
		text := components.SanitizeOneLine(s.text)
		if text == "" {
			continue
		}
		sep := ""
		if used > 0 {
			sep = "  "
		}
		room := width - used - len(sep)
		if room <= 0 {
			break
		}
		if lipgloss.Width(text) > room {
			text = components.ClampTextWidth(text, room)
		}
		b.WriteString(sep + s.style.Render(text))
		used += len(sep) + lipgloss.Width(text)
	}
	return b.String()
}

func (a App) renderTitle(width int) string {
	title := a.opts.Title
	if title == "" {
		title = "untitled test"
	}
	state := segment{}
	switch {
	case a.builder.Dirty():
		state = segment{"● unsaved", WarningStyle}
	case a.savedID != "":
		state = segment{"saved", SuccessStyle}
	}
	totals := fmt.Sprintf("test %d · pool %d", len(a.builder.ChosenIDs()), a.builder.AvailableCount())
	return fitLine(width,
		segment{"testbuilder", BannerStyle},
		segment{title, NormalStyle},
		state,
		segment{totals, MutedStyle},
	)
}

type tabSpan struct {
	id pool.CategoryID
	x0 int
	x1 int
}

// categoryTabs renders the tab segments that fit in width and where each
// one sits on the tab line.
func (a App) categoryTabs(width int) ([]string, []tabSpan) {
	var (
		segments []string
		spans    []tabSpan
		x        int
	)
	for i, c := range a.builder.Categories() {
		label := components.SanitizeOneLine(c.Name)
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		style := TabInactiveStyle
		if c.ID == a.builder.Category() {
			style = TabActiveStyle
		}
		seg := style.Render(label)
		w := lipgloss.Width(seg)
		if x+w > width {
			break
		}
		segments = append(segments, seg)
		spans = append(spans, tabSpan{id: c.ID, x0: x, x1: x + w})
		x += w
	}
	return segments, spans
}

func (a App) renderTabs(width int) string {
	segments, _ := a.categoryTabs(width)
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) renderStatus(width int) string {
	filter := segment{"all contexts", MutedStyle}
	if id, ok := a.builder.ContextFilter(); ok {
		source, known := a.builder.Catalog().ContextSource(id)
		if !known {
			source = fmt.Sprintf("context %d", id)
		}
		filter = segment{"context: " + source, AccentStyle}
	}
	marks := segment{
		fmt.Sprintf("marked %d / %d", a.builder.MarkedCount(pool.Available), a.builder.MarkedCount(pool.Chosen)),
		MutedStyle,
	}
	moving := segment{}
	if id, ok := a.builder.Dragging(); ok {
		moving = segment{fmt.Sprintf("moving #%d", id), DropLineStyle}
	}

	feedback := segment{}
	switch {
	case a.err != "":
		feedback = segment{a.err, ErrorStyle}
	case a.toast != nil:
		feedback = segment{a.toast.text, toastStyle(a.toast.level)}
	}
	return fitLine(width, filter, marks, moving, feedback)
}

func toastStyle(level string) lipgloss.Style {
	switch level {
	case "success":
		return SuccessStyle
	case "warning":
		return WarningStyle
	case "error":
		return ErrorStyle
	}
	return NormalStyle
}

// --- Panes ---

func (a App) renderPane(p pool.PoolID, l layout) string {
	list := a.lists[p]
	inner := components.PaneContentWidth(l.paneWidth)
	items := a.surface.Rows(p)

	title := fmt.Sprintf("Test · %d", len(items))
	if p == pool.Available {
		title = fmt.Sprintf("%s · %d", a.builder.Catalog().CategoryName(a.builder.Category()), len(items))
	}

	var rows []string
	start, end := list.Window()
	for i := start; i < end; i++ {
		if i >= len(items) {
			rows = append(rows, a.renderEndRow(i, inner))
			continue
		}
		rows = append(rows, a.renderRow(p, i, items[i], inner))
	}
	if len(items) == 0 && p == pool.Available {
		rows = append(rows, MutedStyle.Render("No questions here"))
	}
	return components.Pane(title, rows, l.paneWidth, l.paneHeight, a.focus == p)
}

func (a App) renderRow(p pool.PoolID, i int, it pool.Item, inner int) string {
	cursor := a.focus == p && a.lists[p].IsSelected(i)
	moved, moving := a.builder.Dragging()
	dropHere := false
	if target, ok := a.builder.HoverTarget(); ok && p == pool.Chosen {
		dropHere = !target.End && target.ID == it.ID && it.ID != moved
	}

	lead := "  "
	switch {
	case dropHere:
		lead = DropLineStyle.Render("▸ ")
	case cursor:
		lead = "› "
	}
	mark := "[ ] "
	if a.builder.IsMarked(p, it.ID) {
		mark = "[x] "
	}
	prefix := mark
	if p == pool.Chosen {
		prefix += fmt.Sprintf("%2d. ", i+1)
	}
	prefix += fmt.Sprintf("#%d ", it.ID)
	if it.ContextID != nil {
		prefix += "§ "
	}

	textWidth := max(inner-2-lipgloss.Width(prefix), 1)
	text := components.ClampTextWidth(it.Text, textWidth)
	line := prefix + text

	style := NormalStyle
	switch {
	case moving && it.ID == moved:
		style = MovingRowStyle
	case cursor:
		style = CursorRowStyle
	case a.builder.IsMarked(p, it.ID):
		style = MarkedRowStyle
	}
	return lead + style.Width(inner-2).Render(line)
}

func (a App) renderEndRow(i int, inner int) string {
	cursor := a.focus == pool.Chosen && a.lists[pool.Chosen].IsSelected(i)
	lead, text, style := "  ", "── end of test ──", MutedStyle
	if target, ok := a.builder.HoverTarget(); ok && target.End {
		lead, text, style = DropLineStyle.Render("▸ "), "── drop at end ──", DropLineStyle
	}
	if cursor {
		style = CursorRowStyle
		if lead == "  " {
			lead = "› "
		}
	}
	return lead + style.Width(max(inner-2, 1)).Render(text)
}

// renderCounts is the per-category tally of the test plus its total.
func (a App) renderCounts(width int) string {
	counts := a.builder.ChosenCounts()
	segs := []segment{{"per category", MutedStyle}}
	total := 0
	for _, c := range a.builder.Categories() {
		n := counts[c.ID]
		total += n
		style := MutedStyle
		if n > 0 {
			style = NormalStyle
		}
		segs = append(segs, segment{fmt.Sprintf("%s %d", c.Name, n), style})
	}
	segs = append(segs, segment{fmt.Sprintf("total %d", total), AccentStyle})
	return fitLine(width, segs...)
}

// --- Info panel ---

func (a App) renderInfo() string {
	panel, ok := a.surface.Info()
	if !ok || a.builder == nil {
		return ""
	}
	width, _ := a.viewSize()
	inner := components.BoxContentWidth(width)

	wrapped := lipgloss.NewStyle().Width(inner).Render(components.SanitizeText(panel.Item.Text))
	lines := strings.Split(wrapped, "\n")
	if len(lines) > infoTextLines {
		lines = append(lines[:infoTextLines-1], components.ClampTextWidth(lines[infoTextLines-1], inner-1)+"…")
	}
	sections := []string{NormalStyle.Render(strings.Join(lines, "\n"))}

	if len(panel.Options) > 0 {
		rows := make([]components.OptionRow, 0, len(panel.Options))
		for _, o := range panel.Options {
			rows = append(rows, components.OptionRow{Label: o.OptionID, Text: o.Text, Correct: o.Correct})
		}
		sections = append(sections, components.OptionTable(rows, inner))
	}

	meta := []string{components.InfoRow("Category", a.builder.Catalog().CategoryName(panel.Item.CategoryID))}
	if panel.Context != nil {
		meta = append(meta, components.InfoRow("Context", panel.Context.Source))
	}
	if len(panel.Tags) > 0 {
		names := make([]string, 0, len(panel.Tags))
		for _, t := range panel.Tags {
			names = append(names, t.Name)
		}
		meta = append(meta, components.InfoRow("Tags", strings.Join(names, ", ")))
	}
	sections = append(sections, strings.Join(meta, "\n"))

	title := fmt.Sprintf("Question %d", panel.Item.ID)
	return components.TitledBox(title, strings.Join(sections, "\n\n"), width)
}

// --- Footer and help ---

func (a App) renderFooter() string {
	width, _ := a.viewSize()
	return components.StatusBar(components.BindingHints(a.keys.ShortHelp()...), width)
}

func (a App) renderHelp(width int) string {
	body := MutedStyle.Render("esc to close") + "\n\n" + a.help.FullHelpView(a.keys.FullHelp())
	return components.TitledBox("Help", body, width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	prefix := strings.Repeat(" ", (width-maxWidth)/2)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
