package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/testbuilder/internal/pool"
)

// Mouse gestures:
//
//	press + release on a row       click (alt: info, shift: range)
//	press on a test row + motion   drag; hover follows the pointer
//	release during a drag          drop before the row under the pointer,
//	                               or cancel when off the test pane
//	press anywhere else            close the info panel unless on it
//	wheel                          scroll the pane under the pointer

func (a App) handleMouse(msg tea.MouseMsg) (App, tea.Cmd) {
	if a.builder == nil || a.saving || a.helpOpen || a.quitConfirm {
		return a, nil
	}
	l := a.layout()

	switch {
	case msg.Button == tea.MouseButtonWheelUp, msg.Button == tea.MouseButtonWheelDown:
		if p, ok := l.paneAt(msg.X); ok {
			if msg.Button == tea.MouseButtonWheelUp {
				a.lists[p].Up()
			} else {
				a.lists[p].Down()
			}
		}
		return a, nil
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return a.mousePress(msg, l)
	case msg.Action == tea.MouseActionMotion:
		return a.mouseMotion(msg, l)
	case msg.Action == tea.MouseActionRelease:
		return a.mouseRelease(msg, l)
	}
	return a, nil
}

func (a App) mousePress(msg tea.MouseMsg, l layout) (App, tea.Cmd) {
	a.cancelMove()
	if p, row, ok := a.hitRow(msg.X, msg.Y, l); ok {
		a.focus = p
		a.lists[p].Select(row)
		a.press = &pressState{pane: p, row: row, mod: modifierOf(msg)}
		return a, nil
	}
	a.press = nil

	if id, ok := a.tabAt(msg.X, msg.Y); ok {
		return a.setCategory(id)
	}
	target := pool.TargetOutside
	if l.inInfo(msg.X, msg.Y) {
		target = pool.TargetPanel
	}
	a.builder.ClickOutside(target)
	return a, nil
}

func (a App) mouseMotion(msg tea.MouseMsg, l layout) (App, tea.Cmd) {
	pr := a.press
	if pr == nil || pr.pane != pool.Chosen || pr.mod != pool.ModNone {
		return a, nil
	}
	p, row, onRow := a.hitRow(msg.X, msg.Y, l)
	onChosen := onRow && p == pool.Chosen

	if !pr.dragging {
		if onChosen && row == pr.row {
			return a, nil
		}
		it, ok := a.surface.At(pool.Chosen, pr.row)
		if !ok {
			// The end row cannot be dragged.
			a.press = nil
			return a, nil
		}
		if err := a.builder.DragStart(it.ID); err != nil {
			a.press = nil
			return a, a.setToast("error", err.Error())
		}
		pr.dragging = true
	}

	if !onChosen {
		a.builder.DragLeave()
		return a, nil
	}
	a.lists[pool.Chosen].Select(row)
	a.hover(a.targetAt(row))
	return a, nil
}

func (a App) mouseRelease(msg tea.MouseMsg, l layout) (App, tea.Cmd) {
	pr := a.press
	a.press = nil
	if pr == nil {
		return a, nil
	}

	if pr.dragging {
		moved, _ := a.builder.Dragging()
		if p, row, ok := a.hitRow(msg.X, msg.Y, l); ok && p == pool.Chosen {
			return a.finishDrop(moved, a.targetAt(row))
		}
		a.builder.DragCancel()
		return a, nil
	}

	it, ok := a.surface.At(pr.pane, pr.row)
	if !ok {
		a.builder.ClickOutside(pool.TargetItem)
		return a, nil
	}
	return a.click(pr.pane, it.ID, pr.mod)
}

// hitRow maps a screen cell to a pane row, counting the end row of the test.
func (a App) hitRow(x, y int, l layout) (pool.PoolID, int, bool) {
	p, ok := l.paneAt(x)
	if !ok {
		return 0, 0, false
	}
	rel, ok := l.rowAt(y)
	if !ok {
		return 0, 0, false
	}
	abs, ok := a.lists[p].RowAt(rel)
	if !ok {
		return 0, 0, false
	}
	return p, abs, true
}

// tabAt maps a cell on the tab line to a category.
func (a App) tabAt(x, y int) (pool.CategoryID, bool) {
	if y != tabLineY {
		return 0, false
	}
	width, _ := a.viewSize()
	_, spans := a.categoryTabs(width)
	for _, s := range spans {
		if x >= s.x0 && x < s.x1 {
			return s.id, true
		}
	}
	return 0, false
}

func modifierOf(msg tea.MouseMsg) pool.Modifier {
	switch {
	case msg.Alt:
		return pool.ModInfo
	case msg.Shift:
		return pool.ModRange
	}
	return pool.ModNone
}
