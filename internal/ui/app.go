package ui

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/testbuilder/internal/pool"
	"github.com/gravitrone/testbuilder/internal/ui/components"
)

// Backend is where the builder screen loads its bank and saves tests.
type Backend interface {
	pool.DataSource
	pool.SaveSurface
	GetTest(ctx context.Context, id string) (*pool.SavedTest, error)
}

// Options configure one builder session.
type Options struct {
	Title    string          // offered as the default title on save
	TestID   string          // saved test to resume, if any
	Category pool.CategoryID // initial category; zero means the first
	VimKeys  bool
}

const ioTimeout = 15 * time.Second

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}
type bankLoadedMsg struct {
	bank   pool.Bank
	resume *pool.SavedTest
}
type testSavedMsg struct{ test pool.SavedTest }

type appToast struct {
	level string
	text  string
}

// pressState remembers where the left button went down until it is
// released, so a press can still turn into a drag.
type pressState struct {
	pane     pool.PoolID
	row      int
	mod      pool.Modifier
	dragging bool
}

// --- App Model ---

// App is the test builder screen: the Available pane on the left, the test
// being built on the right.
type App struct {
	backend Backend
	opts    Options
	keys    keyMap
	help    help.Model
	input   textinput.Model

	builder *pool.Builder
	surface *paneSurface
	lists   [2]*components.List
	focus   pool.PoolID

	width       int
	height      int
	loading     bool
	err         string
	toast       *appToast
	helpOpen    bool
	quitConfirm bool
	saving      bool
	savedID     string
	press       *pressState
}

// NewApp creates the builder screen. The bank is loaded by Init.
func NewApp(backend Backend, opts Options) App {
	keys := newKeyMap(opts.VimKeys)
	keys.setMoving(false)

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Test title"
	input.CharLimit = 120

	return App{
		backend: backend,
		opts:    opts,
		keys:    keys,
		help:    help.New(),
		input:   input,
		surface: newPaneSurface(),
		lists:   [2]*components.List{components.NewList(10), components.NewList(10)},
		focus:   pool.Available,
		loading: backend != nil,
	}
}

func (a App) Init() tea.Cmd {
	if a.backend == nil {
		return nil
	}
	return a.loadCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
	case errMsg:
		a.loading = false
		a.err = msg.err.Error()
		log.Printf("error: %v", msg.err)
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case bankLoadedMsg:
		a, cmd = a.applyBank(msg)
	case testSavedMsg:
		a, cmd = a.applySaved(msg)
	case tea.KeyMsg:
		a, cmd = a.handleKey(msg)
	case tea.MouseMsg:
		a, cmd = a.handleMouse(msg)
	default:
		if a.saving {
			a.input, cmd = a.input.Update(msg)
		}
		return a, cmd
	}
	a.syncLists()
	return a, cmd
}

// --- Loading and saving ---

func (a App) loadCmd() tea.Cmd {
	backend, testID := a.backend, a.opts.TestID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()

		bank, err := pool.LoadBank(ctx, backend)
		if err != nil {
			return errMsg{err: err}
		}
		msg := bankLoadedMsg{bank: bank}
		if testID != "" {
			test, err := backend.GetTest(ctx, testID)
			if err != nil {
				return errMsg{err: fmt.Errorf("load test %s: %w", testID, err)}
			}
			msg.resume = test
		}
		return msg
	}
}

func (a App) applyBank(msg bankLoadedMsg) (App, tea.Cmd) {
	a.loading = false
	var chosen []pool.ItemID
	if msg.resume != nil {
		chosen = msg.resume.ItemIDs
		a.savedID = msg.resume.ID
		if a.opts.Title == "" {
			a.opts.Title = msg.resume.Title
		}
	}

	b, err := pool.NewBuilder(msg.bank, chosen, a.surface)
	if err != nil {
		a.err = err.Error()
		log.Printf("build pools: %v", err)
		return a, nil
	}
	a.builder = b
	log.Printf("bank loaded: %d items, %d chosen", len(msg.bank.Items), len(chosen))

	if a.opts.Category != 0 {
		if err := b.SetCategory(a.opts.Category); err != nil {
			return a, a.setToast("warning", err.Error())
		}
	}
	return a, a.setToast("info", fmt.Sprintf("Loaded %d questions", len(msg.bank.Items)))
}

func (a App) saveCmd(title string, ids []pool.ItemID) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()

		test, err := backend.SaveTest(ctx, title, ids)
		if err != nil {
			return errMsg{err: fmt.Errorf("save test: %w", err)}
		}
		return testSavedMsg{test: test}
	}
}

func (a App) applySaved(msg testSavedMsg) (App, tea.Cmd) {
	a.savedID = msg.test.ID
	a.opts.Title = msg.test.Title
	// Edits made while the save was in flight keep the screen dirty.
	if a.builder != nil && slices.Equal(a.builder.ChosenIDs(), msg.test.ItemIDs) {
		a.builder.MarkSaved()
	}
	log.Printf("saved test %s with %d items", msg.test.ID, len(msg.test.ItemIDs))
	return a, a.setToast("success", fmt.Sprintf("Saved %q (%s)", msg.test.Title, plural(len(msg.test.ItemIDs), "question")))
}

// --- Keyboard ---

func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.quitConfirm {
		switch {
		case isKey(msg, "y"):
			return a, tea.Quit
		case isKey(msg, "n"), key.Matches(msg, a.keys.Back):
			a.quitConfirm = false
		}
		return a, nil
	}
	if a.saving {
		return a.handleSaveKeys(msg)
	}
	if a.helpOpen {
		if key.Matches(msg, a.keys.Back, a.keys.Help) {
			a.helpOpen = false
		}
		return a, nil
	}
	if key.Matches(msg, a.keys.Quit) {
		if a.builder != nil && a.builder.Dirty() {
			a.quitConfirm = true
			return a, nil
		}
		return a, tea.Quit
	}
	if a.builder == nil {
		return a, nil
	}
	a.err = ""

	switch {
	case key.Matches(msg, a.keys.Help):
		a.helpOpen = true
	case key.Matches(msg, a.keys.Up):
		a.lists[a.focus].Up()
		a.trackMove()
	case key.Matches(msg, a.keys.Down):
		a.lists[a.focus].Down()
		a.trackMove()
	case key.Matches(msg, a.keys.SwitchPane):
		a.switchPane(msg)
	case key.Matches(msg, a.keys.Mark):
		return a.clickCursor(pool.ModNone)
	case key.Matches(msg, a.keys.RangeMark):
		return a.clickCursor(pool.ModRange)
	case key.Matches(msg, a.keys.Info):
		return a.toggleInfo()
	case key.Matches(msg, a.keys.Back):
		a.back()
	case key.Matches(msg, a.keys.ToChosen):
		return a.transfer(pool.Available)
	case key.Matches(msg, a.keys.ToAvailable):
		return a.transfer(pool.Chosen)
	case key.Matches(msg, a.keys.Category):
		slot, _ := categoryDigit(msg)
		cats := a.builder.Categories()
		if slot < len(cats) {
			return a.setCategory(cats[slot].ID)
		}
	case key.Matches(msg, a.keys.PrevCat):
		return a.stepCategory(-1)
	case key.Matches(msg, a.keys.NextCat):
		return a.stepCategory(1)
	case key.Matches(msg, a.keys.Context):
		return a.cycleContext()
	case key.Matches(msg, a.keys.ClearCtx):
		a.builder.ClearContextFilter()
		a.lists[pool.Available].Reset()
	case key.Matches(msg, a.keys.PickUp):
		return a.pickUp()
	case key.Matches(msg, a.keys.Drop):
		return a.drop()
	case key.Matches(msg, a.keys.Save):
		return a.openSave()
	}
	return a, nil
}

func (a *App) switchPane(msg tea.KeyMsg) {
	if _, moving := a.builder.Dragging(); moving {
		return
	}
	switch {
	case isKey(msg, "left", "h"):
		a.focus = pool.Available
	case isKey(msg, "right", "l"):
		a.focus = pool.Chosen
	case a.focus == pool.Available:
		a.focus = pool.Chosen
	default:
		a.focus = pool.Available
	}
}

func (a App) clickCursor(mod pool.Modifier) (App, tea.Cmd) {
	it, ok := a.surface.At(a.focus, a.lists[a.focus].Cursor)
	if !ok {
		return a, nil
	}
	return a.click(a.focus, it.ID, mod)
}

func (a App) click(p pool.PoolID, id pool.ItemID, mod pool.Modifier) (App, tea.Cmd) {
	if _, err := a.builder.Click(p, id, mod); err != nil {
		return a, a.setToast("error", err.Error())
	}
	return a, nil
}

func (a App) toggleInfo() (App, tea.Cmd) {
	it, ok := a.surface.At(a.focus, a.lists[a.focus].Cursor)
	if !ok {
		return a, nil
	}
	if panel, open := a.surface.Info(); open && panel.Item.ID == it.ID {
		a.builder.CloseInfo()
		return a, nil
	}
	return a.click(a.focus, it.ID, pool.ModInfo)
}

func (a *App) back() {
	if _, moving := a.builder.Dragging(); moving {
		a.cancelMove()
		return
	}
	a.builder.CloseInfo()
}

func (a App) transfer(from pool.PoolID) (App, tea.Cmd) {
	a.cancelMove()
	var (
		moved []pool.ItemID
		err   error
		dest  = "test"
	)
	if from == pool.Available {
		moved, err = a.builder.TransferToChosen()
	} else {
		moved, err = a.builder.TransferToAvailable()
		dest = "pool"
	}
	if err != nil {
		return a, a.setToast("error", err.Error())
	}
	if len(moved) == 0 {
		return a, a.setToast("info", "Nothing marked")
	}
	return a, a.setToast("success", fmt.Sprintf("Moved %s to the %s", plural(len(moved), "question"), dest))
}

func (a App) setCategory(id pool.CategoryID) (App, tea.Cmd) {
	if id == a.builder.Category() {
		return a, nil
	}
	if err := a.builder.SetCategory(id); err != nil {
		return a, a.setToast("error", err.Error())
	}
	a.lists[pool.Available].Reset()
	return a, nil
}

func (a App) stepCategory(delta int) (App, tea.Cmd) {
	cats := a.builder.Categories()
	cur := 0
	for i, c := range cats {
		if c.ID == a.builder.Category() {
			cur = i
		}
	}
	next := (cur + delta + len(cats)) % len(cats)
	return a.setCategory(cats[next].ID)
}

// cycleContext walks the contexts of the current category and ends with
// the filter cleared.
func (a App) cycleContext() (App, tea.Cmd) {
	contexts := a.builder.Contexts()
	if len(contexts) == 0 {
		return a, a.setToast("info", "No contexts in this category")
	}
	next := 0
	if cur, ok := a.builder.ContextFilter(); ok {
		for i, c := range contexts {
			if c.ID == cur {
				next = i + 1
			}
		}
	}
	a.lists[pool.Available].Reset()
	if next >= len(contexts) {
		a.builder.ClearContextFilter()
		return a, nil
	}
	a.builder.SetContextFilter(contexts[next].ID)
	return a, nil
}

// --- Keyboard move ---
//
// m picks up the highlighted test question, the cursor then marks the drop
// point and enter drops the question before it. It runs on the same drag
// state as the mouse.

func (a App) pickUp() (App, tea.Cmd) {
	if a.focus != pool.Chosen {
		return a, a.setToast("info", "Switch to the test pane to move a question")
	}
	it, ok := a.surface.At(pool.Chosen, a.lists[pool.Chosen].Cursor)
	if !ok {
		return a, nil
	}
	if err := a.builder.DragStart(it.ID); err != nil {
		return a, a.setToast("error", err.Error())
	}
	a.builder.DragEnter(pool.Before(it.ID))
	a.keys.setMoving(true)
	return a, nil
}

func (a App) drop() (App, tea.Cmd) {
	moved, ok := a.builder.Dragging()
	if !ok {
		return a, nil
	}
	return a.finishDrop(moved, a.targetAt(a.lists[pool.Chosen].Cursor))
}

func (a App) finishDrop(moved pool.ItemID, target pool.TargetRef) (App, tea.Cmd) {
	a.keys.setMoving(false)
	if err := a.builder.Drop(target); err != nil {
		return a, a.setToast("error", err.Error())
	}
	log.Printf("drop %s %s", pool.ElementID(pool.Chosen.String(), moved), target)
	a.syncLists()
	if row := a.surface.IndexOf(pool.Chosen, moved); row >= 0 {
		a.lists[pool.Chosen].Select(row)
	}
	return a, nil
}

// trackMove points the drag hover at the cursor during a keyboard move.
func (a *App) trackMove() {
	if _, moving := a.builder.Dragging(); !moving || a.focus != pool.Chosen {
		return
	}
	a.hover(a.targetAt(a.lists[pool.Chosen].Cursor))
}

func (a *App) hover(target pool.TargetRef) {
	if cur, ok := a.builder.HoverTarget(); ok && cur == target {
		a.builder.DragOver(target)
		return
	}
	a.builder.DragEnter(target)
}

func (a *App) cancelMove() {
	if _, moving := a.builder.Dragging(); moving {
		a.builder.DragCancel()
	}
	a.keys.setMoving(false)
}

// targetAt is the drop point for a Chosen row: before the item on it, or
// the end of the test for the trailing end row.
func (a App) targetAt(row int) pool.TargetRef {
	if it, ok := a.surface.At(pool.Chosen, row); ok {
		return pool.Before(it.ID)
	}
	return pool.EndOfList
}

// --- Save prompt ---

func (a App) openSave() (App, tea.Cmd) {
	if a.backend == nil {
		return a, a.setToast("error", "No item bank to save to")
	}
	if len(a.builder.ChosenIDs()) == 0 {
		return a, a.setToast("warning", "The test is empty")
	}
	a.cancelMove()
	a.saving = true
	a.input.SetValue(a.opts.Title)
	a.input.CursorEnd()
	return a, a.input.Focus()
}

func (a App) handleSaveKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.saving = false
		a.input.Blur()
		return a, nil
	case msg.Type == tea.KeyEnter:
		title := strings.TrimSpace(a.input.Value())
		a.saving = false
		a.input.Blur()
		return a, a.saveCmd(title, a.builder.ChosenIDs())
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// --- Toasts ---

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

// syncLists sizes both cursors to the published rows. The test pane has an
// extra end row to drop onto.
func (a *App) syncLists() {
	page := a.layout().pageSize()
	for _, p := range []pool.PoolID{pool.Available, pool.Chosen} {
		n := len(a.surface.Rows(p))
		if p == pool.Chosen && a.builder != nil {
			n++
		}
		a.lists[p].SetPageSize(page)
		a.lists[p].SetLen(n)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
