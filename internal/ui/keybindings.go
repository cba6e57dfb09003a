package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds every binding of the builder screen. It satisfies
// help.KeyMap so the footer and the ? overlay render from one place.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	SwitchPane  key.Binding
	Mark        key.Binding
	RangeMark   key.Binding
	Info        key.Binding
	Back        key.Binding
	ToChosen    key.Binding
	ToAvailable key.Binding
	Category    key.Binding
	PrevCat     key.Binding
	NextCat     key.Binding
	Context     key.Binding
	ClearCtx    key.Binding
	PickUp      key.Binding
	Drop        key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newKeyMap(vim bool) keyMap {
	paneKeys := []string{"tab", "shift+tab", "left", "right"}
	paneHelp := "tab/←/→"
	if vim {
		paneKeys = append(paneKeys, "h", "l")
		paneHelp = "tab/h/l"
	}
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		SwitchPane:  key.NewBinding(key.WithKeys(paneKeys...), key.WithHelp(paneHelp, "pane")),
		Mark:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark")),
		RangeMark:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "range mark")),
		Info:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close/cancel")),
		ToChosen:    key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "add to test")),
		ToAvailable: key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "back to pool")),
		Category: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "category"),
		),
		PrevCat:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev category")),
		NextCat:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next category")),
		Context:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "context filter")),
		ClearCtx: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filter")),
		PickUp:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Drop:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop here")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mark, k.ToChosen, k.ToAvailable, k.PickUp, k.Drop, k.Info, k.Save, k.Help, k.Quit}
}

// FullHelp is the ? overlay, one column per concern.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchPane, k.Help, k.Quit},
		{k.Mark, k.RangeMark, k.Info, k.Back},
		{k.ToChosen, k.ToAvailable, k.PickUp, k.Drop, k.Save},
		{k.Category, k.PrevCat, k.NextCat, k.Context, k.ClearCtx},
	}
}

// setMoving flips the bindings that only make sense during a keyboard move.
func (k *keyMap) setMoving(moving bool) {
	k.Drop.SetEnabled(moving)
	k.PickUp.SetEnabled(!moving)
}

// categoryDigit returns the 0-based category slot for a digit key.
func categoryDigit(msg tea.KeyMsg) (int, bool) {
	n, err := strconv.Atoi(msg.String())
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n - 1, true
}

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}
