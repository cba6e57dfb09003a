package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/testbuilder/internal/pool"
)

func ctxID(id int) *pool.ContextID {
	c := pool.ContextID(id)
	return &c
}

// fakeBackend is an in-memory bank: category 1 holds 1-4 (2 and 3 share
// context 7), category 2 holds 10 and 11.
type fakeBackend struct {
	items    []pool.Item
	catalog  pool.Catalog
	options  []pool.AnswerOption
	tests    map[string]pool.SavedTest
	saved    []pool.SavedTest
	loadErr  error
	saveErr  error
	getCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		items: []pool.Item{
			{ID: 1, CategoryID: 1, Text: "Welche Form ist richtig?", Tags: []pool.TagID{5}},
			{ID: 2, CategoryID: 1, Text: "Frage zum Text A", ContextID: ctxID(7)},
			{ID: 3, CategoryID: 1, Text: "Zweite Frage zum Text A", ContextID: ctxID(7)},
			{ID: 4, CategoryID: 1, Text: "Synonym gesucht"},
			{ID: 10, CategoryID: 2, Text: "Wer schrieb Faust?"},
			{ID: 11, CategoryID: 2, Text: "Epoche des Sturm und Drang"},
		},
		catalog: pool.Catalog{
			Categories: []pool.Category{
				{ID: 1, Name: "Language practice"},
				{ID: 2, Name: "Literature"},
				{ID: 3, Name: "Linguistics"},
			},
			Tags:     []pool.Tag{{ID: 5, Name: "grammar"}},
			Contexts: []pool.Context{{ID: 7, Source: "Kafka, Die Verwandlung"}},
		},
		options: []pool.AnswerOption{
			{ItemID: 1, OptionID: "A", Text: "des Hundes", Correct: true},
			{ItemID: 1, OptionID: "B", Text: "dem Hunde"},
		},
		tests: map[string]pool.SavedTest{},
	}
}

func (f *fakeBackend) Items(context.Context) ([]pool.Item, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.items, nil
}

func (f *fakeBackend) Catalog(context.Context) (pool.Catalog, error) {
	return f.catalog, nil
}

func (f *fakeBackend) AnswerOptions(context.Context) ([]pool.AnswerOption, error) {
	return f.options, nil
}

func (f *fakeBackend) SaveTest(_ context.Context, title string, ids []pool.ItemID) (pool.SavedTest, error) {
	if f.saveErr != nil {
		return pool.SavedTest{}, f.saveErr
	}
	test := pool.SavedTest{ID: "t-saved", Title: title, ItemIDs: ids, CreatedAt: time.Now()}
	f.saved = append(f.saved, test)
	return test, nil
}

func (f *fakeBackend) GetTest(_ context.Context, id string) (*pool.SavedTest, error) {
	f.getCalls++
	test, ok := f.tests[id]
	if !ok {
		return nil, errors.New("test not found")
	}
	return &test, nil
}

func update(t *testing.T, app App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		model, _ := app.Update(msg)
		app = model.(App)
	}
	return app
}

// updateCmd applies one message and returns the command it produced.
func updateCmd(t *testing.T, app App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := app.Update(msg)
	return model.(App), cmd
}

func loadedApp(t *testing.T, backend *fakeBackend, opts Options) App {
	t.Helper()
	app := NewApp(backend, opts)
	cmd := app.Init()
	require.NotNil(t, cmd)
	app = update(t, app, cmd(), tea.WindowSizeMsg{Width: 100, Height: 30})
	require.NotNil(t, app.builder)
	return app
}

// choose moves ids into the test through the builder and resyncs the view.
func choose(t *testing.T, app App, ids ...pool.ItemID) App {
	t.Helper()
	for _, id := range ids {
		_, err := app.builder.Click(pool.Available, id, pool.ModNone)
		require.NoError(t, err)
	}
	_, err := app.builder.TransferToChosen()
	require.NoError(t, err)
	return update(t, app, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func rowIDs(app App, p pool.PoolID) []pool.ItemID {
	return pool.IDs(app.surface.Rows(p))
}

func ids(v ...int) []pool.ItemID {
	out := make([]pool.ItemID, 0, len(v))
	for _, id := range v {
		out = append(out, pool.ItemID(id))
	}
	return out
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)
