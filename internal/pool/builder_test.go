package pool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBank() Bank {
	return Bank{
		Items: []Item{
			{ID: 1, CategoryID: 1, Text: "one", ContextID: ctxID(100), Tags: []TagID{7}},
			{ID: 2, CategoryID: 1, Text: "two"},
			{ID: 3, CategoryID: 1, Text: "three", ContextID: ctxID(100)},
			{ID: 4, CategoryID: 2, Text: "four", ContextID: ctxID(200)},
			{ID: 5, CategoryID: 1, Text: "five", ContextID: ctxID(300)},
		},
		Catalog: Catalog{
			Tags:     []Tag{{ID: 7, Name: "grammar"}},
			Contexts: []Context{{ID: 100, Source: "Reading A"}, {ID: 200, Source: "Audio B"}},
		},
		Options: []AnswerOption{
			{ItemID: 1, OptionID: "A", Text: "yes", Correct: true},
			{ItemID: 1, OptionID: "B", Text: "no"},
		},
	}
}

func newTestBuilder(t *testing.T, chosen ...int) (*Builder, *recordingSurface) {
	t.Helper()
	surface := &recordingSurface{}
	b, err := NewBuilder(testBank(), itemIDs(chosen...), surface)
	require.NoError(t, err)
	surface.events = nil
	return b, surface
}

func TestNewBuilderDefaultsAndNotifies(t *testing.T) {
	surface := &recordingSurface{}
	b, err := NewBuilder(testBank(), itemIDs(4), surface)
	require.NoError(t, err)

	assert.Equal(t, CategoryID(1), b.Category())
	assert.Len(t, b.Categories(), 4)
	assert.Equal(t, itemIDs(1, 2, 3, 5), b.VisibleIDs(Available))
	assert.Equal(t, itemIDs(4), b.VisibleIDs(Chosen))
	assert.Equal(t, 4, b.AvailableCount())
	assert.False(t, b.Dirty())
	assert.Equal(t, []string{"pool", "pool"}, surface.kinds())
}

func TestNewBuilderSurfacesUnknownCategory(t *testing.T) {
	bk := testBank()
	bk.Items = append(bk.Items, Item{ID: 9, CategoryID: 42})

	_, err := NewBuilder(bk, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestBuilderInfoClickOpensPanelWithoutMarking(t *testing.T) {
	b, surface := newTestBuilder(t)

	res, err := b.Click(Available, 1, ModInfo)
	require.NoError(t, err)
	assert.True(t, res.Info)
	assert.Equal(t, 0, b.MarkedCount(Available))

	panel, ok := b.Info()
	require.True(t, ok)
	assert.Equal(t, ItemID(1), panel.Item.ID)
	assert.Len(t, panel.Options, 2)
	assert.True(t, panel.Options[0].Correct)
	assert.Equal(t, []Tag{{ID: 7, Name: "grammar"}}, panel.Tags)
	require.NotNil(t, panel.Context)
	assert.Equal(t, "Reading A", panel.Context.Source)
	assert.Equal(t, []string{"info-open"}, surface.kinds())
}

func TestBuilderAnyClickClosesInfo(t *testing.T) {
	b, surface := newTestBuilder(t)
	_, err := b.Click(Available, 1, ModInfo)
	require.NoError(t, err)

	_, err = b.Click(Available, 2, ModNone)
	require.NoError(t, err)

	_, ok := b.Info()
	assert.False(t, ok)
	assert.True(t, b.IsMarked(Available, 2))
	assert.Equal(t, []string{"info-open", "info-close"}, surface.kinds())
}

func TestBuilderInfoClickReplacesPanel(t *testing.T) {
	b, surface := newTestBuilder(t)
	_, err := b.Click(Available, 1, ModInfo)
	require.NoError(t, err)
	_, err = b.Click(Available, 5, ModInfo)
	require.NoError(t, err)

	panel, ok := b.Info()
	require.True(t, ok)
	assert.Equal(t, ItemID(5), panel.Item.ID)
	// Context 300 has no catalog entry.
	assert.Nil(t, panel.Context)
	assert.Equal(t, []string{"info-open", "info-close", "info-open"}, surface.kinds())
}

func TestBuilderClickOutside(t *testing.T) {
	b, _ := newTestBuilder(t)
	_, err := b.Click(Available, 1, ModInfo)
	require.NoError(t, err)

	b.ClickOutside(TargetPanel)
	_, ok := b.Info()
	assert.True(t, ok)

	b.ClickOutside(TargetOutside)
	_, ok = b.Info()
	assert.False(t, ok)
}

func TestBuilderClickRejectsItemInOtherPool(t *testing.T) {
	b, _ := newTestBuilder(t, 2)

	_, err := b.Click(Available, 2, ModNone)
	assert.ErrorIs(t, err, ErrUnknownItem)
	_, err = b.Click(Chosen, 1, ModNone)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestBuilderTransfersMarkDirtyAndNotify(t *testing.T) {
	b, surface := newTestBuilder(t)
	for _, id := range itemIDs(3, 1) {
		_, err := b.Click(Available, id, ModNone)
		require.NoError(t, err)
	}

	moved, err := b.TransferToChosen()
	require.NoError(t, err)
	assert.Equal(t, itemIDs(1, 3), moved)
	assert.Equal(t, itemIDs(1, 3), b.ChosenIDs())
	assert.Equal(t, itemIDs(2, 5), b.VisibleIDs(Available))
	assert.True(t, b.Dirty())
	assert.Equal(t, 2, b.ChosenCounts()[1])
	assert.Equal(t, []string{"pool", "pool"}, surface.kinds())

	b.MarkSaved()
	assert.False(t, b.Dirty())

	_, err = b.Click(Chosen, 3, ModNone)
	require.NoError(t, err)
	moved, err = b.TransferToAvailable()
	require.NoError(t, err)
	assert.Equal(t, itemIDs(3), moved)
	assert.Equal(t, itemIDs(2, 3, 5), b.VisibleIDs(Available))
	assert.True(t, b.Dirty())
}

func TestBuilderEmptyTransferStaysClean(t *testing.T) {
	b, surface := newTestBuilder(t)

	moved, err := b.TransferToChosen()
	require.NoError(t, err)
	assert.Empty(t, moved)
	assert.False(t, b.Dirty())
	assert.Empty(t, surface.events)
}

func TestBuilderRangeMarkUsesVisibleOrder(t *testing.T) {
	b, _ := newTestBuilder(t)

	_, err := b.Click(Available, 1, ModNone)
	require.NoError(t, err)
	res, err := b.Click(Available, 5, ModRange)
	require.NoError(t, err)

	assert.Equal(t, itemIDs(2, 3), res.Filled)
	assert.Equal(t, 4, b.MarkedCount(Available))
}

func TestBuilderSetCategoryClearsAvailableMarks(t *testing.T) {
	b, surface := newTestBuilder(t, 2)
	_, err := b.Click(Available, 1, ModNone)
	require.NoError(t, err)
	_, err = b.Click(Chosen, 2, ModNone)
	require.NoError(t, err)

	require.NoError(t, b.SetCategory(2))
	assert.Equal(t, CategoryID(2), b.Category())
	assert.Equal(t, itemIDs(4), b.VisibleIDs(Available))
	assert.Equal(t, 0, b.MarkedCount(Available))
	assert.Equal(t, 1, b.MarkedCount(Chosen))
	assert.Equal(t, []string{"pool"}, surface.kinds())

	err = b.SetCategory(9)
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, CategoryID(2), b.Category())
}

func TestBuilderContextFilter(t *testing.T) {
	b, _ := newTestBuilder(t)

	contexts := b.Contexts()
	require.Len(t, contexts, 2)
	assert.Equal(t, "Reading A", contexts[0].Source)
	assert.Equal(t, "context 300", contexts[1].Source)

	for _, id := range itemIDs(1, 2) {
		_, err := b.Click(Available, id, ModNone)
		require.NoError(t, err)
	}

	b.SetContextFilter(100)
	active, ok := b.ContextFilter()
	require.True(t, ok)
	assert.Equal(t, ContextID(100), active)
	assert.Equal(t, itemIDs(1, 3), b.VisibleIDs(Available))
	// Item 2 is hidden and loses its mark.
	assert.False(t, b.IsMarked(Available, 2))
	assert.True(t, b.IsMarked(Available, 1))

	moved, err := b.TransferToChosen()
	require.NoError(t, err)
	assert.Equal(t, itemIDs(1), moved)
	assert.Equal(t, itemIDs(3), b.VisibleIDs(Available))

	b.ClearContextFilter()
	_, ok = b.ContextFilter()
	assert.False(t, ok)
	assert.Equal(t, itemIDs(2, 3, 5), b.VisibleIDs(Available))
}

func TestBuilderDragOnlyDropMutates(t *testing.T) {
	b, surface := newTestBuilder(t, 1, 2, 3, 5)

	require.NoError(t, b.DragStart(1))
	b.DragEnter(Before(3))
	b.DragOver(Before(5))
	b.DragLeave()
	b.DragOver(Before(3))

	moved, active := b.Dragging()
	assert.True(t, active)
	assert.Equal(t, ItemID(1), moved)
	hover, hovering := b.HoverTarget()
	assert.True(t, hovering)
	assert.Equal(t, Before(3), hover)
	assert.Equal(t, itemIDs(1, 2, 3, 5), b.ChosenIDs())
	assert.Empty(t, surface.events)

	require.NoError(t, b.Drop(Before(3)))
	assert.Equal(t, itemIDs(2, 1, 3, 5), b.ChosenIDs())
	assert.True(t, b.Dirty())

	err := b.Drop(EndOfList)
	assert.ErrorIs(t, err, ErrNoDrag)
}

func TestBuilderDragCancelLeavesOrder(t *testing.T) {
	b, _ := newTestBuilder(t, 1, 2)

	require.NoError(t, b.DragStart(2))
	b.DragLeave()
	_, hovering := b.HoverTarget()
	assert.False(t, hovering)

	b.DragCancel()
	_, ok := b.Dragging()
	assert.False(t, ok)
	assert.ErrorIs(t, b.Drop(Before(1)), ErrNoDrag)
	assert.Equal(t, itemIDs(1, 2), b.ChosenIDs())
}

func TestBuilderDragStartRequiresChosen(t *testing.T) {
	b, _ := newTestBuilder(t, 1)
	assert.ErrorIs(t, b.DragStart(2), ErrNotChosen)
}

func TestBuilderNoopRepositionStaysClean(t *testing.T) {
	b, surface := newTestBuilder(t, 1, 2)

	require.NoError(t, b.Reposition(2, EndOfList))
	assert.False(t, b.Dirty())
	assert.Empty(t, surface.events)
}

type fakeSource struct {
	bank Bank
	fail string
}

func (f fakeSource) Items(context.Context) ([]Item, error) {
	if f.fail == "items" {
		return nil, errors.New("boom")
	}
	return f.bank.Items, nil
}

func (f fakeSource) Catalog(context.Context) (Catalog, error) {
	if f.fail == "catalog" {
		return Catalog{}, errors.New("boom")
	}
	return f.bank.Catalog, nil
}

func (f fakeSource) AnswerOptions(context.Context) ([]AnswerOption, error) {
	if f.fail == "options" {
		return nil, errors.New("boom")
	}
	return f.bank.Options, nil
}

func TestLoadBank(t *testing.T) {
	got, err := LoadBank(context.Background(), fakeSource{bank: testBank()})
	require.NoError(t, err)
	assert.Len(t, got.Items, 5)
	assert.Len(t, got.Options, 2)

	for _, stage := range []string{"items", "catalog", "options"} {
		_, err := LoadBank(context.Background(), fakeSource{bank: testBank(), fail: stage})
		assert.Error(t, err, stage)
	}
	_, err = LoadBank(context.Background(), fakeSource{fail: "catalog"})
	assert.ErrorContains(t, err, "load catalog")
}
