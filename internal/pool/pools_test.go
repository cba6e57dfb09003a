package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, items []Item, chosen ...int) *PoolManager {
	t.Helper()
	m, err := NewPoolManager(items, itemIDs(chosen...), NewCategoryIndex(nil))
	require.NoError(t, err)
	return m
}

// assertPartition checks that both pools together hold every id exactly once.
func assertPartition(t *testing.T, m *PoolManager, ids ...int) {
	t.Helper()
	seen := make(map[ItemID]int)
	for _, it := range m.Available() {
		seen[it.ID]++
	}
	for _, it := range m.Chosen() {
		seen[it.ID]++
	}
	assert.Len(t, seen, len(ids))
	for _, id := range ids {
		assert.Equal(t, 1, seen[ItemID(id)], "item %d", id)
	}
	assert.Equal(t, len(ids), m.Size())
}

func TestNewPoolManagerRestoresChosenOrder(t *testing.T) {
	m := newManager(t, bank(1, 2, 3, 4, 5), 4, 2)

	assert.Equal(t, itemIDs(4, 2), m.ChosenIDs())
	assert.Equal(t, itemIDs(1, 3, 5), IDs(m.Available()))
	assertPartition(t, m, 1, 2, 3, 4, 5)
}

func TestNewPoolManagerRejectsBadInput(t *testing.T) {
	idx := NewCategoryIndex(nil)

	_, err := NewPoolManager(bank(1, 2, 2), nil, idx)
	assert.ErrorIs(t, err, ErrDuplicateItem)

	_, err = NewPoolManager(bank(1, 2), itemIDs(3), idx)
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, err = NewPoolManager(bank(1, 2), itemIDs(1, 1), idx)
	assert.ErrorIs(t, err, ErrDuplicateItem)
}

func TestTransferToChosenKeepsStoredOrder(t *testing.T) {
	m := newManager(t, bank(1, 2, 3, 4, 5))
	sel := NewSelectionModel()
	order := IDs(m.Available())

	// Mark 4 first, then 2: stored order wins over click order.
	sel.Mark(Available, 4, order, ModNone)
	sel.Mark(Available, 2, order, ModNone)

	moved, err := m.TransferToChosen(sel)
	require.NoError(t, err)

	assert.Equal(t, itemIDs(2, 4), moved)
	assert.Equal(t, itemIDs(2, 4), m.ChosenIDs())
	assert.Equal(t, itemIDs(1, 3, 5), IDs(m.Available()))
	assert.Equal(t, 0, sel.Count(Available))
	assertPartition(t, m, 1, 2, 3, 4, 5)
}

func TestTransferContiguousRunMovesEveryItem(t *testing.T) {
	m := newManager(t, bank(1, 2, 3, 4, 5))
	sel := NewSelectionModel()
	order := IDs(m.Available())
	for _, id := range itemIDs(2, 3, 4) {
		sel.Mark(Available, id, order, ModNone)
	}

	moved, err := m.TransferToChosen(sel)
	require.NoError(t, err)

	assert.Len(t, moved, 3)
	assert.Equal(t, itemIDs(2, 3, 4), m.ChosenIDs())
	assert.Equal(t, itemIDs(1, 5), IDs(m.Available()))
}

func TestTransferAppendsAfterExistingChosen(t *testing.T) {
	m := newManager(t, bank(1, 2, 3, 4, 5), 5)
	sel := NewSelectionModel()
	sel.Mark(Available, 1, IDs(m.Available()), ModNone)

	_, err := m.TransferToChosen(sel)
	require.NoError(t, err)
	assert.Equal(t, itemIDs(5, 1), m.ChosenIDs())
}

func TestTransferToAvailableRestoresAscendingOrder(t *testing.T) {
	m := newManager(t, bank(1, 2, 3, 4, 5), 4, 2)
	sel := NewSelectionModel()
	order := m.ChosenIDs()
	sel.Mark(Chosen, 4, order, ModNone)
	sel.Mark(Chosen, 2, order, ModNone)

	moved, err := m.TransferToAvailable(sel)
	require.NoError(t, err)

	assert.Equal(t, itemIDs(4, 2), moved)
	assert.Empty(t, m.ChosenIDs())
	assert.Equal(t, itemIDs(1, 2, 3, 4, 5), IDs(m.Available()))
	assert.Equal(t, itemIDs(1, 2, 3, 4, 5), IDs(m.Bucket(1)))
	assertPartition(t, m, 1, 2, 3, 4, 5)
}

func TestTransferWithNothingMarkedIsNoop(t *testing.T) {
	m := newManager(t, bank(1, 2, 3), 2)
	sel := NewSelectionModel()
	sel.Mark(Chosen, 2, m.ChosenIDs(), ModNone)

	moved, err := m.TransferToChosen(sel)
	require.NoError(t, err)
	assert.Empty(t, moved)
	assert.Equal(t, itemIDs(2), m.ChosenIDs())

	// Chosen marks are untouched by an Available transfer.
	assert.True(t, sel.IsMarked(Chosen, 2))
}

func TestTransferKeepsBucketsInSync(t *testing.T) {
	items := []Item{
		{ID: 1, CategoryID: 1},
		{ID: 2, CategoryID: 2},
		{ID: 3, CategoryID: 2},
		{ID: 4, CategoryID: 3},
	}
	m := newManager(t, items)
	sel := NewSelectionModel()
	sel.Mark(Available, 2, IDs(m.Bucket(2)), ModNone)

	_, err := m.TransferToChosen(sel)
	require.NoError(t, err)

	assert.Equal(t, itemIDs(3), IDs(m.Bucket(2)))
	assert.Equal(t, itemIDs(1), IDs(m.Bucket(1)))
	assert.Equal(t, map[CategoryID]int{1: 0, 2: 1, 3: 0, 4: 0}, m.ChosenCounts())
}

func TestRandomTransfersPreservePartition(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	m := newManager(t, bank(ids...))
	sel := NewSelectionModel()

	steps := []struct {
		pool PoolID
		mark []int
	}{
		{Available, []int{8, 1, 5}},
		{Chosen, []int{5}},
		{Available, []int{2, 3, 4}},
		{Chosen, []int{1, 3}},
		{Available, []int{1, 3, 5, 6, 7}},
	}
	for _, step := range steps {
		order := IDs(m.Pool(step.pool))
		for _, id := range step.mark {
			sel.Mark(step.pool, ItemID(id), order, ModNone)
		}
		var err error
		if step.pool == Available {
			_, err = m.TransferToChosen(sel)
		} else {
			_, err = m.TransferToAvailable(sel)
		}
		require.NoError(t, err)
		assertPartition(t, m, ids...)
		assert.IsIncreasing(t, IDs(m.Available()))
	}

	assert.Equal(t, itemIDs(8, 2, 4, 1, 3, 5, 6, 7), m.ChosenIDs())
}

func TestManagerRepositionErrors(t *testing.T) {
	m := newManager(t, bank(1, 2, 3), 1, 2)

	err := m.Reposition(3, EndOfList)
	assert.ErrorIs(t, err, ErrNotChosen)

	err = m.Reposition(1, Before(3))
	assert.ErrorIs(t, err, ErrUnknownTarget)
	assert.Equal(t, itemIDs(1, 2), m.ChosenIDs())
}

func TestLookupFindsBothPools(t *testing.T) {
	m := newManager(t, bank(1, 2), 2)

	_, p, ok := m.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, Available, p)

	_, p, ok = m.Lookup(2)
	assert.True(t, ok)
	assert.Equal(t, Chosen, p)

	_, _, ok = m.Lookup(9)
	assert.False(t, ok)
}
