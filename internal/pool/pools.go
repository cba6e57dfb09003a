package pool

import "fmt"

// PoolManager owns the Available and Chosen sequences. Together they always
// hold every loaded item exactly once.
type PoolManager struct {
	available []Item
	chosen    []Item
	index     *CategoryIndex
	buckets   Buckets
}

// NewPoolManager places items into the pools. Ids listed in chosen start in
// Chosen in that order; everything else starts in Available.
func NewPoolManager(items []Item, chosen []ItemID, index *CategoryIndex) (*PoolManager, error) {
	byID := make(map[ItemID]Item, len(items))
	for _, it := range items {
		if _, dup := byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateItem, it.ID)
		}
		byID[it.ID] = it
	}

	m := &PoolManager{index: index}
	taken := make(map[ItemID]bool, len(chosen))
	for _, id := range chosen {
		it, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownItem, id)
		}
		if taken[id] {
			return nil, fmt.Errorf("%w: %d listed twice in chosen", ErrDuplicateItem, id)
		}
		taken[id] = true
		m.chosen = append(m.chosen, it)
	}
	for _, it := range items {
		if !taken[it.ID] {
			m.available = append(m.available, it)
		}
	}

	if err := m.recompute(); err != nil {
		return nil, err
	}
	return m, nil
}

// Available returns a copy of the Available pool in stored order.
func (m *PoolManager) Available() []Item {
	return append([]Item(nil), m.available...)
}

// Chosen returns a copy of the Chosen pool in test order.
func (m *PoolManager) Chosen() []Item {
	return append([]Item(nil), m.chosen...)
}

// ChosenIDs returns the Chosen id sequence, as handed to a SaveSurface.
func (m *PoolManager) ChosenIDs() []ItemID {
	return IDs(m.chosen)
}

// Bucket returns the Available items of one category in ascending id order.
func (m *PoolManager) Bucket(c CategoryID) []Item {
	return append([]Item(nil), m.buckets[c]...)
}

// Pool returns a copy of pool p.
func (m *PoolManager) Pool(p PoolID) []Item {
	if p == Chosen {
		return m.Chosen()
	}
	return m.Available()
}

// Contains reports whether id currently lives in pool p.
func (m *PoolManager) Contains(p PoolID, id ItemID) bool {
	if p == Chosen {
		return indexOf(m.chosen, id) >= 0
	}
	return indexOf(m.available, id) >= 0
}

// Lookup finds an item in either pool.
func (m *PoolManager) Lookup(id ItemID) (Item, PoolID, bool) {
	if i := indexOf(m.available, id); i >= 0 {
		return m.available[i], Available, true
	}
	if i := indexOf(m.chosen, id); i >= 0 {
		return m.chosen[i], Chosen, true
	}
	return Item{}, 0, false
}

// Size returns the total number of items across both pools.
func (m *PoolManager) Size() int {
	return len(m.available) + len(m.chosen)
}

// ChosenCounts tallies Chosen per category.
func (m *PoolManager) ChosenCounts() map[CategoryID]int {
	return m.index.Count(m.chosen)
}

// TransferToChosen moves the marked Available items to the end of Chosen,
// keeping their stored relative order, and clears the Available marks.
func (m *PoolManager) TransferToChosen(sel *SelectionModel) ([]ItemID, error) {
	marks := sel.markSet(Available)
	if len(marks) == 0 {
		return nil, nil
	}
	kept, moved := partition(m.available, marks)
	m.available = kept
	m.chosen = append(m.chosen, moved...)
	sel.Clear(Available)
	return IDs(moved), m.recompute()
}

// TransferToAvailable moves the marked Chosen items back. They land at their
// ascending id position once the recompute re-sorts Available.
func (m *PoolManager) TransferToAvailable(sel *SelectionModel) ([]ItemID, error) {
	marks := sel.markSet(Chosen)
	if len(marks) == 0 {
		return nil, nil
	}
	kept, moved := partition(m.chosen, marks)
	m.chosen = kept
	m.available = append(m.available, moved...)
	sel.Clear(Chosen)
	return IDs(moved), m.recompute()
}

// Reposition moves one Chosen item so it lands immediately before target.
func (m *PoolManager) Reposition(moved ItemID, target TargetRef) error {
	next, err := Reposition(m.chosen, moved, target)
	if err != nil {
		return err
	}
	m.chosen = next
	return nil
}

// recompute restores ascending id order in Available and rebuilds the
// category buckets. It is always the last step of a mutation.
func (m *PoolManager) recompute() error {
	SortByID(m.available)
	buckets, err := m.index.Recompute(m.available)
	m.buckets = buckets
	return err
}

// partition splits items into unmarked and marked subsets in one pass. The
// source slice is only read; both results are fresh slices.
func partition(items []Item, marks map[ItemID]struct{}) (kept, moved []Item) {
	kept = make([]Item, 0, len(items))
	for _, it := range items {
		if _, ok := marks[it.ID]; ok {
			moved = append(moved, it)
			continue
		}
		kept = append(kept, it)
	}
	return kept, moved
}
