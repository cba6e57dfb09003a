package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionPlainToggleSetsAnchor(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 2, 3)

	res := s.Mark(Available, 2, order, ModNone)
	assert.True(t, res.Marked)
	assert.True(t, s.IsMarked(Available, 2))

	p, id, ok := s.Anchor()
	assert.True(t, ok)
	assert.Equal(t, Available, p)
	assert.Equal(t, ItemID(2), id)

	// Unmarking keeps the anchor where it was.
	s.Mark(Available, 3, order, ModNone)
	res = s.Mark(Available, 3, order, ModNone)
	assert.False(t, res.Marked)
	_, id, _ = s.Anchor()
	assert.Equal(t, ItemID(3), id)
}

func TestSelectionRangeFillsBetweenAnchorAndClicked(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 3, 5, 7, 9)

	s.Mark(Available, 3, order, ModNone)
	res := s.Mark(Available, 7, order, ModRange)

	assert.True(t, res.Marked)
	assert.Equal(t, itemIDs(5), res.Filled)
	assert.Equal(t, itemIDs(3, 5, 7), s.Marked(Available, order))

	_, id, _ := s.Anchor()
	assert.Equal(t, ItemID(7), id)
}

func TestSelectionRangeBackwards(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 3, 5, 7, 9)

	s.Mark(Available, 9, order, ModNone)
	s.Mark(Available, 3, order, ModRange)

	assert.Equal(t, itemIDs(3, 5, 7, 9), s.Marked(Available, order))
}

func TestSelectionRangeNeverUnmarksBetween(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 2, 3, 4)

	s.Mark(Available, 2, order, ModNone)
	s.Mark(Available, 1, order, ModNone)
	res := s.Mark(Available, 4, order, ModRange)

	assert.Equal(t, itemIDs(3), res.Filled)
	assert.Equal(t, itemIDs(1, 2, 3, 4), s.Marked(Available, order))
}

func TestSelectionRangeTogglesOffAlreadyMarkedClicked(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 2, 3, 4)

	s.Mark(Available, 4, order, ModNone)
	s.Mark(Available, 1, order, ModNone)
	res := s.Mark(Available, 4, order, ModRange)

	assert.False(t, res.Marked)
	assert.Equal(t, itemIDs(1, 2, 3), s.Marked(Available, order))
	_, id, _ := s.Anchor()
	assert.Equal(t, ItemID(1), id)
}

func TestSelectionRangeWithoutAnchorIsPlainToggle(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 2, 3)

	res := s.Mark(Available, 3, order, ModRange)
	assert.True(t, res.Marked)
	assert.Empty(t, res.Filled)
	assert.Equal(t, itemIDs(3), s.Marked(Available, order))
}

func TestSelectionRangeWithAnchorInOtherPoolIsPlainToggle(t *testing.T) {
	s := NewSelectionModel()
	avail := itemIDs(1, 2, 3, 4)
	chosen := itemIDs(10, 11, 12)

	s.Mark(Chosen, 10, chosen, ModNone)
	s.Mark(Available, 4, avail, ModRange)

	assert.Equal(t, itemIDs(4), s.Marked(Available, avail))
	assert.Equal(t, itemIDs(10), s.Marked(Chosen, chosen))
}

func TestSelectionRangeOnAnchorOnlyToggles(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 2, 3)

	s.Mark(Available, 2, order, ModNone)
	res := s.Mark(Available, 2, order, ModRange)
	assert.False(t, res.Marked)
	assert.Empty(t, res.Filled)
	assert.Equal(t, 0, s.Count(Available))
}

func TestSelectionRangeWithStaleAnchorIsPlainToggle(t *testing.T) {
	s := NewSelectionModel()
	s.Mark(Available, 2, itemIDs(1, 2, 3), ModNone)
	s.Clear(Available)

	// Anchor 2 is gone from the visual order.
	order := itemIDs(1, 3, 4, 5)
	s.Mark(Available, 5, order, ModRange)
	assert.Equal(t, itemIDs(5), s.Marked(Available, order))
}

func TestSelectionInfoNeverMutates(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 2)

	s.Mark(Available, 1, order, ModNone)
	res := s.Mark(Available, 2, order, ModInfo)

	assert.True(t, res.Info)
	assert.False(t, res.Marked)
	assert.Equal(t, itemIDs(1), s.Marked(Available, order))
	_, id, _ := s.Anchor()
	assert.Equal(t, ItemID(1), id)
}

func TestSelectionPoolsAreIndependent(t *testing.T) {
	s := NewSelectionModel()
	s.Mark(Available, 1, itemIDs(1), ModNone)
	s.Mark(Chosen, 1, itemIDs(1), ModNone)
	s.Clear(Chosen)

	assert.True(t, s.IsMarked(Available, 1))
	assert.False(t, s.IsMarked(Chosen, 1))
	assert.Equal(t, 1, s.Count(Available))
	assert.Equal(t, 0, s.Count(Chosen))
}

func TestSelectionMarkedFollowsGivenOrder(t *testing.T) {
	s := NewSelectionModel()
	order := itemIDs(1, 2, 3, 4, 5)
	s.Mark(Available, 4, order, ModNone)
	s.Mark(Available, 2, order, ModNone)

	assert.Equal(t, itemIDs(2, 4), s.Marked(Available, order))
	assert.Equal(t, itemIDs(4), s.Marked(Available, itemIDs(4, 5)))
}
