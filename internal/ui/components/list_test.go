package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListNewList(t *testing.T) {
	list := NewList(10)
	assert.Equal(t, 10, list.PageSize)
	assert.Equal(t, 0, list.Cursor)
	assert.Equal(t, 0, list.Offset)
	assert.Equal(t, 0, list.Len)

	assert.Equal(t, 1, NewList(0).PageSize)
}

func TestListDownMovement(t *testing.T) {
	list := NewList(3)
	list.SetLen(5)

	list.Down()
	assert.Equal(t, 1, list.Cursor)
	assert.Equal(t, 0, list.Offset)

	list.Down()
	assert.Equal(t, 2, list.Cursor)
	assert.Equal(t, 0, list.Offset)

	// Move down - should scroll
	list.Down()
	assert.Equal(t, 3, list.Cursor)
	assert.Equal(t, 1, list.Offset)

	list.Down()
	assert.Equal(t, 4, list.Cursor)
	assert.Equal(t, 2, list.Offset)

	// Past the end - should stay
	list.Down()
	assert.Equal(t, 4, list.Cursor)
	assert.Equal(t, 2, list.Offset)
}

func TestListUpMovement(t *testing.T) {
	list := NewList(3)
	list.SetLen(5)
	list.Cursor = 4
	list.Offset = 2

	list.Up()
	assert.Equal(t, 3, list.Cursor)
	assert.Equal(t, 2, list.Offset)

	list.Up()
	assert.Equal(t, 2, list.Cursor)
	assert.Equal(t, 2, list.Offset)

	list.Up()
	assert.Equal(t, 1, list.Cursor)
	assert.Equal(t, 1, list.Offset)

	list.Up()
	list.Up()
	assert.Equal(t, 0, list.Cursor)
	assert.Equal(t, 0, list.Offset)
}

func TestListSetLenKeepsCursorWhenPossible(t *testing.T) {
	list := NewList(3)
	list.SetLen(10)
	list.Select(6)
	assert.Equal(t, 6, list.Cursor)
	assert.Equal(t, 4, list.Offset)

	list.SetLen(8)
	assert.Equal(t, 6, list.Cursor)

	// Shrinking below the cursor clamps it onto the last row.
	list.SetLen(4)
	assert.Equal(t, 3, list.Cursor)
	assert.Equal(t, 1, list.Offset)

	list.SetLen(0)
	assert.Equal(t, 0, list.Cursor)
	assert.Equal(t, 0, list.Offset)
	assert.False(t, list.IsSelected(0))
}

func TestListWindow(t *testing.T) {
	list := NewList(3)
	list.SetLen(5)

	start, end := list.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)

	list.Select(4)
	start, end = list.Window()
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)

	list.SetLen(0)
	start, end = list.Window()
	assert.Equal(t, start, end)
}

func TestListSelectOutOfRange(t *testing.T) {
	list := NewList(3)
	list.SetLen(2)

	assert.False(t, list.Select(-1))
	assert.False(t, list.Select(2))
	assert.True(t, list.Select(1))
	assert.True(t, list.IsSelected(1))
	assert.False(t, list.IsSelected(0))
}

func TestListRowAt(t *testing.T) {
	list := NewList(3)
	list.SetLen(5)
	list.Select(4)

	abs, ok := list.RowAt(0)
	assert.True(t, ok)
	assert.Equal(t, 2, abs)

	abs, ok = list.RowAt(2)
	assert.True(t, ok)
	assert.Equal(t, 4, abs)

	_, ok = list.RowAt(3)
	assert.False(t, ok)
	_, ok = list.RowAt(-1)
	assert.False(t, ok)

	list.SetLen(1)
	_, ok = list.RowAt(1)
	assert.False(t, ok)
}

func TestListSetPageSizeRescrolls(t *testing.T) {
	list := NewList(10)
	list.SetLen(20)
	list.Select(15)
	assert.Equal(t, 6, list.Offset)

	list.SetPageSize(4)
	assert.Equal(t, 12, list.Offset)
	assert.Equal(t, 15, list.Cursor)

	list.Reset()
	assert.Equal(t, 0, list.Cursor)
	assert.Equal(t, 0, list.Offset)
}
