package components

// List tracks a cursor and a scroll window over Len rows. The rows
// themselves live with the caller.
type List struct {
	Len      int
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list with the given page size.
func NewList(pageSize int) *List {
	if pageSize < 1 {
		pageSize = 1
	}
	return &List{PageSize: pageSize}
}

// SetLen changes the row count and keeps the cursor on the same index when
// it still exists.
func (l *List) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	l.Len = n
	if l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	l.clampOffset()
}

// Reset moves the cursor back to the top.
func (l *List) Reset() {
	l.Cursor = 0
	l.Offset = 0
}

// SetPageSize changes how many rows fit on screen.
func (l *List) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	l.PageSize = n
	l.clampOffset()
}

// Down moves the cursor down.
func (l *List) Down() {
	if l.Cursor < l.Len-1 {
		l.Cursor++
		if l.Cursor >= l.Offset+l.PageSize {
			l.Offset++
		}
	}
}

// Up moves the cursor up.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		if l.Cursor < l.Offset {
			l.Offset--
		}
	}
}

// Select moves the cursor to abs and scrolls it into view.
func (l *List) Select(abs int) bool {
	if abs < 0 || abs >= l.Len {
		return false
	}
	l.Cursor = abs
	l.clampOffset()
	return true
}

// Window returns the half-open range of visible rows.
func (l *List) Window() (int, int) {
	end := l.Offset + l.PageSize
	if end > l.Len {
		end = l.Len
	}
	if l.Offset > end {
		return end, end
	}
	return l.Offset, end
}

// IsSelected returns true if the given absolute index is the cursor.
func (l *List) IsSelected(absIdx int) bool {
	return l.Len > 0 && absIdx == l.Cursor
}

// RelToAbs converts a relative (visible) index to absolute.
func (l *List) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}

// RowAt maps a visible row to its absolute index.
func (l *List) RowAt(relIdx int) (int, bool) {
	if relIdx < 0 || relIdx >= l.PageSize {
		return 0, false
	}
	abs := l.RelToAbs(relIdx)
	if abs >= l.Len {
		return 0, false
	}
	return abs, true
}

func (l *List) clampOffset() {
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
	if maxOffset := l.Len - l.PageSize; l.Offset > maxOffset {
		l.Offset = maxOffset
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}
