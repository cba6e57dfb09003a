package pool

import "errors"

var (
	// ErrUnknownCategory means an item names a category with no bucket.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrDuplicateItem means the same item id was loaded twice.
	ErrDuplicateItem = errors.New("duplicate item")
	// ErrUnknownItem means an id is not part of the item universe.
	ErrUnknownItem = errors.New("unknown item")
	// ErrNotChosen means a reorder or drag referenced an item outside Chosen.
	ErrNotChosen = errors.New("item is not in the chosen pool")
	// ErrUnknownTarget means a drop target is not in Chosen.
	ErrUnknownTarget = errors.New("drop target is not in the chosen pool")
	// ErrNoDrag means a drop arrived without a drag in progress.
	ErrNoDrag = errors.New("no drag in progress")
)
