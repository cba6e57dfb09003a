package pool

import "fmt"

// TargetRef names the drop point of a reorder: the item that will directly
// follow the moved item, or the end of the list.
type TargetRef struct {
	ID  ItemID
	End bool
}

// EndOfList drops the moved item after the last Chosen item.
var EndOfList = TargetRef{End: true}

// Before targets the slot immediately ahead of id.
func Before(id ItemID) TargetRef {
	return TargetRef{ID: id}
}

func (t TargetRef) String() string {
	if t.End {
		return "end"
	}
	return fmt.Sprintf("before %d", t.ID)
}

// Reposition returns a new sequence in which moved sits immediately before
// target. seq is not modified.
//
// The move is one remove followed by one insert. Removing the source shifts
// every later index down by one, so a target that sat after the source is
// found at targetIndex-1 in the shortened sequence.
func Reposition(seq []Item, moved ItemID, target TargetRef) ([]Item, error) {
	src := indexOf(seq, moved)
	if src < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotChosen, moved)
	}

	dst := len(seq) - 1
	if !target.End {
		ti := indexOf(seq, target.ID)
		if ti < 0 {
			return nil, fmt.Errorf("%w: %d", ErrUnknownTarget, target.ID)
		}
		dst = ti
		if ti > src {
			dst = ti - 1
		}
	}

	if dst == src {
		return append([]Item(nil), seq...), nil
	}

	item := seq[src]
	out := make([]Item, 0, len(seq))
	out = append(out, seq[:src]...)
	out = append(out, seq[src+1:]...)
	out = append(out, Item{})
	copy(out[dst+1:], out[dst:])
	out[dst] = item
	return out, nil
}
