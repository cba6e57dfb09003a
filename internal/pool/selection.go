package pool

// PoolID names one of the two pools.
type PoolID int

const (
	Available PoolID = iota
	Chosen
	poolCount
)

func (p PoolID) String() string {
	switch p {
	case Available:
		return "available"
	case Chosen:
		return "chosen"
	}
	return "unknown"
}

// Modifier describes how a click was made.
type Modifier int

const (
	// ModNone is a plain click: toggle.
	ModNone Modifier = iota
	// ModRange is a shift-click: toggle plus fill from the anchor.
	ModRange
	// ModInfo is an alt-click: open the info panel, never mark.
	ModInfo
)

// MarkResult reports what a Mark call did.
type MarkResult struct {
	Marked bool     // clicked item is marked afterwards
	Filled []ItemID // items added by range fill, in visual order
	Info   bool     // info request; nothing was mutated
}

type anchor struct {
	pool PoolID
	id   ItemID
	set  bool
}

// SelectionModel tracks marked items per pool and the range anchor.
type SelectionModel struct {
	marks  [poolCount]map[ItemID]struct{}
	anchor anchor
}

// NewSelectionModel returns an empty selection.
func NewSelectionModel() *SelectionModel {
	s := &SelectionModel{}
	for p := range s.marks {
		s.marks[p] = make(map[ItemID]struct{})
	}
	return s
}

// Mark applies a click on id within pool p. order is the pool's current
// visual order and is only consulted for range fills.
func (s *SelectionModel) Mark(p PoolID, id ItemID, order []ItemID, mod Modifier) MarkResult {
	if mod == ModInfo {
		return MarkResult{Marked: s.IsMarked(p, id), Info: true}
	}

	marked := s.toggle(p, id)
	res := MarkResult{Marked: marked}

	if mod == ModRange {
		res.Filled = s.fill(p, id, order)
	}

	if marked {
		s.anchor = anchor{pool: p, id: id, set: true}
	}
	return res
}

func (s *SelectionModel) toggle(p PoolID, id ItemID) bool {
	if _, ok := s.marks[p][id]; ok {
		delete(s.marks[p], id)
		return false
	}
	s.marks[p][id] = struct{}{}
	return true
}

// fill marks every item strictly between the anchor and id. It is a no-op
// when the anchor is missing, lives in the other pool, is stale, or is id.
func (s *SelectionModel) fill(p PoolID, id ItemID, order []ItemID) []ItemID {
	if !s.anchor.set || s.anchor.pool != p || s.anchor.id == id {
		return nil
	}
	from, to := -1, -1
	for i, v := range order {
		switch v {
		case s.anchor.id:
			from = i
		case id:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return nil
	}
	if from > to {
		from, to = to, from
	}

	var filled []ItemID
	for _, v := range order[from+1 : to] {
		if _, ok := s.marks[p][v]; ok {
			continue
		}
		s.marks[p][v] = struct{}{}
		filled = append(filled, v)
	}
	return filled
}

// IsMarked reports whether id is marked in p.
func (s *SelectionModel) IsMarked(p PoolID, id ItemID) bool {
	_, ok := s.marks[p][id]
	return ok
}

// Count returns the number of marked items in p.
func (s *SelectionModel) Count(p PoolID) int {
	return len(s.marks[p])
}

// Marked returns the marked ids of p in the given order. Ids not present in
// order are omitted.
func (s *SelectionModel) Marked(p PoolID, order []ItemID) []ItemID {
	out := make([]ItemID, 0, len(s.marks[p]))
	for _, id := range order {
		if _, ok := s.marks[p][id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Unmark drops ids from the mark set of p. The anchor is not touched.
func (s *SelectionModel) Unmark(p PoolID, ids ...ItemID) {
	for _, id := range ids {
		delete(s.marks[p], id)
	}
}

// Clear empties the mark set of p. The anchor is left as is; a stale anchor
// degrades range marking to a plain toggle.
func (s *SelectionModel) Clear(p PoolID) {
	s.marks[p] = make(map[ItemID]struct{})
}

// Anchor returns the current anchor.
func (s *SelectionModel) Anchor() (PoolID, ItemID, bool) {
	return s.anchor.pool, s.anchor.id, s.anchor.set
}

func (s *SelectionModel) markSet(p PoolID) map[ItemID]struct{} {
	return s.marks[p]
}
