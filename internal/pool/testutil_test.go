package pool

func ctxID(id int) *ContextID {
	c := ContextID(id)
	return &c
}

// bank builds items with the given ids, all in category 1.
func bank(ids ...int) []Item {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{ID: ItemID(id), CategoryID: 1, Text: "q"})
	}
	return items
}

func itemIDs(ids ...int) []ItemID {
	out := make([]ItemID, 0, len(ids))
	for _, id := range ids {
		out = append(out, ItemID(id))
	}
	return out
}

type surfaceEvent struct {
	kind string
	pool PoolID
	ids  []ItemID
}

type recordingSurface struct {
	events []surfaceEvent
}

func (r *recordingSurface) PoolChanged(p PoolID, items []Item) {
	r.events = append(r.events, surfaceEvent{kind: "pool", pool: p, ids: IDs(items)})
}

func (r *recordingSurface) InfoOpened(panel InfoPanel) {
	r.events = append(r.events, surfaceEvent{kind: "info-open", ids: []ItemID{panel.Item.ID}})
}

func (r *recordingSurface) InfoClosed() {
	r.events = append(r.events, surfaceEvent{kind: "info-close"})
}

func (r *recordingSurface) kinds() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.kind)
	}
	return out
}
