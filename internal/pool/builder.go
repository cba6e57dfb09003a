package pool

import (
	"context"
	"fmt"
	"slices"
)

// Bank is everything a DataSource provides for one session.
type Bank struct {
	Items   []Item
	Catalog Catalog
	Options []AnswerOption
}

// LoadBank reads a full bank from src.
func LoadBank(ctx context.Context, src DataSource) (Bank, error) {
	items, err := src.Items(ctx)
	if err != nil {
		return Bank{}, fmt.Errorf("load items: %w", err)
	}
	catalog, err := src.Catalog(ctx)
	if err != nil {
		return Bank{}, fmt.Errorf("load catalog: %w", err)
	}
	options, err := src.AnswerOptions(ctx)
	if err != nil {
		return Bank{}, fmt.Errorf("load answer options: %w", err)
	}
	return Bank{Items: items, Catalog: catalog, Options: options}, nil
}

// InfoPanel is the read-only detail view opened by an info click.
type InfoPanel struct {
	Item    Item
	Options []AnswerOption
	Tags    []Tag
	Context *Context
}

// ClickTarget classifies what a click landed on, for closing the info panel.
type ClickTarget int

const (
	TargetOutside ClickTarget = iota
	TargetItem
	TargetPanel
)

type dragState struct {
	active   bool
	moved    ItemID
	hover    TargetRef
	hovering bool
}

// Builder is the single controller behind the test builder screen. It owns
// both pools, the selection, the info panel, and the drag state. It is not
// safe for concurrent use; all calls come from one event loop.
type Builder struct {
	pools   *PoolManager
	sel     *SelectionModel
	index   *CategoryIndex
	catalog Catalog
	options map[ItemID][]AnswerOption
	surface RenderSurface

	info     *InfoPanel
	drag     dragState
	category CategoryID
	context  *ContextID
	dirty    bool
}

// NewBuilder loads bank into a fresh builder. chosen restores a saved test
// order and may be empty. surface may be nil.
func NewBuilder(bank Bank, chosen []ItemID, surface RenderSurface) (*Builder, error) {
	catalog := bank.Catalog
	if len(catalog.Categories) == 0 {
		catalog.Categories = DefaultCategories
	}
	index := NewCategoryIndex(catalog.Categories)
	pools, err := NewPoolManager(bank.Items, chosen, index)
	if err != nil {
		return nil, err
	}

	options := make(map[ItemID][]AnswerOption)
	for _, o := range bank.Options {
		options[o.ItemID] = append(options[o.ItemID], o)
	}

	b := &Builder{
		pools:    pools,
		sel:      NewSelectionModel(),
		index:    index,
		catalog:  catalog,
		options:  options,
		surface:  surface,
		category: catalog.Categories[0].ID,
	}
	b.notifyPools()
	return b, nil
}

// --- Views ---

// Catalog returns the lookup tables in use.
func (b *Builder) Catalog() Catalog { return b.catalog }

// Categories returns the known categories.
func (b *Builder) Categories() []Category { return b.index.Categories() }

// Category returns the category shown in the Available pane.
func (b *Builder) Category() CategoryID { return b.category }

// Visible returns pool p as displayed: the current category bucket narrowed
// by the context filter for Available, the full test order for Chosen.
func (b *Builder) Visible(p PoolID) []Item {
	if p == Chosen {
		return b.pools.Chosen()
	}
	bucket := b.pools.Bucket(b.category)
	if b.context == nil {
		return bucket
	}
	out := bucket[:0]
	for _, it := range bucket {
		if it.InContext(*b.context) {
			out = append(out, it)
		}
	}
	return out
}

// VisibleIDs returns the visual order of pool p.
func (b *Builder) VisibleIDs(p PoolID) []ItemID {
	return IDs(b.Visible(p))
}

// ChosenIDs returns the test order.
func (b *Builder) ChosenIDs() []ItemID { return b.pools.ChosenIDs() }

// ChosenCounts returns Chosen tallies per category.
func (b *Builder) ChosenCounts() map[CategoryID]int { return b.pools.ChosenCounts() }

// AvailableCount returns the size of the whole Available pool.
func (b *Builder) AvailableCount() int { return len(b.pools.Available()) }

// IsMarked reports whether id is marked in p.
func (b *Builder) IsMarked(p PoolID, id ItemID) bool { return b.sel.IsMarked(p, id) }

// MarkedCount returns the number of marked items in p.
func (b *Builder) MarkedCount(p PoolID) int { return b.sel.Count(p) }

// Dirty reports whether Chosen changed since the last MarkSaved.
func (b *Builder) Dirty() bool { return b.dirty }

// MarkSaved records that the current Chosen order was persisted.
func (b *Builder) MarkSaved() { b.dirty = false }

// --- Category and context filter ---

// SetCategory switches the Available pane to category c. The pane is rebuilt,
// so Available marks are cleared.
func (b *Builder) SetCategory(c CategoryID) error {
	if !b.index.Known(c) {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, c)
	}
	if c == b.category {
		return nil
	}
	b.category = c
	b.context = nil
	b.sel.Clear(Available)
	b.notify(Available)
	return nil
}

// Contexts returns the contexts referenced by the current category bucket.
func (b *Builder) Contexts() []Context {
	seen := make(map[ContextID]bool)
	var out []Context
	for _, it := range b.pools.Bucket(b.category) {
		if it.ContextID == nil || seen[*it.ContextID] {
			continue
		}
		id := *it.ContextID
		seen[id] = true
		source, ok := b.catalog.ContextSource(id)
		if !ok {
			source = fmt.Sprintf("context %d", id)
		}
		out = append(out, Context{ID: id, Source: source})
	}
	return out
}

// ContextFilter returns the active context filter.
func (b *Builder) ContextFilter() (ContextID, bool) {
	if b.context == nil {
		return 0, false
	}
	return *b.context, true
}

// SetContextFilter narrows the Available pane to one context. Marks on items
// the filter hides are dropped so a transfer never moves invisible items.
func (b *Builder) SetContextFilter(id ContextID) {
	b.context = &id
	visible := make(map[ItemID]bool)
	for _, v := range b.VisibleIDs(Available) {
		visible[v] = true
	}
	var hidden []ItemID
	for v := range b.sel.markSet(Available) {
		if !visible[v] {
			hidden = append(hidden, v)
		}
	}
	b.sel.Unmark(Available, hidden...)
	b.notify(Available)
}

// ClearContextFilter shows the whole category bucket again.
func (b *Builder) ClearContextFilter() {
	if b.context == nil {
		return
	}
	b.context = nil
	b.notify(Available)
}

// --- Gestures ---

// Click handles a click on item id in pool p. Any open info panel is closed
// first. Info clicks open the panel for id and never change marks.
func (b *Builder) Click(p PoolID, id ItemID, mod Modifier) (MarkResult, error) {
	b.CloseInfo()
	if !b.pools.Contains(p, id) {
		return MarkResult{}, fmt.Errorf("%w: %d not in %s", ErrUnknownItem, id, p)
	}
	res := b.sel.Mark(p, id, b.VisibleIDs(p), mod)
	if res.Info {
		b.openInfo(id)
	}
	return res, nil
}

// ClickOutside closes the info panel unless the click hit the panel itself
// or an item.
func (b *Builder) ClickOutside(target ClickTarget) {
	if target == TargetOutside {
		b.CloseInfo()
	}
}

// Info returns the open info panel.
func (b *Builder) Info() (InfoPanel, bool) {
	if b.info == nil {
		return InfoPanel{}, false
	}
	return *b.info, true
}

// CloseInfo closes the info panel if one is open.
func (b *Builder) CloseInfo() {
	if b.info == nil {
		return
	}
	b.info = nil
	if b.surface != nil {
		b.surface.InfoClosed()
	}
}

func (b *Builder) openInfo(id ItemID) {
	it, _, _ := b.pools.Lookup(id)
	panel := InfoPanel{
		Item:    it,
		Options: append([]AnswerOption(nil), b.options[id]...),
	}
	for _, t := range it.Tags {
		panel.Tags = append(panel.Tags, Tag{ID: t, Name: b.catalog.TagName(t)})
	}
	if it.ContextID != nil {
		if source, ok := b.catalog.ContextSource(*it.ContextID); ok {
			panel.Context = &Context{ID: *it.ContextID, Source: source}
		}
	}
	b.info = &panel
	if b.surface != nil {
		b.surface.InfoOpened(panel)
	}
}

// TransferToChosen moves the marked Available items to the end of the test.
func (b *Builder) TransferToChosen() ([]ItemID, error) {
	moved, err := b.pools.TransferToChosen(b.sel)
	if len(moved) > 0 {
		b.dirty = true
		b.notifyPools()
	}
	return moved, err
}

// TransferToAvailable returns the marked Chosen items to the pool.
func (b *Builder) TransferToAvailable() ([]ItemID, error) {
	moved, err := b.pools.TransferToAvailable(b.sel)
	if len(moved) > 0 {
		b.dirty = true
		b.notifyPools()
	}
	return moved, err
}

// Reposition moves a Chosen item immediately before target.
func (b *Builder) Reposition(moved ItemID, target TargetRef) error {
	before := b.pools.ChosenIDs()
	if err := b.pools.Reposition(moved, target); err != nil {
		return err
	}
	if !slices.Equal(before, b.pools.ChosenIDs()) {
		b.dirty = true
		b.notify(Chosen)
	}
	return nil
}

// --- Drag and drop ---
//
// Only Drop mutates the pools. Start, over, enter and leave record the
// hover target for visual feedback and nothing else.

// DragStart begins dragging a Chosen item.
func (b *Builder) DragStart(id ItemID) error {
	if !b.pools.Contains(Chosen, id) {
		return fmt.Errorf("%w: %d", ErrNotChosen, id)
	}
	b.drag = dragState{active: true, moved: id}
	return nil
}

// DragOver records the current hover target.
func (b *Builder) DragOver(target TargetRef) {
	if b.drag.active {
		b.drag.hover = target
		b.drag.hovering = true
	}
}

// DragEnter records a new hover target.
func (b *Builder) DragEnter(target TargetRef) { b.DragOver(target) }

// DragLeave clears the hover target.
func (b *Builder) DragLeave() {
	b.drag.hovering = false
	b.drag.hover = TargetRef{}
}

// DragCancel abandons the drag without changes.
func (b *Builder) DragCancel() { b.drag = dragState{} }

// Dragging returns the dragged id while a drag is active.
func (b *Builder) Dragging() (ItemID, bool) {
	return b.drag.moved, b.drag.active
}

// HoverTarget returns where the dragged item would land right now.
func (b *Builder) HoverTarget() (TargetRef, bool) {
	if !b.drag.active || !b.drag.hovering {
		return TargetRef{}, false
	}
	return b.drag.hover, true
}

// Drop ends the drag and repositions the dragged item before target.
func (b *Builder) Drop(target TargetRef) error {
	if !b.drag.active {
		return ErrNoDrag
	}
	moved := b.drag.moved
	b.drag = dragState{}
	return b.Reposition(moved, target)
}

// --- Surface notifications ---

func (b *Builder) notify(p PoolID) {
	if b.surface != nil {
		b.surface.PoolChanged(p, b.Visible(p))
	}
}

func (b *Builder) notifyPools() {
	b.notify(Available)
	b.notify(Chosen)
}
