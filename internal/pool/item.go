package pool

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ItemID identifies a question in the item bank.
type ItemID int

// CategoryID identifies a fixed question category.
type CategoryID int

// ContextID identifies a shared source (reading passage, audio, ...) that
// several questions may refer to.
type ContextID int

// TagID identifies a free-form question tag.
type TagID int

// Item is one question. Items are immutable once loaded.
type Item struct {
	ID         ItemID     `json:"id"`
	CategoryID CategoryID `json:"category_id"`
	Text       string     `json:"text"`
	ContextID  *ContextID `json:"context_id,omitempty"`
	Tags       []TagID    `json:"tags"`
}

// InContext reports whether the item refers to the given context.
func (it Item) InContext(id ContextID) bool {
	return it.ContextID != nil && *it.ContextID == id
}

// AnswerOption is a single answer choice of an item. OptionID is the label
// shown next to the text ("A", "B", ...).
type AnswerOption struct {
	ItemID   ItemID `json:"item_id"`
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
	Correct  bool   `json:"correct"`
}

// Category is a named fixed bucket.
type Category struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

// Tag is a named item tag.
type Tag struct {
	ID   TagID  `json:"id"`
	Name string `json:"name"`
}

// Context is a named question context.
type Context struct {
	ID     ContextID `json:"id"`
	Source string    `json:"source"`
}

// Catalog carries the lookup tables that accompany an item bank.
type Catalog struct {
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
	Contexts   []Context  `json:"contexts"`
}

// DefaultCategories are used when a catalog ships no categories.
var DefaultCategories = []Category{
	{ID: 1, Name: "Language practice"},
	{ID: 2, Name: "Literature"},
	{ID: 3, Name: "Linguistics"},
	{ID: 4, Name: "Other"},
}

// CategoryName returns the display name for id, or a numeric fallback.
func (c Catalog) CategoryName(id CategoryID) string {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	return fmt.Sprintf("category %d", id)
}

// TagName returns the display name for id, or a numeric fallback.
func (c Catalog) TagName(id TagID) string {
	for _, t := range c.Tags {
		if t.ID == id {
			return t.Name
		}
	}
	return fmt.Sprintf("tag %d", id)
}

// ContextSource returns the source label for id and whether it is known.
func (c Catalog) ContextSource(id ContextID) (string, bool) {
	for _, ctx := range c.Contexts {
		if ctx.ID == id {
			return ctx.Source, true
		}
	}
	return "", false
}

// SavedTest is a persisted Chosen sequence.
type SavedTest struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ItemIDs   []ItemID  `json:"item_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// DataSource provides the item bank. Implementations perform I/O.
type DataSource interface {
	Items(ctx context.Context) ([]Item, error)
	Catalog(ctx context.Context) (Catalog, error)
	AnswerOptions(ctx context.Context) ([]AnswerOption, error)
}

// SaveSurface persists the Chosen id sequence in order.
type SaveSurface interface {
	SaveTest(ctx context.Context, title string, ids []ItemID) (SavedTest, error)
}

// RenderSurface is notified whenever displayed state changes.
type RenderSurface interface {
	PoolChanged(p PoolID, items []Item)
	InfoOpened(panel InfoPanel)
	InfoClosed()
}

// ElementID renders the stable element identifier "<kind>-<id>".
func ElementID(kind string, id ItemID) string {
	return kind + "-" + strconv.Itoa(int(id))
}

// ParseElementID splits an identifier produced by ElementID.
func ParseElementID(s string) (string, ItemID, bool) {
	idx := strings.LastIndex(s, "-")
	if idx <= 0 || idx == len(s)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return s[:idx], ItemID(n), true
}

// SortByID sorts items ascending by id in place.
func SortByID(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
}

// IDs returns the ids of items in order.
func IDs(items []Item) []ItemID {
	out := make([]ItemID, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func indexOf(items []Item, id ItemID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
