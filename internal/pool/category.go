package pool

import (
	"fmt"
	"strings"
)

// Buckets maps every known category to its items in ascending id order.
type Buckets map[CategoryID][]Item

// CategoryIndex groups Available into fixed category buckets.
type CategoryIndex struct {
	categories []Category
	known      map[CategoryID]bool
}

// NewCategoryIndex creates an index over the given categories. An empty list
// falls back to DefaultCategories.
func NewCategoryIndex(categories []Category) *CategoryIndex {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	idx := &CategoryIndex{
		categories: append([]Category(nil), categories...),
		known:      make(map[CategoryID]bool, len(categories)),
	}
	for _, c := range categories {
		idx.known[c.ID] = true
	}
	return idx
}

// Categories returns the known categories in catalog order.
func (x *CategoryIndex) Categories() []Category {
	return append([]Category(nil), x.categories...)
}

// Known reports whether id has a bucket.
func (x *CategoryIndex) Known(id CategoryID) bool {
	return x.known[id]
}

// Recompute sorts a copy of items by id and groups it by category. Every
// known category gets a bucket, possibly empty. Items in unknown categories
// are reported, never dropped silently.
func (x *CategoryIndex) Recompute(items []Item) (Buckets, error) {
	sorted := append([]Item(nil), items...)
	SortByID(sorted)

	buckets := make(Buckets, len(x.categories))
	for _, c := range x.categories {
		buckets[c.ID] = []Item{}
	}

	var orphans []string
	for _, it := range sorted {
		if !x.known[it.CategoryID] {
			orphans = append(orphans, fmt.Sprintf("%d (category %d)", it.ID, it.CategoryID))
			continue
		}
		buckets[it.CategoryID] = append(buckets[it.CategoryID], it)
	}
	if len(orphans) > 0 {
		return buckets, fmt.Errorf("%w: items %s", ErrUnknownCategory, strings.Join(orphans, ", "))
	}
	return buckets, nil
}

// Count tallies items per known category. Unknown categories are ignored.
func (x *CategoryIndex) Count(items []Item) map[CategoryID]int {
	counts := make(map[CategoryID]int, len(x.categories))
	for _, c := range x.categories {
		counts[c.ID] = 0
	}
	for _, it := range items {
		if x.known[it.CategoryID] {
			counts[it.CategoryID]++
		}
	}
	return counts
}
