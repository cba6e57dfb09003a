package ui

import "github.com/gravitrone/testbuilder/internal/pool"

// paneSurface is the RenderSurface of the builder screen: it keeps the rows
// last published for each pane and the open info panel. View reads only
// from here, never from the pools directly.
type paneSurface struct {
	rows [2][]pool.Item
	info *pool.InfoPanel
}

var _ pool.RenderSurface = (*paneSurface)(nil)

func newPaneSurface() *paneSurface {
	return &paneSurface{}
}

func (s *paneSurface) PoolChanged(p pool.PoolID, items []pool.Item) {
	if p != pool.Available && p != pool.Chosen {
		return
	}
	s.rows[p] = append([]pool.Item(nil), items...)
}

func (s *paneSurface) InfoOpened(panel pool.InfoPanel) {
	s.info = &panel
}

func (s *paneSurface) InfoClosed() {
	s.info = nil
}

// Rows returns the published rows of pane p.
func (s *paneSurface) Rows(p pool.PoolID) []pool.Item {
	return s.rows[p]
}

// At returns the item on row i of pane p.
func (s *paneSurface) At(p pool.PoolID, i int) (pool.Item, bool) {
	rows := s.rows[p]
	if i < 0 || i >= len(rows) {
		return pool.Item{}, false
	}
	return rows[i], true
}

// IndexOf returns the row of id in pane p, or -1.
func (s *paneSurface) IndexOf(p pool.PoolID, id pool.ItemID) int {
	for i, it := range s.rows[p] {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Info returns the open info panel.
func (s *paneSurface) Info() (pool.InfoPanel, bool) {
	if s.info == nil {
		return pool.InfoPanel{}, false
	}
	return *s.info, true
}
