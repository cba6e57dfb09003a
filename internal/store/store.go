package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gravitrone/testbuilder/internal/pool"
)

// ErrTestNotFound is returned when a saved test id does not exist.
var ErrTestNotFound = errors.New("test not found")

var (
	_ pool.DataSource  = (*Store)(nil)
	_ pool.SaveSurface = (*Store)(nil)
)

// Store keeps the item bank and saved tests in a SQL database.
type Store struct {
	db     *sql.DB
	driver Driver
	now    func() time.Time
}

// Driver returns the backend in use.
func (s *Store) Driver() Driver { return s.driver }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Items returns every item in ascending id order with its tags.
func (s *Store) Items(ctx context.Context) ([]pool.Item, error) {
	return s.queryItems(ctx, `SELECT id, category_id, text, context_id FROM items ORDER BY id`)
}

// ItemsInCategory returns the items of one category in ascending id order.
func (s *Store) ItemsInCategory(ctx context.Context, c pool.CategoryID) ([]pool.Item, error) {
	return s.queryItems(ctx, `SELECT id, category_id, text, context_id FROM items WHERE category_id=$1 ORDER BY id`, int(c))
}

// CountItems returns the size of the bank.
func (s *Store) CountItems(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]pool.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	var items []pool.Item
	index := make(map[pool.ItemID]int)
	for rows.Next() {
		var (
			it        pool.Item
			contextID sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Text, &contextID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if contextID.Valid {
			c := pool.ContextID(contextID.Int64)
			it.ContextID = &c
		}
		it.Tags = []pool.TagID{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("scan items: %w", err)
	}
	rows.Close()

	// Tags are read after the item cursor is closed; sqlite runs on one connection.
	tagRows, err := s.db.QueryContext(ctx, `SELECT item_id, tag_id FROM item_tags ORDER BY item_id, tag_id`)
	if err != nil {
		return nil, fmt.Errorf("query item tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var (
			itemID pool.ItemID
			tagID  pool.TagID
		)
		if err := tagRows.Scan(&itemID, &tagID); err != nil {
			return nil, fmt.Errorf("scan item tag: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Tags = append(items[i].Tags, tagID)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("scan item tags: %w", err)
	}
	return items, nil
}

// Catalog returns categories, tags, and contexts in id order.
func (s *Store) Catalog(ctx context.Context) (pool.Catalog, error) {
	var catalog pool.Catalog

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return catalog, fmt.Errorf("query categories: %w", err)
	}
	for rows.Next() {
		var c pool.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			rows.Close()
			return catalog, fmt.Errorf("scan category: %w", err)
		}
		catalog.Categories = append(catalog.Categories, c)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY id`)
	if err != nil {
		return catalog, fmt.Errorf("query tags: %w", err)
	}
	for rows.Next() {
		var t pool.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			rows.Close()
			return catalog, fmt.Errorf("scan tag: %w", err)
		}
		catalog.Tags = append(catalog.Tags, t)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT id, source FROM contexts ORDER BY id`)
	if err != nil {
		return catalog, fmt.Errorf("query contexts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c pool.Context
		if err := rows.Scan(&c.ID, &c.Source); err != nil {
			return catalog, fmt.Errorf("scan context: %w", err)
		}
		catalog.Contexts = append(catalog.Contexts, c)
	}
	return catalog, rows.Err()
}

// AnswerOptions returns every answer option ordered by item and label.
func (s *Store) AnswerOptions(ctx context.Context) ([]pool.AnswerOption, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id, option_id, text, correct FROM answer_options ORDER BY item_id, option_id`)
	if err != nil {
		return nil, fmt.Errorf("query answer options: %w", err)
	}
	defer rows.Close()

	var out []pool.AnswerOption
	for rows.Next() {
		var (
			o       pool.AnswerOption
			correct int
		)
		if err := rows.Scan(&o.ItemID, &o.OptionID, &o.Text, &correct); err != nil {
			return nil, fmt.Errorf("scan answer option: %w", err)
		}
		o.Correct = correct != 0
		out = append(out, o)
	}
	return out, rows.Err()
}

// SaveTest stores ids as a new test in the given order.
func (s *Store) SaveTest(ctx context.Context, title string, ids []pool.ItemID) (pool.SavedTest, error) {
	title = strings.TrimSpace(title)
	created := s.clock().UTC().Truncate(time.Millisecond)
	saved := pool.SavedTest{
		ID:        uuid.NewString(),
		Title:     title,
		ItemIDs:   append([]pool.ItemID{}, ids...),
		CreatedAt: created,
	}
	if saved.Title == "" {
		saved.Title = "Untitled test " + created.Format("2006-01-02 15:04")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pool.SavedTest{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO tests (id, title, created_at) VALUES ($1,$2,$3)`,
		saved.ID, saved.Title, created.UnixMilli()); err != nil {
		return pool.SavedTest{}, fmt.Errorf("insert test: %w", err)
	}
	for pos, id := range ids {
		if _, err := tx.ExecContext(ctx, `INSERT INTO test_items (test_id, position, item_id) VALUES ($1,$2,$3)`,
			saved.ID, pos, int(id)); err != nil {
			return pool.SavedTest{}, fmt.Errorf("insert test item %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return pool.SavedTest{}, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

// GetTest loads one saved test with its item order.
func (s *Store) GetTest(ctx context.Context, id string) (*pool.SavedTest, error) {
	var (
		t       pool.SavedTest
		created int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, title, created_at FROM tests WHERE id=$1`, id).
		Scan(&t.ID, &t.Title, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTestNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query test: %w", err)
	}
	t.CreatedAt = time.UnixMilli(created).UTC()

	ids, err := s.testItems(ctx, id)
	if err != nil {
		return nil, err
	}
	t.ItemIDs = ids
	return &t, nil
}

// ListTests returns saved tests, newest first.
func (s *Store) ListTests(ctx context.Context) ([]pool.SavedTest, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, created_at FROM tests ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	var tests []pool.SavedTest
	for rows.Next() {
		var (
			t       pool.SavedTest
			created int64
		)
		if err := rows.Scan(&t.ID, &t.Title, &created); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan test: %w", err)
		}
		t.CreatedAt = time.UnixMilli(created).UTC()
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("scan tests: %w", err)
	}
	rows.Close()

	for i := range tests {
		ids, err := s.testItems(ctx, tests[i].ID)
		if err != nil {
			return nil, err
		}
		tests[i].ItemIDs = ids
	}
	return tests, nil
}

func (s *Store) testItems(ctx context.Context, testID string) ([]pool.ItemID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id FROM test_items WHERE test_id=$1 ORDER BY position`, testID)
	if err != nil {
		return nil, fmt.Errorf("query test items: %w", err)
	}
	defer rows.Close()

	ids := []pool.ItemID{}
	for rows.Next() {
		var id pool.ItemID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan test item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
