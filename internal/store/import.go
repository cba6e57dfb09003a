package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gravitrone/testbuilder/internal/pool"
)

// ImportResult counts what an import wrote.
type ImportResult struct {
	Categories int
	Tags       int
	Contexts   int
	Items      int
	Options    int
}

// ImportBank upserts a whole bank in one transaction. Existing rows with the
// same ids are overwritten; item tags are replaced per imported item.
func (s *Store) ImportBank(ctx context.Context, bank pool.Bank) (ImportResult, error) {
	var res ImportResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, c := range bank.Catalog.Categories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES ($1,$2)
			ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`, int(c.ID), c.Name); err != nil {
			return res, fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
		res.Categories++
	}
	for _, t := range bank.Catalog.Tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags (id, name) VALUES ($1,$2)
			ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`, int(t.ID), t.Name); err != nil {
			return res, fmt.Errorf("upsert tag %d: %w", t.ID, err)
		}
		res.Tags++
	}
	for _, c := range bank.Catalog.Contexts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO contexts (id, source) VALUES ($1,$2)
			ON CONFLICT (id) DO UPDATE SET source=EXCLUDED.source`, int(c.ID), c.Source); err != nil {
			return res, fmt.Errorf("upsert context %d: %w", c.ID, err)
		}
		res.Contexts++
	}

	for _, it := range bank.Items {
		var contextID sql.NullInt64
		if it.ContextID != nil {
			contextID = sql.NullInt64{Int64: int64(*it.ContextID), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (id, category_id, text, context_id) VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO UPDATE SET category_id=EXCLUDED.category_id, text=EXCLUDED.text, context_id=EXCLUDED.context_id`,
			int(it.ID), int(it.CategoryID), it.Text, contextID); err != nil {
			return res, fmt.Errorf("upsert item %d: %w", it.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id=$1`, int(it.ID)); err != nil {
			return res, fmt.Errorf("clear tags of item %d: %w", it.ID, err)
		}
		for _, tag := range it.Tags {
			if _, err := tx.ExecContext(ctx, `INSERT INTO item_tags (item_id, tag_id) VALUES ($1,$2)
				ON CONFLICT (item_id, tag_id) DO NOTHING`, int(it.ID), int(tag)); err != nil {
				return res, fmt.Errorf("tag item %d: %w", it.ID, err)
			}
		}
		res.Items++
	}

	for _, o := range bank.Options {
		correct := 0
		if o.Correct {
			correct = 1
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO answer_options (item_id, option_id, text, correct) VALUES ($1,$2,$3,$4)
			ON CONFLICT (item_id, option_id) DO UPDATE SET text=EXCLUDED.text, correct=EXCLUDED.correct`,
			int(o.ItemID), o.OptionID, o.Text, correct); err != nil {
			return res, fmt.Errorf("upsert option %d/%s: %w", o.ItemID, o.OptionID, err)
		}
		res.Options++
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}
