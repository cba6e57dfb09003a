package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gravitrone/testbuilder/internal/pool"
)

// The legacy web builder kept its bank in two JSON documents: a question
// list and a catalog of tags, categories, contexts, and answer options.

type legacyItem struct {
	ID         int      `json:"frage_id"`
	CategoryID int      `json:"fragekategorie_id"`
	Text       string   `json:"frage_text"`
	ContextID  looseInt `json:"fragekontext_id"`
	Tags       []int    `json:"frage_tags"`
}

type legacyCatalog struct {
	Tags []struct {
		ID   int    `json:"tagid"`
		Name string `json:"tagname"`
	} `json:"fragetags"`
	Categories []struct {
		ID   int    `json:"kategorieid"`
		Name string `json:"kategoriename"`
	} `json:"fragekategorie"`
	Contexts []struct {
		ID     int    `json:"fragekontext_id"`
		Source string `json:"fragekontext_quelle"`
	} `json:"fragekontext"`
	Options []struct {
		ItemID   int         `json:"frage_id"`
		OptionID looseString `json:"option_id"`
		Text     string      `json:"option_text"`
		Correct  bool        `json:"option_correct"`
	} `json:"antwortoption"`
}

// looseInt accepts a number, a numeric string, or a placeholder such as
// "nichts" or null, which all but the first two decode as absent.
type looseInt struct {
	Value int
	Valid bool
}

func (l *looseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = looseInt{}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := strconv.Atoi(n.String())
		if err != nil {
			return fmt.Errorf("context id %s: %w", n, err)
		}
		*l = looseInt{Value: v, Valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("context id %s: not a number or string", data)
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		*l = looseInt{Value: v, Valid: true}
		return nil
	}
	*l = looseInt{}
	return nil
}

// looseString accepts either a string or a number.
type looseString string

func (l *looseString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = looseString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("option id %s: not a number or string", data)
	}
	*l = looseString(n.String())
	return nil
}

// DecodeLegacy reads the legacy question list and catalog into a bank.
func DecodeLegacy(items, catalog io.Reader) (pool.Bank, error) {
	var rawItems []legacyItem
	if err := json.NewDecoder(items).Decode(&rawItems); err != nil {
		return pool.Bank{}, fmt.Errorf("decode items: %w", err)
	}
	var rawCatalog legacyCatalog
	if err := json.NewDecoder(catalog).Decode(&rawCatalog); err != nil {
		return pool.Bank{}, fmt.Errorf("decode catalog: %w", err)
	}

	var bank pool.Bank
	for _, c := range rawCatalog.Categories {
		bank.Catalog.Categories = append(bank.Catalog.Categories, pool.Category{ID: pool.CategoryID(c.ID), Name: c.Name})
	}
	for _, t := range rawCatalog.Tags {
		bank.Catalog.Tags = append(bank.Catalog.Tags, pool.Tag{ID: pool.TagID(t.ID), Name: t.Name})
	}
	for _, c := range rawCatalog.Contexts {
		bank.Catalog.Contexts = append(bank.Catalog.Contexts, pool.Context{ID: pool.ContextID(c.ID), Source: c.Source})
	}
	for _, o := range rawCatalog.Options {
		bank.Options = append(bank.Options, pool.AnswerOption{
			ItemID:   pool.ItemID(o.ItemID),
			OptionID: string(o.OptionID),
			Text:     o.Text,
			Correct:  o.Correct,
		})
	}

	seen := make(map[int]bool, len(rawItems))
	for _, raw := range rawItems {
		if seen[raw.ID] {
			return pool.Bank{}, fmt.Errorf("%w: %d", pool.ErrDuplicateItem, raw.ID)
		}
		seen[raw.ID] = true

		it := pool.Item{
			ID:         pool.ItemID(raw.ID),
			CategoryID: pool.CategoryID(raw.CategoryID),
			Text:       raw.Text,
			Tags:       []pool.TagID{},
		}
		if raw.ContextID.Valid {
			c := pool.ContextID(raw.ContextID.Value)
			it.ContextID = &c
		}
		for _, t := range raw.Tags {
			it.Tags = append(it.Tags, pool.TagID(t))
		}
		bank.Items = append(bank.Items, it)
	}
	return bank, nil
}
