package api

import (
	"context"
	"strconv"

	"github.com/gravitrone/testbuilder/internal/pool"
)

var (
	_ pool.DataSource  = (*Client)(nil)
	_ pool.SaveSurface = (*Client)(nil)
)

// Items returns the whole item bank.
func (c *Client) Items(ctx context.Context) ([]pool.Item, error) {
	data, err := c.get(ctx, "/api/items")
	if err != nil {
		return nil, err
	}
	return decodeList[pool.Item](data)
}

// ItemsInCategory returns the items of one category.
func (c *Client) ItemsInCategory(ctx context.Context, category pool.CategoryID) ([]pool.Item, error) {
	path := buildQuery("/api/items", QueryParams{"category": strconv.Itoa(int(category))})
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeList[pool.Item](data)
}

// Catalog returns categories, tags, and contexts.
func (c *Client) Catalog(ctx context.Context) (pool.Catalog, error) {
	data, err := c.get(ctx, "/api/catalog")
	if err != nil {
		return pool.Catalog{}, err
	}
	catalog, err := decodeOne[pool.Catalog](data)
	if err != nil {
		return pool.Catalog{}, err
	}
	return *catalog, nil
}

// AnswerOptions returns the answer options of every item.
func (c *Client) AnswerOptions(ctx context.Context) ([]pool.AnswerOption, error) {
	data, err := c.get(ctx, "/api/options")
	if err != nil {
		return nil, err
	}
	return decodeList[pool.AnswerOption](data)
}
