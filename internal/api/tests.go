package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gravitrone/testbuilder/internal/pool"
)

// SaveTest stores ids as a new test in the given order.
func (c *Client) SaveTest(ctx context.Context, title string, ids []pool.ItemID) (pool.SavedTest, error) {
	if ids == nil {
		ids = []pool.ItemID{}
	}
	data, err := c.post(ctx, "/api/tests", SaveTestInput{Title: title, ItemIDs: ids})
	if err != nil {
		return pool.SavedTest{}, fmt.Errorf("save test: %w", err)
	}
	saved, err := decodeOne[pool.SavedTest](data)
	if err != nil {
		return pool.SavedTest{}, err
	}
	return *saved, nil
}

// ListTests returns saved tests, newest first.
func (c *Client) ListTests(ctx context.Context) ([]pool.SavedTest, error) {
	data, err := c.get(ctx, "/api/tests")
	if err != nil {
		return nil, err
	}
	return decodeList[pool.SavedTest](data)
}

// GetTest returns one saved test.
func (c *Client) GetTest(ctx context.Context, id string) (*pool.SavedTest, error) {
	data, err := c.get(ctx, "/api/tests/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decodeOne[pool.SavedTest](data)
}
