package api

import "github.com/gravitrone/testbuilder/internal/pool"

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string

// HealthStatus is the payload of /api/health.
type HealthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
	Items  int    `json:"items"`
}

// SaveTestInput is the body of POST /api/tests.
type SaveTestInput struct {
	Title   string        `json:"title"`
	ItemIDs []pool.ItemID `json:"item_ids"`
}
