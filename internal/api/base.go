package api

import "time"

// DefaultBaseURL is the item bank server started by `testbuilder serve`.
const DefaultBaseURL = "http://localhost:8000"

// NewDefaultClient builds a client pointed at the default bank server.
func NewDefaultClient(apiKey string, timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, apiKey, timeout...)
}
