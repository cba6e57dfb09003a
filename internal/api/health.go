package api

import "context"

// Health calls /api/health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	data, err := c.get(ctx, "/api/health")
	if err != nil {
		return nil, err
	}
	return decodeOne[HealthStatus](data)
}
