package api

import "context"

// Register creates a new account. It does not require a session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, "/api/register", false, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a bearer token. It does not require a session
// and does not store the token; persisting it is the caller's job.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/api/login", false, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
