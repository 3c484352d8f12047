package api

import "context"

// GetProfile returns the user the current token belongs to.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var resp User
	if err := c.get(ctx, "/api/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile changes the current user's name and, when set, picture.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UpdateProfileResponse, error) {
	var resp UpdateProfileResponse
	if err := c.put(ctx, "/api/profile", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
