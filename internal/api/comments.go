package api

import (
	"context"
	"fmt"
)

// ListComments returns the comments on a report, oldest first.
func (c *Client) ListComments(ctx context.Context, reportID int) ([]Comment, error) {
	var resp []Comment
	if err := c.get(ctx, fmt.Sprintf("/api/reports/%d/comments", reportID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AddComment posts a comment on a report as the current user.
func (c *Client) AddComment(ctx context.Context, reportID int, req AddCommentRequest) (*AddCommentResponse, error) {
	var resp AddCommentResponse
	if err := c.post(ctx, fmt.Sprintf("/api/reports/%d/comments", reportID), true, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
