package api

import (
	"context"
	"fmt"
	"net/url"
)

// ListMeetupPoints returns every hand-off location, sorted by name.
func (c *Client) ListMeetupPoints(ctx context.Context) ([]MeetupPoint, error) {
	var resp []MeetupPoint
	if err := c.get(ctx, "/api/meetup-points", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateReport files a new report as the current user.
//
//	created, err := client.CreateReport(ctx, api.CreateReportRequest{
//	    Title:         "Blue umbrella",
//	    Description:   "Left in room 204",
//	    Image:         dataURI,
//	    MeetupPointID: 3,
//	})
func (c *Client) CreateReport(ctx context.Context, req CreateReportRequest) (*CreateReportResponse, error) {
	var resp CreateReportResponse
	if err := c.post(ctx, "/api/reports", true, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListReports returns all reports, newest first.
func (c *Client) ListReports(ctx context.Context) ([]Report, error) {
	var resp []Report
	if err := c.get(ctx, "/api/reports", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetReport returns a single report.
func (c *Client) GetReport(ctx context.Context, reportID int) (*Report, error) {
	var resp Report
	if err := c.get(ctx, fmt.Sprintf("/api/reports/%d", reportID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchReports returns reports whose title or description contains query.
func (c *Client) SearchReports(ctx context.Context, query string) ([]Report, error) {
	params := url.Values{}
	params.Set("q", query)

	var resp []Report
	if err := c.get(ctx, "/api/reports/search", params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
