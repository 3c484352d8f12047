package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerUserAgent     = "User-Agent"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
	defaultUserAgent    = "lostfound-go/1.0.0"
)

// request describes a single API call.
type request struct {
	method string
	path   string
	query  url.Values
	auth   bool
	body   interface{}
}

// doRequest performs an HTTP request and maps failures into the two
// coarse buckets: *TransportError and *Error.
func (c *Client) doRequest(ctx context.Context, r request, result interface{}) error {
	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	var bodyReader io.Reader
	if r.body != nil {
		bodyBytes, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set(headerUserAgent, c.userAgent)
	req.Header.Set(headerRequestID, reqID)
	if r.body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	if r.auth {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to read session token: %w", err)
		}
		// Presence is the only check; validity is for the server to judge.
		if token != "" {
			req.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			slog.String("method", r.method),
			slog.String("path", r.path),
			slog.String("request_id", reqID),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return &TransportError{Method: r.method, Path: r.path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: r.method, Path: r.path, Err: err}
	}

	c.logger.Debug("api request",
		slog.String("method", r.method),
		slog.String("path", r.path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", reqID),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, respBody)
	}

	if result != nil {
		if len(respBody) == 0 {
			return &Error{StatusCode: resp.StatusCode, Message: "empty body", decode: true}
		}
		if err := json.Unmarshal(respBody, result); err != nil {
			return &Error{StatusCode: resp.StatusCode, Message: err.Error(), decode: true}
		}
	}

	return nil
}

// get performs an authenticated GET request.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.doRequest(ctx, request{method: http.MethodGet, path: path, query: query, auth: true}, result)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, auth bool, body, result interface{}) error {
	return c.doRequest(ctx, request{method: http.MethodPost, path: path, auth: auth, body: body}, result)
}

// put performs an authenticated PUT request.
func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.doRequest(ctx, request{method: http.MethodPut, path: path, auth: true, body: body}, result)
}
