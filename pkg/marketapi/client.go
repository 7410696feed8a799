package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the marketplace API. It covers the public, unauthenticated
// surface and creates authenticated Sessions via Register or Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a marketplace API client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an unauthenticated JSON request.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeResponse decodes a JSON response into target, or returns the API
// error envelope when the status does not match.
func decodeResponse(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, bodyBytes)
	}

	if target != nil {
		if err := json.Unmarshal(bodyBytes, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// parseErrorResponse turns a failed response body into an *APIError so
// callers can inspect the code.
func parseErrorResponse(status int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = status
		return &apiErr
	}
	return &APIError{
		StatusCode:  status,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("unexpected status %d", status),
	}
}

// Register creates a new account and returns an authenticated session.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/users", RegisterRequest{
		User: NewUser{Username: username, Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeResponse(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return newSession(c, user.User), nil
}

// Login authenticates an existing account and returns a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/users/login", LoginRequest{
		User: LoginUser{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeResponse(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, user.User), nil
}

// NewSessionFromToken creates a session from a previously issued token,
// e.g. one persisted by an earlier login.
func (c *Client) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// ListItemsOptions narrows the public item listing.
type ListItemsOptions struct {
	Tag         string
	Seller      string
	FavoritedBy string
	Limit       int
	Offset      int
}

func (o ListItemsOptions) query() string {
	q := url.Values{}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.Seller != "" {
		q.Set("seller", o.Seller)
	}
	if o.FavoritedBy != "" {
		q.Set("favorited", o.FavoritedBy)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListItems returns the public item listing.
func (c *Client) ListItems(ctx context.Context, opts ListItemsOptions) (*ItemsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/items"+opts.query(), nil)
	if err != nil {
		return nil, err
	}

	var items ItemsResponse
	if err := decodeResponse(resp, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return &items, nil
}

// GetItem returns a single item by slug.
func (c *Client) GetItem(ctx context.Context, slug string) (*ItemResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/items/"+slug, nil)
	if err != nil {
		return nil, err
	}

	var item ItemResponse
	if err := decodeResponse(resp, &item, http.StatusOK); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetProfile returns a public profile by username.
func (c *Client) GetProfile(ctx context.Context, username string) (*ProfileResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/profiles/"+username, nil)
	if err != nil {
		return nil, err
	}

	var profile ProfileResponse
	if err := decodeResponse(resp, &profile, http.StatusOK); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListComments returns the comments on an item.
func (c *Client) ListComments(ctx context.Context, slug string) (*CommentsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/items/"+slug+"/comments", nil)
	if err != nil {
		return nil, err
	}

	var comments CommentsResponse
	if err := decodeResponse(resp, &comments, http.StatusOK); err != nil {
		return nil, err
	}
	return &comments, nil
}

// ListTags returns every tag in use.
func (c *Client) ListTags(ctx context.Context) (*TagsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, err
	}

	var tags TagsResponse
	if err := decodeResponse(resp, &tags, http.StatusOK); err != nil {
		return nil, err
	}
	return &tags, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeResponse(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeResponse(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
