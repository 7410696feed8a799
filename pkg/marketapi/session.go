package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Session is an authenticated API client. The server mints a fresh token on
// every user response; the session keeps the newest one.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token string
}

func newSession(client *Client, user User) *Session {
	return &Session{client: client, token: user.Token}
}

// Token returns the current identity token, e.g. for persisting across
// process restarts.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) setToken(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// doAuthRequest performs a JSON request carrying the session token.
func (s *Session) doAuthRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.Token())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// userResult decodes a user envelope and rolls the session token forward.
func (s *Session) userResult(resp *http.Response, expectedStatus int) (*UserResponse, error) {
	var user UserResponse
	if err := decodeResponse(resp, &user, expectedStatus); err != nil {
		return nil, err
	}
	s.setToken(user.User.Token)
	return &user, nil
}

// ============================================================================
// Account
// ============================================================================

// CurrentUser returns the account behind this session.
func (s *Session) CurrentUser(ctx context.Context) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/user", nil)
	if err != nil {
		return nil, err
	}
	return s.userResult(resp, http.StatusOK)
}

// UpdateUser applies a partial update to the account.
func (s *Session) UpdateUser(ctx context.Context, changes UserChanges) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/api/user", UpdateUserRequest{User: changes})
	if err != nil {
		return nil, err
	}
	return s.userResult(resp, http.StatusOK)
}

// DeleteUser removes the account and everything it owns.
func (s *Session) DeleteUser(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/api/user", nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil, http.StatusNoContent)
}

// ============================================================================
// Items
// ============================================================================

// CreateItem publishes a new listing.
func (s *Session) CreateItem(ctx context.Context, item NewItem) (*ItemResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/items", CreateItemRequest{Item: item})
	if err != nil {
		return nil, err
	}

	var created ItemResponse
	if err := decodeResponse(resp, &created, http.StatusCreated); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem applies a partial update to an owned listing.
func (s *Session) UpdateItem(ctx context.Context, slug string, changes ItemChanges) (*ItemResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/api/items/"+slug, UpdateItemRequest{Item: changes})
	if err != nil {
		return nil, err
	}

	var updated ItemResponse
	if err := decodeResponse(resp, &updated, http.StatusOK); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes an owned listing.
func (s *Session) DeleteItem(ctx context.Context, slug string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/api/items/"+slug, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil, http.StatusNoContent)
}

// Feed returns items from followed sellers.
func (s *Session) Feed(ctx context.Context, limit, offset int) (*ItemsResponse, error) {
	path := "/api/items/feed" + ListItemsOptions{Limit: limit, Offset: offset}.query()
	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var items ItemsResponse
	if err := decodeResponse(resp, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return &items, nil
}

// FavoriteItem marks an item as favorited.
func (s *Session) FavoriteItem(ctx context.Context, slug string) (*ItemResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/items/"+slug+"/favorite", nil)
	if err != nil {
		return nil, err
	}

	var item ItemResponse
	if err := decodeResponse(resp, &item, http.StatusOK); err != nil {
		return nil, err
	}
	return &item, nil
}

// UnfavoriteItem removes the favorite.
func (s *Session) UnfavoriteItem(ctx context.Context, slug string) (*ItemResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/api/items/"+slug+"/favorite", nil)
	if err != nil {
		return nil, err
	}

	var item ItemResponse
	if err := decodeResponse(resp, &item, http.StatusOK); err != nil {
		return nil, err
	}
	return &item, nil
}

// ============================================================================
// Profiles
// ============================================================================

// FollowProfile follows the named user.
func (s *Session) FollowProfile(ctx context.Context, username string) (*ProfileResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/profiles/"+username+"/follow", nil)
	if err != nil {
		return nil, err
	}

	var profile ProfileResponse
	if err := decodeResponse(resp, &profile, http.StatusOK); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UnfollowProfile unfollows the named user.
func (s *Session) UnfollowProfile(ctx context.Context, username string) (*ProfileResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/api/profiles/"+username+"/follow", nil)
	if err != nil {
		return nil, err
	}

	var profile ProfileResponse
	if err := decodeResponse(resp, &profile, http.StatusOK); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ============================================================================
// Comments
// ============================================================================

// AddComment attaches a comment to an item.
func (s *Session) AddComment(ctx context.Context, slug, body string) (*CommentResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/items/"+slug+"/comments",
		AddCommentRequest{Comment: NewComment{Body: body}})
	if err != nil {
		return nil, err
	}

	var comment CommentResponse
	if err := decodeResponse(resp, &comment, http.StatusCreated); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes an owned comment.
func (s *Session) DeleteComment(ctx context.Context, slug, commentID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/api/items/"+slug+"/comments/"+commentID, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil, http.StatusNoContent)
}
