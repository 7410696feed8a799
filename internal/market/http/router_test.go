package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/internal/market/store/drivers/sqlite"
	"github.com/northmarket/bazaar/pkg/marketapi"
	"github.com/northmarket/bazaar/pkg/tokenx"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec := &tokenx.Codec{Secret: []byte("test-secret"), Issuer: "bazaar-test"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(codec, time.Hour, "test", st, logger)
	router.UserService = &service.UserService{Store: st}
	router.ProfileService = &service.ProfileService{Store: st}
	router.ItemService = &service.ItemService{Store: st}
	router.CommentService = &service.CommentService{Store: st}
	router.TagService = &service.TagService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// do sends a JSON request and decodes the response body into out (when out
// is non-nil).
func do(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func register(t *testing.T, srv *httptest.Server, username string) marketapi.User {
	t.Helper()

	var got marketapi.UserResponse
	resp := do(t, srv, http.MethodPost, "/api/users", "", marketapi.RegisterRequest{
		User: marketapi.NewUser{
			Username: username,
			Email:    username + "@example.com",
			Password: "correct horse battery",
		},
	}, &got)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, got.User.Token)
	return got.User
}

func createItem(t *testing.T, srv *httptest.Server, token, title string, tags ...string) marketapi.Item {
	t.Helper()

	var got marketapi.ItemResponse
	resp := do(t, srv, http.MethodPost, "/api/items", token, marketapi.CreateItemRequest{
		Item: marketapi.NewItem{
			Title:       title,
			Description: "a fine " + title,
			Body:        "details about " + title,
			PriceCents:  2500,
			Tags:        tags,
		},
	}, &got)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return got.Item
}

func TestRegisterLoginAndCurrentUser(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice")

	var login marketapi.UserResponse
	resp := do(t, srv, http.MethodPost, "/api/users/login", "", marketapi.LoginRequest{
		User: marketapi.LoginUser{Email: "alice@example.com", Password: "correct horse battery"},
	}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", login.User.Username)

	var current marketapi.UserResponse
	resp = do(t, srv, http.MethodGet, "/api/user", login.User.Token, nil, &current)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", current.User.Username)

	resp = do(t, srv, http.MethodGet, "/api/user", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice")

	var apiErr marketapi.APIError
	resp := do(t, srv, http.MethodPost, "/api/users/login", "", marketapi.LoginRequest{
		User: marketapi.LoginUser{Email: "alice@example.com", Password: "not the password"},
	}, &apiErr)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, marketapi.ErrorCodeUnauthorized, apiErr.Code)
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/users", "", marketapi.RegisterRequest{
		User: marketapi.NewUser{Username: "alice", Email: "not-an-email", Password: "short"},
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterConflicts(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice")

	resp := do(t, srv, http.MethodPost, "/api/users", "", marketapi.RegisterRequest{
		User: marketapi.NewUser{
			Username: "alice",
			Email:    "different@example.com",
			Password: "correct horse battery",
		},
	}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOwnershipEnforcement(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")

	item := createItem(t, srv, alice.Token, "Vintage Camera")

	// Unauthenticated mutation fails before ownership is consulted.
	resp := do(t, srv, http.MethodPut, "/api/items/"+item.Slug, "", marketapi.UpdateItemRequest{
		Item: marketapi.ItemChanges{Body: strptr("hijacked")},
	}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Another authenticated user is rejected with 403.
	resp = do(t, srv, http.MethodPut, "/api/items/"+item.Slug, bob.Token, marketapi.UpdateItemRequest{
		Item: marketapi.ItemChanges{Body: strptr("hijacked")},
	}, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/api/items/"+item.Slug, bob.Token, nil, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner succeeds.
	var updated marketapi.ItemResponse
	resp = do(t, srv, http.MethodPut, "/api/items/"+item.Slug, alice.Token, marketapi.UpdateItemRequest{
		Item: marketapi.ItemChanges{Body: strptr("now with a fresh roll of film")},
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "now with a fresh roll of film", updated.Item.Body)
}

func TestOptionalAuthToleratesBadToken(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	createItem(t, srv, alice.Token, "Vintage Camera")

	// A garbled credential on a public route is ignored, not rejected.
	var got marketapi.ItemsResponse
	resp := do(t, srv, http.MethodGet, "/api/items", "garbage.token.here", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, got.ItemsCount)
	require.False(t, got.Items[0].Favorited)
}

func TestItemListingAndFilters(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")
	createItem(t, srv, alice.Token, "Vintage Camera", "vintage")
	createItem(t, srv, bob.Token, "Oak Table", "craft")

	var got marketapi.ItemsResponse
	resp := do(t, srv, http.MethodGet, "/api/items", "", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, got.ItemsCount)

	resp = do(t, srv, http.MethodGet, "/api/items?tag=vintage", "", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, got.ItemsCount)
	require.Equal(t, "vintage-camera", got.Items[0].Slug)

	resp = do(t, srv, http.MethodGet, "/api/items?seller=bob", "", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, got.ItemsCount)
	require.Equal(t, "bob", got.Items[0].Seller.Username)
}

func TestFavoritesAndFeed(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")
	item := createItem(t, srv, alice.Token, "Vintage Camera")

	var fav marketapi.ItemResponse
	resp := do(t, srv, http.MethodPost, "/api/items/"+item.Slug+"/favorite", bob.Token, nil, &fav)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, fav.Item.Favorited)
	require.Equal(t, 1, fav.Item.FavoritesCount)

	var got marketapi.ItemsResponse
	resp = do(t, srv, http.MethodGet, "/api/items?favorited=bob", "", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, got.ItemsCount)

	// The feed is empty until bob follows alice.
	resp = do(t, srv, http.MethodGet, "/api/items/feed", bob.Token, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, got.ItemsCount)

	resp = do(t, srv, http.MethodPost, "/api/profiles/alice/follow", bob.Token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/items/feed", bob.Token, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, got.ItemsCount)
	require.True(t, got.Items[0].Seller.Following)

	resp = do(t, srv, http.MethodGet, "/api/items/feed", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfilesAndFollowing(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice")
	bob := register(t, srv, "bob")

	var got marketapi.ProfileResponse
	resp := do(t, srv, http.MethodGet, "/api/profiles/alice", "", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, got.Profile.Following)

	resp = do(t, srv, http.MethodPost, "/api/profiles/alice/follow", bob.Token, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, got.Profile.Following)

	resp = do(t, srv, http.MethodGet, "/api/profiles/alice", bob.Token, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, got.Profile.Following)

	resp = do(t, srv, http.MethodDelete, "/api/profiles/alice/follow", bob.Token, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, got.Profile.Following)

	// Self-follow is a client error.
	resp = do(t, srv, http.MethodPost, "/api/profiles/bob/follow", bob.Token, nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/profiles/nobody", "", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommentsLifecycle(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")
	item := createItem(t, srv, alice.Token, "Vintage Camera")

	var added marketapi.CommentResponse
	resp := do(t, srv, http.MethodPost, "/api/items/"+item.Slug+"/comments", bob.Token,
		marketapi.AddCommentRequest{Comment: marketapi.NewComment{Body: "does it work?"}}, &added)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "bob", added.Comment.Author.Username)

	var list marketapi.CommentsResponse
	resp = do(t, srv, http.MethodGet, "/api/items/"+item.Slug+"/comments", "", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Comments, 1)

	// Only the author may delete.
	path := fmt.Sprintf("/api/items/%s/comments/%s", item.Slug, added.Comment.ID)
	resp = do(t, srv, http.MethodDelete, path, alice.Token, nil, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, path, bob.Token, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTags(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	createItem(t, srv, alice.Token, "Vintage Camera", "vintage", "photo")
	createItem(t, srv, alice.Token, "Oak Table", "craft")

	var got marketapi.TagsResponse
	resp := do(t, srv, http.MethodGet, "/api/tags", "", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"craft", "photo", "vintage"}, got.Tags)
}

func TestDeleteUserInvalidatesToken(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")

	resp := do(t, srv, http.MethodDelete, "/api/user", alice.Token, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The token decodes fine but its subject is gone.
	resp = do(t, srv, http.MethodGet, "/api/user", alice.Token, nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var live marketapi.HealthResponse
	resp := do(t, srv, http.MethodGet, "/livez", "", nil, &live)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", live.Status)

	var ready marketapi.HealthResponse
	resp = do(t, srv, http.MethodGet, "/readyz", "", nil, &ready)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}

func strptr(s string) *string { return &s }
