package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/internal/market/store/drivers/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func mustRegister(t *testing.T, st store.Store, username string) domain.User {
	t.Helper()

	svc := &UserService{Store: st}
	u, err := svc.Register(context.Background(), RegisterParams{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return u
}

func mustCreateItem(t *testing.T, st store.Store, seller domain.User, title string, tags ...string) ItemView {
	t.Helper()

	svc := &ItemService{Store: st}
	v, err := svc.Create(context.Background(), seller, CreateItemParams{
		Title:       title,
		Description: "a fine " + title,
		Body:        "details about " + title,
		PriceCents:  1500,
		Tags:        tags,
	})
	require.NoError(t, err)
	return v
}

func strptr(s string) *string { return &s }
