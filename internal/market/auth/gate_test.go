package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/internal/market/store/drivers/sqlite"
	"github.com/northmarket/bazaar/pkg/idx"
	"github.com/northmarket/bazaar/pkg/tokenx"
)

func newTestGate(t *testing.T) (*Gate, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "gate.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec := &tokenx.Codec{Secret: []byte("test-secret"), Issuer: "bazaar-test"}
	return &Gate{Codec: codec, Store: st}, st
}

func seedUser(t *testing.T, st store.Store) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordSalt: "salt",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestResolveValidToken(t *testing.T) {
	gate, st := newTestGate(t)
	u := seedUser(t, st)

	token, err := gate.Codec.Encode(u.ID, time.Hour)
	require.NoError(t, err)

	for _, mode := range []Mode{ModeRequired, ModeOptional} {
		principal, err := gate.Resolve(context.Background(), Scheme+" "+token, mode)
		require.NoError(t, err)
		require.NotNil(t, principal)
		require.Equal(t, u.ID, principal.ID)
		require.Equal(t, u.Username, principal.Username)
	}
}

func TestResolveMissingHeader(t *testing.T) {
	gate, _ := newTestGate(t)

	_, err := gate.Resolve(context.Background(), "", ModeRequired)
	require.ErrorIs(t, err, ErrUnauthorized)

	principal, err := gate.Resolve(context.Background(), "", ModeOptional)
	require.NoError(t, err)
	require.Nil(t, principal)
}

func TestResolveWrongScheme(t *testing.T) {
	gate, st := newTestGate(t)
	u := seedUser(t, st)

	token, err := gate.Codec.Encode(u.ID, time.Hour)
	require.NoError(t, err)

	// A valid token under the wrong scheme counts as no credential.
	_, err = gate.Resolve(context.Background(), "Bearer "+token, ModeRequired)
	require.ErrorIs(t, err, ErrUnauthorized)

	principal, err := gate.Resolve(context.Background(), "Bearer "+token, ModeOptional)
	require.NoError(t, err)
	require.Nil(t, principal)
}

func TestResolveSchemeCaseInsensitive(t *testing.T) {
	gate, st := newTestGate(t)
	u := seedUser(t, st)

	token, err := gate.Codec.Encode(u.ID, time.Hour)
	require.NoError(t, err)

	for _, scheme := range []string{"token", "TOKEN", "ToKeN"} {
		principal, err := gate.Resolve(context.Background(), scheme+" "+token, ModeRequired)
		require.NoError(t, err)
		require.Equal(t, u.ID, principal.ID)
	}
}

func TestResolveGarbledToken(t *testing.T) {
	gate, _ := newTestGate(t)

	_, err := gate.Resolve(context.Background(), Scheme+" not.a.jwt", ModeRequired)
	require.ErrorIs(t, err, ErrUnauthorized)

	principal, err := gate.Resolve(context.Background(), Scheme+" not.a.jwt", ModeOptional)
	require.NoError(t, err)
	require.Nil(t, principal)
}

func TestResolveExpiredToken(t *testing.T) {
	gate, st := newTestGate(t)
	u := seedUser(t, st)

	token, err := gate.Codec.Encode(u.ID, -time.Minute)
	require.NoError(t, err)

	_, err = gate.Resolve(context.Background(), Scheme+" "+token, ModeRequired)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolveDeletedSubject(t *testing.T) {
	gate, st := newTestGate(t)
	u := seedUser(t, st)

	token, err := gate.Codec.Encode(u.ID, time.Hour)
	require.NoError(t, err)

	// The token outlives the account; it must stop resolving.
	require.NoError(t, st.Users().DeleteUser(context.Background(), u.ID))

	_, err = gate.Resolve(context.Background(), Scheme+" "+token, ModeRequired)
	require.ErrorIs(t, err, ErrUnauthorized)

	principal, err := gate.Resolve(context.Background(), Scheme+" "+token, ModeOptional)
	require.NoError(t, err)
	require.Nil(t, principal)
}

func TestResolveStoreFailurePropagates(t *testing.T) {
	gate, st := newTestGate(t)
	u := seedUser(t, st)

	token, err := gate.Codec.Encode(u.ID, time.Hour)
	require.NoError(t, err)

	// Closing the database turns the lookup into an I/O failure, which is
	// not an authentication outcome in either mode.
	require.NoError(t, st.Close())

	_, err = gate.Resolve(context.Background(), Scheme+" "+token, ModeRequired)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnauthorized)

	_, err = gate.Resolve(context.Background(), Scheme+" "+token, ModeOptional)
	require.Error(t, err)
}

func TestResolveExtraHeaderParts(t *testing.T) {
	gate, st := newTestGate(t)
	u := seedUser(t, st)

	token, err := gate.Codec.Encode(u.ID, time.Hour)
	require.NoError(t, err)

	_, err = gate.Resolve(context.Background(), Scheme+" "+token+" trailing", ModeRequired)
	require.ErrorIs(t, err, ErrUnauthorized)
}
