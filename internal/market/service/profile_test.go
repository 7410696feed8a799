package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northmarket/bazaar/internal/market/store"
)

func TestGetProfile(t *testing.T) {
	st := newTestStore(t)
	svc := &ProfileService{Store: st}
	mustRegister(t, st, "alice")
	bob := mustRegister(t, st, "bob")

	v, err := svc.Get(context.Background(), "alice", nil)
	require.NoError(t, err)
	require.Equal(t, "alice", v.User.Username)
	require.False(t, v.Following)

	_, err = svc.Follow(context.Background(), bob, "alice")
	require.NoError(t, err)

	v, err = svc.Get(context.Background(), "alice", &bob)
	require.NoError(t, err)
	require.True(t, v.Following)

	_, err = svc.Get(context.Background(), "nobody", nil)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFollowSelfRejected(t *testing.T) {
	st := newTestStore(t)
	svc := &ProfileService{Store: st}
	alice := mustRegister(t, st, "alice")

	_, err := svc.Follow(context.Background(), alice, "alice")
	require.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowIdempotent(t *testing.T) {
	st := newTestStore(t)
	svc := &ProfileService{Store: st}
	mustRegister(t, st, "alice")
	bob := mustRegister(t, st, "bob")

	for range 2 {
		v, err := svc.Follow(context.Background(), bob, "alice")
		require.NoError(t, err)
		require.True(t, v.Following)
	}

	for range 2 {
		v, err := svc.Unfollow(context.Background(), bob, "alice")
		require.NoError(t, err)
		require.False(t, v.Following)
	}
}
