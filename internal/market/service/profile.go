package service

import (
	"context"
	"errors"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/store"
)

// ProfileService exposes public user profiles and the follow relationship.
type ProfileService struct {
	Store store.Store
}

// ProfileView is a user seen through a viewer's eyes. Following is always
// false for anonymous viewers.
type ProfileView struct {
	User      domain.User
	Following bool
}

// Get returns the profile named by username. viewer may be nil.
func (s *ProfileService) Get(ctx context.Context, username string, viewer *domain.User) (ProfileView, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return ProfileView{}, err
	}
	return s.view(ctx, u, viewer)
}

// Follow makes the actor follow the named user. Following someone already
// followed is a no-op, not an error.
func (s *ProfileService) Follow(ctx context.Context, actor domain.User, username string) (ProfileView, error) {
	target, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return ProfileView{}, err
	}
	if target.ID == actor.ID {
		return ProfileView{}, ErrSelfFollow
	}

	err = s.Store.Follows().AddFollow(ctx, actor.ID, target.ID)
	if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return ProfileView{}, err
	}

	return ProfileView{User: target, Following: true}, nil
}

// Unfollow removes the relationship. Unfollowing someone not followed is a
// no-op, not an error.
func (s *ProfileService) Unfollow(ctx context.Context, actor domain.User, username string) (ProfileView, error) {
	target, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return ProfileView{}, err
	}

	err = s.Store.Follows().RemoveFollow(ctx, actor.ID, target.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return ProfileView{}, err
	}

	return ProfileView{User: target, Following: false}, nil
}

func (s *ProfileService) view(ctx context.Context, u domain.User, viewer *domain.User) (ProfileView, error) {
	v := ProfileView{User: u}
	if viewer == nil || viewer.ID == u.ID {
		return v, nil
	}

	following, err := s.Store.Follows().IsFollowing(ctx, viewer.ID, u.ID)
	if err != nil {
		return ProfileView{}, err
	}
	v.Following = following
	return v, nil
}
