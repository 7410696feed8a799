package service

import (
	"context"
	"errors"
	"time"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/pkg/cryptox"
	"github.com/northmarket/bazaar/pkg/idx"
	"github.com/northmarket/bazaar/pkg/slogx"
)

// UserService handles registration, login and account maintenance.
type UserService struct {
	Store store.Store
}

// RegisterParams are the inputs for a new account. Validation of shape
// (lengths, email format) happens at the boundary; uniqueness here.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// Register creates a new account with a freshly salted password hash.
// Username and email collisions map to distinct errors so the client can
// point at the offending field.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	log := slogx.FromContext(ctx)

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		PasswordSalt: salt,
		PasswordHash: cryptox.HashPassword(salt, p.Password),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Pre-checks pick the field to blame; the unique indexes remain
		// the authority inside the transaction.
		if _, err := tx.Users().GetUserByUsername(ctx, p.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByEmail(ctx, p.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Authenticate verifies an email and password pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if !cryptox.VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdateUserParams carries a partial account update. Nil fields keep their
// current value.
type UpdateUserParams struct {
	Username *string
	Email    *string
	Password *string
	Bio      *string
	Image    *string
}

// Update applies a partial update to the actor's own account. A password
// change re-salts; the old hash is never reused.
func (s *UserService) Update(ctx context.Context, userID string, p UpdateUserParams) (domain.User, error) {
	var updated domain.User

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		if p.Username != nil && *p.Username != u.Username {
			if _, err := tx.Users().GetUserByUsername(ctx, *p.Username); err == nil {
				return ErrUsernameTaken
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			u.Username = *p.Username
		}
		if p.Email != nil && *p.Email != u.Email {
			if _, err := tx.Users().GetUserByEmail(ctx, *p.Email); err == nil {
				return ErrEmailTaken
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			u.Email = *p.Email
		}
		if p.Bio != nil {
			u.Bio = *p.Bio
		}
		if p.Image != nil {
			u.Image = *p.Image
		}

		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}

		if p.Password != nil {
			salt, err := cryptox.GenerateSalt()
			if err != nil {
				return err
			}
			hash := cryptox.HashPassword(salt, *p.Password)
			if err := tx.Users().UpdatePassword(ctx, u.ID, salt, hash); err != nil {
				return err
			}
			u.PasswordSalt = salt
			u.PasswordHash = hash
		}

		updated = u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	return updated, nil
}

// Delete removes the actor's own account. Items, comments, favorites and
// follow relationships cascade at the storage layer.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.Store.Users().DeleteUser(ctx, userID)
}
