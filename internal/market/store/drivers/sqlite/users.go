package sqlite

import (
	"context"
	"time"

	"github.com/northmarket/bazaar/internal/market/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, email, bio, image, password_salt, password_hash, created_at, updated_at`

func (r *usersRepo) scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Bio,
		&u.Image,
		&u.PasswordSalt,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return r.scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return r.scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, bio, image, password_salt, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.Bio, u.Image, u.PasswordSalt, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET username = ?, email = ?, bio = ?, image = ?, updated_at = ?
		WHERE id = ?`,
		u.Username, u.Email, u.Bio, u.Image, time.Now().UTC(), u.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdatePassword(ctx context.Context, userID, salt, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_salt = ?, password_hash = ?, updated_at = ?
		WHERE id = ?`,
		salt, hash, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
