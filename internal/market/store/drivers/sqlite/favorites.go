package sqlite

import (
	"context"
	"time"
)

type favoritesRepo struct {
	db dbtx
}

func (r *favoritesRepo) AddFavorite(ctx context.Context, userID, itemID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, item_id, created_at) VALUES (?, ?, ?)`,
		userID, itemID, time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *favoritesRepo) RemoveFavorite(ctx context.Context, userID, itemID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *favoritesRepo) IsFavorited(ctx context.Context, userID, itemID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND item_id = ?`,
		userID, itemID,
	).Scan(&count)
	return count > 0, err
}

func (r *favoritesRepo) CountFavorites(ctx context.Context, itemID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE item_id = ?`, itemID,
	).Scan(&count)
	return count, err
}
