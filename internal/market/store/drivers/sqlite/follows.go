package sqlite

import (
	"context"
	"time"
)

type followsRepo struct {
	db dbtx
}

func (r *followsRepo) AddFollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, ?)`,
		followerID, followeeID, time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *followsRepo) RemoveFollow(ctx context.Context, followerID, followeeID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *followsRepo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID,
	).Scan(&count)
	return count > 0, err
}
