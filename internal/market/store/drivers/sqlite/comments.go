package sqlite

import (
	"context"

	"github.com/northmarket/bazaar/internal/market/domain"
)

type commentsRepo struct {
	db dbtx
}

const commentColumns = `id, item_id, author_id, body, created_at, updated_at`

func scanComment(row interface{ Scan(...any) error }) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, item_id, author_id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ItemID, c.AuthorID, c.Body, c.CreatedAt, c.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	return scanComment(row)
}

func (r *commentsRepo) ListItemComments(ctx context.Context, itemID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE item_id = ? ORDER BY created_at DESC, id DESC`,
		itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentsRepo) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
