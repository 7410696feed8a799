package sqlite

import "context"

type tagsRepo struct {
	db dbtx
}

func (r *tagsRepo) ReplaceItemTags(ctx context.Context, itemID string, tags []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM item_tags WHERE item_id = ?`, itemID); err != nil {
		return err
	}

	for _, tag := range tags {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO item_tags (item_id, tag) VALUES (?, ?)`,
			itemID, tag); err != nil {
			return err
		}
	}
	return nil
}

func (r *tagsRepo) ListTags(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT tag FROM item_tags ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
