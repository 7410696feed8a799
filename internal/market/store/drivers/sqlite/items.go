package sqlite

import (
	"context"
	"time"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/store"
)

type itemsRepo struct {
	db dbtx
}

const itemColumns = `i.id, i.slug, i.title, i.description, i.body, i.price_cents, i.seller_id, i.created_at, i.updated_at`

func scanItem(row interface{ Scan(...any) error }) (domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID,
		&it.Slug,
		&it.Title,
		&it.Description,
		&it.Body,
		&it.PriceCents,
		&it.SellerID,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return domain.Item{}, mapNotFound(err)
	}
	return it, nil
}

func (r *itemsRepo) GetItemBySlug(ctx context.Context, slug string) (domain.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE i.slug = ?`, slug)
	item, err := scanItem(row)
	if err != nil {
		return domain.Item{}, err
	}
	if err := r.loadTags(ctx, &item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (r *itemsRepo) CreateItem(ctx context.Context, item domain.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (id, slug, title, description, body, price_cents, seller_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Slug, item.Title, item.Description, item.Body,
		item.PriceCents, item.SellerID, item.CreatedAt, item.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *itemsRepo) UpdateItem(ctx context.Context, item domain.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items SET slug = ?, title = ?, description = ?, body = ?, price_cents = ?, updated_at = ?
		WHERE id = ?`,
		item.Slug, item.Title, item.Description, item.Body, item.PriceCents,
		time.Now().UTC(), item.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *itemsRepo) DeleteItem(ctx context.Context, itemID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, itemID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// filterClauses builds the WHERE conditions shared by ListItems and
// CountItems.
func filterClauses(f store.ItemFilter) (string, []any) {
	where := ` WHERE 1=1`
	var args []any

	if f.Tag != "" {
		where += ` AND EXISTS (SELECT 1 FROM item_tags t WHERE t.item_id = i.id AND t.tag = ?)`
		args = append(args, f.Tag)
	}
	if f.Seller != "" {
		where += ` AND i.seller_id IN (SELECT id FROM users WHERE username = ?)`
		args = append(args, f.Seller)
	}
	if f.FavoritedBy != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM favorites fav
			JOIN users fu ON fu.id = fav.user_id
			WHERE fav.item_id = i.id AND fu.username = ?)`
		args = append(args, f.FavoritedBy)
	}

	return where, args
}

func (r *itemsRepo) ListItems(ctx context.Context, f store.ItemFilter) ([]domain.Item, error) {
	where, args := filterClauses(f)

	query := `SELECT ` + itemColumns + ` FROM items i` + where +
		` ORDER BY i.created_at DESC, i.id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	return r.queryItems(ctx, query, args...)
}

func (r *itemsRepo) CountItems(ctx context.Context, f store.ItemFilter) (int, error) {
	where, args := filterClauses(f)

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items i`+where, args...,
	).Scan(&count)
	return count, err
}

func (r *itemsRepo) ListFeed(ctx context.Context, userID string, limit, offset int) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i
		WHERE i.seller_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)
		ORDER BY i.created_at DESC, i.id DESC LIMIT ? OFFSET ?`
	return r.queryItems(ctx, query, userID, limit, offset)
}

func (r *itemsRepo) CountFeed(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM items i
		WHERE i.seller_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)`,
		userID,
	).Scan(&count)
	return count, err
}

// queryItems runs an item query and populates tags. Items are collected
// first so the tag queries never overlap an open rowset, which matters
// inside a transaction.
func (r *itemsRepo) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for idx := range items {
		if err := r.loadTags(ctx, &items[idx]); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (r *itemsRepo) loadTags(ctx context.Context, item *domain.Item) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag FROM item_tags WHERE item_id = ? ORDER BY tag`, item.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return err
		}
		tags = append(tags, tag)
	}
	item.Tags = tags
	return rows.Err()
}
