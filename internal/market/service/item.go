package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/pkg/idx"
	"github.com/northmarket/bazaar/pkg/slogx"
)

// Listing pagination bounds. Requests outside them are clamped, not
// rejected.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ItemService manages listings, their tags and favorites.
type ItemService struct {
	Store store.Store
}

// ItemView is an item seen through a viewer's eyes: favorite state is
// viewer-dependent, the count and seller profile are not.
type ItemView struct {
	Item           domain.Item
	Favorited      bool
	FavoritesCount int
	Seller         ProfileView
}

// CreateItemParams are the inputs for a new listing.
type CreateItemParams struct {
	Title       string
	Description string
	Body        string
	PriceCents  int64
	Tags        []string
}

// Create publishes a new listing owned by seller. The slug derives from
// the title; a collision gets a random suffix rather than an error.
func (s *ItemService) Create(ctx context.Context, seller domain.User, p CreateItemParams) (ItemView, error) {
	log := slogx.FromContext(ctx)

	now := time.Now().UTC()
	item := domain.Item{
		ID:          idx.New().String(),
		Slug:        slugify(p.Title),
		Title:       p.Title,
		Description: p.Description,
		Body:        p.Body,
		PriceCents:  p.PriceCents,
		SellerID:    seller.ID,
		Tags:        normalizeTags(p.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Slug == "" {
		item.Slug = slugSuffix()
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Items().CreateItem(ctx, item); err != nil {
			if !errors.Is(err, store.ErrAlreadyExists) {
				return err
			}
			// Retry once with a disambiguating suffix.
			item.Slug = item.Slug + "-" + slugSuffix()
			if err := tx.Items().CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return tx.Tags().ReplaceItemTags(ctx, item.ID, item.Tags)
	})
	if err != nil {
		return ItemView{}, err
	}

	log.Info("item created", "item_id", item.ID, "slug", item.Slug, "seller_id", seller.ID)
	return ItemView{Item: item, Seller: ProfileView{User: seller}}, nil
}

// Get returns the item named by slug. viewer may be nil.
func (s *ItemService) Get(ctx context.Context, slug string, viewer *domain.User) (ItemView, error) {
	item, err := s.Store.Items().GetItemBySlug(ctx, slug)
	if err != nil {
		return ItemView{}, err
	}
	return s.view(ctx, item, viewer)
}

// List returns items matching the filter, newest first, with the total
// match count.
func (s *ItemService) List(ctx context.Context, f store.ItemFilter, viewer *domain.User) ([]ItemView, int, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset)

	items, err := s.Store.Items().ListItems(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.Items().CountItems(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.views(ctx, items, viewer)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Feed returns items from sellers the viewer follows, newest first.
func (s *ItemService) Feed(ctx context.Context, viewer domain.User, limit, offset int) ([]ItemView, int, error) {
	limit, offset = clampPage(limit, offset)

	items, err := s.Store.Items().ListFeed(ctx, viewer.ID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.Items().CountFeed(ctx, viewer.ID)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.views(ctx, items, &viewer)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// UpdateItemParams carries a partial item update. Nil fields keep their
// current value.
type UpdateItemParams struct {
	Title       *string
	Description *string
	Body        *string
	PriceCents  *int64
}

// Update applies a partial update to an item the actor owns. A title
// change regenerates the slug.
func (s *ItemService) Update(ctx context.Context, actor domain.User, slug string, p UpdateItemParams) (ItemView, error) {
	var updated domain.Item

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		item, err := tx.Items().GetItemBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if !item.OwnedBy(actor) {
			return ErrForbidden
		}

		if p.Title != nil && *p.Title != item.Title {
			item.Title = *p.Title
			item.Slug = slugify(*p.Title)
			if item.Slug == "" {
				item.Slug = slugSuffix()
			}
		}
		if p.Description != nil {
			item.Description = *p.Description
		}
		if p.Body != nil {
			item.Body = *p.Body
		}
		if p.PriceCents != nil {
			item.PriceCents = *p.PriceCents
		}

		if err := tx.Items().UpdateItem(ctx, item); err != nil {
			if !errors.Is(err, store.ErrAlreadyExists) {
				return err
			}
			item.Slug = item.Slug + "-" + slugSuffix()
			if err := tx.Items().UpdateItem(ctx, item); err != nil {
				return err
			}
		}

		updated = item
		return nil
	})
	if err != nil {
		return ItemView{}, err
	}

	return s.view(ctx, updated, &actor)
}

// Delete removes an item the actor owns.
func (s *ItemService) Delete(ctx context.Context, actor domain.User, slug string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		item, err := tx.Items().GetItemBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if !item.OwnedBy(actor) {
			return ErrForbidden
		}
		return tx.Items().DeleteItem(ctx, item.ID)
	})
}

// Favorite marks the item as favorited by the actor. Already-favorited is
// a no-op.
func (s *ItemService) Favorite(ctx context.Context, actor domain.User, slug string) (ItemView, error) {
	item, err := s.Store.Items().GetItemBySlug(ctx, slug)
	if err != nil {
		return ItemView{}, err
	}

	err = s.Store.Favorites().AddFavorite(ctx, actor.ID, item.ID)
	if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return ItemView{}, err
	}

	return s.view(ctx, item, &actor)
}

// Unfavorite removes the actor's favorite. Not-favorited is a no-op.
func (s *ItemService) Unfavorite(ctx context.Context, actor domain.User, slug string) (ItemView, error) {
	item, err := s.Store.Items().GetItemBySlug(ctx, slug)
	if err != nil {
		return ItemView{}, err
	}

	err = s.Store.Favorites().RemoveFavorite(ctx, actor.ID, item.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return ItemView{}, err
	}

	return s.view(ctx, item, &actor)
}

func (s *ItemService) view(ctx context.Context, item domain.Item, viewer *domain.User) (ItemView, error) {
	v := ItemView{Item: item}

	seller, err := s.Store.Users().GetUserByID(ctx, item.SellerID)
	if err != nil {
		return ItemView{}, err
	}
	v.Seller = ProfileView{User: seller}

	v.FavoritesCount, err = s.Store.Favorites().CountFavorites(ctx, item.ID)
	if err != nil {
		return ItemView{}, err
	}

	if viewer != nil {
		v.Favorited, err = s.Store.Favorites().IsFavorited(ctx, viewer.ID, item.ID)
		if err != nil {
			return ItemView{}, err
		}
		if viewer.ID != seller.ID {
			v.Seller.Following, err = s.Store.Follows().IsFollowing(ctx, viewer.ID, seller.ID)
			if err != nil {
				return ItemView{}, err
			}
		}
	}

	return v, nil
}

func (s *ItemService) views(ctx context.Context, items []domain.Item, viewer *domain.User) ([]ItemView, error) {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		v, err := s.view(ctx, item, viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// normalizeTags trims, lowercases, deduplicates and sorts a tag list.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
