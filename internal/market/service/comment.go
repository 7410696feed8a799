package service

import (
	"context"
	"time"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/pkg/idx"
)

// CommentService manages comments on items.
type CommentService struct {
	Store store.Store
}

// CommentView pairs a comment with its author's profile as seen by the
// viewer.
type CommentView struct {
	Comment domain.Comment
	Author  ProfileView
}

// Add attaches a new comment by author to the item named by slug.
func (s *CommentService) Add(ctx context.Context, author domain.User, slug, body string) (CommentView, error) {
	item, err := s.Store.Items().GetItemBySlug(ctx, slug)
	if err != nil {
		return CommentView{}, err
	}

	now := time.Now().UTC()
	c := domain.Comment{
		ID:        idx.New().String(),
		ItemID:    item.ID,
		AuthorID:  author.ID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Comments().CreateComment(ctx, c); err != nil {
		return CommentView{}, err
	}

	return CommentView{Comment: c, Author: ProfileView{User: author}}, nil
}

// List returns all comments on the item named by slug, newest first.
// viewer may be nil.
func (s *CommentService) List(ctx context.Context, slug string, viewer *domain.User) ([]CommentView, error) {
	item, err := s.Store.Items().GetItemBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.Store.Comments().ListItemComments(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	// Comment lists are short and authors repeat; one lookup per distinct
	// author.
	authors := make(map[string]ProfileView)
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.AuthorID]
		if !ok {
			u, err := s.Store.Users().GetUserByID(ctx, c.AuthorID)
			if err != nil {
				return nil, err
			}
			author = ProfileView{User: u}
			if viewer != nil && viewer.ID != u.ID {
				author.Following, err = s.Store.Follows().IsFollowing(ctx, viewer.ID, u.ID)
				if err != nil {
					return nil, err
				}
			}
			authors[c.AuthorID] = author
		}
		views = append(views, CommentView{Comment: c, Author: author})
	}
	return views, nil
}

// Delete removes a comment the actor wrote. The comment must belong to the
// item named by slug.
func (s *CommentService) Delete(ctx context.Context, actor domain.User, slug, commentID string) error {
	item, err := s.Store.Items().GetItemBySlug(ctx, slug)
	if err != nil {
		return err
	}

	c, err := s.Store.Comments().GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.ItemID != item.ID {
		return store.ErrNotFound
	}
	if !c.OwnedBy(actor) {
		return ErrForbidden
	}

	return s.Store.Comments().DeleteComment(ctx, c.ID)
}
