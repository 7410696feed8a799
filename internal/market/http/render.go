package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/pkg/marketapi"
	"github.com/northmarket/bazaar/pkg/slogx"
)

// decodeJSON parses the request body into dst and validates it. A false
// return means the error response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		marketapi.ErrInvalidRequest.WriteError(w)
		return false
	}
	if err := dst.Validate(); err != nil {
		marketapi.NewValidationError(err).WriteError(w)
		return false
	}
	return true
}

// writeServiceError translates service and store failures into the API
// error envelope. Unknown errors become 500 and are logged; expected
// outcomes are not.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		marketapi.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		marketapi.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		marketapi.ErrUsernameTaken.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		marketapi.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		marketapi.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrSelfFollow):
		marketapi.NewValidationError(err).WriteError(w)
	default:
		slogx.FromContext(ctx).Error("request failed", "err", err)
		marketapi.ErrServerError.WriteError(w)
	}
}

func profilePayload(v service.ProfileView) marketapi.Profile {
	return marketapi.Profile{
		Username:  v.User.Username,
		Bio:       v.User.Bio,
		Image:     v.User.Image,
		Following: v.Following,
	}
}

func itemPayload(v service.ItemView) marketapi.Item {
	tags := v.Item.Tags
	if tags == nil {
		tags = []string{}
	}
	return marketapi.Item{
		Slug:           v.Item.Slug,
		Title:          v.Item.Title,
		Description:    v.Item.Description,
		Body:           v.Item.Body,
		PriceCents:     v.Item.PriceCents,
		Tags:           tags,
		CreatedAt:      v.Item.CreatedAt,
		UpdatedAt:      v.Item.UpdatedAt,
		Favorited:      v.Favorited,
		FavoritesCount: v.FavoritesCount,
		Seller:         profilePayload(v.Seller),
	}
}

func itemsPayload(views []service.ItemView, total int) marketapi.ItemsResponse {
	items := make([]marketapi.Item, 0, len(views))
	for _, v := range views {
		items = append(items, itemPayload(v))
	}
	return marketapi.ItemsResponse{Items: items, ItemsCount: total}
}

func commentPayload(v service.CommentView) marketapi.Comment {
	return marketapi.Comment{
		ID:        v.Comment.ID,
		Body:      v.Comment.Body,
		CreatedAt: v.Comment.CreatedAt,
		UpdatedAt: v.Comment.UpdatedAt,
		Author:    profilePayload(v.Author),
	}
}
