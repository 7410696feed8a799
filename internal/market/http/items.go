package http

import (
	"net/http"
	"strconv"

	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/pkg/httpx"
	"github.com/northmarket/bazaar/pkg/marketapi"
)

type ItemsHandler struct {
	ItemService *service.ItemService
}

func (h *ItemsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	f := store.ItemFilter{
		Tag:         q.Get("tag"),
		Seller:      q.Get("seller"),
		FavoritedBy: q.Get("favorited"),
		Limit:       intQuery(q.Get("limit")),
		Offset:      intQuery(q.Get("offset")),
	}

	views, total, err := h.ItemService.List(ctx, f, principalFrom(ctx))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, itemsPayload(views, total))
}

func (h *ItemsHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	views, total, err := h.ItemService.Feed(ctx, *principalFrom(ctx),
		intQuery(q.Get("limit")), intQuery(q.Get("offset")))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, itemsPayload(views, total))
}

func (h *ItemsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := h.ItemService.Get(ctx, r.PathValue("slug"), principalFrom(ctx))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, marketapi.ItemResponse{Item: itemPayload(v)})
}

func (h *ItemsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req marketapi.CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.ItemService.Create(ctx, *principalFrom(ctx), service.CreateItemParams{
		Title:       req.Item.Title,
		Description: req.Item.Description,
		Body:        req.Item.Body,
		PriceCents:  req.Item.PriceCents,
		Tags:        req.Item.Tags,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, marketapi.ItemResponse{Item: itemPayload(v)})
}

func (h *ItemsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req marketapi.UpdateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.ItemService.Update(ctx, *principalFrom(ctx), r.PathValue("slug"), service.UpdateItemParams{
		Title:       req.Item.Title,
		Description: req.Item.Description,
		Body:        req.Item.Body,
		PriceCents:  req.Item.PriceCents,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, marketapi.ItemResponse{Item: itemPayload(v)})
}

func (h *ItemsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ItemService.Delete(ctx, *principalFrom(ctx), r.PathValue("slug")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemsHandler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := h.ItemService.Favorite(ctx, *principalFrom(ctx), r.PathValue("slug"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, marketapi.ItemResponse{Item: itemPayload(v)})
}

func (h *ItemsHandler) HandleUnfavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := h.ItemService.Unfavorite(ctx, *principalFrom(ctx), r.PathValue("slug"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, marketapi.ItemResponse{Item: itemPayload(v)})
}

// intQuery parses a pagination parameter; malformed or negative values fall
// back to zero and get the service defaults.
func intQuery(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
