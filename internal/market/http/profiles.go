package http

import (
	"net/http"

	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/pkg/httpx"
	"github.com/northmarket/bazaar/pkg/marketapi"
)

type ProfilesHandler struct {
	ProfileService *service.ProfileService
}

func (h *ProfilesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := h.ProfileService.Get(ctx, r.PathValue("username"), principalFrom(ctx))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, marketapi.ProfileResponse{Profile: profilePayload(v)})
}

func (h *ProfilesHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := h.ProfileService.Follow(ctx, *principalFrom(ctx), r.PathValue("username"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, marketapi.ProfileResponse{Profile: profilePayload(v)})
}

func (h *ProfilesHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := h.ProfileService.Unfollow(ctx, *principalFrom(ctx), r.PathValue("username"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, marketapi.ProfileResponse{Profile: profilePayload(v)})
}
