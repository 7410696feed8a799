package http

import (
	"net/http"

	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/pkg/httpx"
	"github.com/northmarket/bazaar/pkg/marketapi"
)

type TagsHandler struct {
	TagService *service.TagService
}

func (h *TagsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tags, err := h.TagService.List(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, marketapi.TagsResponse{Tags: tags})
}
