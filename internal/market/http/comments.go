package http

import (
	"net/http"

	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/pkg/httpx"
	"github.com/northmarket/bazaar/pkg/marketapi"
)

type CommentsHandler struct {
	CommentService *service.CommentService
}

func (h *CommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := h.CommentService.List(ctx, r.PathValue("slug"), principalFrom(ctx))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	comments := make([]marketapi.Comment, 0, len(views))
	for _, v := range views {
		comments = append(comments, commentPayload(v))
	}
	httpx.WriteJSON(w, http.StatusOK, marketapi.CommentsResponse{Comments: comments})
}

func (h *CommentsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req marketapi.AddCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.CommentService.Add(ctx, *principalFrom(ctx), r.PathValue("slug"), req.Comment.Body)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, marketapi.CommentResponse{Comment: commentPayload(v)})
}

func (h *CommentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.CommentService.Delete(ctx, *principalFrom(ctx), r.PathValue("slug"), r.PathValue("id"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
