package http

import (
	"net/http"
	"time"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/pkg/httpx"
	"github.com/northmarket/bazaar/pkg/marketapi"
	"github.com/northmarket/bazaar/pkg/slogx"
	"github.com/northmarket/bazaar/pkg/tokenx"
)

// UsersHandler covers registration, login and the current-user endpoints.
// Every successful response carries a freshly minted token.
type UsersHandler struct {
	UserService *service.UserService
	Codec       *tokenx.Codec
	TokenTTL    time.Duration
}

func (h *UsersHandler) userResponse(w http.ResponseWriter, status int, u domain.User) {
	token, err := h.Codec.Encode(u.ID, h.TokenTTL)
	if err != nil {
		marketapi.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, status, marketapi.UserResponse{User: marketapi.User{
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Image:    u.Image,
		Token:    token,
	}})
}

func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req marketapi.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.UserService.Register(ctx, service.RegisterParams{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.userResponse(w, http.StatusCreated, u)
}

func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req marketapi.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.UserService.Authenticate(ctx, req.User.Email, req.User.Password)
	if err != nil {
		log.Info("login rejected", "email", req.User.Email)
		writeServiceError(ctx, w, err)
		return
	}

	h.userResponse(w, http.StatusOK, u)
}

func (h *UsersHandler) HandleGetCurrent(w http.ResponseWriter, r *http.Request) {
	u := principalFrom(r.Context())
	h.userResponse(w, http.StatusOK, *u)
}

func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u := principalFrom(ctx)

	var req marketapi.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.UserService.Update(ctx, u.ID, service.UpdateUserParams{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.userResponse(w, http.StatusOK, updated)
}

func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u := principalFrom(ctx)

	if err := h.UserService.Delete(ctx, u.ID); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	slogx.FromContext(ctx).Info("user deleted", "user_id", u.ID)
	w.WriteHeader(http.StatusNoContent)
}
