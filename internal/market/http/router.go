package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/northmarket/bazaar/internal/market/auth"
	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/pkg/httpx"
	"github.com/northmarket/bazaar/pkg/slogx"
	"github.com/northmarket/bazaar/pkg/tokenx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	gate         *auth.Gate
	codec        *tokenx.Codec
	tokenTTL     time.Duration
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	UserService    *service.UserService
	ProfileService *service.ProfileService
	ItemService    *service.ItemService
	CommentService *service.CommentService
	TagService     *service.TagService
}

func NewRouter(
	codec *tokenx.Codec,
	tokenTTL time.Duration,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		gate:         &auth.Gate{Codec: codec, Store: st},
		codec:        codec,
		tokenTTL:     tokenTTL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerProfiles()
	r.registerItems()
	r.registerComments()
	r.registerTags()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		UserService: r.UserService,
		Codec:       r.codec,
		TokenTTL:    r.tokenTTL,
	}

	// Registration and login create sessions; strict limits by IP slow
	// down credential stuffing.
	r.Mux.Handle("POST /api/users",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/users/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /api/user",
		httpx.Chain(http.HandlerFunc(h.HandleGetCurrent),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /api/user",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/user",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProfiles() {
	h := &ProfilesHandler{ProfileService: r.ProfileService}

	r.Mux.Handle("GET /api/profiles/{username}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			optionalAuth(r.gate),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /api/profiles/{username}/follow",
		httpx.Chain(http.HandlerFunc(h.HandleFollow),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/profiles/{username}/follow",
		httpx.Chain(http.HandlerFunc(h.HandleUnfollow),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerItems() {
	h := &ItemsHandler{ItemService: r.ItemService}

	r.Mux.Handle("GET /api/items",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			optionalAuth(r.gate),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	// Registered before the {slug} pattern in spirit; the mux prefers the
	// literal segment either way.
	r.Mux.Handle("GET /api/items/feed",
		httpx.Chain(http.HandlerFunc(h.HandleFeed),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/items/{slug}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			optionalAuth(r.gate),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /api/items",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /api/items/{slug}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/items/{slug}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/items/{slug}/favorite",
		httpx.Chain(http.HandlerFunc(h.HandleFavorite),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/items/{slug}/favorite",
		httpx.Chain(http.HandlerFunc(h.HandleUnfavorite),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerComments() {
	h := &CommentsHandler{CommentService: r.CommentService}

	r.Mux.Handle("GET /api/items/{slug}/comments",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			optionalAuth(r.gate),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /api/items/{slug}/comments",
		httpx.Chain(http.HandlerFunc(h.HandleAdd),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/items/{slug}/comments/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			requireAuth(r.gate),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerTags() {
	h := &TagsHandler{TagService: r.TagService}

	r.Mux.Handle("GET /api/tags",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll these frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
