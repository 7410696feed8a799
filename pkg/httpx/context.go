package httpx

type ctxKey string

// CtxKeyUserID carries the authenticated user's id, set by the auth
// middleware. Rate limiting keys off it for per-user limits.
const CtxKeyUserID ctxKey = "user_id"
