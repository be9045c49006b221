package routing

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/logging"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// Router wraps chi.Router as the host surface of the framework: the
// dispatcher is mounted as a catch-all and framework endpoints such as
// /metrics sit next to it.
type Router struct {
	mux chi.Router
}

// New creates a Router with RealIP, request ids, zap request logging and
// panic recovery.
func New(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(logging.RequestLogger(log))
	r.Use(middleware.Recoverer)
	return &Router{mux: r}
}

// RequestID keeps an incoming X-Request-ID or assigns a fresh UUID, echoes
// it on the response and stores it where middleware.GetReqID finds it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.Handler)  { r.mux.Method(http.MethodGet, pattern, h) }
func (r *Router) Post(pattern string, h http.Handler) { r.mux.Method(http.MethodPost, pattern, h) }

// Dispatch hands every GET, HEAD and POST that no other route claims to h.
// HEAD is served like GET; net/http drops the body. Other methods answer 405.
func (r *Router) Dispatch(h http.Handler) {
	for _, pattern := range []string{"/", "/*"} {
		r.Get(pattern, h)
		r.mux.Method(http.MethodHead, pattern, h)
		r.Post(pattern, h)
	}
}

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}
