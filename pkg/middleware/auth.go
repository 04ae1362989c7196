package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/nexus/pkg/logger"
	"github.com/shashiranjanraj/nexus/pkg/response"
	"github.com/shashiranjanraj/nexus/pkg/session"
)

// SessionHeader carries the opaque session token.
const SessionHeader = "X-Session-Id"

// Authenticate resolves the X-Session-Id token against store and, when it
// is live, stores the identity in the request context. Requests without a
// valid token pass through anonymously; use RequireAuth or rbac.HasRole to
// guard a route.
func Authenticate(store session.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(SessionHeader))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, ok, err := store.Resolve(r.Context(), token)
			if err != nil {
				logger.WithCtx(r.Context()).Error("session lookup failed", "error", err)
				response.Fail(w, http.StatusInternalServerError, "An error occurred")
				return
			}
			if ok {
				r = r.WithContext(session.WithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests with 401 and msg.
//
//	api.Get("/orders", "orders.index", oc.Index, middleware.RequireAuth("Please login to view orders"))
func RequireAuth(msg string) func(http.Handler) http.Handler {
	if msg == "" {
		msg = "Please login to continue"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.FromContext(r.Context()); !ok {
				response.Fail(w, http.StatusUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
