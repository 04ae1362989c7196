// Package rbac guards routes by the role of the session identity.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/nexus/pkg/response"
	"github.com/shashiranjanraj/nexus/pkg/session"
)

// HasRole allows only identities carrying one of roles. Anonymous callers
// get the same 403 as the wrong role. middleware.Authenticate must have run.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := session.FromContext(r.Context())
			if !ok || !allowed[id.Role] {
				response.Fail(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
