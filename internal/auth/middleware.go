package auth

import (
	"net/http"
	"strings"

	"github.com/torque-erp/torque-erp/internal/platform/httpx"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// Middleware resolves bearer tokens and enforces role requirements.
type Middleware struct {
	service *Service
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(service *Service) Middleware {
	return Middleware{service: service}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Require rejects requests without a valid token and stores the resolved
// role on the request context.
func (m Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		role, err := m.service.ResolveToken(r.Context(), token)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithRole(r.Context(), role)))
	})
}

// RequireRole additionally restricts the route to a single role.
func (m Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shared.RoleFromContext(r.Context()) != role {
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
