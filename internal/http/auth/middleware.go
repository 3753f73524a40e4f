package auth

import (
	"net/http"
	"strings"

	"github.com/lbrossard/indivis/internal/auth"
)

// Middleware builds the two request guards: Require checks the bearer
// token; RequireWrite additionally checks the owner's role.
type Middleware struct {
	svc *auth.Service
}

func NewMiddleware(svc *auth.Service) *Middleware {
	return &Middleware{svc: svc}
}

func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		identity, err := m.svc.Verify(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

// RequireWrite rejects mutating requests from read-only owners. Safe
// methods pass through untouched.
func (m *Middleware) RequireWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		identity, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		if !identity.Role.CanWrite() {
			http.Error(w, "write access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
