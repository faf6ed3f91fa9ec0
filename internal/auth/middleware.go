package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
)

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// RequireRole accepts requests carrying a valid bearer token whose role is
// one of roles. The principal is stored in the request context.
func RequireRole(secret []byte, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				deny(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			p, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, p.Role) {
				deny(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
