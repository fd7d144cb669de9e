package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type principalKey struct{}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID   string
	Username string
	Role     string
}

// PrincipalFrom returns the caller stored by the role middleware
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequireAdminRole lets only admins through
func RequireAdminRole(repo AuthRepository) func(http.Handler) http.Handler {
	return requireRoles(repo, RoleAdmin)
}

// RequireAnyUserRole lets any signed-in user through
func RequireAnyUserRole(repo AuthRepository) func(http.Handler) http.Handler {
	return requireRoles(repo, RoleUser, RoleAdmin)
}

func requireRoles(repo AuthRepository, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				deny(w, http.StatusUnauthorized, "Bearer token required")
				return
			}

			claims, err := ParseToken(token)
			if err != nil {
				deny(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			// The stored role wins over anything the token could carry
			user, err := repo.GetUserInfo(claims.Username)
			if err != nil || user.Role == nil {
				deny(w, http.StatusUnauthorized, "Unknown user")
				return
			}
			if !hasRole(*user.Role, allowed) {
				deny(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, Principal{
				UserID:   claims.Subject,
				Username: claims.Username,
				Role:     *user.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: http.StatusText(status), Message: message})
}

func hasRole(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
