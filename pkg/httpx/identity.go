package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

// Identity is resolved by an upstream gateway and forwarded in headers.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	RoleAdmin      = "admin"
)

func UserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderUserID))
}

func IsAdmin(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderUserRole)), RoleAdmin)
}

// RequireAdmin rejects requests that do not carry the admin role flag.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r) {
				Error(w, log, errors.Wrap(apperr.ErrForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
