package idempotency

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/dmehra2102/storefront/pkg/apperr"
	"github.com/dmehra2102/storefront/pkg/httpx"
)

const Header = "Idempotency-Key"

type Checker interface {
	Key(scope, key string) string
	Seen(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Middleware rejects a repeated Idempotency-Key with 409. Requests without the
// header pass through. A key is released again when the request fails without
// side effects, so the client may retry it. Checker errors are logged and the
// request proceeds unguarded.
func Middleware(log *slog.Logger, checker Checker, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(Header))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			key := checker.Key(scope+":"+httpx.UserID(r), raw)

			seen, err := checker.Seen(ctx, key)
			if err != nil {
				log.Warn("idempotency check failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				httpx.Error(w, log, errors.Wrapf(apperr.ErrConflict, "idempotency key %q already used", raw))
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if retryable(ww.Status()) {
				if err := checker.Release(context.WithoutCancel(ctx), key); err != nil {
					log.Warn("idempotency release failed", "key", key, "err", err)
				}
			}
		})
	}
}

// retryable reports whether a response left no order behind. A 503 carries a
// created but unsaved order and keeps its key.
func retryable(status int) bool {
	return status >= http.StatusBadRequest && status != http.StatusServiceUnavailable
}
