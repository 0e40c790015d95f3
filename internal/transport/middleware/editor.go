package middleware

import (
	"context"
	"net/http"

	"github.com/heartmarshall/zinote-backend/internal/domain"
	"github.com/heartmarshall/zinote-backend/pkg/ctxutil"
)

// CheckEditor returns domain.ErrUnauthorized for anonymous contexts and
// domain.ErrForbidden for guests. Guests may read but never mutate.
func CheckEditor(ctx context.Context) error {
	a, ok := ctxutil.ActorFromCtx(ctx)
	switch {
	case !ok:
		return domain.ErrUnauthorized
	case a.Guest:
		return domain.ErrForbidden
	}
	return nil
}

// RequireEditor rejects requests that CheckEditor refuses.
func RequireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch err := CheckEditor(r.Context()); err {
		case nil:
			next.ServeHTTP(w, r)
		case domain.ErrForbidden:
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	})
}
