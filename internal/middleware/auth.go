package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/session"
)

// unexported, collision-proof context key
type operatorContextKeyType struct{}

var operatorKey = operatorContextKeyType{}

// OperatorFromContext extracts the authenticated operator name.
func OperatorFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(operatorKey).(string)
	return name, ok
}

type AuthMiddleware struct {
	Store session.Store
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store}
}

// RequireOperator rejects requests without a live operator session.
// Admin endpoints return no data at all on failure, just the 401.
func (a *AuthMiddleware) RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sessionID := cookie.Value

		sess, err := a.Store.Get(r.Context(), sessionID)
		if err != nil || sess == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if time.Now().After(sess.ExpiresAt) {
			_ = a.Store.Delete(r.Context(), sessionID)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), operatorKey, sess.Operator)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
