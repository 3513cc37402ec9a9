package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/session"
)

func protectedHandler(t *testing.T, wantOperator string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator, ok := OperatorFromContext(r.Context())
		if !ok || operator != wantOperator {
			t.Errorf("operator in context = %q, %v", operator, ok)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireOperatorWithValidSession(t *testing.T) {
	store := session.NewMemoryStore()
	store.Create(context.Background(), session.Session{
		SessionID: "sid",
		Operator:  "admin",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	auth := NewAuthMiddleware(store)
	handler := auth.RequireOperator(protectedHandler(t, "admin"))

	req := httptest.NewRequest(http.MethodGet, "/admin/live", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRequireOperatorWithoutCookie(t *testing.T) {
	auth := NewAuthMiddleware(session.NewMemoryStore())
	handler := auth.RequireOperator(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/live", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireOperatorWithExpiredSession(t *testing.T) {
	store := session.NewMemoryStore()
	store.Create(context.Background(), session.Session{
		SessionID: "sid",
		Operator:  "admin",
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	auth := NewAuthMiddleware(store)
	handler := auth.RequireOperator(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run with an expired session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/live", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
