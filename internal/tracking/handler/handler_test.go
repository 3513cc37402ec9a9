package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/ledger"
	"github.com/mygitvirtual012322/instaspy/internal/tracking"

	"github.com/gin-gonic/gin"
)

type memLedger struct {
	orders []ledger.Order
}

func (m *memLedger) Append(_ context.Context, order *ledger.Order) (int, error) {
	order.ID = len(m.orders) + 1
	m.orders = append(m.orders, *order)
	return order.ID, nil
}

func (m *memLedger) UpdateStatus(context.Context, string, ledger.Status, map[string]any) error {
	return ledger.ErrNotFound
}

func (m *memLedger) All(context.Context) ([]ledger.Order, error) {
	return m.orders, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *tracking.Registry, *memLedger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := tracking.NewRegistry(nil)
	l := &memLedger{}
	h := NewHandler(registry, l, time.Minute)

	router := gin.New()
	h.RegisterRoutes(router)
	router.GET("/admin/live", h.Live)
	return router, registry, l
}

func postEvent(router *gin.Engine, body string, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/track/event", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "1.2.3.4:5555"
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTrackEventCreatesVisitor(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := postEvent(router, `{"type":"pageview","url":"/","meta":{}}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	live := httptest.NewRequest(http.MethodGet, "/admin/live", nil)
	lw := httptest.NewRecorder()
	router.ServeHTTP(lw, live)

	var resp struct {
		Count int                `json:"count"`
		Users []tracking.Visitor `json:"users"`
	}
	if err := json.Unmarshal(lw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode live view: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d", resp.Count)
	}
	if resp.Users[0].Key != "1.2.3.4" {
		t.Errorf("expected address-keyed visitor, got %q", resp.Users[0].Key)
	}
}

func TestTrackEventTokenUpgrade(t *testing.T) {
	router, _, _ := newTestRouter(t)

	postEvent(router, `{"type":"pageview","url":"/","meta":{}}`, "")
	postEvent(router, `{"type":"search","url":"/search","meta":{"searched_profile":"@x"}}`, "abc")

	live := httptest.NewRequest(http.MethodGet, "/admin/live", nil)
	lw := httptest.NewRecorder()
	router.ServeHTTP(lw, live)

	var resp struct {
		Count int                `json:"count"`
		Users []tracking.Visitor `json:"users"`
	}
	json.Unmarshal(lw.Body.Bytes(), &resp)

	if resp.Count != 1 {
		t.Fatalf("expected single merged visitor, got %d", resp.Count)
	}
	if resp.Users[0].Key != "abc" {
		t.Errorf("expected token key, got %q", resp.Users[0].Key)
	}
	if resp.Users[0].Meta["searched_profile"] != "@x" {
		t.Errorf("metadata missing: %v", resp.Users[0].Meta)
	}
}

func TestTrackEventRejectsUnknownType(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := postEvent(router, `{"type":"selfdestruct","url":"/"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestTrackEventRejectsMalformedBody(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := postEvent(router, `{not json`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPurchaseEventAppendsOrder(t *testing.T) {
	router, _, l := newTestRouter(t)

	w := postEvent(router, `{
		"type":"purchase",
		"url":"/cta",
		"meta":{"transaction_id":"T1","method":"mbway","amount":12.90}
	}`, "abc")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	if len(l.orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(l.orders))
	}
	order := l.orders[0]
	if order.TransactionID != "T1" || order.Method != "mbway" || order.Amount != 12.90 {
		t.Errorf("unexpected order: %+v", order)
	}
	if order.Status != ledger.StatusPending {
		t.Errorf("status = %s, want PENDING", order.Status)
	}
}

func TestPurchaseEventWithoutTransactionID(t *testing.T) {
	router, _, l := newTestRouter(t)

	postEvent(router, `{"type":"purchase","url":"/cta","meta":{"amount":5}}`, "")

	if len(l.orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(l.orders))
	}
	if l.orders[0].TransactionID == "" {
		t.Error("expected a generated transaction id")
	}
}
