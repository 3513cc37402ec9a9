package handler

import (
	"net/http"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/geo"
	"github.com/mygitvirtual012322/instaspy/internal/ledger"
	"github.com/mygitvirtual012322/instaspy/internal/logger"
	"github.com/mygitvirtual012322/instaspy/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VisitorCookieName is the cookie the funnel pages set once a visitor
// gets a persistent identity token.
const VisitorCookieName = "visitor_token"

type Handler struct {
	registry *tracking.Registry
	ledger   ledger.Ledger
	ttl      time.Duration
}

func NewHandler(registry *tracking.Registry, l ledger.Ledger, ttl time.Duration) *Handler {
	return &Handler{
		registry: registry,
		ledger:   l,
		ttl:      ttl,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/track/event", h.TrackEvent)
}

type trackRequest struct {
	Type string         `json:"type"`
	URL  string         `json:"url"`
	Meta map[string]any `json:"meta"`
}

// TrackEvent records one visitor event. The endpoint is a beacon: the
// funnel pages fire it and never look at the body, so everything past
// input validation is best-effort.
func (h *Handler) TrackEvent(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	kind := tracking.Kind(req.Type)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type"})
		return
	}

	token := ""
	if cookie, err := c.Request.Cookie(VisitorCookieName); err == nil {
		token = cookie.Value
	}

	ev := tracking.Event{
		Kind:       kind,
		URL:        req.URL,
		RemoteAddr: geo.ClientIP(c.Request),
		UserAgent:  c.Request.UserAgent(),
		Meta:       req.Meta,
	}

	key := h.registry.Upsert(c.Request.Context(), token, ev)

	if kind == tracking.KindPurchase {
		h.recordPurchase(c, key, ev)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// recordPurchase appends the purchase event itself to the order
// ledger. A failure here is logged, never surfaced to the beacon.
func (h *Handler) recordPurchase(c *gin.Context, key string, ev tracking.Event) {
	order := &ledger.Order{
		TransactionID: metaString(ev.Meta, "transaction_id"),
		Method:        metaString(ev.Meta, "method"),
		Amount:        metaFloat(ev.Meta, "amount"),
		Status:        ledger.StatusPending,
		Payer: ledger.Payer{
			Name: metaString(ev.Meta, "payer_name"),
		},
	}
	if order.TransactionID == "" {
		order.TransactionID = "evt-" + uuid.NewString()
	}
	if status := ledger.Status(metaString(ev.Meta, "status")); status.Valid() {
		order.Status = status
	}

	if _, err := h.ledger.Append(c.Request.Context(), order); err != nil {
		logger.Error("purchase event not recorded", map[string]any{
			"visitor": key,
			"error":   err.Error(),
		})
	}
}

// Live serves the operator dashboard's view of currently-active
// visitors. Reading it also evicts everything past the TTL.
func (h *Handler) Live(c *gin.Context) {
	users := h.registry.Snapshot(h.ttl)
	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

func metaFloat(meta map[string]any, key string) float64 {
	f, _ := meta[key].(float64)
	return f
}
