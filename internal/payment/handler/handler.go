package handler

import (
	"errors"
	"net/http"

	"github.com/mygitvirtual012322/instaspy/internal/ledger"
	"github.com/mygitvirtual012322/instaspy/internal/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	reconciler *payment.Reconciler
	ledger     ledger.Ledger
}

func NewHandler(reconciler *payment.Reconciler, l ledger.Ledger) *Handler {
	return &Handler{
		reconciler: reconciler,
		ledger:     l,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/payment", h.CreatePayment)
	r.POST("/status", h.PollStatus)
	r.POST("/order/update-status", h.UpdateOrderStatus)
}

type createPaymentRequest struct {
	Amount float64      `json:"amount"`
	Method string       `json:"method"`
	Payer  ledger.Payer `json:"payer"`
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}
	if req.Amount <= 0 || req.Method == "" || req.Payer.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing amount, method or payer"})
		return
	}

	tx, err := h.reconciler.CreatePayment(c.Request.Context(), req.Amount, req.Method, req.Payer)
	if err != nil {
		// the gateway's own message goes back verbatim; nothing was
		// appended to the ledger
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tx})
}

type statusRequest struct {
	ID string `json:"id"`
}

func (h *Handler) PollStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing transaction id"})
		return
	}

	tx, err := h.reconciler.PollStatus(c.Request.Context(), req.ID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tx})
}

type updateStatusRequest struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TransactionID == "" || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing transaction_id or status"})
		return
	}

	err := h.reconciler.UpdateOrderStatus(c.Request.Context(), req.TransactionID, ledger.Status(req.Status), nil)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
	case errors.Is(err, ledger.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "update failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// Orders serves the full persisted order collection to the operator
// dashboard.
func (h *Handler) Orders(c *gin.Context) {
	orders, err := h.ledger.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}
