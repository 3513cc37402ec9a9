package payment

import (
	"context"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/ledger"
	"github.com/mygitvirtual012322/instaspy/internal/logger"
	"github.com/mygitvirtual012322/instaspy/internal/payment/gateway"
)

// Gateway is the slice of the gateway client the reconciler depends on.
type Gateway interface {
	Create(ctx context.Context, req gateway.CreateRequest) (*gateway.Transaction, error)
	Status(ctx context.Context, transactionID string) (*gateway.Transaction, error)
}

// Reconciler translates between the external gateway's view of a
// payment and the ledger's canonical order record. It owns both the
// creation path (gateway call then PENDING append) and the polling
// path that eventually drives an order to a terminal status.
type Reconciler struct {
	gateway  Gateway
	ledger   ledger.Ledger
	notifier Notifier // nil disables notifications
}

func NewReconciler(gw Gateway, l ledger.Ledger, notifier Notifier) *Reconciler {
	return &Reconciler{
		gateway:  gw,
		ledger:   l,
		notifier: notifier,
	}
}

// CreatePayment starts a payment at the gateway and, on success,
// appends a PENDING order. The outbound notification afterwards is
// best-effort; its failure never fails the payment.
func (r *Reconciler) CreatePayment(ctx context.Context, amount float64, method string, payer ledger.Payer) (*gateway.Transaction, error) {
	tx, err := r.gateway.Create(ctx, gateway.CreateRequest{
		Amount: amount,
		Method: method,
		Payer: gateway.Payer{
			Name:     payer.Name,
			Document: payer.Document,
			Phone:    payer.Phone,
		},
	})
	if err != nil {
		return nil, err
	}

	order := &ledger.Order{
		TransactionID: tx.TransactionID,
		Method:        method,
		Amount:        amount,
		Status:        ledger.StatusPending,
		Payer:         payer,
		Reference:     tx.Reference,
	}
	if _, err := r.ledger.Append(ctx, order); err != nil {
		logger.Error("order append failed after gateway accept", map[string]any{
			"transaction_id": tx.TransactionID,
			"error":          err.Error(),
		})
		return nil, err
	}

	r.notify(ctx, Notification{
		Type:          "payment_created",
		TransactionID: tx.TransactionID,
		Amount:        amount,
		Method:        method,
		Status:        string(ledger.StatusPending),
		OccurredAt:    time.Now(),
	})

	return tx, nil
}

// PollStatus asks the gateway for the current transaction state,
// normalized into the canonical shape. The ledger is not touched; the
// polling client calls UpdateOrderStatus once it sees a terminal state.
func (r *Reconciler) PollStatus(ctx context.Context, transactionID string) (*gateway.Transaction, error) {
	return r.gateway.Status(ctx, transactionID)
}

// UpdateOrderStatus records a status observed by the polling loop.
func (r *Reconciler) UpdateOrderStatus(ctx context.Context, transactionID string, status ledger.Status, reference map[string]any) error {
	if !status.Valid() {
		return ledger.ErrInvalidStatus
	}
	return r.ledger.UpdateStatus(ctx, transactionID, status, reference)
}

func (r *Reconciler) notify(ctx context.Context, n Notification) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, n); err != nil {
		logger.Warn("payment notification failed", map[string]any{
			"transaction_id": n.TransactionID,
			"type":           n.Type,
			"error":          err.Error(),
		})
	}
}
