package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no order carries the requested
	// transaction id.
	ErrNotFound = errors.New("ledger: order not found")

	// ErrInvalidStatus is returned for a status outside the enum.
	ErrInvalidStatus = errors.New("ledger: invalid status")
)

// Status is the payment state of an order. APPROVED, FAILED and
// EXPIRED are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusFailed   Status = "FAILED"
	StatusExpired  Status = "EXPIRED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusFailed, StatusExpired:
		return true
	}
	return false
}

// Payer identifies who is paying for an order.
type Payer struct {
	Name     string `json:"name"`
	Document string `json:"document,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Order is one ledger entry. ID, TransactionID and CreatedAt are fixed
// at append time; only Status and Reference may change afterwards.
type Order struct {
	ID            int            `json:"id"`
	TransactionID string         `json:"transaction_id"`
	Method        string         `json:"method"`
	Amount        float64        `json:"amount"`
	Status        Status         `json:"status"`
	Payer         Payer          `json:"payer"`
	Reference     map[string]any `json:"reference_data,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Ledger is the durable, append-only order collection. Implementations
// must serialize Append and UpdateStatus: both are whole-collection
// read-modify-write operations.
type Ledger interface {
	// Append assigns the next id and the creation timestamp, persists
	// the order and returns the assigned id.
	Append(ctx context.Context, order *Order) (int, error)

	// UpdateStatus sets the status (and, when non-nil, the reference
	// data) of the first order matching transactionID. Returns
	// ErrNotFound without writing when no order matches.
	UpdateStatus(ctx context.Context, transactionID string, status Status, reference map[string]any) error

	// All returns every order, oldest first.
	All(ctx context.Context) ([]Order, error)
}
