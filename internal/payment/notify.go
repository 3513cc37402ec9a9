package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const notifyTimeout = 5 * time.Second

// Notification is the postback emitted after payment events.
type Notification struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier delivers payment notifications to an outside system.
// Delivery is best-effort: the reconciler logs failures and moves on,
// so implementations must never block longer than their own timeout.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// HTTPNotifier posts notifications as JSON to a fixed URL.
type HTTPNotifier struct {
	url    string
	client *http.Client
}

func NewHTTPNotifier(url string) *HTTPNotifier {
	return &HTTPNotifier{
		url: url,
		client: &http.Client{
			Timeout: notifyTimeout,
		},
	}
}

func (h *HTTPNotifier) Notify(ctx context.Context, n Notification) error {
	if n.EventID == "" {
		n.EventID = uuid.NewString()
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
