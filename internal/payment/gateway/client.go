package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Payer mirrors the payer sub-record the gateway expects.
type Payer struct {
	Name     string `json:"name"`
	Document string `json:"document,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// CreateRequest is the input to a payment creation call.
type CreateRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Payer  Payer   `json:"payer"`
}

// Transaction is the canonical shape every gateway response is
// normalized into, regardless of whether the gateway answered with a
// flat body or one nested under "data".
type Transaction struct {
	TransactionID string         `json:"transaction_id"`
	Status        string         `json:"status"`
	Amount        float64        `json:"amount"`
	Method        string         `json:"method"`
	Reference     map[string]any `json:"reference_data,omitempty"`
}

// Error carries the gateway's embedded failure back to the caller.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: request failed with code %d", e.Code)
	}
	return fmt.Sprintf("gateway: %s (code %d)", e.Message, e.Code)
}

// Config holds the credentials sent with every gateway call.
type Config struct {
	BaseURL  string
	APIKey   string
	ClientID string
}

// Client is the HTTP client for the external payment gateway. Calls
// are synchronous with a fixed timeout and are never retried.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Create starts a payment. The call succeeds only when both the
// transport status and the gateway's embedded status code signal
// success and a transaction id is present.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Transaction, error) {
	payload := map[string]any{
		"apiKey":   c.cfg.APIKey,
		"clientId": c.cfg.ClientID,
		"amount":   req.Amount,
		"method":   req.Method,
		"payer":    req.Payer,
	}
	return c.post(ctx, "/v1/payments", payload)
}

// Status polls the gateway for the current state of a transaction.
func (c *Client) Status(ctx context.Context, transactionID string) (*Transaction, error) {
	payload := map[string]any{
		"apiKey":        c.cfg.APIKey,
		"clientId":      c.cfg.ClientID,
		"transactionID": transactionID,
	}
	return c.post(ctx, "/v1/payments/status", payload)
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) (*Transaction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gateway: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: call failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: read response: %w", err)
	}

	var raw rawResponse
	decodeErr := json.Unmarshal(data, &raw)

	// a transport-level failure wins; the body is only mined for a message
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Code:    resp.StatusCode,
			Message: raw.failureMessage(),
		}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("gateway: decode response: %w", decodeErr)
	}

	return normalize(&raw)
}
