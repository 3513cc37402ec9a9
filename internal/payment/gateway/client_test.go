package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientCreateSuccess(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"statusCode":    200,
			"status":        "pending",
			"transactionID": "T1",
			"amount":        12.90,
			"method":        "mbway",
		})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "key", ClientID: "client"})

	tx, err := client.Create(context.Background(), CreateRequest{
		Amount: 12.90,
		Method: "mbway",
		Payer:  Payer{Name: "A", Phone: "912345678"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if gotPath != "/v1/payments" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["apiKey"] != "key" || gotBody["clientId"] != "client" {
		t.Errorf("credentials missing from request: %v", gotBody)
	}
	if tx.TransactionID != "T1" || tx.Status != "pending" {
		t.Errorf("unexpected transaction: %+v", tx)
	}
}

func TestClientTransportFailureCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"statusCode": 400,
			"error":      "missing api key",
		})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})

	_, err := client.Status(context.Background(), "T1")
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if gwErr.Code != http.StatusBadRequest || gwErr.Message != "missing api key" {
		t.Errorf("unexpected error: %+v", gwErr)
	}
}

func TestClientStatusNestedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"statusCode":    200,
			"referenceData": map[string]any{"entity": "11249"},
			"data": map[string]any{
				"status":        "approved",
				"transactionID": "T1",
			},
		})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})

	tx, err := client.Status(context.Background(), "T1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if tx.Status != "approved" || tx.Reference["entity"] != "11249" {
		t.Errorf("unexpected transaction: %+v", tx)
	}
}

func TestClientUnreachableGateway(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:0"})

	_, err := client.Create(context.Background(), CreateRequest{Amount: 1, Method: "mbway"})
	if err == nil {
		t.Fatal("expected transport error")
	}
}
