package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const ordersMigration = `
CREATE TABLE IF NOT EXISTS orders (
    id bigserial PRIMARY KEY,
    transaction_id text NOT NULL UNIQUE,
    method text NOT NULL,
    amount numeric(12,2) NOT NULL,
    status text NOT NULL,
    payer_name text NOT NULL DEFAULT '',
    payer_document text NOT NULL DEFAULT '',
    payer_phone text NOT NULL DEFAULT '',
    reference_data jsonb,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status);
`

// PostgresLedger keeps the order collection in Postgres. Row-level
// constraints replace the file ledger's whole-collection lock.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger runs the idempotent schema migration and returns
// the ledger.
func NewPostgresLedger(ctx context.Context, db *sql.DB) (*PostgresLedger, error) {
	if _, err := db.ExecContext(ctx, ordersMigration); err != nil {
		return nil, fmt.Errorf("ledger: migrate orders table: %w", err)
	}
	return &PostgresLedger{db: db}, nil
}

func (p *PostgresLedger) Append(ctx context.Context, order *Order) (int, error) {
	if !order.Status.Valid() {
		return 0, ErrInvalidStatus
	}

	reference, err := marshalReference(order.Reference)
	if err != nil {
		return 0, err
	}

	var (
		id        int
		createdAt time.Time
	)
	err = p.db.QueryRowContext(ctx, `
		INSERT INTO orders
			(transaction_id, method, amount, status,
			 payer_name, payer_document, payer_phone, reference_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`,
		order.TransactionID,
		order.Method,
		order.Amount,
		string(order.Status),
		order.Payer.Name,
		order.Payer.Document,
		order.Payer.Phone,
		reference,
	).Scan(&id, &createdAt)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert order: %w", err)
	}

	order.ID = id
	order.CreatedAt = createdAt
	return id, nil
}

func (p *PostgresLedger) UpdateStatus(ctx context.Context, transactionID string, status Status, reference map[string]any) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	var (
		result sql.Result
		err    error
	)
	if reference != nil {
		var encoded []byte
		encoded, err = marshalReference(reference)
		if err != nil {
			return err
		}
		result, err = p.db.ExecContext(ctx, `
			UPDATE orders SET status = $1, reference_data = $2
			WHERE transaction_id = $3
		`, string(status), encoded, transactionID)
	} else {
		result, err = p.db.ExecContext(ctx, `
			UPDATE orders SET status = $1
			WHERE transaction_id = $2
		`, string(status), transactionID)
	}
	if err != nil {
		return fmt.Errorf("ledger: update order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ledger: update order status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresLedger) All(ctx context.Context) ([]Order, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, transaction_id, method, amount, status,
		       payer_name, payer_document, payer_phone,
		       reference_data, created_at
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("ledger: list orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var (
			order     Order
			status    string
			reference []byte
		)
		err := rows.Scan(
			&order.ID,
			&order.TransactionID,
			&order.Method,
			&order.Amount,
			&status,
			&order.Payer.Name,
			&order.Payer.Document,
			&order.Payer.Phone,
			&reference,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan order: %w", err)
		}
		order.Status = Status(status)
		if len(reference) > 0 {
			if err := json.Unmarshal(reference, &order.Reference); err != nil {
				return nil, fmt.Errorf("ledger: parse reference data: %w", err)
			}
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func marshalReference(reference map[string]any) ([]byte, error) {
	if reference == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(reference)
	if err != nil {
		return nil, fmt.Errorf("ledger: marshal reference data: %w", err)
	}
	return encoded, nil
}
