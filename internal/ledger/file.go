package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLedger stores the order collection as a single JSON array on
// disk, reloaded in full on every operation and rewritten wholesale on
// every mutation. One mutex covers the load-mutate-persist cycle.
type FileLedger struct {
	mu   sync.Mutex
	path string

	now func() time.Time
}

func NewFileLedger(path string) *FileLedger {
	return &FileLedger{
		path: path,
		now:  time.Now,
	}
}

func (f *FileLedger) Append(_ context.Context, order *Order) (int, error) {
	if !order.Status.Valid() {
		return 0, ErrInvalidStatus
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	orders, err := f.load()
	if err != nil {
		return 0, err
	}

	order.ID = len(orders) + 1
	order.CreatedAt = f.now()
	orders = append(orders, *order)

	if err := f.persist(orders); err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (f *FileLedger) UpdateStatus(_ context.Context, transactionID string, status Status, reference map[string]any) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	orders, err := f.load()
	if err != nil {
		return err
	}

	for i := range orders {
		if orders[i].TransactionID != transactionID {
			continue
		}
		orders[i].Status = status
		if reference != nil {
			orders[i].Reference = reference
		}
		return f.persist(orders)
	}
	return ErrNotFound
}

func (f *FileLedger) All(_ context.Context) ([]Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileLedger) load() ([]Order, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Order{}, nil
		}
		return nil, fmt.Errorf("ledger: read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return []Order{}, nil
	}

	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("ledger: parse %s: %w", f.path, err)
	}
	return orders, nil
}

// persist rewrites the collection atomically: a reader never observes
// a half-written file.
func (f *FileLedger) persist(orders []Order) error {
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger: marshal: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".orders-*.json")
	if err != nil {
		return fmt.Errorf("ledger: create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("ledger: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("ledger: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("ledger: replace %s: %w", f.path, err)
	}
	return nil
}
