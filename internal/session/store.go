package session

import (
	"context"
	"time"
)

// Session is an authenticated operator session. Operators are the
// humans watching the live dashboard; visitors never get one of these.
type Session struct {
	SessionID string    // unique session identifier
	Operator  string    // operator login name
	CreatedAt time.Time
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how operator sessions are stored and retrieved.
// Implementations must treat an unknown id as (nil, nil), not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
