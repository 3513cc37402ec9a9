package geo

import (
	"context"
	"errors"
)

var (
	// ErrPrivateAddress is returned when lookup is attempted for a
	// private or loopback address that no database can place.
	ErrPrivateAddress = errors.New("geo: private or loopback address")

	// ErrInvalidIP is returned when the input is not a valid IP address.
	ErrInvalidIP = errors.New("geo: invalid IP address")
)

// Location is the enrichment result attached to visitor sessions.
type Location struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// String renders the location the way the dashboard displays it.
func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.Country != "":
		return l.Country
	default:
		return l.City
	}
}

// Locator resolves an IP address to a coarse location.
// Implementations are best-effort: callers must treat any error as
// "location unknown" and never surface it to the visitor.
type Locator interface {
	Lookup(ctx context.Context, ip string) (*Location, error)
}
