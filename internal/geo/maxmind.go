package geo

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MaxMindLocator resolves locations from a local GeoLite2-City database.
// Preferred over the HTTP locator when a database file is available:
// no network call inside the tracking path.
type MaxMindLocator struct {
	db *geoip2.Reader
}

func NewMaxMindLocator(dbPath string) (*MaxMindLocator, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("geo: open maxmind database: %w", err)
	}
	return &MaxMindLocator{db: db}, nil
}

func (m *MaxMindLocator) Lookup(_ context.Context, ip string) (*Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIP, ip)
	}
	if IsPrivateIP(ip) {
		return nil, ErrPrivateAddress
	}

	record, err := m.db.City(parsed)
	if err != nil {
		return nil, fmt.Errorf("geo: city lookup: %w", err)
	}

	loc := &Location{
		City:    localizedName(record.City.Names),
		Country: localizedName(record.Country.Names),
	}
	if len(record.Subdivisions) > 0 {
		loc.Region = localizedName(record.Subdivisions[0].Names)
	}
	return loc, nil
}

func (m *MaxMindLocator) Close() error {
	return m.db.Close()
}

// localizedName prefers English, falling back to any available name.
func localizedName(names map[string]string) string {
	if name, ok := names["en"]; ok {
		return name
	}
	for _, name := range names {
		return name
	}
	return ""
}
