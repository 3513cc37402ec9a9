package tracking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/geo"
	"github.com/mygitvirtual012322/instaspy/internal/logger"
)

// DefaultTTL is the inactivity window after which a visitor record is
// evicted on the next snapshot.
const DefaultTTL = 300 * time.Second

const enrichTimeout = 3 * time.Second

// Registry is the in-memory map of live visitor sessions, keyed by
// identity key (client token, or remote address until a token shows up).
// All access goes through Upsert and Snapshot; the map is never exposed.
type Registry struct {
	mu       sync.Mutex
	visitors map[string]*Visitor

	locator geo.Locator // nil disables enrichment

	now func() time.Time
}

func NewRegistry(locator geo.Locator) *Registry {
	return &Registry{
		visitors: make(map[string]*Visitor),
		locator:  locator,
		now:      time.Now,
	}
}

// Upsert records an event for the visitor identified by token (or by
// the event's remote address when no token is supplied) and returns the
// identity key the record now lives under.
//
// The first event for a key triggers a synchronous GeoIP lookup; the
// registry lock is released around that network call and the result is
// merged back afterwards, so a lookup can never stall other visitors.
func (r *Registry) Upsert(ctx context.Context, token string, ev Event) string {
	now := r.now()

	r.mu.Lock()
	key := r.resolveKeyLocked(token, ev.RemoteAddr)

	visitor, exists := r.visitors[key]
	if exists {
		visitor.Meta = mergeMeta(visitor.Meta, ev.Meta)
		visitor.Kind = ev.Kind
		visitor.Page = ev.URL
		visitor.RemoteAddr = ev.RemoteAddr
		visitor.UserAgent = ev.UserAgent
		visitor.Device = ParseDevice(ev.UserAgent)
		visitor.LastSeen = now
	} else {
		visitor = &Visitor{
			Key:        key,
			RemoteAddr: ev.RemoteAddr,
			UserAgent:  ev.UserAgent,
			Device:     ParseDevice(ev.UserAgent),
			Kind:       ev.Kind,
			Page:       ev.URL,
			Meta:       mergeMeta(nil, ev.Meta),
			FirstSeen:  now,
			LastSeen:   now,
		}
		r.visitors[key] = visitor
	}
	_, hasLocation := visitor.Meta["location"]
	r.mu.Unlock()

	if !exists && !hasLocation && r.locator != nil {
		r.enrich(ctx, key, ev.RemoteAddr)
	}

	return key
}

// resolveKeyLocked implements merge-on-upgrade: when a token arrives
// for a visitor previously tracked under their bare address, the
// address-keyed record is migrated to the token key so the dashboard
// shows one row, not two. Caller must hold r.mu.
func (r *Registry) resolveKeyLocked(token, addr string) string {
	if token == "" {
		return addr
	}
	if _, ok := r.visitors[token]; !ok {
		if orphan, ok := r.visitors[addr]; ok {
			orphan.Key = token
			r.visitors[token] = orphan
			delete(r.visitors, addr)
		}
	}
	return token
}

// Snapshot returns every visitor seen within ttl (DefaultTTL when ttl
// is zero or negative), newest first. Records at or beyond the TTL are
// evicted as a side effect; the dashboard read doubles as the
// registry's garbage collection.
func (r *Registry) Snapshot(ttl time.Duration) []Visitor {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Visitor, 0, len(r.visitors))
	for key, v := range r.visitors {
		if now.Sub(v.LastSeen) >= ttl {
			delete(r.visitors, key)
			continue
		}
		clone := *v
		clone.Meta = cloneMeta(v.Meta)
		out = append(out, clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	return out
}

// enrich performs the best-effort GeoIP lookup outside the registry
// lock and writes the result under a fresh acquisition. A concurrent
// event may have set location in the meantime; the stored value wins.
func (r *Registry) enrich(ctx context.Context, key, ip string) {
	ctx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	loc, err := r.locator.Lookup(ctx, ip)
	if err != nil {
		if !errors.Is(err, geo.ErrPrivateAddress) && !errors.Is(err, geo.ErrInvalidIP) {
			logger.Warn("geoip lookup skipped", map[string]any{
				"ip":    ip,
				"error": err.Error(),
			})
		}
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	visitor, ok := r.visitors[key]
	if !ok {
		return
	}
	if _, ok := visitor.Meta["location"]; ok {
		return
	}
	if visitor.Meta == nil {
		visitor.Meta = make(map[string]any)
	}
	visitor.Meta["location"] = loc.String()
}

func cloneMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	clone := make(map[string]any, len(meta))
	for k, v := range meta {
		clone[k] = v
	}
	return clone
}
