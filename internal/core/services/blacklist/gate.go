package blacklist

import (
	"context"
	"fmt"
	"sync"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// Gate is the deny-set consulted on every inbound request. Membership lives
// in memory for O(1) lookups on the hot path and is written through to the
// durable store. The in-memory set is authoritative for the running process:
// an IP stays denied even when the durable write fails, so a blocked response
// is never followed by readmission of the same attacker.
type Gate struct {
	store ports.BlacklistStore

	mu      sync.RWMutex
	entries map[string]domain.BlacklistEntry
}

// New creates a gate backed by the given durable store.
func New(store ports.BlacklistStore) *Gate {
	return &Gate{
		store:   store,
		entries: make(map[string]domain.BlacklistEntry),
	}
}

// Load populates the in-memory set from the durable store. Called once at
// startup before the HTTP server accepts traffic.
func (g *Gate) Load(ctx context.Context) error {
	entries, err := g.store.ListBlacklist(ctx)
	if err != nil {
		return fmt.Errorf("loading blacklist: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range entries {
		g.entries[e.IP] = e
	}
	return nil
}

// Contains reports whether the IP is denied. Never false-positive: only IPs
// added through Add (or loaded from the store) match.
func (g *Gate) Contains(ip string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.entries[ip]
	return ok
}

// Add denies the IP immediately and writes the entry through to the durable
// store. The in-memory insert happens first; a store failure is returned to
// the caller for alerting but does not undo the in-memory deny.
func (g *Gate) Add(ctx context.Context, entry domain.BlacklistEntry) error {
	g.mu.Lock()
	g.entries[entry.IP] = entry
	g.mu.Unlock()

	if err := g.store.SaveBlacklistEntry(ctx, entry); err != nil {
		return fmt.Errorf("persisting blacklist entry for %s: %w", entry.IP, err)
	}
	return nil
}

// Remove lifts the deny for an IP. Administrative action; the durable delete
// must succeed before the in-memory entry goes away, otherwise a restart
// would silently resurrect the block.
func (g *Gate) Remove(ctx context.Context, ip string) error {
	if err := g.store.DeleteBlacklistEntry(ctx, ip); err != nil {
		return fmt.Errorf("removing blacklist entry for %s: %w", ip, err)
	}

	g.mu.Lock()
	delete(g.entries, ip)
	g.mu.Unlock()
	return nil
}

// List returns all entries from the durable store, newest first.
func (g *Gate) List(ctx context.Context) ([]domain.BlacklistEntry, error) {
	return g.store.ListBlacklist(ctx)
}

// Len returns the number of denied IPs.
func (g *Gate) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// Ensure interface compliance
var _ ports.BlacklistGate = (*Gate)(nil)
