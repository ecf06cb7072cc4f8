package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wonny/marketcards/internal/contracts"
	"github.com/wonny/marketcards/pkg/logger"
)

// Source is the read-only catalog store behind the gate
type Source interface {
	ListDefinitions(ctx context.Context) ([]contracts.CardDefinition, error)
}

// Gate answers whether a card id is known and enabled, serving from an
// in-process snapshot so the request path never waits on the store.
// ⭐ SSOT: 카드 카탈로그 캐시는 여기서만 관리
type Gate struct {
	source Source
	ttl    time.Duration
	logger *logger.Logger

	mu       sync.RWMutex
	snapshot map[string]contracts.CardDefinition
	loadedAt time.Time

	refreshing atomic.Bool
}

// NewGate creates a catalog gate. Call Load once at startup.
func NewGate(source Source, ttl time.Duration, log *logger.Logger) *Gate {
	return &Gate{
		source: source,
		ttl:    ttl,
		logger: log,
	}
}

// Load performs the initial synchronous snapshot load
func (g *Gate) Load(ctx context.Context) error {
	if err := g.Refresh(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}
	return nil
}

// Refresh replaces the snapshot from the store. A failed refresh leaves
// the prior snapshot in effect.
func (g *Gate) Refresh(ctx context.Context) error {
	defs, err := g.source.ListDefinitions(ctx)
	if err != nil {
		return fmt.Errorf("list card definitions: %w", err)
	}

	snapshot := make(map[string]contracts.CardDefinition, len(defs))
	for _, d := range defs {
		snapshot[d.CardID] = d
	}

	g.mu.Lock()
	g.snapshot = snapshot
	g.loadedAt = time.Now()
	g.mu.Unlock()

	g.logger.WithField("cards", len(snapshot)).Debug("Catalog snapshot refreshed")
	return nil
}

// Resolve returns the definition for cardID, distinguishing an unknown
// card from a known-but-disabled one. A stale snapshot triggers an
// opportunistic background refresh; the request is served from the
// last-known snapshot either way.
func (g *Gate) Resolve(ctx context.Context, cardID string) (*contracts.CardDefinition, error) {
	g.mu.RLock()
	snapshot := g.snapshot
	loadedAt := g.loadedAt
	g.mu.RUnlock()

	if snapshot == nil {
		// First call before Load: do a blocking load once.
		if err := g.Load(ctx); err != nil {
			return nil, err
		}
		g.mu.RLock()
		snapshot = g.snapshot
		g.mu.RUnlock()
	} else if time.Since(loadedAt) > g.ttl {
		g.refreshAsync()
	}

	def, ok := snapshot[cardID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNotRegistered, cardID)
	}
	if !def.IsActive {
		return nil, fmt.Errorf("%w: %s", contracts.ErrCardDisabled, cardID)
	}
	return &def, nil
}

// refreshAsync kicks off at most one background refresh at a time
func (g *Gate) refreshAsync() {
	if !g.refreshing.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer g.refreshing.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := g.Refresh(ctx); err != nil {
			g.logger.WithError(err).Warn("Catalog refresh failed, serving prior snapshot")
		}
	}()
}

// Definitions returns the current snapshot sorted by card id
func (g *Gate) Definitions() []contracts.CardDefinition {
	g.mu.RLock()
	defer g.mu.RUnlock()

	defs := make([]contracts.CardDefinition, 0, len(g.snapshot))
	for _, d := range g.snapshot {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].CardID < defs[j].CardID })
	return defs
}
