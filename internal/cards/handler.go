package cards

import (
	"context"
	"sort"
	"time"

	"github.com/wonny/marketcards/internal/contracts"
)

// Handler is the pluggable card unit: one fetcher and one scorer behind a
// uniform contract. New card types implement fetch and score only; date
// resolution, rendering and orchestration are shared.
// ⭐ SSOT: 카드 타입 계약은 여기서만 정의
type Handler interface {
	// CardID returns the catalog identifier this handler serves
	CardID() string

	// Handle fetches the minimal raw metrics for the resolved trading
	// date and scores them into a DerivedResult. It never renders.
	Handle(ctx context.Context, tradingDate time.Time, symbol string) (*contracts.DerivedResult, error)
}

// Registry is the fixed card-id to handler mapping, built at startup
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates a registry from the given handlers
func NewRegistry(handlers ...Handler) *Registry {
	m := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		m[h.CardID()] = h
	}
	return &Registry{handlers: m}
}

// Get returns the handler for a card id
func (r *Registry) Get(cardID string) (Handler, bool) {
	h, ok := r.handlers[cardID]
	return h, ok
}

// IDs returns the registered card ids, sorted
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
