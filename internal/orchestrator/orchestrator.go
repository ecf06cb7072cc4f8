package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/marketcards/internal/cards"
	"github.com/wonny/marketcards/internal/contracts"
	"github.com/wonny/marketcards/internal/tradingdate"
	"github.com/wonny/marketcards/internal/usage"
	"github.com/wonny/marketcards/pkg/logger"
)

// CatalogGate is the catalog lookup the orchestrator depends on
type CatalogGate interface {
	Resolve(ctx context.Context, cardID string) (*contracts.CardDefinition, error)
}

// DateResolver picks the effective trading date for a request
type DateResolver interface {
	Resolve(ctx context.Context, requested *time.Time, symbol string, allowFallback bool) (tradingdate.Resolution, error)
}

// ResponseCache is an optional read-through cache for rendered cards
type ResponseCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CacheKeyer builds the cache key for one request shape
type CacheKeyer func(cardID, mode, symbol, date string) string

// Orchestrator drives one card request end to end: catalog gate, date
// resolution, metric computation, rendering and telemetry.
// ⭐ SSOT: 카드 요청 파이프라인은 여기서만
type Orchestrator struct {
	gate     CatalogGate
	resolver DateResolver
	registry *cards.Registry
	sink     usage.Sink
	logger   *logger.Logger

	cache    ResponseCache
	cacheKey CacheKeyer
	cacheTTL time.Duration
}

// Option configures optional orchestrator behavior
type Option func(*Orchestrator)

// WithResponseCache enables read-through response caching
func WithResponseCache(cache ResponseCache, keyer CacheKeyer, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.cache = cache
		o.cacheKey = keyer
		o.cacheTTL = ttl
	}
}

// New creates an orchestrator
func New(gate CatalogGate, resolver DateResolver, registry *cards.Registry, sink usage.Sink, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gate:     gate,
		resolver: resolver,
		registry: registry,
		sink:     sink,
		logger:   log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GetCard serves one card request. Telemetry is recorded for every
// request, success or not, after the response is determined; recording
// never blocks and never changes the outcome.
func (o *Orchestrator) GetCard(ctx context.Context, req contracts.CardRequest) (*contracts.CardResponse, error) {
	start := time.Now()

	resp, resolution, err := o.getCard(ctx, req)
	o.record(req, resolution, time.Since(start), err)

	return resp, err
}

func (o *Orchestrator) getCard(ctx context.Context, req contracts.CardRequest) (*contracts.CardResponse, *tradingdate.Resolution, error) {
	def, err := o.gate.Resolve(ctx, req.CardID)
	if err != nil {
		return nil, nil, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if def.RequiresSymbol && symbol == "" {
		return nil, nil, fmt.Errorf("%w: card %s requires a symbol", contracts.ErrValidation, req.CardID)
	}

	res, err := o.resolver.Resolve(ctx, req.Date, symbol, req.AllowFallback)
	if err != nil {
		return nil, nil, err
	}

	dateKey := res.Date.Format(contracts.DateOnly)
	cacheKey := ""
	if o.cache != nil {
		cacheKey = o.cacheKey(req.CardID, string(req.Mode), symbol, dateKey)
		var cached contracts.CardResponse
		found, err := o.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			o.logger.WithError(err).WithField("key", cacheKey).Warn("Response cache read failed")
		} else if found {
			return &cached, &res, nil
		}
	}

	handler, ok := o.registry.Get(req.CardID)
	if !ok {
		// Catalog row without a compiled handler: configuration drift.
		return nil, &res, fmt.Errorf("no handler registered for card %s", req.CardID)
	}

	result, err := handler.Handle(ctx, res.Date, symbol)
	if err != nil {
		return nil, &res, err
	}

	status := contracts.ResponseStatus{
		TradingDate:       dateKey,
		FallbackApplied:   res.FallbackApplied,
		MissingComponents: result.Missing,
		GeneratedAt:       time.Now().UTC(),
	}
	if req.Date != nil {
		status.RequestedDate = req.Date.Format(contracts.DateOnly)
	}

	resp := cards.Render(req.CardID, result, req.Mode, def.EducationNotes(), status)

	if o.cache != nil {
		if err := o.cache.Set(ctx, cacheKey, resp, o.cacheTTL); err != nil {
			o.logger.WithError(err).WithField("key", cacheKey).Warn("Response cache write failed")
		}
	}

	return resp, &res, nil
}

func (o *Orchestrator) record(req contracts.CardRequest, resolution *tradingdate.Resolution, elapsed time.Duration, err error) {
	entry := contracts.UsageLogEntry{
		CallerID:  req.CallerID,
		CardID:    req.CardID,
		Mode:      req.Mode,
		Symbol:    strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Outcome:   contracts.OutcomeFor(err),
		ErrorKind: contracts.ErrorKind(err),
		LatencyMS: elapsed.Milliseconds(),
		Timestamp: time.Now().UTC(),
	}
	if req.Date != nil {
		d := *req.Date
		entry.RequestedDate = &d
	}
	if resolution != nil {
		d := resolution.Date
		entry.TradingDate = &d
	}

	o.sink.Record(entry)
}
