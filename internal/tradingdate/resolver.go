package tradingdate

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/marketcards/internal/contracts"
)

// Probe answers whether usable data exists for a date. Implemented by the
// market-data repository; faked in tests.
type Probe interface {
	HasMarketData(ctx context.Context, date time.Time) (bool, error)
	HasSymbolData(ctx context.Context, date time.Time, symbol string) (bool, error)
}

// Resolution is the outcome of trading-date resolution
type Resolution struct {
	Date            time.Time
	FallbackApplied bool
}

// Resolver finds the latest trading date with usable data inside a
// bounded lookback window. Probes run newest-first, so earlier dates are
// only tried after every more recent candidate is exhausted.
type Resolver struct {
	probe        Probe
	lookbackDays int

	// now is injectable for tests
	now func() time.Time
}

// New creates a resolver with the configured lookback window
func New(probe Probe, lookbackDays int) *Resolver {
	return &Resolver{
		probe:        probe,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// Resolve picks the trading date for a request.
//
// Explicit date: probe exactly that date; without allowFallback a miss is
// reported as-is instead of silently substituting an earlier day.
// No date ("latest"): walk back from today within the window. When a
// symbol is given, the market-wide latest date is refined backward until
// the symbol itself has data (two-tier fallback), still inside the window.
func (r *Resolver) Resolve(ctx context.Context, requested *time.Time, symbol string, allowFallback bool) (Resolution, error) {
	if requested != nil {
		return r.resolveExplicit(ctx, truncate(*requested), symbol, allowFallback)
	}
	return r.resolveLatest(ctx, truncate(r.now()), symbol)
}

func (r *Resolver) resolveExplicit(ctx context.Context, date time.Time, symbol string, allowFallback bool) (Resolution, error) {
	ok, err := r.hasData(ctx, date, symbol)
	if err != nil {
		return Resolution{}, fmt.Errorf("probe %s: %w", date.Format(contracts.DateOnly), err)
	}
	if ok {
		return Resolution{Date: date}, nil
	}

	if !allowFallback {
		return Resolution{}, fmt.Errorf("%w: %s", contracts.ErrNoDataForDate, date.Format(contracts.DateOnly))
	}

	for daysBack := 1; daysBack <= r.lookbackDays; daysBack++ {
		candidate := date.AddDate(0, 0, -daysBack)
		ok, err := r.hasData(ctx, candidate, symbol)
		if err != nil {
			return Resolution{}, fmt.Errorf("probe %s: %w", candidate.Format(contracts.DateOnly), err)
		}
		if ok {
			return Resolution{Date: candidate, FallbackApplied: true}, nil
		}
	}

	return Resolution{}, fmt.Errorf("%w: %s and %d prior days", contracts.ErrNoDataInWindow,
		date.Format(contracts.DateOnly), r.lookbackDays)
}

func (r *Resolver) resolveLatest(ctx context.Context, today time.Time, symbol string) (Resolution, error) {
	// Tier 1: latest date with any market data.
	marketDate := time.Time{}
	for daysBack := 0; daysBack <= r.lookbackDays; daysBack++ {
		candidate := today.AddDate(0, 0, -daysBack)
		ok, err := r.probe.HasMarketData(ctx, candidate)
		if err != nil {
			return Resolution{}, fmt.Errorf("probe %s: %w", candidate.Format(contracts.DateOnly), err)
		}
		if ok {
			marketDate = candidate
			break
		}
	}
	if marketDate.IsZero() {
		return Resolution{}, fmt.Errorf("%w: last %d days", contracts.ErrNoDataInWindow, r.lookbackDays)
	}

	if symbol == "" {
		return Resolution{Date: marketDate, FallbackApplied: !marketDate.Equal(today)}, nil
	}

	// Tier 2: the symbol may lag the market-wide latest (stale listing,
	// late backfill). Keep walking back from the market-wide date, still
	// bounded by the original window anchored at today.
	windowEnd := today.AddDate(0, 0, -r.lookbackDays)
	for candidate := marketDate; !candidate.Before(windowEnd); candidate = candidate.AddDate(0, 0, -1) {
		ok, err := r.probe.HasSymbolData(ctx, candidate, symbol)
		if err != nil {
			return Resolution{}, fmt.Errorf("probe %s %s: %w", symbol, candidate.Format(contracts.DateOnly), err)
		}
		if ok {
			return Resolution{Date: candidate, FallbackApplied: !candidate.Equal(today)}, nil
		}
	}

	return Resolution{}, fmt.Errorf("%w: no data for %s in last %d days", contracts.ErrNoDataInWindow,
		symbol, r.lookbackDays)
}

func (r *Resolver) hasData(ctx context.Context, date time.Time, symbol string) (bool, error) {
	if symbol != "" {
		return r.probe.HasSymbolData(ctx, date, symbol)
	}
	return r.probe.HasMarketData(ctx, date)
}

// truncate normalizes a timestamp to its UTC calendar date
func truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
