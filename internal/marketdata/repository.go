package marketdata

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/marketcards/internal/contracts"
)

// Repository reads the pre-populated EOD market tables. Every query
// returns (nil, nil) when no rows match; absence is an outcome, not an
// error.
// ⭐ SSOT: 시장 데이터 조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new market-data repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// HasMarketData reports whether any market-wide data exists for a date.
// Breadth is the proxy: it is the first table the EOD pipeline fills.
func (r *Repository) HasMarketData(ctx context.Context, date time.Time) (bool, error) {
	query := `
		SELECT 1
		FROM market.breadth_daily
		WHERE trading_date = $1
		LIMIT 1
	`

	var one int
	err := r.pool.QueryRow(ctx, query, date).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasSymbolData reports whether derived EOD data exists for (symbol, date)
func (r *Repository) HasSymbolData(ctx context.Context, date time.Time, symbol string) (bool, error) {
	query := `
		SELECT 1
		FROM market.symbol_derived_eod
		WHERE trading_date = $1 AND symbol = $2
		LIMIT 1
	`

	var one int
	err := r.pool.QueryRow(ctx, query, date, strings.ToUpper(symbol)).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BreadthDaily retrieves the market-wide breadth row for a date
func (r *Repository) BreadthDaily(ctx context.Context, date time.Time) (*contracts.BreadthDaily, error) {
	query := `
		SELECT trading_date,
		       COALESCE(above_ma50_pct, 0), COALESCE(above_ma200_pct, 0),
		       COALESCE(advance, 0), COALESCE(decline, 0),
		       COALESCE(new_52w_highs, 0), COALESCE(new_52w_lows, 0),
		       COALESCE(advance_decline_ratio, 0),
		       COALESCE(total_volume, 0), COALESCE(advancing_volume, 0),
		       COALESCE(declining_volume, 0)
		FROM market.breadth_daily
		WHERE trading_date = $1
		LIMIT 1
	`

	var b contracts.BreadthDaily
	err := r.pool.QueryRow(ctx, query, date).Scan(
		&b.Date, &b.AboveMA50Pct, &b.AboveMA200Pct,
		&b.Advancing, &b.Declining, &b.NewHighs, &b.NewLows,
		&b.ADRatio, &b.TotalVolume, &b.AdvancingVolume, &b.DecliningVolume,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SymbolEOD retrieves one symbol's derived EOD row for a date
func (r *Repository) SymbolEOD(ctx context.Context, date time.Time, symbol string) (*contracts.SymbolEOD, error) {
	query := `
		SELECT symbol, trading_date,
		       COALESCE(close, 0), COALESCE(r_1d_pct, 0), COALESCE(r_5d_pct, 0),
		       COALESCE(r_1m_pct, 0), COALESCE(r_ytd_pct, 0),
		       COALESCE(volume, 0), COALESCE(rvol, 1),
		       COALESCE(atr_pct, 0), COALESCE(rsi_14, 50),
		       COALESCE(macd, 0), COALESCE(macd_signal, 0),
		       COALESCE(bb_position, 0.5),
		       COALESCE(dist_ma20, 0), COALESCE(dist_ma50, 0), COALESCE(dist_ma200, 0)
		FROM market.symbol_derived_eod
		WHERE trading_date = $1 AND symbol = $2
	`

	var s contracts.SymbolEOD
	err := r.pool.QueryRow(ctx, query, date, strings.ToUpper(symbol)).Scan(
		&s.Symbol, &s.Date, &s.Close, &s.R1DPct, &s.R5DPct, &s.R1MPct, &s.RYTDPct,
		&s.Volume, &s.RVol, &s.ATRPct, &s.RSI14, &s.MACD, &s.MACDSignal,
		&s.BBPosition, &s.DistMA20, &s.DistMA50, &s.DistMA200,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SymbolEODBatch retrieves derived EOD rows for several symbols at once
func (r *Repository) SymbolEODBatch(ctx context.Context, date time.Time, symbols []string) (map[string]*contracts.SymbolEOD, error) {
	query := `
		SELECT symbol, trading_date,
		       COALESCE(close, 0), COALESCE(r_1d_pct, 0), COALESCE(r_5d_pct, 0),
		       COALESCE(r_1m_pct, 0), COALESCE(r_ytd_pct, 0),
		       COALESCE(volume, 0), COALESCE(rvol, 1),
		       COALESCE(atr_pct, 0), COALESCE(rsi_14, 50),
		       COALESCE(macd, 0), COALESCE(macd_signal, 0),
		       COALESCE(bb_position, 0.5),
		       COALESCE(dist_ma20, 0), COALESCE(dist_ma50, 0), COALESCE(dist_ma200, 0)
		FROM market.symbol_derived_eod
		WHERE trading_date = $1 AND symbol = ANY($2)
	`

	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}

	rows, err := r.pool.Query(ctx, query, date, upper)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*contracts.SymbolEOD, len(symbols))
	for rows.Next() {
		var s contracts.SymbolEOD
		if err := rows.Scan(
			&s.Symbol, &s.Date, &s.Close, &s.R1DPct, &s.R5DPct, &s.R1MPct, &s.RYTDPct,
			&s.Volume, &s.RVol, &s.ATRPct, &s.RSI14, &s.MACD, &s.MACDSignal,
			&s.BBPosition, &s.DistMA20, &s.DistMA50, &s.DistMA200,
		); err != nil {
			return nil, err
		}
		result[s.Symbol] = &s
	}
	return result, rows.Err()
}

// SMA200 retrieves a symbol's 200-day simple moving average, nil if absent
func (r *Repository) SMA200(ctx context.Context, date time.Time, symbol string) (*float64, error) {
	query := `
		SELECT sma_200
		FROM market.symbol_indicators_daily
		WHERE trading_date = $1 AND symbol = $2
		LIMIT 1
	`

	var sma *float64
	err := r.pool.QueryRow(ctx, query, date, strings.ToUpper(symbol)).Scan(&sma)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sma, nil
}

// VIXClose retrieves the volatility index close for a date, nil if absent
func (r *Repository) VIXClose(ctx context.Context, date time.Time) (*float64, error) {
	query := `
		SELECT vix_close
		FROM market.volatility_daily
		WHERE trading_date = $1
		LIMIT 1
	`

	var vix *float64
	err := r.pool.QueryRow(ctx, query, date).Scan(&vix)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vix, nil
}
