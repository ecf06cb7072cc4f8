package cards

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/marketcards/internal/contracts"
)

// SymbolStore is the minimal market-data access for single-ticker cards
type SymbolStore interface {
	SymbolEOD(ctx context.Context, date time.Time, symbol string) (*contracts.SymbolEOD, error)
}

// PerformanceHandler serves the ticker_performance card: one symbol's
// price action, volume character and momentum indicators.
type PerformanceHandler struct {
	store SymbolStore
}

// NewPerformanceHandler creates the ticker_performance handler
func NewPerformanceHandler(store SymbolStore) *PerformanceHandler {
	return &PerformanceHandler{store: store}
}

// CardID implements Handler
func (h *PerformanceHandler) CardID() string {
	return "ticker_performance"
}

// Handle implements Handler
func (h *PerformanceHandler) Handle(ctx context.Context, tradingDate time.Time, symbol string) (*contracts.DerivedResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol required for ticker_performance", contracts.ErrValidation)
	}

	row, err := h.store.SymbolEOD(ctx, tradingDate, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch symbol eod: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s on %s", contracts.ErrNoDataForDate, symbol, tradingDate.Format(contracts.DateOnly))
	}

	return ScorePerformance(row), nil
}

// ScorePerformance derives classifications for one symbol's EOD row.
// Pure function over the row; classification uses unrounded values.
func ScorePerformance(s *contracts.SymbolEOD) *contracts.DerivedResult {
	momentum := ClassifyBand(s.RSI14, rsiZoneBands)
	volumeStatus := ClassifyBand(s.RVol, rvolBands)
	volatility := ClassifyBand(s.ATRPct, atrVolatilityBands)

	macdStatus := "neutral"
	if hist := s.MACDHistogram(); hist > 0 {
		macdStatus = "bullish"
	} else if hist < 0 {
		macdStatus = "bearish"
	}

	trend := "mixed"
	aboveMA20 := s.DistMA20 > 0
	aboveMA50 := s.DistMA50 > 0
	if aboveMA20 && aboveMA50 {
		trend = "uptrend"
	} else if !aboveMA20 && !aboveMA50 {
		trend = "downtrend"
	}

	// Confluence across trend, MACD and RSI; an even split stays Neutral.
	bullish, bearish := 0, 0
	switch trend {
	case "uptrend":
		bullish++
	case "downtrend":
		bearish++
	}
	switch macdStatus {
	case "bullish":
		bullish++
	case "bearish":
		bearish++
	}
	if s.RSI14 > 60 {
		bullish++
	} else if s.RSI14 < 40 {
		bearish++
	}
	classification := Confluence(bullish, bearish)

	direction := "flat"
	arrow := "→"
	if s.R1DPct > 0 {
		direction, arrow = "up", "↑"
	} else if s.R1DPct < 0 {
		direction, arrow = "down", "↓"
	}

	fields := []contracts.MetricField{
		{Key: "symbol", Value: s.Symbol, MinMode: contracts.ModeBeginner},
		{Key: "price", Value: s.Close, MinMode: contracts.ModeBeginner},
		{Key: "price_change_pct", Value: s.R1DPct, MinMode: contracts.ModeBeginner},
		{Key: "price_label", Value: fmt.Sprintf("%s %.2f%% %s today", arrow, math.Abs(s.R1DPct), direction), MinMode: contracts.ModeBeginner},
		{Key: "volume_status", Value: volumeStatus, MinMode: contracts.ModeBeginner},
		{Key: "volume_label", Value: volumeLabel(s.RVol, volumeStatus), MinMode: contracts.ModeBeginner},
		{Key: "momentum", Value: momentum, MinMode: contracts.ModeBeginner},
		{Key: "momentum_label", Value: momentumLabel(s.RSI14, momentum), MinMode: contracts.ModeBeginner},

		{Key: "volume", Value: s.Volume, MinMode: contracts.ModeIntermediate},
		{Key: "rvol", Value: s.RVol, MinMode: contracts.ModeIntermediate},
		{Key: "atr_pct", Value: s.ATRPct, MinMode: contracts.ModeIntermediate},
		{Key: "volatility", Value: volatility, MinMode: contracts.ModeIntermediate},
		{Key: "rsi_14", Value: s.RSI14, MinMode: contracts.ModeIntermediate},
		{Key: "macd", Value: s.MACD, MinMode: contracts.ModeIntermediate},
		{Key: "macd_signal", Value: s.MACDSignal, MinMode: contracts.ModeIntermediate},
		{Key: "macd_status", Value: macdStatus, MinMode: contracts.ModeIntermediate},
		{Key: "dist_ma20", Value: s.DistMA20, MinMode: contracts.ModeIntermediate},
		{Key: "dist_ma50", Value: s.DistMA50, MinMode: contracts.ModeIntermediate},
		{Key: "trend", Value: trend, MinMode: contracts.ModeIntermediate},

		{Key: "macd_hist", Value: s.MACDHistogram(), MinMode: contracts.ModeAdvanced},
		{Key: "bb_position", Value: s.BBPosition, MinMode: contracts.ModeAdvanced},
		{Key: "dist_ma200", Value: s.DistMA200, MinMode: contracts.ModeAdvanced},
		{Key: "r_5d_pct", Value: s.R5DPct, MinMode: contracts.ModeAdvanced},
		{Key: "r_1m_pct", Value: s.R1MPct, MinMode: contracts.ModeAdvanced},
		{Key: "r_ytd_pct", Value: s.RYTDPct, MinMode: contracts.ModeAdvanced},
	}

	return &contracts.DerivedResult{
		Header:         fmt.Sprintf("%s Performance", s.Symbol),
		Classification: classification,
		Summary:        performanceSummary(s, trend, macdStatus),
		Fields:         fields,
	}
}

func volumeLabel(rvol float64, status string) string {
	switch status {
	case "high":
		return fmt.Sprintf("%.1fx normal volume (strong interest)", rvol)
	case "low":
		return fmt.Sprintf("%.1fx normal volume (light trading)", rvol)
	default:
		return fmt.Sprintf("%.1fx normal volume", rvol)
	}
}

func momentumLabel(rsi float64, zone string) string {
	switch zone {
	case "overbought":
		return fmt.Sprintf("RSI %.0f - May be overbought (consider taking profits)", rsi)
	case "oversold":
		return fmt.Sprintf("RSI %.0f - May be oversold (potential bounce)", rsi)
	default:
		return fmt.Sprintf("RSI %.0f - Momentum is neutral", rsi)
	}
}

func performanceSummary(s *contracts.SymbolEOD, trend, macdStatus string) string {
	move := "Minimal change"
	if abs := math.Abs(s.R1DPct); abs > 2 {
		move = "Strong move"
	} else if abs > 1 {
		move = "Moderate move"
	}

	volume := ""
	if s.RVol >= 1.5 {
		volume = " on heavy volume"
	} else if s.RVol < 0.7 {
		volume = " on light volume"
	}

	alignment := "mixed technical signals"
	if trend != "mixed" && ((trend == "uptrend" && macdStatus == "bullish") || (trend == "downtrend" && macdStatus == "bearish")) {
		alignment = fmt.Sprintf("aligned %s signals", trend)
	}

	return fmt.Sprintf("%s (%+.2f%%)%s with %s.", move, s.R1DPct, volume, alignment)
}
