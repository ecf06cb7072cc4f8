package cards

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/marketcards/internal/contracts"
)

// BreadthStore is the minimal market-data access this card needs
type BreadthStore interface {
	BreadthDaily(ctx context.Context, date time.Time) (*contracts.BreadthDaily, error)
}

// BreadthHandler serves the market_breadth card: advancing vs declining
// issues, new highs/lows, % of stocks above key moving averages.
type BreadthHandler struct {
	store BreadthStore
}

// NewBreadthHandler creates the market_breadth handler
func NewBreadthHandler(store BreadthStore) *BreadthHandler {
	return &BreadthHandler{store: store}
}

// CardID implements Handler
func (h *BreadthHandler) CardID() string {
	return "market_breadth"
}

// Handle implements Handler
func (h *BreadthHandler) Handle(ctx context.Context, tradingDate time.Time, _ string) (*contracts.DerivedResult, error) {
	row, err := h.store.BreadthDaily(ctx, tradingDate)
	if err != nil {
		return nil, fmt.Errorf("fetch breadth: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: breadth %s", contracts.ErrNoDataForDate, tradingDate.Format(contracts.DateOnly))
	}

	return ScoreBreadth(row), nil
}

// ScoreBreadth derives the breadth classification from one breadth row.
// Pure function: same row always yields the same result.
func ScoreBreadth(b *contracts.BreadthDaily) *contracts.DerivedResult {
	health := ClassifyBand(b.AboveMA50Pct, breadthHealthBands)
	bias := breadthBias(b.AboveMA50Pct, b.ADRatio, b.NewHighs, b.NewLows)

	fields := []contracts.MetricField{
		{Key: "pct_above_ma50", Value: b.AboveMA50Pct, MinMode: contracts.ModeBeginner},
		{Key: "advancing", Value: b.Advancing, MinMode: contracts.ModeBeginner},
		{Key: "declining", Value: b.Declining, MinMode: contracts.ModeBeginner},
		{Key: "ad_label", Value: fmt.Sprintf("%d stocks up, %d stocks down", b.Advancing, b.Declining), MinMode: contracts.ModeBeginner},
		{Key: "bias", Value: bias, MinMode: contracts.ModeBeginner},

		{Key: "pct_above_ma200", Value: b.AboveMA200Pct, MinMode: contracts.ModeIntermediate},
		{Key: "net_advances", Value: b.NetAdvances(), MinMode: contracts.ModeIntermediate},
		{Key: "ad_ratio", Value: b.ADRatio, MinMode: contracts.ModeIntermediate},
		{Key: "new_highs", Value: b.NewHighs, MinMode: contracts.ModeIntermediate},
		{Key: "new_lows", Value: b.NewLows, MinMode: contracts.ModeIntermediate},
		{Key: "hl_spread", Value: b.HLSpread(), MinMode: contracts.ModeIntermediate},
		{Key: "interpretation", Value: breadthInterpretation(b), MinMode: contracts.ModeIntermediate},

		{Key: "total_volume", Value: b.TotalVolume, MinMode: contracts.ModeAdvanced},
		{Key: "advancing_volume", Value: b.AdvancingVolume, MinMode: contracts.ModeAdvanced},
		{Key: "declining_volume", Value: b.DecliningVolume, MinMode: contracts.ModeAdvanced},
	}

	if b.DecliningVolume > 0 {
		fields = append(fields, contracts.MetricField{
			Key:     "volume_ratio",
			Value:   float64(b.AdvancingVolume) / float64(b.DecliningVolume),
			MinMode: contracts.ModeAdvanced,
		})
	}

	return &contracts.DerivedResult{
		Header:         "Market Breadth",
		Classification: health,
		Summary:        breadthSummary(health, b.NewHighs, b.NewLows),
		Fields:         fields,
	}
}

// breadthBias builds the simple risk bias from breadth internals
func breadthBias(pctAboveMA50, adRatio float64, newHighs, newLows int) map[string]string {
	bias := "neutral"
	focus := "stock-picking; favor relative-strength leaders"
	guardrails := "Reduce risk if new lows expand intraday"

	switch {
	case pctAboveMA50 > 60 && adRatio > 1.0 && newHighs >= newLows:
		bias = "risk_on"
		focus = "favor long continuation; growth/tech if leaders"
		guardrails = "If A/D ratio drops below 1 by midday, scale back risk"
	case pctAboveMA50 < 40 && adRatio < 1.0 && newLows > newHighs:
		bias = "risk_off"
		focus = "defensive; avoid new longs; tighten stops"
		guardrails = "Only take the highest-quality setups with small size"
	}

	return map[string]string{
		"bias":       bias,
		"focus":      focus,
		"guardrails": guardrails,
	}
}

func breadthSummary(health string, newHighs, newLows int) string {
	switch health {
	case "healthy":
		return fmt.Sprintf("Market is healthy. More stocks hitting highs (%d) vs lows (%d).", newHighs, newLows)
	case "weak":
		return fmt.Sprintf("Market is weak. More stocks hitting lows (%d) vs highs (%d).", newLows, newHighs)
	default:
		return "Market breadth is mixed. Watch for a clearer trend."
	}
}

func breadthInterpretation(b *contracts.BreadthDaily) string {
	switch {
	case b.AboveMA50Pct > 60 && b.ADRatio > 1.5 && b.NewHighs > b.NewLows:
		return "Strong breadth: broad participation in rally"
	case b.AboveMA50Pct < 40 && b.ADRatio < 0.7 && b.NewLows > b.NewHighs:
		return "Weak breadth: broad selling pressure"
	case b.AboveMA50Pct > 60 && b.ADRatio < 1.0:
		return "Mixed: index rally but declining internals (potential divergence)"
	default:
		return "Neutral breadth: no clear directional bias"
	}
}
