package cards

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/marketcards/internal/contracts"
	"github.com/wonny/marketcards/pkg/config"
)

// SummaryStore is the market-data access for the composite summary card
type SummaryStore interface {
	BreadthDaily(ctx context.Context, date time.Time) (*contracts.BreadthDaily, error)
	SymbolEOD(ctx context.Context, date time.Time, symbol string) (*contracts.SymbolEOD, error)
	SMA200(ctx context.Context, date time.Time, symbol string) (*float64, error)
	VIXClose(ctx context.Context, date time.Time) (*float64, error)
}

// SummaryMetrics is the raw input of the market_summary scorer. Breadth
// is mandatory; the other components are optional and their absence
// degrades the composite instead of failing the request.
type SummaryMetrics struct {
	Breadth   *contracts.BreadthDaily
	SPYClose  *float64
	SPYSMA200 *float64
	VIX       *float64
}

// Composite label thresholds, inclusive on the lower bound
const (
	summaryBullishThreshold = 65.0
	summaryNeutralThreshold = 40.0
)

// SummaryHandler serves the market_summary card: one 0-100 health score
// combining breadth, regime, volatility and trend components.
type SummaryHandler struct {
	store   SummaryStore
	weights config.SummaryWeights
}

// NewSummaryHandler creates the market_summary handler
func NewSummaryHandler(store SummaryStore, weights config.SummaryWeights) *SummaryHandler {
	return &SummaryHandler{store: store, weights: weights}
}

// CardID implements Handler
func (h *SummaryHandler) CardID() string {
	return "market_summary"
}

// Handle implements Handler
func (h *SummaryHandler) Handle(ctx context.Context, tradingDate time.Time, _ string) (*contracts.DerivedResult, error) {
	breadth, err := h.store.BreadthDaily(ctx, tradingDate)
	if err != nil {
		return nil, fmt.Errorf("fetch breadth: %w", err)
	}
	if breadth == nil {
		return nil, fmt.Errorf("%w: breadth %s", contracts.ErrNoDataForDate, tradingDate.Format(contracts.DateOnly))
	}

	metrics := SummaryMetrics{Breadth: breadth}

	// Optional components: fetch failures and absent rows both degrade
	// gracefully rather than failing the card.
	if spy, err := h.store.SymbolEOD(ctx, tradingDate, "SPY"); err == nil && spy != nil {
		close := spy.Close
		metrics.SPYClose = &close
	}
	if sma, err := h.store.SMA200(ctx, tradingDate, "SPY"); err == nil {
		metrics.SPYSMA200 = sma
	}
	if vix, err := h.store.VIXClose(ctx, tradingDate); err == nil {
		metrics.VIX = vix
	}

	return ScoreSummary(metrics, h.weights), nil
}

// ScoreSummary computes the composite market health score. Components
// absent upstream are excluded and the remaining weights renormalized,
// so the score always stays in [0, 100] and nothing is fabricated; the
// absent set is carried forward for transparency.
func ScoreSummary(m SummaryMetrics, w config.SummaryWeights) *contracts.DerivedResult {
	b := m.Breadth

	breadthScore := clamp(b.AboveMA50Pct, 0, 100)
	regimeScore, regimeLabel := regimeComponent(b)

	type candidate struct {
		name   string
		score  float64
		weight float64
		ok     bool
	}
	candidates := []candidate{
		{"breadth", breadthScore, w.Breadth, true},
		{"regime", regimeScore, w.Regime, true},
	}

	if m.VIX != nil {
		candidates = append(candidates, candidate{"volatility", volatilityComponent(*m.VIX), w.Volatility, true})
	} else {
		candidates = append(candidates, candidate{name: "volatility", weight: w.Volatility})
	}

	if m.SPYClose != nil && m.SPYSMA200 != nil {
		trendScore := 30.0
		if *m.SPYClose > *m.SPYSMA200 {
			trendScore = 80.0
		}
		candidates = append(candidates, candidate{"trend", trendScore, w.Trend, true})
	} else {
		candidates = append(candidates, candidate{name: "trend", weight: w.Trend})
	}

	var totalWeight float64
	for _, c := range candidates {
		if c.ok {
			totalWeight += c.weight
		}
	}

	var components []contracts.ScoreComponent
	var missing []string
	var composite float64
	for _, c := range candidates {
		if !c.ok {
			missing = append(missing, c.name)
			continue
		}
		normalized := c.weight / totalWeight
		components = append(components, contracts.ScoreComponent{
			Name:   c.name,
			Score:  c.score,
			Weight: normalized,
		})
		composite += c.score * normalized
	}
	composite = clamp(composite, 0, 100)

	// Label computed on the unrounded composite.
	label := "Bearish"
	if composite >= summaryBullishThreshold {
		label = "Bullish"
	} else if composite >= summaryNeutralThreshold {
		label = "Neutral"
	}

	spyTrend := "No data"
	if m.SPYClose != nil && m.SPYSMA200 != nil {
		if *m.SPYClose > *m.SPYSMA200 {
			spyTrend = "Above 200-day average"
		} else {
			spyTrend = "Below 200-day average"
		}
	}

	fields := []contracts.MetricField{
		{Key: "regime", Value: regimeLabel, MinMode: contracts.ModeBeginner},
		{Key: "breadth_pct", Value: b.AboveMA50Pct, MinMode: contracts.ModeBeginner},
		{Key: "spy_trend", Value: spyTrend, MinMode: contracts.ModeBeginner},
		{Key: "guidance", Value: summaryGuidance(composite), MinMode: contracts.ModeBeginner},
		{Key: "bias", Value: summaryBias(label, b.AboveMA50Pct), MinMode: contracts.ModeBeginner},

		{Key: "pct_above_ma200", Value: b.AboveMA200Pct, MinMode: contracts.ModeIntermediate},
		{Key: "hl_ratio", Value: fmt.Sprintf("%d/%d", b.NewHighs, b.NewLows), MinMode: contracts.ModeIntermediate},

		{Key: "thresholds", Value: map[string]float64{
			"bullish": summaryBullishThreshold,
			"neutral": summaryNeutralThreshold,
		}, MinMode: contracts.ModeAdvanced},
	}

	return &contracts.DerivedResult{
		Header:         "Market Summary",
		Classification: label,
		Summary:        fmt.Sprintf("%s market (%.0f/100). %s", label, composite, summaryGuidance(composite)),
		CompositeScore: &composite,
		Components:     components,
		Missing:        missing,
		Fields:         fields,
	}
}

// regimeComponent scores the market regime from breadth internals
func regimeComponent(b *contracts.BreadthDaily) (float64, string) {
	switch {
	case b.AboveMA50Pct >= 60 && b.NewHighs > b.NewLows:
		return 80.0, "Bullish"
	case b.AboveMA50Pct <= 40 || b.NewLows > b.NewHighs:
		return 20.0, "Bearish"
	default:
		return 50.0, "Neutral"
	}
}

// volatilityComponent scores the VIX level: calm markets score high
func volatilityComponent(vix float64) float64 {
	switch {
	case vix < 15:
		return 80.0
	case vix < 20:
		return 65.0
	case vix < 30:
		return 45.0
	default:
		return 20.0
	}
}

func summaryGuidance(score float64) string {
	switch {
	case score >= summaryBullishThreshold:
		return "Favorable conditions for long positions. Look for quality setups in leading stocks."
	case score >= summaryNeutralThreshold:
		return "Mixed conditions. Be selective. Wait for high-probability setups."
	default:
		return "Weak market. Consider defensive positioning or staying in cash."
	}
}

func summaryBias(label string, aboveMA50 float64) map[string]string {
	if label == "Bullish" && aboveMA50 >= 60 {
		return map[string]string{
			"bias": "risk_on", "focus": "trend continuation",
			"guardrails": "If internals weaken intraday, cut risk",
		}
	}
	if label == "Bearish" && aboveMA50 <= 40 {
		return map[string]string{
			"bias": "risk_off", "focus": "defensive",
			"guardrails": "Only the highest-quality setups, smaller size",
		}
	}
	return map[string]string{
		"bias": "neutral", "focus": "stock-picking",
		"guardrails": "Be selective",
	}
}
