package cards

import "math"

// Band is one classification bucket. Boundaries are [Lower, Upper):
// inclusive below, exclusive above, so edge values classify exactly once.
type Band struct {
	Lower float64
	Upper float64 // math.Inf(1) for the top band
	Label string
}

// ClassifyBand maps a value into the first matching band. The value must
// be the unrounded upstream number; rounding happens only at display.
func ClassifyBand(value float64, bands []Band) string {
	for _, b := range bands {
		if value >= b.Lower && value < b.Upper {
			return b.Label
		}
	}
	// Below the lowest band; callers define bands covering their domain.
	return bands[0].Label
}

// Fixed classification policies, shared here so boundaries stay
// consistent across cards.
var (
	// % of stocks above their 50-day MA
	breadthHealthBands = []Band{
		{Lower: math.Inf(-1), Upper: 40, Label: "weak"},
		{Lower: 40, Upper: 60, Label: "neutral"},
		{Lower: 60, Upper: math.Inf(1), Label: "healthy"},
	}

	// RSI(14) momentum zones
	rsiZoneBands = []Band{
		{Lower: math.Inf(-1), Upper: 30, Label: "oversold"},
		{Lower: 30, Upper: 70, Label: "neutral"},
		{Lower: 70, Upper: math.Inf(1), Label: "overbought"},
	}

	// Relative volume vs 20-day average
	rvolBands = []Band{
		{Lower: math.Inf(-1), Upper: 0.7, Label: "low"},
		{Lower: 0.7, Upper: 1.5, Label: "normal"},
		{Lower: 1.5, Upper: math.Inf(1), Label: "high"},
	}

	// ATR as % of price, volatility regime
	atrVolatilityBands = []Band{
		{Lower: math.Inf(-1), Upper: 1, Label: "low"},
		{Lower: 1, Upper: 3, Label: "normal"},
		{Lower: 3, Upper: math.Inf(1), Label: "high"},
	}

	// Single-day % change buckets for the index heatmap
	dayChangeBands = []Band{
		{Lower: math.Inf(-1), Upper: -1, Label: "strong loss"},
		{Lower: -1, Upper: 0, Label: "slight loss"},
		{Lower: 0, Upper: 1e-9, Label: "flat"},
		{Lower: 1e-9, Upper: 1, Label: "slight gain"},
		{Lower: 1, Upper: math.Inf(1), Label: "strong gain"},
	}
)

// Confluence aggregates agreement across independent directional signals
// into a qualitative strength label. Even splits resolve to Neutral,
// never an arbitrary pick.
func Confluence(bullish, bearish int) string {
	switch {
	case bullish >= 2 && bearish == 0:
		return "Strong Bullish"
	case bearish >= 2 && bullish == 0:
		return "Bearish"
	case bullish > bearish:
		return "Moderate Bullish"
	case bearish > bullish:
		return "Weak"
	default:
		return "Neutral"
	}
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
