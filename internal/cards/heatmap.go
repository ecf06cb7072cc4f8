package cards

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wonny/marketcards/internal/contracts"
)

// IndexStore is the minimal market-data access for the heatmap card
type IndexStore interface {
	SymbolEODBatch(ctx context.Context, date time.Time, symbols []string) (map[string]*contracts.SymbolEOD, error)
}

// Index ETFs tracked by the heatmap, in display order
var heatmapIndices = []struct {
	Symbol string
	Name   string
}{
	{"SPY", "S&P 500"},
	{"QQQ", "Nasdaq 100"},
	{"DIA", "Dow Jones"},
	{"IWM", "Russell 2000"},
}

// HeatmapHandler serves the index_heatmap card: side-by-side performance
// of the major index ETFs with leader/laggard and rotation analysis.
type HeatmapHandler struct {
	store IndexStore
}

// NewHeatmapHandler creates the index_heatmap handler
func NewHeatmapHandler(store IndexStore) *HeatmapHandler {
	return &HeatmapHandler{store: store}
}

// CardID implements Handler
func (h *HeatmapHandler) CardID() string {
	return "index_heatmap"
}

// Handle implements Handler. All four indices must be present; a partial
// set never produces a partially-filled result.
func (h *HeatmapHandler) Handle(ctx context.Context, tradingDate time.Time, _ string) (*contracts.DerivedResult, error) {
	symbols := make([]string, len(heatmapIndices))
	for i, idx := range heatmapIndices {
		symbols[i] = idx.Symbol
	}

	rows, err := h.store.SymbolEODBatch(ctx, tradingDate, symbols)
	if err != nil {
		return nil, fmt.Errorf("fetch index eod: %w", err)
	}

	var missing []string
	for _, idx := range heatmapIndices {
		if rows[idx.Symbol] == nil {
			missing = append(missing, idx.Symbol)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: indices %s on %s", contracts.ErrNoDataForDate,
			strings.Join(missing, ","), tradingDate.Format(contracts.DateOnly))
	}

	return ScoreHeatmap(rows), nil
}

// ScoreHeatmap derives the heatmap classification from the four index
// rows. Pure function; requires all indices present.
func ScoreHeatmap(rows map[string]*contracts.SymbolEOD) *contracts.DerivedResult {
	type entry struct {
		Symbol    string  `json:"symbol"`
		Name      string  `json:"name"`
		ChangePct float64 `json:"change_pct"`
		Category  string  `json:"category"`
	}

	entries := make([]entry, 0, len(heatmapIndices))
	changes := make([]float64, 0, len(heatmapIndices))
	leader, laggard := heatmapIndices[0].Symbol, heatmapIndices[0].Symbol

	for _, idx := range heatmapIndices {
		row := rows[idx.Symbol]
		entries = append(entries, entry{
			Symbol:    idx.Symbol,
			Name:      idx.Name,
			ChangePct: row.R1DPct,
			Category:  ClassifyBand(row.R1DPct, dayChangeBands),
		})
		changes = append(changes, row.R1DPct)

		if row.R1DPct > rows[leader].R1DPct {
			leader = idx.Symbol
		}
		if row.R1DPct < rows[laggard].R1DPct {
			laggard = idx.Symbol
		}
	}

	mood, moodLabel := marketMood(changes)

	// Multi-timeframe view for intermediate mode
	type timeframeEntry struct {
		Symbol  string  `json:"symbol"`
		R1DPct  float64 `json:"r_1d_pct"`
		R5DPct  float64 `json:"r_5d_pct"`
		R1MPct  float64 `json:"r_1m_pct"`
		RYTDPct float64 `json:"r_ytd_pct"`
		RVol    float64 `json:"rvol"`
	}
	timeframes := make([]timeframeEntry, 0, len(heatmapIndices))
	for _, idx := range heatmapIndices {
		row := rows[idx.Symbol]
		timeframes = append(timeframes, timeframeEntry{
			Symbol: idx.Symbol, R1DPct: row.R1DPct, R5DPct: row.R5DPct,
			R1MPct: row.R1MPct, RYTDPct: row.RYTDPct, RVol: row.RVol,
		})
	}

	// Raw detail for advanced mode
	type detailEntry struct {
		Symbol string  `json:"symbol"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
		RVol   float64 `json:"rvol"`
	}
	details := make([]detailEntry, 0, len(heatmapIndices))
	for _, idx := range heatmapIndices {
		row := rows[idx.Symbol]
		details = append(details, detailEntry{
			Symbol: idx.Symbol, Close: row.Close, Volume: row.Volume, RVol: row.RVol,
		})
	}

	fields := []contracts.MetricField{
		{Key: "indices", Value: entries, MinMode: contracts.ModeBeginner},
		{Key: "leader", Value: fmt.Sprintf("%s leading at %+.2f%%", indexName(leader), rows[leader].R1DPct), MinMode: contracts.ModeBeginner},
		{Key: "laggard", Value: fmt.Sprintf("%s lagging at %+.2f%%", indexName(laggard), rows[laggard].R1DPct), MinMode: contracts.ModeBeginner},

		{Key: "timeframes", Value: timeframes, MinMode: contracts.ModeIntermediate},
		{Key: "rotation", Value: rotationAnalysis(rows["QQQ"].R1DPct, rows["SPY"].R1DPct, rows["IWM"].R1DPct), MinMode: contracts.ModeIntermediate},
		{Key: "correlation", Value: correlationLabel(changes), MinMode: contracts.ModeIntermediate},

		{Key: "detail", Value: details, MinMode: contracts.ModeAdvanced},
	}

	return &contracts.DerivedResult{
		Header:         "Index Heatmap",
		Classification: mood,
		Summary:        moodLabel,
		Fields:         fields,
	}
}

func indexName(symbol string) string {
	for _, idx := range heatmapIndices {
		if idx.Symbol == symbol {
			return idx.Name
		}
	}
	return symbol
}

// marketMood classifies the day from sign agreement across the indices
func marketMood(changes []float64) (string, string) {
	var sum float64
	positive := 0
	for _, c := range changes {
		sum += c
		if c > 0 {
			positive++
		}
	}
	avg := sum / float64(len(changes))

	switch {
	case positive == len(changes) && avg > 1:
		return "Very Positive", "All indices up strongly."
	case positive == len(changes):
		return "Positive", "All indices gaining."
	case positive == 0 && avg < -1:
		return "Very Negative", "All indices down strongly."
	case positive == 0:
		return "Negative", "All indices losing."
	default:
		return "Mixed", "Diverging index performance."
	}
}

// rotationAnalysis reads sector/size rotation from relative performance
func rotationAnalysis(techHeavy, broadMarket, smallCaps float64) string {
	switch {
	case techHeavy > broadMarket && broadMarket > smallCaps:
		return "Growth/Tech leadership - large cap tech outperforming"
	case smallCaps > broadMarket && broadMarket > techHeavy:
		return "Small cap leadership - risk-on rotation"
	case math.Abs(techHeavy-broadMarket) < 0.2:
		return "Broad market move - little sector rotation"
	case techHeavy < broadMarket:
		return "Value rotation - broader market outperforming tech"
	default:
		return "Mixed rotation - no clear sector leadership"
	}
}

func correlationLabel(changes []float64) string {
	allPositive, allNegative := true, true
	for _, c := range changes {
		if c <= 0 {
			allPositive = false
		}
		if c >= 0 {
			allNegative = false
		}
	}
	if allPositive || allNegative {
		return "High - all indices moving together"
	}
	return "Low - indices diverging (sector rotation)"
}
