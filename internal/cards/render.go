package cards

import (
	"math"

	"github.com/wonny/marketcards/internal/contracts"
)

// Render projects a DerivedResult into a CardResponse for one mode.
// It only selects fields already present in the result; no value is
// re-derived here, so projections of the same result can never disagree.
// ⭐ SSOT: 모드별 필드 노출 규칙은 여기서만
func Render(cardID string, result *contracts.DerivedResult, mode contracts.Mode, education []string, status contracts.ResponseStatus) *contracts.CardResponse {
	metrics := make(map[string]interface{})

	// Every mode sees the top-level classification.
	metrics["classification"] = result.Classification

	for _, f := range result.Fields {
		if mode.Includes(f.MinMode) {
			metrics[f.Key] = f.Value
		}
	}

	if result.CompositeScore != nil {
		if mode == contracts.ModeBeginner {
			// Display rounding only; the classification was computed on
			// the unrounded value.
			metrics["score"] = int(math.Round(*result.CompositeScore))
		} else {
			metrics["composite_score"] = *result.CompositeScore
		}
	}

	switch mode {
	case contracts.ModeBeginner:
		if result.Summary != "" {
			metrics["summary"] = result.Summary
		}
	case contracts.ModeAdvanced:
		if len(result.Components) > 0 {
			metrics["components"] = componentBreakdown(result.Components)
		}
	}

	response := &contracts.CardResponse{
		CardID:  cardID,
		Mode:    mode,
		Header:  result.Header,
		Metrics: metrics,
		Status:  status,
	}
	if mode == contracts.ModeBeginner {
		response.Education = education
	}
	return response
}

// componentBreakdown exposes every component score and the weight
// actually applied, so the composite can be reproduced from the output.
func componentBreakdown(components []contracts.ScoreComponent) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(components))
	for _, c := range components {
		out = append(out, map[string]interface{}{
			"name":         c.Name,
			"score":        c.Score,
			"weight":       c.Weight,
			"contribution": c.Contribution(),
		})
	}
	return out
}
