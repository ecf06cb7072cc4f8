package cards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketcards/internal/contracts"
)

type fakeIndexStore struct {
	rows map[string]*contracts.SymbolEOD
	err  error
}

func (f *fakeIndexStore) SymbolEODBatch(context.Context, time.Time, []string) (map[string]*contracts.SymbolEOD, error) {
	return f.rows, f.err
}

func indexRows(spy, qqq, dia, iwm float64) map[string]*contracts.SymbolEOD {
	mk := func(symbol string, change float64) *contracts.SymbolEOD {
		return &contracts.SymbolEOD{Symbol: symbol, R1DPct: change, Close: 100, Volume: 1_000_000, RVol: 1.0}
	}
	return map[string]*contracts.SymbolEOD{
		"SPY": mk("SPY", spy),
		"QQQ": mk("QQQ", qqq),
		"DIA": mk("DIA", dia),
		"IWM": mk("IWM", iwm),
	}
}

func TestScoreHeatmap_AllUpStrongly(t *testing.T) {
	result := ScoreHeatmap(indexRows(1.2, 2.1, 1.1, 1.5))

	assert.Equal(t, "Very Positive", result.Classification)

	leader, ok := result.Field("leader")
	require.True(t, ok)
	assert.Contains(t, leader.Value, "Nasdaq 100")

	laggard, _ := result.Field("laggard")
	assert.Contains(t, laggard.Value, "Dow Jones")
}

func TestScoreHeatmap_Mixed(t *testing.T) {
	result := ScoreHeatmap(indexRows(0.3, -0.5, 0.1, -1.2))
	assert.Equal(t, "Mixed", result.Classification)

	correlation, _ := result.Field("correlation")
	assert.Contains(t, correlation.Value, "Low")
}

func TestScoreHeatmap_AllDown(t *testing.T) {
	result := ScoreHeatmap(indexRows(-0.4, -0.8, -0.3, -0.6))
	assert.Equal(t, "Negative", result.Classification)
}

func TestScoreHeatmap_SmallCapLeadership(t *testing.T) {
	result := ScoreHeatmap(indexRows(0.5, 0.2, 0.4, 1.4))

	rotation, ok := result.Field("rotation")
	require.True(t, ok)
	assert.Contains(t, rotation.Value, "Small cap leadership")
}

func TestHeatmapHandler_MissingIndexFailsWhole(t *testing.T) {
	rows := indexRows(0.5, 0.2, 0.4, 1.4)
	delete(rows, "DIA")

	h := NewHeatmapHandler(&fakeIndexStore{rows: rows})
	_, err := h.Handle(context.Background(), time.Now(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrNoDataForDate)
	assert.Contains(t, err.Error(), "DIA")
}
