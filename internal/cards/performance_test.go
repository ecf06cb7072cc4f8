package cards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketcards/internal/contracts"
)

type fakeSymbolStore struct {
	row *contracts.SymbolEOD
	err error
}

func (f *fakeSymbolStore) SymbolEOD(context.Context, time.Time, string) (*contracts.SymbolEOD, error) {
	return f.row, f.err
}

func bullishEOD() *contracts.SymbolEOD {
	return &contracts.SymbolEOD{
		Symbol:     "AAPL",
		Close:      232.50,
		R1DPct:     2.4,
		R5DPct:     4.1,
		R1MPct:     8.9,
		RYTDPct:    21.3,
		Volume:     95_000_000,
		RVol:       1.8,
		ATRPct:     2.1,
		RSI14:      66.0,
		MACD:       1.2,
		MACDSignal: 0.8,
		BBPosition: 0.85,
		DistMA20:   3.2,
		DistMA50:   6.8,
		DistMA200:  15.1,
	}
}

func TestScorePerformance_StrongBullish(t *testing.T) {
	// Uptrend + positive MACD histogram + RSI>60: all three signals agree
	result := ScorePerformance(bullishEOD())

	assert.Equal(t, "Strong Bullish", result.Classification)
	assert.Equal(t, "AAPL Performance", result.Header)

	trend, ok := result.Field("trend")
	require.True(t, ok)
	assert.Equal(t, "uptrend", trend.Value)

	volume, _ := result.Field("volume_status")
	assert.Equal(t, "high", volume.Value)

	momentum, _ := result.Field("momentum")
	assert.Equal(t, "neutral", momentum.Value) // RSI 66 is below the 70 overbought line
}

func TestScorePerformance_EvenSplitIsNeutral(t *testing.T) {
	row := bullishEOD()
	row.DistMA20 = 1.0
	row.DistMA50 = -1.0 // mixed trend: no vote
	row.MACD = 1.0
	row.MACDSignal = 1.5 // bearish histogram
	row.RSI14 = 65.0     // bullish vote

	result := ScorePerformance(row)
	assert.Equal(t, "Neutral", result.Classification)
}

func TestScorePerformance_Downtrend(t *testing.T) {
	row := bullishEOD()
	row.R1DPct = -3.1
	row.DistMA20 = -4.0
	row.DistMA50 = -8.0
	row.MACD = -1.5
	row.MACDSignal = -0.5
	row.RSI14 = 28.0

	result := ScorePerformance(row)
	assert.Equal(t, "Bearish", result.Classification)

	momentum, _ := result.Field("momentum")
	assert.Equal(t, "oversold", momentum.Value)
}

func TestScorePerformance_ModeTagging(t *testing.T) {
	result := ScorePerformance(bullishEOD())

	price, _ := result.Field("price")
	assert.Equal(t, contracts.ModeBeginner, price.MinMode)

	rsi, _ := result.Field("rsi_14")
	assert.Equal(t, contracts.ModeIntermediate, rsi.MinMode)

	bb, _ := result.Field("bb_position")
	assert.Equal(t, contracts.ModeAdvanced, bb.MinMode)
}

func TestPerformanceHandler_RequiresSymbol(t *testing.T) {
	h := NewPerformanceHandler(&fakeSymbolStore{})

	_, err := h.Handle(context.Background(), time.Now(), "")
	assert.ErrorIs(t, err, contracts.ErrValidation)
}

func TestPerformanceHandler_NoRow(t *testing.T) {
	h := NewPerformanceHandler(&fakeSymbolStore{row: nil})

	_, err := h.Handle(context.Background(), time.Now(), "AAPL")
	assert.ErrorIs(t, err, contracts.ErrNoDataForDate)
}
