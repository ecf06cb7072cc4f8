package cards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketcards/internal/contracts"
)

type fakeBreadthStore struct {
	row *contracts.BreadthDaily
	err error
}

func (f *fakeBreadthStore) BreadthDaily(context.Context, time.Time) (*contracts.BreadthDaily, error) {
	return f.row, f.err
}

func healthyBreadth() *contracts.BreadthDaily {
	return &contracts.BreadthDaily{
		Date:            time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		AboveMA50Pct:    68.5,
		AboveMA200Pct:   61.2,
		Advancing:       2900,
		Declining:       1100,
		NewHighs:        180,
		NewLows:         25,
		ADRatio:         2.64,
		TotalVolume:     9_000_000_000,
		AdvancingVolume: 6_500_000_000,
		DecliningVolume: 2_500_000_000,
	}
}

func TestScoreBreadth_Healthy(t *testing.T) {
	result := ScoreBreadth(healthyBreadth())

	assert.Equal(t, "healthy", result.Classification)
	assert.Contains(t, result.Summary, "healthy")

	bias, ok := result.Field("bias")
	require.True(t, ok)
	assert.Equal(t, "risk_on", bias.Value.(map[string]string)["bias"])

	// Derived, not restated from the row
	net, ok := result.Field("net_advances")
	require.True(t, ok)
	assert.Equal(t, 1800, net.Value)

	ratio, ok := result.Field("volume_ratio")
	require.True(t, ok)
	assert.InDelta(t, 2.6, ratio.Value.(float64), 0.01)
	assert.Equal(t, contracts.ModeAdvanced, ratio.MinMode)
}

func TestScoreBreadth_Weak(t *testing.T) {
	b := &contracts.BreadthDaily{
		AboveMA50Pct: 22.0,
		Advancing:    800,
		Declining:    3200,
		NewHighs:     5,
		NewLows:      240,
		ADRatio:      0.25,
	}

	result := ScoreBreadth(b)
	assert.Equal(t, "weak", result.Classification)

	bias, _ := result.Field("bias")
	assert.Equal(t, "risk_off", bias.Value.(map[string]string)["bias"])
}

func TestScoreBreadth_NoVolumeRatioWithoutDecliningVolume(t *testing.T) {
	b := healthyBreadth()
	b.DecliningVolume = 0

	result := ScoreBreadth(b)
	_, ok := result.Field("volume_ratio")
	assert.False(t, ok)
}

func TestBreadthHandler_NoRow(t *testing.T) {
	h := NewBreadthHandler(&fakeBreadthStore{row: nil})

	_, err := h.Handle(context.Background(), time.Now(), "")
	assert.ErrorIs(t, err, contracts.ErrNoDataForDate)
}

func TestBreadthHandler_CardID(t *testing.T) {
	assert.Equal(t, "market_breadth", NewBreadthHandler(nil).CardID())
}
