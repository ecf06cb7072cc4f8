package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketcards/internal/contracts"
	"github.com/wonny/marketcards/pkg/config"
	"github.com/wonny/marketcards/pkg/logger"
)

type fakeSource struct {
	defs []contracts.CardDefinition
	err  error
}

func (f *fakeSource) ListDefinitions(context.Context) ([]contracts.CardDefinition, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.defs, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json", Env: "development"})
}

func testDefs() []contracts.CardDefinition {
	return []contracts.CardDefinition{
		{CardID: "market_breadth", Title: "Market Breadth", IsActive: true},
		{CardID: "ticker_performance", Title: "Ticker Performance", RequiresSymbol: true, IsActive: true},
		{CardID: "index_heatmap", Title: "Index Heatmap", IsActive: false},
	}
}

func TestGate_Resolve(t *testing.T) {
	gate := NewGate(&fakeSource{defs: testDefs()}, time.Minute, testLogger())
	require.NoError(t, gate.Load(context.Background()))

	t.Run("active card", func(t *testing.T) {
		def, err := gate.Resolve(context.Background(), "market_breadth")
		require.NoError(t, err)
		assert.Equal(t, "Market Breadth", def.Title)
	})

	t.Run("unknown card", func(t *testing.T) {
		_, err := gate.Resolve(context.Background(), "nope")
		assert.ErrorIs(t, err, contracts.ErrNotRegistered)
	})

	t.Run("disabled card is not unknown", func(t *testing.T) {
		_, err := gate.Resolve(context.Background(), "index_heatmap")
		assert.ErrorIs(t, err, contracts.ErrCardDisabled)
		assert.NotErrorIs(t, err, contracts.ErrNotRegistered)
	})
}

func TestGate_ResolveLoadsLazily(t *testing.T) {
	// No explicit Load: the first Resolve does a blocking load
	gate := NewGate(&fakeSource{defs: testDefs()}, time.Minute, testLogger())

	def, err := gate.Resolve(context.Background(), "ticker_performance")
	require.NoError(t, err)
	assert.True(t, def.RequiresSymbol)
}

func TestGate_FailedRefreshKeepsSnapshot(t *testing.T) {
	source := &fakeSource{defs: testDefs()}
	gate := NewGate(source, time.Minute, testLogger())
	require.NoError(t, gate.Load(context.Background()))

	source.err = errors.New("db down")
	assert.Error(t, gate.Refresh(context.Background()))

	// Prior snapshot still answers
	def, err := gate.Resolve(context.Background(), "market_breadth")
	require.NoError(t, err)
	assert.Equal(t, "market_breadth", def.CardID)
}

func TestGate_RefreshPicksUpToggle(t *testing.T) {
	source := &fakeSource{defs: testDefs()}
	gate := NewGate(source, time.Minute, testLogger())
	require.NoError(t, gate.Load(context.Background()))

	// Disable a previously active card
	source.defs = []contracts.CardDefinition{
		{CardID: "market_breadth", Title: "Market Breadth", IsActive: false},
	}
	require.NoError(t, gate.Refresh(context.Background()))

	_, err := gate.Resolve(context.Background(), "market_breadth")
	assert.ErrorIs(t, err, contracts.ErrCardDisabled)
}

func TestGate_DefinitionsSorted(t *testing.T) {
	gate := NewGate(&fakeSource{defs: testDefs()}, time.Minute, testLogger())
	require.NoError(t, gate.Load(context.Background()))

	defs := gate.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "index_heatmap", defs[0].CardID)
	assert.Equal(t, "market_breadth", defs[1].CardID)
	assert.Equal(t, "ticker_performance", defs[2].CardID)
}
