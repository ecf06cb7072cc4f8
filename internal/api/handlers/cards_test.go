package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketcards/internal/contracts"
	"github.com/wonny/marketcards/pkg/config"
	"github.com/wonny/marketcards/pkg/logger"
)

type fakeService struct {
	lastReq contracts.CardRequest
	resp    *contracts.CardResponse
	err     error
}

func (f *fakeService) GetCard(_ context.Context, req contracts.CardRequest) (*contracts.CardResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

type fakeCatalog struct {
	defs []contracts.CardDefinition
}

func (f *fakeCatalog) Definitions() []contracts.CardDefinition {
	return f.defs
}

func handlerLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json", Env: "development"})
}

func newTestRouter(service *fakeService, catalog *fakeCatalog) http.Handler {
	h := NewCardsHandler(service, catalog, handlerLogger())
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/cards", h.ListCards).Methods("GET")
	r.HandleFunc("/api/v1/cards/{card_id}", h.GetCard).Methods("GET")
	return r
}

func doGet(t *testing.T, router http.Handler, path string, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func successResponse() *contracts.CardResponse {
	return &contracts.CardResponse{
		CardID:  "market_breadth",
		Mode:    contracts.ModeBeginner,
		Header:  "Market Breadth",
		Metrics: map[string]interface{}{"classification": "healthy"},
		Status:  contracts.ResponseStatus{TradingDate: "2026-08-28", GeneratedAt: time.Now().UTC()},
	}
}

func TestGetCard_Success(t *testing.T) {
	service := &fakeService{resp: successResponse()}
	router := newTestRouter(service, &fakeCatalog{})

	rec := doGet(t, router, "/api/v1/cards/market_breadth?mode=beginner", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body contracts.CardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "market_breadth", body.CardID)
	assert.Equal(t, "healthy", body.Metrics["classification"])

	assert.Equal(t, "market_breadth", service.lastReq.CardID)
	assert.Equal(t, contracts.ModeBeginner, service.lastReq.Mode)
	assert.Equal(t, "u1", service.lastReq.CallerID)
}

func TestGetCard_DefaultsToBeginner(t *testing.T) {
	service := &fakeService{resp: successResponse()}
	router := newTestRouter(service, &fakeCatalog{})

	rec := doGet(t, router, "/api/v1/cards/market_breadth", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contracts.ModeBeginner, service.lastReq.Mode)
}

func TestGetCard_QueryParsing(t *testing.T) {
	service := &fakeService{resp: successResponse()}
	router := newTestRouter(service, &fakeCatalog{})

	rec := doGet(t, router, "/api/v1/cards/ticker_performance?mode=advanced&symbol=aapl&date=2026-08-27&fallback=true", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, contracts.ModeAdvanced, service.lastReq.Mode)
	assert.Equal(t, "AAPL", service.lastReq.Symbol) // uppercased before validation
	require.NotNil(t, service.lastReq.Date)
	assert.Equal(t, "2026-08-27", service.lastReq.Date.Format(contracts.DateOnly))
	assert.True(t, service.lastReq.AllowFallback)
}

func TestGetCard_BadInputs(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		userID string
	}{
		{"invalid mode", "/api/v1/cards/market_breadth?mode=expert", "u1"},
		{"invalid date", "/api/v1/cards/market_breadth?date=08-27-2026", "u1"},
		{"invalid fallback", "/api/v1/cards/market_breadth?fallback=maybe", "u1"},
		{"missing caller", "/api/v1/cards/market_breadth", ""},
		{"symbol too long", "/api/v1/cards/ticker_performance?symbol=TOOLONGSYMBOL", "u1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router := newTestRouter(&fakeService{resp: successResponse()}, &fakeCatalog{})
			rec := doGet(t, router, c.path, c.userID)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetCard_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown card", fmt.Errorf("%w: nope", contracts.ErrNotRegistered), http.StatusNotFound},
		{"disabled card", fmt.Errorf("%w: x", contracts.ErrCardDisabled), http.StatusForbidden},
		{"no data for date", fmt.Errorf("%w: 2026-08-30", contracts.ErrNoDataForDate), http.StatusNotFound},
		{"window exhausted", fmt.Errorf("%w: last 10 days", contracts.ErrNoDataInWindow), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: symbol required", contracts.ErrValidation), http.StatusBadRequest},
		{"internal", fmt.Errorf("pq: connection reset"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router := newTestRouter(&fakeService{err: c.err}, &fakeCatalog{})
			rec := doGet(t, router, "/api/v1/cards/market_breadth", "u1")
			assert.Equal(t, c.code, rec.Code)
		})
	}
}

func TestGetCard_InternalErrorIsOpaque(t *testing.T) {
	router := newTestRouter(&fakeService{err: fmt.Errorf("pq: password authentication failed")}, &fakeCatalog{})
	rec := doGet(t, router, "/api/v1/cards/market_breadth", "u1")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestListCards_IncludesDisabled(t *testing.T) {
	catalog := &fakeCatalog{defs: []contracts.CardDefinition{
		{CardID: "index_heatmap", Title: "Index Heatmap", IsActive: false},
		{CardID: "market_breadth", Title: "Market Breadth", IsActive: true},
	}}
	router := newTestRouter(&fakeService{}, catalog)

	rec := doGet(t, router, "/api/v1/cards", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Cards []cardListEntry `json:"cards"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.False(t, body.Cards[0].IsActive)
}
