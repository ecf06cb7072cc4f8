package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/wonny/marketcards/internal/contracts"
	"github.com/wonny/marketcards/pkg/logger"
)

var validate = validator.New()

// CardService serves one card request end to end
type CardService interface {
	GetCard(ctx context.Context, req contracts.CardRequest) (*contracts.CardResponse, error)
}

// CatalogReader lists the registered card definitions
type CatalogReader interface {
	Definitions() []contracts.CardDefinition
}

// CardsHandler handles the card API endpoints
// ⭐ SSOT: 카드 API 핸들러는 이 구조체에서만
type CardsHandler struct {
	service CardService
	catalog CatalogReader
	logger  *logger.Logger
}

// NewCardsHandler creates a new cards handler
func NewCardsHandler(service CardService, catalog CatalogReader, log *logger.Logger) *CardsHandler {
	return &CardsHandler{
		service: service,
		catalog: catalog,
		logger:  log,
	}
}

// cardListEntry is the public shape of one catalog row
type cardListEntry struct {
	CardID           string `json:"card_id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	RequiresSymbol   bool   `json:"requires_symbol"`
	IsActive         bool   `json:"is_active"`
	ShortDescription string `json:"short_description,omitempty"`
}

// ListCards returns the card catalog, disabled cards included
// GET /api/v1/cards
func (h *CardsHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	defs := h.catalog.Definitions()

	entries := make([]cardListEntry, 0, len(defs))
	for _, d := range defs {
		entries = append(entries, cardListEntry{
			CardID:           d.CardID,
			Title:            d.Title,
			Category:         d.Category,
			RequiresSymbol:   d.RequiresSymbol,
			IsActive:         d.IsActive,
			ShortDescription: d.ShortDescription,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cards": entries,
		"count": len(entries),
	})
}

// GetCard computes and renders one card
// GET /api/v1/cards/{card_id}?mode=&symbol=&date=&fallback=
func (h *CardsHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	mode, err := contracts.ParseMode(query.Get("mode"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid mode (valid: beginner, intermediate, advanced)")
		return
	}

	req := contracts.CardRequest{
		CardID:   mux.Vars(r)["card_id"],
		Mode:     mode,
		Symbol:   strings.ToUpper(strings.TrimSpace(query.Get("symbol"))),
		CallerID: strings.TrimSpace(r.Header.Get("X-User-Id")),
	}

	if req.CallerID == "" {
		respondError(w, http.StatusBadRequest, "Missing X-User-Id header")
		return
	}

	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse(contracts.DateOnly, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
			return
		}
		req.Date = &date
	}

	if raw := query.Get("fallback"); raw != "" {
		allow, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'fallback' value (expected true or false)")
			return
		}
		req.AllowFallback = allow
	}

	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.service.GetCard(ctx, req)
	if err != nil {
		h.respondCardError(w, r, req, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// respondCardError maps pipeline errors to HTTP statuses. Unrecognized
// errors stay opaque to the caller.
func (h *CardsHandler) respondCardError(w http.ResponseWriter, r *http.Request, req contracts.CardRequest, err error) {
	switch {
	case errors.Is(err, contracts.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, contracts.ErrNotRegistered):
		respondError(w, http.StatusNotFound, "Card not found: "+req.CardID)

	case errors.Is(err, contracts.ErrCardDisabled):
		respondError(w, http.StatusForbidden, "Card is currently disabled: "+req.CardID)

	case errors.Is(err, contracts.ErrNoDataForDate), errors.Is(err, contracts.ErrNoDataInWindow):
		respondError(w, http.StatusNotFound, err.Error())

	default:
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"card_id": req.CardID,
			"path":    r.URL.Path,
		}).Error("Card request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
