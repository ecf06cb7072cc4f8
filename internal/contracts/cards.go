package contracts

import (
	"fmt"
	"time"
)

// Mode is the audience level for a card response.
// 모드는 필드 노출만 바꾸고 계산은 바꾸지 않음
type Mode string

const (
	ModeBeginner     Mode = "beginner"
	ModeIntermediate Mode = "intermediate"
	ModeAdvanced     Mode = "advanced"
)

// ParseMode validates and converts a mode string
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBeginner, ModeIntermediate, ModeAdvanced:
		return Mode(s), nil
	case "":
		return ModeBeginner, nil
	default:
		return "", fmt.Errorf("%w: invalid mode %q", ErrValidation, s)
	}
}

// Rank orders modes by how much they expose (beginner < intermediate < advanced)
func (m Mode) Rank() int {
	switch m {
	case ModeIntermediate:
		return 1
	case ModeAdvanced:
		return 2
	default:
		return 0
	}
}

// Includes reports whether a field with minimum mode min is visible at mode m
func (m Mode) Includes(min Mode) bool {
	return m.Rank() >= min.Rank()
}

// CardRequest is one validated card request. Immutable once constructed.
type CardRequest struct {
	CardID        string     `json:"card_id" validate:"required,max=64"`
	Mode          Mode       `json:"mode" validate:"required,oneof=beginner intermediate advanced"`
	Symbol        string     `json:"symbol,omitempty" validate:"omitempty,alphanum,uppercase,max=10"`
	Date          *time.Time `json:"date,omitempty"`
	AllowFallback bool       `json:"allow_fallback"`

	// CallerID is opaque to the engine; used only for telemetry.
	CallerID string `json:"-" validate:"required,max=128"`
}

// ScoreComponent is one weighted input to a composite score
type ScoreComponent struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`  // 0-100
	Weight float64 `json:"weight"` // normalized weight actually applied
}

// Contribution returns the component's share of the composite score
func (c ScoreComponent) Contribution() float64 {
	return c.Score * c.Weight
}

// MetricField is one named value in a DerivedResult, tagged with the
// minimum mode at which the renderer exposes it.
type MetricField struct {
	Key     string
	Value   interface{}
	MinMode Mode
}

// DerivedResult is the full computed output of a card's scorer.
// It is a deterministic pure function of the fetched metrics; rendering
// only selects from it and never re-derives values.
type DerivedResult struct {
	Header         string
	Classification string
	Summary        string // plain-language explanation, beginner-facing
	CompositeScore *float64
	Components     []ScoreComponent
	Missing        []string // components absent upstream (not an error)
	Fields         []MetricField
}

// Field looks up a metric field by key
func (r *DerivedResult) Field(key string) (MetricField, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return MetricField{}, false
}

// ResponseStatus carries request-resolution metadata on every response
type ResponseStatus struct {
	TradingDate       string    `json:"trading_date_used"`
	RequestedDate     string    `json:"requested_date,omitempty"`
	FallbackApplied   bool      `json:"fallback_applied"`
	MissingComponents []string  `json:"missing_components,omitempty"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// CardResponse is the mode-projected view of a DerivedResult.
// Never mutated after construction; one per request.
type CardResponse struct {
	CardID    string                 `json:"card_id"`
	Mode      Mode                   `json:"mode"`
	Header    string                 `json:"header"`
	Metrics   map[string]interface{} `json:"metrics"`
	Education []string               `json:"education,omitempty"`
	Status    ResponseStatus         `json:"status"`
}

// DateOnly is the canonical date format for trading dates
const DateOnly = "2006-01-02"
