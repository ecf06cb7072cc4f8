package contracts

import "time"

// Request outcomes recorded in the usage log
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// UsageLogEntry is one append-only telemetry record. Nothing on the
// request path ever reads these back.
type UsageLogEntry struct {
	CallerID      string     `json:"caller_id"`
	CardID        string     `json:"card_id"`
	Mode          Mode       `json:"mode"`
	Symbol        string     `json:"symbol,omitempty"`
	RequestedDate *time.Time `json:"requested_date,omitempty"`
	TradingDate   *time.Time `json:"trading_date,omitempty"`
	Outcome       string     `json:"outcome"`
	ErrorKind     string     `json:"error_kind,omitempty"`
	LatencyMS     int64      `json:"latency_ms"`
	Timestamp     time.Time  `json:"timestamp"`
}
