package contracts

import "errors"

// Expected request outcomes. These are returned as wrapped sentinels and
// translated by the API layer; only unrecognized errors surface as faults.
var (
	// ErrNotRegistered means the card identifier is unknown to the catalog.
	ErrNotRegistered = errors.New("card not registered")

	// ErrCardDisabled means the card exists but is currently turned off.
	// 미등록과 반드시 구분 (운영 중 토글되는 상태)
	ErrCardDisabled = errors.New("card disabled")

	// ErrNoDataInWindow means the resolver exhausted its bounded lookback.
	ErrNoDataInWindow = errors.New("no market data within lookback window")

	// ErrNoDataForDate means an explicitly requested date has no data and
	// the caller did not allow fallback.
	ErrNoDataForDate = errors.New("no market data for requested date")

	// ErrValidation marks caller errors rejected before any fetch.
	ErrValidation = errors.New("validation failed")
)

// OutcomeFor maps an error to the usage-log outcome
func OutcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNotRegistered),
		errors.Is(err, ErrNoDataInWindow),
		errors.Is(err, ErrNoDataForDate):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// ErrorKind maps an error to a stable telemetry kind
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrCardDisabled):
		return "disabled"
	case errors.Is(err, ErrNoDataInWindow):
		return "no_data_in_window"
	case errors.Is(err, ErrNoDataForDate):
		return "no_data_for_date"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
