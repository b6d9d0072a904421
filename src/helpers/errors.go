package helpers

import (
	"fmt"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type SignalsError struct {
	Message string
	Symbol  string
	Cause   error
}

func (e *SignalsError) Error() string {
	msg := e.Message
	if e.Symbol != "" {
		msg = fmt.Sprintf("%s: %s", e.Symbol, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SignalsError) Unwrap() error {
	return e.Cause
}

// Distinct types so callers can branch with errors.As.
type EmptySeriesError struct{ SignalsError }
type DuplicateTickerError struct{ SignalsError }
type UnknownTickerError struct{ SignalsError }
type RealtimeFetchError struct{ SignalsError }
type MalformedQueryTimeError struct{ SignalsError }
type ZeroPriceError struct{ SignalsError }
type StaleQuoteError struct{ SignalsError }
type ConfigurationError struct{ SignalsError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewEmptySeriesError(symbol string, cause error) error {
	return &EmptySeriesError{SignalsError{Message: "historical fetch returned no samples", Symbol: symbol, Cause: cause}}
}

func NewDuplicateTickerError(symbol string) error {
	return &DuplicateTickerError{SignalsError{Message: "ticker already tracked", Symbol: symbol}}
}

func NewUnknownTickerError(symbol string) error {
	return &UnknownTickerError{SignalsError{Message: "ticker not tracked", Symbol: symbol}}
}

func NewRealtimeFetchError(symbol string, cause error) error {
	return &RealtimeFetchError{SignalsError{Message: "realtime quote fetch failed", Symbol: symbol, Cause: cause}}
}

func NewMalformedQueryTimeError(raw string, cause error) error {
	return &MalformedQueryTimeError{SignalsError{Message: fmt.Sprintf("cannot parse query time %q", raw), Cause: cause}}
}

func NewZeroPriceError(symbol string, index int) error {
	return &ZeroPriceError{SignalsError{Message: fmt.Sprintf("non-positive price at bar %d", index), Symbol: symbol}}
}

func NewStaleQuoteError(symbol string, msg string) error {
	return &StaleQuoteError{SignalsError{Message: msg, Symbol: symbol}}
}

func NewConfigurationError(msg string, cause error) error {
	return &ConfigurationError{SignalsError{Message: msg, Cause: cause}}
}
