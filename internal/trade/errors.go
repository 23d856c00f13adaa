package trade

import (
	"errors"
	"fmt"
)

// Kind classifies why an order attempt stopped. Every failure surfaced by
// this package carries exactly one kind so the shell can print a specific
// reason instead of a generic stack of wrapped strings.
type Kind string

const (
	KindSymbolNotFound         Kind = "SYMBOL_NOT_FOUND"
	KindPriceUnavailable       Kind = "PRICE_UNAVAILABLE"
	KindNotionalTooLow         Kind = "NOTIONAL_TOO_LOW"
	KindInsufficientBalance    Kind = "INSUFFICIENT_BALANCE"
	KindInvalidOrderParameters Kind = "INVALID_ORDER_PARAMETERS"
	KindRequestFailed          Kind = "REQUEST_FAILED"
)

// Error is a categorized trading failure. Underlying transport errors stay
// reachable through Unwrap for errors.As against api.APIError.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err (or anything it wraps) is a trade error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}
