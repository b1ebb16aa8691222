package services

import "errors"

// Sentinel kinds the controllers map onto HTTP statuses. Concrete failures
// wrap one of these so callers can branch with errors.Is while the message
// stays user-facing.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCartItem     = errors.New("invalid cart item")
	ErrIDExhausted         = errors.New("order id space exhausted")
	ErrNotFoundOrForbidden = errors.New("order not found or access denied")
	ErrNotFound            = errors.New("order not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidState        = errors.New("operation not valid for current order status")
)

type apiError struct {
	kind error
	msg  string
}

func (e *apiError) Error() string { return e.msg }

func (e *apiError) Unwrap() error { return e.kind }

func wrapKind(kind error, msg string) error {
	return &apiError{kind: kind, msg: msg}
}
