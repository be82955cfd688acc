package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates malformed or missing input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")
)

var (
	ErrProductNotFound  = &Error{Kind: ErrNotFound, Msg: "product not found"}
	ErrCartItemNotFound = &Error{Kind: ErrNotFound, Msg: "cart item not found"}
	ErrOrderNotFound    = &Error{Kind: ErrNotFound, Msg: "order not found"}
	ErrProductExists    = &Error{Kind: ErrConflict, Msg: "product already exists"}
	ErrCartEmpty        = &Error{Kind: ErrInvalidArgument, Msg: "cart is empty"}
	ErrInvalidID        = &Error{Kind: ErrInvalidArgument, Msg: "invalid id"}

	ErrQuantityOutOfRange = InvalidFields("qty: quantity out of range")
)

// Error carries one of the kind sentinels together with a caller-facing message.
type Error struct {
	Kind    error
	Msg     string
	Details []string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Invalid builds an ErrInvalidArgument error with optional field-path details.
func Invalid(msg string, details ...string) *Error {
	return &Error{Kind: ErrInvalidArgument, Msg: msg, Details: details}
}

// InvalidFields builds an ErrInvalidArgument error whose message lists every
// "<field path>: <problem>" detail.
func InvalidFields(details ...string) *Error {
	return &Error{Kind: ErrInvalidArgument, Msg: strings.Join(details, "; "), Details: details}
}
