package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Compare with errors.Is; the HTTP boundary maps each kind to a
// stable status code.
var (
	ErrNotFound       = errors.New("not found")
	ErrNotEnoughStock = errors.New("not enough stock")
	ErrConflict       = errors.New("conflict")
	ErrInvalidInput   = errors.New("invalid input")
)

// Error carries the kind of a domain failure plus a message that is safe to
// return to API clients.
type Error struct {
	Op      string // operation that failed, e.g. "reservation.Cancel"
	Kind    error  // one of the Err* kinds above
	Message string // client facing message
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(op string, kind error, format string, args ...interface{}) *Error {
	return &Error{
		Op:      op,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func CategoryNotFound(op string, categoryID uint) *Error {
	return newError(op, ErrNotFound, "Category with ID %d not found.", categoryID)
}

func CategoryNameNotFound(op, name string) *Error {
	return newError(op, ErrNotFound, "Category with name '%s' not found.", name)
}

func ProductNotFound(op string, productID uint) *Error {
	return newError(op, ErrNotFound, "Product with ID %d not found.", productID)
}

func DiscountNotFound(op string, discountID uint) *Error {
	return newError(op, ErrNotFound, "Discount with ID %d not found.", discountID)
}

func ReservationNotFound(op string, reservationID uint) *Error {
	return newError(op, ErrNotFound, "Reservation with ID %d not found.", reservationID)
}

// ActiveReservationNotFound is returned when cancelling a reservation that
// is missing or already cancelled.
func ActiveReservationNotFound(op string, reservationID uint) *Error {
	return newError(op, ErrNotFound, "Active reservation with ID %d not found.", reservationID)
}

func NotEnoughStock(op string, productID uint, requested, available int) *Error {
	return newError(op, ErrNotEnoughStock,
		"Not enough stock for product with ID %d: requested %d, available %d.",
		productID, requested, available)
}

func Conflict(op, format string, args ...interface{}) *Error {
	return newError(op, ErrConflict, format, args...)
}

func InvalidInput(op, format string, args ...interface{}) *Error {
	return newError(op, ErrInvalidInput, format, args...)
}

// IsNotFound reports whether err represents a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ClientMessage returns the message of the first *Error in err's chain, or
// "" when err is not a domain error.
func ClientMessage(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}
