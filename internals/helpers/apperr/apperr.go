// file: internals/helpers/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Error taxonomy
=================================*/

// Sentinel categories. Services wrap these with %w plus a human message so
// controllers can map them to HTTP statuses without inspecting strings.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence error")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

/* ===============================
   HTTP mapping
=================================*/

// HTTPStatus maps a taxonomy error to the status the JsonError envelope
// should carry. Unknown errors are treated as 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the user-facing message. Persistence and unknown errors
// collapse to a generic message so datastore details never leak out.
func Message(err error) string {
	if errors.Is(err, ErrPersistence) || HTTPStatus(err) >= 500 {
		return "internal server error"
	}
	return err.Error()
}
