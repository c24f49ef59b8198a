package errors

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Status is the HTTP status a failure of this kind is reported with.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// Error is a classified failure. Message is safe to show to the client; Err is
// the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) error {
	return New(KindValidation, message)
}

func Unauthorized(message string) error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) error {
	return New(KindForbidden, message)
}

func NotFound(message string) error {
	return New(KindNotFound, message)
}

func Conflict(message string) error {
	return New(KindConflict, message)
}

func Persistence(message string, err error) error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Raise writes err as an error envelope. Unclassified and persistence errors are
// reported as internal errors without leaking the cause.
func Raise(c *fiber.Ctx, err error) error {
	var e *Error
	if !stderrors.As(err, &e) {
		return RaiseInternalServerError(c, "unexpected server error")
	}
	if e.Kind == KindPersistence || e.Kind == KindUnknown {
		return RaiseInternalServerError(c, e.Message)
	}
	return RaiseError(c, e.Kind.Status(), e.Message, nil)
}

func RaiseError(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    data})
}

func RaiseUnauthorizedError(c *fiber.Ctx, message string) error {
	return RaiseError(c, fiber.StatusUnauthorized, message, nil)
}

func RaiseInternalServerError(c *fiber.Ctx, data string) error {
	return RaiseError(c, fiber.StatusInternalServerError, "internal error", data)
}
