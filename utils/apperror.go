package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to clients. The code is stable and machine-readable;
// clients branch on it ("you already applied" vs "job no longer open" vs
// "not allowed").
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidState = "INVALID_STATE"
	CodeDuplicate    = "DUPLICATE"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is a client-facing error with a taxonomy code and HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Status: fiber.StatusBadRequest}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return &AppError{Code: CodeUnauthorized, Message: message, Status: fiber.StatusUnauthorized}
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "You don't have permission to do this"
	}
	return &AppError{Code: CodeForbidden, Message: message, Status: fiber.StatusForbidden}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Status: fiber.StatusNotFound}
}

func InvalidState(message string) *AppError {
	return &AppError{Code: CodeInvalidState, Message: message, Status: fiber.StatusConflict}
}

func Duplicate(message string) *AppError {
	return &AppError{Code: CodeDuplicate, Message: message, Status: fiber.StatusConflict}
}

func Internal() *AppError {
	return &AppError{Code: CodeInternal, Message: "Something went wrong", Status: fiber.StatusInternalServerError}
}

// RespondError writes err as a JSON error response. Typed errors keep their
// code and status; anything else is logged server-side and collapsed to an
// opaque internal error so driver details never reach the client.
func RespondError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(appErr)
	}
	log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
	internal := Internal()
	return c.Status(internal.Status).JSON(internal)
}
