package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Application error codes. Handlers map these to HTTP statuses via
// StatusForError.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL_ERROR"
	CodeInconsistency       = "INTERNAL_INCONSISTENCY"
	CodeTokenMalformed      = "TOKEN_MALFORMED"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeTokenUnknownSubject = "TOKEN_UNKNOWN_SUBJECT"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewInconsistencyError flags state that violates an invariant the
// application is supposed to uphold. Surfacing one means the write path
// has a defect, not that the caller did anything wrong.
func NewInconsistencyError(message string) *AppError {
	return &AppError{
		Code:    CodeInconsistency,
		Message: message,
	}
}

func NewTokenMalformedError() *AppError {
	return &AppError{
		Code:    CodeTokenMalformed,
		Message: "Token is malformed or has an invalid signature",
	}
}

func NewTokenExpiredError() *AppError {
	return &AppError{
		Code:    CodeTokenExpired,
		Message: "Token has expired",
	}
}

func NewTokenUnknownSubjectError() *AppError {
	return &AppError{
		Code:    CodeTokenUnknownSubject,
		Message: "Token subject no longer exists",
	}
}

// StatusForError maps an application error to its HTTP status code.
// Unknown errors map to 500.
func StatusForError(err error) int {
	appErr, ok := err.(*AppError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized, CodeTokenMalformed, CodeTokenExpired, CodeTokenUnknownSubject:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		// Inconsistency details describe internal state, not something
		// the caller can act on. Mask them behind a generic message.
		if appErr.Code == CodeInconsistency {
			response = ErrorResponse{
				Error: "Internal server error",
				Code:  CodeInternal,
			}
		} else {
			response = ErrorResponse{
				Error: appErr.Message,
				Code:  appErr.Code,
			}
			if appErr.Err != nil {
				response.Details = appErr.Err.Error()
			}
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
