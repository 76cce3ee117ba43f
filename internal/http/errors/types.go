package errors

import (
	"fmt"
	"net/http"
)

// AppError es la forma estándar de un error HTTP.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa, solo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithMessage devuelve una copia con otro mensaje.
func (e *AppError) WithMessage(msg string) *AppError {
	n := *e
	n.Message = msg
	return &n
}

// WithCause devuelve una copia con la causa adjunta.
func (e *AppError) WithCause(err error) *AppError {
	n := *e
	n.Err = err
	return &n
}

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request is invalid.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "The request body is not valid JSON.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingToken = &AppError{
		Code:       "MISSING_TOKEN",
		Message:    "The subscription_token query parameter is required.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Required fields are missing.",
		HTTPStatus: http.StatusUnprocessableEntity,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "The request body is too large.",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
)

var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication failed.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method not allowed.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal server error.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
