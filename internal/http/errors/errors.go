// Package errors traduce errores de servicio a respuestas JSON {code, message}.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/hellolist/internal/apperr"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FromError convierte err en AppError según su apperr.Kind. Solo Validation
// expone su texto; el resto sale con un mensaje genérico.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return ErrBadRequest.WithMessage(apperr.PublicMessage(err)).WithCause(err)
	case apperr.Auth, apperr.UnknownToken:
		return ErrUnauthorized.WithCause(err)
	default:
		return ErrInternalServerError.WithCause(err)
	}
}

// WriteError escribe la respuesta. Los 5xx se loguean con la cadena de causas
// completa usando el logger del request.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)

	if appErr.HTTPStatus >= 500 && r != nil {
		logger.From(r.Context()).Error("request failed",
			logger.String("code", appErr.Code),
			logger.String("kind", apperr.KindOf(err).String()),
			logger.CauseChain(appErr.Err),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: appErr.Code, Message: appErr.Message})
}
