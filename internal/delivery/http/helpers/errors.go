package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"inviteticketing/internal/domain"
)

// WriteServiceError maps a service error to the JSON envelope. Unmapped errors
// are logged and answered with a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFoundMsg string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, verr.Error())
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrInvitationUsed),
		errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, rootMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, InternalErrorMessage)
	}
}

// rootMessage returns the message of the sentinel the error wraps, so that
// internal context added by services does not leak into responses.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrInvalidSignature,
		domain.ErrInvitationUsed,
		domain.ErrDuplicateEmail,
		domain.ErrInvalidInput,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
