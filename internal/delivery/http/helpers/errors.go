package helpers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"devevent/internal/domain"
)

// WriteDomainError maps err onto a status code and envelope. Only unexpected
// errors are logged; their message is not echoed to the client.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		writeValidation(w, validation)
	case errors.As(err, &conflict):
		msg := conflict.Message
		if msg == "" {
			msg = conflict.Error()
		}
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, msg)
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrUnavailable):
		logger.WarnContext(r.Context(), "storage unavailable", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "service temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(r.Context(), "request timed out", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

func writeValidation(w http.ResponseWriter, v *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, APIResponse{Error: &APIError{
		Code:    ErrCodeBadRequest,
		Message: strings.Join(v.Problems, "; "),
		Details: v.Problems,
	}})
}
