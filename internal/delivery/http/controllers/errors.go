package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"imagetagger/internal/delivery/http/helpers"
	"imagetagger/internal/domain"
)

// writeServiceError maps a service error onto the JSON error envelope.
// Only unexpected failures are logged; their details never reach the body.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, domain.PublicMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, domain.PublicMessage(err))
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, domain.PublicMessage(err))
	}
}
