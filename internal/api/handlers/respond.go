package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/calebowu/ghostwriter/internal/core/errs"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps domain errors onto HTTP statuses. Upstream model
// failures surface as 502 so clients can tell them from our own bugs.
func respondError(w http.ResponseWriter, err error) {
	var (
		validationErr *errs.ValidationError
		authzErr      *errs.AuthzError
		notFoundErr   *errs.NotFoundError
		rateLimitErr  *errs.RateLimitError
		extractErr    *errs.ExtractionError
		generateErr   *errs.GenerationError
	)

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Error()})
	case errors.As(err, &authzErr):
		respondJSON(w, http.StatusForbidden, map[string]string{"error": authzErr.Error()})
	case errors.As(err, &notFoundErr):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": notFoundErr.Error()})
	case errors.As(err, &rateLimitErr):
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":     rateLimitErr.Error(),
			"remaining": rateLimitErr.Remaining,
			"action":    rateLimitErr.Action,
		})
	case errors.As(err, &extractErr), errors.As(err, &generateErr):
		log.Error().Err(err).Msg("model call failed")
		respondJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
