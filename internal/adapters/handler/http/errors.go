package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

// writeError maps domain errors to status codes. Anything unknown is logged
// and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidPollID),
		errors.Is(err, domain.ErrInvalidOption):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPollNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrSeasonNotFound),
		errors.Is(err, domain.ErrAnglerNotFound),
		errors.Is(err, domain.ErrCatchNotFound),
		errors.Is(err, domain.ErrDidNotVote):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrPollClosed),
		errors.Is(err, domain.ErrAlreadyVoted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrIneligibleVoter),
		errors.Is(err, domain.ErrVoteChangeDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrConcurrentUpdate):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
