package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"reelvault/internal/apperr"
	"reelvault/internal/library"
	"reelvault/internal/session"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("JSON encode failed")
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeError maps library errors to HTTP statuses.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, session.ErrNoUser):
		writeJSON(w, log, http.StatusUnauthorized, errorBody("missing X-User-ID header"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, log, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, log, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, library.ErrProcessingFailed):
		log.WithError(err).Error("Reel processing failed")
		writeJSON(w, log, http.StatusInternalServerError, errorBody("failed to process reel"))
	default:
		log.WithError(err).Error("Request failed")
		writeJSON(w, log, http.StatusInternalServerError, errorBody("internal error"))
	}
}
