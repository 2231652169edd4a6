package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode error", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Error: message})
}

// respondStoreError maps the store error taxonomy onto HTTP statuses:
// validation failures are the client's fault, missing records are 404,
// anything else is a backend failure reported with a generic message.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, backendMessage string) {
	switch {
	case errors.Is(err, store.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "Record not found")
	default:
		slog.ErrorContext(r.Context(), "Backend error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, backendMessage)
	}
}
