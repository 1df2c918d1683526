package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/user-directory/internal/domain"
)

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error body of the form {"message": "..."}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// respondError translates a service error into an HTTP response. Invalid
// input becomes a 400 with the formatted message; everything else (store
// unavailable, unexpected failures) becomes an opaque 500, with the detail
// kept in the server log.
func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, clientMessage(err))
		return
	}
	slog.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// clientMessage strips the error-class prefix, leaving the text meant for
// the client.
func clientMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, domain.ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}
