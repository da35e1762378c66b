package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/voyagecms/backend/internal/domain"
)

// errResponse is the uniform error envelope for every non-2xx JSON response.
type errResponse struct {
	Error errDetail `json:"error"`
}

type errDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errResponse{Error: errDetail{Code: code, Message: message}})
}

// writeDomainError maps a service error onto an HTTP status. Unknown errors
// become a 500 with a generic message so internals never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidDate):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", trimOpPrefix(err))
	case errors.Is(err, domain.ErrDuplicateDate):
		writeError(w, http.StatusConflict, "duplicate_date", "a day with that date already exists")
	case errors.Is(err, domain.ErrDuplicateSlug):
		writeError(w, http.StatusConflict, "duplicate_slug", "a trip with that slug already exists")
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decode unmarshals the request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathID parses the named chi URL parameter as a positive integer ID.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// trimOpPrefix strips the "pkg.Type.Method: " prefix services attach when
// wrapping sentinel errors, leaving the human-readable part for the client.
func trimOpPrefix(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && !strings.ContainsAny(msg[:i], " ") {
		return msg[i+2:]
	}
	return msg
}
