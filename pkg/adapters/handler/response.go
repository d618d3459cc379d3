package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Code   string            `json:"code"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	writeJSON(w, status, errorResponse{Code: code, Error: message, Fields: fields})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// writeServiceError maps the domain error taxonomy to a status code. Any
// unclassified error is a storage failure: logged, and reported without
// detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var rule *domain.BusinessRuleError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "The given data was invalid.", verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.As(err, &rule):
		writeError(w, http.StatusConflict, rule.Code, rule.Message, nil)
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Internal server error", nil)
	}
}

// decodeJSON reads a capped JSON body into target. Unknown fields are
// ignored. On failure the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body too large", nil)
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is required", nil)
	default:
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", nil)
	}
	return false
}

// pathID reads a positive integer path value. Anything else is answered
// with 404, the same as an id that does not exist.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
		return 0, false
	}
	return id, true
}
