// Package httpx carries the JSON response helpers shared by the HTTP handlers.
package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

// RetryAfterSeconds is advertised when a write-through persist fails.
const RetryAfterSeconds = "5"

type errorBody struct {
	Error string `json:"error"`
}

type warningBody struct {
	Warning string `json:"warning"`
	Data    any    `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// StatusCode maps the apperr taxonomy onto HTTP status codes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case apperr.IsPersistence(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error body. Internal errors are logged and
// replaced by a generic message.
func Error(w http.ResponseWriter, log *slog.Logger, err error) {
	status := StatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", "err", err)
		msg = "internal error"
	}
	JSON(w, status, errorBody{Error: msg})
}

// Result writes data with the success status unless err is a
// PersistenceError, in which case the mutation is reported as applied but not
// durable: 503 with Retry-After and the payload under "data".
func Result(w http.ResponseWriter, log *slog.Logger, status int, data any, err error) {
	if err == nil {
		JSON(w, status, data)
		return
	}
	if apperr.IsPersistence(err) {
		log.Warn("mutation applied but not persisted", "err", err)
		w.Header().Set("Retry-After", RetryAfterSeconds)
		JSON(w, http.StatusServiceUnavailable, warningBody{Warning: err.Error(), Data: data})
		return
	}
	Error(w, log, err)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("body", err.Error())
	}
	return nil
}
