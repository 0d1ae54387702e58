package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point, just log
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error logs err and writes {"error": <status text>, "message": message}.
// Client errors are logged at warn level, the rest at error level.
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	fields := []zap.Field{zap.Int("status", status)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, fields...)
	} else {
		ctxzap.Warn(ctx, message, fields...)
	}

	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// FromError maps a domain error to its HTTP status and writes it.
func FromError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := Classify(err)
	Error(ctx, w, status, message, err)
}

// Classify returns the status code and public message for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrFAQNotFound), errors.Is(err, entity.ErrClientNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, entity.ErrDuplicateQuestion), errors.Is(err, entity.ErrUsernameTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, entity.ErrInvalidCredentials), errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, entity.ErrClientNotApproved), errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, entity.ErrEmptyMessage):
		return http.StatusBadRequest, "empty message"
	case errors.Is(err, entity.ErrMessageTooLong),
		errors.Is(err, entity.ErrInvalidSession),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrUnsupportedFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrInvalidExtension):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
