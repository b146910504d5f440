// Package handlers exposes the catalog services over HTTP
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bookcatalog/backend/internal/apperrors"
	authMiddleware "github.com/bookcatalog/backend/internal/auth/middleware"
	"github.com/bookcatalog/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pagination defaults
const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// AccessGate attaches access policies to routes
type AccessGate interface {
	Require(policy authMiddleware.Policy) func(http.Handler) http.Handler
}

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger    *zap.Logger
	validator *validation.Validator
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondAppError translates a service error into a response.
// Unknown errors are logged and reported as 500 with a generic message.
func (h *BaseHandler) respondAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := apperrors.StatusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.respondError(w, status, message)
		return
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Details != nil {
		h.respondJSON(w, status, map[string]any{"error": message, "details": appErr.Details})
		return
	}

	h.respondError(w, status, message)
}

// decodeAndValidate decodes the JSON request body into dst and validates it
func (h *BaseHandler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("invalid request body").WithCause(err)
	}
	return h.validator.Validate(dst)
}

// parsePagination reads page and page_size query parameters, defaulting to 1 and 10.
// page_size is capped at 100.
func parsePagination(r *http.Request) (int, int, error) {
	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := queryInt(r, "page_size", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 || pageSize < 1 {
		return 0, 0, apperrors.Validation("page and page_size must be greater than 0")
	}
	if pageSize > maxPageSize {
		return 0, 0, apperrors.Validation(fmt.Sprintf("page_size must not exceed %d", maxPageSize))
	}
	return page, pageSize, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation("invalid " + name + " parameter")
	}
	return value, nil
}

// pathID reads a positive integer path parameter
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, apperrors.Validation("invalid " + name + " parameter")
	}
	return id, nil
}
