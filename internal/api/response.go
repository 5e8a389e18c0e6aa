// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

// Package api implements the HTTP API: the chi router, request validation,
// the response envelope, and the handlers serving the in-memory dataset
// snapshot.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/meeplegraph/internal/logging"
	"github.com/tomtom215/meeplegraph/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError carries structured error information.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIMeta carries response metadata.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs float64   `json:"duration_ms,omitempty"`
}

// Error codes used across the API.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeExternalService    = "EXTERNAL_SERVICE_FAILED"
)

// ResponseWriter provides consistent response writing.
type ResponseWriter struct{}

// NewResponseWriter creates a response writer.
func NewResponseWriter() *ResponseWriter {
	return &ResponseWriter{}
}

// Success writes a successful response with data.
func (rw *ResponseWriter) Success(w http.ResponseWriter, r *http.Request, data interface{}) {
	rw.write(w, r, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    metaFor(r),
	})
}

// Accepted writes a 202 for asynchronous work that has been queued.
func (rw *ResponseWriter) Accepted(w http.ResponseWriter, r *http.Request, data interface{}) {
	rw.write(w, r, http.StatusAccepted, APIResponse{
		Success: true,
		Data:    data,
		Meta:    metaFor(r),
	})
}

// Error writes an error response with the given status, code, and message.
func (rw *ResponseWriter) Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	rw.ErrorWithDetails(w, r, status, code, message, nil)
}

// ErrorWithDetails writes an error response with structured details.
func (rw *ResponseWriter) ErrorWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	rw.write(w, r, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(r.Context()),
		},
		Meta: metaFor(r),
	})
}

// BadRequest writes a 400 response.
func (rw *ResponseWriter) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// NotFound writes a 404 response.
func (rw *ResponseWriter) NotFound(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusNotFound, ErrCodeNotFound, message)
}

// ValidationError writes a 400 response with per-field details.
func (rw *ResponseWriter) ValidationError(w http.ResponseWriter, r *http.Request, message string, details interface{}) {
	rw.ErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidation, message, details)
}

// ServiceUnavailable writes a 503 response.
func (rw *ResponseWriter) ServiceUnavailable(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// ExternalServiceError writes a 502 response for upstream BGG failures.
func (rw *ResponseWriter) ExternalServiceError(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusBadGateway, ErrCodeExternalService, message)
}

// InternalError writes a 500 response.
func (rw *ResponseWriter) InternalError(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusInternalServerError, ErrCodeInternal, message)
}

func (rw *ResponseWriter) write(w http.ResponseWriter, r *http.Request, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Headers are already sent; all we can do is log.
		logging.Error().
			Err(err).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("Failed to encode API response")
	}
}

func metaFor(r *http.Request) *APIMeta {
	return &APIMeta{
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	}
}
