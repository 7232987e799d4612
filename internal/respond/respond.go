// Package respond is the single place response bodies are shaped. Every
// handler and middleware funnels through it so success and failure payloads
// stay consistent:
//
//	{"success": true,  "data": ..., "message": "...", "count": N}
//	{"success": false, "message": "...", "errors": [{"field","message"}, ...]}
package respond

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// FieldError tags a single validation violation with the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type envelope struct {
	Success    bool         `json:"success"`
	Data       any          `json:"data,omitempty"`
	Message    string       `json:"message,omitempty"`
	Count      *int         `json:"count,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	RetryAfter int          `json:"retryAfter,omitempty"` // seconds, rate-limit rejections only
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("respond: encode failed: %v", err)
	}
}

// JSON writes a success envelope with the given status and payload.
func JSON(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusOK, data, message)
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusCreated, data, message)
}

// List writes a 200 success envelope carrying a count alongside the data.
func List(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

// Error writes a failure envelope with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// ValidationFailed writes a 400 carrying every collected violation, so the
// caller never has to discover problems one round trip at a time.
func ValidationFailed(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Message: "Validation error",
		Errors:  errs,
	})
}

// Unauthorized writes a 401 failure.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden writes the fixed-shape permission-denied response. The message is
// deliberately generic so it never leaks whether the resource exists.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound writes a 404 failure.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Conflict writes a 409 failure (duplicate email and similar).
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message)
}

// RateLimited writes a 429 with a machine-readable retry-after hint, both in
// the body and as a Retry-After header.
func RateLimited(w http.ResponseWriter, message string, retryAfterSeconds int) {
	if retryAfterSeconds < 0 {
		retryAfterSeconds = 0
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	writeJSON(w, http.StatusTooManyRequests, envelope{
		Success:    false,
		Message:    message,
		RetryAfter: retryAfterSeconds,
	})
}

// Internal logs the underlying error server-side and writes a 500 with a
// generic message. Internals are never serialized to the client.
func Internal(w http.ResponseWriter, err error) {
	if err != nil {
		log.Printf("internal error: %v", err)
	}
	Error(w, http.StatusInternalServerError, "Internal server error")
}

