// Package respond provides shared JSON response utilities for API handlers.
// Every route answers inside the {status, message, data} envelope per
// spec §6, replacing the teacher's ETag/cache-TTL response shape (that
// machinery belonged to the read-through cache layer dropped with
// internal/cache — see DESIGN.md).
package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard response shape for every API route.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a 200 response carrying data.
func OK(w http.ResponseWriter, data interface{}) {
	writeEnvelope(w, http.StatusOK, Envelope{Status: "ok", Data: data})
}

// OKWithMessage writes a 200 response carrying both a message and data.
// Pipeline-trigger routes use this to report partial stage errors in the
// body while still answering 200 on a handled request (spec §6).
func OKWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeEnvelope(w, http.StatusOK, Envelope{Status: "ok", Message: message, Data: data})
}

// Error writes an error response at the given HTTP status.
func Error(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Status: "error", Message: message})
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError writes a 500 error response.
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
