package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSON(w, status, ErrorResponse{Success: false, Error: errMsg, Message: message})
}

// WriteBadRequest reports a client mistake described by err.
func WriteBadRequest(w http.ResponseWriter, err string) {
	WriteError(w, http.StatusBadRequest, err, "Bad request")
}

// WriteInternalError reports an unexpected failure.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred")
}
