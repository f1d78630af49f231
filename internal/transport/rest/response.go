package rest

import (
	"encoding/json"
	"log"
	"net/http"
)

type APIError struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

// writeJSON writes v as the response body. Success payloads are the
// contract shapes themselves; only errors get the APIError envelope.
func writeJSON(w http.ResponseWriter, httpStatus int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] write response error: %v", err)
	}
}

func Error(w http.ResponseWriter, message string, errorCode int, httpStatus int) {
	writeJSON(w, httpStatus, APIError{ErrorCode: errorCode, Message: message})
}

func ErrorBadRequest(w http.ResponseWriter, message string) {
	Error(w, message, 400, http.StatusBadRequest)
}

func ErrorNotFound(w http.ResponseWriter, message string) {
	Error(w, message, 404, http.StatusNotFound)
}

func ErrorInternal(w http.ResponseWriter, message string) {
	Error(w, message, 500, http.StatusInternalServerError)
}
