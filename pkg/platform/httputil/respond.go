// Package httputil holds the JSON response envelope shared by the
// middleware chain and the HTTP transport, so the error surface stays
// single-sourced.
package httputil

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// WriteJSON writes payload as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes the standard error envelope. The description goes
// through the JSON encoder, so any text is safe to pass.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	WriteJSON(w, status, errorBody{Error: code, Description: description})
}
