package api

import (
	"encoding/json"
	"net/http"
)

type messageBody struct {
	Message string `json:"message"`
}

type failureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		// best effort; the client may be gone
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeMessage writes {"message": msg}, the error shape of login.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// writeFailure writes {"success": false, "error": msg}, the error shape of verify.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, failureBody{Error: msg})
}
