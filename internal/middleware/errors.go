package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody is the error envelope shared with the handler package.
type errorBody struct {
	Status   string   `json:"status"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Required []string `json:"required,omitempty"`
	Current  string   `json:"current,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeErrorBody(w, status, errorBody{Status: "error", Code: code, Message: message})
}

func writeErrorBody(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
