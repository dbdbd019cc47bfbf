package relay

import (
	"encoding/json"
	"net/http"
)

// ValidationError describes a malformed relay request. It is written to
// the client as a 400 response.
type ValidationError struct {
	Message  string
	Received map[string]bool
	Expected map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// MarshalJSON renders the error body sent to clients.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	body := struct {
		Error    string            `json:"error"`
		Received map[string]bool   `json:"received,omitempty"`
		Expected map[string]string `json:"expected,omitempty"`
	}{e.Message, e.Received, e.Expected}
	return json.Marshal(body)
}

// Validation messages.
const (
	msgMissingParams = "Missing required parameters"
	msgInvalidTypes  = "Invalid parameter types"
	msgInvalidJSON   = "Invalid JSON body"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}
