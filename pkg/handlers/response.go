package handlers

import (
	"encoding/json"
	"net/http"
)

// SuccessResponse writes a success envelope merged with the given payload
// fields and returns any encoding error.
func SuccessResponse(w http.ResponseWriter, payload map[string]any) error {
	body := map[string]any{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(body)
}

// FailureResponse writes a failure envelope and returns any encoding error.
// Every failure is reported as HTTP 400.
func FailureResponse(w http.ResponseWriter, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	return json.NewEncoder(w).Encode(map[string]any{
		"status":  "failure",
		"message": message,
	})
}

// DecodeJSONBody decodes the request body into dst, rejecting unknown fields.
func DecodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
