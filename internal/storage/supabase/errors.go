package supabase

import (
	"encoding/json"
	"errors"
	"fmt"

	"bizimport/internal/datasource/httpds"
)

// APIError is a non-2xx PostgREST response. Code, Message, Details and Hint
// come from the JSON error body when it has one.
type APIError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Details    string
	Hint       string

	err error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: %s: %v", e.Op, e.err)
	}
	msg := fmt.Sprintf("supabase: %s: status %d", e.Op, e.StatusCode)
	if e.Code != "" {
		msg += " " + e.Code
	}
	msg += ": " + e.Message
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	if e.Hint != "" {
		msg += " hint: " + e.Hint
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.err }

// apiError converts a *httpds.StatusError into an *APIError.
func apiError(op string, err error) error {
	var se *httpds.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("supabase: %s: %w", op, err)
	}
	ae := &APIError{Op: op, StatusCode: se.StatusCode, err: err}
	// Details is sometimes null or an object; ignore decode errors and fall
	// back to the raw status error.
	var body struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
		Hint    json.RawMessage `json:"hint"`
	}
	if json.Unmarshal([]byte(se.Body), &body) == nil {
		ae.Code = body.Code
		ae.Message = body.Message
		ae.Details = rawText(body.Details)
		ae.Hint = rawText(body.Hint)
	}
	return ae
}

func rawText(m json.RawMessage) string {
	if len(m) == 0 || string(m) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(m, &s) == nil {
		return s
	}
	return string(m)
}
