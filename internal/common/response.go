package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ErrorBody represents a consistent error payload returned by the API.
type ErrorBody struct {
	Status    int               `json:"status"`
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Now is the clock used for error timestamps.
var Now = time.Now

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an error response using the canonical error shape.
func JSONError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	JSON(w, status, ErrorBody{
		Status:    status,
		Code:      code,
		Message:   message,
		Errors:    fields,
		Timestamp: Now().UTC(),
	})
}

// WriteError maps err onto the canonical error shape. AppErrors keep their status and
// fields; anything else is reported as an unexpected failure with the cause attached.
func WriteError(w http.ResponseWriter, err error) {
	if err == nil {
		JSONError(w, http.StatusInternalServerError, CodeInternal, MsgUnexpected, nil)
		return
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = CodeBadRequest
		}
		JSONError(w, status, code, appErr.Message, appErr.Fields)
		return
	}
	JSONError(w, http.StatusInternalServerError, CodeInternal, MsgUnexpected, map[string]string{"error": err.Error()})
}
