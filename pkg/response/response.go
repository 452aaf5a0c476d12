// Package response writes the JSON bodies returned by every endpoint.
//
// A body carries exactly one top-level key: data, message or error.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/productapi/pkg/apperr"
)

// DataBody wraps a successful payload.
type DataBody struct {
	Data interface{} `json:"data"`
}

// MessageBody carries a human-readable outcome.
type MessageBody struct {
	Message string `json:"message"`
}

// ErrorBody carries a failure description.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Data sends {"data": v}.
func Data(w http.ResponseWriter, status int, v interface{}) {
	JSON(w, status, DataBody{Data: v})
}

// Message sends {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Message: msg})
}

// Error sends {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Fail renders err. Not-found errors use the message key; every other kind
// uses the error key. Unclassified errors become a 500 with their text.
func Fail(w http.ResponseWriter, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if appErr.Kind == apperr.NotFound {
		Message(w, appErr.StatusCode(), appErr.Message)
		return
	}
	Error(w, appErr.StatusCode(), appErr.Message)
}
