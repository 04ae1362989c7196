// Package response writes the storefront's JSON envelope:
//
//	{"success": true, "message": "...", "<field>": ...}
//	{"success": false, "message": "Product not found"}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/logger"
)

// Fields are merged into the top level of the envelope next to "success".
type Fields map[string]any

// JSON writes v with the given status. The encoder escapes <, > and & so
// stored markup cannot break out of a script context.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	enc.Encode(v) //nolint:errcheck
}

// OK sends 200 {"success":true, ...fields}.
func OK(w http.ResponseWriter, fields Fields) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	JSON(w, http.StatusOK, body)
}

// Message sends 200 {"success":true,"message":msg}.
func Message(w http.ResponseWriter, msg string) {
	OK(w, Fields{"message": msg})
}

// Fail sends {"success":false,"message":msg} with status.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"success": false, "message": msg})
}

// Err maps err through apperr and writes the failure envelope. Server-side
// failures are logged with their cause; the client only sees the message.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	Fail(w, status, apperr.Message(err))
}
