package web

// errors.go provides unified error responses for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode), or statusFor(err) picks the code
//  3. Error is mapped via core.MapError to a coded user message
//  4. Technical error is logged with the request ID for correlation
//  5. Client receives {"detail", "code", "action"}

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/DataLens/internal/core"
	"github.com/JonMunkholm/DataLens/internal/logging"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Action string `json:"action,omitempty"`
}

// respondError logs err and writes its user-facing message as JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	logArgs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", msg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", logArgs...)
	} else {
		logger.Warn("request error", logArgs...)
	}

	writeJSONStatus(w, statusCode, ErrorResponse{
		Detail: msg.Message,
		Code:   msg.Code,
		Action: msg.Action,
	})
}

// statusFor picks the HTTP status for an error from the dataset pipeline.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}

	switch core.MapError(err).Code {
	case "FILE001":
		return http.StatusRequestEntityTooLarge
	case "FILE002", "FILE004", "FILE005", "FILE006", "REQ001":
		return http.StatusBadRequest
	case "REQ002":
		return http.StatusGatewayTimeout
	case "REQ003":
		return http.StatusTooManyRequests
	case "REQ004":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v as a 200 JSON response.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; all that is left is to log.
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// writeJSONStatus writes v as JSON with the given status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
