// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/combine"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
type Body struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RenderBadRequest writes a 400 with msg.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	WriteJSON(w, http.StatusBadRequest, Body{Error: "bad_request", Message: msg})
}

// RenderNotFound writes a 404 with msg.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "The requested resource does not exist."
	}
	WriteJSON(w, http.StatusNotFound, Body{Error: "not_found", Message: msg})
}

// NotFound is a chi NotFound handler.
func NotFound(w http.ResponseWriter, r *http.Request) {
	RenderNotFound(w, r, "")
}

// MethodNotAllowed is a chi MethodNotAllowed handler.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, Body{Error: "method_not_allowed", Message: "Method not allowed."})
}

// ErrorLogger logs server-side details and writes a client-safe message.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err with msg and request context, then writes a 500
// carrying userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	WriteJSON(w, http.StatusInternalServerError, Body{Error: "server_error", Message: userMsg})
}

// HandleQueryError writes the response for an error returned by a listing
// or search: caller mistakes become 400, anything else is a server error.
func (e *ErrorLogger) HandleQueryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case stderrors.Is(err, paging.ErrInvalidPage),
		stderrors.Is(err, combine.ErrNoFilters),
		stderrors.Is(err, combine.ErrBadFilter),
		stderrors.Is(err, remotestore.ErrUnsupportedQuery):
		RenderBadRequest(w, r, err.Error())
	default:
		e.LogServerError(w, r, "query failed", err, "The request could not be completed.")
	}
}
