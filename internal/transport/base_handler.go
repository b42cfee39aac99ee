package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an {error, code} body for failures raised outside the
// service layer, such as undecodable request bodies.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, code errors.ErrorCode, message string) {
	h.Logger.Error("http error", "status", status, "code", code, "message", message)
	h.WriteJSON(w, status, errors.Response{Error: message, Code: code})
}

// HandleServiceError classifies err and writes the matching status and body.
// The cause is logged, never sent.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.AsAppError(err)
	status, body := appErr.ToHTTPResponse()

	lg := logger.From(r.Context())
	if status >= http.StatusInternalServerError {
		lg.Error("request failed", "status", status, "code", appErr.Code, "error", err)
	} else {
		lg.Warn("request rejected", "status", status, "code", appErr.Code, "error", err)
	}

	h.WriteJSON(w, status, body)
}
