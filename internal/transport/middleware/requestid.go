package middleware

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/pkg/logger"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID accepts the caller's trace id or mints one, and scopes the
// request logger with it. chi's request id is attached too when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}

		ctx := internal.ContextWithTraceID(r.Context(), traceID)
		fields := []any{"trace_id", traceID}
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		ctx = logger.With(ctx, fields...)

		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
