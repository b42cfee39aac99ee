package checkout

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/internal/transport"
	"github.com/frahmantamala/plan-checkout/pkg/logger"
)

const maxRequestBody = 64 << 10

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Checkout serves POST /api/v1/checkout and the legacy /api/process-payment.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		logger.From(r.Context()).Warn("Checkout: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, errors.ErrCodeValidationFailed, "invalid request body")
		return
	}

	result, err := h.Service.Checkout(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	logger.From(r.Context()).Info("Checkout: payment created",
		"plan_id", req.PlanID,
		"order_id", result.OrderID,
		"amount", result.Amount.String(),
		"currency", result.Currency)

	h.WriteJSON(w, http.StatusOK, Response{RedirectURL: result.RedirectURL})
}
