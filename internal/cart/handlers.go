package cart

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sales-api/internal/common"
)

// QuoteIDHeader carries the identifier of a computed quote.
const QuoteIDHeader = "X-Quote-ID"

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc    *Service
	Logger zerolog.Logger
}

// Calculate prices the posted cart for the posted client.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	req, err := DecodeCalculateRequest(r.Body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	quote, err := h.Svc.Calculate(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set(QuoteIDHeader, quote.ID)
	common.JSON(w, http.StatusOK, NewCartTotalResponse(quote.CartTotal))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		h.Logger.Debug().Err(err).Str("code", appErr.Code).Interface("fields", appErr.Fields).Msg("cart_request_rejected")
	} else {
		h.Logger.Error().Err(err).Msg("cart_calculation_failed")
	}
	common.WriteError(w, err)
}
