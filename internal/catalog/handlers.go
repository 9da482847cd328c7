package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/sales-api/internal/common"
	"github.com/noah-isme/sales-api/internal/pricing"
)

// CodeNotFound is reported for unknown strategies.
const CodeNotFound = "NOT_FOUND"

// Handler exposes the read-only price list endpoints.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": Products()})
}

// Strategies handles GET /api/v1/pricing/strategies.
func (h *Handler) Strategies(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": PriceLists()})
}

// Strategy handles GET /api/v1/pricing/strategies/{strategy}.
func (h *Handler) Strategy(w http.ResponseWriter, r *http.Request) {
	s, err := pricing.ParseStrategy(chi.URLParam(r, "strategy"))
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownStrategy) {
			common.JSONError(w, http.StatusNotFound, CodeNotFound, "pricing strategy not found", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	list, err := PriceListFor(s)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": list})
}
