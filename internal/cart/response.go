package cart

import (
	"github.com/noah-isme/sales-api/internal/common"
	"github.com/noah-isme/sales-api/internal/pricing"
)

// CartTotalResponse is the wire representation of a cart total.
type CartTotalResponse struct {
	Total       common.Amount        `json:"total"`
	ItemDetails []ItemDetailResponse `json:"itemDetails"`
}

// ItemDetailResponse is the wire representation of a priced line.
type ItemDetailResponse struct {
	ProductType pricing.ProductKind `json:"productType"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   common.Amount       `json:"unitPrice"`
	TotalPrice  common.Amount       `json:"totalPrice"`
}

// NewCartTotalResponse converts a computed total into its wire form, keeping line order.
func NewCartTotalResponse(total pricing.CartTotal) CartTotalResponse {
	details := make([]ItemDetailResponse, 0, len(total.Items))
	for _, d := range total.Items {
		details = append(details, ItemDetailResponse{
			ProductType: d.Kind,
			Quantity:    d.Quantity,
			UnitPrice:   common.Amount{Decimal: d.UnitPrice},
			TotalPrice:  common.Amount{Decimal: d.TotalPrice},
		})
	}
	return CartTotalResponse{Total: common.Amount{Decimal: total.Total}, ItemDetails: details}
}
