package catalog

import (
	"github.com/noah-isme/sales-api/internal/common"
	"github.com/noah-isme/sales-api/internal/pricing"
)

// Product describes a sellable product kind.
type Product struct {
	Type  pricing.ProductKind `json:"type"`
	Label string              `json:"label"`
}

// Price is one entry of a price table.
type Price struct {
	ProductType pricing.ProductKind `json:"productType"`
	UnitPrice   common.Amount       `json:"unitPrice"`
}

// PriceList is the published price table of one pricing strategy.
type PriceList struct {
	Strategy string  `json:"strategy"`
	Prices   []Price `json:"prices"`
}

// Products lists product kinds in declaration order.
func Products() []Product {
	kinds := pricing.ProductKinds()
	out := make([]Product, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Product{Type: k, Label: k.Label()})
	}
	return out
}

// PriceLists returns every price table in strategy order.
func PriceLists() []PriceList {
	out := make([]PriceList, 0, len(pricing.Strategies()))
	for _, s := range pricing.Strategies() {
		list, err := PriceListFor(s)
		if err != nil {
			continue
		}
		out = append(out, list)
	}
	return out
}

// PriceListFor returns the price table backing strategy s.
func PriceListFor(s pricing.Strategy) (PriceList, error) {
	table, err := pricing.TableFor(s)
	if err != nil {
		return PriceList{}, err
	}
	entries := table.Entries()
	prices := make([]Price, 0, len(entries))
	for _, e := range entries {
		prices = append(prices, Price{ProductType: e.Kind, UnitPrice: common.Amount{Decimal: e.UnitPrice}})
	}
	return PriceList{Strategy: s.String(), Prices: prices}, nil
}
