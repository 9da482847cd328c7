package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart is returned when no line items are provided.
	ErrEmptyCart = errors.New("cart has no items")
	// ErrInvalidQuantity is returned when a line item quantity is below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Item describes a cart line used for pricing calculation.
type Item struct {
	Kind     ProductKind
	Quantity int
}

// ItemDetail is the priced breakdown of a single line.
type ItemDetail struct {
	Kind       ProductKind
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// CartTotal aggregates computed line details, in input order, and their sum.
type CartTotal struct {
	Strategy Strategy
	Items    []ItemDetail
	Total    decimal.Decimal
}

// Calculate prices every item for the client and sums the line totals.
// Either a complete total or an error is returned, never a partial result.
func Calculate(c Client, items []Item) (CartTotal, error) {
	strategy, err := Classify(c)
	if err != nil {
		return CartTotal{}, err
	}
	table, err := TableFor(strategy)
	if err != nil {
		return CartTotal{}, err
	}
	if len(items) == 0 {
		return CartTotal{}, ErrEmptyCart
	}

	details := make([]ItemDetail, 0, len(items))
	for i, it := range items {
		detail, err := priceLine(table, it)
		if err != nil {
			return CartTotal{}, fmt.Errorf("line %d: %w", i, err)
		}
		details = append(details, detail)
	}

	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.TotalPrice)
	}
	return CartTotal{Strategy: strategy, Items: details, Total: total}, nil
}

func priceLine(table PriceTable, it Item) (ItemDetail, error) {
	if it.Quantity < 1 {
		return ItemDetail{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, it.Quantity)
	}
	unit, ok := table.Price(it.Kind)
	if !ok {
		return ItemDetail{}, fmt.Errorf("%w: %q", ErrUnknownProduct, string(it.Kind))
	}
	return ItemDetail{
		Kind:       it.Kind,
		Quantity:   it.Quantity,
		UnitPrice:  unit,
		TotalPrice: unit.Mul(decimal.NewFromInt(int64(it.Quantity))),
	}, nil
}
