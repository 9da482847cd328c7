package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceTable maps every product kind to a unit price. Values are immutable once built.
type PriceTable struct {
	strategy Strategy
	prices   map[ProductKind]decimal.Decimal
}

// PriceEntry is a single row of a price table.
type PriceEntry struct {
	Kind      ProductKind
	UnitPrice decimal.Decimal
}

var tables = map[Strategy]PriceTable{
	StrategyIndividual:              newTable(StrategyIndividual, 1500, 800, 1200),
	StrategyProfessionalHighRevenue: newTable(StrategyProfessionalHighRevenue, 1000, 550, 900),
	StrategyProfessionalLowRevenue:  newTable(StrategyProfessionalLowRevenue, 1150, 600, 1000),
}

func newTable(s Strategy, highEnd, midRange, laptop int64) PriceTable {
	return PriceTable{
		strategy: s,
		prices: map[ProductKind]decimal.Decimal{
			HighEndPhone:  decimal.NewFromInt(highEnd),
			MidRangePhone: decimal.NewFromInt(midRange),
			Laptop:        decimal.NewFromInt(laptop),
		},
	}
}

// TableFor returns the constant price table for the strategy.
func TableFor(s Strategy) (PriceTable, error) {
	t, ok := tables[s]
	if !ok {
		return PriceTable{}, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return t, nil
}

// Strategy returns the strategy the table belongs to.
func (t PriceTable) Strategy() Strategy { return t.strategy }

// Price returns the unit price of kind. The second value is false for unknown kinds.
func (t PriceTable) Price(kind ProductKind) (decimal.Decimal, bool) {
	p, ok := t.prices[kind]
	return p, ok
}

// Entries lists the table rows in product declaration order.
func (t PriceTable) Entries() []PriceEntry {
	out := make([]PriceEntry, 0, len(productKinds))
	for _, kind := range productKinds {
		if p, ok := t.prices[kind]; ok {
			out = append(out, PriceEntry{Kind: kind, UnitPrice: p})
		}
	}
	return out
}
