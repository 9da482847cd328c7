package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownClient is returned when a client value cannot be classified.
	ErrUnknownClient = errors.New("unknown client")
	// ErrUnknownStrategy is returned when no price table exists for a strategy.
	ErrUnknownStrategy = errors.New("unknown pricing strategy")
)

// HighRevenueThreshold is the annual revenue a professional client must strictly exceed
// to be priced with the high revenue table.
var HighRevenueThreshold = decimal.NewFromInt(10_000_000)

// Client is the purchasing entity. The set of variants is closed: Individual and Professional.
type Client interface {
	ClientID() string
	client()
}

// Individual is a private person buying at list price.
type Individual struct {
	ID        string
	FirstName string
	LastName  string
}

// ClientID returns the client identifier.
func (c Individual) ClientID() string { return c.ID }

func (Individual) client() {}

// Professional is a company. Its pricing depends on AnnualRevenue.
type Professional struct {
	ID                 string
	CompanyName        string
	VATNumber          string
	RegistrationNumber string
	AnnualRevenue      decimal.Decimal
}

// ClientID returns the client identifier.
func (c Professional) ClientID() string { return c.ID }

func (Professional) client() {}

// HighRevenue reports whether the annual revenue is strictly above HighRevenueThreshold.
func (c Professional) HighRevenue() bool {
	return c.AnnualRevenue.GreaterThan(HighRevenueThreshold)
}

// Strategy selects one of the constant price tables.
type Strategy int

const (
	StrategyIndividual Strategy = iota + 1
	StrategyProfessionalHighRevenue
	StrategyProfessionalLowRevenue
)

var strategies = []Strategy{StrategyIndividual, StrategyProfessionalHighRevenue, StrategyProfessionalLowRevenue}

// Strategies returns every strategy in a stable order.
func Strategies() []Strategy {
	out := make([]Strategy, len(strategies))
	copy(out, strategies)
	return out
}

func (s Strategy) String() string {
	switch s {
	case StrategyIndividual:
		return "INDIVIDUAL"
	case StrategyProfessionalHighRevenue:
		return "PROFESSIONAL_HIGH_REVENUE"
	case StrategyProfessionalLowRevenue:
		return "PROFESSIONAL_LOW_REVENUE"
	default:
		return "UNKNOWN"
	}
}

// ParseStrategy resolves a strategy from its wire name, ignoring case.
func ParseStrategy(value string) (Strategy, error) {
	for _, s := range strategies {
		if strings.EqualFold(value, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, value)
}

// Classify maps a client to its pricing strategy. Revenue equal to the threshold is low revenue.
func Classify(c Client) (Strategy, error) {
	switch v := c.(type) {
	case Individual:
		return StrategyIndividual, nil
	case *Individual:
		if v == nil {
			break
		}
		return StrategyIndividual, nil
	case Professional:
		return classifyProfessional(v), nil
	case *Professional:
		if v == nil {
			break
		}
		return classifyProfessional(*v), nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnknownClient, c)
}

func classifyProfessional(p Professional) Strategy {
	if p.HighRevenue() {
		return StrategyProfessionalHighRevenue
	}
	return StrategyProfessionalLowRevenue
}
