package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/sales-api/internal/obs"
	"github.com/noah-isme/sales-api/internal/pricing"
)

// Quote is a computed cart total tagged with an identifier for log correlation.
type Quote struct {
	ID string
	pricing.CartTotal
}

// Service prices carts. It holds no per-request state and is safe for concurrent use.
type Service struct {
	Logger zerolog.Logger
	NewID  func() string
}

func (s *Service) newID() string {
	if s != nil && s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Calculate classifies the client, prices every line and returns the aggregate.
func (s *Service) Calculate(ctx context.Context, req CalculateRequest) (Quote, error) {
	ctx, span := otel.Tracer("cart").Start(ctx, "cart.calculate")
	defer span.End()

	quoteID := s.newID()
	span.SetAttributes(
		attribute.String("cart.quote_id", quoteID),
		attribute.Int("cart.items", len(req.Items)),
	)

	total, err := pricing.Calculate(req.Client, req.Items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		obs.ObserveCartCalculation("", resultLabel(err), 0, 0)
		s.logger(ctx).Error().Err(err).Str("quote_id", quoteID).Msg("cart_calculation_rejected")
		return Quote{}, err
	}

	span.SetAttributes(
		attribute.String("cart.strategy", total.Strategy.String()),
		attribute.String("cart.total", total.Total.String()),
	)
	amount, _ := total.Total.Float64()
	obs.ObserveCartCalculation(total.Strategy.String(), "ok", len(total.Items), amount)
	s.logger(ctx).Debug().
		Str("quote_id", quoteID).
		Str("client_id", req.Client.ClientID()).
		Str("strategy", total.Strategy.String()).
		Int("items", len(total.Items)).
		Str("total", total.Total.String()).
		Msg("cart_calculated")
	return Quote{ID: quoteID, CartTotal: total}, nil
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	if s == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return &s.Logger
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, pricing.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, pricing.ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, pricing.ErrUnknownClient), errors.Is(err, pricing.ErrUnknownStrategy):
		return "unknown_client"
	default:
		return "error"
	}
}
