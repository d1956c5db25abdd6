package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/spec-kit/parcel-service/internal/config"
)

// ErrNotConfigured is returned when no gateway secret key was provided.
var ErrNotConfigured = errors.New("payment: gateway secret key not configured")

// StripeGateway creates card payment intents through Stripe.
type StripeGateway struct {
	api      *client.API
	currency string
}

// NewStripeGateway builds a gateway from config. An empty secret key yields a gateway
// that fails every call with ErrNotConfigured.
func NewStripeGateway(cfg config.PaymentConfig) *StripeGateway {
	gw := &StripeGateway{currency: cfg.Currency}
	if gw.currency == "" {
		gw.currency = string(stripe.CurrencyUSD)
	}
	if cfg.SecretKey != "" {
		gw.api = client.New(cfg.SecretKey, nil)
	}
	return gw
}

// CreateIntent registers a card payment intent for amount (in the smallest currency unit)
// and returns its client secret.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64) (string, error) {
	if g.api == nil {
		return "", ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
