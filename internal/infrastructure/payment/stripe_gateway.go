package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"

	"github.com/oksasatya/storefront-api/internal/application"
)

// StripeGateway creates hosted Stripe Checkout sessions
type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, lines []application.CheckoutLine, successURL, cancelURL string) (*application.CheckoutSession, error) {
	params := sessionParams(lines, successURL, cancelURL)
	params.Context = ctx
	s, err := session.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.Msg != "" {
			return nil, errors.New(serr.Msg)
		}
		return nil, err
	}
	return &application.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func sessionParams(lines []application.CheckoutLine, successURL, cancelURL string) *stripe.CheckoutSessionParams {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, l := range lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(l.Name),
		}
		if len(l.Images) > 0 {
			product.Images = stripe.StringSlice(l.Images)
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(l.Currency),
				UnitAmount:  stripe.Int64(l.UnitAmount),
				ProductData: product,
			},
			Quantity: stripe.Int64(l.Quantity),
		})
	}
	return &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          items,
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}
}

var _ application.PaymentGateway = (*StripeGateway)(nil)
