package application

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
)

// CheckoutLine is one line of a hosted payment session, amounts in minor units
type CheckoutLine struct {
	Name       string
	Images     []string
	Currency   string
	UnitAmount int64
	Quantity   int64
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway creates hosted checkout sessions at the payment provider
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, lines []CheckoutLine, successURL, cancelURL string) (*CheckoutSession, error)
}

type ProductDataInput struct {
	Name   string   `json:"name"`
	Images []string `json:"images"`
}

type PriceDataInput struct {
	Currency    string           `json:"currency"`
	UnitAmount  *int64           `json:"unit_amount"`
	ProductData ProductDataInput `json:"product_data"`
}

// CheckoutItemInput accepts either a simple {name, unitPrice, quantity} line
// priced in major units or a provider-shaped {price_data, quantity} line
// whose unit_amount is already in minor units.
type CheckoutItemInput struct {
	Name      string          `json:"name"`
	UnitPrice *float64        `json:"unitPrice"`
	Currency  string          `json:"currency"`
	Image     string          `json:"image"`
	Quantity  int64           `json:"quantity"`
	PriceData *PriceDataInput `json:"price_data"`
}

type CheckoutInput struct {
	Items []CheckoutItemInput `json:"items"`
}

type CheckoutService struct {
	Gateway         PaymentGateway
	Logger          *logrus.Logger
	FrontendURL     string
	DefaultCurrency string
}

func NewCheckoutService(gw PaymentGateway, logger *logrus.Logger, frontendURL, currency string) *CheckoutService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if currency == "" {
		currency = "usd"
	}
	return &CheckoutService{
		Gateway:         gw,
		Logger:          logger,
		FrontendURL:     strings.TrimRight(frontendURL, "/"),
		DefaultCurrency: currency,
	}
}

func (s *CheckoutService) CreateSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoCheckoutItems
	}
	lines, err := s.toLines(in.Items)
	if err != nil {
		return nil, err
	}
	if s.Gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	success := s.FrontendURL + "/success?session_id={CHECKOUT_SESSION_ID}"
	cancel := s.FrontendURL + "/cart"

	sess, err := s.Gateway.CreateCheckoutSession(ctx, lines, success, cancel)
	if err != nil {
		s.Logger.WithError(err).WithField("lines", len(lines)).Error("checkout session failed")
		return nil, err
	}
	checkoutSessions.Add(1)
	s.Logger.WithField("session_id", sess.ID).Info("checkout session created")
	return sess, nil
}

func (s *CheckoutService) toLines(items []CheckoutItemInput) ([]CheckoutLine, error) {
	lines := make([]CheckoutLine, 0, len(items))
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		if it.PriceData != nil {
			pd := it.PriceData
			if pd.ProductData.Name == "" || pd.UnitAmount == nil || *pd.UnitAmount < 0 {
				return nil, invalid("invalid checkout items", map[string]string{field: "price_data needs product_data.name and a non-negative unit_amount"})
			}
			lines = append(lines, CheckoutLine{
				Name:       pd.ProductData.Name,
				Images:     pd.ProductData.Images,
				Currency:   s.currency(pd.Currency),
				UnitAmount: *pd.UnitAmount,
				Quantity:   qty,
			})
			continue
		}
		if it.Name == "" || it.UnitPrice == nil || *it.UnitPrice < 0 {
			return nil, invalid("invalid checkout items", map[string]string{field: "name and a non-negative unitPrice are required"})
		}
		line := CheckoutLine{
			Name:       it.Name,
			Currency:   s.currency(it.Currency),
			UnitAmount: ToMinorUnits(*it.UnitPrice),
			Quantity:   qty,
		}
		if it.Image != "" {
			line.Images = []string{it.Image}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *CheckoutService) currency(c string) string {
	if c == "" {
		return s.DefaultCurrency
	}
	return strings.ToLower(c)
}

// ToMinorUnits converts a major-unit amount to cents, rounding half away from zero
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
