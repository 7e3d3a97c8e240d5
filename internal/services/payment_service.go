// internal/services/payment_service.go
package services

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/config"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
)

// PaymentService is a thin wrapper around Stripe payment intents. Order
// state stays in OrderService; this layer only talks to the provider.
type PaymentService struct {
	config *config.Config
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

func NewPaymentService(cfg *config.Config) *PaymentService {
	if cfg.Payment.Enabled {
		stripe.Key = cfg.Payment.StripeSecretKey
	}

	return &PaymentService{config: cfg}
}

func (s *PaymentService) Enabled() bool {
	return s.config.Payment.Enabled
}

// CreatePaymentIntent opens a Stripe intent for the order total. Amounts
// go to Stripe in minor units.
func (s *PaymentService) CreatePaymentIntent(order *models.Order) (*PaymentIntentResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(order.Total)),
		Currency: stripe.String("usd"),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("user_id", order.UserID.String())

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		PaymentID:    intent.ID,
		Status:       string(intent.Status),
	}, nil
}

func (s *PaymentService) GetPaymentIntent(paymentID string) (*stripe.PaymentIntent, error) {
	intent, err := paymentintent.Get(paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	return intent, nil
}

// CancelPaymentIntent voids an open intent so its client secret can no
// longer complete a payment.
func (s *PaymentService) CancelPaymentIntent(paymentID string) error {
	if _, err := paymentintent.Cancel(paymentID, nil); err != nil {
		return fmt.Errorf("failed to cancel payment intent: %w", err)
	}

	return nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
