package booking

import (
	"context"
	"fmt"
	"math"

	"garagio/config"
	"garagio/models"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// GatewayResult is the hosted checkout's asynchronous callback payload.
type GatewayResult struct {
	Outcome    string `json:"outcome"` // "success", "cancelled" or "failed"
	PaymentRef string `json:"paymentReference,omitempty"`
}

// CheckoutIntent tells the UI layer to open the hosted checkout page.
type CheckoutIntent struct {
	GatewaySessionID string `json:"gatewaySessionId"`
	CheckoutURL      string `json:"checkoutUrl"`
}

// PaymentResolution is the resolver's verdict after either path runs.
type PaymentResolution struct {
	State      models.SessionState
	PaymentRef string
	Checkout   *CheckoutIntent // set when a hosted checkout must open first
}

// PaymentResolver reconciles the two mutually exclusive payment paths into
// a single terminal outcome shape.
type PaymentResolver interface {
	Begin(ctx context.Context, session models.BookingSession, buyer BuyerInfo) (PaymentResolution, error)
	Reconcile(session models.BookingSession, result GatewayResult) PaymentResolution
}

// StripeResolver implements the gateway path over Stripe hosted checkout
// and the pay-on-delivery path without any further network interaction.
type StripeResolver struct {
	Logger   *zap.Logger
	Currency string
}

// NewStripeResolver builds a resolver using the configured currency.
func NewStripeResolver(logger *zap.Logger) *StripeResolver {
	currency := config.AppConfig.Currency
	if currency == "" {
		currency = "inr"
	}
	return &StripeResolver{Logger: logger, Currency: currency}
}

// Begin branches on the session's chosen path. Pay-on-delivery resolves
// immediately: the details acknowledgment alone confirms the booking, with
// no gateway reference. The gateway path opens a hosted checkout prefilled
// with the server-computed total and the buyer's contact.
func (r *StripeResolver) Begin(ctx context.Context, session models.BookingSession, buyer BuyerInfo) (PaymentResolution, error) {
	if session.PaymentPath == models.PathPayOnDelivery {
		r.Logger.Info("pay-on-delivery booking confirmed",
			zap.String("bookingId", session.BookingID))
		return PaymentResolution{State: models.StatePaymentConfirmed}, nil
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(session.BookingID),
		SuccessURL:        stripe.String(config.AppConfig.GatewaySuccessURL),
		CancelURL:         stripe.String(config.AppConfig.GatewayCancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(r.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(session.Offering.Name),
						Description: stripe.String(session.Offering.Garage),
					},
					// The amount is the server-computed total, never a
					// client-cached price.
					UnitAmount: stripe.Int64(int64(math.Round(session.ServerTotal * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if buyer.Email != "" {
		params.CustomerEmail = stripe.String(buyer.Email)
	}

	cs, err := checkoutsession.New(params)
	if err != nil {
		return PaymentResolution{}, fmt.Errorf("failed to open hosted checkout: %w", err)
	}

	r.Logger.Info("hosted checkout opened",
		zap.String("bookingId", session.BookingID),
		zap.String("gatewaySession", cs.ID))
	return PaymentResolution{
		State:    models.StatePaymentPending,
		Checkout: &CheckoutIntent{GatewaySessionID: cs.ID, CheckoutURL: cs.URL},
	}, nil
}

// Reconcile maps the gateway callback onto the terminal states. The
// persisted reference is always the gateway's, never a local one; the
// reserved booking id is left untouched on cancellation or failure.
func (r *StripeResolver) Reconcile(session models.BookingSession, result GatewayResult) PaymentResolution {
	switch result.Outcome {
	case "success":
		return PaymentResolution{State: models.StatePaymentConfirmed, PaymentRef: result.PaymentRef}
	case "cancelled":
		return PaymentResolution{State: models.StatePaymentAbandoned}
	default:
		r.Logger.Warn("gateway reported payment failure",
			zap.String("bookingId", session.BookingID),
			zap.String("outcome", result.Outcome))
		return PaymentResolution{State: models.StatePaymentFailed}
	}
}
