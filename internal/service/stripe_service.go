package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"

	apperrors "stylesync/internal/errors"
)

// CheckoutRequest describes the single line item a booking is paid with.
type CheckoutRequest struct {
	BookingID     int64
	BookingCode   string
	Description   string
	AmountCents   int64
	CustomerEmail string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Stripe accepts a Checkout expiry between 30 minutes and 24 hours after
// creation.
const (
	minCheckoutTTL = 31 * time.Minute
	maxCheckoutTTL = 24 * time.Hour
)

// StripeService talks to Stripe Checkout using the package-level client
// configured with the secret key.
type StripeService struct {
	currency    string
	successURL  string
	cancelURL   string
	checkoutTTL time.Duration
	now         func() time.Time
}

// NewStripeService opens Checkout sessions that stop accepting payment
// after checkoutTTL, normally the pending-booking TTL.
func NewStripeService(secretKey, currency, publicBaseURL string, checkoutTTL time.Duration) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		currency:    currency,
		successURL:  publicBaseURL + "/api/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:   publicBaseURL + "/api/checkout/cancelled?session_id={CHECKOUT_SESSION_ID}",
		checkoutTTL: min(max(checkoutTTL, minCheckoutTTL), maxCheckoutTTL),
		now:         time.Now,
	}
}

func (s *StripeService) checkoutParams(req CheckoutRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(req.BookingCode),
		Metadata:          map[string]string{"booking_id": strconv.FormatInt(req.BookingID, 10)},
		ExpiresAt:         stripe.Int64(s.now().Add(s.checkoutTTL).Unix()),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	return params
}

func (s *StripeService) CreateCheckoutSession(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	sess, err := session.New(s.checkoutParams(req))
	if err != nil {
		return nil, fmt.Errorf("create checkout session for booking %d: %v: %w", req.BookingID, err, apperrors.ErrPayment)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ExpireCheckoutSession closes an open Checkout page so it can no longer
// be paid.
func (s *StripeService) ExpireCheckoutSession(_ context.Context, sessionID string) error {
	if _, err := session.Expire(sessionID, &stripe.CheckoutSessionExpireParams{}); err != nil {
		return fmt.Errorf("expire checkout session %s: %v: %w", sessionID, err, apperrors.ErrPayment)
	}
	return nil
}

// Refund returns the full payment. A payment that was already refunded
// counts as success so retried webhooks settle.
func (s *StripeService) Refund(_ context.Context, paymentIntentID string) error {
	_, err := refund.New(&stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	})
	if isAlreadyRefunded(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("refund payment %s: %v: %w", paymentIntentID, err, apperrors.ErrPayment)
	}
	return nil
}

func isAlreadyRefunded(err error) bool {
	var stripeErr *stripe.Error
	return errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeChargeAlreadyRefunded
}
