package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"stylesync/internal/entities"
	apperrors "stylesync/internal/errors"
)

type WebhookAPI interface {
	ConfirmBySession(ctx context.Context, sessionID, paymentIntentID string) (*entities.BookingResponse, error)
	CancelBySession(ctx context.Context, sessionID string) (*entities.BookingResponse, error)
	CancelByRefund(ctx context.Context, paymentIntentID string) error
}

type StripeWebhookHandler struct {
	secret string
	svc    WebhookAPI
	log    zerolog.Logger
}

func NewStripeWebhookHandler(secret string, svc WebhookAPI, log zerolog.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{secret: secret, svc: svc, log: log.With().Str("component", "stripe_webhook").Logger()}
}

const maxWebhookBytes = int64(65536)

// HandleWebhook verifies the Stripe-Signature header and applies the
// event. A non-2xx answer makes Stripe retry, so only transient failures
// return 500.
func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Warn().Err(err).Msg("error reading body")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.secret)
	if err != nil {
		h.log.Warn().Err(err).Msg("signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	logger := h.log.With().Str("event_id", event.ID).Str("type", string(event.Type)).Logger()

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			logger.Warn().Err(err).Msg("bad checkout.session payload")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		paymentIntentID := ""
		if sess.PaymentIntent != nil {
			paymentIntentID = sess.PaymentIntent.ID
		}
		_, err = h.svc.ConfirmBySession(r.Context(), sess.ID, paymentIntentID)
		if errors.Is(err, apperrors.ErrSlotTaken) {
			logger.Warn().Str("session", sess.ID).Msg("slot taken, payment refunded")
			err = nil
		}

	case stripe.EventTypeCheckoutSessionExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			logger.Warn().Err(err).Msg("bad checkout.session payload")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, err = h.svc.CancelBySession(r.Context(), sess.ID)

	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			logger.Warn().Err(err).Msg("bad charge payload")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
			break
		}
		err = h.svc.CancelByRefund(r.Context(), charge.PaymentIntent.ID)
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info().Str("payment_intent", charge.PaymentIntent.ID).Msg("refund for unknown booking ignored")
			err = nil
		}

	default:
		logger.Debug().Msg("unhandled event type")
	}

	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn().Err(err).Msg("no booking for event")
		w.WriteHeader(http.StatusNotFound)
	default:
		logger.Error().Err(err).Msg("webhook processing failed")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
