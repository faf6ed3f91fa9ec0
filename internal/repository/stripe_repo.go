package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stylesync/internal/db"
)

type StripeRepository struct {
	DB *sql.DB
}

func NewStripeRepository(db *sql.DB) *StripeRepository {
	return &StripeRepository{DB: db}
}

// AttachCheckoutSession records the Checkout session opened for a booking.
func (r *StripeRepository) AttachCheckoutSession(ctx context.Context, bookingID int64, sessionID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bookings SET stripe_session_id = $2, updated_at = NOW()
		WHERE id = $1`, bookingID, sessionID)
	if err != nil {
		return mapError(err, fmt.Sprintf("attach session to booking %d", bookingID))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mapError(sql.ErrNoRows, fmt.Sprintf("booking %d", bookingID))
	}
	return nil
}

func (r *StripeRepository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*db.BookingDetails, error) {
	d, err := scanBookingDetails(r.DB.QueryRowContext(ctx,
		bookingDetailsSelect+` WHERE b.stripe_payment_intent_id = $1`, paymentIntentID))
	if err != nil {
		return nil, mapError(err, "booking for payment intent")
	}
	return &d, nil
}
