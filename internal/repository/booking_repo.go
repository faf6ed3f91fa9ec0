package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"stylesync/internal/db"
	apperrors "stylesync/internal/errors"
	"stylesync/internal/slots"
)

// BookingRepository stores bookings. Dates handed to it are interpreted in
// the salon location it was built with.
type BookingRepository struct {
	DB  *sql.DB
	loc *time.Location
}

func NewBookingRepository(db *sql.DB, loc *time.Location) *BookingRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingRepository{DB: db, loc: loc}
}

const bookingDetailsSelect = `
	SELECT
		b.id, b.code, b.customer_id, b.staff_id, b.service_id, b.start_time, b.end_time, b.status,
		COALESCE(b.stripe_session_id, ''), COALESCE(b.stripe_payment_intent_id, ''),
		b.reminder_sent_at, b.created_at, b.updated_at,
		s.name, s.price_cents, su.full_name, cu.full_name, cu.email, cu.phone
	FROM bookings b
	JOIN services s ON s.id = b.service_id
	JOIN staff st ON st.id = b.staff_id
	JOIN users su ON su.id = st.user_id
	JOIN users cu ON cu.id = b.customer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingDetails(row rowScanner) (db.BookingDetails, error) {
	var d db.BookingDetails
	err := row.Scan(
		&d.ID, &d.Code, &d.CustomerID, &d.StaffID, &d.ServiceID, &d.StartTime, &d.EndTime, &d.Status,
		&d.StripeSessionID, &d.StripePaymentIntentID,
		&d.ReminderSentAt, &d.CreatedAt, &d.UpdatedAt,
		&d.ServiceName, &d.PriceCents, &d.StaffName, &d.CustomerName, &d.CustomerEmail, &d.CustomerPhone,
	)
	return d, err
}

func queryBookingDetails(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, query string, args ...any) ([]db.BookingDetails, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	bookings := []db.BookingDetails{}
	for rows.Next() {
		d, err := scanBookingDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *db.Booking) error {
	if b.Status == "" {
		b.Status = db.BookingPending
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO bookings (code, customer_id, staff_id, service_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		b.Code, b.CustomerID, b.StaffID, b.ServiceID, b.StartTime, b.EndTime, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapError(err, "insert booking")
}

func (r *BookingRepository) GetDetails(ctx context.Context, id int64) (*db.BookingDetails, error) {
	d, err := scanBookingDetails(r.DB.QueryRowContext(ctx, bookingDetailsSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("booking %d", id))
	}
	return &d, nil
}

func (r *BookingRepository) GetDetailsBySession(ctx context.Context, sessionID string) (*db.BookingDetails, error) {
	d, err := scanBookingDetails(r.DB.QueryRowContext(ctx, bookingDetailsSelect+` WHERE b.stripe_session_id = $1`, sessionID))
	if err != nil {
		return nil, mapError(err, "booking for checkout session")
	}
	return &d, nil
}

// ConfirmedBookings implements slots.BookingLookup: every confirmed booking
// of the staff member that overlaps the given salon day, ordered by start.
func (r *BookingRepository) ConfirmedBookings(ctx context.Context, staffID int64, date slots.Date) ([]slots.Interval, error) {
	from := date.Midnight(r.loc)
	to := date.AddDays(1).Midnight(r.loc)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT start_time, end_time
		FROM bookings
		WHERE staff_id = $1 AND status = $2 AND start_time < $4 AND end_time > $3
		ORDER BY start_time`,
		staffID, db.BookingConfirmed, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed bookings of staff %d on %s: %w", staffID, date, err)
	}
	defer rows.Close()

	intervals := []slots.Interval{}
	for rows.Next() {
		var iv slots.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("error scanning booking interval: %w", err)
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}

// Confirm moves a pending booking to confirmed. It reports false without an
// error when the booking is no longer pending, so repeated webhook
// deliveries are harmless. The staff row is locked for the duration of the
// overlap check; ErrSlotTaken means another confirmed booking won.
func (r *BookingRepository) Confirm(ctx context.Context, id int64, paymentIntentID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin confirm tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		staffID    int64
		start, end time.Time
		status     string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT staff_id, start_time, end_time, status FROM bookings WHERE id = $1 FOR UPDATE`, id).
		Scan(&staffID, &start, &end, &status)
	if err != nil {
		return false, mapError(err, fmt.Sprintf("lock booking %d", id))
	}
	if status != db.BookingPending {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `SELECT id FROM staff WHERE id = $1 FOR UPDATE`, staffID); err != nil {
		return false, fmt.Errorf("lock staff %d: %w", staffID, err)
	}

	var taken bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE staff_id = $1 AND status = $2 AND id <> $3
			  AND start_time < $5 AND end_time > $4
		)`, staffID, db.BookingConfirmed, id, start, end).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("error checking overlap for booking %d: %w", id, err)
	}
	if taken {
		return false, fmt.Errorf("booking %d: %w", id, apperrors.ErrSlotTaken)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = $2, stripe_payment_intent_id = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1`, id, db.BookingConfirmed, paymentIntentID)
	if err != nil {
		return false, mapError(err, fmt.Sprintf("confirm booking %d", id))
	}
	if err := tx.Commit(); err != nil {
		return false, mapError(err, fmt.Sprintf("commit booking %d", id))
	}
	return true, nil
}

// Transition sets the status of a booking if it currently has one of the
// from statuses, and reports whether a row changed.
func (r *BookingRepository) Transition(ctx context.Context, id int64, from []string, to string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bookings SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)`, id, to, pq.Array(from))
	if err != nil {
		return false, fmt.Errorf("error updating booking %d to %s: %w", id, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for booking %d: %w", id, err)
	}
	return n > 0, nil
}

// ListForCustomer returns every booking of a customer, newest first.
func (r *BookingRepository) ListForCustomer(ctx context.Context, customerID int64) ([]db.BookingDetails, error) {
	return queryBookingDetails(ctx, r.DB,
		bookingDetailsSelect+` WHERE b.customer_id = $1 ORDER BY b.start_time DESC`, customerID)
}

func (r *BookingRepository) ListConfirmedForStaff(ctx context.Context, staffID int64, from time.Time) ([]db.BookingDetails, error) {
	return queryBookingDetails(ctx, r.DB,
		bookingDetailsSelect+` WHERE b.staff_id = $1 AND b.status = $2 AND b.end_time > $3 ORDER BY b.start_time`,
		staffID, db.BookingConfirmed, from)
}
