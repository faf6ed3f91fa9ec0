package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"stylesync/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// ListReminderCandidates returns confirmed bookings starting in [from, to)
// that have not been reminded yet.
func (r *JobRepository) ListReminderCandidates(ctx context.Context, from, to time.Time) ([]db.BookingDetails, error) {
	return queryBookingDetails(ctx, r.DB, bookingDetailsSelect+`
		WHERE b.status = $1 AND b.reminder_sent_at IS NULL
		  AND b.start_time >= $2 AND b.start_time < $3
		ORDER BY b.start_time`,
		db.BookingConfirmed, from, to)
}

func (r *JobRepository) MarkReminded(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET reminder_sent_at = $1, updated_at = NOW() WHERE id = ANY($2)`,
		at, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error marking %d bookings reminded: %w", len(ids), err)
	}
	return nil
}

// CancelPendingCreatedBefore abandons checkouts that were never paid and
// returns the Checkout session id of each cancelled booking ("" when none
// was opened).
func (r *JobRepository) CancelPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < $3
		RETURNING COALESCE(stripe_session_id, '')`,
		db.BookingCancelled, db.BookingPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error cancelling pending bookings: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning session id: %w", err)
		}
		sessions = append(sessions, id)
	}
	return sessions, rows.Err()
}

func (r *JobRepository) CompleteConfirmedEndedBefore(ctx context.Context, now time.Time) (int64, error) {
	return r.updateStatuses(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE status = $2 AND end_time <= $3`,
		db.BookingCompleted, db.BookingConfirmed, now)
}

func (r *JobRepository) updateStatuses(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error updating booking statuses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
