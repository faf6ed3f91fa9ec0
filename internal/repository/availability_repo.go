package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stylesync/internal/db"
	"stylesync/internal/slots"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

// WorkingWindow implements slots.AvailabilityLookup.
func (r *AvailabilityRepository) WorkingWindow(ctx context.Context, staffID int64, day slots.DayOfWeek) (slots.WorkingWindow, bool, error) {
	var start, end slots.TimeOfDay
	err := r.DB.QueryRowContext(ctx,
		`SELECT start_time, end_time FROM availability WHERE staff_id = $1 AND day_of_week = $2`,
		staffID, int(day)).Scan(&start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return slots.WorkingWindow{}, false, nil
	}
	if err != nil {
		return slots.WorkingWindow{}, false, fmt.Errorf("error querying availability of staff %d on %s: %w", staffID, day, err)
	}
	window, err := slots.NewWorkingWindow(start, end)
	if err != nil {
		return slots.WorkingWindow{}, false, err
	}
	return window, true, nil
}

func (r *AvailabilityRepository) ListForStaff(ctx context.Context, staffID int64) ([]db.Availability, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, staff_id, day_of_week, start_time, end_time
		FROM availability
		WHERE staff_id = $1
		ORDER BY day_of_week`, staffID)
	if err != nil {
		return nil, fmt.Errorf("error querying availability of staff %d: %w", staffID, err)
	}
	defer rows.Close()

	entries := []db.Availability{}
	for rows.Next() {
		var a db.Availability
		if err := rows.Scan(&a.ID, &a.StaffID, &a.DayOfWeek, &a.StartTime, &a.EndTime); err != nil {
			return nil, fmt.Errorf("error scanning availability: %w", err)
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// ReplaceForStaff swaps the whole weekly schedule of a staff member in one
// transaction.
func (r *AvailabilityRepository) ReplaceForStaff(ctx context.Context, staffID int64, entries []db.Availability) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability WHERE staff_id = $1`, staffID); err != nil {
		return fmt.Errorf("error clearing availability of staff %d: %w", staffID, err)
	}
	for _, a := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO availability (staff_id, day_of_week, start_time, end_time)
			VALUES ($1, $2, $3, $4)`,
			staffID, int(a.DayOfWeek), a.StartTime, a.EndTime)
		if err != nil {
			return mapError(err, fmt.Sprintf("insert availability for %s", a.DayOfWeek))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit availability: %w", err)
	}
	return nil
}
