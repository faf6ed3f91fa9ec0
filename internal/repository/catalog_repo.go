package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stylesync/internal/db"
)

type CatalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) ListActiveServices(ctx context.Context) ([]db.Service, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description, duration_minutes, price_cents, is_active
		FROM services
		WHERE is_active
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying services: %w", err)
	}
	defer rows.Close()

	services := []db.Service{}
	for rows.Next() {
		var s db.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *CatalogRepository) GetService(ctx context.Context, id int64) (*db.Service, error) {
	var s db.Service
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, duration_minutes, price_cents, is_active
		FROM services WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.IsActive)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("service %d", id))
	}
	return &s, nil
}

const staffColumns = `st.id, st.user_id, u.full_name, u.email, st.bio`

func (r *CatalogRepository) ListStaffForService(ctx context.Context, serviceID int64) ([]db.Staff, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+staffColumns+`
		FROM service_staff ss
		JOIN staff st ON st.id = ss.staff_id
		JOIN users u ON u.id = st.user_id
		WHERE ss.service_id = $1
		ORDER BY u.full_name`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("error querying staff for service %d: %w", serviceID, err)
	}
	defer rows.Close()

	staff := []db.Staff{}
	for rows.Next() {
		var st db.Staff
		if err := rows.Scan(&st.ID, &st.UserID, &st.FullName, &st.Email, &st.Bio); err != nil {
			return nil, fmt.Errorf("error scanning staff: %w", err)
		}
		staff = append(staff, st)
	}
	return staff, rows.Err()
}

func (r *CatalogRepository) StaffPerformsService(ctx context.Context, staffID, serviceID int64) (bool, error) {
	var ok bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM service_staff WHERE staff_id = $1 AND service_id = $2)`,
		staffID, serviceID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("error checking staff %d for service %d: %w", staffID, serviceID, err)
	}
	return ok, nil
}

func (r *CatalogRepository) GetStaff(ctx context.Context, id int64) (*db.Staff, error) {
	return r.getStaff(ctx, "st.id = $1", id)
}

// GetStaffByUserID resolves the staff profile of a logged-in staff user.
func (r *CatalogRepository) GetStaffByUserID(ctx context.Context, userID int64) (*db.Staff, error) {
	return r.getStaff(ctx, "st.user_id = $1", userID)
}

func (r *CatalogRepository) getStaff(ctx context.Context, where string, arg int64) (*db.Staff, error) {
	var st db.Staff
	err := r.DB.QueryRowContext(ctx, `
		SELECT `+staffColumns+`
		FROM staff st
		JOIN users u ON u.id = st.user_id
		WHERE `+where, arg).
		Scan(&st.ID, &st.UserID, &st.FullName, &st.Email, &st.Bio)
	if err != nil {
		return nil, mapError(err, "staff")
	}
	return &st, nil
}

// SaveService inserts svc, or updates the service that already has its
// name, and sets svc.ID.
func (r *CatalogRepository) SaveService(ctx context.Context, svc *db.Service) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE services
		SET description = $2, duration_minutes = $3, price_cents = $4, is_active = $5
		WHERE name = $1
		RETURNING id`,
		svc.Name, svc.Description, svc.DurationMinutes, svc.PriceCents, svc.IsActive).Scan(&svc.ID)
	if errors.Is(err, sql.ErrNoRows) {
		err = r.DB.QueryRowContext(ctx, `
			INSERT INTO services (name, description, duration_minutes, price_cents, is_active)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			svc.Name, svc.Description, svc.DurationMinutes, svc.PriceCents, svc.IsActive).Scan(&svc.ID)
	}
	return mapError(err, fmt.Sprintf("save service %q", svc.Name))
}

// EnsureStaff gives a user a staff profile, updating the bio if one exists.
func (r *CatalogRepository) EnsureStaff(ctx context.Context, userID int64, bio string) (*db.Staff, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO staff (user_id, bio) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET bio = EXCLUDED.bio
		RETURNING id`, userID, bio).Scan(&id)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("staff profile for user %d", userID))
	}
	return r.GetStaff(ctx, id)
}

func (r *CatalogRepository) LinkStaffService(ctx context.Context, staffID, serviceID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO service_staff (service_id, staff_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, serviceID, staffID)
	return mapError(err, fmt.Sprintf("link staff %d to service %d", staffID, serviceID))
}
