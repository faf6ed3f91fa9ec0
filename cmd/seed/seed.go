package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"stylesync/internal/db"
	"stylesync/internal/entities"
	"stylesync/internal/slots"
)

type seedFile struct {
	Services []seedService `yaml:"services" validate:"dive"`
	Staff    []seedStaff   `yaml:"staff" validate:"dive"`
}

type seedService struct {
	Name            string `yaml:"name" validate:"required"`
	Description     string `yaml:"description"`
	DurationMinutes int    `yaml:"duration_minutes" validate:"gt=0"`
	PriceCents      int64  `yaml:"price_cents" validate:"gte=0"`
	Inactive        bool   `yaml:"inactive"`
}

type seedStaff struct {
	Email        string      `yaml:"email" validate:"required,email"`
	Password     string      `yaml:"password" validate:"required,min=8,max=72"`
	FullName     string      `yaml:"full_name" validate:"required"`
	Phone        string      `yaml:"phone" validate:"omitempty,e164"`
	Bio          string      `yaml:"bio"`
	Services     []string    `yaml:"services" validate:"dive,required"`
	Availability []seedHours `yaml:"availability"`
}

type seedHours struct {
	Day   slots.DayOfWeek `yaml:"day"`
	Start slots.TimeOfDay `yaml:"start"`
	End   slots.TimeOfDay `yaml:"end"`
}

func parseSeed(data []byte) (*seedFile, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := validator.New().Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &f, nil
}

type catalogWriter interface {
	SaveService(ctx context.Context, svc *db.Service) error
	EnsureStaff(ctx context.Context, userID int64, bio string) (*db.Staff, error)
	LinkStaffService(ctx context.Context, staffID, serviceID int64) error
}

type userWriter interface {
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	CreateNewUser(ctx context.Context, u db.User, password string) (*db.User, error)
}

type availabilityWriter interface {
	ReplaceAvailability(ctx context.Context, userID int64, entries []entities.AvailabilityEntry) ([]entities.AvailabilityEntry, error)
}

// seeder loads a seedFile. Running it twice leaves the same catalog:
// services are matched by name and staff by e-mail.
type seeder struct {
	catalog      catalogWriter
	users        userWriter
	availability availabilityWriter
	log          zerolog.Logger
}

func (s *seeder) run(ctx context.Context, f *seedFile) error {
	serviceIDs := make(map[string]int64, len(f.Services))
	for _, in := range f.Services {
		svc := &db.Service{
			Name:            in.Name,
			Description:     in.Description,
			DurationMinutes: in.DurationMinutes,
			PriceCents:      in.PriceCents,
			IsActive:        !in.Inactive,
		}
		if err := s.catalog.SaveService(ctx, svc); err != nil {
			return err
		}
		serviceIDs[in.Name] = svc.ID
		s.log.Info().Str("service", svc.Name).Int64("id", svc.ID).Msg("service saved")
	}

	for _, in := range f.Staff {
		user, err := s.staffUser(ctx, in)
		if err != nil {
			return err
		}
		staff, err := s.catalog.EnsureStaff(ctx, user.ID, in.Bio)
		if err != nil {
			return err
		}
		for _, name := range in.Services {
			id, ok := serviceIDs[name]
			if !ok {
				return fmt.Errorf("staff %s: unknown service %q", in.Email, name)
			}
			if err := s.catalog.LinkStaffService(ctx, staff.ID, id); err != nil {
				return err
			}
		}

		week := make([]entities.AvailabilityEntry, 0, len(in.Availability))
		for _, h := range in.Availability {
			week = append(week, entities.AvailabilityEntry{DayOfWeek: h.Day, StartTime: h.Start, EndTime: h.End})
		}
		if _, err := s.availability.ReplaceAvailability(ctx, user.ID, week); err != nil {
			return fmt.Errorf("staff %s availability: %w", in.Email, err)
		}
		s.log.Info().Str("staff", in.Email).Int64("id", staff.ID).Int("services", len(in.Services)).Msg("staff saved")
	}
	return nil
}

// staffUser returns the account for in, creating it with the staff role
// when the e-mail is new. Customer accounts are never promoted.
func (s *seeder) staffUser(ctx context.Context, in seedStaff) (*db.User, error) {
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Role != db.RoleStaff {
			return nil, fmt.Errorf("%s already registered as %s", in.Email, existing.Role)
		}
		return existing, nil
	}
	return s.users.CreateNewUser(ctx, db.User{
		Email:    in.Email,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     db.RoleStaff,
	}, in.Password)
}
