package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stylesync/internal/db"
	"stylesync/internal/entities"
	"stylesync/internal/service"
	"stylesync/internal/slots"
)

type MockBookingAPI struct{ mock.Mock }

func (m *MockBookingAPI) ListServices(ctx context.Context) ([]entities.ServiceResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ServiceResponse), args.Error(1)
}

func (m *MockBookingAPI) GetService(ctx context.Context, id int64) (*entities.ServiceResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ServiceResponse), args.Error(1)
}

func (m *MockBookingAPI) ListStaffForService(ctx context.Context, serviceID int64) ([]entities.StaffResponse, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.StaffResponse), args.Error(1)
}

func (m *MockBookingAPI) AvailableSlots(ctx context.Context, serviceID, staffID int64, date slots.Date) (*entities.SlotsResponse, error) {
	args := m.Called(ctx, serviceID, staffID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SlotsResponse), args.Error(1)
}

func (m *MockBookingAPI) CreateBooking(ctx context.Context, req entities.BookingRequest) (*entities.CheckoutResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CheckoutResponse), args.Error(1)
}

func (m *MockBookingAPI) MyBookings(ctx context.Context, customerID int64) (*entities.MyBookings, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MyBookings), args.Error(1)
}

func (m *MockBookingAPI) CancelBooking(ctx context.Context, customerID, bookingID int64) (*entities.BookingResponse, error) {
	args := m.Called(ctx, customerID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BookingResponse), args.Error(1)
}

func (m *MockBookingAPI) BookingBySession(ctx context.Context, sessionID string) (*entities.BookingResponse, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BookingResponse), args.Error(1)
}

func (m *MockBookingAPI) CancelBySession(ctx context.Context, sessionID string) (*entities.BookingResponse, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BookingResponse), args.Error(1)
}

func (m *MockBookingAPI) ConfirmBySession(ctx context.Context, sessionID, paymentIntentID string) (*entities.BookingResponse, error) {
	args := m.Called(ctx, sessionID, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BookingResponse), args.Error(1)
}

func (m *MockBookingAPI) CancelByRefund(ctx context.Context, paymentIntentID string) error {
	return m.Called(ctx, paymentIntentID).Error(0)
}

type MockAuthAPI struct{ mock.Mock }

func (m *MockAuthAPI) Register(ctx context.Context, in service.RegisterInput) (*db.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.User), args.Error(1)
}

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

type MockStaffAPI struct{ mock.Mock }

func (m *MockStaffAPI) Schedule(ctx context.Context, userID int64) ([]entities.DaySchedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DaySchedule), args.Error(1)
}

func (m *MockStaffAPI) Availability(ctx context.Context, userID int64) ([]entities.AvailabilityEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AvailabilityEntry), args.Error(1)
}

func (m *MockStaffAPI) ReplaceAvailability(ctx context.Context, userID int64, entries []entities.AvailabilityEntry) ([]entities.AvailabilityEntry, error) {
	args := m.Called(ctx, userID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AvailabilityEntry), args.Error(1)
}
