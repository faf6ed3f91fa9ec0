package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"stylesync/internal/db"
)

type MockCatalogStore struct{ mock.Mock }

func (m *MockCatalogStore) ListActiveServices(ctx context.Context) ([]db.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Service), args.Error(1)
}

func (m *MockCatalogStore) GetService(ctx context.Context, id int64) (*db.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Service), args.Error(1)
}

func (m *MockCatalogStore) ListStaffForService(ctx context.Context, serviceID int64) ([]db.Staff, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Staff), args.Error(1)
}

func (m *MockCatalogStore) StaffPerformsService(ctx context.Context, staffID, serviceID int64) (bool, error) {
	args := m.Called(ctx, staffID, serviceID)
	return args.Bool(0), args.Error(1)
}

type MockBookingStore struct{ mock.Mock }

func (m *MockBookingStore) Create(ctx context.Context, b *db.Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.ID = 99 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingStore) GetDetails(ctx context.Context, id int64) (*db.BookingDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.BookingDetails), args.Error(1)
}

func (m *MockBookingStore) GetDetailsBySession(ctx context.Context, sessionID string) (*db.BookingDetails, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.BookingDetails), args.Error(1)
}

func (m *MockBookingStore) Confirm(ctx context.Context, id int64, paymentIntentID string) (bool, error) {
	args := m.Called(ctx, id, paymentIntentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) Transition(ctx context.Context, id int64, from []string, to string) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) ListForCustomer(ctx context.Context, customerID int64) ([]db.BookingDetails, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.BookingDetails), args.Error(1)
}

type MockCheckoutStore struct{ mock.Mock }

func (m *MockCheckoutStore) AttachCheckoutSession(ctx context.Context, bookingID int64, sessionID string) error {
	return m.Called(ctx, bookingID, sessionID).Error(0)
}

func (m *MockCheckoutStore) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*db.BookingDetails, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.BookingDetails), args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, paymentIntentID string) error {
	return m.Called(ctx, paymentIntentID).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(d db.BookingDetails, notice Notice) {
	m.Called(d, notice)
}

type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.User), args.Error(1)
}

func (m *MockUserStore) CreateNewUser(ctx context.Context, u db.User, password string) (*db.User, error) {
	args := m.Called(ctx, u, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.User), args.Error(1)
}

type MockStaffDirectory struct{ mock.Mock }

func (m *MockStaffDirectory) GetStaffByUserID(ctx context.Context, userID int64) (*db.Staff, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Staff), args.Error(1)
}

type MockAvailabilityStore struct{ mock.Mock }

func (m *MockAvailabilityStore) ListForStaff(ctx context.Context, staffID int64) ([]db.Availability, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Availability), args.Error(1)
}

func (m *MockAvailabilityStore) ReplaceForStaff(ctx context.Context, staffID int64, entries []db.Availability) error {
	return m.Called(ctx, staffID, entries).Error(0)
}

type MockStaffBookings struct{ mock.Mock }

func (m *MockStaffBookings) ListConfirmedForStaff(ctx context.Context, staffID int64, from time.Time) ([]db.BookingDetails, error) {
	args := m.Called(ctx, staffID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.BookingDetails), args.Error(1)
}

type MockJobStore struct{ mock.Mock }

func (m *MockJobStore) ListReminderCandidates(ctx context.Context, from, to time.Time) ([]db.BookingDetails, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.BookingDetails), args.Error(1)
}

func (m *MockJobStore) MarkReminded(ctx context.Context, ids []int64, at time.Time) error {
	return m.Called(ctx, ids, at).Error(0)
}

func (m *MockJobStore) CancelPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockJobStore) CompleteConfirmedEndedBefore(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) SendBookingEmail(ctx context.Context, d db.BookingDetails, notice Notice) error {
	return m.Called(ctx, d, notice).Error(0)
}

func (m *MockSender) SendBookingSMS(ctx context.Context, d db.BookingDetails, notice Notice) error {
	return m.Called(ctx, d, notice).Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	return m.Called(ctx, toEmail, toName, subject, plainText, html).Error(0)
}

type MockTexter struct{ mock.Mock }

func (m *MockTexter) SendSMS(ctx context.Context, toNumber, body string) error {
	return m.Called(ctx, toNumber, body).Error(0)
}
