package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stylesync/internal/db"
	"stylesync/internal/entities"
	apperrors "stylesync/internal/errors"
	"stylesync/internal/slots"
	"stylesync/internal/utils"
)

type CatalogStore interface {
	ListActiveServices(ctx context.Context) ([]db.Service, error)
	GetService(ctx context.Context, id int64) (*db.Service, error)
	ListStaffForService(ctx context.Context, serviceID int64) ([]db.Staff, error)
	StaffPerformsService(ctx context.Context, staffID, serviceID int64) (bool, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *db.Booking) error
	GetDetails(ctx context.Context, id int64) (*db.BookingDetails, error)
	GetDetailsBySession(ctx context.Context, sessionID string) (*db.BookingDetails, error)
	Confirm(ctx context.Context, id int64, paymentIntentID string) (bool, error)
	Transition(ctx context.Context, id int64, from []string, to string) (bool, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]db.BookingDetails, error)
}

type CheckoutStore interface {
	AttachCheckoutSession(ctx context.Context, bookingID int64, sessionID string) error
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*db.BookingDetails, error)
}

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
	Refund(ctx context.Context, paymentIntentID string) error
}

type Notifier interface {
	Notify(d db.BookingDetails, notice Notice)
}

type BookingOptions struct {
	Currency           string
	CancellationNotice time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type BookingService struct {
	catalog  CatalogStore
	bookings BookingStore
	checkout CheckoutStore
	calc     *slots.Calculator
	payments PaymentGateway
	notifier Notifier
	opts     BookingOptions
	log      zerolog.Logger
}

func NewBookingService(
	catalog CatalogStore,
	bookings BookingStore,
	checkout CheckoutStore,
	calc *slots.Calculator,
	payments PaymentGateway,
	notifier Notifier,
	opts BookingOptions,
	log zerolog.Logger,
) *BookingService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &BookingService{
		catalog:  catalog,
		bookings: bookings,
		checkout: checkout,
		calc:     calc,
		payments: payments,
		notifier: notifier,
		opts:     opts,
		log:      log,
	}
}

func (s *BookingService) serviceResponse(svc db.Service) entities.ServiceResponse {
	return entities.ServiceResponse{
		ID:              svc.ID,
		Name:            svc.Name,
		Description:     svc.Description,
		DurationMinutes: svc.DurationMinutes,
		PriceCents:      svc.PriceCents,
		PriceFormatted:  utils.FormatCents(svc.PriceCents, s.opts.Currency),
	}
}

func (s *BookingService) bookingResponse(d db.BookingDetails) entities.BookingResponse {
	return entities.BookingResponse{
		ID:          d.ID,
		Code:        d.Code,
		ServiceName: d.ServiceName,
		StaffName:   d.StaffName,
		StartTime:   d.StartTime.In(s.calc.Location()),
		EndTime:     d.EndTime.In(s.calc.Location()),
		Status:      d.Status,
		Price:       utils.FormatCents(d.PriceCents, s.opts.Currency),
	}
}

func (s *BookingService) ListServices(ctx context.Context) ([]entities.ServiceResponse, error) {
	services, err := s.catalog.ListActiveServices(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]entities.ServiceResponse, 0, len(services))
	for _, svc := range services {
		resp = append(resp, s.serviceResponse(svc))
	}
	return resp, nil
}

// activeService hides inactive services behind ErrNotFound.
func (s *BookingService) activeService(ctx context.Context, id int64) (*db.Service, error) {
	svc, err := s.catalog.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, fmt.Errorf("service %d: %w", id, apperrors.ErrNotFound)
	}
	return svc, nil
}

func (s *BookingService) GetService(ctx context.Context, id int64) (*entities.ServiceResponse, error) {
	svc, err := s.activeService(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.serviceResponse(*svc)
	return &resp, nil
}

func (s *BookingService) ListStaffForService(ctx context.Context, serviceID int64) ([]entities.StaffResponse, error) {
	if _, err := s.activeService(ctx, serviceID); err != nil {
		return nil, err
	}
	staff, err := s.catalog.ListStaffForService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	resp := make([]entities.StaffResponse, 0, len(staff))
	for _, st := range staff {
		resp = append(resp, entities.StaffResponse{ID: st.ID, FullName: st.FullName, Bio: st.Bio})
	}
	return resp, nil
}

// openSlots returns the calculator's slots minus the ones already in the
// past.
func (s *BookingService) openSlots(ctx context.Context, svc *db.Service, staffID int64, date slots.Date) ([]slots.TimeOfDay, error) {
	ok, err := s.catalog.StaffPerformsService(ctx, staffID, svc.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("staff %d does not perform service %d: %w", staffID, svc.ID, apperrors.ErrNotFound)
	}

	all, err := s.calc.Slots(ctx, svc.DurationMinutes, staffID, date)
	if errors.Is(err, slots.ErrInvalidDuration) || errors.Is(err, slots.ErrInvalidWindow) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	if err != nil {
		return nil, err
	}
	now := s.opts.Now()
	open := make([]slots.TimeOfDay, 0, len(all))
	for _, t := range all {
		if date.At(t, s.calc.Location()).After(now) {
			open = append(open, t)
		}
	}
	return open, nil
}

func (s *BookingService) AvailableSlots(ctx context.Context, serviceID, staffID int64, date slots.Date) (*entities.SlotsResponse, error) {
	svc, err := s.activeService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	open, err := s.openSlots(ctx, svc, staffID, date)
	if err != nil {
		return nil, err
	}
	return &entities.SlotsResponse{
		ServiceID:       svc.ID,
		StaffID:         staffID,
		Date:            date,
		DurationMinutes: svc.DurationMinutes,
		Slots:           open,
	}, nil
}

func newBookingCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateBooking re-checks the requested time against the current slot list,
// stores a pending booking and opens a Checkout session for it.
func (s *BookingService) CreateBooking(ctx context.Context, req entities.BookingRequest) (*entities.CheckoutResponse, error) {
	svc, err := s.activeService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	open, err := s.openSlots(ctx, svc, req.StaffID, req.Date)
	if err != nil {
		return nil, err
	}
	if !slots.Contains(open, req.Time) {
		return nil, fmt.Errorf("%s %s: %w", req.Date, req.Time, apperrors.ErrSlotUnavailable)
	}

	start := req.Date.At(req.Time, s.calc.Location())
	booking := &db.Booking{
		Code:       newBookingCode(),
		CustomerID: req.CustomerID,
		StaffID:    req.StaffID,
		ServiceID:  svc.ID,
		StartTime:  start,
		EndTime:    start.Add(svc.Duration()),
		Status:     db.BookingPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	details, err := s.bookings.GetDetails(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	sess, err := s.payments.CreateCheckoutSession(ctx, CheckoutRequest{
		BookingID:     booking.ID,
		BookingCode:   booking.Code,
		Description:   fmt.Sprintf("%s with %s", details.ServiceName, details.StaffName),
		AmountCents:   svc.PriceCents,
		CustomerEmail: details.CustomerEmail,
	})
	if err != nil {
		if _, terr := s.bookings.Transition(ctx, booking.ID, []string{db.BookingPending}, db.BookingCancelled); terr != nil {
			s.log.Error().Err(terr).Str("booking", booking.Code).Msg("could not cancel booking after checkout failure")
		}
		return nil, err
	}
	if err := s.checkout.AttachCheckoutSession(ctx, booking.ID, sess.ID); err != nil {
		return nil, err
	}

	s.log.Info().Str("booking", booking.Code).Int64("staff_id", req.StaffID).Time("start", start).Msg("booking pending payment")
	return &entities.CheckoutResponse{
		BookingID:   booking.ID,
		Code:        booking.Code,
		CheckoutURL: sess.URL,
		SessionID:   sess.ID,
	}, nil
}

// ConfirmBySession marks the booking paid through the given Checkout
// session as confirmed. Calling it again for the same session is a no-op.
// When the time was meanwhile taken the payment is refunded, the booking is
// cancelled and ErrSlotTaken is returned.
func (s *BookingService) ConfirmBySession(ctx context.Context, sessionID, paymentIntentID string) (*entities.BookingResponse, error) {
	d, err := s.bookings.GetDetailsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.bookings.Confirm(ctx, d.ID, paymentIntentID)
	if errors.Is(err, apperrors.ErrSlotTaken) {
		s.log.Warn().Str("booking", d.Code).Msg("paid booking lost its slot, refunding")
		if paymentIntentID != "" {
			if rerr := s.payments.Refund(ctx, paymentIntentID); rerr != nil {
				s.log.Error().Err(rerr).Str("booking", d.Code).Msg("refund failed")
			}
		}
		if _, terr := s.bookings.Transition(ctx, d.ID, []string{db.BookingPending}, db.BookingCancelled); terr != nil {
			return nil, terr
		}
		d.Status = db.BookingCancelled
		s.notifier.Notify(*d, NoticeCancelled)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if !confirmed && d.Status == db.BookingCancelled && paymentIntentID != "" {
		// Paid through a checkout page that outlived its booking.
		s.log.Warn().Str("booking", d.Code).Str("payment_intent", paymentIntentID).Msg("payment for cancelled booking, refunding")
		if err := s.payments.Refund(ctx, paymentIntentID); err != nil {
			return nil, err
		}
		s.notifier.Notify(*d, NoticeCancelled)
	}
	if confirmed {
		d.Status = db.BookingConfirmed
		d.StripePaymentIntentID = paymentIntentID
		s.log.Info().Str("booking", d.Code).Msg("booking confirmed")
		s.notifier.Notify(*d, NoticeConfirmed)
	}
	resp := s.bookingResponse(*d)
	return &resp, nil
}

// BookingBySession returns the booking paid through a Checkout session.
// It is what the customer lands on after paying; confirmation itself
// arrives through the webhook.
func (s *BookingService) BookingBySession(ctx context.Context, sessionID string) (*entities.BookingResponse, error) {
	d, err := s.bookings.GetDetailsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resp := s.bookingResponse(*d)
	return &resp, nil
}

// CancelBySession drops the pending booking of an abandoned checkout.
func (s *BookingService) CancelBySession(ctx context.Context, sessionID string) (*entities.BookingResponse, error) {
	d, err := s.bookings.GetDetailsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	changed, err := s.bookings.Transition(ctx, d.ID, []string{db.BookingPending}, db.BookingCancelled)
	if err != nil {
		return nil, err
	}
	if changed {
		d.Status = db.BookingCancelled
		s.expireCheckout(ctx, *d)
	}
	resp := s.bookingResponse(*d)
	return &resp, nil
}

// CancelBooking cancels a customer's own booking. Confirmed bookings must
// start more than the cancellation notice from now and are refunded first.
func (s *BookingService) CancelBooking(ctx context.Context, customerID, bookingID int64) (*entities.BookingResponse, error) {
	d, err := s.bookings.GetDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d.CustomerID != customerID {
		return nil, fmt.Errorf("booking %d: %w", bookingID, apperrors.ErrNotFound)
	}

	switch d.Status {
	case db.BookingPending:
	case db.BookingConfirmed:
		if d.StartTime.Sub(s.opts.Now()) <= s.opts.CancellationNotice {
			return nil, fmt.Errorf("less than %s before the appointment: %w", s.opts.CancellationNotice, apperrors.ErrCancellationWindow)
		}
		if d.StripePaymentIntentID != "" {
			if err := s.payments.Refund(ctx, d.StripePaymentIntentID); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("booking is already %s: %w", d.Status, apperrors.ErrInvalidInput)
	}

	changed, err := s.bookings.Transition(ctx, d.ID, []string{d.Status}, db.BookingCancelled)
	if err != nil {
		return nil, err
	}
	if !changed {
		// A refund webhook may have cancelled it first.
		current, err := s.bookings.GetDetails(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if current.Status != db.BookingCancelled {
			return nil, fmt.Errorf("booking %d changed concurrently: %w", bookingID, apperrors.ErrInvalidInput)
		}
		resp := s.bookingResponse(*current)
		return &resp, nil
	}
	wasConfirmed := d.Status == db.BookingConfirmed
	d.Status = db.BookingCancelled
	if wasConfirmed {
		s.notifier.Notify(*d, NoticeCancelled)
	} else {
		s.expireCheckout(ctx, *d)
	}
	s.log.Info().Str("booking", d.Code).Msg("booking cancelled by customer")
	resp := s.bookingResponse(*d)
	return &resp, nil
}

// expireCheckout closes the Checkout page of a booking that was cancelled
// before it was paid. Failures are logged: a payment that still slips
// through is refunded by ConfirmBySession.
func (s *BookingService) expireCheckout(ctx context.Context, d db.BookingDetails) {
	if d.StripeSessionID == "" {
		return
	}
	if err := s.payments.ExpireCheckoutSession(ctx, d.StripeSessionID); err != nil {
		s.log.Info().Err(err).Str("booking", d.Code).Msg("checkout session not expired")
	}
}

// CancelByRefund handles a refund issued outside the app (e.g. from the
// Stripe dashboard).
func (s *BookingService) CancelByRefund(ctx context.Context, paymentIntentID string) error {
	d, err := s.checkout.GetByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	changed, err := s.bookings.Transition(ctx, d.ID, []string{db.BookingPending, db.BookingConfirmed}, db.BookingCancelled)
	if err != nil {
		return err
	}
	if changed {
		d.Status = db.BookingCancelled
		s.notifier.Notify(*d, NoticeCancelled)
	}
	return nil
}

// MyBookings splits a customer's bookings into upcoming confirmed ones,
// soonest first, and past ones, latest first.
func (s *BookingService) MyBookings(ctx context.Context, customerID int64) (*entities.MyBookings, error) {
	all, err := s.bookings.ListForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	now := s.opts.Now()
	resp := &entities.MyBookings{Upcoming: []entities.BookingResponse{}, Past: []entities.BookingResponse{}}
	for i := len(all) - 1; i >= 0; i-- {
		d := all[i]
		if !d.StartTime.Before(now) && d.Status == db.BookingConfirmed {
			resp.Upcoming = append(resp.Upcoming, s.bookingResponse(d))
		}
	}
	for _, d := range all {
		if d.StartTime.Before(now) {
			resp.Past = append(resp.Past, s.bookingResponse(d))
		}
	}
	return resp, nil
}
