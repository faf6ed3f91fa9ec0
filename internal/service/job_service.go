package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"stylesync/internal/db"
)

type JobStore interface {
	ListReminderCandidates(ctx context.Context, from, to time.Time) ([]db.BookingDetails, error)
	MarkReminded(ctx context.Context, ids []int64, at time.Time) error
	CancelPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
	CompleteConfirmedEndedBefore(ctx context.Context, now time.Time) (int64, error)
}

// CheckoutExpirer closes the Checkout page of an abandoned booking.
type CheckoutExpirer interface {
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

type ReminderSender interface {
	SendBookingEmail(ctx context.Context, d db.BookingDetails, notice Notice) error
	SendBookingSMS(ctx context.Context, d db.BookingDetails, notice Notice) error
}

// Bookings starting inside [now+ReminderLead, now+ReminderLead+ReminderSpan)
// get a reminder.
const (
	ReminderLead = 24 * time.Hour
	ReminderSpan = 24 * time.Hour
)

type JobService struct {
	store      JobStore
	sender     ReminderSender
	checkout   CheckoutExpirer
	pendingTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewJobService builds the maintenance jobs. checkout may be nil when no
// payment provider is configured.
func NewJobService(store JobStore, sender ReminderSender, checkout CheckoutExpirer, pendingTTL time.Duration, log zerolog.Logger) *JobService {
	return &JobService{
		store:      store,
		sender:     sender,
		checkout:   checkout,
		pendingTTL: pendingTTL,
		now:        time.Now,
		log:        log.With().Str("component", "jobs").Logger(),
	}
}

// SendReminders e-mails every confirmed booking due in 24 to 48 hours that
// was not reminded yet. A booking is marked only when its e-mail went out,
// so failed ones are retried on the next run.
func (s *JobService) SendReminders(ctx context.Context) (int, error) {
	now := s.now()
	candidates, err := s.store.ListReminderCandidates(ctx, now.Add(ReminderLead), now.Add(ReminderLead+ReminderSpan))
	if err != nil {
		return 0, fmt.Errorf("list reminder candidates: %w", err)
	}
	s.log.Info().Int("candidates", len(candidates)).Msg("sending reminders")

	sent := make([]int64, 0, len(candidates))
	for _, d := range candidates {
		logger := s.log.With().Str("booking", d.Code).Logger()
		if err := s.sender.SendBookingEmail(ctx, d, NoticeReminder); err != nil {
			logger.Warn().Err(err).Msg("reminder not sent")
			continue
		}
		if err := s.sender.SendBookingSMS(ctx, d, NoticeReminder); err != nil {
			logDeliveryError(logger, err, "reminder sms not sent")
		}
		sent = append(sent, d.ID)
	}

	if err := s.store.MarkReminded(ctx, sent, now); err != nil {
		return 0, err
	}
	s.log.Info().Int("sent", len(sent)).Int("failed", len(candidates)-len(sent)).Msg("reminders done")
	return len(sent), nil
}

// ExpirePendingBookings cancels bookings left unpaid for longer than the
// pending TTL and closes their Checkout pages.
func (s *JobService) ExpirePendingBookings(ctx context.Context) (int64, error) {
	sessions, err := s.store.CancelPendingCreatedBefore(ctx, s.now().Add(-s.pendingTTL))
	if err != nil {
		return 0, fmt.Errorf("expire pending bookings: %w", err)
	}
	for _, id := range sessions {
		if id == "" || s.checkout == nil {
			continue
		}
		if err := s.checkout.ExpireCheckoutSession(ctx, id); err != nil {
			s.log.Info().Err(err).Str("session", id).Msg("checkout session not expired")
		}
	}
	n := int64(len(sessions))
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("expired unpaid bookings")
	}
	return n, nil
}

func (s *JobService) CompleteFinishedBookings(ctx context.Context) (int64, error) {
	n, err := s.store.CompleteConfirmedEndedBefore(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("complete finished bookings: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("marked bookings completed")
	}
	return n, nil
}

type JobSchedule struct {
	Reminders string
	Expire    string
	Complete  string
}

const jobTimeout = 5 * time.Minute

// Register adds the three maintenance jobs to c.
func (s *JobService) Register(c *cron.Cron, schedule JobSchedule) error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{"reminders", schedule.Reminders, func(ctx context.Context) error { _, err := s.SendReminders(ctx); return err }},
		{"expire_pending", schedule.Expire, func(ctx context.Context) error { _, err := s.ExpirePendingBookings(ctx); return err }},
		{"complete_finished", schedule.Complete, func(ctx context.Context) error { _, err := s.CompleteFinishedBookings(ctx); return err }},
	}
	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := job.run(ctx); err != nil {
				s.log.Error().Err(err).Str("job", job.name).Msg("cron job failed")
			}
		})
		if err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.name, job.spec, err)
		}
	}
	return nil
}
