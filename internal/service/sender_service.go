package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"stylesync/internal/db"
	"stylesync/internal/entities"
	"stylesync/internal/templates"
	"stylesync/internal/utils"
)

// Notice selects the wording of a booking message.
type Notice string

const (
	NoticeConfirmed Notice = "confirmed"
	NoticeCancelled Notice = "cancelled"
	NoticeReminder  Notice = "reminder"
)

func (n Notice) heading() string {
	switch n {
	case NoticeConfirmed:
		return "Your booking is confirmed"
	case NoticeCancelled:
		return "Your booking was cancelled"
	case NoticeReminder:
		return "Reminder: your appointment is coming up"
	}
	return "Booking update"
}

type SenderService struct {
	mailer   Mailer
	texter   Texter
	tmpl     *template.Template
	loc      *time.Location
	currency string
	log      zerolog.Logger
}

func NewSenderService(mailer Mailer, texter Texter, loc *time.Location, currency string, log zerolog.Logger) (*SenderService, error) {
	tmpl, err := templates.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SenderService{
		mailer:   mailer,
		texter:   texter,
		tmpl:     tmpl,
		loc:      loc,
		currency: currency,
		log:      log,
	}, nil
}

const emailTimeLayout = "Mon 02 Jan 2006 15:04 MST"

func (s *SenderService) emailData(d db.BookingDetails, notice Notice) entities.BookingEmailData {
	return entities.BookingEmailData{
		CustomerName:       d.CustomerName,
		BookingCode:        d.Code,
		ServiceName:        d.ServiceName,
		StaffName:          d.StaffName,
		StartTimeFormatted: d.StartTime.In(s.loc).Format(emailTimeLayout),
		EndTimeFormatted:   d.EndTime.In(s.loc).Format(emailTimeLayout),
		Price:              utils.FormatCents(d.PriceCents, s.currency),
		Status:             utils.StatusTranslation(d.Status),
		Heading:            notice.heading(),
		CurrentYear:        time.Now().In(s.loc).Year(),
	}
}

// RenderEmail builds the subject, plain-text and HTML bodies of a booking
// message.
func (s *SenderService) RenderEmail(d db.BookingDetails, notice Notice) (subject, plain, html string, err error) {
	data := s.emailData(d, notice)

	subject = fmt.Sprintf("%s - Code: %s", data.Heading, data.BookingCode)
	plain = fmt.Sprintf(
		"Hello %s,\n\n%s.\n\n"+
			"Booking code: %s\n"+
			"Service: %s with %s\n"+
			"Starts: %s\n"+
			"Ends: %s\n"+
			"Price: %s\n\n"+
			"Thank you for choosing StyleSync.\n",
		data.CustomerName, data.Heading, data.BookingCode, data.ServiceName, data.StaffName,
		data.StartTimeFormatted, data.EndTimeFormatted, data.Price,
	)

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, templates.BookingEmail, data); err != nil {
		return "", "", "", fmt.Errorf("render email for booking %s: %w", d.Code, err)
	}
	return subject, plain, buf.String(), nil
}

func (s *SenderService) SendBookingEmail(ctx context.Context, d db.BookingDetails, notice Notice) error {
	subject, plain, html, err := s.RenderEmail(d, notice)
	if err != nil {
		return err
	}
	return s.mailer.SendEmail(ctx, d.CustomerEmail, d.CustomerName, subject, plain, html)
}

// SendBookingSMS is a no-op when the customer left no phone number.
func (s *SenderService) SendBookingSMS(ctx context.Context, d db.BookingDetails, notice Notice) error {
	if d.CustomerPhone == "" {
		return nil
	}
	body := fmt.Sprintf("StyleSync: booking %s %s. %s with %s on %s.",
		d.Code, notice, d.ServiceName, d.StaffName, d.StartTime.In(s.loc).Format("02/01 15:04"))
	return s.texter.SendSMS(ctx, d.CustomerPhone, body)
}

// Notify sends the e-mail and SMS in the background. Failures are logged;
// the booking flow never waits on delivery.
func (s *SenderService) Notify(d db.BookingDetails, notice Notice) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.deliver(ctx, d, notice)
	}()
}

func (s *SenderService) deliver(ctx context.Context, d db.BookingDetails, notice Notice) {
	logger := s.log.With().Str("booking", d.Code).Str("notice", string(notice)).Logger()
	if err := s.SendBookingEmail(ctx, d, notice); err != nil {
		logDeliveryError(logger, err, "email not sent")
	}
	if err := s.SendBookingSMS(ctx, d, notice); err != nil {
		logDeliveryError(logger, err, "sms not sent")
	}
}

func logDeliveryError(logger zerolog.Logger, err error, msg string) {
	if errors.Is(err, ErrNotConfigured) {
		logger.Debug().Err(err).Msg(msg)
		return
	}
	logger.Warn().Err(err).Msg(msg)
}
