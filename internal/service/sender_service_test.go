package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stylesync/internal/db"
)

func sampleDetails() db.BookingDetails {
	start := time.Date(2026, time.January, 28, 15, 0, 0, 0, time.UTC)
	return db.BookingDetails{
		Booking:       db.Booking{ID: 7, Code: "AB12CD34", StartTime: start, EndTime: start.Add(45 * time.Minute), Status: db.BookingConfirmed},
		ServiceName:   "Colour",
		StaffName:     "Ana",
		PriceCents:    8000,
		CustomerName:  "Bea",
		CustomerEmail: "bea@example.com",
	}
}

func TestRenderEmail(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	s, err := NewSenderService(new(MockMailer), new(MockTexter), loc, "usd", zerolog.Nop())
	require.NoError(t, err)

	subject, plain, html, err := s.RenderEmail(sampleDetails(), NoticeReminder)
	require.NoError(t, err)
	assert.Equal(t, "Reminder: your appointment is coming up - Code: AB12CD34", subject)
	assert.Contains(t, plain, "Colour with Ana")
	assert.Contains(t, plain, "80.00 USD")
	assert.Contains(t, plain, "Wed 28 Jan 2026 10:00 EST")
	assert.Contains(t, html, "AB12CD34")
}

func TestSendBookingEmail_UsesMailer(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("SendEmail", mock.Anything, "bea@example.com", "Bea", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s, err := NewSenderService(mailer, new(MockTexter), time.UTC, "usd", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.SendBookingEmail(context.Background(), sampleDetails(), NoticeConfirmed))
	mailer.AssertExpectations(t)
}

func TestSendBookingSMS(t *testing.T) {
	texter := new(MockTexter)
	s, err := NewSenderService(new(MockMailer), texter, time.UTC, "usd", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.SendBookingSMS(context.Background(), sampleDetails(), NoticeConfirmed))
	texter.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)

	d := sampleDetails()
	d.CustomerPhone = "+15550001111"
	texter.On("SendSMS", mock.Anything, "+15550001111",
		"StyleSync: booking AB12CD34 confirmed. Colour with Ana on 28/01 15:00.").Return(nil)
	require.NoError(t, s.SendBookingSMS(context.Background(), d, NoticeConfirmed))
	texter.AssertExpectations(t)
}

func TestUnconfiguredChannels(t *testing.T) {
	m := NewSendGridMailer("", "", "StyleSync", zerolog.Nop())
	assert.ErrorIs(t, m.SendEmail(context.Background(), "a@b.test", "A", "s", "p", "h"), ErrNotConfigured)

	tx := NewTwilioTexter("", "", "", zerolog.Nop())
	assert.ErrorIs(t, tx.SendSMS(context.Background(), "+15550001111", "hi"), ErrNotConfigured)
}
