package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrNotConfigured = errors.New("delivery channel not configured")

// Mailer delivers one e-mail.
type Mailer interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error
}

// Texter delivers one SMS.
type Texter interface {
	SendSMS(ctx context.Context, toNumber, body string) error
}

type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       zerolog.Logger
}

// NewSendGridMailer returns a mailer that fails with ErrNotConfigured when
// apiKey or fromEmail is empty.
func NewSendGridMailer(apiKey, fromEmail, fromName string, log zerolog.Logger) *SendGridMailer {
	m := &SendGridMailer{fromEmail: fromEmail, fromName: fromName, log: log.With().Str("channel", "email").Logger()}
	if apiKey != "" {
		m.client = sendgrid.NewSendClient(apiKey)
	}
	return m
}

func (m *SendGridMailer) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	if m.client == nil || m.fromEmail == "" {
		return fmt.Errorf("sendgrid: %w", ErrNotConfigured)
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", toEmail, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	m.log.Debug().Str("to", toEmail).Str("subject", subject).Int("status", response.StatusCode).Msg("email sent")
	return nil
}

type TwilioTexter struct {
	client     *twilio.RestClient
	fromNumber string
	log        zerolog.Logger
}

func NewTwilioTexter(accountSID, authToken, fromNumber string, log zerolog.Logger) *TwilioTexter {
	t := &TwilioTexter{fromNumber: fromNumber, log: log.With().Str("channel", "sms").Logger()}
	if accountSID != "" && authToken != "" {
		t.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username:   accountSID,
			Password:   authToken,
			AccountSid: accountSID,
		})
	}
	return t
}

func (t *TwilioTexter) SendSMS(_ context.Context, toNumber, body string) error {
	if t.client == nil || t.fromNumber == "" {
		return fmt.Errorf("twilio: %w", ErrNotConfigured)
	}
	if !strings.HasPrefix(toNumber, "+") {
		return fmt.Errorf("twilio: number %q is not in E.164 format", toNumber)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", toNumber, err)
	}
	if resp != nil && resp.Sid != nil {
		t.log.Debug().Str("to", toNumber).Str("sid", *resp.Sid).Msg("sms sent")
	}
	return nil
}
