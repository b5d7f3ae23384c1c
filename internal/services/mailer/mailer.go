// Package mailer delivers transactional mail.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/diewo77/go-directory/internal/config"
	"gopkg.in/gomail.v2"
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// New returns an SMTP mailer when a host is configured, a LogMailer otherwise.
func New(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		slog.Warn("SMTP_HOST not set, mail is logged instead of sent")
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.fromName)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	return nil
}

// LogMailer writes messages to the log. Used in development.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Message) error {
	slog.Info("mail", "to", m.To, "subject", m.Subject, "body", m.HTML)
	return nil
}

var otpTemplate = template.Must(template.New("otp").Parse(
	`<div style="font-family:sans-serif">` +
		`<h2>Admin Access Verification</h2>` +
		`<p>Your verification code is:</p>` +
		`<h1 style="letter-spacing:4px">{{.Code}}</h1>` +
		`<p>Code expires in {{.Minutes}} minutes.</p>` +
		`</div>`))

// OTPMessage builds the admin verification email.
func OTPMessage(to, code string, minutes int) (Message, error) {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{code, minutes}); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Admin Access Verification", HTML: buf.String()}, nil
}
