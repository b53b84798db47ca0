package mailer

import (
	"context"
	"fmt"
	"log/slog"

	mail "github.com/go-mail/mail/v2"
)

// Message is a plain-text e-mail with an optional HTML alternative.
type Message struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	ReplyTo  string
	Category string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Username != "" {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}

	return &SMTPMailer{dialer: d, from: cfg.From}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := buildMessage(m.from, msg)
	if err := m.dialer.DialAndSend(out); err != nil {
		return fmt.Errorf("send %s mail to %s: %w", msg.Category, msg.To, err)
	}

	slog.Info("mail sent", "category", msg.Category, "to", msg.To)
	return nil
}

func buildMessage(from string, msg Message) *mail.Message {
	out := mail.NewMessage()
	out.SetHeader("From", from)
	out.SetHeader("To", msg.To)
	out.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		out.SetHeader("Reply-To", msg.ReplyTo)
	}

	out.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		out.AddAlternative("text/html", msg.HTML)
	}

	return out
}

// LogMailer only logs. It stands in when SMTP_HOST is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	slog.Info("mail delivery disabled, message logged", "category", msg.Category, "to", msg.To, "subject", msg.Subject)
	return nil
}
