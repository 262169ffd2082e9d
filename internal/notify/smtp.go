package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
)

// mailDialer is satisfied by *gomail.Dialer.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPProvider sends mail through an SMTP relay.
type SMTPProvider struct {
	dialer mailDialer
	from   Sender
	logger *logger.Logger
}

func NewSMTPProvider(cfg config.Mail, log *logger.Logger) *SMTPProvider {
	return &SMTPProvider{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   Sender{Address: cfg.SMTPFrom, Name: cfg.FromName},
		logger: log,
	}
}

func (p *SMTPProvider) Name() string {
	return "smtp"
}

// Send dials the relay for every message. gomail has no context support, so
// the send runs in a goroutine and an expired ctx abandons the wait.
func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	m := p.buildMessage(msg)

	done := make(chan error, 1)
	go func() {
		done <- p.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

func (p *SMTPProvider) buildMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.from.Address, p.from.Name)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	return m
}
