package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/utils"
)

const sendGridSendPath = "/v3/mail/send"

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// SendGridProvider sends mail through the SendGrid v3 HTTP API.
type SendGridProvider struct {
	client *utils.HTTPClient
	apiKey string
	from   Sender
	logger *logger.Logger
}

func NewSendGridProvider(cfg config.Mail, log *logger.Logger) *SendGridProvider {
	return &SendGridProvider{
		client: utils.NewHTTPClient(strings.TrimRight(cfg.SendGridBaseURL, "/"), cfg.Timeout),
		apiKey: cfg.SendGridAPIKey,
		from:   Sender{Address: cfg.SendGridFrom, Name: cfg.FromName},
		logger: log,
	}
}

func (p *SendGridProvider) Name() string {
	return "sendgrid"
}

func (p *SendGridProvider) Send(ctx context.Context, msg Message) error {
	body := sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: msg.To}}}},
		From:             sendGridAddress{Email: p.from.Address, Name: p.from.Name},
		Subject:          msg.Subject,
	}
	// SendGrid requires text/plain before text/html.
	if msg.Text != "" {
		body.Content = append(body.Content, sendGridContent{Type: "text/plain", Value: msg.Text})
	}
	if msg.HTML != "" {
		body.Content = append(body.Content, sendGridContent{Type: "text/html", Value: msg.HTML})
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(sendGridSendPath)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}

	if resp.StatusCode() != http.StatusAccepted && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: sendgrid http %d: %s", ErrProviderRejected, resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	return nil
}
