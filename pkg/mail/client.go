package mail

import (
	"context"
	"fmt"

	"github.com/estilosboom/boom-backend/pkg/config"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Message is a single outbound email with both text and HTML bodies.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender is the transport surface consumed by the mail processors.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client sends mail over SMTP. Gmail with an app password in production,
// any SMTP endpoint elsewhere.
type Client struct {
	dialer *gomail.Dialer
	from   string
}

// New builds the SMTP client. The dialer connects lazily on first send.
func New(cfg config.SMTPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, fmt.Errorf("smtp host and port are required")
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	dialer.SSL = cfg.Port == 465

	if logg != nil {
		logg.Info(context.Background(), "mail transport configured")
	}
	return &Client{dialer: dialer, from: cfg.Sender()}, nil
}

// Send performs exactly one delivery attempt. The caller owns retries; a
// failure here must propagate so the queue's policy applies.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}
	return nil
}
