package mailer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPProvider sends emails through an SMTP relay.
type SMTPProvider struct {
	dialer *gomail.Dialer
}

// NewSMTPProvider creates a provider that dials host:port for every message.
func NewSMTPProvider(host string, port int, username, password string) *SMTPProvider {
	return &SMTPProvider{dialer: gomail.NewDialer(host, port, username, password)}
}

// Name returns the provider name.
func (s *SMTPProvider) Name() string {
	return "smtp"
}

// Host returns the relay host.
func (s *SMTPProvider) Host() string {
	return s.dialer.Host
}

// Send delivers the message over SMTP. SMTP failures have no HTTP status.
// gomail has no context support, so the conversation runs in its own
// goroutine and Send returns as soon as ctx is done; a stalled relay
// connection is abandoned rather than waited on.
func (s *SMTPProvider) Send(ctx context.Context, msg Message) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, &DeliveryFailure{Message: err.Error(), Err: err}
	}

	id := uuid.New().String()
	m := buildSMTPMessage(msg, fmt.Sprintf("<%s@%s>", id, s.dialer.Host))

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		err := ctx.Err()
		return SendResult{}, &DeliveryFailure{Message: err.Error(), Err: err}
	case err := <-done:
		if err != nil {
			return SendResult{}, &DeliveryFailure{
				Message: err.Error(),
				Err:     fmt.Errorf("smtp send failed: %w", err),
			}
		}
	}
	return SendResult{ProviderMessageID: id}, nil
}

func buildSMTPMessage(msg Message, messageID string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)

	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	for _, att := range msg.Attachments {
		content := att.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}))
		}
		m.Attach(att.Filename, settings...)
	}
	return m
}
