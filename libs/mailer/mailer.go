package mailer

import "context"

// Message represents an email to send.
type Message struct {
	From        string
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Attachment is a file sent along with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SendResult contains the acknowledgment returned by the provider.
type SendResult struct {
	ProviderMessageID string `json:"id"`
}

// Provider sends emails via a specific backend.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// Mailer is the top-level entry point for sending emails.
type Mailer struct {
	provider    Provider
	fromAddress string
}

// New creates a new Mailer with the given provider and default sender address.
func New(provider Provider, fromAddress string) *Mailer {
	return &Mailer{
		provider:    provider,
		fromAddress: fromAddress,
	}
}

// Send sends an email message via the configured provider.
// If msg.From is empty, the default fromAddress is used.
// Any error returned is a *DeliveryFailure.
func (m *Mailer) Send(ctx context.Context, msg Message) (SendResult, error) {
	if msg.From == "" {
		msg.From = m.fromAddress
	}
	result, err := m.provider.Send(ctx, msg)
	if err != nil {
		return SendResult{}, asDeliveryFailure(err)
	}
	return result, nil
}

// ProviderName returns the name of the configured provider.
func (m *Mailer) ProviderName() string {
	return m.provider.Name()
}

// FromAddress returns the default sender address.
func (m *Mailer) FromAddress() string {
	return m.fromAddress
}
