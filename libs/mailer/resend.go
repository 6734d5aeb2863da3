package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

const resendTimeout = 30 * time.Second

// ResendProvider sends emails via the Resend API.
type ResendProvider struct {
	client *resend.Client
}

// NewResendProvider creates a new Resend provider with the given API key.
// An empty key is accepted; Resend rejects it when a message is sent.
func NewResendProvider(apiKey string) *ResendProvider {
	httpClient := &http.Client{
		Timeout:   resendTimeout,
		Transport: &statusCapturingTransport{base: http.DefaultTransport},
	}
	return &ResendProvider{
		client: resend.NewCustomClient(httpClient, apiKey),
	}
}

// SetBaseURL points the provider at a different Resend API endpoint.
func (r *ResendProvider) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid resend base url: %w", err)
	}
	r.client.BaseURL = u
	return nil
}

// Name returns the provider name.
func (r *ResendProvider) Name() string {
	return "resend"
}

// Send sends an email via the Resend API. Failures carry the HTTP status
// the API answered with, if it answered at all.
func (r *ResendProvider) Send(ctx context.Context, msg Message) (SendResult, error) {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}
	if msg.Text != "" {
		params.Text = msg.Text
	}
	for _, att := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename: att.Filename,
			Content:  att.Content,
		})
	}

	rec := &statusRecorder{}
	sent, err := r.client.Emails.SendWithContext(context.WithValue(ctx, statusRecorderKey{}, rec), params)
	if err != nil {
		status := rec.code
		if status >= 200 && status < 300 {
			status = 0
		}
		return SendResult{}, &DeliveryFailure{
			StatusCode: status,
			Message:    strings.TrimPrefix(err.Error(), "[ERROR]: "),
			Err:        fmt.Errorf("resend send failed: %w", err),
		}
	}

	return SendResult{ProviderMessageID: sent.Id}, nil
}

type statusRecorderKey struct{}

type statusRecorder struct {
	code int
}

// statusCapturingTransport records the response status of a request into
// the statusRecorder carried by the request context.
type statusCapturingTransport struct {
	base http.RoundTripper
}

func (t *statusCapturingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if resp != nil {
		if rec, ok := req.Context().Value(statusRecorderKey{}).(*statusRecorder); ok {
			rec.code = resp.StatusCode
		}
	}
	return resp, err
}
