package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"
)

type recordingProvider struct {
	sent []Message
	err  error
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Send(ctx context.Context, msg Message) (SendResult, error) {
	p.sent = append(p.sent, msg)
	if p.err != nil {
		return SendResult{}, p.err
	}
	return SendResult{ProviderMessageID: "rec-1"}, nil
}

func TestLogProviderSend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	provider := NewLogProvider(logger)

	msg := Message{
		From:    "test@example.com",
		To:      []string{"recipient@example.com"},
		ReplyTo: "applicant@example.com",
		Subject: "Test Subject",
		HTML:    "<p>Test HTML</p>",
		Text:    "Test text",
	}

	result, err := provider.Send(context.Background(), msg)
	if err != nil {
		t.Fatalf("LogProvider.Send() error = %v", err)
	}

	if !strings.HasPrefix(result.ProviderMessageID, "log-") {
		t.Errorf("LogProvider.Send() message ID = %v, want prefix 'log-'", result.ProviderMessageID)
	}
}

func TestLogProviderName(t *testing.T) {
	provider := NewLogProvider(slog.New(slog.NewTextHandler(io.Discard, nil)))

	if got := provider.Name(); got != "log" {
		t.Errorf("LogProvider.Name() = %v, want 'log'", got)
	}
}

func TestMailerSendUsesDefaultFromAddress(t *testing.T) {
	provider := &recordingProvider{}
	mailer := New(provider, "default@test.com")

	result, err := mailer.Send(context.Background(), Message{
		To:      []string{"recipient@example.com"},
		Subject: "Test",
		HTML:    "<p>Test</p>",
	})
	if err != nil {
		t.Fatalf("Mailer.Send() error = %v", err)
	}
	if result.ProviderMessageID != "rec-1" {
		t.Errorf("Mailer.Send() message ID = %q, want rec-1", result.ProviderMessageID)
	}
	if len(provider.sent) != 1 || provider.sent[0].From != "default@test.com" {
		t.Fatalf("expected default from address to be applied, got %+v", provider.sent)
	}
}

func TestMailerSendKeepsExplicitFromAddress(t *testing.T) {
	provider := &recordingProvider{}
	mailer := New(provider, "default@test.com")

	if _, err := mailer.Send(context.Background(), Message{From: "custom@test.com"}); err != nil {
		t.Fatalf("Mailer.Send() error = %v", err)
	}
	if provider.sent[0].From != "custom@test.com" {
		t.Errorf("From = %q, want custom@test.com", provider.sent[0].From)
	}
}

func TestMailerSendWrapsPlainErrorsAsDeliveryFailure(t *testing.T) {
	mailer := New(&recordingProvider{err: errors.New("connection refused")}, "default@test.com")

	_, err := mailer.Send(context.Background(), Message{})

	var failure *DeliveryFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *DeliveryFailure, got %T", err)
	}
	if failure.Message != "connection refused" {
		t.Errorf("Message = %q", failure.Message)
	}
	if failure.Status() != http.StatusInternalServerError {
		t.Errorf("Status() = %d, want 500", failure.Status())
	}
}

func TestMailerSendKeepsProviderStatus(t *testing.T) {
	mailer := New(&recordingProvider{err: &DeliveryFailure{StatusCode: 429, Message: "slow down"}}, "default@test.com")

	_, err := mailer.Send(context.Background(), Message{})

	var failure *DeliveryFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *DeliveryFailure, got %T", err)
	}
	if failure.Status() != http.StatusTooManyRequests {
		t.Errorf("Status() = %d, want 429", failure.Status())
	}
}

func TestDeliveryFailureStatusDefaults(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{0, 500},
		{42, 500},
		{401, 401},
		{503, 503},
		{999, 500},
	}
	for _, tt := range tests {
		f := &DeliveryFailure{StatusCode: tt.code}
		if got := f.Status(); got != tt.want {
			t.Errorf("Status() with code %d = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestMailerProviderName(t *testing.T) {
	provider := NewLogProvider(slog.New(slog.NewTextHandler(io.Discard, nil)))
	mailer := New(provider, "default@test.com")

	if got := mailer.ProviderName(); got != "log" {
		t.Errorf("Mailer.ProviderName() = %v, want 'log'", got)
	}
	if got := mailer.FromAddress(); got != "default@test.com" {
		t.Errorf("Mailer.FromAddress() = %v", got)
	}
}
