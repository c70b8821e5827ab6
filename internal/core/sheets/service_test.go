package sheets

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (c stubClock) Now() time.Time {
	return c.now
}

type fakeWebhook struct {
	err      error
	payloads []Envelope
}

func (w *fakeWebhook) Post(_ context.Context, payload Envelope) error {
	w.payloads = append(w.payloads, payload)
	return w.err
}

var janeDoe = Record{FullName: "Jane Doe", Email: "j@x.com", Department: "engineering"}

func TestService_Forward_NotConfigured(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, nil)
	result, err := svc.Forward(context.Background(), janeDoe)
	if err != nil {
		t.Fatalf("Forward returned error: %v", err)
	}
	if result.Success || result.Message != MessageNotConfigured {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestService_Forward_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	webhook := &fakeWebhook{}
	svc := NewService(webhook, nil)

	cases := []Record{
		{Email: "j@x.com", Department: "engineering"},
		{FullName: "Jane Doe", Department: "engineering"},
		{FullName: "Jane Doe", Email: "j@x.com"},
		{FullName: "Jane Doe", Email: "j@x.com", Department: "  "},
	}
	for _, r := range cases {
		if _, err := svc.Forward(context.Background(), r); !errors.Is(err, ErrMissingRequiredFields) {
			t.Fatalf("expected ErrMissingRequiredFields for %+v, got %v", r, err)
		}
	}
	if len(webhook.payloads) != 0 {
		t.Fatalf("expected no webhook calls, got %d", len(webhook.payloads))
	}
}

func TestService_Forward_AddsTimestamp(t *testing.T) {
	t.Parallel()

	webhook := &fakeWebhook{}
	now := time.Date(2026, 10, 1, 9, 30, 0, 0, time.FixedZone("JST", 9*60*60))
	svc := NewService(webhook, stubClock{now: now})

	result, err := svc.Forward(context.Background(), janeDoe)
	if err != nil {
		t.Fatalf("Forward returned error: %v", err)
	}
	if !result.Success || result.Message != MessageForwardSuccess {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(webhook.payloads) != 1 {
		t.Fatalf("expected one webhook call, got %d", len(webhook.payloads))
	}
	got := webhook.payloads[0]
	if got.Timestamp != "2026-10-01T00:30:00Z" {
		t.Fatalf("unexpected timestamp %q", got.Timestamp)
	}
	if got.Record != janeDoe {
		t.Fatalf("unexpected record: %+v", got.Record)
	}
}

func TestService_Forward_WebhookFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	svc := NewService(&fakeWebhook{err: cause}, nil)

	_, err := svc.Forward(context.Background(), janeDoe)
	if !errors.Is(err, ErrWebhookFailed) {
		t.Fatalf("expected ErrWebhookFailed, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
}
