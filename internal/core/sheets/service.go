package sheets

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Webhook は外部スプレッドシート連携の送信先です。
type Webhook interface {
	Post(ctx context.Context, payload Envelope) error
}

// Forwarder は Record をスプレッドシートへ転送します。
type Forwarder interface {
	Forward(ctx context.Context, r Record) (*Result, error)
}

// Service は受け取った Record を検証し、設定済みの Webhook に転送します。
type Service struct {
	webhook Webhook
	clock   Clock
}

// NewService は Service を生成します。webhook が nil の場合は未設定として扱います。
func NewService(webhook Webhook, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{webhook: webhook, clock: clock}
}

// Forward は Record を Webhook に転送します。
// Webhook が未設定の場合はエラーではなく success=false の結果を返します。
func (s *Service) Forward(ctx context.Context, r Record) (*Result, error) {
	if r.missingRequired() {
		return nil, ErrMissingRequiredFields
	}

	if s.webhook == nil {
		log.Printf("sheets: webhook not configured, skipping record for %s", r.Email)
		return &Result{Success: false, Message: MessageNotConfigured}, nil
	}

	if err := s.webhook.Post(ctx, newEnvelope(r, s.clock.Now())); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWebhookFailed, err)
	}

	return &Result{Success: true, Message: MessageForwardSuccess}, nil
}
