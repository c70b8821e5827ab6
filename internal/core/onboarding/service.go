package onboarding

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// DefaultTypingDelay は次の質問を返すまでの演出用の待ち時間です。
const DefaultTypingDelay = 500 * time.Millisecond

// Registrar は完了した会話を候補者として保存します。
type Registrar interface {
	Register(ctx context.Context, in candidate.RegisterInput) (*candidate.Candidate, error)
}

// SessionStore はセッションの保管先です。
type SessionStore interface {
	Put(s *Session)
	Get(id string) (*Session, bool)
}

// Service は入社手続きの会話セッションを扱うユースケースをまとめます。
type Service struct {
	store       SessionStore
	registrar   Registrar
	clock       Clock
	steps       []Step
	typingDelay time.Duration
	newID       func() string
	pause       func(ctx context.Context, d time.Duration)
	inflight    sync.WaitGroup
}

// UseCase は入社手続きユースケースの公開インターフェースです。
type UseCase interface {
	StartSession(ctx context.Context) (*Snapshot, error)
	SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*Snapshot, error)
	GetSession(ctx context.Context, in GetSessionInput) (*Snapshot, error)
	ResubmitSession(ctx context.Context, in ResubmitSessionInput) (*Snapshot, error)
}

// NewService は Service を生成します。typingDelay が 0 以下の場合は待機しません。
func NewService(store SessionStore, registrar Registrar, clock Clock, typingDelay time.Duration) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if typingDelay < 0 {
		typingDelay = 0
	}
	return &Service{
		store:       store,
		registrar:   registrar,
		clock:       clock,
		steps:       DefaultSteps(),
		typingDelay: typingDelay,
		newID:       uuid.NewString,
		pause:       pauseContext,
	}
}

// SubmitAnswerInput は回答送信時の入力です。
type SubmitAnswerInput struct {
	SessionID string
	Value     string
}

// GetSessionInput はセッション取得時の入力です。
type GetSessionInput struct {
	SessionID string
}

// ResubmitSessionInput は保存再実行時の入力です。
type ResubmitSessionInput struct {
	SessionID string
}

// StartSession は新しい会話セッションを開始し、挨拶を含むスナップショットを返します。
func (s *Service) StartSession(ctx context.Context) (*Snapshot, error) {
	conv, err := NewConversation(s.steps, Greeting)
	if err != nil {
		return nil, err
	}

	sess := NewSession(s.newID(), conv, s.clock.Now())
	s.store.Put(sess)
	return sess.Snapshot(), nil
}

// SubmitAnswer は現在の質問への回答を適用します。
// 最後の質問に回答した時点で保存処理を非同期に開始します。保存処理は呼び出し元のキャンセルの影響を受けません。
func (s *Service) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*Snapshot, error) {
	sess, err := s.lookup(in.SessionID)
	if err != nil {
		return nil, err
	}

	registerIn, err := sess.answer(in.Value, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if registerIn != nil {
		s.persist(ctx, sess, *registerIn)
	}

	s.pause(ctx, s.typingDelay)
	return sess.Snapshot(), nil
}

// GetSession はセッションの現在の状態を返します。
func (s *Service) GetSession(ctx context.Context, in GetSessionInput) (*Snapshot, error) {
	sess, err := s.lookup(in.SessionID)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// ResubmitSession は保存に失敗したセッションの保存を再実行します。
func (s *Service) ResubmitSession(ctx context.Context, in ResubmitSessionInput) (*Snapshot, error) {
	sess, err := s.lookup(in.SessionID)
	if err != nil {
		return nil, err
	}

	registerIn, err := sess.resubmit(s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.persist(ctx, sess, registerIn)
	return sess.Snapshot(), nil
}

// Wait は進行中の保存処理が全て終わるまで待機します。
func (s *Service) Wait() {
	s.inflight.Wait()
}

func (s *Service) lookup(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidSessionID
	}
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) persist(ctx context.Context, sess *Session, in candidate.RegisterInput) {
	detached := context.WithoutCancel(ctx)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		saved, err := s.registrar.Register(detached, in)
		if err != nil {
			log.Printf("onboarding: session %s: save failed: %v", sess.ID(), err)
		} else {
			log.Printf("onboarding: session %s: saved candidate %s (%s)", sess.ID(), saved.ID, saved.EmployeeID)
		}
		sess.finish(saved, err, s.clock.Now())
	}()
}

func pauseContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
