package admin

import (
	"context"
	"strings"
	"time"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
	"github.com/ogurasousui/hr-onboarding/internal/core/emailtemplate"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// CandidateLister は候補者一覧を返します。
type CandidateLister interface {
	ListCandidates(ctx context.Context) ([]*candidate.Candidate, error)
}

// TemplateLister はメールテンプレート一覧を返します。
type TemplateLister interface {
	ListTemplates(ctx context.Context) ([]*emailtemplate.Template, error)
}

// Service は管理画面のユースケースをまとめます。一覧取得には有効な Session が必要です。
type Service struct {
	auth       Authenticator
	tokens     *TokenIssuer
	candidates CandidateLister
	templates  TemplateLister
}

// UseCase は管理画面ユースケースの公開インターフェースです。
type UseCase interface {
	SignIn(ctx context.Context, in SignInInput) (*SignInResult, error)
	SignOut(ctx context.Context, token string) error
	Authorize(ctx context.Context, token string) (*Session, error)
	ListCandidates(ctx context.Context, sess *Session) ([]*candidate.Candidate, error)
	ListEmailTemplates(ctx context.Context, sess *Session) ([]*emailtemplate.Template, error)
}

// NewService は Service を生成します。
func NewService(auth Authenticator, tokens *TokenIssuer, candidates CandidateLister, templates TemplateLister) *Service {
	return &Service{auth: auth, tokens: tokens, candidates: candidates, templates: templates}
}

// SignInInput はサインイン時の入力です。
type SignInInput struct {
	Username string
	Password string
}

// SignInResult はサインイン結果です。
type SignInResult struct {
	Session *Session
	Token   string
}

// SignIn は資格情報を検証し、Session とトークンを発行します。
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*SignInResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := s.auth.Authenticate(ctx, username, in.Password); err != nil {
		return nil, err
	}

	sess, token, err := s.tokens.Issue(username)
	if err != nil {
		return nil, err
	}
	return &SignInResult{Session: sess, Token: token}, nil
}

// SignOut はトークンに対応する Session を失効させます。
func (s *Service) SignOut(ctx context.Context, token string) error {
	sess, err := s.Authorize(ctx, token)
	if err != nil {
		return err
	}
	s.tokens.Revoke(sess)
	return nil
}

// Authorize はトークンを検証し、有効な Session を返します。
func (s *Service) Authorize(_ context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	return s.tokens.Parse(token)
}

// ListCandidates は候補者を作成日時の降順で返します。
func (s *Service) ListCandidates(ctx context.Context, sess *Session) ([]*candidate.Candidate, error) {
	if !s.tokens.Active(sess) {
		return nil, ErrUnauthorized
	}
	return s.candidates.ListCandidates(ctx)
}

// ListEmailTemplates はメールテンプレートを返します。
func (s *Service) ListEmailTemplates(ctx context.Context, sess *Session) ([]*emailtemplate.Template, error) {
	if !s.tokens.Active(sess) {
		return nil, ErrUnauthorized
	}
	return s.templates.ListTemplates(ctx)
}
