package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
	"github.com/ogurasousui/hr-onboarding/internal/core/emailtemplate"
)

type mutableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mutableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mutableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubCandidates struct {
	calls int
}

func (s *stubCandidates) ListCandidates(context.Context) ([]*candidate.Candidate, error) {
	s.calls++
	return []*candidate.Candidate{{ID: "c-1", FullName: "Jane Doe"}}, nil
}

type stubTemplates struct {
	calls int
}

func (s *stubTemplates) ListTemplates(context.Context) ([]*emailtemplate.Template, error) {
	s.calls++
	return []*emailtemplate.Template{{ID: "t-1", Name: "welcome"}}, nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) (*Service, *mutableClock, *stubCandidates, *stubTemplates) {
	t.Helper()

	auth, err := NewStaticAuthenticator("admin", "s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewStaticAuthenticator returned error: %v", err)
	}
	clock := &mutableClock{now: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	tokens, err := NewTokenIssuer([]byte(testSecret), time.Hour, clock)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	candidates := &stubCandidates{}
	templates := &stubTemplates{}
	return NewService(auth, tokens, candidates, templates), clock, candidates, templates
}

func TestService_SignInAndList(t *testing.T) {
	t.Parallel()

	svc, _, candidates, templates := newTestService(t)
	ctx := context.Background()

	result, err := svc.SignIn(ctx, SignInInput{Username: "admin", Password: "s3cret"})
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if result.Token == "" || result.Session.Username != "admin" {
		t.Fatalf("unexpected sign-in result: %+v", result)
	}

	sess, err := svc.Authorize(ctx, result.Token)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if sess.ID != result.Session.ID {
		t.Fatalf("expected session %s, got %s", result.Session.ID, sess.ID)
	}

	if _, err := svc.ListCandidates(ctx, sess); err != nil {
		t.Fatalf("ListCandidates returned error: %v", err)
	}
	if _, err := svc.ListEmailTemplates(ctx, sess); err != nil {
		t.Fatalf("ListEmailTemplates returned error: %v", err)
	}
	if candidates.calls != 1 || templates.calls != 1 {
		t.Fatalf("expected one call each, got candidates=%d templates=%d", candidates.calls, templates.calls)
	}
}

func TestService_SignIn_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)
	cases := []SignInInput{
		{Username: "admin", Password: "wrong"},
		{Username: "root", Password: "s3cret"},
		{Username: "", Password: "s3cret"},
		{Username: "admin", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.SignIn(context.Background(), in); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %+v, got %v", in, err)
		}
	}
}

func TestService_SignOutRevokesSession(t *testing.T) {
	t.Parallel()

	svc, _, candidates, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.SignIn(ctx, SignInInput{Username: "admin", Password: "s3cret"})
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if err := svc.SignOut(ctx, result.Token); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}

	if _, err := svc.Authorize(ctx, result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after sign-out, got %v", err)
	}
	if _, err := svc.ListCandidates(ctx, result.Session); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for revoked session, got %v", err)
	}
	if candidates.calls != 0 {
		t.Fatalf("expected no listing calls, got %d", candidates.calls)
	}
	if err := svc.SignOut(ctx, result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for second sign-out, got %v", err)
	}
}

func TestService_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc, clock, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.SignIn(ctx, SignInInput{Username: "admin", Password: "s3cret"})
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	clock.Advance(time.Hour + time.Second)

	if _, err := svc.Authorize(ctx, result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
	if _, err := svc.ListEmailTemplates(ctx, result.Session); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired session, got %v", err)
	}
}

func TestService_RejectsMissingOrForeignSessions(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ListCandidates(ctx, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for nil session, got %v", err)
	}
	forged := &Session{ID: "forged", Username: "admin", ExpiresAt: time.Now().Add(time.Hour)}
	if _, err := svc.ListCandidates(ctx, forged); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for forged session, got %v", err)
	}
	if _, err := svc.Authorize(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty token, got %v", err)
	}
	if _, err := svc.Authorize(ctx, "not-a-jwt"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for malformed token, got %v", err)
	}
}

func TestTokenIssuer_RejectsOtherSecret(t *testing.T) {
	t.Parallel()

	clock := &mutableClock{now: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	a, err := NewTokenIssuer([]byte(testSecret), time.Hour, clock)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	b, err := NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Hour, clock)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	_, token, err := a.Issue("admin")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := b.Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenIssuer(nil, time.Hour, nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewTokenIssuer([]byte(testSecret), 0, nil); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestNewStaticAuthenticator_RequiresCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewStaticAuthenticator("", "pw", bcrypt.MinCost); err == nil {
		t.Fatal("expected error for empty username")
	}
	if _, err := NewStaticAuthenticator("admin", "", bcrypt.MinCost); err == nil {
		t.Fatal("expected error for empty password")
	}
}
