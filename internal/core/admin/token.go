package admin

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "hr-onboarding"

// Session は管理画面の操作権限を表すケーパビリティです。SignIn でのみ発行されます。
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time

	issuer *TokenIssuer
}

// TokenIssuer は Session を HS256 の JWT として発行・検証し、失効を管理します。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  Clock

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewTokenIssuer は TokenIssuer を生成します。
func NewTokenIssuer(secret []byte, ttl time.Duration, clock Clock) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("admin: token secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("admin: token ttl must be positive")
	}
	if clock == nil {
		clock = realClock{}
	}
	return &TokenIssuer{
		secret:  append([]byte(nil), secret...),
		ttl:     ttl,
		clock:   clock,
		revoked: make(map[string]time.Time),
	}, nil
}

// Issue は username の Session と署名済みトークンを返します。
func (i *TokenIssuer) Issue(username string) (*Session, string, error) {
	now := i.clock.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		ExpiresAt: now.Add(i.ttl).Truncate(time.Second),
		issuer:    i,
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   username,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, "", fmt.Errorf("admin: sign token: %w", err)
	}
	return sess, signed, nil
}

// Parse はトークンを検証して Session を返します。
func (i *TokenIssuer) Parse(token string) (*Session, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return nil, errors.Join(ErrUnauthorized, err)
	}
	if claims.ID == "" || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrUnauthorized
	}

	sess := &Session{ID: claims.ID, Username: claims.Subject, ExpiresAt: claims.ExpiresAt.Time.UTC(), issuer: i}
	if !i.Active(sess) {
		return nil, ErrUnauthorized
	}
	return sess, nil
}

// Revoke は Session を期限まで失効させます。
func (i *TokenIssuer) Revoke(sess *Session) {
	if sess == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pruneLocked(i.clock.Now())
	i.revoked[sess.ID] = sess.ExpiresAt
}

// Active は Session がこの TokenIssuer の発行したもので、期限内かつ失効していないかを返します。
func (i *TokenIssuer) Active(sess *Session) bool {
	if sess == nil || sess.ID == "" || sess.issuer != i {
		return false
	}
	now := i.clock.Now()
	if !now.Before(sess.ExpiresAt) {
		return false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	_, revoked := i.revoked[sess.ID]
	return !revoked
}

func (i *TokenIssuer) pruneLocked(now time.Time) {
	for id, exp := range i.revoked {
		if !now.Before(exp) {
			delete(i.revoked, id)
		}
	}
}
