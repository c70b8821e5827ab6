package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator は管理者の資格情報を検証します。
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// StaticAuthenticator は設定で与えられた 1 組の資格情報で認証します。
// パスワードは平文で保持せず、生成時に bcrypt でハッシュ化します。
type StaticAuthenticator struct {
	username     []byte
	passwordHash []byte
}

// NewStaticAuthenticator は StaticAuthenticator を生成します。cost が 0 の場合は bcrypt.DefaultCost を使います。
func NewStaticAuthenticator(username, password string, cost int) (*StaticAuthenticator, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("admin: username and password are required")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("admin: hash password: %w", err)
	}
	return &StaticAuthenticator{username: []byte(username), passwordHash: hash}, nil
}

// Authenticate は資格情報が一致しなければ ErrInvalidCredentials を返します。
func (a *StaticAuthenticator) Authenticate(_ context.Context, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), a.username) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
