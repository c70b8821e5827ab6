package admin

import "errors"

var (
	// ErrInvalidCredentials はユーザー名またはパスワードが一致しない場合に返却されます。
	ErrInvalidCredentials = errors.New("admin: invalid credentials")
	// ErrUnauthorized はセッションが無効・期限切れ・失効済みの場合に返却されます。
	ErrUnauthorized = errors.New("admin: unauthorized")
)
