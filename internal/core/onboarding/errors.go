package onboarding

import "errors"

var (
	// ErrNoSteps は質問が 1 つも定義されていない場合に返却されます。
	ErrNoSteps = errors.New("onboarding: no steps defined")
	// ErrEmptyAnswer は自由入力ステップで空の回答が送られた場合に返却されます。
	ErrEmptyAnswer = errors.New("onboarding: answer must not be empty")
	// ErrConversationCompleted は完了済みの会話に回答が送られた場合に返却されます。
	ErrConversationCompleted = errors.New("onboarding: conversation already completed")
	// ErrSessionNotFound はセッションが存在しない場合に返却されます。
	ErrSessionNotFound = errors.New("onboarding: session not found")
	// ErrInvalidSessionID はセッション ID が空の場合に返却されます。
	ErrInvalidSessionID = errors.New("onboarding: invalid session id")
	// ErrResubmitNotAllowed は保存失敗状態以外で再送信を要求した場合に返却されます。
	ErrResubmitNotAllowed = errors.New("onboarding: resubmit is only allowed after a failed save")
)
