package sheets

import "errors"

var (
	// ErrMissingRequiredFields は fullName / email / department のいずれかが欠けている場合に返却されます。
	ErrMissingRequiredFields = errors.New("sheets: missing required fields")
	// ErrWebhookFailed は Webhook への送信に失敗した場合に返却されます。
	ErrWebhookFailed = errors.New("sheets: webhook call failed")
)
