package candidate

import "context"

// Repository は候補者永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, c *Candidate) (*Candidate, error)
	List(ctx context.Context) ([]*Candidate, error)
}

// IdentifierGenerator はバックエンド側で社員 ID と会社メールアドレスを採番します。
type IdentifierGenerator interface {
	GenerateEmployeeID(ctx context.Context, name string, department Department) (string, error)
	GenerateCompanyEmail(ctx context.Context, name string) (string, error)
}

// SavedHook は保存がコミットされた後に呼び出されます。実装はブロックしてはいけません。
type SavedHook interface {
	CandidateSaved(ctx context.Context, c *Candidate)
}
