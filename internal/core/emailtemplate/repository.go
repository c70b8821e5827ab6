package emailtemplate

import "context"

// Repository はメールテンプレート永続化の抽象です。
type Repository interface {
	List(ctx context.Context) ([]*Template, error)
}
