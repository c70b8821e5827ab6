package emailtemplate

import "time"

// Template は候補者への連絡に使うメールテンプレートです。このアプリケーションからは読み取り専用です。
type Template struct {
	ID        string
	Name      string
	Subject   string
	Body      string
	CreatedAt time.Time
}
