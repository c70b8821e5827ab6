package postgres

import (
	"context"
	"time"

	"github.com/ogurasousui/hr-onboarding/internal/core/emailtemplate"
	pgdb "github.com/ogurasousui/hr-onboarding/internal/platform/db/postgres"
)

// EmailTemplateRepository は PostgreSQL を利用したメールテンプレート参照の実装です。
type EmailTemplateRepository struct {
	pool pgdb.Queryer
}

// NewEmailTemplateRepository は EmailTemplateRepository を生成します。
func NewEmailTemplateRepository(pool pgdb.Queryer) *EmailTemplateRepository {
	return &EmailTemplateRepository{pool: pool}
}

// List は全テンプレートを名前順で返します。
func (r *EmailTemplateRepository) List(ctx context.Context) ([]*emailtemplate.Template, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id::text, name, subject, body, created_at
          FROM email_templates
         ORDER BY name ASC, id ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*emailtemplate.Template, 0)
	for rows.Next() {
		var (
			t         emailtemplate.Template
			createdAt time.Time
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &createdAt); err != nil {
			return nil, err
		}
		t.CreatedAt = createdAt
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
