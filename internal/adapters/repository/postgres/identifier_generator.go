package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
	pgdb "github.com/ogurasousui/hr-onboarding/internal/platform/db/postgres"
)

// IdentifierGenerator はストアドファンクションで社員 ID と会社メールアドレスを採番します。
type IdentifierGenerator struct {
	pool pgdb.Queryer
}

// NewIdentifierGenerator は IdentifierGenerator を生成します。
func NewIdentifierGenerator(pool pgdb.Queryer) *IdentifierGenerator {
	return &IdentifierGenerator{pool: pool}
}

// GenerateEmployeeID は generate_employee_id を呼び出します。
func (g *IdentifierGenerator) GenerateEmployeeID(ctx context.Context, name string, department candidate.Department) (string, error) {
	exec := pgdb.QueryerFromContext(ctx, g.pool)
	var id sql.NullString
	if err := exec.QueryRow(ctx, `SELECT generate_employee_id($1::text, $2::text::department_type)`, name, string(department)).Scan(&id); err != nil {
		return "", fmt.Errorf("generate_employee_id: %w", err)
	}
	return id.String, nil
}

// GenerateCompanyEmail は generate_company_email を呼び出します。
func (g *IdentifierGenerator) GenerateCompanyEmail(ctx context.Context, name string) (string, error) {
	exec := pgdb.QueryerFromContext(ctx, g.pool)
	var email sql.NullString
	if err := exec.QueryRow(ctx, `SELECT generate_company_email($1::text)`, name).Scan(&email); err != nil {
		return "", fmt.Errorf("generate_company_email: %w", err)
	}
	return email.String, nil
}
