package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
	pgdb "github.com/ogurasousui/hr-onboarding/internal/platform/db/postgres"
)

// SQLSTATE コード
const (
	invalidTextRepresentationCode = "22P02"
	notNullViolationCode          = "23502"
	checkViolationCode            = "23514"
	uniqueViolationCode           = "23505"
)

const candidateColumns = `
            id::text,
            full_name,
            email,
            phone,
            department::text,
            designation,
            to_char(start_date, 'YYYY-MM-DD'),
            employee_id,
            company_email,
            status::text,
            chat_data,
            created_at,
            updated_at`

// CandidateRepository は PostgreSQL を利用した候補者永続化の実装です。
type CandidateRepository struct {
	pool pgdb.Queryer
}

// NewCandidateRepository は CandidateRepository を生成します。
func NewCandidateRepository(pool pgdb.Queryer) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// Create は候補者を 1 件挿入します。
func (r *CandidateRepository) Create(ctx context.Context, c *candidate.Candidate) (*candidate.Candidate, error) {
	chatData, err := json.Marshal(transcriptOrEmpty(c.Transcript))
	if err != nil {
		return nil, fmt.Errorf("encode chat_data: %w", err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO candidates (
            full_name, email, phone, department, designation, start_date,
            employee_id, company_email, status, chat_data, created_at, updated_at
        )
        VALUES (
            $1, $2, NULLIF($3::text, ''), $4::text::department_type, $5, NULLIF($6::text, '')::date,
            $7, $8, $9::text::onboarding_status, $10, $11, $12
        )
        RETURNING`+candidateColumns+`
    `, c.FullName, c.Email, c.Phone, string(c.Department), c.Designation, c.StartDate,
		c.EmployeeID, c.CompanyEmail, string(c.Status), chatData, c.CreatedAt, c.UpdatedAt)

	created, err := scanCandidate(row)
	if err != nil {
		return nil, translateCandidatePgError(err)
	}
	return created, nil
}

// List は全候補者を作成日時の降順で返します。
func (r *CandidateRepository) List(ctx context.Context) ([]*candidate.Candidate, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+candidateColumns+`
          FROM candidates
         ORDER BY created_at DESC, id DESC
    `)
	if err != nil {
		return nil, translateCandidatePgError(err)
	}
	defer rows.Close()

	result := make([]*candidate.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateCandidatePgError(err)
	}
	return result, nil
}

func scanCandidate(row pgx.Row) (*candidate.Candidate, error) {
	var (
		id, fullName, email     string
		department, designation string
		phone, startDate        sql.NullString
		employeeID              sql.NullString
		companyEmail, status    sql.NullString
		chatData                []byte
		createdAt, updatedAt    time.Time
	)

	if err := row.Scan(
		&id, &fullName, &email, &phone, &department, &designation, &startDate,
		&employeeID, &companyEmail, &status, &chatData, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var transcript []candidate.Message
	if len(chatData) > 0 {
		if err := json.Unmarshal(chatData, &transcript); err != nil {
			return nil, fmt.Errorf("decode chat_data for candidate %s: %w", id, err)
		}
	}

	return &candidate.Candidate{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		Phone:        phone.String,
		Department:   candidate.Department(department),
		Designation:  designation,
		StartDate:    startDate.String,
		EmployeeID:   employeeID.String,
		CompanyEmail: companyEmail.String,
		Status:       candidate.Status(status.String),
		Transcript:   transcript,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func transcriptOrEmpty(messages []candidate.Message) []candidate.Message {
	if messages == nil {
		return []candidate.Message{}
	}
	return messages
}

func translateCandidatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case invalidTextRepresentationCode:
		return fmt.Errorf("%w: %s", candidate.ErrInvalidDepartment, pgErr.Message)
	case notNullViolationCode:
		return fmt.Errorf("%w: %s", candidate.ErrMissingField, pgErr.ColumnName)
	case checkViolationCode:
		return fmt.Errorf("%w: %s", candidate.ErrInvalidCandidate, pgErr.ConstraintName)
	case uniqueViolationCode:
		return candidate.ErrEmployeeIDAlreadyExists
	}
	return err
}
