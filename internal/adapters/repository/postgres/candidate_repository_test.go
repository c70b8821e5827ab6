package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
)

var candidateColumnNames = []string{
	"id", "full_name", "email", "phone", "department", "designation", "start_date",
	"employee_id", "company_email", "status", "chat_data", "created_at", "updated_at",
}

func TestCandidateRepository_Create(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCandidateRepository(mock)
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	transcript := []candidate.Message{
		{Role: candidate.RoleBot, Content: "What's your full name?"},
		{Role: candidate.RoleUser, Content: "Jane Doe"},
	}
	chatData, _ := json.Marshal(transcript)

	in := &candidate.Candidate{
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		Department:   candidate.DepartmentEngineering,
		Designation:  "Backend Engineer",
		StartDate:    "2026-11-02",
		EmployeeID:   "EMP-ENG-0001",
		CompanyEmail: "jane.doe@company.com",
		Status:       candidate.StatusCompleted,
		Transcript:   transcript,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	rows := pgxmock.NewRows(candidateColumnNames).
		AddRow("cand-1", "Jane Doe", "jane@example.com", nil, "engineering", "Backend Engineer", "2026-11-02",
			"EMP-ENG-0001", "jane.doe@company.com", "completed", chatData, now, now)

	mock.ExpectQuery(`INSERT INTO candidates`).
		WithArgs("Jane Doe", "jane@example.com", "", "engineering", "Backend Engineer", "2026-11-02",
			"EMP-ENG-0001", "jane.doe@company.com", "completed", pgxmock.AnyArg(), now, now).
		WillReturnRows(rows)

	created, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "cand-1" || created.Phone != "" || created.Status != candidate.StatusCompleted {
		t.Fatalf("unexpected candidate: %+v", created)
	}
	if len(created.Transcript) != 2 || created.Transcript[1].Content != "Jane Doe" {
		t.Fatalf("unexpected transcript: %+v", created.Transcript)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCandidateRepository_Create_TranslatesEnumViolation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCandidateRepository(mock)
	mock.ExpectQuery(`INSERT INTO candidates`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "legal", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: invalidTextRepresentationCode, Message: `invalid input value for enum department_type: "legal"`})

	_, err = repo.Create(context.Background(), &candidate.Candidate{
		FullName:   "Jane Doe",
		Email:      "jane@example.com",
		Department: "legal",
		Status:     candidate.StatusCompleted,
	})
	if !errors.Is(err, candidate.ErrInvalidDepartment) {
		t.Fatalf("expected ErrInvalidDepartment, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTranslateCandidatePgError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want error
	}{
		{invalidTextRepresentationCode, candidate.ErrInvalidDepartment},
		{notNullViolationCode, candidate.ErrMissingField},
		{checkViolationCode, candidate.ErrInvalidCandidate},
		{uniqueViolationCode, candidate.ErrEmployeeIDAlreadyExists},
	}
	for _, tc := range cases {
		if got := translateCandidatePgError(&pgconn.PgError{Code: tc.code}); !errors.Is(got, tc.want) {
			t.Fatalf("code %s: expected %v, got %v", tc.code, tc.want, got)
		}
	}

	other := errors.New("random")
	if translateCandidatePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestCandidateRepository_List(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCandidateRepository(mock)
	newer := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)

	rows := pgxmock.NewRows(candidateColumnNames).
		AddRow("cand-2", "John Roe", "john@example.com", "555", "sales", "AE", nil,
			"EMP-SAL-0002", "john.roe@company.com", "completed", []byte(nil), newer, newer).
		AddRow("cand-1", "Jane Doe", "jane@example.com", nil, "engineering", "SWE", "2026-11-02",
			"EMP-ENG-0001", "jane.doe@company.com", "completed", []byte(`[]`), older, older)

	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC`).WillReturnRows(rows)

	found, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(found))
	}
	if found[0].ID != "cand-2" || found[0].Phone != "555" || found[0].StartDate != "" {
		t.Fatalf("unexpected first candidate: %+v", found[0])
	}
	if found[1].Department != candidate.DepartmentEngineering || found[1].Transcript == nil {
		t.Fatalf("unexpected second candidate: %+v", found[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCandidateRepository_List_Empty(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCandidateRepository(mock)
	mock.ExpectQuery(`FROM candidates`).WillReturnRows(pgxmock.NewRows(candidateColumnNames))

	found, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if found == nil || len(found) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", found)
	}
}
