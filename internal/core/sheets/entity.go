package sheets

import (
	"strings"
	"time"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
)

// Record はスプレッドシートへ転送する候補者 1 件分のデータです。
type Record struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Department   string `json:"department"`
	Designation  string `json:"designation,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EmployeeID   string `json:"employeeId,omitempty"`
	CompanyEmail string `json:"companyEmail,omitempty"`
}

// Envelope は Webhook に送るペイロードです。Record に送信時刻を付与します。
type Envelope struct {
	Record
	Timestamp string `json:"timestamp"`
}

// Result は転送結果です。
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	MessageMissingFields  = "Missing required fields"
	MessageNotConfigured  = "Google Sheets integration not configured"
	MessageWebhookFailed  = "Failed to send data to Google Sheets"
	MessageForwardSuccess = "Data successfully saved to Google Sheets"
)

// RecordFromCandidate は保存済みの候補者から Record を組み立てます。
func RecordFromCandidate(c *candidate.Candidate) Record {
	return Record{
		FullName:     c.FullName,
		Email:        c.Email,
		Phone:        c.Phone,
		Department:   string(c.Department),
		Designation:  c.Designation,
		StartDate:    c.StartDate,
		EmployeeID:   c.EmployeeID,
		CompanyEmail: c.CompanyEmail,
	}
}

func (r Record) missingRequired() bool {
	return strings.TrimSpace(r.FullName) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Department) == ""
}

func newEnvelope(r Record, now time.Time) Envelope {
	return Envelope{Record: r, Timestamp: now.UTC().Format(time.RFC3339)}
}
