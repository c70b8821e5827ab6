package candidate

import "time"

// Department は配属部署を表します。値の妥当性はストレージの enum 制約で検証されます。
type Department string

const (
	DepartmentEngineering Department = "engineering"
	DepartmentSales       Department = "sales"
	DepartmentMarketing   Department = "marketing"
	DepartmentHR          Department = "hr"
	DepartmentFinance     Department = "finance"
	DepartmentOperations  Department = "operations"
	DepartmentOther       Department = "other"
)

// Departments は選択肢として提示する部署の一覧を返します。
func Departments() []Department {
	return []Department{
		DepartmentEngineering,
		DepartmentSales,
		DepartmentMarketing,
		DepartmentHR,
		DepartmentFinance,
		DepartmentOperations,
		DepartmentOther,
	}
}

// Status は候補者の手続き状態を表します。
type Status string

const (
	StatusInProgress    Status = "in_progress"
	StatusCompleted     Status = "completed"
	StatusPendingReview Status = "pending_review"
)

// Role はトランスクリプトの発話者です。
type Role string

const (
	RoleBot  Role = "bot"
	RoleUser Role = "user"
)

// Message はトランスクリプト中の 1 発話です。chat_data カラムにはこの形で保存されます。
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Candidate は入社手続きを完了した候補者エンティティです。
type Candidate struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	Department   Department
	Designation  string
	StartDate    string
	EmployeeID   string
	CompanyEmail string
	Status       Status
	Transcript   []Message
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CloneMessages はトランスクリプトのコピーを返します。
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}
