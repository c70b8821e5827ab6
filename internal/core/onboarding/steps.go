package onboarding

import (
	"strings"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
)

// Field は回答の保存先です。
type Field string

const (
	FieldFullName    Field = "full_name"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldDepartment  Field = "department"
	FieldDesignation Field = "designation"
	FieldStartDate   Field = "start_date"
)

// InputKind はクライアントが表示する入力部品の種類です。
type InputKind string

const (
	InputText   InputKind = "text"
	InputSelect InputKind = "select"
	InputDate   InputKind = "date"
	// InputNone は会話完了後で、入力欄の代わりに終了メッセージを表示することを示します。
	InputNone InputKind = "none"
)

// Greeting はセッション開始時に最初の質問として表示されます。
const Greeting = "Hello! Welcome to our onboarding process. I'm here to help you get started. What's your full name?"

// Step は 1 問分の定義です。検証・正規化・保存先をひとまとめにし、質問の追加や並べ替えを表の編集だけで行えるようにします。
type Step struct {
	Field     Field
	Prompt    string
	Input     InputKind
	Options   []string
	normalize func(string) string
	assign    func(*Answers, string)
}

// accept は回答を検証し、保存する値を返します。
// 自由入力は前後の空白を除いた値が空なら拒否し、選択式・日付は入力部品が値を保証するため常に受け付けます。
func (s Step) accept(raw string) (string, bool) {
	value := raw
	if s.Input == InputText {
		value = strings.TrimSpace(raw)
		if value == "" {
			return "", false
		}
	}
	if s.normalize != nil {
		value = s.normalize(value)
	}
	return value, true
}

// DefaultSteps は入社手続きの 6 問を順番に返します。
func DefaultSteps() []Step {
	departments := candidate.Departments()
	options := make([]string, len(departments))
	for i, d := range departments {
		options[i] = string(d)
	}

	return []Step{
		{
			Field:  FieldFullName,
			Prompt: "What's your full name?",
			Input:  InputText,
			assign: func(a *Answers, v string) { a.FullName = v },
		},
		{
			Field:  FieldEmail,
			Prompt: "What's your email address?",
			Input:  InputText,
			assign: func(a *Answers, v string) { a.Email = v },
		},
		{
			Field:  FieldPhone,
			Prompt: "What's your phone number?",
			Input:  InputText,
			assign: func(a *Answers, v string) { a.Phone = v },
		},
		{
			Field:   FieldDepartment,
			Prompt:  "Which department will you be joining? (engineering, sales, marketing, hr, finance, operations, other)",
			Input:   InputSelect,
			Options: options,
			// enum との照合はストレージ側の制約に任せる。
			normalize: strings.ToLower,
			assign:    func(a *Answers, v string) { a.Department = v },
		},
		{
			Field:  FieldDesignation,
			Prompt: "What's your designation/job title?",
			Input:  InputText,
			assign: func(a *Answers, v string) { a.Designation = v },
		},
		{
			Field:  FieldStartDate,
			Prompt: "When will you be starting?",
			Input:  InputDate,
			assign: func(a *Answers, v string) { a.StartDate = v },
		},
	}
}

// Answers は会話中に集めた回答です。
type Answers struct {
	FullName    string
	Email       string
	Phone       string
	Department  string
	Designation string
	StartDate   string
}
