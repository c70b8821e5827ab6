package onboarding

import (
	"fmt"
	"sync"
	"time"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
)

// Status はセッションの保存状態です。
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusSaving     Status = "saving"
	StatusSaved      Status = "saved"
	StatusFailed     Status = "failed"
)

// FailureNotice は保存がリトライを使い切って失敗した際に利用者へ表示する文言です。
const FailureNotice = "Failed to save your information. Please try again later."

// CompletionMessage は保存完了時に bot が送る文言を組み立てます。
func CompletionMessage(c *candidate.Candidate) string {
	return fmt.Sprintf(
		"Thank you! Your onboarding is complete 🎉\n\nYour Details:\n• Employee ID: %s\n• Company Email: %s\n• Start Date: %s\n\nHR will contact you soon.",
		c.EmployeeID, c.CompanyEmail, c.StartDate,
	)
}

// Session は 1 人の候補者の会話と保存状態を保持します。
// 会話の操作と保存結果の反映は mu で直列化されます。
type Session struct {
	mu         sync.Mutex
	id         string
	conv       *Conversation
	status     Status
	notice     string
	saved      *candidate.Candidate
	lastActive time.Time
}

// NewSession は Session を生成します。
func NewSession(id string, conv *Conversation, now time.Time) *Session {
	return &Session{
		id:         id,
		conv:       conv,
		status:     StatusCollecting,
		lastActive: now,
	}
}

// ID はセッション ID を返します。
func (s *Session) ID() string {
	return s.id
}

// LastActive は最後に操作された時刻を返します。
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Busy は保存処理が進行中かを返します。
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusSaving
}

// answer は回答を会話に適用し、完了した場合は保存用の入力を返します。
func (s *Session) answer(raw string, now time.Time) (*candidate.RegisterInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transition, err := s.conv.Answer(raw)
	if err != nil {
		return nil, err
	}
	s.lastActive = now

	if !transition.Completed {
		return nil, nil
	}
	s.status = StatusSaving
	in := s.registerInput()
	return &in, nil
}

// resubmit は保存失敗状態のセッションを保存中に戻し、保存用の入力を返します。
func (s *Session) resubmit(now time.Time) (candidate.RegisterInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusFailed {
		return candidate.RegisterInput{}, ErrResubmitNotAllowed
	}
	s.status = StatusSaving
	s.notice = ""
	s.lastActive = now
	return s.registerInput(), nil
}

// finish は保存結果を反映します。
func (s *Session) finish(saved *candidate.Candidate, err error, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = now
	if err != nil {
		s.status = StatusFailed
		s.notice = FailureNotice
		return
	}
	s.status = StatusSaved
	s.saved = saved
	s.conv.Say(CompletionMessage(saved))
}

func (s *Session) registerInput() candidate.RegisterInput {
	answers := s.conv.Answers()
	return candidate.RegisterInput{
		FullName:    answers.FullName,
		Email:       answers.Email,
		Phone:       answers.Phone,
		Department:  candidate.Department(answers.Department),
		Designation: answers.Designation,
		StartDate:   answers.StartDate,
		Transcript:  s.conv.Transcript(),
	}
}

// Snapshot はクライアントへ返すセッションの状態です。
type Snapshot struct {
	ID           string
	Step         int
	TotalSteps   int
	Input        InputKind
	Options      []string
	Completed    bool
	Status       Status
	Notice       string
	Messages     []candidate.Message
	EmployeeID   string
	CompanyEmail string
}

// Snapshot は現在の状態のコピーを返します。
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		ID:         s.id,
		Step:       s.conv.StepIndex(),
		TotalSteps: s.conv.TotalSteps(),
		Input:      InputNone,
		Completed:  s.conv.Completed(),
		Status:     s.status,
		Notice:     s.notice,
		Messages:   s.conv.Transcript(),
	}
	if step, ok := s.conv.CurrentStep(); ok {
		snap.Input = step.Input
		if len(step.Options) > 0 {
			snap.Options = append([]string(nil), step.Options...)
		}
	}
	if s.saved != nil {
		snap.EmployeeID = s.saved.EmployeeID
		snap.CompanyEmail = s.saved.CompanyEmail
	}
	return snap
}
