package onboarding

import "github.com/ogurasousui/hr-onboarding/internal/core/candidate"

// Transition は 1 回の回答で起きた状態遷移です。
type Transition struct {
	From      int
	To        int
	Completed bool
	Prompt    string
}

// Conversation は質問シーケンスを 1 問ずつ進める状態機械です。
// ステップは受理された回答ごとに 1 つだけ進み、戻ることはありません。
type Conversation struct {
	steps      []Step
	current    int
	completed  bool
	answers    Answers
	transcript []candidate.Message
}

// NewConversation は最初の質問を greeting としてトランスクリプトに積んだ会話を生成します。
// greeting が空の場合は最初のステップの Prompt を使います。
func NewConversation(steps []Step, greeting string) (*Conversation, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if greeting == "" {
		greeting = steps[0].Prompt
	}

	cloned := make([]Step, len(steps))
	copy(cloned, steps)

	return &Conversation{
		steps:      cloned,
		transcript: []candidate.Message{{Role: candidate.RoleBot, Content: greeting}},
	}, nil
}

// Answer は現在のステップに対する回答を受け取り、状態を進めます。
// 拒否された場合は状態もトランスクリプトも変化しません。
func (c *Conversation) Answer(raw string) (Transition, error) {
	if c.completed {
		return Transition{}, ErrConversationCompleted
	}

	step := c.steps[c.current]
	value, ok := step.accept(raw)
	if !ok {
		return Transition{}, ErrEmptyAnswer
	}

	if step.assign != nil {
		step.assign(&c.answers, value)
	}
	c.transcript = append(c.transcript, candidate.Message{Role: candidate.RoleUser, Content: raw})

	from := c.current
	if c.current < len(c.steps)-1 {
		c.current++
		next := c.steps[c.current].Prompt
		c.transcript = append(c.transcript, candidate.Message{Role: candidate.RoleBot, Content: next})
		return Transition{From: from, To: c.current, Prompt: next}, nil
	}

	c.completed = true
	return Transition{From: from, To: from, Completed: true}, nil
}

// Say は bot の発話をトランスクリプトに追加します。
func (c *Conversation) Say(text string) {
	c.transcript = append(c.transcript, candidate.Message{Role: candidate.RoleBot, Content: text})
}

// StepIndex は現在のステップ番号を返します。完了後は最後のステップ番号のままです。
func (c *Conversation) StepIndex() int {
	return c.current
}

// TotalSteps は質問数を返します。
func (c *Conversation) TotalSteps() int {
	return len(c.steps)
}

// Completed は全ての質問に回答済みかを返します。
func (c *Conversation) Completed() bool {
	return c.completed
}

// CurrentStep は回答待ちのステップを返します。完了後は false を返します。
func (c *Conversation) CurrentStep() (Step, bool) {
	if c.completed {
		return Step{}, false
	}
	return c.steps[c.current], true
}

// Answers は集めた回答のコピーを返します。
func (c *Conversation) Answers() Answers {
	return c.answers
}

// Transcript はトランスクリプトのコピーを返します。
func (c *Conversation) Transcript() []candidate.Message {
	return candidate.CloneMessages(c.transcript)
}
