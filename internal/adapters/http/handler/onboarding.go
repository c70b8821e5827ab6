package handler

import (
	"net/http"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
	"github.com/ogurasousui/hr-onboarding/internal/core/onboarding"
)

// OnboardingHandler は会話セッションの HTTP 実装です。
type OnboardingHandler struct {
	svc onboarding.UseCase
}

// NewOnboardingHandler は OnboardingHandler を生成します。
func NewOnboardingHandler(svc onboarding.UseCase) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

// Register はルートを mux に登録します。
func (h *OnboardingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/onboarding/sessions", h.startSession)
	mux.HandleFunc("GET /api/onboarding/sessions/{id}", h.getSession)
	mux.HandleFunc("POST /api/onboarding/sessions/{id}/answers", h.submitAnswer)
	mux.HandleFunc("POST /api/onboarding/sessions/{id}/resubmit", h.resubmitSession)
}

type messageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sessionResponse struct {
	ID           string            `json:"id"`
	Step         int               `json:"step"`
	TotalSteps   int               `json:"totalSteps"`
	Input        string            `json:"input"`
	Options      []string          `json:"options,omitempty"`
	Completed    bool              `json:"completed"`
	Status       string            `json:"status"`
	Notice       string            `json:"notice,omitempty"`
	Messages     []messageResponse `json:"messages"`
	EmployeeID   string            `json:"employeeId,omitempty"`
	CompanyEmail string            `json:"companyEmail,omitempty"`
}

type answerRequest struct {
	Value string `json:"value"`
}

func (h *OnboardingHandler) startSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.StartSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(snap))
}

func (h *OnboardingHandler) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GetSession(r.Context(), onboarding.GetSessionInput{SessionID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

func (h *OnboardingHandler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	snap, err := h.svc.SubmitAnswer(r.Context(), onboarding.SubmitAnswerInput{
		SessionID: r.PathValue("id"),
		Value:     req.Value,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

func (h *OnboardingHandler) resubmitSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.ResubmitSession(r.Context(), onboarding.ResubmitSessionInput{SessionID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toSessionResponse(snap))
}

func toSessionResponse(s *onboarding.Snapshot) sessionResponse {
	return sessionResponse{
		ID:           s.ID,
		Step:         s.Step,
		TotalSteps:   s.TotalSteps,
		Input:        string(s.Input),
		Options:      s.Options,
		Completed:    s.Completed,
		Status:       string(s.Status),
		Notice:       s.Notice,
		Messages:     toMessageResponses(s.Messages),
		EmployeeID:   s.EmployeeID,
		CompanyEmail: s.CompanyEmail,
	}
}

func toMessageResponses(messages []candidate.Message) []messageResponse {
	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageResponse{Role: string(m.Role), Content: m.Content})
	}
	return out
}
