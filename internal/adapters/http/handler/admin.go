package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/ogurasousui/hr-onboarding/internal/core/admin"
	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
	"github.com/ogurasousui/hr-onboarding/internal/core/emailtemplate"
)

// AdminHandler は管理画面 API の HTTP 実装です。
type AdminHandler struct {
	svc admin.UseCase
}

// NewAdminHandler は AdminHandler を生成します。
func NewAdminHandler(svc admin.UseCase) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Register はルートを mux に登録します。
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/sessions", h.signIn)
	mux.HandleFunc("DELETE /api/admin/sessions", h.signOut)
	mux.HandleFunc("GET /api/admin/candidates", h.withSession(h.listCandidates))
	mux.HandleFunc("GET /api/admin/email-templates", h.withSession(h.listEmailTemplates))
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type candidateResponse struct {
	ID           string            `json:"id"`
	FullName     string            `json:"fullName"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone,omitempty"`
	Department   string            `json:"department"`
	Designation  string            `json:"designation"`
	StartDate    string            `json:"startDate,omitempty"`
	EmployeeID   string            `json:"employeeId"`
	CompanyEmail string            `json:"companyEmail"`
	Status       string            `json:"status"`
	ChatData     []messageResponse `json:"chatData"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type emailTemplateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AdminHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.SignIn(r.Context(), admin.SignInInput{Username: req.Username, Password: req.Password})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signInResponse{
		Token:     result.Token,
		Username:  result.Session.Username,
		ExpiresAt: result.Session.ExpiresAt,
	})
}

func (h *AdminHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess *admin.Session)

func (h *AdminHandler) withSession(next sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.svc.Authorize(r.Context(), bearerToken(r))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			writeError(w, err)
			return
		}
		next(w, r, sess)
	}
}

func (h *AdminHandler) listCandidates(w http.ResponseWriter, r *http.Request, sess *admin.Session) {
	found, err := h.svc.ListCandidates(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]candidateResponse, 0, len(found))
	for _, c := range found {
		out = append(out, toCandidateResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": out})
}

func (h *AdminHandler) listEmailTemplates(w http.ResponseWriter, r *http.Request, sess *admin.Session) {
	found, err := h.svc.ListEmailTemplates(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]emailTemplateResponse, 0, len(found))
	for _, t := range found {
		out = append(out, toEmailTemplateResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"emailTemplates": out})
}

func bearerToken(r *http.Request) string {
	const prefix = "bearer "
	value := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(value[len(prefix):])
}

func toCandidateResponse(c *candidate.Candidate) candidateResponse {
	return candidateResponse{
		ID:           c.ID,
		FullName:     c.FullName,
		Email:        c.Email,
		Phone:        c.Phone,
		Department:   string(c.Department),
		Designation:  c.Designation,
		StartDate:    c.StartDate,
		EmployeeID:   c.EmployeeID,
		CompanyEmail: c.CompanyEmail,
		Status:       string(c.Status),
		ChatData:     toMessageResponses(c.Transcript),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toEmailTemplateResponse(t *emailtemplate.Template) emailTemplateResponse {
	return emailTemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		Body:      t.Body,
		CreatedAt: t.CreatedAt,
	}
}
