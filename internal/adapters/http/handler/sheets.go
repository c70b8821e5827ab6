package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/ogurasousui/hr-onboarding/internal/core/sheets"
)

// SheetsHandler は save-to-sheets 関数の HTTP 実装です。ブラウザから直接呼ばれるため CORS を許可します。
type SheetsHandler struct {
	svc sheets.Forwarder
}

// NewSheetsHandler は SheetsHandler を生成します。
func NewSheetsHandler(svc sheets.Forwarder) *SheetsHandler {
	return &SheetsHandler{svc: svc}
}

// Register はルートを mux に登録します。
func (h *SheetsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("OPTIONS /functions/save-to-sheets", h.preflight)
	mux.HandleFunc("POST /functions/save-to-sheets", h.save)
}

func setCORSHeaders(w http.ResponseWriter) {
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

func (h *SheetsHandler) preflight(w http.ResponseWriter, _ *http.Request) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type relayErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *SheetsHandler) save(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	var rec sheets.Record
	if err := decodeJSON(r, &rec); err != nil {
		writeJSON(w, http.StatusBadRequest, relayErrorResponse{Success: false, Error: err.Error()})
		return
	}

	result, err := h.svc.Forward(r.Context(), rec)
	switch {
	case errors.Is(err, sheets.ErrMissingRequiredFields):
		writeJSON(w, http.StatusBadRequest, sheets.Result{Success: false, Message: sheets.MessageMissingFields})
	case errors.Is(err, sheets.ErrWebhookFailed):
		log.Printf("sheets: %v", err)
		writeJSON(w, http.StatusInternalServerError, sheets.Result{Success: false, Message: sheets.MessageWebhookFailed})
	case err != nil:
		log.Printf("sheets: save-to-sheets failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, relayErrorResponse{Success: false, Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}
