package handler

import "net/http"

// Routes は HTTP ルーターに登録される各ハンドラーです。nil のハンドラーは登録されません。
type Routes struct {
	Onboarding *OnboardingHandler
	Sheets     *SheetsHandler
	Admin      *AdminHandler
}

// NewRouter は全ルートを登録した http.Handler を返します。
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if routes.Onboarding != nil {
		routes.Onboarding.Register(mux)
	}
	if routes.Sheets != nil {
		routes.Sheets.Register(mux)
	}
	if routes.Admin != nil {
		routes.Admin.Register(mux)
	}
	return mux
}
