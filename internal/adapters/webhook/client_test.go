package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ogurasousui/hr-onboarding/internal/core/sheets"
)

var janeDoe = sheets.Record{FullName: "Jane Doe", Email: "j@x.com", Department: "engineering"}

func TestSheetsClient_Post(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewSheetsClient(srv.URL, srv.Client(), 0)
	err := client.Post(context.Background(), sheets.Envelope{Record: janeDoe, Timestamp: "2026-10-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}

	if got["fullName"] != "Jane Doe" || got["department"] != "engineering" || got["timestamp"] != "2026-10-01T00:00:00Z" {
		t.Fatalf("unexpected payload: %v", got)
	}
	if _, ok := got["phone"]; ok {
		t.Fatalf("expected empty phone to be omitted: %v", got)
	}
}

func TestSheetsClient_Post_Non2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewSheetsClient(srv.URL, srv.Client(), 0)
	if err := client.Post(context.Background(), sheets.Envelope{Record: janeDoe}); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestSheetsClient_Post_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewSheetsClient(url, nil, time.Second)
	if err := client.Post(context.Background(), sheets.Envelope{Record: janeDoe}); err == nil {
		t.Fatal("expected error for unreachable webhook")
	}
}

func TestRelayClient_Forward(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rec sheets.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if rec != janeDoe {
			t.Errorf("unexpected record: %+v", rec)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sheets.Result{Success: false, Message: sheets.MessageNotConfigured})
	}))
	defer srv.Close()

	client := NewRelayClient(srv.URL, srv.Client(), 0)
	result, err := client.Forward(context.Background(), janeDoe)
	if err != nil {
		t.Fatalf("Forward returned error: %v", err)
	}
	if result.Success || result.Message != sheets.MessageNotConfigured {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRelayClient_Forward_StatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, sheets.ErrMissingRequiredFields},
		{http.StatusInternalServerError, sheets.ErrWebhookFailed},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(sheets.Result{Success: false, Message: "x"})
		}))

		client := NewRelayClient(srv.URL, srv.Client(), 0)
		_, err := client.Forward(context.Background(), janeDoe)
		srv.Close()

		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}
