package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ogurasousui/hr-onboarding/internal/core/sheets"
)

// DefaultTimeout は送信先ごとの HTTP タイムアウトの既定値です。
const DefaultTimeout = 10 * time.Second

func newHTTPClient(client *http.Client, timeout time.Duration) *http.Client {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return client.Do(req)
}

// SheetsClient はスプレッドシート連携の Webhook (Apps Script など) へ Envelope を送信します。
type SheetsClient struct {
	url    string
	client *http.Client
}

// NewSheetsClient は SheetsClient を生成します。client が nil の場合は timeout 付きのクライアントを使います。
func NewSheetsClient(url string, client *http.Client, timeout time.Duration) *SheetsClient {
	return &SheetsClient{url: url, client: newHTTPClient(client, timeout)}
}

// Post は Envelope を JSON で POST します。2xx 以外はエラーです。
func (c *SheetsClient) Post(ctx context.Context, payload sheets.Envelope) error {
	resp, err := postJSON(ctx, c.client, c.url, payload)
	if err != nil {
		return fmt.Errorf("sheets webhook request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheets webhook returned %s", resp.Status)
	}
	return nil
}

// RelayClient は別プロセスで動く save-to-sheets 関数へ Record を送信します。
type RelayClient struct {
	url    string
	client *http.Client
}

// NewRelayClient は RelayClient を生成します。
func NewRelayClient(url string, client *http.Client, timeout time.Duration) *RelayClient {
	return &RelayClient{url: url, client: newHTTPClient(client, timeout)}
}

// Forward は Record を送信し、関数の応答を Result として返します。
func (c *RelayClient) Forward(ctx context.Context, r sheets.Record) (*sheets.Result, error) {
	resp, err := postJSON(ctx, c.client, c.url, r)
	if err != nil {
		return nil, fmt.Errorf("%w: relay request: %w", sheets.ErrWebhookFailed, err)
	}
	defer resp.Body.Close()

	var result sheets.Result
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: relay returned %s", sheets.ErrMissingRequiredFields, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: relay returned %s", sheets.ErrWebhookFailed, resp.Status)
	case decodeErr != nil:
		return nil, fmt.Errorf("decode relay response: %w", decodeErr)
	}
	return &result, nil
}
