package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Onboarding OnboardingConfig `yaml:"onboarding"`
	Sheets     SheetsConfig     `yaml:"sheets"`
	Admin      AdminConfig      `yaml:"admin"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig は HTTP / gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr         string        `yaml:"listen_addr"`
	HTTPAddr           string        `yaml:"http_addr"`
	ShutdownTimeout    time.Duration `yaml:"-"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// OnboardingConfig はチャット形式の入社手続きに関する設定です。
type OnboardingConfig struct {
	TypingDelay           time.Duration `yaml:"-"`
	TypingDelayRaw        string        `yaml:"typing_delay"`
	SaveRetries           *int          `yaml:"save_retries"`
	RetryDelay            time.Duration `yaml:"-"`
	RetryDelayRaw         string        `yaml:"retry_delay"`
	FallbackEmailDomain   string        `yaml:"fallback_email_domain"`
	SessionIdleTimeout    time.Duration `yaml:"-"`
	SessionIdleTimeoutRaw string        `yaml:"session_idle_timeout"`
}

// SheetsConfig はスプレッドシート連携に関する設定です。
type SheetsConfig struct {
	WebhookURL string        `yaml:"webhook_url"`
	RelayURL   string        `yaml:"relay_url"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
	QueueSize  int           `yaml:"queue_size"`
}

// AdminConfig は管理画面の認証に関する設定です。
type AdminConfig struct {
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"-"`
	TokenTTLRaw string        `yaml:"token_ttl"`
}

// TelemetryConfig はトレース送信に関する設定です。OTLPEndpoint が空の場合は送信しません。
type TelemetryConfig struct {
	ServiceName  string   `yaml:"service_name"`
	OTLPEndpoint string   `yaml:"otlp_endpoint"`
	SampleRatio  *float64 `yaml:"sample_ratio"`
}

const (
	defaultShutdownTimeout     = 10 * time.Second
	defaultTypingDelay         = 500 * time.Millisecond
	defaultSaveRetries         = 2
	defaultRetryDelay          = time.Second
	defaultFallbackEmailDomain = "example.com"
	defaultSessionIdleTimeout  = 30 * time.Minute
	defaultSheetsTimeout       = 10 * time.Second
	defaultSheetsQueueSize     = 64
	defaultTokenTTL            = 8 * time.Hour
	defaultServiceName         = "hr-onboarding"
	defaultSampleRatio         = 1.0
)

// envOverrides は環境変数から上書きできる項目です。
type envOverrides struct {
	SheetsWebhookURL string `env:"GOOGLE_SHEETS_WEBHOOK_URL"`
	SheetsRelayURL   string `env:"SHEETS_RELAY_URL"`
	DatabasePassword string `env:"DATABASE_PASSWORD"`
	AdminUsername    string `env:"ADMIN_USERNAME"`
	AdminPassword    string `env:"ADMIN_PASSWORD"`
	AdminTokenSecret string `env:"ADMIN_TOKEN_SECRET"`
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}

	if v := strings.TrimSpace(overrides.SheetsWebhookURL); v != "" {
		c.Sheets.WebhookURL = v
	}
	if v := strings.TrimSpace(overrides.SheetsRelayURL); v != "" {
		c.Sheets.RelayURL = v
	}
	if overrides.DatabasePassword != "" {
		c.Database.Password = overrides.DatabasePassword
	}
	if v := strings.TrimSpace(overrides.AdminUsername); v != "" {
		c.Admin.Username = v
	}
	if overrides.AdminPassword != "" {
		c.Admin.Password = overrides.AdminPassword
	}
	if overrides.AdminTokenSecret != "" {
		c.Admin.TokenSecret = overrides.AdminTokenSecret
	}
	if v := strings.TrimSpace(overrides.OTLPEndpoint); v != "" {
		c.Telemetry.OTLPEndpoint = v
	}
	return nil
}

func (c *Config) validateAndNormalize() error {
	if err := c.Server.validateAndNormalize(); err != nil {
		return err
	}

	db := &c.Database
	if err := db.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Onboarding.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Sheets.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Admin.validateAndNormalize(); err != nil {
		return err
	}

	return c.Telemetry.validateAndNormalize()
}

func (s *ServerConfig) validateAndNormalize() error {
	if s.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}
	if s.HTTPAddr == "" {
		return fmt.Errorf("config: server.http_addr must be set")
	}

	timeout, err := parseDurationDefault(s.ShutdownTimeoutRaw, defaultShutdownTimeout)
	if err != nil {
		return fmt.Errorf("config: server.shutdown_timeout: %w", err)
	}
	s.ShutdownTimeout = timeout
	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (o *OnboardingConfig) validateAndNormalize() error {
	delay, err := parseDurationDefault(o.TypingDelayRaw, defaultTypingDelay)
	if err != nil {
		return fmt.Errorf("config: onboarding.typing_delay: %w", err)
	}
	o.TypingDelay = delay

	if o.SaveRetries == nil {
		retries := defaultSaveRetries
		o.SaveRetries = &retries
	}
	if *o.SaveRetries < 0 {
		return fmt.Errorf("config: onboarding.save_retries must not be negative")
	}

	retryDelay, err := parseDurationDefault(o.RetryDelayRaw, defaultRetryDelay)
	if err != nil {
		return fmt.Errorf("config: onboarding.retry_delay: %w", err)
	}
	o.RetryDelay = retryDelay

	o.FallbackEmailDomain = strings.TrimPrefix(strings.TrimSpace(o.FallbackEmailDomain), "@")
	if o.FallbackEmailDomain == "" {
		o.FallbackEmailDomain = defaultFallbackEmailDomain
	}

	idle, err := parseDurationDefault(o.SessionIdleTimeoutRaw, defaultSessionIdleTimeout)
	if err != nil {
		return fmt.Errorf("config: onboarding.session_idle_timeout: %w", err)
	}
	o.SessionIdleTimeout = idle

	return nil
}

func (s *SheetsConfig) validateAndNormalize() error {
	s.WebhookURL = strings.TrimSpace(s.WebhookURL)
	if s.WebhookURL != "" {
		if err := validateHTTPURL(s.WebhookURL); err != nil {
			return fmt.Errorf("config: sheets.webhook_url: %w", err)
		}
	}

	s.RelayURL = strings.TrimSpace(s.RelayURL)
	if s.RelayURL != "" {
		if err := validateHTTPURL(s.RelayURL); err != nil {
			return fmt.Errorf("config: sheets.relay_url: %w", err)
		}
	}

	timeout, err := parseDurationDefault(s.TimeoutRaw, defaultSheetsTimeout)
	if err != nil {
		return fmt.Errorf("config: sheets.timeout: %w", err)
	}
	s.Timeout = timeout

	if s.QueueSize < 0 {
		return fmt.Errorf("config: sheets.queue_size must not be negative")
	}
	if s.QueueSize == 0 {
		s.QueueSize = defaultSheetsQueueSize
	}
	return nil
}

func (a *AdminConfig) validateAndNormalize() error {
	a.Username = strings.TrimSpace(a.Username)
	if a.Username == "" {
		return fmt.Errorf("config: admin.username must be set")
	}
	if a.Password == "" {
		return fmt.Errorf("config: admin.password must be set")
	}
	if len(a.TokenSecret) < 16 {
		return fmt.Errorf("config: admin.token_secret must be at least 16 bytes")
	}

	ttl, err := parseDurationDefault(a.TokenTTLRaw, defaultTokenTTL)
	if err != nil {
		return fmt.Errorf("config: admin.token_ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("config: admin.token_ttl must be positive")
	}
	a.TokenTTL = ttl
	return nil
}

func (t *TelemetryConfig) validateAndNormalize() error {
	t.ServiceName = strings.TrimSpace(t.ServiceName)
	if t.ServiceName == "" {
		t.ServiceName = defaultServiceName
	}

	t.OTLPEndpoint = strings.TrimSpace(t.OTLPEndpoint)
	if t.OTLPEndpoint != "" {
		if err := validateHTTPURL(t.OTLPEndpoint); err != nil {
			return fmt.Errorf("config: telemetry.otlp_endpoint: %w", err)
		}
	}

	if t.SampleRatio == nil {
		ratio := defaultSampleRatio
		t.SampleRatio = &ratio
	}
	if *t.SampleRatio < 0 || *t.SampleRatio > 1 {
		return fmt.Errorf("config: telemetry.sample_ratio must be between 0 and 1")
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

func parseDurationDefault(raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return d, nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// DSN は pgx / golang-migrate 用の接続文字列を返します。認証情報は URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
