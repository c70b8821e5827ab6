package candidate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	// DefaultRetries は初回の後に行う保存リトライ回数です。
	DefaultRetries = 2
	// DefaultRetryDelay はリトライ間の固定待ち時間です。
	DefaultRetryDelay = time.Second
	// DefaultFallbackEmailDomain は会社メールアドレス採番失敗時のドメインです。
	DefaultFallbackEmailDomain = "example.com"

	tempIDPrefix = "TEMP-"
)

// whitespaceRun は ASCII の空白に加えて NBSP や全角スペースなどの Unicode 空白の連続に一致します。
var whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)

var tracer = otel.Tracer("github.com/ogurasousui/hr-onboarding/internal/core/candidate")

// Settings は保存処理の挙動を調整します。
type Settings struct {
	Retries             int
	RetryDelay          time.Duration
	FallbackEmailDomain string
}

// DefaultSettings は既定の Settings を返します。
func DefaultSettings() Settings {
	return Settings{
		Retries:             DefaultRetries,
		RetryDelay:          DefaultRetryDelay,
		FallbackEmailDomain: DefaultFallbackEmailDomain,
	}
}

// Service は候補者に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	ids      IdentifierGenerator
	clock    Clock
	tx       TransactionManager
	settings Settings
	hooks    []SavedHook
	tempID   func() string
	sleep    func(ctx context.Context, d time.Duration) error
}

// UseCase は候補者ユースケースの公開インターフェースです。
type UseCase interface {
	Register(ctx context.Context, in RegisterInput) (*Candidate, error)
	ListCandidates(ctx context.Context) ([]*Candidate, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, ids IdentifierGenerator, clock Clock, tx TransactionManager, settings Settings) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if settings.Retries < 0 {
		settings.Retries = 0
	}
	if settings.RetryDelay < 0 {
		settings.RetryDelay = 0
	}
	settings.FallbackEmailDomain = strings.TrimPrefix(strings.TrimSpace(settings.FallbackEmailDomain), "@")
	if settings.FallbackEmailDomain == "" {
		settings.FallbackEmailDomain = DefaultFallbackEmailDomain
	}
	return &Service{
		repo:     repo,
		ids:      ids,
		clock:    clock,
		tx:       tx,
		settings: settings,
		tempID:   randomTempID,
		sleep:    sleepContext,
	}
}

// OnSaved は保存コミット後に呼び出すフックを登録します。
func (s *Service) OnSaved(hook SavedHook) {
	if hook == nil {
		return
	}
	s.hooks = append(s.hooks, hook)
}

// RegisterInput は候補者登録時の入力です。
type RegisterInput struct {
	FullName    string
	Email       string
	Phone       string
	Department  Department
	Designation string
	StartDate   string
	Transcript  []Message
}

// Register は社員 ID と会社メールアドレスを採番し、候補者を 1 件保存します。
// 保存に失敗した場合は採番からやり直し、Settings.Retries 回までリトライします。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Candidate, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, ErrInvalidFullName
	}

	ctx, span := tracer.Start(ctx, "candidate.Register")
	defer span.End()

	attempts := s.settings.Retries + 1
	span.SetAttributes(
		attribute.String("candidate.department", string(in.Department)),
		attribute.Int("candidate.max_attempts", attempts),
	)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			log.Printf("candidate: retrying registration for %q (attempt %d/%d)", name, attempt, attempts)
			if err := s.sleep(ctx, s.settings.RetryDelay); err != nil {
				err = errors.Join(ErrRegistrationFailed, lastErr, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "retry interrupted")
				return nil, err
			}
		}

		saved, err := s.registerOnce(ctx, name, in)
		if err == nil {
			span.SetAttributes(attribute.Int("candidate.attempts", attempt))
			s.notifySaved(ctx, saved)
			return saved, nil
		}
		lastErr = err
	}

	err := fmt.Errorf("%w after %d attempts: %w", ErrRegistrationFailed, attempts, lastErr)
	span.RecordError(err)
	span.SetStatus(codes.Error, "registration failed")
	return nil, err
}

func (s *Service) registerOnce(ctx context.Context, name string, in RegisterInput) (*Candidate, error) {
	employeeID := s.employeeID(ctx, name, in.Department)
	companyEmail := s.companyEmail(ctx, name)

	now := s.clock.Now()
	c := &Candidate{
		FullName:     name,
		Email:        in.Email,
		Phone:        in.Phone,
		Department:   in.Department,
		Designation:  in.Designation,
		StartDate:    in.StartDate,
		EmployeeID:   employeeID,
		CompanyEmail: companyEmail,
		Status:       StatusCompleted,
		Transcript:   CloneMessages(in.Transcript),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created *Candidate
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, c)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		// 採番済みの識別子は保存されずに破棄される。次の試行では再採番する。
		log.Printf("candidate: insert failed, discarding employee_id=%s company_email=%s: %v", employeeID, companyEmail, err)
		return nil, err
	}

	return created, nil
}

func (s *Service) employeeID(ctx context.Context, name string, department Department) string {
	if s.ids != nil {
		id, err := s.ids.GenerateEmployeeID(ctx, name, department)
		if err == nil && strings.TrimSpace(id) != "" {
			return id
		}
		if err != nil {
			log.Printf("candidate: employee id generator failed, using fallback: %v", err)
		}
	}
	return s.tempID()
}

func (s *Service) companyEmail(ctx context.Context, name string) string {
	if s.ids != nil {
		email, err := s.ids.GenerateCompanyEmail(ctx, name)
		if err == nil && strings.TrimSpace(email) != "" {
			return email
		}
		if err != nil {
			log.Printf("candidate: company email generator failed, using fallback: %v", err)
		}
	}
	return FallbackCompanyEmail(name, s.settings.FallbackEmailDomain)
}

func (s *Service) notifySaved(ctx context.Context, c *Candidate) {
	for _, hook := range s.hooks {
		hook.CandidateSaved(ctx, c)
	}
}

// ListCandidates は候補者を作成日時の降順で返します。
func (s *Service) ListCandidates(ctx context.Context) ([]*Candidate, error) {
	var result []*Candidate
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// FallbackCompanyEmail は氏名を小文字化し、空白の連続を "." に置き換えたアドレスを返します。
func FallbackCompanyEmail(name, domain string) string {
	local := whitespaceRun.ReplaceAllString(strings.ToLower(name), ".")
	return local + "@" + domain
}

func randomTempID() string {
	return fmt.Sprintf("%s%04d", tempIDPrefix, rand.IntN(10000))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
