package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	httphandler "github.com/ogurasousui/hr-onboarding/internal/adapters/http/handler"
	"github.com/ogurasousui/hr-onboarding/internal/adapters/memory"
	"github.com/ogurasousui/hr-onboarding/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hr-onboarding/internal/adapters/webhook"
	"github.com/ogurasousui/hr-onboarding/internal/core/admin"
	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
	"github.com/ogurasousui/hr-onboarding/internal/core/emailtemplate"
	"github.com/ogurasousui/hr-onboarding/internal/core/onboarding"
	"github.com/ogurasousui/hr-onboarding/internal/core/sheets"
	"github.com/ogurasousui/hr-onboarding/internal/platform/config"
	pg "github.com/ogurasousui/hr-onboarding/internal/platform/db/postgres"
	"github.com/ogurasousui/hr-onboarding/internal/platform/server"
	"github.com/ogurasousui/hr-onboarding/internal/platform/telemetry"
)

const sessionSweepInterval = time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Printf("telemetry: shutdown failed: %v", err)
		}
	}()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	// sheets
	var hook sheets.Webhook
	if cfg.Sheets.WebhookURL != "" {
		hook = webhook.NewSheetsClient(cfg.Sheets.WebhookURL, nil, cfg.Sheets.Timeout)
	} else {
		log.Printf("sheets: GOOGLE_SHEETS_WEBHOOK_URL is not set, relay will report not configured")
	}
	sheetsSvc := sheets.NewService(hook, nil)

	var forwarder sheets.Forwarder = sheetsSvc
	if cfg.Sheets.RelayURL != "" {
		forwarder = webhook.NewRelayClient(cfg.Sheets.RelayURL, nil, cfg.Sheets.Timeout)
	}
	dispatcher := sheets.NewDispatcher(forwarder, cfg.Sheets.QueueSize)

	// candidates
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	generator := postgres.NewIdentifierGenerator(dbPool)
	candidateSvc := candidate.NewService(candidateRepo, generator, nil, txManager, candidate.Settings{
		Retries:             *cfg.Onboarding.SaveRetries,
		RetryDelay:          cfg.Onboarding.RetryDelay,
		FallbackEmailDomain: cfg.Onboarding.FallbackEmailDomain,
	})
	candidateSvc.OnSaved(dispatcher)

	templateSvc := emailtemplate.NewService(postgres.NewEmailTemplateRepository(dbPool), txManager)

	// onboarding
	sessionStore := memory.NewSessionStore(cfg.Onboarding.SessionIdleTimeout)
	go sessionStore.Run(ctx, sessionSweepInterval)
	onboardingSvc := onboarding.NewService(sessionStore, candidateSvc, nil, cfg.Onboarding.TypingDelay)

	// admin
	authenticator, err := admin.NewStaticAuthenticator(cfg.Admin.Username, cfg.Admin.Password, 0)
	if err != nil {
		log.Fatalf("failed to initialize admin authenticator: %v", err)
	}
	tokens, err := admin.NewTokenIssuer([]byte(cfg.Admin.TokenSecret), cfg.Admin.TokenTTL, nil)
	if err != nil {
		log.Fatalf("failed to initialize admin token issuer: %v", err)
	}
	adminSvc := admin.NewService(authenticator, tokens, candidateSvc, templateSvc)

	router := httphandler.NewRouter(httphandler.Routes{
		Onboarding: httphandler.NewOnboardingHandler(onboardingSvc),
		Sheets:     httphandler.NewSheetsHandler(sheetsSvc),
		Admin:      httphandler.NewAdminHandler(adminSvc),
	})

	srv := server.New(server.Options{
		GRPCAddr:        cfg.Server.ListenAddr,
		HTTPAddr:        cfg.Server.HTTPAddr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, grpc.StatsHandler(otelgrpc.NewServerHandler()))

	runErr := srv.Run(ctx)

	// 最後の回答後に始まった保存と、その後のスプレッドシート転送を待つ。
	onboardingSvc.Wait()
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := dispatcher.Close(drainCtx); err != nil {
		log.Printf("sheets: dispatcher did not drain: %v", err)
	}

	if runErr != nil {
		log.Fatalf("server stopped with error: %v", runErr)
	}
}
