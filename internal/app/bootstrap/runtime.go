package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/adapters/cache"
	eventadapter "github.com/campaigngrade-hub/campaigngrade1/internal/adapters/events"
	grpcadapter "github.com/campaigngrade-hub/campaigngrade1/internal/adapters/grpc"
	httpadapter "github.com/campaigngrade-hub/campaigngrade1/internal/adapters/http"
	"github.com/campaigngrade-hub/campaigngrade1/internal/adapters/mailer"
	"github.com/campaigngrade-hub/campaigngrade1/internal/adapters/postgres"
	"github.com/campaigngrade-hub/campaigngrade1/internal/adapters/security"
	"github.com/campaigngrade-hub/campaigngrade1/internal/adapters/storage"
	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	service    *application.Service
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	cleanupFn  func(context.Context)
}

// WorkerRuntime carries only what the outbox relay needs: Postgres and the
// event publisher. It binds no ports and opens neither Redis nor S3.
type WorkerRuntime struct {
	logger    *slog.Logger
	outbox    *eventadapter.OutboxWorker
	cleanupFn func(context.Context)
}

func newLogger(cfg Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)
	return logger
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	cacheStore := cache.NewRedisCache(redisClient)

	evidence, err := storage.NewS3Store(ctx, storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	signer, err := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	mail := ports.Mailer(mailer.NewLoggingMailer(logger))
	if cfg.ResendAPIKey != "" {
		resend, mailErr := mailer.NewResendMailer(mailer.ResendConfig{APIKey: cfg.ResendAPIKey, From: cfg.MailFrom})
		if mailErr != nil {
			logger.WarnContext(ctx, "resend mailer disabled, using logging mailer", "error", mailErr)
		} else {
			mail = resend
		}
	} else {
		logger.WarnContext(ctx, "RESEND_API_KEY not set, emails will only be logged")
	}

	repos := postgres.NewRepositories(db)
	service := application.NewService(application.Dependencies{
		Config:        serviceConfig(cfg),
		Profiles:      repos.Profiles,
		Firms:         repos.Firms,
		Pricing:       repos.Pricing,
		Committees:    repos.Committees,
		Reviews:       repos.Reviews,
		Responses:     repos.Responses,
		Flags:         repos.Flags,
		Claims:        repos.Claims,
		Verifications: repos.Verifications,
		Outbox:        repos.Outbox,
		Idempotency:   repos.Idempotency,
		Cache:         cacheStore,
		Lockouts:      cache.NewRedisLockoutStore(redisClient),
		Evidence:      evidence,
		Mailer:        mail,
		Tokens:        signer,
		Hasher:        security.NewBcryptHasher(cfg.BcryptCost),
	})

	handler := httpadapter.NewHandler(service, cfg.MaxUploadBytes, map[string]httpadapter.ReadinessCheck{
		"postgres": sqlDB.PingContext,
		"redis":    cacheStore.Ping,
		"storage":  evidence.Ping,
	})
	router := httpadapter.NewRouter(handler, httpadapter.RouterOptions{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxyHeaders,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	grpcadapter.Register(grpcServer, grpcadapter.NewDirectoryInternalServer(service))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		service:    service,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		cleanupFn: func(ctx context.Context) {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func NewWorkerRuntime(ctx context.Context, configPath string) (*WorkerRuntime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateWorker(); err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	worker := newWorkerRuntime(ctx, cfg, logger, postgres.NewRepositories(db).Outbox)
	closePublisher := worker.cleanupFn
	worker.cleanupFn = func(ctx context.Context) {
		closePublisher(ctx)
		_ = sqlDB.Close()
	}
	return worker, nil
}

func newWorkerRuntime(ctx context.Context, cfg Config, logger *slog.Logger, outbox ports.OutboxRepository) *WorkerRuntime {
	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	var closers []io.Closer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}
	return &WorkerRuntime{
		logger: logger,
		outbox: eventadapter.NewOutboxWorker(logger, outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize, cfg.OutboxMaxRetries),
		cleanupFn: func(context.Context) {
			for _, closer := range closers {
				_ = closer.Close()
			}
		},
	}
}

func serviceConfig(cfg Config) application.Config {
	return application.Config{
		ServiceName:           cfg.ServiceID,
		AppURL:                cfg.AppURL,
		AdminEmail:            cfg.AdminEmail,
		TokenTTL:              cfg.TokenTTL,
		PasswordResetTTL:      cfg.PasswordResetTTL,
		DirectoryCacheTTL:     cfg.DirectoryCacheTTL,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		EvidenceURLTTL:        cfg.EvidenceURLTTL,
		MaxUploadBytes:        cfg.MaxUploadBytes,
		LoginFailureThreshold: cfg.LoginFailureThreshold,
		LoginLockoutWindow:    cfg.LoginLockoutWindow,
		ReviewGuards: domain.ReviewGuardLimits{
			CommitteeCap: cfg.ReviewCommitteeCap,
			WindowLimit:  cfg.ReviewWindowLimit,
			Window:       cfg.ReviewWindow,
		},
	}
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		r.logger.InfoContext(ctx, "http listening", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", runErr)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return runErr
}

// Run drains the outbox until the context is cancelled or a signal arrives.
func (w *WorkerRuntime) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer w.cleanupFn(context.Background())

	w.logger.InfoContext(ctx, "outbox worker started")
	if err := w.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
