package bootstrap

import (
	"context"
	"log/slog"

	"github.com/campaigngrade-hub/campaigngrade1/internal/adapters/postgres"
	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"gorm.io/gorm"
)

// AdminRuntime is the database-only wiring used by operator commands. It
// has no cache, mailer or object store.
type AdminRuntime struct {
	Logger  *slog.Logger
	DB      *gorm.DB
	Service *application.Service
	closeFn func()
}

func NewAdminRuntime(ctx context.Context, configPath string) (*AdminRuntime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	repos := postgres.NewRepositories(db)
	service := application.NewService(application.Dependencies{
		Config:        serviceConfig(cfg),
		Profiles:      repos.Profiles,
		Firms:         repos.Firms,
		Committees:    repos.Committees,
		Reviews:       repos.Reviews,
		Responses:     repos.Responses,
		Flags:         repos.Flags,
		Claims:        repos.Claims,
		Verifications: repos.Verifications,
		Outbox:        repos.Outbox,
		Idempotency:   repos.Idempotency,
	})
	return &AdminRuntime{
		Logger:  logger,
		DB:      db,
		Service: service,
		closeFn: func() { _ = sqlDB.Close() },
	}, nil
}

func (a *AdminRuntime) Migrate(ctx context.Context) error {
	return postgres.RunMigrations(ctx, a.DB)
}

func (a *AdminRuntime) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
