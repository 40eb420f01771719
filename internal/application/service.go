package application

import (
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
)

type Service struct {
	cfg           Config
	profiles      ports.ProfileRepository
	firms         ports.FirmRepository
	pricing       ports.FirmPricingRepository
	committees    ports.CommitteeRepository
	reviews       ports.ReviewRepository
	responses     ports.FirmResponseRepository
	flags         ports.FlagRepository
	claims        ports.ClaimRepository
	verifications ports.VerificationRepository
	outbox        ports.OutboxRepository
	idempotency   ports.IdempotencyRepository
	cache         ports.Cache
	lockouts      ports.LockoutStore
	evidence      ports.EvidenceStore
	mailer        ports.Mailer
	tokens        ports.TokenIssuer
	hasher        ports.PasswordHasher
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Profiles      ports.ProfileRepository
	Firms         ports.FirmRepository
	Pricing       ports.FirmPricingRepository
	Committees    ports.CommitteeRepository
	Reviews       ports.ReviewRepository
	Responses     ports.FirmResponseRepository
	Flags         ports.FlagRepository
	Claims        ports.ClaimRepository
	Verifications ports.VerificationRepository
	Outbox        ports.OutboxRepository
	Idempotency   ports.IdempotencyRepository
	Cache         ports.Cache
	Lockouts      ports.LockoutStore
	Evidence      ports.EvidenceStore
	Mailer        ports.Mailer
	Tokens        ports.TokenIssuer
	Hasher        ports.PasswordHasher
	Clock         func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "campaigngrade-api"
	}
	if cfg.AppURL == "" {
		cfg.AppURL = "https://campaign-grade.com"
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@campaign-grade.com"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.PasswordResetTTL <= 0 {
		cfg.PasswordResetTTL = time.Hour
	}
	if cfg.DirectoryCacheTTL <= 0 {
		cfg.DirectoryCacheTTL = 5 * time.Minute
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.EvidenceURLTTL <= 0 {
		cfg.EvidenceURLTTL = domain.DefaultEvidenceURLLifetime
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.LoginFailureThreshold <= 0 {
		cfg.LoginFailureThreshold = 5
	}
	if cfg.LoginLockoutWindow <= 0 {
		cfg.LoginLockoutWindow = 15 * time.Minute
	}
	defaults := domain.DefaultReviewGuardLimits()
	if cfg.ReviewGuards.CommitteeCap <= 0 {
		cfg.ReviewGuards.CommitteeCap = defaults.CommitteeCap
	}
	if cfg.ReviewGuards.WindowLimit <= 0 {
		cfg.ReviewGuards.WindowLimit = defaults.WindowLimit
	}
	if cfg.ReviewGuards.Window <= 0 {
		cfg.ReviewGuards.Window = defaults.Window
	}

	nowFn := deps.Clock
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		cfg:           cfg,
		profiles:      deps.Profiles,
		firms:         deps.Firms,
		pricing:       deps.Pricing,
		committees:    deps.Committees,
		reviews:       deps.Reviews,
		responses:     deps.Responses,
		flags:         deps.Flags,
		claims:        deps.Claims,
		verifications: deps.Verifications,
		outbox:        deps.Outbox,
		idempotency:   deps.Idempotency,
		cache:         deps.Cache,
		lockouts:      deps.Lockouts,
		evidence:      deps.Evidence,
		mailer:        deps.Mailer,
		tokens:        deps.Tokens,
		hasher:        deps.Hasher,
		nowFn:         nowFn,
	}
}
