package postgres

import (
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
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
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Profiles:      &profileRepository{db: db},
		Firms:         &firmRepository{db: db},
		Pricing:       &firmPricingRepository{db: db},
		Committees:    &committeeRepository{db: db},
		Reviews:       &reviewRepository{db: db},
		Responses:     &firmResponseRepository{db: db},
		Flags:         &flagRepository{db: db},
		Claims:        &claimRepository{db: db},
		Verifications: &verificationRepository{db: db},
		Outbox:        &outboxRepository{db: db},
		Idempotency:   &idempotencyRepository{db: db},
	}
}
