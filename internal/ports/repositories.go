package ports

import (
	"context"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/google/uuid"
)

type CreateProfileParams struct {
	Email        string
	FullName     string
	PasswordHash string
	Role         domain.UserRole
	CreatedAt    time.Time
}

type ProfileRepository interface {
	Create(ctx context.Context, params CreateProfileParams) (domain.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error
	SetRole(ctx context.Context, id uuid.UUID, role domain.UserRole, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]domain.Profile, error)
	Count(ctx context.Context) (int64, error)
}

type CreateFirmParams struct {
	Name      string
	Slug      string
	Website   string
	Services  []string
	CreatedAt time.Time
}

type UpdateFirmParams struct {
	FirmID            uuid.UUID
	Description       *string
	Website           *string
	LogoURL           *string
	ContactEmail      *string
	Services          []string
	PartyFocus        *string
	YearFounded       *int
	HeadquartersState *string
	UpdatedAt         time.Time
}

type FirmFilter struct {
	Query   string
	Service string
	Limit   int
}

type FirmRepository interface {
	Create(ctx context.Context, params CreateFirmParams) (domain.Firm, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Firm, error)
	GetBySlug(ctx context.Context, slug string) (domain.Firm, error)
	List(ctx context.Context, filter FirmFilter) ([]domain.Firm, error)
	ListClaimedBy(ctx context.Context, profileID uuid.UUID) ([]domain.Firm, error)
	Update(ctx context.Context, params UpdateFirmParams) (domain.Firm, error)
	Count(ctx context.Context) (int64, error)
}

type FirmPricingRepository interface {
	// Replace swaps the firm's whole price sheet in one transaction.
	Replace(ctx context.Context, firmID uuid.UUID, entries []domain.FirmPricing) ([]domain.FirmPricing, error)
	ListByFirm(ctx context.Context, firmID uuid.UUID) ([]domain.FirmPricing, error)
	FirmsWithPricing(ctx context.Context, firmIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type CommitteeRepository interface {
	ListMemberships(ctx context.Context, profileID uuid.UUID) ([]domain.CommitteeMember, error)
	IsMember(ctx context.Context, profileID, committeeID uuid.UUID) (bool, error)
}

// ReviewGuardQuery identifies the counts a new review must be checked against.
type ReviewGuardQuery struct {
	ReviewerID  uuid.UUID
	FirmID      uuid.UUID
	CommitteeID *uuid.UUID
	CycleYear   int
	Since       time.Time
}

type ReviewTransition struct {
	ReviewID   uuid.UUID
	From       []domain.ReviewStatus
	To         domain.ReviewStatus
	AdminNotes *string
	At         time.Time
}

type ReviewRepository interface {
	// CreateGuarded serializes concurrent submissions for the same reviewer and
	// committee, reads the guard counts, runs check, and inserts only when check passes.
	CreateGuarded(ctx context.Context, review domain.Review, query ReviewGuardQuery, check func(domain.ReviewGuardCounts) error) (domain.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Review, error)
	UpdateContent(ctx context.Context, review domain.Review, editable []domain.ReviewStatus) (domain.Review, error)
	Transition(ctx context.Context, t ReviewTransition) (domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListPublishedByFirms(ctx context.Context, firmIDs []uuid.UUID) ([]domain.Review, error)
	ListByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]domain.Review, error)
	ListByStatus(ctx context.Context, status domain.ReviewStatus, limit, offset int) ([]domain.Review, error)
	CountByStatus(ctx context.Context, status domain.ReviewStatus) (int64, error)
}

type FirmResponseRepository interface {
	Create(ctx context.Context, response domain.FirmResponse) (domain.FirmResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.FirmResponse, error)
	ListPublishedByReviews(ctx context.Context, reviewIDs []uuid.UUID) ([]domain.FirmResponse, error)
	Remove(ctx context.Context, id uuid.UUID, at time.Time) (domain.FirmResponse, error)
}

type FlagResolution struct {
	Flag          domain.ReviewFlag
	ReviewRemoved bool
}

type FlagRepository interface {
	Create(ctx context.Context, flag domain.ReviewFlag) (domain.ReviewFlag, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.ReviewFlag, error)
	ListByStatus(ctx context.Context, status domain.FlagStatus, limit, offset int) ([]domain.ReviewFlag, error)
	// Resolve moves a pending flag to its final status. Upholding removes the
	// flagged review in the same transaction.
	Resolve(ctx context.Context, id uuid.UUID, to domain.FlagStatus, resolvedBy uuid.UUID, at time.Time) (FlagResolution, error)
	CountByStatus(ctx context.Context, status domain.FlagStatus) (int64, error)
}

type DecisionParams struct {
	ID         uuid.UUID
	ReviewedBy uuid.UUID
	AdminNotes string
	At         time.Time
}

type ClaimRepository interface {
	Create(ctx context.Context, claim domain.FirmClaimRequest) (domain.FirmClaimRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.FirmClaimRequest, error)
	ListByStatus(ctx context.Context, status domain.ClaimStatus, limit, offset int) ([]domain.FirmClaimRequest, error)
	// Decide moves a pending claim to approved or rejected. Approval marks the
	// firm claimed and promotes the claimant to firm_admin atomically.
	Decide(ctx context.Context, to domain.ClaimStatus, params DecisionParams) (domain.FirmClaimRequest, error)
}

type SubmitVerificationParams struct {
	Committee       domain.Committee
	RoleOnCommittee string
	Submission      domain.VerificationSubmission
}

type VerificationRepository interface {
	Submit(ctx context.Context, params SubmitVerificationParams) (domain.VerificationSubmission, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.VerificationSubmission, error)
	HasPending(ctx context.Context, profileID uuid.UUID) (bool, error)
	ListByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.VerificationSubmission, error)
	// Decide updates the submission, the submitter's profile verification
	// fields and, on approval, the committee membership in one transaction.
	Decide(ctx context.Context, to domain.VerificationStatus, params DecisionParams) (domain.VerificationSubmission, error)
	CountByStatus(ctx context.Context, status domain.VerificationStatus) (int64, error)
}

type OutboxEvent struct {
	EventID          uuid.UUID
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	OccurredAt       time.Time
	SchemaVersion    string
	TraceID          string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	// FetchUnpublished skips records that already failed maxRetries times.
	FetchUnpublished(ctx context.Context, limit, maxRetries int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}

const (
	IdempotencyReserved  = "reserved"
	IdempotencyCompleted = "completed"
)

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Reserve fails with domain.ErrIdempotencyConflict when an unexpired record exists.
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
	// Release drops a reservation whose request failed. Completed records are kept.
	Release(ctx context.Context, key string) error
}
