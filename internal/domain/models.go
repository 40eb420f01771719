package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleReviewer      UserRole = "reviewer"
	RoleFirmAdmin     UserRole = "firm_admin"
	RolePlatformAdmin UserRole = "platform_admin"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewPublished ReviewStatus = "published"
	ReviewFlagged   ReviewStatus = "flagged"
	ReviewRemoved   ReviewStatus = "removed"
)

type FlagStatus string

const (
	FlagPending   FlagStatus = "pending"
	FlagUpheld    FlagStatus = "upheld"
	FlagDismissed FlagStatus = "dismissed"
)

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

type ResponseStatus string

const (
	ResponsePublished ResponseStatus = "published"
	ResponseRemoved   ResponseStatus = "removed"
)

type AnonymizationLevel string

const (
	AnonymizationStandard AnonymizationLevel = "standard"
	AnonymizationMinimal  AnonymizationLevel = "minimal"
)

type Profile struct {
	ID                 uuid.UUID
	Email              string
	FullName           string
	PasswordHash       string
	Role               UserRole
	IsVerified         bool
	VerificationStatus VerificationStatus
	VerificationNotes  string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Committee struct {
	ID        uuid.UUID
	Name      string
	State     string
	RaceType  string
	CycleYear int
	CreatedAt time.Time
}

type CommitteeMember struct {
	ID              uuid.UUID
	ProfileID       uuid.UUID
	CommitteeID     uuid.UUID
	RoleOnCommittee string
	Verified        bool
	Committee       *Committee
}

type Firm struct {
	ID                uuid.UUID
	Name              string
	Slug              string
	Description       string
	Website           string
	LogoURL           string
	ContactEmail      string
	Services          []string
	IsClaimed         bool
	ClaimedBy         *uuid.UUID
	PartyFocus        string
	YearFounded       *int
	HeadquartersState string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FirmPricing is one published price band. Prices are whole US dollars and
// PriceHigh is nil for open-ended bands.
type FirmPricing struct {
	ID              uuid.UUID
	FirmID          uuid.UUID
	ServiceCategory string
	PricingModel    string
	PriceLow        int
	PriceHigh       *int
	Notes           string
	CreatedAt       time.Time
}

type FirmWithStats struct {
	Firm
	Stats FirmStats
}

type Review struct {
	ID                         uuid.UUID
	ReviewerID                 *uuid.UUID
	FirmID                     uuid.UUID
	CommitteeID                *uuid.UUID
	RatingOverall              int
	RatingCommunication        *int
	RatingBudgetTransparency   *int
	RatingResultsVsProjections *int
	RatingResponsiveness       *int
	RatingStrategicQuality     *int
	ReviewText                 string
	Pros                       string
	Cons                       string
	CycleYear                  int
	RaceType                   string
	Region                     string
	BudgetTier                 string
	ServiceUsed                string
	WouldHireAgain             bool
	RaceOutcome                string
	AnonymizationLevel         AnonymizationLevel
	HasInvoiceEvidence         bool
	EvidencePath               string
	Status                     ReviewStatus
	FlaggedReason              string
	AdminNotes                 string
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

type FirmResponse struct {
	ID           uuid.UUID
	ReviewID     uuid.UUID
	FirmID       uuid.UUID
	ResponderID  uuid.UUID
	ResponseText string
	Status       ResponseStatus
	CreatedAt    time.Time
}

type ReviewFlag struct {
	ID         uuid.UUID
	ReviewID   uuid.UUID
	FlaggedBy  uuid.UUID
	Reason     string
	Details    string
	Status     FlagStatus
	ResolvedBy *uuid.UUID
	ResolvedAt *time.Time
	CreatedAt  time.Time
}

type VerificationSubmission struct {
	ID           uuid.UUID
	ProfileID    uuid.UUID
	CommitteeID  *uuid.UUID
	EvidenceType string
	FilePath     string
	Notes        string
	Status       VerificationStatus
	ReviewedBy   *uuid.UUID
	ReviewedAt   *time.Time
	AdminNotes   string
	CreatedAt    time.Time
}

type FirmClaimRequest struct {
	ID           uuid.UUID
	FirmID       uuid.UUID
	ProfileID    uuid.UUID
	TitleAtFirm  string
	Notes        string
	DocumentPath string
	Status       ClaimStatus
	ReviewedBy   *uuid.UUID
	ReviewedAt   *time.Time
	AdminNotes   string
	CreatedAt    time.Time
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ProfileID      uuid.UUID
	Email          string
	Role           UserRole
	IsVerified     bool
	RequestID      string
	IdempotencyKey string
}

func (a Actor) IsPlatformAdmin() bool { return a.Role == RolePlatformAdmin }
