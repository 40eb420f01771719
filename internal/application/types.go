package application

import (
	"io"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/google/uuid"
)

type Config struct {
	ServiceName           string
	AppURL                string
	AdminEmail            string
	TokenTTL              time.Duration
	PasswordResetTTL      time.Duration
	DirectoryCacheTTL     time.Duration
	IdempotencyTTL        time.Duration
	EvidenceURLTTL        time.Duration
	MaxUploadBytes        int64
	LoginFailureThreshold int
	LoginLockoutWindow    time.Duration
	ReviewGuards          domain.ReviewGuardLimits
}

// Upload is a file attached to a submission.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Profile   ProfileView `json:"profile"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type ProfileView struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	Role               string    `json:"role"`
	IsVerified         bool      `json:"is_verified"`
	VerificationStatus string    `json:"verification_status"`
	VerificationNotes  string    `json:"verification_notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type CommitteeView struct {
	CommitteeID     uuid.UUID `json:"committee_id"`
	Name            string    `json:"name"`
	State           string    `json:"state,omitempty"`
	RaceType        string    `json:"race_type,omitempty"`
	CycleYear       int       `json:"cycle_year"`
	RoleOnCommittee string    `json:"role_on_committee,omitempty"`
	Verified        bool      `json:"verified"`
}

type DashboardResponse struct {
	Profile      ProfileView     `json:"profile"`
	Reviews      []ReviewView    `json:"reviews"`
	Committees   []CommitteeView `json:"committees"`
	ClaimedFirms []FirmView      `json:"claimed_firms,omitempty"`
}

type FirmView struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug"`
	Description       string            `json:"description,omitempty"`
	Website           string            `json:"website,omitempty"`
	LogoURL           string            `json:"logo_url,omitempty"`
	Services          []string          `json:"services,omitempty"`
	IsClaimed         bool              `json:"is_claimed"`
	PartyFocus        string            `json:"party_focus,omitempty"`
	YearFounded       *int              `json:"year_founded,omitempty"`
	HeadquartersState string            `json:"headquarters_state,omitempty"`
	HasPricing        bool              `json:"has_pricing"`
	Stats             *domain.FirmStats `json:"stats,omitempty"`
}

type ListFirmsRequest struct {
	Query      string
	Service    string
	MinRating  float64
	HasPricing bool
	Sort       string
}

type FirmPageResponse struct {
	Firm    FirmView           `json:"firm"`
	Pricing []PricingView      `json:"pricing"`
	Reviews []PublicReviewView `json:"reviews"`
}

type PricingView struct {
	ServiceCategory   string `json:"service_category"`
	ServiceLabel      string `json:"service_label"`
	PricingModel      string `json:"pricing_model"`
	PricingModelLabel string `json:"pricing_model_label"`
	PriceLow          int    `json:"price_low"`
	PriceHigh         *int   `json:"price_high,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

type ResponseView struct {
	ID           uuid.UUID `json:"id"`
	ResponseText string    `json:"response_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicReviewView is the anonymized shape shown on firm pages.
type PublicReviewView struct {
	ID                         uuid.UUID     `json:"id"`
	RatingOverall              int           `json:"rating_overall"`
	RatingCommunication        *int          `json:"rating_communication,omitempty"`
	RatingBudgetTransparency   *int          `json:"rating_budget_transparency,omitempty"`
	RatingResultsVsProjections *int          `json:"rating_results_vs_projections,omitempty"`
	RatingResponsiveness       *int          `json:"rating_responsiveness,omitempty"`
	RatingStrategicQuality     *int          `json:"rating_strategic_quality,omitempty"`
	ReviewText                 string        `json:"review_text"`
	Pros                       string        `json:"pros,omitempty"`
	Cons                       string        `json:"cons,omitempty"`
	ContextLine                string        `json:"context_line"`
	CycleYear                  int           `json:"cycle_year"`
	ServiceUsed                string        `json:"service_used,omitempty"`
	WouldHireAgain             bool          `json:"would_hire_again"`
	RaceOutcome                string        `json:"race_outcome,omitempty"`
	HasInvoiceEvidence         bool          `json:"has_invoice_evidence"`
	CreatedAt                  time.Time     `json:"created_at"`
	FirmResponse               *ResponseView `json:"firm_response,omitempty"`
}

// ReviewView is the full shape shown to the author and to platform admins.
type ReviewView struct {
	ID                         uuid.UUID  `json:"id"`
	FirmID                     uuid.UUID  `json:"firm_id"`
	FirmName                   string     `json:"firm_name,omitempty"`
	FirmSlug                   string     `json:"firm_slug,omitempty"`
	ReviewerID                 *uuid.UUID `json:"reviewer_id,omitempty"`
	CommitteeID                *uuid.UUID `json:"committee_id,omitempty"`
	RatingOverall              int        `json:"rating_overall"`
	RatingCommunication        *int       `json:"rating_communication,omitempty"`
	RatingBudgetTransparency   *int       `json:"rating_budget_transparency,omitempty"`
	RatingResultsVsProjections *int       `json:"rating_results_vs_projections,omitempty"`
	RatingResponsiveness       *int       `json:"rating_responsiveness,omitempty"`
	RatingStrategicQuality     *int       `json:"rating_strategic_quality,omitempty"`
	ReviewText                 string     `json:"review_text"`
	Pros                       string     `json:"pros,omitempty"`
	Cons                       string     `json:"cons,omitempty"`
	CycleYear                  int        `json:"cycle_year"`
	RaceType                   string     `json:"race_type"`
	Region                     string     `json:"region,omitempty"`
	BudgetTier                 string     `json:"budget_tier,omitempty"`
	ServiceUsed                string     `json:"service_used,omitempty"`
	WouldHireAgain             bool       `json:"would_hire_again"`
	RaceOutcome                string     `json:"race_outcome,omitempty"`
	AnonymizationLevel         string     `json:"anonymization_level"`
	HasInvoiceEvidence         bool       `json:"has_invoice_evidence"`
	EvidencePath               string     `json:"evidence_path,omitempty"`
	Status                     string     `json:"status"`
	AdminNotes                 string     `json:"admin_notes,omitempty"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

type ReviewInput struct {
	FirmID                     uuid.UUID  `json:"firm_id"`
	CommitteeID                *uuid.UUID `json:"committee_id,omitempty"`
	RatingOverall              int        `json:"rating_overall"`
	RatingCommunication        *int       `json:"rating_communication,omitempty"`
	RatingBudgetTransparency   *int       `json:"rating_budget_transparency,omitempty"`
	RatingResultsVsProjections *int       `json:"rating_results_vs_projections,omitempty"`
	RatingResponsiveness       *int       `json:"rating_responsiveness,omitempty"`
	RatingStrategicQuality     *int       `json:"rating_strategic_quality,omitempty"`
	ReviewText                 string     `json:"review_text"`
	Pros                       string     `json:"pros,omitempty"`
	Cons                       string     `json:"cons,omitempty"`
	CycleYear                  int        `json:"cycle_year"`
	RaceType                   string     `json:"race_type"`
	Region                     string     `json:"region,omitempty"`
	BudgetTier                 string     `json:"budget_tier,omitempty"`
	ServiceUsed                string     `json:"service_used,omitempty"`
	WouldHireAgain             bool       `json:"would_hire_again"`
	RaceOutcome                string     `json:"race_outcome,omitempty"`
	AnonymizationLevel         string     `json:"anonymization_level,omitempty"`
}

type DecisionRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes,omitempty"`
}

type SubmitVerificationRequest struct {
	CommitteeName   string `json:"committee_name"`
	State           string `json:"state,omitempty"`
	RaceType        string `json:"race_type,omitempty"`
	CycleYear       int    `json:"cycle_year"`
	RoleOnCommittee string `json:"role_on_committee,omitempty"`
	EvidenceType    string `json:"evidence_type"`
	Notes           string `json:"notes,omitempty"`
}

type VerificationView struct {
	ID           uuid.UUID  `json:"id"`
	ProfileID    uuid.UUID  `json:"profile_id"`
	CommitteeID  *uuid.UUID `json:"committee_id,omitempty"`
	EvidenceType string     `json:"evidence_type"`
	FilePath     string     `json:"file_path,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Status       string     `json:"status"`
	AdminNotes   string     `json:"admin_notes,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type SubmitClaimRequest struct {
	TitleAtFirm string `json:"title_at_firm"`
	Notes       string `json:"notes,omitempty"`
}

type ClaimView struct {
	ID           uuid.UUID  `json:"id"`
	FirmID       uuid.UUID  `json:"firm_id"`
	ProfileID    uuid.UUID  `json:"profile_id"`
	TitleAtFirm  string     `json:"title_at_firm"`
	Notes        string     `json:"notes,omitempty"`
	DocumentPath string     `json:"document_path,omitempty"`
	Status       string     `json:"status"`
	AdminNotes   string     `json:"admin_notes,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type FlagReviewRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

type FlagView struct {
	ID         uuid.UUID  `json:"id"`
	ReviewID   uuid.UUID  `json:"review_id"`
	FlaggedBy  uuid.UUID  `json:"flagged_by"`
	Reason     string     `json:"reason"`
	Details    string     `json:"details,omitempty"`
	Status     string     `json:"status"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type RespondRequest struct {
	ResponseText string `json:"response_text"`
}

type CreateFirmRequest struct {
	Name     string   `json:"name"`
	Website  string   `json:"website,omitempty"`
	Services []string `json:"services,omitempty"`
}

type UpdateFirmRequest struct {
	Description       *string  `json:"description,omitempty"`
	Website           *string  `json:"website,omitempty"`
	LogoURL           *string  `json:"logo_url,omitempty"`
	ContactEmail      *string  `json:"contact_email,omitempty"`
	Services          []string `json:"services,omitempty"`
	PartyFocus        *string  `json:"party_focus,omitempty"`
	YearFounded       *int     `json:"year_founded,omitempty"`
	HeadquartersState *string  `json:"headquarters_state,omitempty"`
}

type PricingEntryRequest struct {
	ServiceCategory string `json:"service_category"`
	PricingModel    string `json:"pricing_model"`
	PriceLow        int    `json:"price_low"`
	PriceHigh       *int   `json:"price_high,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// SetFirmPricingRequest replaces the whole price sheet; an empty list clears it.
type SetFirmPricingRequest struct {
	Entries []PricingEntryRequest `json:"entries"`
}

type NotifyFirmRequest struct {
	FirmSlug  string `json:"firm_slug"`
	FirmEmail string `json:"firm_email"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type AdminOverview struct {
	PendingVerifications int64 `json:"pending_verifications"`
	PendingReviews       int64 `json:"pending_reviews"`
	PendingFlags         int64 `json:"pending_flags"`
	TotalFirms           int64 `json:"total_firms"`
	TotalReviews         int64 `json:"total_reviews"`
	TotalUsers           int64 `json:"total_users"`
}

type EvidenceURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
