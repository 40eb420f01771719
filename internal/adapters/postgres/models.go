package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// stringList is stored as a jsonb array.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	*l = out
	return nil
}

type profileModel struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email              string    `gorm:"column:email"`
	FullName           string    `gorm:"column:full_name"`
	PasswordHash       string    `gorm:"column:password_hash"`
	Role               string    `gorm:"column:role"`
	IsVerified         bool      `gorm:"column:is_verified"`
	VerificationStatus string    `gorm:"column:verification_status"`
	VerificationNotes  *string   `gorm:"column:verification_notes"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (profileModel) TableName() string { return "profiles" }

type committeeModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name"`
	State     string    `gorm:"column:state"`
	RaceType  string    `gorm:"column:race_type"`
	CycleYear int       `gorm:"column:cycle_year"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (committeeModel) TableName() string { return "committees" }

type committeeMemberModel struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProfileID       uuid.UUID `gorm:"column:profile_id"`
	CommitteeID     uuid.UUID `gorm:"column:committee_id"`
	RoleOnCommittee string    `gorm:"column:role_on_committee"`
	Verified        bool      `gorm:"column:verified"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (committeeMemberModel) TableName() string { return "committee_members" }

type firmModel struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name              string     `gorm:"column:name"`
	Slug              string     `gorm:"column:slug"`
	Description       string     `gorm:"column:description"`
	Website           string     `gorm:"column:website"`
	LogoURL           string     `gorm:"column:logo_url"`
	ContactEmail      string     `gorm:"column:contact_email"`
	Services          stringList `gorm:"column:services;type:jsonb"`
	IsClaimed         bool       `gorm:"column:is_claimed"`
	ClaimedBy         *uuid.UUID `gorm:"column:claimed_by"`
	PartyFocus        string     `gorm:"column:party_focus"`
	YearFounded       *int       `gorm:"column:year_founded"`
	HeadquartersState string     `gorm:"column:headquarters_state"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (firmModel) TableName() string { return "firms" }

type firmPricingModel struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FirmID          uuid.UUID `gorm:"column:firm_id"`
	ServiceCategory string    `gorm:"column:service_category"`
	PricingModel    string    `gorm:"column:pricing_model"`
	PriceLow        int       `gorm:"column:price_low"`
	PriceHigh       *int      `gorm:"column:price_high"`
	Notes           string    `gorm:"column:notes"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (firmPricingModel) TableName() string { return "firm_pricing" }

type reviewModel struct {
	ID                         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ReviewerID                 *uuid.UUID `gorm:"column:reviewer_id"`
	FirmID                     uuid.UUID  `gorm:"column:firm_id"`
	CommitteeID                *uuid.UUID `gorm:"column:committee_id"`
	RatingOverall              int        `gorm:"column:rating_overall"`
	RatingCommunication        *int       `gorm:"column:rating_communication"`
	RatingBudgetTransparency   *int       `gorm:"column:rating_budget_transparency"`
	RatingResultsVsProjections *int       `gorm:"column:rating_results_vs_projections"`
	RatingResponsiveness       *int       `gorm:"column:rating_responsiveness"`
	RatingStrategicQuality     *int       `gorm:"column:rating_strategic_quality"`
	ReviewText                 string     `gorm:"column:review_text"`
	Pros                       string     `gorm:"column:pros"`
	Cons                       string     `gorm:"column:cons"`
	CycleYear                  int        `gorm:"column:cycle_year"`
	RaceType                   string     `gorm:"column:race_type"`
	Region                     string     `gorm:"column:region"`
	BudgetTier                 string     `gorm:"column:budget_tier"`
	ServiceUsed                string     `gorm:"column:service_used"`
	WouldHireAgain             bool       `gorm:"column:would_hire_again"`
	RaceOutcome                string     `gorm:"column:race_outcome"`
	AnonymizationLevel         string     `gorm:"column:anonymization_level"`
	HasInvoiceEvidence         bool       `gorm:"column:has_invoice_evidence"`
	EvidencePath               string     `gorm:"column:evidence_path"`
	Status                     string     `gorm:"column:status"`
	FlaggedReason              string     `gorm:"column:flagged_reason"`
	AdminNotes                 string     `gorm:"column:admin_notes"`
	CreatedAt                  time.Time  `gorm:"column:created_at"`
	UpdatedAt                  time.Time  `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

type firmResponseModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ReviewID     uuid.UUID `gorm:"column:review_id"`
	FirmID       uuid.UUID `gorm:"column:firm_id"`
	ResponderID  uuid.UUID `gorm:"column:responder_id"`
	ResponseText string    `gorm:"column:response_text"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (firmResponseModel) TableName() string { return "firm_responses" }

type reviewFlagModel struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ReviewID   uuid.UUID  `gorm:"column:review_id"`
	FlaggedBy  uuid.UUID  `gorm:"column:flagged_by"`
	Reason     string     `gorm:"column:reason"`
	Details    string     `gorm:"column:details"`
	Status     string     `gorm:"column:status"`
	ResolvedBy *uuid.UUID `gorm:"column:resolved_by"`
	ResolvedAt *time.Time `gorm:"column:resolved_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (reviewFlagModel) TableName() string { return "review_flags" }

type verificationSubmissionModel struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProfileID    uuid.UUID  `gorm:"column:profile_id"`
	CommitteeID  *uuid.UUID `gorm:"column:committee_id"`
	EvidenceType string     `gorm:"column:evidence_type"`
	FilePath     string     `gorm:"column:file_path"`
	Notes        string     `gorm:"column:notes"`
	Status       string     `gorm:"column:status"`
	ReviewedBy   *uuid.UUID `gorm:"column:reviewed_by"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	AdminNotes   string     `gorm:"column:admin_notes"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (verificationSubmissionModel) TableName() string { return "verification_submissions" }

type firmClaimRequestModel struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	FirmID       uuid.UUID  `gorm:"column:firm_id"`
	ProfileID    uuid.UUID  `gorm:"column:profile_id"`
	TitleAtFirm  string     `gorm:"column:title_at_firm"`
	Notes        string     `gorm:"column:notes"`
	DocumentPath string     `gorm:"column:document_path"`
	Status       string     `gorm:"column:status"`
	ReviewedBy   *uuid.UUID `gorm:"column:reviewed_by"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	AdminNotes   string     `gorm:"column:admin_notes"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (firmClaimRequestModel) TableName() string { return "firm_claim_requests" }

type outboxModel struct {
	OutboxID         uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType        string     `gorm:"column:event_type"`
	PartitionKey     string     `gorm:"column:partition_key"`
	PartitionKeyPath string     `gorm:"column:partition_key_path"`
	Payload          string     `gorm:"column:payload"`
	SchemaVersion    string     `gorm:"column:schema_version"`
	TraceID          string     `gorm:"column:trace_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	FirstSeenAt      time.Time  `gorm:"column:first_seen_at"`
	PublishedAt      *time.Time `gorm:"column:published_at"`
	RetryCount       int        `gorm:"column:retry_count"`
	LastError        *string    `gorm:"column:last_error"`
	LastErrorAt      *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "review_outbox" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Status         string    `gorm:"column:status"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "api_idempotency" }
