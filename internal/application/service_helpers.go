package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
)

const (
	EventReviewSubmitted       = "review.submitted"
	EventReviewPublished       = "review.published"
	EventReviewRemoved         = "review.removed"
	EventReviewDeleted         = "review.deleted"
	EventFlagResolved          = "flag.resolved"
	EventClaimDecided          = "claim.decided"
	EventVerificationDecided   = "verification.decided"
	EventFirmResponseCreated   = "firm_response.created"
	directoryCachePrefix       = "firms:"
	passwordResetKeyPrefix     = "auth:reset:"
	loginLockoutKeyPrefix      = "login:"
	evidenceClaimRequestPrefix = "claim-requests"
)

var allowedUploadTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/png":       "png",
}

func appLogger() *slog.Logger {
	return slog.Default().With("module", "application", "layer", "application")
}

func (s *Service) logFailure(ctx context.Context, operation, message string, err error, fields ...any) {
	attrs := append([]any{
		"operation", operation,
		"outcome", "failure",
		"error", err,
	}, fields...)
	appLogger().WarnContext(ctx, message, attrs...)
}

// discardEvidence removes an upload whose database write failed.
func (s *Service) discardEvidence(ctx context.Context, operation, key string) {
	if err := s.evidence.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logFailure(ctx, operation, "orphaned upload cleanup failed", err, "key", key)
	}
}

func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKeyPath, partitionKey string, data any) {
	occurredAt := s.nowFn()
	eventID := uuid.New()
	payloadEnvelope := map[string]any{
		"event_id":           eventID.String(),
		"event_type":         eventType,
		"occurred_at":        occurredAt.Format(time.RFC3339),
		"source_service":     s.cfg.ServiceName,
		"trace_id":           "",
		"schema_version":     "1.0",
		"partition_key_path": partitionKeyPath,
		"partition_key":      partitionKey,
		"data":               data,
	}
	payload, _ := json.Marshal(payloadEnvelope)
	err := s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:          eventID,
		EventType:        eventType,
		PartitionKey:     partitionKey,
		PartitionKeyPath: partitionKeyPath,
		Payload:          payload,
		OccurredAt:       occurredAt,
		SchemaVersion:    "1.0",
	})
	if err != nil {
		s.logFailure(ctx, "enqueue_event", "outbox enqueue failed", err, "event_type", eventType, "partition_key", partitionKey)
	}
}

func hashRequest(v any) string {
	raw, _ := json.Marshal(v)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// reserveIdempotency claims key for request. A completed record for the same
// request is returned so the caller can replay it; a key that is in flight or
// was used for a different request is a conflict.
func (s *Service) reserveIdempotency(ctx context.Context, key string, request any) (*ports.IdempotencyRecord, error) {
	if key == "" || s.idempotency == nil {
		return nil, nil
	}
	hash := hashRequest(request)
	now := s.nowFn()
	existing, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: idempotency lookup: %v", domain.ErrDependencyUnavailable, err)
	}
	if existing != nil && existing.ExpiresAt.After(now) {
		switch {
		case existing.RequestHash != hash:
			return nil, fmt.Errorf("%w: key was used for a different request", domain.ErrIdempotencyConflict)
		case existing.Status == ports.IdempotencyCompleted:
			return existing, nil
		default:
			return nil, fmt.Errorf("%w: a request with this key is still in progress", domain.ErrIdempotencyConflict)
		}
	}
	if err := s.idempotency.Reserve(ctx, key, hash, now.Add(s.cfg.IdempotencyTTL)); err != nil {
		return nil, err
	}
	return nil, nil
}

// releaseIdempotency frees a reservation after the request failed so a
// corrected retry can reuse the key.
func (s *Service) releaseIdempotency(ctx context.Context, key string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Release(context.WithoutCancel(ctx), key); err != nil {
		s.logFailure(ctx, "release_idempotency", "idempotency release failed", err)
	}
}

func replayResponse[T any](rec *ports.IdempotencyRecord) (T, error) {
	var out T
	if err := json.Unmarshal(rec.ResponseBody, &out); err != nil {
		return out, fmt.Errorf("decode stored response: %w", err)
	}
	return out, nil
}

func (s *Service) completeIdempotency(ctx context.Context, key string, code int, response any) {
	if key == "" || s.idempotency == nil {
		return
	}
	body, _ := json.Marshal(response)
	if err := s.idempotency.Complete(ctx, key, code, body, s.nowFn()); err != nil {
		s.logFailure(ctx, "complete_idempotency", "idempotency completion failed", err)
	}
}

func (s *Service) invalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, directoryCachePrefix); err != nil {
		s.logFailure(ctx, "invalidate_directory", "directory cache invalidation failed", err)
	}
}

func requireAdmin(actor domain.Actor) error {
	if !actor.IsPlatformAdmin() {
		return fmt.Errorf("%w: platform admin role required", domain.ErrForbidden)
	}
	return nil
}

func requireAuthenticated(actor domain.Actor) error {
	if actor.ProfileID == uuid.Nil {
		return domain.ErrUnauthorized
	}
	return nil
}

// storeUpload validates an upload and writes it to the evidence bucket under key + extension.
func (s *Service) storeUpload(ctx context.Context, keyWithoutExt string, upload *Upload) (string, error) {
	if upload == nil || upload.Body == nil {
		return "", fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}
	if upload.Size <= 0 || upload.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: file must be between 1 byte and %d bytes", domain.ErrInvalidInput, s.cfg.MaxUploadBytes)
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	defaultExt, ok := allowedUploadTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: file must be a PDF, JPEG or PNG", domain.ErrInvalidInput)
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(upload.Filename)), ".")
	if ext == "" || len(ext) > 5 {
		ext = defaultExt
	}
	key := keyWithoutExt + "." + ext
	if err := s.evidence.Put(ctx, ports.EvidenceObject{
		Key:         key,
		ContentType: contentType,
		Size:        upload.Size,
		Body:        upload.Body,
	}); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return key, nil
}

// uploadStamp keeps object keys unique when two uploads land in the same millisecond.
func (s *Service) uploadStamp() string {
	return fmt.Sprintf("%d-%s", s.nowFn().UnixMilli(), uuid.NewString()[:8])
}

func toProfileView(p domain.Profile) ProfileView {
	return ProfileView{
		ID:                 p.ID,
		Email:              p.Email,
		FullName:           p.FullName,
		Role:               string(p.Role),
		IsVerified:         p.IsVerified,
		VerificationStatus: string(p.VerificationStatus),
		VerificationNotes:  p.VerificationNotes,
		CreatedAt:          p.CreatedAt,
	}
}

func toFirmView(f domain.Firm, stats *domain.FirmStats) FirmView {
	return FirmView{
		ID:                f.ID,
		Name:              f.Name,
		Slug:              f.Slug,
		Description:       f.Description,
		Website:           f.Website,
		LogoURL:           f.LogoURL,
		Services:          f.Services,
		IsClaimed:         f.IsClaimed,
		PartyFocus:        f.PartyFocus,
		YearFounded:       f.YearFounded,
		HeadquartersState: f.HeadquartersState,
		Stats:             stats,
	}
}

func toPricingViews(entries []domain.FirmPricing) []PricingView {
	out := make([]PricingView, 0, len(entries))
	for _, e := range entries {
		out = append(out, PricingView{
			ServiceCategory:   e.ServiceCategory,
			ServiceLabel:      domain.ServiceLabel(e.ServiceCategory),
			PricingModel:      e.PricingModel,
			PricingModelLabel: domain.PricingModelLabel(e.PricingModel),
			PriceLow:          e.PriceLow,
			PriceHigh:         e.PriceHigh,
			Notes:             e.Notes,
		})
	}
	return out
}

func toReviewView(r domain.Review, firm *domain.Firm) ReviewView {
	v := ReviewView{
		ID:                         r.ID,
		FirmID:                     r.FirmID,
		ReviewerID:                 r.ReviewerID,
		CommitteeID:                r.CommitteeID,
		RatingOverall:              r.RatingOverall,
		RatingCommunication:        r.RatingCommunication,
		RatingBudgetTransparency:   r.RatingBudgetTransparency,
		RatingResultsVsProjections: r.RatingResultsVsProjections,
		RatingResponsiveness:       r.RatingResponsiveness,
		RatingStrategicQuality:     r.RatingStrategicQuality,
		ReviewText:                 r.ReviewText,
		Pros:                       r.Pros,
		Cons:                       r.Cons,
		CycleYear:                  r.CycleYear,
		RaceType:                   r.RaceType,
		Region:                     r.Region,
		BudgetTier:                 r.BudgetTier,
		ServiceUsed:                r.ServiceUsed,
		WouldHireAgain:             r.WouldHireAgain,
		RaceOutcome:                r.RaceOutcome,
		AnonymizationLevel:         string(r.AnonymizationLevel),
		HasInvoiceEvidence:         r.HasInvoiceEvidence,
		EvidencePath:               r.EvidencePath,
		Status:                     string(r.Status),
		AdminNotes:                 r.AdminNotes,
		CreatedAt:                  r.CreatedAt,
		UpdatedAt:                  r.UpdatedAt,
	}
	if firm != nil {
		v.FirmName = firm.Name
		v.FirmSlug = firm.Slug
	}
	return v
}

func toPublicReviewView(r domain.Review, response *domain.FirmResponse) PublicReviewView {
	v := PublicReviewView{
		ID:                         r.ID,
		RatingOverall:              r.RatingOverall,
		RatingCommunication:        r.RatingCommunication,
		RatingBudgetTransparency:   r.RatingBudgetTransparency,
		RatingResultsVsProjections: r.RatingResultsVsProjections,
		RatingResponsiveness:       r.RatingResponsiveness,
		RatingStrategicQuality:     r.RatingStrategicQuality,
		ReviewText:                 r.ReviewText,
		Pros:                       r.Pros,
		Cons:                       r.Cons,
		ContextLine:                domain.ContextLine(r),
		CycleYear:                  r.CycleYear,
		ServiceUsed:                r.ServiceUsed,
		WouldHireAgain:             r.WouldHireAgain,
		RaceOutcome:                r.RaceOutcome,
		HasInvoiceEvidence:         r.HasInvoiceEvidence,
		CreatedAt:                  r.CreatedAt,
	}
	if response != nil {
		v.FirmResponse = &ResponseView{ID: response.ID, ResponseText: response.ResponseText, CreatedAt: response.CreatedAt}
	}
	return v
}

func toVerificationView(v domain.VerificationSubmission) VerificationView {
	return VerificationView{
		ID:           v.ID,
		ProfileID:    v.ProfileID,
		CommitteeID:  v.CommitteeID,
		EvidenceType: v.EvidenceType,
		FilePath:     v.FilePath,
		Notes:        v.Notes,
		Status:       string(v.Status),
		AdminNotes:   v.AdminNotes,
		ReviewedAt:   v.ReviewedAt,
		CreatedAt:    v.CreatedAt,
	}
}

func toClaimView(c domain.FirmClaimRequest) ClaimView {
	return ClaimView{
		ID:           c.ID,
		FirmID:       c.FirmID,
		ProfileID:    c.ProfileID,
		TitleAtFirm:  c.TitleAtFirm,
		Notes:        c.Notes,
		DocumentPath: c.DocumentPath,
		Status:       string(c.Status),
		AdminNotes:   c.AdminNotes,
		ReviewedAt:   c.ReviewedAt,
		CreatedAt:    c.CreatedAt,
	}
}

func toFlagView(f domain.ReviewFlag) FlagView {
	return FlagView{
		ID:         f.ID,
		ReviewID:   f.ReviewID,
		FlaggedBy:  f.FlaggedBy,
		Reason:     f.Reason,
		Details:    f.Details,
		Status:     string(f.Status),
		ResolvedAt: f.ResolvedAt,
		CreatedAt:  f.CreatedAt,
	}
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
