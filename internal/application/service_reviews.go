package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
)

const defaultRemovalReason = "Violation of the CampaignGrade content policy."

func (s *Service) SubmitReview(ctx context.Context, actor domain.Actor, input ReviewInput, invoice *Upload) (ReviewView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return ReviewView{}, err
	}
	if !actor.IsVerified {
		return ReviewView{}, fmt.Errorf("%w: verify your committee role before submitting reviews", domain.ErrNotVerified)
	}
	firm, err := s.firms.GetByID(ctx, input.FirmID)
	if err != nil {
		return ReviewView{}, err
	}
	if input.CommitteeID != nil {
		member, err := s.committees.IsMember(ctx, actor.ProfileID, *input.CommitteeID)
		if err != nil {
			return ReviewView{}, err
		}
		if !member {
			return ReviewView{}, fmt.Errorf("%w: committee is not one of your committees", domain.ErrForbidden)
		}
	}

	now := s.nowFn()
	reviewerID := actor.ProfileID
	review := reviewFromInput(input)
	review.ID = uuid.New()
	review.ReviewerID = &reviewerID
	review.FirmID = firm.ID
	review.Status = domain.ReviewPending
	review.CreatedAt = now
	review.UpdatedAt = now
	if err := domain.ValidateReviewContent(review); err != nil {
		return ReviewView{}, err
	}
	replay, err := s.reserveIdempotency(ctx, actor.IdempotencyKey, input)
	if err != nil {
		return ReviewView{}, err
	}
	if replay != nil {
		return replayResponse[ReviewView](replay)
	}
	completed := false
	defer func() {
		if !completed {
			s.releaseIdempotency(ctx, actor.IdempotencyKey)
		}
	}()

	if invoice != nil {
		key, err := s.storeUpload(ctx, fmt.Sprintf("%s/review-%s", actor.ProfileID, s.uploadStamp()), invoice)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return ReviewView{}, err
			}
			s.logFailure(ctx, "submit_review", "invoice upload failed", err, "firm_id", firm.ID)
		} else {
			review.HasInvoiceEvidence = true
			review.EvidencePath = key
		}
	}

	guards := s.cfg.ReviewGuards
	created, err := s.reviews.CreateGuarded(ctx, review, ports.ReviewGuardQuery{
		ReviewerID:  actor.ProfileID,
		FirmID:      firm.ID,
		CommitteeID: review.CommitteeID,
		CycleYear:   review.CycleYear,
		Since:       now.Add(-guards.Window),
	}, func(counts domain.ReviewGuardCounts) error {
		return domain.CheckReviewGuards(counts, review.CommitteeID != nil, guards, review.CycleYear)
	})
	if err != nil {
		if review.EvidencePath != "" {
			s.discardEvidence(ctx, "submit_review", review.EvidencePath)
		}
		return ReviewView{}, err
	}

	s.enqueueEvent(ctx, EventReviewSubmitted, "firm_id", firm.ID.String(), map[string]any{
		"review_id": created.ID.String(),
		"firm_id":   firm.ID.String(),
	})
	view := toReviewView(created, &firm)
	s.completeIdempotency(ctx, actor.IdempotencyKey, 201, view)
	completed = true
	appLogger().InfoContext(ctx, "review submitted",
		"operation", "submit_review",
		"outcome", "success",
		"review_id", created.ID,
		"firm_id", firm.ID,
	)
	return view, nil
}

// EditReview revises the author's own review. Firm, committee and cycle stay
// fixed and the review returns to moderation.
func (s *Service) EditReview(ctx context.Context, actor domain.Actor, reviewID uuid.UUID, input ReviewInput) (ReviewView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return ReviewView{}, err
	}
	current, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return ReviewView{}, err
	}
	if current.ReviewerID == nil || *current.ReviewerID != actor.ProfileID {
		return ReviewView{}, fmt.Errorf("%w: only the author may edit a review", domain.ErrForbidden)
	}

	revised := reviewFromInput(input)
	revised.ID = current.ID
	revised.ReviewerID = current.ReviewerID
	revised.FirmID = current.FirmID
	revised.CommitteeID = current.CommitteeID
	revised.CycleYear = current.CycleYear
	revised.HasInvoiceEvidence = current.HasInvoiceEvidence
	revised.EvidencePath = current.EvidencePath
	revised.Status = domain.ReviewPending
	revised.CreatedAt = current.CreatedAt
	revised.UpdatedAt = s.nowFn()
	if err := domain.ValidateReviewContent(revised); err != nil {
		return ReviewView{}, err
	}

	updated, err := s.reviews.UpdateContent(ctx, revised, domain.EditableReviewStatuses)
	if err != nil {
		return ReviewView{}, err
	}
	if current.Status == domain.ReviewPublished {
		s.invalidateDirectory(ctx)
	}
	s.enqueueEvent(ctx, EventReviewSubmitted, "firm_id", updated.FirmID.String(), map[string]any{
		"review_id": updated.ID.String(),
		"firm_id":   updated.FirmID.String(),
		"edited":    true,
	})
	var firm *domain.Firm
	if f, err := s.firms.GetByID(ctx, updated.FirmID); err == nil {
		firm = &f
	}
	return toReviewView(updated, firm), nil
}

func (s *Service) AdminDecideReview(ctx context.Context, actor domain.Actor, reviewID uuid.UUID, req DecisionRequest) (ReviewView, error) {
	if err := requireAdmin(actor); err != nil {
		return ReviewView{}, err
	}
	target, err := domain.ReviewStatusForAction(req.Action)
	if err != nil {
		return ReviewView{}, err
	}
	current, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return ReviewView{}, err
	}
	if err := domain.ValidateReviewTransition(current.Status, target); err != nil {
		return ReviewView{}, err
	}

	notes := strings.TrimSpace(req.Notes)
	updated, err := s.reviews.Transition(ctx, ports.ReviewTransition{
		ReviewID:   reviewID,
		From:       domain.ReviewSourcesFor(target),
		To:         target,
		AdminNotes: &notes,
		At:         s.nowFn(),
	})
	if err != nil {
		return ReviewView{}, err
	}
	s.invalidateDirectory(ctx)

	var firm *domain.Firm
	if f, err := s.firms.GetByID(ctx, updated.FirmID); err == nil {
		firm = &f
	}
	firmName := "a firm"
	if firm != nil {
		firmName = firm.Name
	}

	if updated.ReviewerID != nil {
		if reviewer, err := s.profiles.GetByID(ctx, *updated.ReviewerID); err == nil {
			if target == domain.ReviewPublished {
				s.notify(ctx, "decide_review", "review_published", reviewer.Email,
					"Your review has been published", emailData{Name: reviewer.FullName, FirmName: firmName})
			} else {
				reason := notes
				if reason == "" {
					reason = defaultRemovalReason
				}
				s.notify(ctx, "decide_review", "review_removed", reviewer.Email,
					"Your review has been removed", emailData{Name: reviewer.FullName, FirmName: firmName, Reason: reason})
			}
		}
	}
	if target == domain.ReviewPublished && firm != nil {
		if contact := s.firmContactEmail(ctx, *firm); contact != "" {
			s.notify(ctx, "decide_review", "new_review", contact,
				fmt.Sprintf("New review for %s on CampaignGrade", firm.Name),
				emailData{FirmName: firm.Name, FirmSlug: firm.Slug})
		}
	}

	eventType := EventReviewPublished
	if target == domain.ReviewRemoved {
		eventType = EventReviewRemoved
	}
	s.enqueueEvent(ctx, eventType, "firm_id", updated.FirmID.String(), map[string]any{
		"review_id":   updated.ID.String(),
		"from_status": string(current.Status),
		"to_status":   string(target),
		"decided_by":  actor.ProfileID.String(),
	})
	appLogger().InfoContext(ctx, "review decided",
		"operation", "decide_review",
		"outcome", "success",
		"review_id", updated.ID,
		"status", target,
	)
	return toReviewView(updated, firm), nil
}

// firmContactEmail prefers the claimant's account email over the listed contact.
func (s *Service) firmContactEmail(ctx context.Context, firm domain.Firm) string {
	if firm.ClaimedBy != nil {
		if admin, err := s.profiles.GetByID(ctx, *firm.ClaimedBy); err == nil && admin.Email != "" {
			return admin.Email
		}
	}
	return firm.ContactEmail
}

func (s *Service) AdminDeleteReview(ctx context.Context, actor domain.Actor, reviewID uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	if review.EvidencePath != "" && s.evidence != nil {
		if err := s.evidence.Delete(ctx, review.EvidencePath); err != nil {
			s.logFailure(ctx, "delete_review", "invoice cleanup failed", err, "key", review.EvidencePath)
		}
	}
	s.invalidateDirectory(ctx)
	s.enqueueEvent(ctx, EventReviewDeleted, "firm_id", review.FirmID.String(), map[string]any{
		"review_id":  review.ID.String(),
		"deleted_by": actor.ProfileID.String(),
	})
	return nil
}

func (s *Service) AdminListReviews(ctx context.Context, actor domain.Actor, status string, limit, offset int) ([]ReviewView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var filter domain.ReviewStatus
	switch domain.ReviewStatus(strings.ToLower(strings.TrimSpace(status))) {
	case "", "all":
	case domain.ReviewPending, domain.ReviewPublished, domain.ReviewFlagged, domain.ReviewRemoved:
		filter = domain.ReviewStatus(strings.ToLower(strings.TrimSpace(status)))
	default:
		return nil, fmt.Errorf("%w: unknown review status %q", domain.ErrInvalidInput, status)
	}
	limit, offset = pageBounds(limit, offset)
	reviews, err := s.reviews.ListByStatus(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	firms := map[uuid.UUID]*domain.Firm{}
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		firm, ok := firms[r.FirmID]
		if !ok {
			if f, err := s.firms.GetByID(ctx, r.FirmID); err == nil {
				firm = &f
			}
			firms[r.FirmID] = firm
		}
		out = append(out, toReviewView(r, firm))
	}
	return out, nil
}

func (s *Service) AdminEvidenceURL(ctx context.Context, actor domain.Actor, key string) (EvidenceURLResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return EvidenceURLResponse{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "..") {
		return EvidenceURLResponse{}, fmt.Errorf("%w: evidence path is required", domain.ErrInvalidInput)
	}
	url, err := s.evidence.PresignGet(ctx, key, s.cfg.EvidenceURLTTL)
	if err != nil {
		return EvidenceURLResponse{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return EvidenceURLResponse{URL: url, ExpiresAt: s.nowFn().Add(s.cfg.EvidenceURLTTL)}, nil
}

func reviewFromInput(input ReviewInput) domain.Review {
	level := domain.AnonymizationLevel(strings.ToLower(strings.TrimSpace(input.AnonymizationLevel)))
	if level == "" {
		level = domain.AnonymizationStandard
	}
	return domain.Review{
		CommitteeID:                input.CommitteeID,
		RatingOverall:              input.RatingOverall,
		RatingCommunication:        input.RatingCommunication,
		RatingBudgetTransparency:   input.RatingBudgetTransparency,
		RatingResultsVsProjections: input.RatingResultsVsProjections,
		RatingResponsiveness:       input.RatingResponsiveness,
		RatingStrategicQuality:     input.RatingStrategicQuality,
		ReviewText:                 strings.TrimSpace(input.ReviewText),
		Pros:                       strings.TrimSpace(input.Pros),
		Cons:                       strings.TrimSpace(input.Cons),
		CycleYear:                  input.CycleYear,
		RaceType:                   input.RaceType,
		Region:                     input.Region,
		BudgetTier:                 input.BudgetTier,
		ServiceUsed:                input.ServiceUsed,
		WouldHireAgain:             input.WouldHireAgain,
		RaceOutcome:                input.RaceOutcome,
		AnonymizationLevel:         level,
	}
}
