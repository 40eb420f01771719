package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
)

func (s *Service) SubmitClaim(ctx context.Context, actor domain.Actor, firmSlug string, req SubmitClaimRequest, document *Upload) (ClaimView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return ClaimView{}, err
	}
	title := strings.TrimSpace(req.TitleAtFirm)
	if title == "" {
		return ClaimView{}, fmt.Errorf("%w: title_at_firm is required", domain.ErrInvalidInput)
	}
	if document == nil {
		return ClaimView{}, fmt.Errorf("%w: a supporting document is required", domain.ErrInvalidInput)
	}
	firm, err := s.firms.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(firmSlug)))
	if err != nil {
		return ClaimView{}, err
	}
	if firm.IsClaimed {
		return ClaimView{}, fmt.Errorf("%w: firm has already been claimed", domain.ErrConflict)
	}

	key := fmt.Sprintf("%s/%s/%s-%s", evidenceClaimRequestPrefix, firm.ID, actor.ProfileID, s.uploadStamp())
	documentPath, err := s.storeUpload(ctx, key, document)
	if err != nil {
		return ClaimView{}, err
	}

	claim, err := s.claims.Create(ctx, domain.FirmClaimRequest{
		ID:           uuid.New(),
		FirmID:       firm.ID,
		ProfileID:    actor.ProfileID,
		TitleAtFirm:  title,
		Notes:        strings.TrimSpace(req.Notes),
		DocumentPath: documentPath,
		Status:       domain.ClaimPending,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		s.discardEvidence(ctx, "submit_claim", documentPath)
		return ClaimView{}, err
	}
	return toClaimView(claim), nil
}

func (s *Service) AdminDecideClaim(ctx context.Context, actor domain.Actor, claimID uuid.UUID, req DecisionRequest) (ClaimView, error) {
	if err := requireAdmin(actor); err != nil {
		return ClaimView{}, err
	}
	target, err := domain.ClaimStatusForAction(req.Action)
	if err != nil {
		return ClaimView{}, err
	}
	current, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		return ClaimView{}, err
	}
	if err := domain.ValidateClaimTransition(current.Status, target); err != nil {
		return ClaimView{}, err
	}

	notes := strings.TrimSpace(req.Notes)
	decided, err := s.claims.Decide(ctx, target, ports.DecisionParams{
		ID:         claimID,
		ReviewedBy: actor.ProfileID,
		AdminNotes: notes,
		At:         s.nowFn(),
	})
	if err != nil {
		return ClaimView{}, err
	}
	if target == domain.ClaimApproved {
		s.invalidateDirectory(ctx)
	}

	firm, firmErr := s.firms.GetByID(ctx, decided.FirmID)
	if claimant, err := s.profiles.GetByID(ctx, decided.ProfileID); err == nil && firmErr == nil {
		if target == domain.ClaimApproved {
			s.notify(ctx, "decide_claim", "claim_approved", claimant.Email,
				"Your firm claim has been approved", emailData{Name: claimant.FullName, FirmName: firm.Name, FirmSlug: firm.Slug})
		} else {
			reason := notes
			if reason == "" {
				reason = domain.DefaultClaimRejectionReason
			}
			s.notify(ctx, "decide_claim", "claim_rejected", claimant.Email,
				"Your firm claim could not be approved", emailData{Name: claimant.FullName, FirmName: firm.Name, FirmSlug: firm.Slug, Reason: reason})
		}
	}
	s.enqueueEvent(ctx, EventClaimDecided, "firm_id", decided.FirmID.String(), map[string]any{
		"claim_id":   decided.ID.String(),
		"profile_id": decided.ProfileID.String(),
		"status":     string(target),
	})
	return toClaimView(decided), nil
}

func (s *Service) AdminListClaims(ctx context.Context, actor domain.Actor, status string, limit, offset int) ([]ClaimView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := domain.ClaimStatus(strings.ToLower(strings.TrimSpace(status)))
	switch filter {
	case "":
		filter = domain.ClaimPending
	case domain.ClaimPending, domain.ClaimApproved, domain.ClaimRejected:
	default:
		return nil, fmt.Errorf("%w: unknown claim status %q", domain.ErrInvalidInput, status)
	}
	limit, offset = pageBounds(limit, offset)
	items, err := s.claims.ListByStatus(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]ClaimView, 0, len(items))
	for _, c := range items {
		out = append(out, toClaimView(c))
	}
	return out, nil
}
