package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
)

const defaultVerificationRejectionReason = "We could not confirm your role from the documentation provided."

func (s *Service) SubmitVerification(ctx context.Context, actor domain.Actor, req SubmitVerificationRequest, evidence *Upload) (VerificationView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return VerificationView{}, err
	}
	profile, err := s.profiles.GetByID(ctx, actor.ProfileID)
	if err != nil {
		return VerificationView{}, err
	}
	if profile.IsVerified {
		return VerificationView{}, fmt.Errorf("%w: profile is already verified", domain.ErrConflict)
	}
	pending, err := s.verifications.HasPending(ctx, profile.ID)
	if err != nil {
		return VerificationView{}, err
	}
	if pending {
		return VerificationView{}, fmt.Errorf("%w: a verification submission is already awaiting review", domain.ErrConflict)
	}

	now := s.nowFn()
	committee := domain.Committee{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.CommitteeName),
		State:     strings.ToUpper(strings.TrimSpace(req.State)),
		RaceType:  req.RaceType,
		CycleYear: req.CycleYear,
		CreatedAt: now,
	}
	if err := domain.ValidateCommittee(committee); err != nil {
		return VerificationView{}, err
	}
	if err := domain.ValidateCommitteeRole(req.RoleOnCommittee); err != nil {
		return VerificationView{}, err
	}
	if err := domain.ValidateEvidenceType(req.EvidenceType); err != nil {
		return VerificationView{}, err
	}

	var filePath string
	if evidence != nil {
		filePath, err = s.storeUpload(ctx, fmt.Sprintf("%s/%s", profile.ID, s.uploadStamp()), evidence)
		if err != nil {
			return VerificationView{}, err
		}
	}

	committeeID := committee.ID
	submission, err := s.verifications.Submit(ctx, ports.SubmitVerificationParams{
		Committee:       committee,
		RoleOnCommittee: req.RoleOnCommittee,
		Submission: domain.VerificationSubmission{
			ID:           uuid.New(),
			ProfileID:    profile.ID,
			CommitteeID:  &committeeID,
			EvidenceType: req.EvidenceType,
			FilePath:     filePath,
			Notes:        strings.TrimSpace(req.Notes),
			Status:       domain.VerificationPending,
			CreatedAt:    now,
		},
	})
	if err != nil {
		if filePath != "" {
			s.discardEvidence(ctx, "submit_verification", filePath)
		}
		return VerificationView{}, err
	}
	appLogger().InfoContext(ctx, "verification submitted",
		"operation", "submit_verification",
		"outcome", "success",
		"submission_id", submission.ID,
	)
	return toVerificationView(submission), nil
}

func (s *Service) AdminDecideVerification(ctx context.Context, actor domain.Actor, submissionID uuid.UUID, req DecisionRequest) (VerificationView, error) {
	if err := requireAdmin(actor); err != nil {
		return VerificationView{}, err
	}
	target, err := domain.VerificationStatusForAction(req.Action)
	if err != nil {
		return VerificationView{}, err
	}
	current, err := s.verifications.GetByID(ctx, submissionID)
	if err != nil {
		return VerificationView{}, err
	}
	if err := domain.ValidateVerificationTransition(current.Status, target); err != nil {
		return VerificationView{}, err
	}

	notes := strings.TrimSpace(req.Notes)
	decided, err := s.verifications.Decide(ctx, target, ports.DecisionParams{
		ID:         submissionID,
		ReviewedBy: actor.ProfileID,
		AdminNotes: notes,
		At:         s.nowFn(),
	})
	if err != nil {
		return VerificationView{}, err
	}

	if submitter, err := s.profiles.GetByID(ctx, decided.ProfileID); err == nil {
		if target == domain.VerificationApproved {
			s.notify(ctx, "decide_verification", "verification_approved", submitter.Email,
				"You're verified on CampaignGrade", emailData{Name: submitter.FullName})
		} else {
			reason := notes
			if reason == "" {
				reason = defaultVerificationRejectionReason
			}
			s.notify(ctx, "decide_verification", "verification_rejected", submitter.Email,
				"Update on your CampaignGrade verification", emailData{Name: submitter.FullName, Reason: reason})
		}
	}
	s.enqueueEvent(ctx, EventVerificationDecided, "profile_id", decided.ProfileID.String(), map[string]any{
		"submission_id": decided.ID.String(),
		"status":        string(target),
		"decided_by":    actor.ProfileID.String(),
	})
	return toVerificationView(decided), nil
}

func (s *Service) AdminListVerifications(ctx context.Context, actor domain.Actor, status string, limit, offset int) ([]VerificationView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := domain.VerificationStatus(strings.ToLower(strings.TrimSpace(status)))
	switch filter {
	case "":
		filter = domain.VerificationPending
	case domain.VerificationPending, domain.VerificationApproved, domain.VerificationRejected:
	default:
		return nil, fmt.Errorf("%w: unknown verification status %q", domain.ErrInvalidInput, status)
	}
	limit, offset = pageBounds(limit, offset)
	items, err := s.verifications.ListByStatus(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]VerificationView, 0, len(items))
	for _, v := range items {
		out = append(out, toVerificationView(v))
	}
	return out, nil
}
