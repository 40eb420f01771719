package application

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/google/uuid"
)

const maxFlagDetailsLength = 1000

func (s *Service) FlagReview(ctx context.Context, actor domain.Actor, reviewID uuid.UUID, req FlagReviewRequest) (FlagView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return FlagView{}, err
	}
	if err := domain.ValidateFlagReason(req.Reason); err != nil {
		return FlagView{}, err
	}
	details := strings.TrimSpace(req.Details)
	if utf8.RuneCountInString(details) > maxFlagDetailsLength {
		return FlagView{}, fmt.Errorf("%w: details must be at most %d characters", domain.ErrInvalidInput, maxFlagDetailsLength)
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return FlagView{}, err
	}
	if review.Status != domain.ReviewPublished {
		return FlagView{}, fmt.Errorf("%w: only published reviews can be flagged", domain.ErrInvalidStateTransition)
	}

	flag, err := s.flags.Create(ctx, domain.ReviewFlag{
		ID:        uuid.New(),
		ReviewID:  review.ID,
		FlaggedBy: actor.ProfileID,
		Reason:    req.Reason,
		Details:   details,
		Status:    domain.FlagPending,
		CreatedAt: s.nowFn(),
	})
	if err != nil {
		return FlagView{}, err
	}
	appLogger().InfoContext(ctx, "review flagged",
		"operation", "flag_review",
		"outcome", "success",
		"review_id", review.ID,
		"reason", req.Reason,
	)
	return toFlagView(flag), nil
}

func (s *Service) AdminResolveFlag(ctx context.Context, actor domain.Actor, flagID uuid.UUID, req DecisionRequest) (FlagView, error) {
	if err := requireAdmin(actor); err != nil {
		return FlagView{}, err
	}
	target, err := domain.FlagStatusForAction(req.Action)
	if err != nil {
		return FlagView{}, err
	}
	current, err := s.flags.GetByID(ctx, flagID)
	if err != nil {
		return FlagView{}, err
	}
	if err := domain.ValidateFlagTransition(current.Status, target); err != nil {
		return FlagView{}, err
	}

	resolution, err := s.flags.Resolve(ctx, flagID, target, actor.ProfileID, s.nowFn())
	if err != nil {
		return FlagView{}, err
	}
	if resolution.ReviewRemoved {
		s.invalidateDirectory(ctx)
		s.enqueueEvent(ctx, EventReviewRemoved, "review_id", resolution.Flag.ReviewID.String(), map[string]any{
			"review_id": resolution.Flag.ReviewID.String(),
			"flag_id":   resolution.Flag.ID.String(),
		})
	}

	if flagger, err := s.profiles.GetByID(ctx, resolution.Flag.FlaggedBy); err == nil {
		s.notify(ctx, "resolve_flag", "flag_resolution", flagger.Email,
			"Update on the review you flagged",
			emailData{Name: flagger.FullName, Outcome: string(target), Upheld: target == domain.FlagUpheld})
	}
	s.enqueueEvent(ctx, EventFlagResolved, "review_id", resolution.Flag.ReviewID.String(), map[string]any{
		"flag_id":        resolution.Flag.ID.String(),
		"status":         string(target),
		"review_removed": resolution.ReviewRemoved,
	})
	return toFlagView(resolution.Flag), nil
}

func (s *Service) AdminListFlags(ctx context.Context, actor domain.Actor, status string, limit, offset int) ([]FlagView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := domain.FlagStatus(strings.ToLower(strings.TrimSpace(status)))
	switch filter {
	case "":
		filter = domain.FlagPending
	case domain.FlagPending, domain.FlagUpheld, domain.FlagDismissed:
	default:
		return nil, fmt.Errorf("%w: unknown flag status %q", domain.ErrInvalidInput, status)
	}
	limit, offset = pageBounds(limit, offset)
	items, err := s.flags.ListByStatus(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]FlagView, 0, len(items))
	for _, f := range items {
		out = append(out, toFlagView(f))
	}
	return out, nil
}
