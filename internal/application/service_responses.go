package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/google/uuid"
)

func (s *Service) RespondToReview(ctx context.Context, actor domain.Actor, reviewID uuid.UUID, req RespondRequest) (ResponseView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return ResponseView{}, err
	}
	text := strings.TrimSpace(req.ResponseText)
	if err := domain.ValidateResponseText(text); err != nil {
		return ResponseView{}, err
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return ResponseView{}, err
	}
	firm, err := s.firms.GetByID(ctx, review.FirmID)
	if err != nil {
		return ResponseView{}, err
	}
	if actor.Role != domain.RoleFirmAdmin || firm.ClaimedBy == nil || *firm.ClaimedBy != actor.ProfileID {
		return ResponseView{}, fmt.Errorf("%w: only the firm's administrator may respond", domain.ErrForbidden)
	}
	if review.Status != domain.ReviewPublished {
		return ResponseView{}, fmt.Errorf("%w: only published reviews accept responses", domain.ErrInvalidStateTransition)
	}

	created, err := s.responses.Create(ctx, domain.FirmResponse{
		ID:           uuid.New(),
		ReviewID:     review.ID,
		FirmID:       firm.ID,
		ResponderID:  actor.ProfileID,
		ResponseText: text,
		Status:       domain.ResponsePublished,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		return ResponseView{}, err
	}
	s.invalidateDirectory(ctx)
	s.enqueueEvent(ctx, EventFirmResponseCreated, "firm_id", firm.ID.String(), map[string]any{
		"response_id": created.ID.String(),
		"review_id":   review.ID.String(),
	})
	return ResponseView{ID: created.ID, ResponseText: created.ResponseText, CreatedAt: created.CreatedAt}, nil
}

func (s *Service) AdminRemoveResponse(ctx context.Context, actor domain.Actor, responseID uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	current, err := s.responses.GetByID(ctx, responseID)
	if err != nil {
		return err
	}
	if current.Status != domain.ResponsePublished {
		return fmt.Errorf("%w: response %s -> %s", domain.ErrInvalidStateTransition, current.Status, domain.ResponseRemoved)
	}
	if _, err := s.responses.Remove(ctx, responseID, s.nowFn()); err != nil {
		return err
	}
	s.invalidateDirectory(ctx)
	return nil
}
