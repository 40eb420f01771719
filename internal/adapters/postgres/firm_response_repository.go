package postgres

import (
	"context"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type firmResponseRepository struct {
	db *gorm.DB
}

func (r *firmResponseRepository) Create(ctx context.Context, response domain.FirmResponse) (domain.FirmResponse, error) {
	rec := firmResponseModel{
		ID:           response.ID,
		ReviewID:     response.ReviewID,
		FirmID:       response.FirmID,
		ResponderID:  response.ResponderID,
		ResponseText: response.ResponseText,
		Status:       string(response.Status),
		CreatedAt:    response.CreatedAt,
		UpdatedAt:    response.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.FirmResponse{}, domain.ErrConflict
		}
		return domain.FirmResponse{}, err
	}
	return toDomainFirmResponse(rec), nil
}

func (r *firmResponseRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.FirmResponse, error) {
	var rec firmResponseModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.FirmResponse{}, domain.ErrNotFound
		}
		return domain.FirmResponse{}, err
	}
	return toDomainFirmResponse(rec), nil
}

func (r *firmResponseRepository) ListPublishedByReviews(ctx context.Context, reviewIDs []uuid.UUID) ([]domain.FirmResponse, error) {
	if len(reviewIDs) == 0 {
		return []domain.FirmResponse{}, nil
	}
	var rows []firmResponseModel
	if err := r.db.WithContext(ctx).
		Where("review_id IN ? AND status = ?", reviewIDs, string(domain.ResponsePublished)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.FirmResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainFirmResponse(row))
	}
	return out, nil
}

func (r *firmResponseRepository) Remove(ctx context.Context, id uuid.UUID, at time.Time) (domain.FirmResponse, error) {
	res := r.db.WithContext(ctx).Model(&firmResponseModel{}).
		Where("id = ? AND status = ?", id, string(domain.ResponsePublished)).
		Updates(map[string]any{
			"status":     string(domain.ResponseRemoved),
			"updated_at": at,
		})
	if res.Error != nil {
		return domain.FirmResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return domain.FirmResponse{}, err
		}
		return domain.FirmResponse{}, domain.ErrInvalidStateTransition
	}
	return r.GetByID(ctx, id)
}
