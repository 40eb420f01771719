package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type flagRepository struct {
	db *gorm.DB
}

func (r *flagRepository) Create(ctx context.Context, flag domain.ReviewFlag) (domain.ReviewFlag, error) {
	rec := reviewFlagModel{
		ID:        flag.ID,
		ReviewID:  flag.ReviewID,
		FlaggedBy: flag.FlaggedBy,
		Reason:    flag.Reason,
		Details:   flag.Details,
		Status:    string(flag.Status),
		CreatedAt: flag.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ReviewFlag{}, fmt.Errorf("%w: you already flagged this review", domain.ErrConflict)
		}
		return domain.ReviewFlag{}, err
	}
	return toDomainFlag(rec), nil
}

func (r *flagRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ReviewFlag, error) {
	return getFlag(r.db.WithContext(ctx), id)
}

func getFlag(db *gorm.DB, id uuid.UUID) (domain.ReviewFlag, error) {
	var rec reviewFlagModel
	if err := db.Where("id = ?", id).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.ReviewFlag{}, domain.ErrNotFound
		}
		return domain.ReviewFlag{}, err
	}
	return toDomainFlag(rec), nil
}

func (r *flagRepository) ListByStatus(ctx context.Context, status domain.FlagStatus, limit, offset int) ([]domain.ReviewFlag, error) {
	var rows []reviewFlagModel
	if err := r.db.WithContext(ctx).Where("status = ?", string(status)).
		Order("created_at asc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ReviewFlag, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainFlag(row))
	}
	return out, nil
}

func (r *flagRepository) Resolve(ctx context.Context, id uuid.UUID, to domain.FlagStatus, resolvedBy uuid.UUID, at time.Time) (ports.FlagResolution, error) {
	var out ports.FlagResolution
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&reviewFlagModel{}).
			Where("id = ? AND status = ?", id, string(domain.FlagPending)).
			Updates(map[string]any{
				"status":      string(to),
				"resolved_by": resolvedBy,
				"resolved_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			current, err := getFlag(tx, id)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: flag is %s", domain.ErrInvalidStateTransition, current.Status)
		}
		flag, err := getFlag(tx, id)
		if err != nil {
			return err
		}
		out.Flag = flag

		if to != domain.FlagUpheld {
			return nil
		}
		// An already removed review stays removed; the flag is still upheld.
		removed := tx.Model(&reviewModel{}).
			Where("id = ? AND status IN ?", flag.ReviewID, statusStrings(domain.ReviewSourcesFor(domain.ReviewRemoved))).
			Updates(map[string]any{
				"status":         string(domain.ReviewRemoved),
				"flagged_reason": flag.Reason,
				"updated_at":     at,
			})
		if removed.Error != nil {
			return removed.Error
		}
		out.ReviewRemoved = removed.RowsAffected > 0
		return nil
	})
	if err != nil {
		return ports.FlagResolution{}, err
	}
	return out, nil
}

func (r *flagRepository) CountByStatus(ctx context.Context, status domain.FlagStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&reviewFlagModel{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}
