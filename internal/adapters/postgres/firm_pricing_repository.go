package postgres

import (
	"context"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type firmPricingRepository struct {
	db *gorm.DB
}

func (r *firmPricingRepository) Replace(ctx context.Context, firmID uuid.UUID, entries []domain.FirmPricing) ([]domain.FirmPricing, error) {
	rows := make([]firmPricingModel, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, firmPricingModel{
			ID:              e.ID,
			FirmID:          firmID,
			ServiceCategory: e.ServiceCategory,
			PricingModel:    e.PricingModel,
			PriceLow:        e.PriceLow,
			PriceHigh:       e.PriceHigh,
			Notes:           e.Notes,
			CreatedAt:       e.CreatedAt,
		})
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("firm_id = ?", firmID).Delete(&firmPricingModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.FirmPricing, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainFirmPricing(row))
	}
	return out, nil
}

func (r *firmPricingRepository) ListByFirm(ctx context.Context, firmID uuid.UUID) ([]domain.FirmPricing, error) {
	var rows []firmPricingModel
	if err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Order("service_category asc, price_low asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.FirmPricing, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainFirmPricing(row))
	}
	return out, nil
}

func (r *firmPricingRepository) FirmsWithPricing(ctx context.Context, firmIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(firmIDs))
	if len(firmIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&firmPricingModel{}).
		Distinct("firm_id").
		Where("firm_id IN ?", firmIDs).
		Pluck("firm_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
