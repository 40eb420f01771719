package postgres

import (
	"context"
	"fmt"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type claimRepository struct {
	db *gorm.DB
}

func (r *claimRepository) Create(ctx context.Context, claim domain.FirmClaimRequest) (domain.FirmClaimRequest, error) {
	rec := firmClaimRequestModel{
		ID:           claim.ID,
		FirmID:       claim.FirmID,
		ProfileID:    claim.ProfileID,
		TitleAtFirm:  claim.TitleAtFirm,
		Notes:        claim.Notes,
		DocumentPath: claim.DocumentPath,
		Status:       string(claim.Status),
		CreatedAt:    claim.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.FirmClaimRequest{}, fmt.Errorf("%w: a claim for this firm is already pending", domain.ErrConflict)
		}
		return domain.FirmClaimRequest{}, err
	}
	return toDomainClaim(rec), nil
}

func (r *claimRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.FirmClaimRequest, error) {
	return getClaim(r.db.WithContext(ctx), id)
}

func getClaim(db *gorm.DB, id uuid.UUID) (domain.FirmClaimRequest, error) {
	var rec firmClaimRequestModel
	if err := db.Where("id = ?", id).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.FirmClaimRequest{}, domain.ErrNotFound
		}
		return domain.FirmClaimRequest{}, err
	}
	return toDomainClaim(rec), nil
}

func (r *claimRepository) ListByStatus(ctx context.Context, status domain.ClaimStatus, limit, offset int) ([]domain.FirmClaimRequest, error) {
	var rows []firmClaimRequestModel
	if err := r.db.WithContext(ctx).Where("status = ?", string(status)).
		Order("created_at asc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.FirmClaimRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainClaim(row))
	}
	return out, nil
}

func (r *claimRepository) Decide(ctx context.Context, to domain.ClaimStatus, params ports.DecisionParams) (domain.FirmClaimRequest, error) {
	var out domain.FirmClaimRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&firmClaimRequestModel{}).
			Where("id = ? AND status = ?", params.ID, string(domain.ClaimPending)).
			Updates(map[string]any{
				"status":      string(to),
				"reviewed_by": params.ReviewedBy,
				"reviewed_at": params.At,
				"admin_notes": params.AdminNotes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			current, err := getClaim(tx, params.ID)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: claim is %s", domain.ErrInvalidStateTransition, current.Status)
		}
		claim, err := getClaim(tx, params.ID)
		if err != nil {
			return err
		}
		out = claim
		if to != domain.ClaimApproved {
			return nil
		}

		firmRes := tx.Model(&firmModel{}).
			Where("id = ? AND is_claimed = ?", claim.FirmID, false).
			Updates(map[string]any{
				"is_claimed": true,
				"claimed_by": claim.ProfileID,
				"updated_at": params.At,
			})
		if firmRes.Error != nil {
			return firmRes.Error
		}
		if firmRes.RowsAffected == 0 {
			return fmt.Errorf("%w: firm has already been claimed", domain.ErrConflict)
		}
		// Platform admins keep their role when they claim a firm.
		return tx.Model(&profileModel{}).
			Where("id = ? AND role <> ?", claim.ProfileID, string(domain.RolePlatformAdmin)).
			Updates(map[string]any{
				"role":       string(domain.RoleFirmAdmin),
				"updated_at": params.At,
			}).Error
	})
	if err != nil {
		return domain.FirmClaimRequest{}, err
	}
	return out, nil
}
