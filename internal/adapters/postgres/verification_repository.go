package postgres

import (
	"context"
	"fmt"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type verificationRepository struct {
	db *gorm.DB
}

// Submit records the committee, the membership and the submission, and marks
// the profile pending, in one transaction.
func (r *verificationRepository) Submit(ctx context.Context, params ports.SubmitVerificationParams) (domain.VerificationSubmission, error) {
	sub := params.Submission
	rec := verificationSubmissionModel{
		ID:           sub.ID,
		ProfileID:    sub.ProfileID,
		CommitteeID:  sub.CommitteeID,
		EvidenceType: sub.EvidenceType,
		FilePath:     sub.FilePath,
		Notes:        sub.Notes,
		Status:       string(domain.VerificationPending),
		CreatedAt:    sub.CreatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, "verification:"+sub.ProfileID.String()); err != nil {
			return err
		}
		var pending int64
		if err := tx.Model(&verificationSubmissionModel{}).
			Where("profile_id = ? AND status = ?", sub.ProfileID, string(domain.VerificationPending)).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("%w: a verification submission is already awaiting review", domain.ErrConflict)
		}

		c := params.Committee
		if err := tx.Create(&committeeModel{
			ID: c.ID, Name: c.Name, State: c.State, RaceType: c.RaceType,
			CycleYear: c.CycleYear, CreatedAt: c.CreatedAt,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&committeeMemberModel{
			ID:              uuid.New(),
			ProfileID:       sub.ProfileID,
			CommitteeID:     c.ID,
			RoleOnCommittee: params.RoleOnCommittee,
			Verified:        false,
			CreatedAt:       sub.CreatedAt,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		res := tx.Model(&profileModel{}).Where("id = ?", sub.ProfileID).Updates(map[string]any{
			"verification_status": string(domain.VerificationPending),
			"updated_at":          sub.CreatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return domain.VerificationSubmission{}, err
	}
	return toDomainVerification(rec), nil
}

func (r *verificationRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.VerificationSubmission, error) {
	return getVerification(r.db.WithContext(ctx), id)
}

func getVerification(db *gorm.DB, id uuid.UUID) (domain.VerificationSubmission, error) {
	var rec verificationSubmissionModel
	if err := db.Where("id = ?", id).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.VerificationSubmission{}, domain.ErrNotFound
		}
		return domain.VerificationSubmission{}, err
	}
	return toDomainVerification(rec), nil
}

func (r *verificationRepository) HasPending(ctx context.Context, profileID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&verificationSubmissionModel{}).
		Where("profile_id = ? AND status = ?", profileID, string(domain.VerificationPending)).
		Count(&count).Error
	return count > 0, err
}

func (r *verificationRepository) ListByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.VerificationSubmission, error) {
	var rows []verificationSubmissionModel
	if err := r.db.WithContext(ctx).Where("status = ?", string(status)).
		Order("created_at asc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.VerificationSubmission, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainVerification(row))
	}
	return out, nil
}

func (r *verificationRepository) Decide(ctx context.Context, to domain.VerificationStatus, params ports.DecisionParams) (domain.VerificationSubmission, error) {
	var out domain.VerificationSubmission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&verificationSubmissionModel{}).
			Where("id = ? AND status = ?", params.ID, string(domain.VerificationPending)).
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
			current, err := getVerification(tx, params.ID)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: submission is %s", domain.ErrInvalidStateTransition, current.Status)
		}
		sub, err := getVerification(tx, params.ID)
		if err != nil {
			return err
		}
		out = sub

		var notes any
		if params.AdminNotes != "" {
			notes = params.AdminNotes
		}
		if err := tx.Model(&profileModel{}).Where("id = ?", sub.ProfileID).Updates(map[string]any{
			"verification_status": string(to),
			"is_verified":         to == domain.VerificationApproved,
			"verification_notes":  notes,
			"updated_at":          params.At,
		}).Error; err != nil {
			return err
		}
		if to != domain.VerificationApproved || sub.CommitteeID == nil {
			return nil
		}
		return tx.Model(&committeeMemberModel{}).
			Where("profile_id = ? AND committee_id = ?", sub.ProfileID, *sub.CommitteeID).
			Update("verified", true).Error
	})
	if err != nil {
		return domain.VerificationSubmission{}, err
	}
	return out, nil
}

func (r *verificationRepository) CountByStatus(ctx context.Context, status domain.VerificationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&verificationSubmissionModel{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}
