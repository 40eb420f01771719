package postgres

import (
	"context"
	"fmt"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

func advisoryLock(tx *gorm.DB, key string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *reviewRepository) CreateGuarded(ctx context.Context, review domain.Review, query ports.ReviewGuardQuery, check func(domain.ReviewGuardCounts) error) (domain.Review, error) {
	rec := toReviewModel(review)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, "reviews:reviewer:"+query.ReviewerID.String()); err != nil {
			return err
		}
		if query.CommitteeID != nil {
			key := fmt.Sprintf("reviews:committee:%s:%s:%d", query.CommitteeID, query.FirmID, query.CycleYear)
			if err := advisoryLock(tx, key); err != nil {
				return err
			}
		}

		var counts domain.ReviewGuardCounts
		if err := tx.Model(&reviewModel{}).
			Where("reviewer_id = ? AND firm_id = ? AND cycle_year = ?", query.ReviewerID, query.FirmID, query.CycleYear).
			Count(&counts.SameFirmCycle).Error; err != nil {
			return err
		}
		if query.CommitteeID != nil {
			if err := tx.Model(&reviewModel{}).
				Where("committee_id = ? AND firm_id = ? AND cycle_year = ?", *query.CommitteeID, query.FirmID, query.CycleYear).
				Count(&counts.CommitteeFirmCycle).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&reviewModel{}).
			Where("reviewer_id = ? AND created_at >= ?", query.ReviewerID, query.Since).
			Count(&counts.ReviewerRecent).Error; err != nil {
			return err
		}
		if err := check(counts); err != nil {
			return err
		}

		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateReview
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Review{}, err
	}
	return toDomainReview(rec), nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	var rec reviewModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	return toDomainReview(rec), nil
}

// UpdateContent rewrites the author-editable columns and resets the status to
// pending, provided the review is still in one of the editable statuses.
func (r *reviewRepository) UpdateContent(ctx context.Context, review domain.Review, editable []domain.ReviewStatus) (domain.Review, error) {
	res := r.db.WithContext(ctx).Model(&reviewModel{}).
		Where("id = ? AND status IN ?", review.ID, statusStrings(editable)).
		Updates(map[string]any{
			"rating_overall":                review.RatingOverall,
			"rating_communication":          review.RatingCommunication,
			"rating_budget_transparency":    review.RatingBudgetTransparency,
			"rating_results_vs_projections": review.RatingResultsVsProjections,
			"rating_responsiveness":         review.RatingResponsiveness,
			"rating_strategic_quality":      review.RatingStrategicQuality,
			"review_text":                   review.ReviewText,
			"pros":                          review.Pros,
			"cons":                          review.Cons,
			"race_type":                     review.RaceType,
			"region":                        review.Region,
			"budget_tier":                   review.BudgetTier,
			"service_used":                  review.ServiceUsed,
			"would_hire_again":              review.WouldHireAgain,
			"race_outcome":                  review.RaceOutcome,
			"anonymization_level":           string(review.AnonymizationLevel),
			"status":                        string(domain.ReviewPending),
			"updated_at":                    review.UpdatedAt,
		})
	if res.Error != nil {
		return domain.Review{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Review{}, r.missOrConflict(ctx, review.ID)
	}
	return r.GetByID(ctx, review.ID)
}

// Transition is a conditional update: it only succeeds while the review is in
// one of t.From, so concurrent decisions cannot both apply.
func (r *reviewRepository) Transition(ctx context.Context, t ports.ReviewTransition) (domain.Review, error) {
	updates := map[string]any{
		"status":     string(t.To),
		"updated_at": t.At,
	}
	if t.AdminNotes != nil {
		updates["admin_notes"] = *t.AdminNotes
	}
	res := r.db.WithContext(ctx).Model(&reviewModel{}).
		Where("id = ? AND status IN ?", t.ReviewID, statusStrings(t.From)).
		Updates(updates)
	if res.Error != nil {
		return domain.Review{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Review{}, r.missOrConflict(ctx, t.ReviewID)
	}
	return r.GetByID(ctx, t.ReviewID)
}

func (r *reviewRepository) missOrConflict(ctx context.Context, id uuid.UUID) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: review is %s", domain.ErrInvalidStateTransition, current.Status)
}

// Delete removes a review. Responses and flags go with it via ON DELETE CASCADE.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&reviewModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) ListPublishedByFirms(ctx context.Context, firmIDs []uuid.UUID) ([]domain.Review, error) {
	if len(firmIDs) == 0 {
		return []domain.Review{}, nil
	}
	var rows []reviewModel
	if err := r.db.WithContext(ctx).
		Where("firm_id IN ? AND status = ?", firmIDs, string(domain.ReviewPublished)).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainReviews(rows), nil
}

func (r *reviewRepository) ListByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]domain.Review, error) {
	var rows []reviewModel
	if err := r.db.WithContext(ctx).Where("reviewer_id = ?", reviewerID).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainReviews(rows), nil
}

// ListByStatus lists reviews oldest first. An empty status lists every review.
func (r *reviewRepository) ListByStatus(ctx context.Context, status domain.ReviewStatus, limit, offset int) ([]domain.Review, error) {
	q := r.db.WithContext(ctx).Model(&reviewModel{})
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	var rows []reviewModel
	if err := q.Order("created_at asc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainReviews(rows), nil
}

// CountByStatus counts reviews in status. An empty status counts every review.
func (r *reviewRepository) CountByStatus(ctx context.Context, status domain.ReviewStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&reviewModel{})
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func toDomainReviews(rows []reviewModel) []domain.Review {
	out := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainReview(row))
	}
	return out
}

func statusStrings(statuses []domain.ReviewStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
