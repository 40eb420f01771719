package postgres

import (
	"context"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

func (r *profileRepository) Create(ctx context.Context, params ports.CreateProfileParams) (domain.Profile, error) {
	rec := profileModel{
		ID:                 uuid.New(),
		Email:              params.Email,
		FullName:           params.FullName,
		PasswordHash:       params.PasswordHash,
		Role:               string(params.Role),
		IsVerified:         false,
		VerificationStatus: string(domain.VerificationPending),
		CreatedAt:          params.CreatedAt,
		UpdatedAt:          params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Profile{}, domain.ErrConflict
		}
		return domain.Profile{}, err
	}
	return toDomainProfile(rec), nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	var rec profileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	return toDomainProfile(rec), nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	var rec profileModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	return toDomainProfile(rec), nil
}

func (r *profileRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&profileModel{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": passwordHash,
		"updated_at":    at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepository) SetRole(ctx context.Context, id uuid.UUID, role domain.UserRole, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&profileModel{}).Where("id = ?", id).Updates(map[string]any{
		"role":       string(role),
		"updated_at": at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]domain.Profile, error) {
	var rows []profileModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainProfile(row))
	}
	return out, nil
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&profileModel{}).Count(&count).Error
	return count, err
}
