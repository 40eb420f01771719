package postgres

import (
	"context"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type firmRepository struct {
	db *gorm.DB
}

func (r *firmRepository) Create(ctx context.Context, params ports.CreateFirmParams) (domain.Firm, error) {
	rec := firmModel{
		ID:        uuid.New(),
		Name:      params.Name,
		Slug:      params.Slug,
		Website:   params.Website,
		Services:  stringList(params.Services),
		CreatedAt: params.CreatedAt,
		UpdatedAt: params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Firm{}, domain.ErrConflict
		}
		return domain.Firm{}, err
	}
	return toDomainFirm(rec), nil
}

func (r *firmRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Firm, error) {
	var rec firmModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.Firm{}, domain.ErrNotFound
		}
		return domain.Firm{}, err
	}
	return toDomainFirm(rec), nil
}

func (r *firmRepository) GetBySlug(ctx context.Context, slug string) (domain.Firm, error) {
	var rec firmModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&rec).Error; err != nil {
		if notFound(err) {
			return domain.Firm{}, domain.ErrNotFound
		}
		return domain.Firm{}, err
	}
	return toDomainFirm(rec), nil
}

func (r *firmRepository) List(ctx context.Context, filter ports.FirmFilter) ([]domain.Firm, error) {
	q := r.db.WithContext(ctx).Model(&firmModel{})
	if query := strings.TrimSpace(filter.Query); query != "" {
		q = q.Where("name ILIKE ?", "%"+escapeLike(query)+"%")
	}
	if filter.Service != "" {
		q = q.Where("services @> ?::jsonb", `["`+escapeJSONString(filter.Service)+`"]`)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var rows []firmModel
	if err := q.Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Firm, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainFirm(row))
	}
	return out, nil
}

func (r *firmRepository) ListClaimedBy(ctx context.Context, profileID uuid.UUID) ([]domain.Firm, error) {
	var rows []firmModel
	if err := r.db.WithContext(ctx).Where("claimed_by = ?", profileID).Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Firm, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainFirm(row))
	}
	return out, nil
}

func (r *firmRepository) Update(ctx context.Context, params ports.UpdateFirmParams) (domain.Firm, error) {
	updates := map[string]any{
		"updated_at": params.UpdatedAt,
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.Website != nil {
		updates["website"] = *params.Website
	}
	if params.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*params.LogoURL)
	}
	if params.ContactEmail != nil {
		updates["contact_email"] = *params.ContactEmail
	}
	if params.Services != nil {
		updates["services"] = stringList(params.Services)
	}
	if params.PartyFocus != nil {
		updates["party_focus"] = *params.PartyFocus
	}
	if params.YearFounded != nil {
		updates["year_founded"] = *params.YearFounded
	}
	if params.HeadquartersState != nil {
		updates["headquarters_state"] = *params.HeadquartersState
	}

	res := r.db.WithContext(ctx).Model(&firmModel{}).Where("id = ?", params.FirmID).Updates(updates)
	if res.Error != nil {
		return domain.Firm{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Firm{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.FirmID)
}

func (r *firmRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&firmModel{}).Count(&count).Error
	return count, err
}

func escapeLike(v string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(v)
}

func escapeJSONString(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v)
}
