package postgres

import (
	"context"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type committeeRepository struct {
	db *gorm.DB
}

func (r *committeeRepository) ListMemberships(ctx context.Context, profileID uuid.UUID) ([]domain.CommitteeMember, error) {
	var members []committeeMemberModel
	if err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("created_at asc").Find(&members).Error; err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []domain.CommitteeMember{}, nil
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.CommitteeID)
	}
	var committees []committeeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&committees).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Committee, len(committees))
	for _, c := range committees {
		byID[c.ID] = toDomainCommittee(c)
	}

	out := make([]domain.CommitteeMember, 0, len(members))
	for _, m := range members {
		item := domain.CommitteeMember{
			ID: m.ID, ProfileID: m.ProfileID, CommitteeID: m.CommitteeID,
			RoleOnCommittee: m.RoleOnCommittee, Verified: m.Verified,
		}
		if c, ok := byID[m.CommitteeID]; ok {
			item.Committee = &c
		}
		out = append(out, item)
	}
	return out, nil
}

// IsMember reports a verified membership only.
func (r *committeeRepository) IsMember(ctx context.Context, profileID, committeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&committeeMemberModel{}).
		Where("profile_id = ? AND committee_id = ? AND verified = ?", profileID, committeeID, true).
		Count(&count).Error
	return count > 0, err
}
