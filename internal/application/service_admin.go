package application

import (
	"context"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/google/uuid"
)

func (s *Service) AdminOverview(ctx context.Context, actor domain.Actor) (AdminOverview, error) {
	if err := requireAdmin(actor); err != nil {
		return AdminOverview{}, err
	}
	var (
		out AdminOverview
		err error
	)
	if out.PendingVerifications, err = s.verifications.CountByStatus(ctx, domain.VerificationPending); err != nil {
		return AdminOverview{}, err
	}
	if out.PendingReviews, err = s.reviews.CountByStatus(ctx, domain.ReviewPending); err != nil {
		return AdminOverview{}, err
	}
	if out.PendingFlags, err = s.flags.CountByStatus(ctx, domain.FlagPending); err != nil {
		return AdminOverview{}, err
	}
	if out.TotalFirms, err = s.firms.Count(ctx); err != nil {
		return AdminOverview{}, err
	}
	if out.TotalReviews, err = s.reviews.CountByStatus(ctx, ""); err != nil {
		return AdminOverview{}, err
	}
	if out.TotalUsers, err = s.profiles.Count(ctx); err != nil {
		return AdminOverview{}, err
	}
	return out, nil
}

func (s *Service) AdminListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]ProfileView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	limit, offset = pageBounds(limit, offset)
	profiles, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]ProfileView, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileView(p))
	}
	return out, nil
}

func (s *Service) AdminSetRole(ctx context.Context, actor domain.Actor, profileID uuid.UUID, req SetRoleRequest) (ProfileView, error) {
	if err := requireAdmin(actor); err != nil {
		return ProfileView{}, err
	}
	role, err := domain.NormalizeRole(req.Role)
	if err != nil {
		return ProfileView{}, err
	}
	return s.SetRole(ctx, profileID, role)
}

// SetRole changes a profile's role without an actor check. The operator CLI
// uses it to bootstrap the first platform admin.
func (s *Service) SetRole(ctx context.Context, profileID uuid.UUID, role domain.UserRole) (ProfileView, error) {
	if err := s.profiles.SetRole(ctx, profileID, role, s.nowFn()); err != nil {
		return ProfileView{}, err
	}
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return ProfileView{}, err
	}
	appLogger().InfoContext(ctx, "profile role changed",
		"operation", "set_role",
		"outcome", "success",
		"profile_id", profileID,
		"role", role,
	)
	return toProfileView(profile), nil
}

func (s *Service) PromoteByEmail(ctx context.Context, email string, role domain.UserRole) (ProfileView, error) {
	profile, err := s.profiles.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return ProfileView{}, err
	}
	return s.SetRole(ctx, profile.ID, role)
}

// CreateFirmDirect adds a curated firm without an actor check, for the operator CLI.
func (s *Service) CreateFirmDirect(ctx context.Context, req CreateFirmRequest) (FirmView, error) {
	req.Name = strings.TrimSpace(req.Name)
	return s.createFirm(ctx, req, false)
}
