package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
)

func (s *Service) SignUp(ctx context.Context, req SignUpRequest, idempotencyKey string) (AuthResponse, error) {
	email := domain.NormalizeEmail(req.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return AuthResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return AuthResponse{}, err
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return AuthResponse{}, fmt.Errorf("%w: full_name is required", domain.ErrInvalidInput)
	}
	replay, err := s.reserveIdempotency(ctx, idempotencyKey, map[string]string{"email": email, "full_name": fullName})
	if err != nil {
		return AuthResponse{}, err
	}
	if replay != nil {
		// Tokens are never stored; a replayed signup gets a fresh one once
		// the password matches the account it created.
		view, err := replayResponse[ProfileView](replay)
		if err != nil {
			return AuthResponse{}, err
		}
		profile, err := s.profiles.GetByID(ctx, view.ID)
		if err != nil {
			return AuthResponse{}, err
		}
		if err := s.hasher.Compare(profile.PasswordHash, req.Password); err != nil {
			return AuthResponse{}, fmt.Errorf("%w: key was used for a different request", domain.ErrIdempotencyConflict)
		}
		return s.issueToken(profile)
	}
	completed := false
	defer func() {
		if !completed {
			s.releaseIdempotency(ctx, idempotencyKey)
		}
	}()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}
	profile, err := s.profiles.Create(ctx, ports.CreateProfileParams{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         domain.RoleReviewer,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		return AuthResponse{}, err
	}
	resp, err := s.issueToken(profile)
	if err != nil {
		return AuthResponse{}, err
	}
	s.completeIdempotency(ctx, idempotencyKey, 201, resp.Profile)
	completed = true
	return resp, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	email := domain.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return AuthResponse{}, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	lockKey := loginLockoutKeyPrefix + email
	if s.lockouts != nil {
		state, err := s.lockouts.Get(ctx, lockKey)
		if err == nil && state.LockedUntil != nil && state.LockedUntil.After(s.nowFn()) {
			appLogger().WarnContext(ctx, "login lockout active",
				"operation", "login",
				"outcome", "blocked",
				"locked_until", state.LockedUntil,
			)
			return AuthResponse{}, fmt.Errorf("%w: too many failed login attempts", domain.ErrRateLimitExceeded)
		}
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResponse{}, domain.ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}
	if err := s.hasher.Compare(profile.PasswordHash, req.Password); err != nil {
		s.recordLoginFailure(ctx, lockKey)
		return AuthResponse{}, domain.ErrInvalidCredentials
	}
	if s.lockouts != nil {
		_ = s.lockouts.Clear(ctx, lockKey)
	}
	return s.issueToken(profile)
}

func (s *Service) recordLoginFailure(ctx context.Context, lockKey string) {
	if s.lockouts == nil {
		return
	}
	state, err := s.lockouts.RecordFailure(ctx, lockKey, s.nowFn(), s.cfg.LoginFailureThreshold, s.cfg.LoginLockoutWindow)
	if err != nil {
		s.logFailure(ctx, "login", "lockout state unavailable", err)
		return
	}
	if state.LockedUntil != nil {
		appLogger().WarnContext(ctx, "login lockout triggered",
			"operation", "login",
			"outcome", "blocked",
			"failed_count", state.FailedCount,
			"locked_until", state.LockedUntil,
		)
	}
}

func (s *Service) issueToken(profile domain.Profile) (AuthResponse, error) {
	now := s.nowFn()
	expiresAt := now.Add(s.cfg.TokenTTL)
	token, err := s.tokens.Sign(ports.AuthClaims{
		ProfileID: profile.ID,
		Email:     profile.Email,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return AuthResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResponse{Token: token, ExpiresAt: expiresAt, Profile: toProfileView(profile)}, nil
}

// Authenticate resolves a bearer token into an Actor. Role and verification
// are read from the profile so admin changes apply to live tokens.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (domain.Actor, error) {
	claims, err := s.tokens.ParseAndValidate(rawToken)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	profile, err := s.profiles.GetByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, domain.ErrUnauthorized
		}
		return domain.Actor{}, err
	}
	return domain.Actor{
		ProfileID:  profile.ID,
		Email:      profile.Email,
		Role:       profile.Role,
		IsVerified: profile.IsVerified,
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor domain.Actor, req ChangePasswordRequest) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	profile, err := s.profiles.GetByID(ctx, actor.ProfileID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(profile.PasswordHash, req.CurrentPassword); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.profiles.UpdatePassword(ctx, profile.ID, hash, s.nowFn())
}

// RequestPasswordReset emails a single-use reset link. Unknown emails succeed
// silently so the endpoint cannot be used to enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	email := domain.NormalizeEmail(req.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	token, err := randomToken()
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, passwordResetKeyPrefix+tokenDigest(token), profile.ID.String(), s.cfg.PasswordResetTTL); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	s.notify(ctx, "request_password_reset", "password_reset", profile.Email,
		"Reset your CampaignGrade password", emailData{Name: profile.FullName, Token: token})
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	key := passwordResetKeyPrefix + tokenDigest(req.Token)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	profileID, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: reset link is invalid or expired", domain.ErrUnauthorized)
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.profiles.UpdatePassword(ctx, profileID, hash, s.nowFn()); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, key)
	return nil
}

func (s *Service) GetDashboard(ctx context.Context, actor domain.Actor) (DashboardResponse, error) {
	if err := requireAuthenticated(actor); err != nil {
		return DashboardResponse{}, err
	}
	profile, err := s.profiles.GetByID(ctx, actor.ProfileID)
	if err != nil {
		return DashboardResponse{}, err
	}
	reviews, err := s.reviews.ListByReviewer(ctx, profile.ID)
	if err != nil {
		return DashboardResponse{}, err
	}
	memberships, err := s.committees.ListMemberships(ctx, profile.ID)
	if err != nil {
		return DashboardResponse{}, err
	}

	resp := DashboardResponse{
		Profile:    toProfileView(profile),
		Reviews:    make([]ReviewView, 0, len(reviews)),
		Committees: make([]CommitteeView, 0, len(memberships)),
	}
	firmCache := map[uuid.UUID]*domain.Firm{}
	for _, r := range reviews {
		firm, ok := firmCache[r.FirmID]
		if !ok {
			if f, getErr := s.firms.GetByID(ctx, r.FirmID); getErr == nil {
				firm = &f
			}
			firmCache[r.FirmID] = firm
		}
		resp.Reviews = append(resp.Reviews, toReviewView(r, firm))
	}
	for _, m := range memberships {
		view := CommitteeView{CommitteeID: m.CommitteeID, RoleOnCommittee: m.RoleOnCommittee, Verified: m.Verified}
		if m.Committee != nil {
			view.Name = m.Committee.Name
			view.State = m.Committee.State
			view.RaceType = m.Committee.RaceType
			view.CycleYear = m.Committee.CycleYear
		}
		resp.Committees = append(resp.Committees, view)
	}
	if profile.Role == domain.RoleFirmAdmin {
		firms, err := s.firms.ListClaimedBy(ctx, profile.ID)
		if err != nil {
			return DashboardResponse{}, err
		}
		for _, f := range firms {
			resp.ClaimedFirms = append(resp.ClaimedFirms, toFirmView(f, nil))
		}
	}
	return resp, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
