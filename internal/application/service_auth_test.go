package application_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
)

func TestSignUpLoginAndAuthenticate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	signUp, err := f.service.SignUp(ctx, application.SignUpRequest{
		Email:    " Dana@Example.com ",
		Password: "Password123",
		FullName: "Dana Ruiz",
	}, "idem-signup-1")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if signUp.Profile.Email != "dana@example.com" || signUp.Profile.Role != string(domain.RoleReviewer) || signUp.Profile.IsVerified {
		t.Fatalf("unexpected profile %+v", signUp.Profile)
	}
	if !signUp.ExpiresAt.Equal(f.now.Add(24 * time.Hour)) {
		t.Fatalf("unexpected token expiry %s", signUp.ExpiresAt)
	}

	if _, err := f.service.SignUp(ctx, application.SignUpRequest{Email: "dana@example.com", Password: "Password123", FullName: "Dana"}, ""); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected duplicate email conflict, got %v", err)
	}
	if _, err := f.service.SignUp(ctx, application.SignUpRequest{Email: "other@example.com", Password: "Password123", FullName: "Other"}, "idem-signup-1"); !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
	replayed, err := f.service.SignUp(ctx, application.SignUpRequest{Email: "dana@example.com", Password: "Password123", FullName: "Dana Ruiz"}, "idem-signup-1")
	if err != nil {
		t.Fatalf("replayed sign up: %v", err)
	}
	if replayed.Profile.ID != signUp.Profile.ID || replayed.Token == "" {
		t.Fatalf("expected replay for profile %s, got %+v", signUp.Profile.ID, replayed)
	}
	if _, err := f.service.SignUp(ctx, application.SignUpRequest{Email: "dana@example.com", Password: "Guessing999", FullName: "Dana Ruiz"}, "idem-signup-1"); !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("replay with another password must not issue a token, got %v", err)
	}
	if _, err := f.service.SignUp(ctx, application.SignUpRequest{Email: "short@example.com", Password: "short", FullName: "Short"}, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected short password rejection, got %v", err)
	}

	login, err := f.service.Login(ctx, application.LoginRequest{Email: "DANA@example.com", Password: "Password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	actor, err := f.service.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if actor.ProfileID != signUp.Profile.ID || actor.Role != domain.RoleReviewer {
		t.Fatalf("unexpected actor %+v", actor)
	}
	if _, err := f.service.Authenticate(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	actor := f.addProfile(t, "locked@example.com", domain.RoleReviewer, false)

	if _, err := f.service.Login(ctx, application.LoginRequest{Email: "nobody@example.com", Password: "Password123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.service.Login(ctx, application.LoginRequest{Email: actor.Email, Password: "wrong-password"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i+1, err)
		}
	}
	if _, err := f.service.Login(ctx, application.LoginRequest{Email: actor.Email, Password: "Password123"}); !errors.Is(err, domain.ErrRateLimitExceeded) {
		t.Fatalf("expected lockout, got %v", err)
	}

	f.now = f.now.Add(16 * time.Minute)
	if _, err := f.service.Login(ctx, application.LoginRequest{Email: actor.Email, Password: "Password123"}); err != nil {
		t.Fatalf("expected login after lockout window, got %v", err)
	}
}

var resetTokenPattern = regexp.MustCompile(`token=([0-9a-f]{64})`)

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	actor := f.addProfile(t, "forgetful@example.com", domain.RoleReviewer, false)

	if err := f.service.RequestPasswordReset(ctx, application.PasswordResetRequest{Email: "ghost@example.com"}); err != nil {
		t.Fatalf("unknown email must succeed silently: %v", err)
	}
	if len(f.mailer.to("ghost@example.com")) != 0 {
		t.Fatal("no email should be sent to unknown addresses")
	}

	if err := f.service.RequestPasswordReset(ctx, application.PasswordResetRequest{Email: actor.Email}); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	sent := f.mailer.to(actor.Email)
	if len(sent) != 1 {
		t.Fatalf("expected one reset email, got %d", len(sent))
	}
	match := resetTokenPattern.FindStringSubmatch(sent[0].HTML)
	if match == nil {
		t.Fatalf("reset link missing from email: %s", sent[0].HTML)
	}

	if err := f.service.ResetPassword(ctx, application.ResetPasswordRequest{Token: match[1], NewPassword: "NewPassword456"}); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, err := f.service.Login(ctx, application.LoginRequest{Email: actor.Email, Password: "NewPassword456"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if err := f.service.ResetPassword(ctx, application.ResetPasswordRequest{Token: match[1], NewPassword: "AnotherPass789"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected reset token to be single use, got %v", err)
	}
}

func TestChangePasswordRequiresCurrentPassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	actor := f.addProfile(t, "careful@example.com", domain.RoleReviewer, false)

	err := f.service.ChangePassword(ctx, actor, application.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "NewPassword456"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if err := f.service.ChangePassword(ctx, actor, application.ChangePasswordRequest{CurrentPassword: "Password123", NewPassword: "NewPassword456"}); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := f.service.Login(ctx, application.LoginRequest{Email: actor.Email, Password: "NewPassword456"}); err != nil {
		t.Fatalf("login with changed password: %v", err)
	}
}

func TestAdminOperationsRequirePlatformAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	reviewer := f.addProfile(t, "reviewer@example.com", domain.RoleReviewer, true)
	firmAdmin := f.addProfile(t, "firm@example.com", domain.RoleFirmAdmin, false)

	for _, actor := range []domain.Actor{reviewer, firmAdmin} {
		if _, err := f.service.AdminOverview(ctx, actor); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("overview: expected forbidden for %s, got %v", actor.Role, err)
		}
		if _, err := f.service.AdminListUsers(ctx, actor, 10, 0); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("list users: expected forbidden for %s, got %v", actor.Role, err)
		}
		if _, err := f.service.CreateFirm(ctx, actor, application.CreateFirmRequest{Name: "New Firm"}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("create firm: expected forbidden for %s, got %v", actor.Role, err)
		}
	}
}

func TestAdminSetRoleAndPromoteByEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	admin := f.addProfile(t, "admin@example.com", domain.RolePlatformAdmin, true)
	target := f.addProfile(t, "ops@example.com", domain.RoleReviewer, false)

	if _, err := f.service.AdminSetRole(ctx, admin, target.ProfileID, application.SetRoleRequest{Role: "owner"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unknown role rejection, got %v", err)
	}
	view, err := f.service.AdminSetRole(ctx, admin, target.ProfileID, application.SetRoleRequest{Role: "firm_admin"})
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if view.Role != string(domain.RoleFirmAdmin) {
		t.Fatalf("expected firm_admin, got %s", view.Role)
	}

	promoted, err := f.service.PromoteByEmail(ctx, " OPS@example.com", domain.RolePlatformAdmin)
	if err != nil {
		t.Fatalf("promote by email: %v", err)
	}
	if promoted.Role != string(domain.RolePlatformAdmin) {
		t.Fatalf("expected platform_admin, got %s", promoted.Role)
	}
	if _, err := f.service.PromoteByEmail(ctx, "missing@example.com", domain.RolePlatformAdmin); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
