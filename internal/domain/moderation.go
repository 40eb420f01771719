package domain

import (
	"fmt"
	"strings"
)

const (
	ActionPublish = "publish"
	ActionRemove  = "remove"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionUphold  = "upheld"
	ActionDismiss = "dismissed"
)

const DefaultClaimRejectionReason = "Insufficient documentation provided."

var reviewTransitions = map[ReviewStatus]map[ReviewStatus]bool{
	ReviewPending:   {ReviewPublished: true, ReviewRemoved: true},
	ReviewPublished: {ReviewRemoved: true},
	ReviewFlagged:   {ReviewPublished: true, ReviewRemoved: true},
}

var verificationTransitions = map[VerificationStatus]map[VerificationStatus]bool{
	VerificationPending: {VerificationApproved: true, VerificationRejected: true},
}

var claimTransitions = map[ClaimStatus]map[ClaimStatus]bool{
	ClaimPending: {ClaimApproved: true, ClaimRejected: true},
}

var flagTransitions = map[FlagStatus]map[FlagStatus]bool{
	FlagPending: {FlagUpheld: true, FlagDismissed: true},
}

func ValidateReviewTransition(from, to ReviewStatus) error {
	if next, ok := reviewTransitions[from]; ok && next[to] {
		return nil
	}
	return fmt.Errorf("%w: review %s -> %s", ErrInvalidStateTransition, from, to)
}

func ValidateVerificationTransition(from, to VerificationStatus) error {
	if next, ok := verificationTransitions[from]; ok && next[to] {
		return nil
	}
	return fmt.Errorf("%w: verification %s -> %s", ErrInvalidStateTransition, from, to)
}

func ValidateClaimTransition(from, to ClaimStatus) error {
	if next, ok := claimTransitions[from]; ok && next[to] {
		return nil
	}
	return fmt.Errorf("%w: claim %s -> %s", ErrInvalidStateTransition, from, to)
}

func ValidateFlagTransition(from, to FlagStatus) error {
	if next, ok := flagTransitions[from]; ok && next[to] {
		return nil
	}
	return fmt.Errorf("%w: flag %s -> %s", ErrInvalidStateTransition, from, to)
}

// ReviewSourcesFor lists the statuses a review may be in for a move to target.
// Repositories use it to guard the conditional update.
func ReviewSourcesFor(target ReviewStatus) []ReviewStatus {
	out := make([]ReviewStatus, 0, len(reviewTransitions))
	for _, from := range []ReviewStatus{ReviewPending, ReviewPublished, ReviewFlagged} {
		if reviewTransitions[from][target] {
			out = append(out, from)
		}
	}
	return out
}

func ReviewStatusForAction(action string) (ReviewStatus, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionPublish, string(ReviewPublished):
		return ReviewPublished, nil
	case ActionRemove, string(ReviewRemoved):
		return ReviewRemoved, nil
	default:
		return "", fmt.Errorf("%w: unknown review action %q", ErrInvalidInput, action)
	}
}

func VerificationStatusForAction(action string) (VerificationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionApprove, string(VerificationApproved):
		return VerificationApproved, nil
	case ActionReject, string(VerificationRejected):
		return VerificationRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown verification action %q", ErrInvalidInput, action)
	}
}

func ClaimStatusForAction(action string) (ClaimStatus, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionApprove, string(ClaimApproved):
		return ClaimApproved, nil
	case ActionReject, string(ClaimRejected):
		return ClaimRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown claim action %q", ErrInvalidInput, action)
	}
}

func FlagStatusForAction(action string) (FlagStatus, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionUphold, "uphold":
		return FlagUpheld, nil
	case ActionDismiss, "dismiss":
		return FlagDismissed, nil
	default:
		return "", fmt.Errorf("%w: unknown flag action %q", ErrInvalidInput, action)
	}
}

func NormalizeRole(raw string) (UserRole, error) {
	switch UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleReviewer:
		return RoleReviewer, nil
	case RoleFirmAdmin:
		return RoleFirmAdmin, nil
	case RolePlatformAdmin:
		return RolePlatformAdmin, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}
