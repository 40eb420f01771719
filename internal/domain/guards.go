package domain

import (
	"fmt"
	"time"
)

const (
	DefaultCommitteeReviewCap  = 3
	DefaultReviewWindowLimit   = 10
	DefaultReviewWindow        = 30 * 24 * time.Hour
	DefaultEvidenceURLLifetime = 5 * time.Minute
)

// ReviewGuardCounts are the existing-review counts a new submission is checked against.
type ReviewGuardCounts struct {
	SameFirmCycle      int64
	CommitteeFirmCycle int64
	ReviewerRecent     int64
}

type ReviewGuardLimits struct {
	CommitteeCap int
	WindowLimit  int
	Window       time.Duration
}

func DefaultReviewGuardLimits() ReviewGuardLimits {
	return ReviewGuardLimits{
		CommitteeCap: DefaultCommitteeReviewCap,
		WindowLimit:  DefaultReviewWindowLimit,
		Window:       DefaultReviewWindow,
	}
}

// CheckReviewGuards applies the submission rules in order: one review per
// reviewer, firm and cycle; the committee cap; then the rolling window limit.
func CheckReviewGuards(counts ReviewGuardCounts, hasCommittee bool, limits ReviewGuardLimits, cycleYear int) error {
	if counts.SameFirmCycle > 0 {
		return fmt.Errorf("%w: you already reviewed this firm for the %d cycle, edit your existing review instead", ErrDuplicateReview, cycleYear)
	}
	if hasCommittee && counts.CommitteeFirmCycle >= int64(limits.CommitteeCap) {
		return fmt.Errorf("%w: %d members of your committee already reviewed this firm for this cycle", ErrCommitteeCapReached, limits.CommitteeCap)
	}
	if counts.ReviewerRecent >= int64(limits.WindowLimit) {
		return fmt.Errorf("%w: maximum of %d reviews in a %d-day period", ErrRateLimitExceeded, limits.WindowLimit, int(limits.Window.Hours()/24))
	}
	return nil
}

// EditableReviewStatuses are the statuses from which an author may revise a review.
// A revision sends the review back to moderation.
var EditableReviewStatuses = []ReviewStatus{ReviewPending, ReviewPublished, ReviewFlagged}
