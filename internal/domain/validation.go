package domain

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	MinCycleYear          = 2000
	MaxCycleYear          = 2030
	MinReviewTextLength   = 50
	MaxReviewTextLength   = 5000
	MaxProsConsLength     = 1000
	MinResponseTextLength = 10
	MaxResponseTextLength = 2000
	MaxFirmDescription    = 1000
	MinPasswordLength     = 8
	MaxPricingEntries     = 20
	MaxPricingNotes       = 500
)

func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func ValidateEmail(v string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(v))
	if err != nil || addr.Address != strings.TrimSpace(v) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return nil
}

func ValidatePassword(v string) error {
	if utf8.RuneCountInString(v) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	return nil
}

func validateRating(field string, v int) error {
	if v < 1 || v > 5 {
		return fmt.Errorf("%w: %s must be between 1 and 5", ErrInvalidInput, field)
	}
	return nil
}

func validateOptionalRating(field string, v *int) error {
	if v == nil {
		return nil
	}
	return validateRating(field, *v)
}

func validateOptionalOption(field string, options []Option, v string) error {
	if v == "" || hasOption(options, v) {
		return nil
	}
	return fmt.Errorf("%w: unknown %s %q", ErrInvalidInput, field, v)
}

func ValidateCycleYear(v int) error {
	if v < MinCycleYear || v > MaxCycleYear {
		return fmt.Errorf("%w: cycle_year must be between %d and %d", ErrInvalidInput, MinCycleYear, MaxCycleYear)
	}
	return nil
}

func ValidateRaceType(v string) error {
	if v == "" {
		return fmt.Errorf("%w: race_type is required", ErrInvalidInput)
	}
	return validateOptionalOption("race_type", RaceTypes, v)
}

// ValidateReviewContent checks the reviewer-supplied fields of a review.
func ValidateReviewContent(r Review) error {
	if err := validateRating("rating_overall", r.RatingOverall); err != nil {
		return err
	}
	subRatings := []struct {
		field string
		value *int
	}{
		{"rating_communication", r.RatingCommunication},
		{"rating_budget_transparency", r.RatingBudgetTransparency},
		{"rating_results_vs_projections", r.RatingResultsVsProjections},
		{"rating_responsiveness", r.RatingResponsiveness},
		{"rating_strategic_quality", r.RatingStrategicQuality},
	}
	for _, sr := range subRatings {
		if err := validateOptionalRating(sr.field, sr.value); err != nil {
			return err
		}
	}

	textLen := utf8.RuneCountInString(strings.TrimSpace(r.ReviewText))
	if textLen < MinReviewTextLength {
		return fmt.Errorf("%w: review_text must be at least %d characters", ErrInvalidInput, MinReviewTextLength)
	}
	if textLen > MaxReviewTextLength {
		return fmt.Errorf("%w: review_text must be at most %d characters", ErrInvalidInput, MaxReviewTextLength)
	}
	if utf8.RuneCountInString(r.Pros) > MaxProsConsLength {
		return fmt.Errorf("%w: pros must be at most %d characters", ErrInvalidInput, MaxProsConsLength)
	}
	if utf8.RuneCountInString(r.Cons) > MaxProsConsLength {
		return fmt.Errorf("%w: cons must be at most %d characters", ErrInvalidInput, MaxProsConsLength)
	}

	if err := ValidateCycleYear(r.CycleYear); err != nil {
		return err
	}
	if err := ValidateRaceType(r.RaceType); err != nil {
		return err
	}
	if err := validateOptionalOption("region", Regions, r.Region); err != nil {
		return err
	}
	if err := validateOptionalOption("budget_tier", BudgetTiers, r.BudgetTier); err != nil {
		return err
	}
	if err := validateOptionalOption("service_used", ServiceCategories, r.ServiceUsed); err != nil {
		return err
	}
	if err := validateOptionalOption("race_outcome", RaceOutcomes, r.RaceOutcome); err != nil {
		return err
	}
	switch r.AnonymizationLevel {
	case AnonymizationStandard, AnonymizationMinimal:
	default:
		return fmt.Errorf("%w: anonymization_level must be standard or minimal", ErrInvalidInput)
	}
	return nil
}

func ValidateResponseText(v string) error {
	l := utf8.RuneCountInString(strings.TrimSpace(v))
	if l < MinResponseTextLength || l > MaxResponseTextLength {
		return fmt.Errorf("%w: response_text must be %d-%d characters", ErrInvalidInput, MinResponseTextLength, MaxResponseTextLength)
	}
	return nil
}

func ValidateCommittee(c Committee) error {
	if utf8.RuneCountInString(strings.TrimSpace(c.Name)) < 2 {
		return fmt.Errorf("%w: committee name must be at least 2 characters", ErrInvalidInput)
	}
	if c.State != "" && !IsKnownState(c.State) {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidInput, c.State)
	}
	if err := validateOptionalOption("race_type", RaceTypes, c.RaceType); err != nil {
		return err
	}
	return ValidateCycleYear(c.CycleYear)
}

func ValidateCommitteeRole(v string) error {
	return validateOptionalOption("role_on_committee", CommitteeRoles, v)
}

func ValidateEvidenceType(v string) error {
	if v == "" {
		return fmt.Errorf("%w: evidence_type is required", ErrInvalidInput)
	}
	return validateOptionalOption("evidence_type", EvidenceTypes, v)
}

func ValidateFlagReason(v string) error {
	if v == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	return validateOptionalOption("reason", FlagReasons, v)
}

func ValidateWebsite(v string) error {
	if v == "" {
		return nil
	}
	parsed, err := url.Parse(v)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: website must be a valid URL", ErrInvalidInput)
	}
	return nil
}

// ValidateFirmProfile checks the fields a firm admin may edit.
func ValidateFirmProfile(f Firm) error {
	if utf8.RuneCountInString(f.Description) > MaxFirmDescription {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, MaxFirmDescription)
	}
	if err := ValidateWebsite(f.Website); err != nil {
		return err
	}
	if err := validateOptionalOption("party_focus", PartyFocuses, f.PartyFocus); err != nil {
		return err
	}
	for _, svc := range f.Services {
		if !hasOption(ServiceCategories, svc) {
			return fmt.Errorf("%w: unknown service %q", ErrInvalidInput, svc)
		}
	}
	if f.YearFounded != nil && (*f.YearFounded < 1900 || *f.YearFounded > 2100) {
		return fmt.Errorf("%w: year_founded is out of range", ErrInvalidInput)
	}
	if f.HeadquartersState != "" && !IsKnownState(f.HeadquartersState) {
		return fmt.Errorf("%w: unknown headquarters_state %q", ErrInvalidInput, f.HeadquartersState)
	}
	if f.ContactEmail != "" {
		if err := ValidateEmail(f.ContactEmail); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFirmPricing checks a firm's full price sheet. A category may list
// several models but never the same model twice.
func ValidateFirmPricing(entries []FirmPricing) error {
	if len(entries) > MaxPricingEntries {
		return fmt.Errorf("%w: at most %d pricing entries are allowed", ErrInvalidInput, MaxPricingEntries)
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !hasOption(ServiceCategories, e.ServiceCategory) {
			return fmt.Errorf("%w: unknown service %q", ErrInvalidInput, e.ServiceCategory)
		}
		if !hasOption(PricingModels, e.PricingModel) {
			return fmt.Errorf("%w: unknown pricing_model %q", ErrInvalidInput, e.PricingModel)
		}
		if e.PriceLow < 0 {
			return fmt.Errorf("%w: price_low must not be negative", ErrInvalidInput)
		}
		if e.PriceHigh != nil && *e.PriceHigh < e.PriceLow {
			return fmt.Errorf("%w: price_high must not be below price_low", ErrInvalidInput)
		}
		if utf8.RuneCountInString(e.Notes) > MaxPricingNotes {
			return fmt.Errorf("%w: pricing notes must be at most %d characters", ErrInvalidInput, MaxPricingNotes)
		}
		key := e.ServiceCategory + "/" + e.PricingModel
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s is listed twice for %s", ErrInvalidInput, PricingModelLabel(e.PricingModel), ServiceLabel(e.ServiceCategory))
		}
		seen[key] = struct{}{}
	}
	return nil
}
