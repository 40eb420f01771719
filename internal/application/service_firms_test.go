package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
)

func firmNames(firms []application.FirmView) []string {
	out := make([]string, 0, len(firms))
	for _, f := range firms {
		out = append(out, f.Name)
	}
	return out
}

func equalNames(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestListFirmsSortsFiltersAndCaches(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	admin := f.addProfile(t, "admin@example.com", domain.RolePlatformAdmin, true)
	alpha := f.addFirm(t, "Alpha Digital")
	bravo := f.addFirm(t, "Bravo Mail")
	charlie := f.addFirm(t, "Charlie Polling")
	f.seedReview(alpha.ID, nil, 5, domain.ReviewPublished, f.now)
	f.seedReview(alpha.ID, nil, 4, domain.ReviewPublished, f.now)
	f.seedReview(bravo.ID, nil, 3, domain.ReviewPublished, f.now)
	f.seedReview(bravo.ID, nil, 3, domain.ReviewPublished, f.now)
	f.seedReview(bravo.ID, nil, 3, domain.ReviewPublished, f.now)
	f.seedReview(charlie.ID, nil, 5, domain.ReviewPending, f.now)

	byRating, err := f.service.ListFirms(ctx, application.ListFirmsRequest{})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if !equalNames(firmNames(byRating), "Alpha Digital", "Bravo Mail", "Charlie Polling") {
		t.Fatalf("unexpected rating order %v", firmNames(byRating))
	}
	if byRating[0].Stats == nil || byRating[0].Stats.AvgRating != 4.5 || byRating[0].Stats.HireAgainPct != 100 {
		t.Fatalf("unexpected alpha stats %+v", byRating[0].Stats)
	}
	if byRating[2].Stats.ReviewCount != 0 {
		t.Fatalf("pending reviews must not count, got %+v", byRating[2].Stats)
	}

	byReviews, err := f.service.ListFirms(ctx, application.ListFirmsRequest{Sort: application.SortReviews})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if !equalNames(firmNames(byReviews), "Bravo Mail", "Alpha Digital", "Charlie Polling") {
		t.Fatalf("unexpected review-count order %v", firmNames(byReviews))
	}

	minRated, err := f.service.ListFirms(ctx, application.ListFirmsRequest{MinRating: 4})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if !equalNames(firmNames(minRated), "Alpha Digital", "Charlie Polling") {
		t.Fatalf("min rating must drop low-rated firms and keep unreviewed ones, got %v", firmNames(minRated))
	}

	if _, err := f.service.ListFirms(ctx, application.ListFirmsRequest{Sort: "popularity"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid sort, got %v", err)
	}
	if _, err := f.service.ListFirms(ctx, application.ListFirmsRequest{MinRating: 6}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid min rating, got %v", err)
	}

	// A write that bypasses the service is not visible until the cache is invalidated.
	f.seedReview(charlie.ID, nil, 5, domain.ReviewPublished, f.now)
	cached, err := f.service.ListFirms(ctx, application.ListFirmsRequest{})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if cached[2].Stats.ReviewCount != 0 {
		t.Fatalf("expected cached directory, got %+v", cached[2].Stats)
	}

	if _, err := f.service.CreateFirm(ctx, admin, application.CreateFirmRequest{Name: "Delta Field"}); err != nil {
		t.Fatalf("create firm: %v", err)
	}
	fresh, err := f.service.ListFirms(ctx, application.ListFirmsRequest{})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if !equalNames(firmNames(fresh), "Charlie Polling", "Alpha Digital", "Bravo Mail", "Delta Field") {
		t.Fatalf("expected recomputed directory after invalidation, got %v", firmNames(fresh))
	}
	if fresh[0].Stats.ReviewCount != 1 {
		t.Fatalf("unexpected charlie stats %+v", fresh[0].Stats)
	}

	byName, err := f.service.ListFirms(ctx, application.ListFirmsRequest{Sort: application.SortName})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if !equalNames(firmNames(byName), "Alpha Digital", "Bravo Mail", "Charlie Polling", "Delta Field") {
		t.Fatalf("unexpected name order %v", firmNames(byName))
	}
}

func TestGetFirmPageShowsOnlyPublishedReviews(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	firm := f.addFirm(t, "Granite Strategies")
	older := f.seedReview(firm.ID, nil, 2, domain.ReviewPublished, f.now.Add(-48*time.Hour))
	newer := f.seedReview(firm.ID, nil, 5, domain.ReviewPublished, f.now.Add(-time.Hour))
	f.seedReview(firm.ID, nil, 1, domain.ReviewRemoved, f.now)
	f.seedReview(firm.ID, nil, 1, domain.ReviewPending, f.now)

	page, err := f.service.GetFirmPage(ctx, "Granite-Strategies", "")
	if err != nil {
		t.Fatalf("firm page: %v", err)
	}
	if len(page.Reviews) != 2 || page.Reviews[0].ID != newer.ID || page.Reviews[1].ID != older.ID {
		t.Fatalf("expected newest-first published reviews, got %+v", page.Reviews)
	}
	if page.Firm.Stats == nil || page.Firm.Stats.ReviewCount != 2 || page.Firm.Stats.AvgRating != 3.5 {
		t.Fatalf("unexpected stats %+v", page.Firm.Stats)
	}
	if page.Reviews[0].ContextLine == "" {
		t.Fatal("expected an anonymized context line")
	}

	lowest, err := f.service.GetFirmPage(ctx, firm.Slug, application.SortLowest)
	if err != nil {
		t.Fatalf("firm page: %v", err)
	}
	if lowest.Reviews[0].ID != older.ID {
		t.Fatalf("expected lowest rating first, got %+v", lowest.Reviews)
	}

	if _, err := f.service.GetFirmPage(ctx, "missing-firm", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.service.GetFirmPage(ctx, firm.Slug, "random"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid sort, got %v", err)
	}
}

func TestSearchAndSuggestFirms(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.addFirm(t, "Granite Strategies")
	f.addFirm(t, "Keystone Mail")
	unverified := f.addProfile(t, "new@example.com", domain.RoleReviewer, false)
	verified := f.addProfile(t, "member@example.com", domain.RoleReviewer, true)

	results, err := f.service.SearchFirms(ctx, "gran")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !equalNames(firmNames(results), "Granite Strategies") {
		t.Fatalf("unexpected search results %v", firmNames(results))
	}
	empty, err := f.service.SearchFirms(ctx, "  ")
	if err != nil || len(empty) != 0 {
		t.Fatalf("blank search should return nothing, got %v %v", empty, err)
	}

	if _, err := f.service.SuggestFirm(ctx, unverified, application.CreateFirmRequest{Name: "Granite Strategies"}); !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("expected not verified, got %v", err)
	}
	suggested, err := f.service.SuggestFirm(ctx, verified, application.CreateFirmRequest{Name: "Granite Strategies"})
	if err != nil {
		t.Fatalf("suggest firm: %v", err)
	}
	if suggested.Slug == "granite-strategies" {
		t.Fatal("suggested firm slug must not collide with the curated firm")
	}
}

func TestUpdateFirmProfileOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	owner := f.addProfile(t, "owner@example.com", domain.RoleFirmAdmin, false)
	other := f.addProfile(t, "other@example.com", domain.RoleFirmAdmin, false)
	firm := f.addFirm(t, "Granite Strategies")
	f.store.mu.Lock()
	firm.IsClaimed = true
	firm.ClaimedBy = &owner.ProfileID
	f.store.firms[firm.ID] = firm
	f.store.mu.Unlock()

	desc := "Full-service digital shop."
	if _, err := f.service.UpdateFirmProfile(ctx, other, firm.ID, application.UpdateFirmRequest{Description: &desc}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for another firm admin, got %v", err)
	}
	badSite := "ftp://granite"
	if _, err := f.service.UpdateFirmProfile(ctx, owner, firm.ID, application.UpdateFirmRequest{Website: &badSite}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid website, got %v", err)
	}
	updated, err := f.service.UpdateFirmProfile(ctx, owner, firm.ID, application.UpdateFirmRequest{Description: &desc})
	if err != nil {
		t.Fatalf("update firm: %v", err)
	}
	if updated.Description != desc {
		t.Fatalf("expected description %q, got %q", desc, updated.Description)
	}
}

func TestSetFirmPricingDrivesDirectoryFilter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	owner := f.addProfile(t, "owner@example.com", domain.RoleFirmAdmin, false)
	other := f.addProfile(t, "other@example.com", domain.RoleFirmAdmin, false)
	granite := f.addFirm(t, "Granite Strategies")
	f.addFirm(t, "Harbor Mail")
	f.store.mu.Lock()
	granite.IsClaimed = true
	granite.ClaimedBy = &owner.ProfileID
	f.store.firms[granite.ID] = granite
	f.store.mu.Unlock()

	// Warm the cache so the write below has to invalidate it.
	unfiltered, err := f.service.ListFirms(ctx, application.ListFirmsRequest{HasPricing: true})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if len(unfiltered) != 0 {
		t.Fatalf("expected no priced firms yet, got %v", firmNames(unfiltered))
	}

	high := 25000
	sheet := application.SetFirmPricingRequest{Entries: []application.PricingEntryRequest{
		{ServiceCategory: "mail", PricingModel: "flat_fee", PriceLow: 5000, PriceHigh: &high, Notes: " per drop "},
		{ServiceCategory: "texting", PricingModel: "per_unit", PriceLow: 0},
	}}
	if _, err := f.service.SetFirmPricing(ctx, other, granite.ID, sheet); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for another firm admin, got %v", err)
	}
	bad := application.SetFirmPricingRequest{Entries: []application.PricingEntryRequest{{ServiceCategory: "mail", PricingModel: "barter"}}}
	if _, err := f.service.SetFirmPricing(ctx, owner, granite.ID, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid pricing model, got %v", err)
	}

	saved, err := f.service.SetFirmPricing(ctx, owner, granite.ID, sheet)
	if err != nil {
		t.Fatalf("set pricing: %v", err)
	}
	if len(saved) != 2 || saved[0].PricingModelLabel != "Flat Fee" || saved[0].Notes != "per drop" {
		t.Fatalf("unexpected saved pricing %+v", saved)
	}

	priced, err := f.service.ListFirms(ctx, application.ListFirmsRequest{HasPricing: true})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if !equalNames(firmNames(priced), "Granite Strategies") || !priced[0].HasPricing {
		t.Fatalf("expected only the priced firm, got %+v", priced)
	}
	all, err := f.service.ListFirms(ctx, application.ListFirmsRequest{Sort: application.SortName})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if len(all) != 2 || all[1].HasPricing {
		t.Fatalf("expected unpriced firm to stay listed without the flag, got %+v", all)
	}

	page, err := f.service.GetFirmPage(ctx, granite.Slug, "")
	if err != nil {
		t.Fatalf("firm page: %v", err)
	}
	if !page.Firm.HasPricing || len(page.Pricing) != 2 || page.Pricing[1].ServiceLabel != "SMS / Texting" {
		t.Fatalf("expected pricing on the firm page, got %+v", page.Pricing)
	}

	if _, err := f.service.SetFirmPricing(ctx, owner, granite.ID, application.SetFirmPricingRequest{}); err != nil {
		t.Fatalf("clear pricing: %v", err)
	}
	cleared, err := f.service.ListFirms(ctx, application.ListFirmsRequest{HasPricing: true})
	if err != nil {
		t.Fatalf("list firms: %v", err)
	}
	if len(cleared) != 0 {
		t.Fatalf("expected cleared sheet to drop the firm, got %v", firmNames(cleared))
	}
}

func TestNotifyFirmIsRateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	actor := f.addProfile(t, "reviewer@example.com", domain.RoleReviewer, true)
	firm := f.addFirm(t, "Granite Strategies")
	req := application.NotifyFirmRequest{FirmSlug: firm.Slug, FirmEmail: "hello@granite.example.com"}

	if err := f.service.NotifyFirm(ctx, actor, application.NotifyFirmRequest{FirmSlug: firm.Slug, FirmEmail: "not-an-email"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid email, got %v", err)
	}
	for i := 0; i < 20; i++ {
		if err := f.service.NotifyFirm(ctx, actor, req); err != nil {
			t.Fatalf("notify %d: %v", i+1, err)
		}
	}
	if err := f.service.NotifyFirm(ctx, actor, req); !errors.Is(err, domain.ErrRateLimitExceeded) {
		t.Fatalf("expected daily limit, got %v", err)
	}
	if got := len(f.mailer.to(req.FirmEmail)); got != 20 {
		t.Fatalf("expected 20 emails, got %d", got)
	}
}

func TestDashboardListsOwnReviews(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	actor := f.addProfile(t, "manager@example.com", domain.RoleReviewer, true)
	firm := f.addFirm(t, "Granite Strategies")
	if _, err := f.service.SubmitReview(ctx, actor, validReviewInput(firm.ID), nil); err != nil {
		t.Fatalf("submit review: %v", err)
	}

	dash, err := f.service.GetDashboard(ctx, actor)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.Reviews) != 1 || dash.Reviews[0].FirmName != firm.Name {
		t.Fatalf("unexpected dashboard reviews %+v", dash.Reviews)
	}
	if _, err := f.service.GetDashboard(ctx, domain.Actor{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
