package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
)

const (
	SortRating  = "rating"
	SortReviews = "reviews"
	SortName    = "name"

	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortHighest = "highest"
	SortLowest  = "lowest"

	maxFirmNotificationsPerDay = 20
)

func (s *Service) ListFirms(ctx context.Context, req ListFirmsRequest) ([]FirmView, error) {
	req.Query = strings.TrimSpace(req.Query)
	switch req.Sort {
	case SortRating, SortReviews, SortName:
	case "":
		req.Sort = SortRating
	default:
		return nil, fmt.Errorf("%w: sort must be rating, reviews or name", domain.ErrInvalidInput)
	}
	if req.MinRating < 0 || req.MinRating > 5 {
		return nil, fmt.Errorf("%w: min_rating must be between 0 and 5", domain.ErrInvalidInput)
	}

	cacheKey := directoryCachePrefix + "directory:" + hashRequest(req)
	var cached []FirmView
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	firms, err := s.firms.List(ctx, ports.FirmFilter{Query: req.Query, Service: req.Service})
	if err != nil {
		return nil, err
	}
	statsByFirm, err := s.statsForFirms(ctx, firms)
	if err != nil {
		return nil, err
	}
	priced, err := s.firmsWithPricing(ctx, firms)
	if err != nil {
		return nil, err
	}

	out := make([]FirmView, 0, len(firms))
	for _, f := range firms {
		stats := statsByFirm[f.ID]
		// Unreviewed firms have no rating to compare and stay listed.
		if req.MinRating > 0 && stats.ReviewCount > 0 && stats.AvgRating < req.MinRating {
			continue
		}
		if req.HasPricing && !priced[f.ID] {
			continue
		}
		view := toFirmView(f, &stats)
		view.HasPricing = priced[f.ID]
		out = append(out, view)
	}
	sortFirms(out, req.Sort)

	s.writeCache(ctx, cacheKey, out)
	return out, nil
}

func sortFirms(firms []FirmView, by string) {
	sort.SliceStable(firms, func(i, j int) bool {
		a, b := firms[i], firms[j]
		switch by {
		case SortReviews:
			if a.Stats.ReviewCount != b.Stats.ReviewCount {
				return a.Stats.ReviewCount > b.Stats.ReviewCount
			}
		case SortRating:
			if a.Stats.AvgRating != b.Stats.AvgRating {
				return a.Stats.AvgRating > b.Stats.AvgRating
			}
			if a.Stats.ReviewCount != b.Stats.ReviewCount {
				return a.Stats.ReviewCount > b.Stats.ReviewCount
			}
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

func (s *Service) statsForFirms(ctx context.Context, firms []domain.Firm) (map[uuid.UUID]domain.FirmStats, error) {
	ids := make([]uuid.UUID, 0, len(firms))
	for _, f := range firms {
		ids = append(ids, f.ID)
	}
	grouped := make(map[uuid.UUID][]domain.Review, len(firms))
	if len(ids) > 0 {
		reviews, err := s.reviews.ListPublishedByFirms(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, r := range reviews {
			grouped[r.FirmID] = append(grouped[r.FirmID], r)
		}
	}
	out := make(map[uuid.UUID]domain.FirmStats, len(firms))
	for _, f := range firms {
		out[f.ID] = domain.ComputeFirmStats(grouped[f.ID])
	}
	return out, nil
}

func (s *Service) firmsWithPricing(ctx context.Context, firms []domain.Firm) (map[uuid.UUID]bool, error) {
	if s.pricing == nil || len(firms) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	ids := make([]uuid.UUID, 0, len(firms))
	for _, f := range firms {
		ids = append(ids, f.ID)
	}
	return s.pricing.FirmsWithPricing(ctx, ids)
}

func (s *Service) GetFirmPage(ctx context.Context, slug, sortBy string) (FirmPageResponse, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	switch sortBy {
	case SortNewest, SortOldest, SortHighest, SortLowest:
	case "":
		sortBy = SortNewest
	default:
		return FirmPageResponse{}, fmt.Errorf("%w: sort must be newest, oldest, highest or lowest", domain.ErrInvalidInput)
	}

	cacheKey := directoryCachePrefix + "page:" + slug + ":" + sortBy
	var cached FirmPageResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	firm, err := s.firms.GetBySlug(ctx, slug)
	if err != nil {
		return FirmPageResponse{}, err
	}
	reviews, err := s.reviews.ListPublishedByFirms(ctx, []uuid.UUID{firm.ID})
	if err != nil {
		return FirmPageResponse{}, err
	}
	responsesByReview, err := s.publishedResponses(ctx, reviews)
	if err != nil {
		return FirmPageResponse{}, err
	}
	sortReviews(reviews, sortBy)
	pricing, err := s.listPricing(ctx, firm.ID)
	if err != nil {
		return FirmPageResponse{}, err
	}

	stats := domain.ComputeFirmStats(reviews)
	resp := FirmPageResponse{
		Firm:    toFirmView(firm, &stats),
		Pricing: toPricingViews(pricing),
		Reviews: make([]PublicReviewView, 0, len(reviews)),
	}
	resp.Firm.HasPricing = len(pricing) > 0
	for _, r := range reviews {
		var response *domain.FirmResponse
		if fr, ok := responsesByReview[r.ID]; ok {
			response = &fr
		}
		resp.Reviews = append(resp.Reviews, toPublicReviewView(r, response))
	}

	s.writeCache(ctx, cacheKey, resp)
	return resp, nil
}

func sortReviews(reviews []domain.Review, by string) {
	sort.SliceStable(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		switch by {
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortHighest:
			if a.RatingOverall != b.RatingOverall {
				return a.RatingOverall > b.RatingOverall
			}
		case SortLowest:
			if a.RatingOverall != b.RatingOverall {
				return a.RatingOverall < b.RatingOverall
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (s *Service) publishedResponses(ctx context.Context, reviews []domain.Review) (map[uuid.UUID]domain.FirmResponse, error) {
	out := map[uuid.UUID]domain.FirmResponse{}
	if len(reviews) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	responses, err := s.responses.ListPublishedByReviews(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, fr := range responses {
		out[fr.ReviewID] = fr
	}
	return out, nil
}

func (s *Service) SearchFirms(ctx context.Context, query string) ([]FirmView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []FirmView{}, nil
	}
	firms, err := s.firms.List(ctx, ports.FirmFilter{Query: query, Limit: 10})
	if err != nil {
		return nil, err
	}
	out := make([]FirmView, 0, len(firms))
	for _, f := range firms {
		out = append(out, toFirmView(f, nil))
	}
	return out, nil
}

func (s *Service) CreateFirm(ctx context.Context, actor domain.Actor, req CreateFirmRequest) (FirmView, error) {
	if err := requireAdmin(actor); err != nil {
		return FirmView{}, err
	}
	return s.createFirm(ctx, req, false)
}

// SuggestFirm lets a verified reviewer add a firm missing from the directory.
// The slug carries a timestamp suffix so suggestions never collide with curated firms.
func (s *Service) SuggestFirm(ctx context.Context, actor domain.Actor, req CreateFirmRequest) (FirmView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return FirmView{}, err
	}
	if !actor.IsVerified && !actor.IsPlatformAdmin() {
		return FirmView{}, domain.ErrNotVerified
	}
	return s.createFirm(ctx, CreateFirmRequest{Name: req.Name}, true)
}

func (s *Service) createFirm(ctx context.Context, req CreateFirmRequest, suffix bool) (FirmView, error) {
	name := strings.TrimSpace(req.Name)
	slug := domain.Slugify(name)
	if len(name) < 2 || slug == "" {
		return FirmView{}, fmt.Errorf("%w: firm name must contain at least 2 characters", domain.ErrInvalidInput)
	}
	if suffix {
		slug = fmt.Sprintf("%s-%d", slug, s.nowFn().UnixMilli())
	}
	if err := domain.ValidateFirmProfile(domain.Firm{Website: req.Website, Services: req.Services}); err != nil {
		return FirmView{}, err
	}
	firm, err := s.firms.Create(ctx, ports.CreateFirmParams{
		Name:      name,
		Slug:      slug,
		Website:   req.Website,
		Services:  req.Services,
		CreatedAt: s.nowFn(),
	})
	if err != nil {
		return FirmView{}, err
	}
	s.invalidateDirectory(ctx)
	return toFirmView(firm, nil), nil
}

func (s *Service) UpdateFirmProfile(ctx context.Context, actor domain.Actor, firmID uuid.UUID, req UpdateFirmRequest) (FirmView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return FirmView{}, err
	}
	firm, err := s.firms.GetByID(ctx, firmID)
	if err != nil {
		return FirmView{}, err
	}
	if err := canManageFirm(actor, firm); err != nil {
		return FirmView{}, err
	}

	merged := firm
	if req.Description != nil {
		merged.Description = strings.TrimSpace(*req.Description)
	}
	if req.Website != nil {
		merged.Website = strings.TrimSpace(*req.Website)
	}
	if req.ContactEmail != nil {
		merged.ContactEmail = domain.NormalizeEmail(*req.ContactEmail)
	}
	if req.Services != nil {
		merged.Services = req.Services
	}
	if req.PartyFocus != nil {
		merged.PartyFocus = *req.PartyFocus
	}
	if req.YearFounded != nil {
		merged.YearFounded = req.YearFounded
	}
	if req.HeadquartersState != nil {
		merged.HeadquartersState = strings.ToUpper(strings.TrimSpace(*req.HeadquartersState))
	}
	if err := domain.ValidateFirmProfile(merged); err != nil {
		return FirmView{}, err
	}

	updated, err := s.firms.Update(ctx, ports.UpdateFirmParams{
		FirmID:            firm.ID,
		Description:       &merged.Description,
		Website:           &merged.Website,
		LogoURL:           req.LogoURL,
		ContactEmail:      &merged.ContactEmail,
		Services:          req.Services,
		PartyFocus:        &merged.PartyFocus,
		YearFounded:       req.YearFounded,
		HeadquartersState: &merged.HeadquartersState,
		UpdatedAt:         s.nowFn(),
	})
	if err != nil {
		return FirmView{}, err
	}
	s.invalidateDirectory(ctx)
	return toFirmView(updated, nil), nil
}

func (s *Service) listPricing(ctx context.Context, firmID uuid.UUID) ([]domain.FirmPricing, error) {
	if s.pricing == nil {
		return nil, nil
	}
	return s.pricing.ListByFirm(ctx, firmID)
}

// SetFirmPricing replaces the price sheet shown on the firm page.
func (s *Service) SetFirmPricing(ctx context.Context, actor domain.Actor, firmID uuid.UUID, req SetFirmPricingRequest) ([]PricingView, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if s.pricing == nil {
		return nil, fmt.Errorf("%w: pricing store is not configured", domain.ErrDependencyUnavailable)
	}
	firm, err := s.firms.GetByID(ctx, firmID)
	if err != nil {
		return nil, err
	}
	if err := canManageFirm(actor, firm); err != nil {
		return nil, err
	}

	now := s.nowFn()
	entries := make([]domain.FirmPricing, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, domain.FirmPricing{
			ID:              uuid.New(),
			FirmID:          firm.ID,
			ServiceCategory: strings.TrimSpace(e.ServiceCategory),
			PricingModel:    strings.TrimSpace(e.PricingModel),
			PriceLow:        e.PriceLow,
			PriceHigh:       e.PriceHigh,
			Notes:           strings.TrimSpace(e.Notes),
			CreatedAt:       now,
		})
	}
	if err := domain.ValidateFirmPricing(entries); err != nil {
		return nil, err
	}

	saved, err := s.pricing.Replace(ctx, firm.ID, entries)
	if err != nil {
		return nil, err
	}
	s.invalidateDirectory(ctx)
	return toPricingViews(saved), nil
}

func canManageFirm(actor domain.Actor, firm domain.Firm) error {
	if actor.IsPlatformAdmin() {
		return nil
	}
	if actor.Role == domain.RoleFirmAdmin && firm.ClaimedBy != nil && *firm.ClaimedBy == actor.ProfileID {
		return nil
	}
	return fmt.Errorf("%w: only the firm's administrator may manage it", domain.ErrForbidden)
}

// NotifyFirm emails a firm contact that the firm has been reviewed.
func (s *Service) NotifyFirm(ctx context.Context, actor domain.Actor, req NotifyFirmRequest) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	email := domain.NormalizeEmail(req.FirmEmail)
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	firm, err := s.firms.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(req.FirmSlug)))
	if err != nil {
		return err
	}
	if s.cache != nil {
		count, err := s.cache.IncrWithTTL(ctx, "notify:"+actor.ProfileID.String(), 24*time.Hour)
		if err == nil && count > maxFirmNotificationsPerDay {
			return fmt.Errorf("%w: firm notification limit reached", domain.ErrRateLimitExceeded)
		}
	}
	s.notify(ctx, "notify_firm", "firm_reviewed", email,
		fmt.Sprintf("%s just received a review on CampaignGrade", firm.Name),
		emailData{FirmName: firm.Name, FirmSlug: firm.Slug})
	return nil
}

func (s *Service) readCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

func (s *Service) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cfg.DirectoryCacheTTL); err != nil {
		s.logFailure(ctx, "write_cache", "cache write failed", err, "key", key)
	}
}
