package application_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
)

type fixture struct {
	service  *application.Service
	store    *memoryStore
	cache    *memoryCache
	evidence *memoryEvidence
	mailer   *recordingMailer
	outbox   *memoryOutbox
	idem     *memoryIdempotency
	now      time.Time
}

func newFixture(t *testing.T, mutate ...func(*application.Config)) *fixture {
	t.Helper()
	f := &fixture{
		store:    newMemoryStore(),
		cache:    newMemoryCache(),
		evidence: newMemoryEvidence(),
		mailer:   &recordingMailer{},
		outbox:   &memoryOutbox{},
		idem:     newMemoryIdempotency(),
		now:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	cfg := application.Config{
		AppURL:                "https://campaign-grade.test",
		AdminEmail:            "admin@campaign-grade.test",
		LoginFailureThreshold: 3,
		LoginLockoutWindow:    15 * time.Minute,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	f.service = application.NewService(application.Dependencies{
		Config:        cfg,
		Profiles:      profileRepo{f.store},
		Firms:         firmRepo{f.store},
		Pricing:       pricingRepo{f.store},
		Committees:    committeeRepo{f.store},
		Reviews:       reviewRepo{f.store},
		Responses:     responseRepo{f.store},
		Flags:         flagRepo{f.store},
		Claims:        claimRepo{f.store},
		Verifications: verificationRepo{f.store},
		Outbox:        f.outbox,
		Idempotency:   f.idem,
		Cache:         f.cache,
		Lockouts:      newMemoryLockouts(),
		Evidence:      f.evidence,
		Mailer:        f.mailer,
		Tokens:        fakeTokens{},
		Hasher:        fakeHasher{},
		Clock:         func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) addProfile(t *testing.T, email string, role domain.UserRole, verified bool) domain.Actor {
	t.Helper()
	p, err := profileRepo{f.store}.Create(context.Background(), ports.CreateProfileParams{
		Email:        email,
		FullName:     strings.Split(email, "@")[0],
		PasswordHash: "hash:Password123",
		Role:         role,
		CreatedAt:    f.now,
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if verified {
		f.store.mu.Lock()
		rec := f.store.profiles[p.ID]
		rec.IsVerified = true
		rec.VerificationStatus = domain.VerificationApproved
		f.store.profiles[p.ID] = rec
		f.store.mu.Unlock()
	}
	return domain.Actor{ProfileID: p.ID, Email: p.Email, Role: role, IsVerified: verified}
}

func (f *fixture) addFirm(t *testing.T, name string) domain.Firm {
	t.Helper()
	firm, err := firmRepo{f.store}.Create(context.Background(), ports.CreateFirmParams{
		Name:      name,
		Slug:      domain.Slugify(name),
		CreatedAt: f.now,
	})
	if err != nil {
		t.Fatalf("create firm: %v", err)
	}
	return firm
}

func (f *fixture) addCommitteeMember(actor domain.Actor, committeeID uuid.UUID, verified bool) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.members = append(f.store.members, domain.CommitteeMember{
		ID:          uuid.New(),
		ProfileID:   actor.ProfileID,
		CommitteeID: committeeID,
		Verified:    verified,
	})
}

// seedReview stores a review directly, bypassing submission guards.
func (f *fixture) seedReview(firmID uuid.UUID, reviewer *uuid.UUID, rating int, status domain.ReviewStatus, createdAt time.Time) domain.Review {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	r := domain.Review{
		ID:                 uuid.New(),
		ReviewerID:         reviewer,
		FirmID:             firmID,
		RatingOverall:      rating,
		ReviewText:         strings.Repeat("solid work on field and data. ", 3),
		CycleYear:          2024,
		RaceType:           "governor",
		WouldHireAgain:     rating >= 4,
		AnonymizationLevel: domain.AnonymizationStandard,
		Status:             status,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
	f.store.reviews[r.ID] = r
	return r
}

func (f *fixture) review(t *testing.T, id uuid.UUID) domain.Review {
	t.Helper()
	r, err := reviewRepo{f.store}.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load review: %v", err)
	}
	return r
}

func (f *fixture) profile(t *testing.T, id uuid.UUID) domain.Profile {
	t.Helper()
	p, err := profileRepo{f.store}.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	return p
}

func validReviewInput(firmID uuid.UUID) application.ReviewInput {
	return application.ReviewInput{
		FirmID:         firmID,
		RatingOverall:  4,
		ReviewText:     "The team delivered our digital program on time and kept the budget transparent throughout.",
		CycleYear:      2024,
		RaceType:       "state_leg",
		WouldHireAgain: true,
	}
}

func pdfUpload(name string) *application.Upload {
	body := "%PDF-1.4 invoice"
	return &application.Upload{
		Filename:    name,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

type memoryStore struct {
	mu            sync.Mutex
	profiles      map[uuid.UUID]domain.Profile
	firms         map[uuid.UUID]domain.Firm
	pricing       map[uuid.UUID][]domain.FirmPricing
	committees    map[uuid.UUID]domain.Committee
	members       []domain.CommitteeMember
	reviews       map[uuid.UUID]domain.Review
	responses     map[uuid.UUID]domain.FirmResponse
	flags         map[uuid.UUID]domain.ReviewFlag
	claims        map[uuid.UUID]domain.FirmClaimRequest
	verifications map[uuid.UUID]domain.VerificationSubmission
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		profiles:      map[uuid.UUID]domain.Profile{},
		firms:         map[uuid.UUID]domain.Firm{},
		pricing:       map[uuid.UUID][]domain.FirmPricing{},
		committees:    map[uuid.UUID]domain.Committee{},
		reviews:       map[uuid.UUID]domain.Review{},
		responses:     map[uuid.UUID]domain.FirmResponse{},
		flags:         map[uuid.UUID]domain.ReviewFlag{},
		claims:        map[uuid.UUID]domain.FirmClaimRequest{},
		verifications: map[uuid.UUID]domain.VerificationSubmission{},
	}
}

type profileRepo struct{ s *memoryStore }

func (r profileRepo) Create(_ context.Context, params ports.CreateProfileParams) (domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.Email == params.Email {
			return domain.Profile{}, domain.ErrConflict
		}
	}
	p := domain.Profile{
		ID:                 uuid.New(),
		Email:              params.Email,
		FullName:           params.FullName,
		PasswordHash:       params.PasswordHash,
		Role:               params.Role,
		VerificationStatus: domain.VerificationPending,
		CreatedAt:          params.CreatedAt,
		UpdatedAt:          params.CreatedAt,
	}
	r.s.profiles[p.ID] = p
	return p, nil
}

func (r profileRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (r profileRepo) GetByEmail(_ context.Context, email string) (domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return domain.Profile{}, domain.ErrNotFound
}

func (r profileRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PasswordHash = hash
	p.UpdatedAt = at
	r.s.profiles[id] = p
	return nil
}

func (r profileRepo) SetRole(_ context.Context, id uuid.UUID, role domain.UserRole, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = at
	r.s.profiles[id] = p
	return nil
}

func (r profileRepo) List(_ context.Context, limit, offset int) ([]domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

func (r profileRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.profiles)), nil
}

type pricingRepo struct{ s *memoryStore }

func (r pricingRepo) Replace(_ context.Context, firmID uuid.UUID, entries []domain.FirmPricing) ([]domain.FirmPricing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(entries) == 0 {
		delete(r.s.pricing, firmID)
		return []domain.FirmPricing{}, nil
	}
	r.s.pricing[firmID] = append([]domain.FirmPricing(nil), entries...)
	return entries, nil
}

func (r pricingRepo) ListByFirm(_ context.Context, firmID uuid.UUID) ([]domain.FirmPricing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.FirmPricing(nil), r.s.pricing[firmID]...), nil
}

func (r pricingRepo) FirmsWithPricing(_ context.Context, firmIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uuid.UUID]bool, len(firmIDs))
	for _, id := range firmIDs {
		if len(r.s.pricing[id]) > 0 {
			out[id] = true
		}
	}
	return out, nil
}

type firmRepo struct{ s *memoryStore }

func (r firmRepo) Create(_ context.Context, params ports.CreateFirmParams) (domain.Firm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.firms {
		if f.Slug == params.Slug {
			return domain.Firm{}, domain.ErrConflict
		}
	}
	f := domain.Firm{
		ID:        uuid.New(),
		Name:      params.Name,
		Slug:      params.Slug,
		Website:   params.Website,
		Services:  params.Services,
		CreatedAt: params.CreatedAt,
		UpdatedAt: params.CreatedAt,
	}
	r.s.firms[f.ID] = f
	return f, nil
}

func (r firmRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Firm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.firms[id]
	if !ok {
		return domain.Firm{}, domain.ErrNotFound
	}
	return f, nil
}

func (r firmRepo) GetBySlug(_ context.Context, slug string) (domain.Firm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.firms {
		if f.Slug == slug {
			return f, nil
		}
	}
	return domain.Firm{}, domain.ErrNotFound
}

func (r firmRepo) List(_ context.Context, filter ports.FirmFilter) ([]domain.Firm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Firm{}
	for _, f := range r.s.firms {
		if filter.Query != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.Service != "" && !contains(f.Services, filter.Service) {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r firmRepo) ListClaimedBy(_ context.Context, profileID uuid.UUID) ([]domain.Firm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Firm{}
	for _, f := range r.s.firms {
		if f.ClaimedBy != nil && *f.ClaimedBy == profileID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r firmRepo) Update(_ context.Context, params ports.UpdateFirmParams) (domain.Firm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.firms[params.FirmID]
	if !ok {
		return domain.Firm{}, domain.ErrNotFound
	}
	if params.Description != nil {
		f.Description = *params.Description
	}
	if params.Website != nil {
		f.Website = *params.Website
	}
	if params.LogoURL != nil {
		f.LogoURL = *params.LogoURL
	}
	if params.ContactEmail != nil {
		f.ContactEmail = *params.ContactEmail
	}
	if params.Services != nil {
		f.Services = params.Services
	}
	if params.PartyFocus != nil {
		f.PartyFocus = *params.PartyFocus
	}
	if params.YearFounded != nil {
		f.YearFounded = params.YearFounded
	}
	if params.HeadquartersState != nil {
		f.HeadquartersState = *params.HeadquartersState
	}
	f.UpdatedAt = params.UpdatedAt
	r.s.firms[f.ID] = f
	return f, nil
}

func (r firmRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.firms)), nil
}

type committeeRepo struct{ s *memoryStore }

func (r committeeRepo) ListMemberships(_ context.Context, profileID uuid.UUID) ([]domain.CommitteeMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.CommitteeMember{}
	for _, m := range r.s.members {
		if m.ProfileID == profileID {
			if c, ok := r.s.committees[m.CommitteeID]; ok {
				c := c
				m.Committee = &c
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func (r committeeRepo) IsMember(_ context.Context, profileID, committeeID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if m.ProfileID == profileID && m.CommitteeID == committeeID && m.Verified {
			return true, nil
		}
	}
	return false, nil
}

type reviewRepo struct{ s *memoryStore }

func (r reviewRepo) CreateGuarded(_ context.Context, review domain.Review, q ports.ReviewGuardQuery, check func(domain.ReviewGuardCounts) error) (domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var counts domain.ReviewGuardCounts
	for _, existing := range r.s.reviews {
		mine := existing.ReviewerID != nil && *existing.ReviewerID == q.ReviewerID
		if mine && existing.FirmID == q.FirmID && existing.CycleYear == q.CycleYear {
			counts.SameFirmCycle++
		}
		if q.CommitteeID != nil && existing.CommitteeID != nil && *existing.CommitteeID == *q.CommitteeID &&
			existing.FirmID == q.FirmID && existing.CycleYear == q.CycleYear {
			counts.CommitteeFirmCycle++
		}
		if mine && !existing.CreatedAt.Before(q.Since) {
			counts.ReviewerRecent++
		}
	}
	if err := check(counts); err != nil {
		return domain.Review{}, err
	}
	r.s.reviews[review.ID] = review
	return review, nil
}

func (r reviewRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

func (r reviewRepo) UpdateContent(_ context.Context, review domain.Review, editable []domain.ReviewStatus) (domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.reviews[review.ID]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	if !containsStatus(editable, current.Status) {
		return domain.Review{}, fmt.Errorf("%w: review is %s", domain.ErrInvalidStateTransition, current.Status)
	}
	r.s.reviews[review.ID] = review
	return review, nil
}

func (r reviewRepo) Transition(_ context.Context, t ports.ReviewTransition) (domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.reviews[t.ReviewID]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	if !containsStatus(t.From, current.Status) {
		return domain.Review{}, fmt.Errorf("%w: review is %s", domain.ErrInvalidStateTransition, current.Status)
	}
	current.Status = t.To
	if t.AdminNotes != nil {
		current.AdminNotes = *t.AdminNotes
	}
	current.UpdatedAt = t.At
	r.s.reviews[t.ReviewID] = current
	return current, nil
}

func (r reviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.reviews, id)
	for fid, fl := range r.s.flags {
		if fl.ReviewID == id {
			delete(r.s.flags, fid)
		}
	}
	for rid, resp := range r.s.responses {
		if resp.ReviewID == id {
			delete(r.s.responses, rid)
		}
	}
	return nil
}

func (r reviewRepo) ListPublishedByFirms(_ context.Context, firmIDs []uuid.UUID) ([]domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Review{}
	for _, rv := range r.s.reviews {
		if rv.Status == domain.ReviewPublished && containsID(firmIDs, rv.FirmID) {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r reviewRepo) ListByReviewer(_ context.Context, reviewerID uuid.UUID) ([]domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Review{}
	for _, rv := range r.s.reviews {
		if rv.ReviewerID != nil && *rv.ReviewerID == reviewerID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r reviewRepo) ListByStatus(_ context.Context, status domain.ReviewStatus, limit, offset int) ([]domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Review{}
	for _, rv := range r.s.reviews {
		if status == "" || rv.Status == status {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r reviewRepo) CountByStatus(_ context.Context, status domain.ReviewStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, rv := range r.s.reviews {
		if status == "" || rv.Status == status {
			n++
		}
	}
	return n, nil
}

type responseRepo struct{ s *memoryStore }

func (r responseRepo) Create(_ context.Context, resp domain.FirmResponse) (domain.FirmResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.responses {
		if existing.ReviewID == resp.ReviewID && existing.Status == domain.ResponsePublished {
			return domain.FirmResponse{}, domain.ErrConflict
		}
	}
	r.s.responses[resp.ID] = resp
	return resp, nil
}

func (r responseRepo) GetByID(_ context.Context, id uuid.UUID) (domain.FirmResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	resp, ok := r.s.responses[id]
	if !ok {
		return domain.FirmResponse{}, domain.ErrNotFound
	}
	return resp, nil
}

func (r responseRepo) ListPublishedByReviews(_ context.Context, reviewIDs []uuid.UUID) ([]domain.FirmResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.FirmResponse{}
	for _, resp := range r.s.responses {
		if resp.Status == domain.ResponsePublished && containsID(reviewIDs, resp.ReviewID) {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r responseRepo) Remove(_ context.Context, id uuid.UUID, _ time.Time) (domain.FirmResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	resp, ok := r.s.responses[id]
	if !ok {
		return domain.FirmResponse{}, domain.ErrNotFound
	}
	resp.Status = domain.ResponseRemoved
	r.s.responses[id] = resp
	return resp, nil
}

type flagRepo struct{ s *memoryStore }

func (r flagRepo) Create(_ context.Context, flag domain.ReviewFlag) (domain.ReviewFlag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.flags {
		if existing.ReviewID == flag.ReviewID && existing.FlaggedBy == flag.FlaggedBy {
			return domain.ReviewFlag{}, domain.ErrConflict
		}
	}
	r.s.flags[flag.ID] = flag
	return flag, nil
}

func (r flagRepo) GetByID(_ context.Context, id uuid.UUID) (domain.ReviewFlag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	fl, ok := r.s.flags[id]
	if !ok {
		return domain.ReviewFlag{}, domain.ErrNotFound
	}
	return fl, nil
}

func (r flagRepo) ListByStatus(_ context.Context, status domain.FlagStatus, limit, offset int) ([]domain.ReviewFlag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.ReviewFlag{}
	for _, fl := range r.s.flags {
		if fl.Status == status {
			out = append(out, fl)
		}
	}
	return page(out, limit, offset), nil
}

func (r flagRepo) Resolve(_ context.Context, id uuid.UUID, to domain.FlagStatus, resolvedBy uuid.UUID, at time.Time) (ports.FlagResolution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	fl, ok := r.s.flags[id]
	if !ok {
		return ports.FlagResolution{}, domain.ErrNotFound
	}
	if fl.Status != domain.FlagPending {
		return ports.FlagResolution{}, fmt.Errorf("%w: flag is %s", domain.ErrInvalidStateTransition, fl.Status)
	}
	fl.Status = to
	fl.ResolvedBy = &resolvedBy
	fl.ResolvedAt = &at
	r.s.flags[id] = fl

	out := ports.FlagResolution{Flag: fl}
	if to == domain.FlagUpheld {
		rv, ok := r.s.reviews[fl.ReviewID]
		if ok && containsStatus(domain.ReviewSourcesFor(domain.ReviewRemoved), rv.Status) {
			rv.Status = domain.ReviewRemoved
			rv.FlaggedReason = fl.Reason
			r.s.reviews[rv.ID] = rv
			out.ReviewRemoved = true
		}
	}
	return out, nil
}

func (r flagRepo) CountByStatus(_ context.Context, status domain.FlagStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, fl := range r.s.flags {
		if fl.Status == status {
			n++
		}
	}
	return n, nil
}

type claimRepo struct{ s *memoryStore }

func (r claimRepo) Create(_ context.Context, claim domain.FirmClaimRequest) (domain.FirmClaimRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.claims {
		if existing.FirmID == claim.FirmID && existing.ProfileID == claim.ProfileID && existing.Status == domain.ClaimPending {
			return domain.FirmClaimRequest{}, domain.ErrConflict
		}
	}
	r.s.claims[claim.ID] = claim
	return claim, nil
}

func (r claimRepo) GetByID(_ context.Context, id uuid.UUID) (domain.FirmClaimRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.claims[id]
	if !ok {
		return domain.FirmClaimRequest{}, domain.ErrNotFound
	}
	return c, nil
}

func (r claimRepo) ListByStatus(_ context.Context, status domain.ClaimStatus, limit, offset int) ([]domain.FirmClaimRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.FirmClaimRequest{}
	for _, c := range r.s.claims {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return page(out, limit, offset), nil
}

func (r claimRepo) Decide(_ context.Context, to domain.ClaimStatus, params ports.DecisionParams) (domain.FirmClaimRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.claims[params.ID]
	if !ok {
		return domain.FirmClaimRequest{}, domain.ErrNotFound
	}
	if c.Status != domain.ClaimPending {
		return domain.FirmClaimRequest{}, fmt.Errorf("%w: claim is %s", domain.ErrInvalidStateTransition, c.Status)
	}
	if to == domain.ClaimApproved {
		firm := r.s.firms[c.FirmID]
		if firm.IsClaimed {
			return domain.FirmClaimRequest{}, domain.ErrConflict
		}
		claimant := c.ProfileID
		firm.IsClaimed = true
		firm.ClaimedBy = &claimant
		r.s.firms[firm.ID] = firm
		if p, ok := r.s.profiles[claimant]; ok && p.Role != domain.RolePlatformAdmin {
			p.Role = domain.RoleFirmAdmin
			r.s.profiles[claimant] = p
		}
	}
	c.Status = to
	c.ReviewedBy = &params.ReviewedBy
	c.ReviewedAt = &params.At
	c.AdminNotes = params.AdminNotes
	r.s.claims[c.ID] = c
	return c, nil
}

type verificationRepo struct{ s *memoryStore }

func (r verificationRepo) Submit(_ context.Context, params ports.SubmitVerificationParams) (domain.VerificationSubmission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub := params.Submission
	for _, existing := range r.s.verifications {
		if existing.ProfileID == sub.ProfileID && existing.Status == domain.VerificationPending {
			return domain.VerificationSubmission{}, domain.ErrConflict
		}
	}
	r.s.committees[params.Committee.ID] = params.Committee
	r.s.members = append(r.s.members, domain.CommitteeMember{
		ID:              uuid.New(),
		ProfileID:       sub.ProfileID,
		CommitteeID:     params.Committee.ID,
		RoleOnCommittee: params.RoleOnCommittee,
	})
	r.s.verifications[sub.ID] = sub
	p := r.s.profiles[sub.ProfileID]
	p.VerificationStatus = domain.VerificationPending
	r.s.profiles[p.ID] = p
	return sub, nil
}

func (r verificationRepo) GetByID(_ context.Context, id uuid.UUID) (domain.VerificationSubmission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.verifications[id]
	if !ok {
		return domain.VerificationSubmission{}, domain.ErrNotFound
	}
	return v, nil
}

func (r verificationRepo) HasPending(_ context.Context, profileID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.verifications {
		if v.ProfileID == profileID && v.Status == domain.VerificationPending {
			return true, nil
		}
	}
	return false, nil
}

func (r verificationRepo) ListByStatus(_ context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.VerificationSubmission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.VerificationSubmission{}
	for _, v := range r.s.verifications {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return page(out, limit, offset), nil
}

func (r verificationRepo) Decide(_ context.Context, to domain.VerificationStatus, params ports.DecisionParams) (domain.VerificationSubmission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.verifications[params.ID]
	if !ok {
		return domain.VerificationSubmission{}, domain.ErrNotFound
	}
	if v.Status != domain.VerificationPending {
		return domain.VerificationSubmission{}, fmt.Errorf("%w: submission is %s", domain.ErrInvalidStateTransition, v.Status)
	}
	v.Status = to
	v.ReviewedBy = &params.ReviewedBy
	v.ReviewedAt = &params.At
	v.AdminNotes = params.AdminNotes
	r.s.verifications[v.ID] = v

	p := r.s.profiles[v.ProfileID]
	p.VerificationStatus = to
	p.IsVerified = to == domain.VerificationApproved
	p.VerificationNotes = params.AdminNotes
	r.s.profiles[p.ID] = p
	if to == domain.VerificationApproved && v.CommitteeID != nil {
		for i, m := range r.s.members {
			if m.ProfileID == v.ProfileID && m.CommitteeID == *v.CommitteeID {
				r.s.members[i].Verified = true
			}
		}
	}
	return v, nil
}

func (r verificationRepo) CountByStatus(_ context.Context, status domain.VerificationStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, v := range r.s.verifications {
		if v.Status == status {
			n++
		}
	}
	return n, nil
}

type memoryOutbox struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (o *memoryOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return nil
}

func (o *memoryOutbox) FetchUnpublished(context.Context, int, int) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (o *memoryOutbox) MarkPublished(context.Context, uuid.UUID, time.Time) error { return nil }

func (o *memoryOutbox) MarkFailed(context.Context, uuid.UUID, string, time.Time) error { return nil }

func (o *memoryOutbox) types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.EventType)
	}
	return out
}

type memoryIdempotency struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{records: map[string]ports.IdempotencyRecord{}}
}

func (m *memoryIdempotency) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memoryIdempotency) Reserve(_ context.Context, key, requestHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[key]; ok {
		return fmt.Errorf("%w: idempotency key already used", domain.ErrIdempotencyConflict)
	}
	m.records[key] = ports.IdempotencyRecord{Key: key, RequestHash: requestHash, Status: ports.IdempotencyReserved, ExpiresAt: expiresAt}
	return nil
}

func (m *memoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[key]; ok && rec.Status == ports.IdempotencyReserved {
		delete(m.records, key)
	}
	return nil
}

func (m *memoryIdempotency) Complete(_ context.Context, key string, code int, body []byte, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[key]
	rec.Status = ports.IdempotencyCompleted
	rec.ResponseCode = code
	rec.ResponseBody = body
	m.records[key] = rec
	return nil
}

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			delete(c.values, k)
		}
	}
	return nil
}

func (c *memoryCache) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *memoryCache) countPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

type memoryLockouts struct {
	mu     sync.Mutex
	states map[string]ports.LockoutState
}

func newMemoryLockouts() *memoryLockouts {
	return &memoryLockouts{states: map[string]ports.LockoutState{}}
}

func (l *memoryLockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[key], nil
}

func (l *memoryLockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, window time.Duration) (ports.LockoutState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.states[key]
	st.FailedCount++
	if st.FailedCount >= threshold {
		until := now.Add(window)
		st.LockedUntil = &until
	}
	l.states[key] = st
	return st, nil
}

func (l *memoryLockouts) Clear(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.states, key)
	return nil
}

type memoryEvidence struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	delErr  error
}

func newMemoryEvidence() *memoryEvidence {
	return &memoryEvidence{objects: map[string][]byte{}}
}

func (e *memoryEvidence) Put(_ context.Context, obj ports.EvidenceObject) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.putErr != nil {
		return e.putErr
	}
	raw, err := io.ReadAll(obj.Body)
	if err != nil {
		return err
	}
	e.objects[obj.Key] = raw
	return nil
}

func (e *memoryEvidence) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int(ttl.Seconds())), nil
}

func (e *memoryEvidence) Delete(_ context.Context, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.delErr != nil {
		return e.delErr
	}
	delete(e.objects, key)
	return nil
}

func (e *memoryEvidence) keys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.objects))
	for k := range e.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.Email
}

func (m *recordingMailer) Send(_ context.Context, email ports.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) to(addr string) []ports.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []ports.Email{}
	for _, e := range m.sent {
		if e.To == addr {
			out = append(out, e)
		}
	}
	return out
}

type fakeTokens struct{}

func (fakeTokens) Sign(claims ports.AuthClaims) (string, error) {
	return "tok:" + claims.ProfileID.String(), nil
}

func (fakeTokens) ParseAndValidate(raw string) (ports.AuthClaims, error) {
	id, err := uuid.Parse(strings.TrimPrefix(raw, "tok:"))
	if err != nil || !strings.HasPrefix(raw, "tok:") {
		return ports.AuthClaims{}, errors.New("invalid token")
	}
	return ports.AuthClaims{ProfileID: id}, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func containsStatus(statuses []domain.ReviewStatus, s domain.ReviewStatus) bool {
	for _, x := range statuses {
		if x == s {
			return true
		}
	}
	return false
}
