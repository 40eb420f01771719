package postgres

import "github.com/campaigngrade-hub/campaigngrade1/internal/domain"

func toDomainProfile(m profileModel) domain.Profile {
	p := domain.Profile{
		ID: m.ID, Email: m.Email, FullName: m.FullName, PasswordHash: m.PasswordHash,
		Role: domain.UserRole(m.Role), IsVerified: m.IsVerified,
		VerificationStatus: domain.VerificationStatus(m.VerificationStatus),
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
	if m.VerificationNotes != nil {
		p.VerificationNotes = *m.VerificationNotes
	}
	return p
}

func toDomainCommittee(m committeeModel) domain.Committee {
	return domain.Committee{
		ID: m.ID, Name: m.Name, State: m.State, RaceType: m.RaceType,
		CycleYear: m.CycleYear, CreatedAt: m.CreatedAt,
	}
}

func toDomainFirm(m firmModel) domain.Firm {
	return domain.Firm{
		ID: m.ID, Name: m.Name, Slug: m.Slug, Description: m.Description, Website: m.Website,
		LogoURL: m.LogoURL, ContactEmail: m.ContactEmail, Services: []string(m.Services),
		IsClaimed: m.IsClaimed, ClaimedBy: m.ClaimedBy, PartyFocus: m.PartyFocus,
		YearFounded: m.YearFounded, HeadquartersState: m.HeadquartersState,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainFirmPricing(m firmPricingModel) domain.FirmPricing {
	return domain.FirmPricing{
		ID: m.ID, FirmID: m.FirmID, ServiceCategory: m.ServiceCategory, PricingModel: m.PricingModel,
		PriceLow: m.PriceLow, PriceHigh: m.PriceHigh, Notes: m.Notes, CreatedAt: m.CreatedAt,
	}
}

func toDomainReview(m reviewModel) domain.Review {
	return domain.Review{
		ID: m.ID, ReviewerID: m.ReviewerID, FirmID: m.FirmID, CommitteeID: m.CommitteeID,
		RatingOverall:              m.RatingOverall,
		RatingCommunication:        m.RatingCommunication,
		RatingBudgetTransparency:   m.RatingBudgetTransparency,
		RatingResultsVsProjections: m.RatingResultsVsProjections,
		RatingResponsiveness:       m.RatingResponsiveness,
		RatingStrategicQuality:     m.RatingStrategicQuality,
		ReviewText:                 m.ReviewText, Pros: m.Pros, Cons: m.Cons,
		CycleYear: m.CycleYear, RaceType: m.RaceType, Region: m.Region, BudgetTier: m.BudgetTier,
		ServiceUsed: m.ServiceUsed, WouldHireAgain: m.WouldHireAgain, RaceOutcome: m.RaceOutcome,
		AnonymizationLevel: domain.AnonymizationLevel(m.AnonymizationLevel),
		HasInvoiceEvidence: m.HasInvoiceEvidence, EvidencePath: m.EvidencePath,
		Status: domain.ReviewStatus(m.Status), FlaggedReason: m.FlaggedReason, AdminNotes: m.AdminNotes,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toReviewModel(r domain.Review) reviewModel {
	return reviewModel{
		ID: r.ID, ReviewerID: r.ReviewerID, FirmID: r.FirmID, CommitteeID: r.CommitteeID,
		RatingOverall:              r.RatingOverall,
		RatingCommunication:        r.RatingCommunication,
		RatingBudgetTransparency:   r.RatingBudgetTransparency,
		RatingResultsVsProjections: r.RatingResultsVsProjections,
		RatingResponsiveness:       r.RatingResponsiveness,
		RatingStrategicQuality:     r.RatingStrategicQuality,
		ReviewText:                 r.ReviewText, Pros: r.Pros, Cons: r.Cons,
		CycleYear: r.CycleYear, RaceType: r.RaceType, Region: r.Region, BudgetTier: r.BudgetTier,
		ServiceUsed: r.ServiceUsed, WouldHireAgain: r.WouldHireAgain, RaceOutcome: r.RaceOutcome,
		AnonymizationLevel: string(r.AnonymizationLevel),
		HasInvoiceEvidence: r.HasInvoiceEvidence, EvidencePath: r.EvidencePath,
		Status: string(r.Status), FlaggedReason: r.FlaggedReason, AdminNotes: r.AdminNotes,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toDomainFirmResponse(m firmResponseModel) domain.FirmResponse {
	return domain.FirmResponse{
		ID: m.ID, ReviewID: m.ReviewID, FirmID: m.FirmID, ResponderID: m.ResponderID,
		ResponseText: m.ResponseText, Status: domain.ResponseStatus(m.Status), CreatedAt: m.CreatedAt,
	}
}

func toDomainFlag(m reviewFlagModel) domain.ReviewFlag {
	return domain.ReviewFlag{
		ID: m.ID, ReviewID: m.ReviewID, FlaggedBy: m.FlaggedBy, Reason: m.Reason, Details: m.Details,
		Status: domain.FlagStatus(m.Status), ResolvedBy: m.ResolvedBy, ResolvedAt: m.ResolvedAt,
		CreatedAt: m.CreatedAt,
	}
}

func toDomainVerification(m verificationSubmissionModel) domain.VerificationSubmission {
	return domain.VerificationSubmission{
		ID: m.ID, ProfileID: m.ProfileID, CommitteeID: m.CommitteeID, EvidenceType: m.EvidenceType,
		FilePath: m.FilePath, Notes: m.Notes, Status: domain.VerificationStatus(m.Status),
		ReviewedBy: m.ReviewedBy, ReviewedAt: m.ReviewedAt, AdminNotes: m.AdminNotes, CreatedAt: m.CreatedAt,
	}
}

func toDomainClaim(m firmClaimRequestModel) domain.FirmClaimRequest {
	return domain.FirmClaimRequest{
		ID: m.ID, FirmID: m.FirmID, ProfileID: m.ProfileID, TitleAtFirm: m.TitleAtFirm, Notes: m.Notes,
		DocumentPath: m.DocumentPath, Status: domain.ClaimStatus(m.Status), ReviewedBy: m.ReviewedBy,
		ReviewedAt: m.ReviewedAt, AdminNotes: m.AdminNotes, CreatedAt: m.CreatedAt,
	}
}
