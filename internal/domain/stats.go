package domain

import (
	"math"
	"strconv"
	"strings"
)

type FirmStats struct {
	AvgRating        float64            `json:"avg_rating"`
	ReviewCount      int                `json:"review_count"`
	HireAgainPct     int                `json:"hire_again_pct"`
	CategoryAverages map[string]float64 `json:"category_averages,omitempty"`
}

// ComputeFirmStats aggregates the given reviews. Callers pass published reviews only.
func ComputeFirmStats(reviews []Review) FirmStats {
	stats := FirmStats{ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		return stats
	}

	var overall, hireAgain int
	sums := map[string]int{}
	counts := map[string]int{}
	for _, r := range reviews {
		overall += r.RatingOverall
		if r.WouldHireAgain {
			hireAgain++
		}
		for key, v := range subRatings(r) {
			if v == nil {
				continue
			}
			sums[key] += *v
			counts[key]++
		}
	}

	stats.AvgRating = round2(float64(overall) / float64(len(reviews)))
	stats.HireAgainPct = int(math.Round(float64(hireAgain) / float64(len(reviews)) * 100))
	if len(counts) > 0 {
		stats.CategoryAverages = make(map[string]float64, len(counts))
		for key, n := range counts {
			stats.CategoryAverages[key] = round2(float64(sums[key]) / float64(n))
		}
	}
	return stats
}

func subRatings(r Review) map[string]*int {
	return map[string]*int{
		"communication":          r.RatingCommunication,
		"budget_transparency":    r.RatingBudgetTransparency,
		"results_vs_projections": r.RatingResultsVsProjections,
		"responsiveness":         r.RatingResponsiveness,
		"strategic_quality":      r.RatingStrategicQuality,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ContextLine renders the public, anonymized context of a review.
// Minimal anonymization hides region and budget.
func ContextLine(r Review) string {
	parts := []string{RaceTypeLabel(r.RaceType)}
	if r.AnonymizationLevel != AnonymizationMinimal && r.Region != "" {
		parts = append(parts, RegionLabel(r.Region))
	}
	parts = append(parts, strconv.Itoa(r.CycleYear))
	if r.AnonymizationLevel != AnonymizationMinimal && r.BudgetTier != "" {
		parts = append(parts, BudgetTierLabel(r.BudgetTier))
	}
	return strings.Join(parts, " · ")
}
