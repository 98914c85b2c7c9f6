package demand

import (
	"context"
	"fmt"
	"math"
)

// DemandLabel returns the band name for a composite demand score.
func DemandLabel(score int) string {
	switch {
	case score >= 80:
		return "Very High"
	case score >= 60:
		return "High"
	case score >= 40:
		return "Moderate"
	default:
		return "Low"
	}
}

func recommendation(score int, sector SectorCode) string {
	switch {
	case score >= 80:
		return fmt.Sprintf("Strong demand for %s — excellent opportunity", sector)
	case score >= 60:
		return fmt.Sprintf("Good demand for %s — favorable conditions", sector)
	case score >= 40:
		return fmt.Sprintf("Average demand for %s — viable with differentiation", sector)
	default:
		return fmt.Sprintf("Weak demand for %s — consider alternatives", sector)
	}
}

// Score computes the composite 0-100 demand score for a sector at an
// optional wilaya. The only error is an unknown sector code; every
// environmental failure degrades a single signal instead.
func (s *Service) Score(ctx context.Context, sector SectorCode, wilayaCode string) (DemandScore, error) {
	profile, ok := ProfileFor(sector)
	if !ok {
		return DemandScore{}, fmt.Errorf("unknown sector %q", sector)
	}

	w, displayName := s.resolveWilaya(ctx, wilayaCode)
	signals := s.gatherSignals(ctx, sector, profile, w)

	var total float64
	for _, sig := range signals {
		total += sig.WeightedScore
	}
	score := int(math.Min(100, math.Max(0, math.Round(total))))

	return DemandScore{
		Sector:         sector,
		WilayaCode:     wilayaCode,
		WilayaName:     displayName,
		Score:          score,
		Label:          DemandLabel(score),
		Recommendation: recommendation(score, sector),
		Signals:        signals,
	}, nil
}
