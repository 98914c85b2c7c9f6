package demand

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/boussole-dz/boussole/pkg/geo"
)

// Verdict levels.
const (
	VerdictHighlyFavorable = "Highly Favorable"
	VerdictFeasible        = "Feasible"
	VerdictRisky           = "Risky"
	VerdictNotRecommended  = "Not Recommended"
)

// Verdict derives the feasibility verdict from a demand score and an
// optional activity score. A strong demand score is only "Highly Favorable"
// when area activity is unknown or at least moderate.
func Verdict(demandScore int, activityScore *int) string {
	switch {
	case demandScore >= 75 && (activityScore == nil || *activityScore >= 40):
		return VerdictHighlyFavorable
	case demandScore >= 55:
		return VerdictFeasible
	case demandScore >= 35:
		return VerdictRisky
	default:
		return VerdictNotRecommended
	}
}

// FeasibilityReport combines the demand score with geo evidence (area
// activity, competitor count, average competitor rating) into a verdict
// and a narrative summary. Geo evidence is included only when the provider
// is available and the location resolves to coordinates.
func (s *Service) FeasibilityReport(ctx context.Context, sector SectorCode, wilayaCode string) (*FeasibilityReport, error) {
	demandScore, err := s.Score(ctx, sector, wilayaCode)
	if err != nil {
		return nil, err
	}

	var activityScore *int
	var competitionCount *int
	var avgRating *float64

	if s.geoAvailable() {
		if w, _ := s.resolveWilaya(ctx, wilayaCode); w != nil && w.HasCoordinates() {
			q := geo.Query{Lat: w.Latitude, Lon: w.Longitude, RadiusMeters: signalRadiusMeters}

			if activity, err := s.geo.ActivityFor(ctx, q); err == nil {
				score := activity.Score
				activityScore = &score
			} else {
				s.logger.Warn("feasibility activity error", "error", err)
			}

			if places, err := s.geo.NearbyPlaces(ctx, q); err == nil {
				count := len(places)
				competitionCount = &count

				var sum float64
				var rated int
				for _, p := range places {
					if p.Rating != nil && *p.Rating > 0 {
						sum += *p.Rating
						rated++
					}
				}
				if rated > 0 {
					avg := math.Round(sum/float64(rated)*10) / 10
					avgRating = &avg
				}
			} else {
				s.logger.Warn("feasibility competition error", "error", err)
			}
		}
	}

	verdict := Verdict(demandScore.Score, activityScore)

	location := demandScore.WilayaName
	if location == "" {
		location = "Algeria"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s in %s shows %s demand (score: %d/100). ",
		titleCase(string(sector)), location, strings.ToLower(demandScore.Label), demandScore.Score)
	if competitionCount != nil {
		fmt.Fprintf(&b, "%d competitors nearby. ", *competitionCount)
	}
	fmt.Fprintf(&b, "Verdict: %s.", verdict)

	return &FeasibilityReport{
		Sector:              sector,
		WilayaCode:          wilayaCode,
		WilayaName:          demandScore.WilayaName,
		DemandScore:         demandScore,
		ActivityScore:       activityScore,
		CompetitionCount:    competitionCount,
		AvgCompetitorRating: avgRating,
		Verdict:             verdict,
		Summary:             b.String(),
	}, nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
