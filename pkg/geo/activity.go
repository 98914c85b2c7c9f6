package geo

import (
	"context"
	"fmt"
	"math"
)

// Composite weighting for the activity score. Terms sum to 100; each term
// is clamped to its cap before summing. These constants are a tuned
// contract, not suggestions.
const (
	densityCap   = 30 // saturates at 20 places
	ratingCap    = 20 // 5.0 average rating scores full marks
	reviewCap    = 20 // log-scaled, saturates at 1000 total reviews
	diversityCap = 15 // saturates at 15 distinct categories
	trafficCap   = 15 // congestion level 10 scores full marks

	densitySaturationPlaces = 20
	reviewSaturationLog10   = 3 // log10(1000)
	defaultCongestionLevel  = 3
)

// ActivityLabel returns the band name for a 0-100 activity score.
func ActivityLabel(score int) string {
	switch {
	case score >= 80:
		return "Very High"
	case score >= 55:
		return "High"
	case score >= 30:
		return "Moderate"
	default:
		return "Low"
	}
}

// ComputeActivity derives the composite activity score from a snapshot of
// place and traffic data. Pure function; recomputed on every cache miss.
func ComputeActivity(places []Place, traffic *Traffic) ActivityScore {
	placeCount := len(places)

	var ratingSum float64
	var ratedCount int
	totalReviews := 0
	typeSet := make(map[string]struct{})
	for _, p := range places {
		if p.Rating != nil {
			ratingSum += *p.Rating
			ratedCount++
		}
		if p.UserRatingsTotal != nil {
			totalReviews += *p.UserRatingsTotal
		}
		for _, t := range p.Types {
			typeSet[t] = struct{}{}
		}
	}

	var avgRating float64
	if ratedCount > 0 {
		avgRating = ratingSum / float64(ratedCount)
	}
	typeDiversity := len(typeSet)

	var congestion *int
	if traffic != nil {
		level := traffic.CongestionLevel
		congestion = &level
	}

	densityScore := math.Min(densityCap, float64(placeCount)/densitySaturationPlaces*densityCap)

	var ratingScore float64
	if avgRating > 0 {
		ratingScore = avgRating / 5.0 * ratingCap
	}

	reviewScore := math.Min(reviewCap, math.Log10(math.Max(float64(totalReviews), 1))/reviewSaturationLog10*reviewCap)

	diversityScore := math.Min(diversityCap, float64(typeDiversity))

	congestionLevel := defaultCongestionLevel
	if congestion != nil {
		congestionLevel = *congestion
	}
	trafficScore := float64(congestionLevel) / 10 * trafficCap

	total := densityScore + ratingScore + reviewScore + diversityScore + trafficScore
	score := int(math.Min(100, math.Max(0, math.Round(total))))

	result := ActivityScore{
		Score:             score,
		PlaceCount:        placeCount,
		TotalReviews:      totalReviews,
		TypeDiversity:     typeDiversity,
		TrafficCongestion: congestion,
		Label:             ActivityLabel(score),
	}
	if avgRating > 0 {
		rounded := round2(avgRating)
		result.AvgRating = &rounded
	}
	return result
}

// ActivityFor computes the composite activity score for an area, gated by
// the "score" cache namespace. The score is recomputed from fresh place and
// traffic snapshots on a miss; both of those fetches carry their own cache
// layers with different freshness windows.
func (s *Service) ActivityFor(ctx context.Context, q Query) (ActivityScore, error) {
	if q.RadiusMeters == 0 {
		q.RadiusMeters = DefaultRadius
	}
	if err := q.Validate(); err != nil {
		return ActivityScore{}, err
	}

	qualifier := fmt.Sprintf("%d", q.RadiusMeters)
	var cached ActivityScore
	if s.cache.GetJSON(ctx, "score", q.Lat, q.Lon, qualifier, &cached) {
		return cached, nil
	}

	places, err := s.NearbyPlaces(ctx, Query{Lat: q.Lat, Lon: q.Lon, RadiusMeters: q.RadiusMeters})
	if err != nil {
		return ActivityScore{}, err
	}
	traffic := s.TrafficDensity(ctx, q.Lat, q.Lon)

	result := ComputeActivity(places, traffic)
	s.cache.Set(ctx, "score", q.Lat, q.Lon, result, qualifier)
	return result, nil
}
