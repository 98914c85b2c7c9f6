package geo

import (
	"context"
	"fmt"
)

// NearbyPlaces returns up to one provider page of places around the queried
// coordinate. Cache-gated under the "places" namespace. Any provider failure
// yields an empty list and leaves the cache untouched; only input validation
// produces an error.
func (s *Service) NearbyPlaces(ctx context.Context, q Query) ([]Place, error) {
	if q.RadiusMeters == 0 {
		q.RadiusMeters = DefaultRadius
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if !s.Available() {
		return []Place{}, nil
	}

	qualifier := placesQualifier(q)
	var cached []Place
	if s.cache.GetJSON(ctx, "places", q.Lat, q.Lon, qualifier, &cached) {
		return cached, nil
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	results, err := s.provider.NearbySearch(callCtx, q.Lat, q.Lon, q.RadiusMeters, q.PlaceType)
	if err != nil {
		s.logger.Warn("nearby search failed, returning empty list", "error", err)
		return []Place{}, nil
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		places = append(places, Place{
			ID:               r.PlaceID,
			Name:             r.Name,
			Lat:              r.Geometry.Location.Lat,
			Lon:              r.Geometry.Location.Lng,
			Types:            r.Types,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			PriceLevel:       r.PriceLevel,
			Vicinity:         r.Vicinity,
			BusinessStatus:   r.BusinessStatus,
		})
	}

	s.cache.Set(ctx, "places", q.Lat, q.Lon, places, qualifier)
	return places, nil
}

func placesQualifier(q Query) string {
	placeType := q.PlaceType
	if placeType == "" {
		placeType = "all"
	}
	return fmt.Sprintf("%d:%s", q.RadiusMeters, placeType)
}
