package geo

import "context"

// AreaIntelligence assembles the full report for an area: activity score,
// traffic, and the nearby-place list. The assembled bundle has its own
// "intelligence" cache namespace on top of the per-part caches; the two
// layers intentionally carry different freshness windows.
func (s *Service) AreaIntelligence(ctx context.Context, q Query) (*AreaIntelligence, error) {
	if q.RadiusMeters == 0 {
		q.RadiusMeters = DefaultRadius
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	qualifier := placesQualifier(q)
	var cached AreaIntelligence
	if s.cache.GetJSON(ctx, "intelligence", q.Lat, q.Lon, qualifier, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	places, err := s.NearbyPlaces(ctx, q)
	if err != nil {
		return nil, err
	}
	traffic := s.TrafficDensity(ctx, q.Lat, q.Lon)
	activity, err := s.ActivityFor(ctx, q)
	if err != nil {
		return nil, err
	}

	report := &AreaIntelligence{
		Location:     q,
		Activity:     activity,
		Traffic:      traffic,
		NearbyPlaces: places,
		Cached:       false,
	}

	// Stored with Cached=false: the flag describes the call, not the state.
	s.cache.Set(ctx, "intelligence", q.Lat, q.Lon, report, qualifier)
	return report, nil
}
