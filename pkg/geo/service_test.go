package geo

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/boussole-dz/boussole/pkg/geocache"
	"github.com/boussole-dz/boussole/pkg/googlemaps"
)

type fakeProvider struct {
	available   bool
	places      []googlemaps.PlaceResult
	placesErr   error
	typicalSecs int
	liveSecs    int
	routeErr    error
	nearbyCalls int
	routeCalls  int
}

func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) NearbySearch(_ context.Context, _, _ float64, _ int, _ string) ([]googlemaps.PlaceResult, error) {
	f.nearbyCalls++
	return f.places, f.placesErr
}

func (f *fakeProvider) RouteDuration(_ context.Context, _, _, _, _ float64) (int, int, error) {
	f.routeCalls++
	return f.typicalSecs, f.liveSecs, f.routeErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func liveCache() *geocache.Cache {
	return geocache.New(geocache.NewOtterStore(1000, time.Hour), testLogger())
}

func fakeResult(id string, rating float64, reviews int, types ...string) googlemaps.PlaceResult {
	r := googlemaps.PlaceResult{PlaceID: id, Name: id, Types: types}
	r.Geometry.Location.Lat = 36.75
	r.Geometry.Location.Lng = 3.04
	if rating > 0 {
		r.Rating = &rating
	}
	if reviews > 0 {
		r.UserRatingsTotal = &reviews
	}
	return r
}

func TestNearbyPlacesNoProvider(t *testing.T) {
	s := New(nil, liveCache(), testLogger())
	places, err := s.NearbyPlaces(context.Background(), Query{Lat: 36.75, Lon: 3.04, RadiusMeters: 2000})
	if err != nil {
		t.Fatalf("NearbyPlaces: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("got %d places without a provider, want 0", len(places))
	}
}

func TestNearbyPlacesValidation(t *testing.T) {
	s := New(&fakeProvider{available: true}, liveCache(), testLogger())
	tests := []struct {
		name string
		q    Query
	}{
		{"lat too high", Query{Lat: 91, Lon: 3.04, RadiusMeters: 2000}},
		{"lat too low", Query{Lat: -91, Lon: 3.04, RadiusMeters: 2000}},
		{"lon too high", Query{Lat: 36.75, Lon: 181, RadiusMeters: 2000}},
		{"radius too small", Query{Lat: 36.75, Lon: 3.04, RadiusMeters: 99}},
		{"radius too large", Query{Lat: 36.75, Lon: 3.04, RadiusMeters: 50001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.NearbyPlaces(context.Background(), tt.q); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNearbyPlacesCaching(t *testing.T) {
	provider := &fakeProvider{
		available: true,
		places:    []googlemaps.PlaceResult{fakeResult("a", 4.0, 10, "cafe")},
	}
	s := New(provider, liveCache(), testLogger())
	ctx := context.Background()

	q := Query{Lat: 36.7521, Lon: 3.0419, RadiusMeters: 2000}
	first, err := s.NearbyPlaces(ctx, q)
	if err != nil {
		t.Fatal(err)
	}

	// A nearby point in the same grid cell is served from cache.
	q2 := Query{Lat: 36.7524, Lon: 3.0421, RadiusMeters: 2000}
	second, err := s.NearbyPlaces(ctx, q2)
	if err != nil {
		t.Fatal(err)
	}
	if provider.nearbyCalls != 1 {
		t.Errorf("provider called %d times, want 1", provider.nearbyCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestNearbyPlacesProviderErrorNotCached(t *testing.T) {
	provider := &fakeProvider{available: true, placesErr: errors.New("boom")}
	s := New(provider, liveCache(), testLogger())
	ctx := context.Background()
	q := Query{Lat: 36.75, Lon: 3.04, RadiusMeters: 2000}

	places, err := s.NearbyPlaces(ctx, q)
	if err != nil {
		t.Fatalf("provider errors must not surface: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("got %d places, want 0", len(places))
	}

	// Failure was not written to the cache: recovery is visible immediately.
	provider.placesErr = nil
	provider.places = []googlemaps.PlaceResult{fakeResult("a", 4.0, 10, "cafe")}
	places, err = s.NearbyPlaces(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(places) != 1 {
		t.Errorf("got %d places after recovery, want 1", len(places))
	}
}

func TestTrafficDensity(t *testing.T) {
	provider := &fakeProvider{available: true, typicalSecs: 300, liveSecs: 450}
	s := New(provider, liveCache(), testLogger())

	traffic := s.TrafficDensity(context.Background(), 36.75, 3.04)
	if traffic == nil {
		t.Fatal("expected traffic sample")
	}
	if traffic.CongestionLevel != 5 {
		t.Errorf("CongestionLevel = %d, want 5 for ratio 1.5", traffic.CongestionLevel)
	}
	if traffic.TypicalDurationMinutes != 5.0 || traffic.LiveDurationMinutes != 7.5 {
		t.Errorf("durations = %v/%v, want 5.0/7.5", traffic.TypicalDurationMinutes, traffic.LiveDurationMinutes)
	}
	if traffic.TrafficRatio != 1.5 {
		t.Errorf("TrafficRatio = %v, want 1.5", traffic.TrafficRatio)
	}
	if traffic.Description != "Moderate traffic — some slowdowns" {
		t.Errorf("Description = %q", traffic.Description)
	}

	// Second call is served from the traffic namespace.
	if s.TrafficDensity(context.Background(), 36.75, 3.04) == nil {
		t.Fatal("expected cached traffic sample")
	}
	if provider.routeCalls != 1 {
		t.Errorf("provider called %d times, want 1", provider.routeCalls)
	}
}

func TestTrafficDensityAbsence(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		s := New(nil, liveCache(), testLogger())
		if s.TrafficDensity(context.Background(), 36.75, 3.04) != nil {
			t.Error("expected nil without provider")
		}
	})
	t.Run("provider error", func(t *testing.T) {
		s := New(&fakeProvider{available: true, routeErr: errors.New("timeout")}, liveCache(), testLogger())
		if s.TrafficDensity(context.Background(), 36.75, 3.04) != nil {
			t.Error("expected nil on provider error")
		}
	})
}

func TestAreaIntelligenceIdempotent(t *testing.T) {
	provider := &fakeProvider{
		available:   true,
		places:      []googlemaps.PlaceResult{fakeResult("a", 4.5, 120, "cafe", "food")},
		typicalSecs: 300,
		liveSecs:    330,
	}
	s := New(provider, liveCache(), testLogger())
	ctx := context.Background()
	q := Query{Lat: 36.75, Lon: 3.04, RadiusMeters: 2000}

	first, err := s.AreaIntelligence(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Error("first call marked cached")
	}

	second, err := s.AreaIntelligence(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("second call not marked cached")
	}

	// Identical payloads apart from the cached flag.
	second.Cached = false
	if !reflect.DeepEqual(first, second) {
		t.Errorf("payloads differ:\n first: %+v\nsecond: %+v", first, second)
	}
}

func TestAreaIntelligenceNoCache(t *testing.T) {
	provider := &fakeProvider{available: true, typicalSecs: 300, liveSecs: 300}
	s := New(provider, nil, testLogger())

	report, err := s.AreaIntelligence(context.Background(), Query{Lat: 36.75, Lon: 3.04, RadiusMeters: 2000})
	if err != nil {
		t.Fatal(err)
	}
	if report.Cached {
		t.Error("report marked cached with caching disabled")
	}
}
