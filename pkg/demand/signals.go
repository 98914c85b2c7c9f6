package demand

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/boussole-dz/boussole/pkg/geo"
	"github.com/boussole-dz/boussole/pkg/wilaya"
)

// Signal weights. They must sum to exactly 1.0.
const (
	weightPricing      = 0.25
	weightCompetition  = 0.20
	weightDemographics = 0.20
	weightActivity     = 0.20
	weightEconomic     = 0.15
)

// Radius used for location-bound signals, matching the area a prospective
// business actually competes in.
const signalRadiusMeters = 2000

// pricingSignal scores observed pricing trends. More historical data points
// mean a more confident signal; with no data the sector's growth profile
// stands in.
func (s *Service) pricingSignal(ctx context.Context, sector SectorCode, profile Profile) Signal {
	points, err := s.series.SectorObservations(ctx, string(sector))
	if err != nil {
		s.logger.Warn("pricing signal store error", "sector", sector, "error", err)
		return newSignal("Pricing Trends", 50, weightPricing, "Insufficient data", FallbackError)
	}

	if points > 0 {
		confidence := math.Min(1, float64(points)/50)
		score := 50 + confidence*30
		return newSignal("Pricing Trends", score, weightPricing,
			fmt.Sprintf("%d data points analyzed", points), FallbackNone)
	}

	score := (profile.GrowthTrend-1)*500 + 40
	return newSignal("Pricing Trends", score, weightPricing,
		"Based on sector growth profile", FallbackNoData)
}

// competitionSignal scores competitor density near the location. The curve
// is non-monotonic: no competitors may mean no demand, a handful is
// healthy, and a crowded market saturates.
func (s *Service) competitionSignal(ctx context.Context, sector SectorCode, profile Profile, w *wilaya.Wilaya) Signal {
	fallback := func(reason FallbackReason) Signal {
		return newSignal("Competition Density", profile.BaseDemand*0.85, weightCompetition,
			"Based on sector averages (no geo data)", reason)
	}

	if !s.geoAvailable() {
		return fallback(FallbackNoGeo)
	}
	if w == nil || !w.HasCoordinates() {
		return fallback(FallbackNoLocation)
	}

	places, err := s.geo.NearbyPlaces(ctx, geo.Query{
		Lat:          w.Latitude,
		Lon:          w.Longitude,
		RadiusMeters: signalRadiusMeters,
		PlaceType:    sectorPlaceTypes[sector],
	})
	if err != nil {
		s.logger.Warn("competition signal geo error", "sector", sector, "error", err)
		return fallback(FallbackError)
	}

	count := len(places)
	var score float64
	switch {
	case count == 0:
		score = 30
	case count <= 5:
		score = 50 + float64(count)*6
	case count <= 15:
		score = 80
	default:
		score = math.Max(40, 90-float64(count-15)*3)
	}

	return newSignal("Competition Density", score, weightCompetition,
		fmt.Sprintf("%d competitors in 2km radius", count), FallbackNone)
}

// demographicsSignal scores population size adjusted by the sector's
// affinity for the region's urban or rural character.
func (s *Service) demographicsSignal(profile Profile, w *wilaya.Wilaya) Signal {
	if w == nil || w.Population <= 0 {
		return newSignal("Demographics", 55, weightDemographics,
			"National average (no wilaya specified)", FallbackNoLocation)
	}

	popScore := math.Min(95, 30+math.Log10(math.Max(float64(w.Population), 1000))*12)
	factor := profile.RuralFactor
	if w.Urban() {
		factor = profile.UrbanFactor
	}
	score := popScore * factor

	region := w.Region
	if region == "" {
		region = "N/A"
	}
	return newSignal("Demographics", score, weightDemographics,
		fmt.Sprintf("Population: %s (%s region)", groupDigits(w.Population), region), FallbackNone)
}

// activitySignal delegates to the geo activity score verbatim.
func (s *Service) activitySignal(ctx context.Context, w *wilaya.Wilaya) Signal {
	fallback := func(reason FallbackReason) Signal {
		return newSignal("Area Activity", 50, weightActivity, "No geo data available", reason)
	}

	if !s.geoAvailable() {
		return fallback(FallbackNoGeo)
	}
	if w == nil || !w.HasCoordinates() {
		return fallback(FallbackNoLocation)
	}

	activity, err := s.geo.ActivityFor(ctx, geo.Query{
		Lat:          w.Latitude,
		Lon:          w.Longitude,
		RadiusMeters: signalRadiusMeters,
	})
	if err != nil {
		s.logger.Warn("activity signal error", "error", err)
		return fallback(FallbackError)
	}

	return newSignal("Area Activity", float64(activity.Score), weightActivity,
		fmt.Sprintf("Activity: %s (%d places)", activity.Label, activity.PlaceCount), FallbackNone)
}

// economicSignal scores macro conditions: a flat "data present" score when
// macro-tagged rows exist, otherwise the sector growth trend as a proxy.
func (s *Service) economicSignal(ctx context.Context, profile Profile) Signal {
	hasMacro, err := s.series.HasMacroData(ctx)
	if err != nil {
		s.logger.Warn("economic signal store error", "error", err)
		return newSignal("Economic Indicators", 50, weightEconomic, "Insufficient data", FallbackError)
	}

	if hasMacro {
		return newSignal("Economic Indicators", 65, weightEconomic, "Based on macro data", FallbackNone)
	}

	score := 30 + (profile.GrowthTrend-1.0)*300
	return newSignal("Economic Indicators", score, weightEconomic,
		"Based on sector growth trend", FallbackNoData)
}

// groupDigits renders an integer with thousands separators.
func groupDigits(n int) string {
	raw := strconv.Itoa(n)
	if n < 0 {
		return "-" + groupDigits(-n)
	}
	var out []byte
	for i, digit := range []byte(raw) {
		if i > 0 && (len(raw)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digit)
	}
	return string(out)
}
