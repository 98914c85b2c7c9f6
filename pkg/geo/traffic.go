package geo

import (
	"context"
	"math"
)

// Roughly 2 km due north; a short fixed-offset trip whose typical vs. live
// duration exposes local congestion.
const trafficProbeOffsetDegrees = 0.018

// CongestionLevel maps a live/typical travel-time ratio onto the 1-10
// congestion scale: a free-flowing ratio of 1.0 lands on level 3, a ratio
// of 3.0 or worse saturates at 10. The 3.3 factor is calibrated and must
// not change.
func CongestionLevel(ratio float64) int {
	level := int(math.Round(ratio * 3.3))
	if level < 1 {
		return 1
	}
	if level > 10 {
		return 10
	}
	return level
}

// CongestionDescription returns the human label band for a congestion level.
func CongestionDescription(level int) string {
	switch {
	case level <= 3:
		return "Light traffic — roads are clear"
	case level <= 5:
		return "Moderate traffic — some slowdowns"
	case level <= 7:
		return "Heavy traffic — significant delays"
	default:
		return "Severe congestion — expect major delays"
	}
}

// TrafficDensity estimates live congestion at a point. Cache-gated under the
// "traffic" namespace, keyed by the source coordinate only. Returns nil when
// the provider is unavailable or errs: downstream consumers must treat
// absence as "exclude this signal", never as a zeroed sample.
func (s *Service) TrafficDensity(ctx context.Context, lat, lon float64) *Traffic {
	if !s.Available() {
		return nil
	}

	var cached Traffic
	if s.cache.GetJSON(ctx, "traffic", lat, lon, "", &cached) {
		return &cached
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	typicalSecs, liveSecs, err := s.provider.RouteDuration(callCtx, lat, lon, lat+trafficProbeOffsetDegrees, lon)
	if err != nil {
		s.logger.Warn("traffic probe failed, no traffic data", "error", err)
		return nil
	}

	ratio := float64(liveSecs) / math.Max(float64(typicalSecs), 1)
	level := CongestionLevel(ratio)

	traffic := &Traffic{
		CongestionLevel:        level,
		TypicalDurationMinutes: round1(float64(typicalSecs) / 60),
		LiveDurationMinutes:    round1(float64(liveSecs) / 60),
		TrafficRatio:           round2(ratio),
		Description:            CongestionDescription(level),
	}

	s.cache.Set(ctx, "traffic", lat, lon, traffic, "")
	return traffic
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
