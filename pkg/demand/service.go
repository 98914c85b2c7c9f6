package demand

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/boussole-dz/boussole/pkg/geo"
	"github.com/boussole-dz/boussole/pkg/timeseries"
	"github.com/boussole-dz/boussole/pkg/wilaya"
)

// GeoService is the slice of geo intelligence that demand scoring consumes.
// Satisfied by *geo.Service.
type GeoService interface {
	Available() bool
	NearbyPlaces(ctx context.Context, q geo.Query) ([]geo.Place, error)
	ActivityFor(ctx context.Context, q geo.Query) (geo.ActivityScore, error)
}

// Service computes demand scores, sector rankings, and feasibility reports.
type Service struct {
	geo     GeoService
	wilayas wilaya.Resolver
	series  timeseries.Store
	logger  *slog.Logger
}

// New creates a demand intelligence service. geoSvc may be nil when no
// mapping provider exists; resolver may be nil when no region table exists;
// series may be nil when no ingested data exists. Each absence degrades the
// corresponding signals to their documented defaults.
func New(geoSvc GeoService, resolver wilaya.Resolver, series timeseries.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if series == nil {
		series = &timeseries.StaticStore{}
	}
	return &Service{
		geo:     geoSvc,
		wilayas: resolver,
		series:  series,
		logger:  logger,
	}
}

func (s *Service) geoAvailable() bool {
	return s.geo != nil && s.geo.Available()
}

// resolveWilaya looks up a region code. A missing record or resolver is not
// an error: the caller gets a nil region and the raw code as display name.
func (s *Service) resolveWilaya(ctx context.Context, code string) (w *wilaya.Wilaya, displayName string) {
	if code == "" {
		return nil, ""
	}
	if s.wilayas == nil {
		return nil, code
	}
	w, err := s.wilayas.Lookup(ctx, code)
	if err != nil {
		s.logger.Debug("wilaya lookup failed", "code", code, "error", err)
		return nil, code
	}
	return w, w.Name
}

// gatherSignals computes the five signals concurrently into fixed slots so
// the result keeps computation order regardless of completion order.
func (s *Service) gatherSignals(ctx context.Context, sector SectorCode, profile Profile, w *wilaya.Wilaya) []Signal {
	var signals [5]Signal
	var wg sync.WaitGroup

	run := func(slot int, compute func() Signal) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			signals[slot] = compute()
		}()
	}

	run(0, func() Signal { return s.pricingSignal(ctx, sector, profile) })
	run(1, func() Signal { return s.competitionSignal(ctx, sector, profile, w) })
	run(2, func() Signal { return s.demographicsSignal(profile, w) })
	run(3, func() Signal { return s.activitySignal(ctx, w) })
	run(4, func() Signal { return s.economicSignal(ctx, profile) })
	wg.Wait()

	return signals[:]
}

func clamp100(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// newSignal clamps the raw score to [0,100] and derives the weighted
// contribution, both rounded to one decimal.
func newSignal(name string, score, weight float64, detail string, fallback FallbackReason) Signal {
	clamped := clamp100(score)
	return Signal{
		Name:          name,
		Score:         round1(clamped),
		Weight:        weight,
		WeightedScore: round1(clamped * weight),
		Detail:        detail,
		Fallback:      fallback,
	}
}
