package geo

import (
	"context"
	"log/slog"
	"time"

	"github.com/boussole-dz/boussole/pkg/geocache"
	"github.com/boussole-dz/boussole/pkg/googlemaps"
)

// Provider is the mapping upstream consumed by the service. It is satisfied
// by *googlemaps.Client; tests inject fakes.
type Provider interface {
	Available() bool
	NearbySearch(ctx context.Context, lat, lon float64, radiusMeters int, placeType string) ([]googlemaps.PlaceResult, error)
	RouteDuration(ctx context.Context, originLat, originLon, destLat, destLon float64) (typicalSecs, liveSecs int, err error)
}

// Service orchestrates the place directory, the traffic estimator, and the
// activity score over a shared read-through cache.
type Service struct {
	provider    Provider
	cache       *geocache.Cache
	logger      *slog.Logger
	callTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCallTimeout bounds each upstream call (default 5s).
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) { s.callTimeout = d }
}

// New creates a geo intelligence service. provider may be nil when no
// credential is configured; the service then serves fallbacks only.
// cache may be nil; a nil cache behaves as a disabled geocache.Cache.
func New(provider Provider, cache *geocache.Cache, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = geocache.New(nil, logger)
	}
	s := &Service{
		provider:    provider,
		cache:       cache,
		logger:      logger,
		callTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether the mapping provider can be called at all.
func (s *Service) Available() bool {
	return s.provider != nil && s.provider.Available()
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.callTimeout)
}
