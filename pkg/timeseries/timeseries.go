// Package timeseries exposes the aggregate views of the ingested
// time-series store that demand scoring needs: how many observations a
// sector has, and whether any macro-economic rows exist. The engine never
// reads raw rows.
package timeseries

import "context"

// Store answers sector-level aggregate queries.
type Store interface {
	// SectorObservations returns the number of historical data points
	// recorded for a sector slug.
	SectorObservations(ctx context.Context, sector string) (int, error)
	// HasMacroData reports whether any rows are tagged with an
	// economic/macro data source.
	HasMacroData(ctx context.Context) (bool, error)
}

// StaticStore is an in-memory Store for offline deployments and tests.
type StaticStore struct {
	Observations map[string]int
	Macro        bool
}

// SectorObservations implements Store.
func (s *StaticStore) SectorObservations(_ context.Context, sector string) (int, error) {
	return s.Observations[sector], nil
}

// HasMacroData implements Store.
func (s *StaticStore) HasMacroData(_ context.Context) (bool, error) {
	return s.Macro, nil
}
