package demand

import (
	"context"
	"sort"
)

// DefaultOpportunityLimit bounds a ranking when the caller passes no limit.
const DefaultOpportunityLimit = 10

// SectorOpportunities ranks every known sector by demand score at the
// given location. The sort is stable, so equal scores keep sector-table
// order; ranks are dense and 1-based.
func (s *Service) SectorOpportunities(ctx context.Context, wilayaCode string, limit int) ([]SectorOpportunity, error) {
	if limit <= 0 {
		limit = DefaultOpportunityLimit
	}

	results := make([]SectorOpportunity, 0, len(sectorOrder))
	for _, sector := range sectorOrder {
		ds, err := s.Score(ctx, sector, wilayaCode)
		if err != nil {
			return nil, err
		}
		profile, _ := ProfileFor(sector)
		results = append(results, SectorOpportunity{
			Sector:     sector,
			SectorName: profile.Name,
			Score:      ds.Score,
			Label:      ds.Label,
			KeySignals: keySignals(ds.Signals, 3),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// keySignals returns the details of the top-n signals by weighted
// contribution, descending. Ties keep computation order.
func keySignals(signals []Signal, n int) []string {
	ordered := make([]Signal, len(signals))
	copy(ordered, signals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].WeightedScore > ordered[j].WeightedScore
	})

	if len(ordered) > n {
		ordered = ordered[:n]
	}
	details := make([]string, 0, len(ordered))
	for _, sig := range ordered {
		details = append(details, sig.Detail)
	}
	return details
}
