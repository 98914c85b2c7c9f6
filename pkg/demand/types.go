// Package demand computes composite market-demand scores for a sector at a
// location by weighting five independently-computed signals, and derives
// sector opportunity rankings and feasibility reports from them. Every
// signal is fault-tolerant: a missing upstream degrades that one signal to
// a documented default carried with an explicit fallback reason.
package demand

// FallbackReason records why a signal used a default instead of live data.
// An empty reason means the signal was computed from real data.
type FallbackReason string

// Fallback reasons.
const (
	FallbackNone       FallbackReason = ""
	FallbackNoData     FallbackReason = "no_data"
	FallbackNoLocation FallbackReason = "no_location"
	FallbackNoGeo      FallbackReason = "no_geo"
	FallbackError      FallbackReason = "error"
)

// Signal is one weighted contributor to a composite demand score.
type Signal struct {
	Name          string         `json:"name"`
	Score         float64        `json:"score"`
	Weight        float64        `json:"weight"`
	WeightedScore float64        `json:"weighted_score"`
	Detail        string         `json:"detail"`
	Fallback      FallbackReason `json:"fallback,omitempty"`
}

// DemandScore is the composite demand measure for a sector at a location.
// Signals keep computation order, not score order.
type DemandScore struct {
	Sector         SectorCode `json:"sector"`
	WilayaCode     string     `json:"wilaya_code,omitempty"`
	WilayaName     string     `json:"wilaya_name,omitempty"`
	Score          int        `json:"score"`
	Label          string     `json:"label"`
	Recommendation string     `json:"recommendation"`
	Signals        []Signal   `json:"signals"`
}

// SectorOpportunity is one entry of a ranked sector list for a location.
type SectorOpportunity struct {
	Rank       int        `json:"rank"`
	Sector     SectorCode `json:"sector"`
	SectorName string     `json:"sector_name"`
	Score      int        `json:"score"`
	Label      string     `json:"label"`
	KeySignals []string   `json:"key_signals"`
}

// FeasibilityReport combines demand, geo, and competitive analysis into a
// single verdict with a narrative summary.
type FeasibilityReport struct {
	Sector              SectorCode  `json:"sector"`
	WilayaCode          string      `json:"wilaya_code,omitempty"`
	WilayaName          string      `json:"wilaya_name,omitempty"`
	DemandScore         DemandScore `json:"demand_score"`
	ActivityScore       *int        `json:"activity_score,omitempty"`
	CompetitionCount    *int        `json:"competition_count,omitempty"`
	AvgCompetitorRating *float64    `json:"avg_competitor_rating,omitempty"`
	Verdict             string      `json:"verdict"`
	Summary             string      `json:"summary"`
}
