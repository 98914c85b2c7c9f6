// Package geo provides geographic intelligence for an area: nearby-place
// retrieval, live traffic estimation, and the composite 0-100 activity
// score built from both. Every upstream is optional; missing data degrades
// each component to a documented fallback instead of an error.
package geo

import "fmt"

// Search constraints enforced at the component boundary.
const (
	MinRadiusMeters = 100
	MaxRadiusMeters = 50000
	DefaultRadius   = 1000
)

// Query identifies an area to analyze.
type Query struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	RadiusMeters int     `json:"radius"`
	PlaceType    string  `json:"place_type,omitempty"`
}

// Validate rejects caller misuse. This is the only error class the geo
// component surfaces; environmental failures degrade silently.
func (q Query) Validate() error {
	if q.Lat < -90 || q.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", q.Lat)
	}
	if q.Lon < -180 || q.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", q.Lon)
	}
	if q.RadiusMeters < MinRadiusMeters || q.RadiusMeters > MaxRadiusMeters {
		return fmt.Errorf("radius %d out of range [%d, %d]", q.RadiusMeters, MinRadiusMeters, MaxRadiusMeters)
	}
	return nil
}

// Place is one point of interest near the queried coordinate.
type Place struct {
	ID               string   `json:"place_id"`
	Name             string   `json:"name"`
	Lat              float64  `json:"lat"`
	Lon              float64  `json:"lon"`
	Types            []string `json:"types"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	Vicinity         string   `json:"vicinity,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
}

// Traffic describes live congestion inferred from typical vs. live travel time.
type Traffic struct {
	CongestionLevel        int     `json:"congestion_level"`
	TypicalDurationMinutes float64 `json:"typical_duration_minutes"`
	LiveDurationMinutes    float64 `json:"live_duration_minutes"`
	TrafficRatio           float64 `json:"traffic_ratio"`
	Description            string  `json:"description"`
}

// ActivityScore is the composite 0-100 vibrancy measure for an area.
type ActivityScore struct {
	Score             int      `json:"score"`
	PlaceCount        int      `json:"place_count"`
	AvgRating         *float64 `json:"avg_rating,omitempty"`
	TotalReviews      int      `json:"total_reviews"`
	TypeDiversity     int      `json:"type_diversity"`
	TrafficCongestion *int     `json:"traffic_congestion,omitempty"`
	Label             string   `json:"label"`
}

// AreaIntelligence is the full report for an area. Cached reflects whether
// this call was answered from the bundle cache; it is never persisted.
type AreaIntelligence struct {
	Location     Query         `json:"location"`
	Activity     ActivityScore `json:"activity_score"`
	Traffic      *Traffic      `json:"traffic,omitempty"`
	NearbyPlaces []Place       `json:"nearby_places"`
	Cached       bool          `json:"cached"`
}
