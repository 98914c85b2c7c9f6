package googlemaps

import (
	"context"
	"fmt"
	"net/url"
)

const placesNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// PlaceResult is one point of interest from a Nearby Search page.
// Optional provider fields stay pointers so absence survives the trip.
type PlaceResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Types            []string `json:"types"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	Vicinity         string   `json:"vicinity,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// NearbySearch returns up to one provider page (20 results) of places around
// a coordinate. placeType optionally restricts results to one category.
func (c *Client) NearbySearch(ctx context.Context, lat, lon float64, radiusMeters int, placeType string) ([]PlaceResult, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("key", c.apiKey)
	if placeType != "" {
		params.Set("type", placeType)
	}

	var result struct {
		Results      []PlaceResult `json:"results"`
		Status       string        `json:"status"`
		ErrorMessage string        `json:"error_message"`
	}
	if err := c.getJSON(ctx, placesNearbyURL+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	if result.Status != "OK" && result.Status != "ZERO_RESULTS" {
		c.logger.Warn("places API error", "status", result.Status, "message", result.ErrorMessage)
		return nil, fmt.Errorf("places API status %s: %s", result.Status, result.ErrorMessage)
	}

	c.logger.Debug("nearby search complete", "lat", lat, "lon", lon, "radius", radiusMeters,
		"type", placeType, "results", len(result.Results))
	return result.Results, nil
}
