package googlemaps

import (
	"context"
	"fmt"
	"net/url"
)

const directionsURL = "https://maps.googleapis.com/maps/api/directions/json"

// RouteDuration requests a route with departure_time=now and returns the
// typical and the live, traffic-aware duration in seconds. When the provider
// omits the traffic-aware field, live equals typical.
func (c *Client) RouteDuration(ctx context.Context, originLat, originLon, destLat, destLon float64) (typicalSecs, liveSecs int, err error) {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", originLat, originLon))
	params.Set("destination", fmt.Sprintf("%f,%f", destLat, destLon))
	params.Set("departure_time", "now")
	params.Set("key", c.apiKey)

	var result struct {
		Routes []struct {
			Legs []struct {
				Duration struct {
					Value int `json:"value"`
				} `json:"duration"`
				DurationInTraffic *struct {
					Value int `json:"value"`
				} `json:"duration_in_traffic"`
			} `json:"legs"`
		} `json:"routes"`
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := c.getJSON(ctx, directionsURL+"?"+params.Encode(), &result); err != nil {
		return 0, 0, err
	}

	if result.Status != "OK" {
		c.logger.Warn("directions API error", "status", result.Status, "message", result.ErrorMessage)
		return 0, 0, fmt.Errorf("directions API status %s: %s", result.Status, result.ErrorMessage)
	}
	if len(result.Routes) == 0 || len(result.Routes[0].Legs) == 0 {
		return 0, 0, fmt.Errorf("directions API returned no route legs")
	}

	leg := result.Routes[0].Legs[0]
	typicalSecs = leg.Duration.Value
	liveSecs = typicalSecs
	if leg.DurationInTraffic != nil {
		liveSecs = leg.DurationInTraffic.Value
	}
	return typicalSecs, liveSecs, nil
}
