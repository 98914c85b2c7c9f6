package geo

import (
	"fmt"
	"testing"
)

func ptrF(v float64) *float64 { return &v }

func ptrI(v int) *int { return &v }

// makePlaces builds n places with the given per-place rating and review
// count, cycling through distinctTypes category tags.
func makePlaces(n int, rating float64, reviewsEach, distinctTypes int) []Place {
	places := make([]Place, 0, n)
	for i := range n {
		p := Place{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Place %d", i),
		}
		if rating > 0 {
			p.Rating = ptrF(rating)
		}
		if reviewsEach > 0 {
			p.UserRatingsTotal = ptrI(reviewsEach)
		}
		if distinctTypes > 0 {
			p.Types = []string{fmt.Sprintf("type%d", i%distinctTypes)}
		}
		places = append(places, p)
	}
	return places
}

func TestComputeActivityAlgiersScenario(t *testing.T) {
	// 12 places, avg rating 4.2, 600 total reviews, 6 distinct categories,
	// traffic ratio 1.5: density 18 + rating 16.8 + reviews ~18.5 +
	// diversity 6 + traffic 7.5 rounds to 67, in the High band.
	places := makePlaces(12, 4.2, 50, 6)
	traffic := &Traffic{CongestionLevel: CongestionLevel(1.5), TrafficRatio: 1.5}

	got := ComputeActivity(places, traffic)
	if got.Score != 67 {
		t.Errorf("Score = %d, want 67", got.Score)
	}
	if got.Label != "High" {
		t.Errorf("Label = %q, want High", got.Label)
	}
	if got.PlaceCount != 12 || got.TotalReviews != 600 || got.TypeDiversity != 6 {
		t.Errorf("raw counts = %d/%d/%d, want 12/600/6", got.PlaceCount, got.TotalReviews, got.TypeDiversity)
	}
	if got.AvgRating == nil || *got.AvgRating != 4.2 {
		t.Errorf("AvgRating = %v, want 4.2", got.AvgRating)
	}
	if got.TrafficCongestion == nil || *got.TrafficCongestion != 5 {
		t.Errorf("TrafficCongestion = %v, want 5", got.TrafficCongestion)
	}
}

func TestComputeActivityBounds(t *testing.T) {
	tests := []struct {
		name    string
		places  []Place
		traffic *Traffic
	}{
		{"zero places no traffic", nil, nil},
		{"zero places severe traffic", nil, &Traffic{CongestionLevel: 10}},
		{"saturated everything", makePlaces(200, 5.0, 10000, 40), &Traffic{CongestionLevel: 10}},
		{"unrated places", makePlaces(10, 0, 0, 0), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeActivity(tt.places, tt.traffic)
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("Score = %d, out of [0,100]", got.Score)
			}
		})
	}
}

func TestComputeActivityZeroPlacesDefaultTraffic(t *testing.T) {
	// No places, no traffic: only the default congestion level 3 term
	// contributes, 3/10*15 = 4.5 rounds to 5.
	got := ComputeActivity(nil, nil)
	if got.Score != 5 {
		t.Errorf("Score = %d, want 5", got.Score)
	}
	if got.Label != "Low" {
		t.Errorf("Label = %q, want Low", got.Label)
	}
	if got.AvgRating != nil {
		t.Errorf("AvgRating = %v, want nil with no rated places", got.AvgRating)
	}
	if got.TrafficCongestion != nil {
		t.Errorf("TrafficCongestion = %v, want nil with no sample", got.TrafficCongestion)
	}
}

func TestComputeActivityMonotonicity(t *testing.T) {
	base := func() ([]Place, *Traffic) {
		return makePlaces(8, 3.5, 20, 4), &Traffic{CongestionLevel: 4}
	}

	t.Run("place count", func(t *testing.T) {
		prev := -1
		for _, n := range []int{0, 4, 8, 12, 20, 40} {
			places := makePlaces(n, 3.5, 20, 4)
			_, traffic := base()
			score := ComputeActivity(places, traffic).Score
			if score < prev {
				t.Errorf("score decreased to %d at %d places", score, n)
			}
			prev = score
		}
	})

	t.Run("average rating", func(t *testing.T) {
		prev := -1
		for _, r := range []float64{1.0, 2.0, 3.0, 4.0, 5.0} {
			places := makePlaces(8, r, 20, 4)
			_, traffic := base()
			score := ComputeActivity(places, traffic).Score
			if score < prev {
				t.Errorf("score decreased to %d at rating %v", score, r)
			}
			prev = score
		}
	})

	t.Run("total reviews", func(t *testing.T) {
		prev := -1
		for _, reviews := range []int{0, 10, 100, 500, 2000} {
			places := makePlaces(8, 3.5, reviews, 4)
			_, traffic := base()
			score := ComputeActivity(places, traffic).Score
			if score < prev {
				t.Errorf("score decreased to %d at %d reviews each", score, reviews)
			}
			prev = score
		}
	})

	t.Run("category diversity", func(t *testing.T) {
		prev := -1
		for _, types := range []int{1, 2, 4, 8, 16} {
			places := makePlaces(16, 3.5, 20, types)
			_, traffic := base()
			score := ComputeActivity(places, traffic).Score
			if score < prev {
				t.Errorf("score decreased to %d at %d distinct types", score, types)
			}
			prev = score
		}
	})
}

func TestActivityLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "Low"}, {29, "Low"}, {30, "Moderate"}, {54, "Moderate"},
		{55, "High"}, {79, "High"}, {80, "Very High"}, {100, "Very High"},
	}
	for _, tt := range tests {
		if got := ActivityLabel(tt.score); got != tt.want {
			t.Errorf("ActivityLabel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestCongestionLevel(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{1.0, 3},  // free flow lands on light
		{3.0, 10}, // triple travel time saturates
		{0.3, 1},  // clamped at the floor
		{1.5, 5},
		{2.0, 7},
		{0.0, 1},
		{9.9, 10},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("ratio %.1f", tt.ratio), func(t *testing.T) {
			if got := CongestionLevel(tt.ratio); got != tt.want {
				t.Errorf("CongestionLevel(%v) = %d, want %d", tt.ratio, got, tt.want)
			}
		})
	}
}

func TestCongestionDescriptionBands(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "Light traffic — roads are clear"},
		{3, "Light traffic — roads are clear"},
		{4, "Moderate traffic — some slowdowns"},
		{5, "Moderate traffic — some slowdowns"},
		{6, "Heavy traffic — significant delays"},
		{7, "Heavy traffic — significant delays"},
		{8, "Severe congestion — expect major delays"},
		{10, "Severe congestion — expect major delays"},
	}
	for _, tt := range tests {
		if got := CongestionDescription(tt.level); got != tt.want {
			t.Errorf("CongestionDescription(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
