package demand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/boussole-dz/boussole/pkg/geo"
	"github.com/boussole-dz/boussole/pkg/timeseries"
	"github.com/boussole-dz/boussole/pkg/wilaya"
)

type fakeGeo struct {
	available   bool
	places      []geo.Place
	placesErr   error
	activity    geo.ActivityScore
	activityErr error
}

func (f *fakeGeo) Available() bool { return f.available }

func (f *fakeGeo) NearbyPlaces(_ context.Context, _ geo.Query) ([]geo.Place, error) {
	return f.places, f.placesErr
}

func (f *fakeGeo) ActivityFor(_ context.Context, _ geo.Query) (geo.ActivityScore, error) {
	return f.activity, f.activityErr
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func ratedPlaces(n int, ratings ...float64) []geo.Place {
	places := make([]geo.Place, n)
	for i := range places {
		places[i] = geo.Place{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Place %d", i)}
		if i < len(ratings) {
			r := ratings[i]
			places[i].Rating = &r
		}
	}
	return places
}

func signalByName(t *testing.T, signals []Signal, name string) Signal {
	t.Helper()
	for _, sig := range signals {
		if sig.Name == name {
			return sig
		}
	}
	t.Fatalf("signal %q not found in %v", name, signals)
	return Signal{}
}

func TestScoreAllFallbacks(t *testing.T) {
	svc := New(nil, nil, nil, discard())

	ds, err := svc.Score(context.Background(), SectorTechnology, "")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if ds.Score < 0 || ds.Score > 100 {
		t.Errorf("composite score %d out of [0, 100]", ds.Score)
	}
	if ds.WilayaName != "" {
		t.Errorf("wilaya name = %q, want empty", ds.WilayaName)
	}
	if len(ds.Signals) != 5 {
		t.Fatalf("got %d signals, want 5", len(ds.Signals))
	}

	wantOrder := []string{"Pricing Trends", "Competition Density", "Demographics", "Area Activity", "Economic Indicators"}
	for i, name := range wantOrder {
		if ds.Signals[i].Name != name {
			t.Errorf("signal[%d] = %q, want %q", i, ds.Signals[i].Name, name)
		}
	}

	tests := []struct {
		name      string
		wantScore float64
		wantWhy   FallbackReason
	}{
		// growth 1.18 puts the pricing proxy past the clamp ceiling
		{"Pricing Trends", 100, FallbackNoData},
		{"Competition Density", 69.7, FallbackNoGeo}, // 82 * 0.85
		{"Demographics", 55, FallbackNoLocation},
		{"Area Activity", 50, FallbackNoGeo},
		{"Economic Indicators", 84, FallbackNoData}, // 30 + 0.18*300
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sig := signalByName(t, ds.Signals, tc.name)
			if sig.Score != tc.wantScore {
				t.Errorf("score = %v, want %v", sig.Score, tc.wantScore)
			}
			if sig.Fallback != tc.wantWhy {
				t.Errorf("fallback = %q, want %q", sig.Fallback, tc.wantWhy)
			}
		})
	}
}

func TestScoreWeightsSumToOne(t *testing.T) {
	svc := New(nil, nil, nil, discard())
	ds, err := svc.Score(context.Background(), SectorAgriculture, "")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	var sum float64
	for _, sig := range ds.Signals {
		sum += sig.Weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestScoreAllSignalsLive(t *testing.T) {
	g := &fakeGeo{
		available: true,
		places:    ratedPlaces(8, 4.0, 4.5),
		activity:  geo.ActivityScore{Score: 67, PlaceCount: 8, Label: "High"},
	}
	series := &timeseries.StaticStore{
		Observations: map[string]int{"technology": 50},
		Macro:        true,
	}
	svc := New(g, wilaya.NewStatic(), series, discard())

	ds, err := svc.Score(context.Background(), SectorTechnology, "01")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	// pricing 80*0.25 + competition 80*0.20 + demographics 100*0.20 +
	// activity 67*0.20 + economic 65*0.15 rounds to 79.
	if ds.Score != 79 {
		t.Errorf("score = %d, want 79", ds.Score)
	}
	if ds.Label != "High" {
		t.Errorf("label = %q, want High", ds.Label)
	}
	if ds.WilayaName != "Algiers" {
		t.Errorf("wilaya name = %q, want Algiers", ds.WilayaName)
	}
	for _, sig := range ds.Signals {
		if sig.Fallback != FallbackNone {
			t.Errorf("signal %q fell back (%q) with all upstreams live", sig.Name, sig.Fallback)
		}
	}
}

func TestScoreUnknownSector(t *testing.T) {
	svc := New(nil, nil, nil, discard())
	if _, err := svc.Score(context.Background(), SectorCode("blockchain"), ""); err == nil {
		t.Fatal("expected error for unknown sector")
	}
}

func TestScoreUnknownWilayaCode(t *testing.T) {
	svc := New(nil, wilaya.NewStatic(), nil, discard())
	ds, err := svc.Score(context.Background(), SectorServices, "99")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if ds.WilayaName != "99" {
		t.Errorf("wilaya name = %q, want raw code 99", ds.WilayaName)
	}
	sig := signalByName(t, ds.Signals, "Demographics")
	if sig.Fallback != FallbackNoLocation {
		t.Errorf("demographics fallback = %q, want %q", sig.Fallback, FallbackNoLocation)
	}
}

func TestScoreGeoErrorDegradesSignal(t *testing.T) {
	g := &fakeGeo{
		available:   true,
		placesErr:   errors.New("quota exceeded"),
		activityErr: errors.New("quota exceeded"),
	}
	svc := New(g, wilaya.NewStatic(), nil, discard())

	ds, err := svc.Score(context.Background(), SectorCommerce, "01")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got := signalByName(t, ds.Signals, "Competition Density").Fallback; got != FallbackError {
		t.Errorf("competition fallback = %q, want %q", got, FallbackError)
	}
	if got := signalByName(t, ds.Signals, "Area Activity").Fallback; got != FallbackError {
		t.Errorf("activity fallback = %q, want %q", got, FallbackError)
	}
	// demographics still resolves from the wilaya table
	if got := signalByName(t, ds.Signals, "Demographics").Fallback; got != FallbackNone {
		t.Errorf("demographics fallback = %q, want none", got)
	}
}

func TestCompetitionCurve(t *testing.T) {
	tests := []struct {
		competitors int
		want        float64
	}{
		{0, 30},
		{1, 56},
		{3, 68},
		{5, 80},
		{6, 80},
		{15, 80},
		{16, 87},
		{20, 75},
		{40, 40}, // floor
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d_competitors", tc.competitors), func(t *testing.T) {
			g := &fakeGeo{
				available: true,
				places:    ratedPlaces(tc.competitors),
				activity:  geo.ActivityScore{Score: 50, Label: "Moderate"},
			}
			svc := New(g, wilaya.NewStatic(), nil, discard())
			ds, err := svc.Score(context.Background(), SectorTourism, "01")
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			sig := signalByName(t, ds.Signals, "Competition Density")
			if sig.Score != tc.want {
				t.Errorf("competition score = %v, want %v", sig.Score, tc.want)
			}
		})
	}
}

func TestDemandLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Very High"},
		{80, "Very High"},
		{79, "High"},
		{60, "High"},
		{59, "Moderate"},
		{40, "Moderate"},
		{39, "Low"},
		{0, "Low"},
	}
	for _, tc := range tests {
		if got := DemandLabel(tc.score); got != tc.want {
			t.Errorf("DemandLabel(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestSectorOpportunities(t *testing.T) {
	svc := New(nil, nil, nil, discard())

	opps, err := svc.SectorOpportunities(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("SectorOpportunities: %v", err)
	}
	if len(opps) != DefaultOpportunityLimit {
		t.Fatalf("got %d opportunities, want %d", len(opps), DefaultOpportunityLimit)
	}
	for i, opp := range opps {
		if opp.Rank != i+1 {
			t.Errorf("opportunity[%d].Rank = %d, want %d", i, opp.Rank, i+1)
		}
		if i > 0 && opp.Score > opps[i-1].Score {
			t.Errorf("opportunity[%d] score %d exceeds previous %d", i, opp.Score, opps[i-1].Score)
		}
		if len(opp.KeySignals) != 3 {
			t.Errorf("opportunity[%d] has %d key signals, want 3", i, len(opp.KeySignals))
		}
		if opp.SectorName == "" {
			t.Errorf("opportunity[%d] missing sector name", i)
		}
	}
}

func TestSectorOpportunitiesLimit(t *testing.T) {
	svc := New(nil, nil, nil, discard())
	opps, err := svc.SectorOpportunities(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("SectorOpportunities: %v", err)
	}
	if len(opps) != 3 {
		t.Errorf("got %d opportunities, want 3", len(opps))
	}
}

func TestKeySignals(t *testing.T) {
	signals := []Signal{
		{Name: "a", Detail: "detail a", WeightedScore: 10},
		{Name: "b", Detail: "detail b", WeightedScore: 25},
		{Name: "c", Detail: "detail c", WeightedScore: 5},
		{Name: "d", Detail: "detail d", WeightedScore: 15},
	}
	got := keySignals(signals, 3)
	want := []string{"detail b", "detail d", "detail a"}
	if len(got) != len(want) {
		t.Fatalf("got %d key signals, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keySignals[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{2988145, "2,988,145"},
		{-4500, "-4,500"},
	}
	for _, tc := range tests {
		if got := groupDigits(tc.n); got != tc.want {
			t.Errorf("groupDigits(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestParseSector(t *testing.T) {
	if _, err := ParseSector("technology"); err != nil {
		t.Errorf("ParseSector(technology): %v", err)
	}
	if _, err := ParseSector("mining"); err == nil {
		t.Error("ParseSector(mining): expected error")
	}
	if got := len(Sectors()); got != 12 {
		t.Errorf("Sectors() length = %d, want 12", got)
	}
}
