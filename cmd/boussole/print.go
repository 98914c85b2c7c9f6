package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/boussole-dz/boussole/pkg/demand"
	"github.com/boussole-dz/boussole/pkg/geo"
	"github.com/fatih/color"
)

func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen, color.Bold)
	case score >= 60:
		return color.New(color.FgGreen)
	case score >= 40:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func verdictColor(verdict string) *color.Color {
	switch verdict {
	case demand.VerdictHighlyFavorable:
		return color.New(color.FgGreen, color.Bold)
	case demand.VerdictFeasible:
		return color.New(color.FgGreen)
	case demand.VerdictRisky:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func rule() { fmt.Println(strings.Repeat("─", 50)) }

func printArea(report *geo.AreaIntelligence) {
	fmt.Printf("\nArea Report: %.4f, %.4f (radius %dm)\n", report.Location.Lat, report.Location.Lon, report.Location.RadiusMeters)
	rule()

	activity := report.Activity
	fmt.Printf("Activity:    %s %s\n", scoreColor(activity.Score).Sprintf("%d/100", activity.Score), activity.Label)
	fmt.Printf("Places:      %d (%d types)\n", activity.PlaceCount, activity.TypeDiversity)
	if activity.AvgRating != nil {
		fmt.Printf("Avg rating:  %.1f (%d reviews)\n", *activity.AvgRating, activity.TotalReviews)
	}
	if report.Traffic != nil {
		t := report.Traffic
		fmt.Printf("Traffic:     level %d/10, %s (%.1f min live vs %.1f min typical)\n",
			t.CongestionLevel, t.Description, t.LiveDurationMinutes, t.TypicalDurationMinutes)
	} else {
		fmt.Println("Traffic:     unavailable")
	}
	if report.Cached {
		fmt.Println(color.New(color.FgHiBlack).Sprint("(cached result)"))
	}

	if len(report.NearbyPlaces) > 0 {
		fmt.Println("\nTop places:")
		for i, p := range report.NearbyPlaces {
			if i >= 10 {
				break
			}
			line := fmt.Sprintf("  %-30s", p.Name)
			if p.Rating != nil {
				line += fmt.Sprintf(" %.1f★", *p.Rating)
			}
			fmt.Println(line)
		}
	}
}

func printDemand(score demand.DemandScore) {
	location := score.WilayaName
	if location == "" {
		location = "Algeria"
	}
	fmt.Printf("\nDemand: %s in %s\n", score.Sector, location)
	rule()
	fmt.Printf("Score:  %s %s\n", scoreColor(score.Score).Sprintf("%d/100", score.Score), score.Label)
	fmt.Printf("Advice: %s\n\n", score.Recommendation)

	for _, sig := range score.Signals {
		note := ""
		if sig.Fallback != demand.FallbackNone {
			note = color.New(color.FgHiBlack).Sprintf(" [fallback: %s]", sig.Fallback)
		}
		fmt.Printf("  %-22s %5.1f × %.2f = %5.1f  %s%s\n",
			sig.Name, sig.Score, sig.Weight, sig.WeightedScore, sig.Detail, note)
	}
}

func printOpportunities(opps []demand.SectorOpportunity, wilayaCode string) {
	where := "Algeria"
	if wilayaCode != "" {
		where = "wilaya " + wilayaCode
	}
	fmt.Printf("\nSector Opportunities: %s\n", where)
	rule()
	for _, opp := range opps {
		fmt.Printf("%2d. %-22s %s %s\n", opp.Rank, opp.SectorName,
			scoreColor(opp.Score).Sprintf("%3d/100", opp.Score), opp.Label)
		for _, sig := range opp.KeySignals {
			fmt.Printf("      • %s\n", sig)
		}
	}
}

func printFeasibility(report *demand.FeasibilityReport) {
	fmt.Printf("\nFeasibility: %s\n", report.Summary)
	rule()
	fmt.Printf("Verdict:      %s\n", verdictColor(report.Verdict).Sprint(report.Verdict))
	fmt.Printf("Demand:       %s %s\n",
		scoreColor(report.DemandScore.Score).Sprintf("%d/100", report.DemandScore.Score), report.DemandScore.Label)
	if report.ActivityScore != nil {
		fmt.Printf("Activity:     %d/100\n", *report.ActivityScore)
	}
	if report.CompetitionCount != nil {
		line := fmt.Sprintf("Competition:  %d nearby", *report.CompetitionCount)
		if report.AvgCompetitorRating != nil {
			line += fmt.Sprintf(", avg rating %.1f", *report.AvgCompetitorRating)
		}
		fmt.Println(line)
	}
}

func printSectors() {
	fmt.Println("\nKnown sectors:")
	rule()
	for _, code := range demand.Sectors() {
		profile, _ := demand.ProfileFor(code)
		fmt.Printf("  %-15s %s\n", code, profile.Name)
	}
}

func printWilayas() {
	resolver := resolverForListing()
	fmt.Println("\nKnown wilayas:")
	rule()
	for _, code := range resolver.Codes() {
		w, err := resolver.Lookup(context.Background(), code)
		if err != nil {
			continue
		}
		region := w.Region
		if region == "" {
			region = "-"
		}
		fmt.Printf("  %s  %-15s %-8s pop %d\n", w.Code, w.Name, region, w.Population)
	}
}
