package demand

import "fmt"

// SectorCode identifies one economic sector. The set is closed; Sectors()
// iterates it in table order, which is also the ranking tie-break order.
type SectorCode string

// Known sectors.
const (
	SectorAgriculture   SectorCode = "agriculture"
	SectorManufacturing SectorCode = "manufacturing"
	SectorServices      SectorCode = "services"
	SectorTechnology    SectorCode = "technology"
	SectorTourism       SectorCode = "tourism"
	SectorEnergy        SectorCode = "energy"
	SectorConstruction  SectorCode = "construction"
	SectorCommerce      SectorCode = "commerce"
	SectorHealth        SectorCode = "health"
	SectorEducation     SectorCode = "education"
	SectorTransport     SectorCode = "transport"
	SectorHousing       SectorCode = "housing"
)

// Profile holds the static demand characteristics of a sector. BaseDemand
// is the no-data prior on the 0-100 scale; the urban/rural factors scale
// demographic demand by region classification; GrowthTrend is the observed
// annual growth multiple the trend-derived signals key off.
type Profile struct {
	Name        string
	BaseDemand  float64
	UrbanFactor float64
	RuralFactor float64
	GrowthTrend float64
}

var sectorOrder = []SectorCode{
	SectorAgriculture,
	SectorManufacturing,
	SectorServices,
	SectorTechnology,
	SectorTourism,
	SectorEnergy,
	SectorConstruction,
	SectorCommerce,
	SectorHealth,
	SectorEducation,
	SectorTransport,
	SectorHousing,
}

var profiles = map[SectorCode]Profile{
	SectorAgriculture:   {Name: "Agriculture", BaseDemand: 72, UrbanFactor: 0.7, RuralFactor: 1.3, GrowthTrend: 1.05},
	SectorManufacturing: {Name: "Manufacturing", BaseDemand: 65, UrbanFactor: 1.1, RuralFactor: 0.8, GrowthTrend: 1.08},
	SectorServices:      {Name: "Services", BaseDemand: 78, UrbanFactor: 1.3, RuralFactor: 0.6, GrowthTrend: 1.12},
	SectorTechnology:    {Name: "Technology", BaseDemand: 82, UrbanFactor: 1.4, RuralFactor: 0.4, GrowthTrend: 1.18},
	SectorTourism:       {Name: "Tourism", BaseDemand: 60, UrbanFactor: 1.0, RuralFactor: 1.0, GrowthTrend: 1.10},
	SectorEnergy:        {Name: "Energy", BaseDemand: 70, UrbanFactor: 0.9, RuralFactor: 1.1, GrowthTrend: 1.15},
	SectorConstruction:  {Name: "Construction", BaseDemand: 74, UrbanFactor: 1.2, RuralFactor: 0.9, GrowthTrend: 1.06},
	SectorCommerce:      {Name: "Commerce / Retail", BaseDemand: 76, UrbanFactor: 1.3, RuralFactor: 0.7, GrowthTrend: 1.09},
	SectorHealth:        {Name: "Health", BaseDemand: 80, UrbanFactor: 1.1, RuralFactor: 0.9, GrowthTrend: 1.07},
	SectorEducation:     {Name: "Education", BaseDemand: 68, UrbanFactor: 1.0, RuralFactor: 1.0, GrowthTrend: 1.04},
	SectorTransport:     {Name: "Transport & Logistics", BaseDemand: 71, UrbanFactor: 1.2, RuralFactor: 0.8, GrowthTrend: 1.11},
	SectorHousing:       {Name: "Housing / Real Estate", BaseDemand: 73, UrbanFactor: 1.3, RuralFactor: 0.7, GrowthTrend: 1.06},
}

// sectorPlaceTypes maps a sector onto the provider place category used to
// count competitors. Sectors without an entry search all categories.
var sectorPlaceTypes = map[SectorCode]string{
	SectorCommerce:      "store",
	SectorManufacturing: "store",
	SectorServices:      "restaurant",
	SectorHealth:        "hospital",
	SectorEducation:     "school",
	SectorTourism:       "hotel",
}

// Sectors returns every known sector code in table order.
func Sectors() []SectorCode {
	out := make([]SectorCode, len(sectorOrder))
	copy(out, sectorOrder)
	return out
}

// ProfileFor returns the static profile for a sector code.
func ProfileFor(code SectorCode) (Profile, bool) {
	p, ok := profiles[code]
	return p, ok
}

// ParseSector validates a sector slug against the closed set.
func ParseSector(slug string) (SectorCode, error) {
	code := SectorCode(slug)
	if _, ok := profiles[code]; !ok {
		return "", fmt.Errorf("unknown sector %q", slug)
	}
	return code, nil
}
