package wilaya

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// builtinWilayas is the seed table for the sixteen regions the engine ships
// with. Coordinates point at each capital city; populations are census
// approximations.
var builtinWilayas = []Wilaya{
	{Code: "01", Name: "Algiers", Latitude: 36.752887, Longitude: 3.042048, Population: 2988145, Region: "Central", AreaKm2: 1190},
	{Code: "02", Name: "Oran", Latitude: 35.69694, Longitude: -0.63306, Population: 1454078, Region: "West", AreaKm2: 2114},
	{Code: "03", Name: "Constantine", Latitude: 36.365, Longitude: 6.61472, Population: 938475, Region: "East", AreaKm2: 2187},
	{Code: "04", Name: "Setif", Latitude: 36.19112, Longitude: 5.41373, Population: 1489979, Region: "East", AreaKm2: 6549},
	{Code: "05", Name: "Batna", Latitude: 35.55597, Longitude: 6.17414, Population: 1119791, Region: "East", AreaKm2: 12192},
	{Code: "06", Name: "Annaba", Latitude: 36.9, Longitude: 7.76667, Population: 609499, Region: "North", AreaKm2: 1439},
	{Code: "07", Name: "Skikda", Latitude: 36.87617, Longitude: 6.90921, Population: 898680, Region: "North", AreaKm2: 4137},
	{Code: "08", Name: "Tlemcen", Latitude: 34.87833, Longitude: -1.315, Population: 949135, Region: "West", AreaKm2: 9061},
	{Code: "09", Name: "Tizi Ouzou", Latitude: 36.71182, Longitude: 4.04591, Population: 1127607, Region: "North", AreaKm2: 2958},
	{Code: "10", Name: "Béjaïa", Latitude: 36.75587, Longitude: 5.08433, Population: 912577, Region: "North", AreaKm2: 3268},
	{Code: "11", Name: "Biskra", Latitude: 34.85038, Longitude: 5.72805, Population: 721356, Region: "South", AreaKm2: 21671},
	{Code: "12", Name: "Tebessa", Latitude: 35.40417, Longitude: 8.12417, Population: 648703, Region: "East", AreaKm2: 13878},
	{Code: "13", Name: "Boumerdès", Latitude: 36.76639, Longitude: 3.47717, Population: 802083, Region: "Central", AreaKm2: 1456},
	{Code: "14", Name: "Ouargla", Latitude: 31.94932, Longitude: 5.32502, Population: 558558, Region: "South", AreaKm2: 163230},
	{Code: "15", Name: "Blida", Latitude: 36.47004, Longitude: 2.8277, Population: 1002937, Region: "Central", AreaKm2: 1482},
	{Code: "16", Name: "Djelfa", Latitude: 34.6703, Longitude: 3.263, Population: 1092184, Region: "South", AreaKm2: 32256},
}

// StaticResolver serves lookups from an in-memory table.
type StaticResolver struct {
	byCode map[string]Wilaya
}

// NewStatic returns a resolver over the built-in region table.
func NewStatic() *StaticResolver {
	return newStatic(builtinWilayas)
}

func newStatic(table []Wilaya) *StaticResolver {
	byCode := make(map[string]Wilaya, len(table))
	for _, w := range table {
		byCode[w.Code] = w
	}
	return &StaticResolver{byCode: byCode}
}

// LoadYAML builds a resolver from a YAML file holding a list of regions,
// for deployments that carry the full 58-wilaya table on disk.
func LoadYAML(path string) (*StaticResolver, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wilaya table: %w", err)
	}
	var table []Wilaya
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parsing wilaya table: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("wilaya table %s is empty", path)
	}
	return newStatic(table), nil
}

// Lookup implements Resolver.
func (r *StaticResolver) Lookup(_ context.Context, code string) (*Wilaya, error) {
	w, ok := r.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return &w, nil
}

// Codes returns every known code in ascending order.
func (r *StaticResolver) Codes() []string {
	codes := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
