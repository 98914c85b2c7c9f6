// Package wilaya resolves Algerian administrative-region codes to
// coordinates, population, and a coarse urban/rural classification.
// The engine treats this as an external collaborator: a code with no
// record degrades location-dependent signals, it never fails them.
package wilaya

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a code has no record.
var ErrNotFound = errors.New("wilaya not found")

// Wilaya is one first-level administrative region.
type Wilaya struct {
	Code       string  `json:"code" yaml:"code" db:"code"`
	Name       string  `json:"name" yaml:"name" db:"name"`
	Latitude   float64 `json:"latitude" yaml:"latitude" db:"latitude"`
	Longitude  float64 `json:"longitude" yaml:"longitude" db:"longitude"`
	Population int     `json:"population" yaml:"population" db:"population"`
	Region     string  `json:"region" yaml:"region" db:"region"`
	AreaKm2    float64 `json:"area_km2,omitempty" yaml:"area_km2,omitempty" db:"area_km2"`
}

// Urban reports whether the region counts as urbanized for demand scoring.
// North and Central regions are urban; an unclassified region defaults to
// urban as well.
func (w *Wilaya) Urban() bool {
	return w.Region == "" || w.Region == "North" || w.Region == "Central"
}

// HasCoordinates reports whether the record carries a usable location.
func (w *Wilaya) HasCoordinates() bool {
	return w.Latitude != 0 || w.Longitude != 0
}

// Resolver looks up a region by its two-digit code.
type Resolver interface {
	Lookup(ctx context.Context, code string) (*Wilaya, error)
}
