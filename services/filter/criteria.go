package filter

import (
	"fmt"

	"garagio/config"
	"garagio/models"
)

// Fallback defaults, used when config has not been loaded (tests, tools).
const (
	fallbackCityID     = "1"
	fallbackDistanceKm = 50
	fallbackPriceMin   = 100
	fallbackPriceMax   = 10000
)

// RangeError reports a locally rejected criteria edit. It never reaches
// the network.
type RangeError struct {
	Field   string
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DefaultCriteria returns the canonical filter state: default city, 50 km,
// full price band, no category narrowing, every car size selected.
func DefaultCriteria() models.FilterCriteria {
	cityID := config.AppConfig.DefaultCityID
	if cityID == "" {
		cityID = fallbackCityID
	}
	distance := config.AppConfig.DefaultDistanceKm
	if distance == 0 {
		distance = fallbackDistanceKm
	}
	priceMin := config.AppConfig.DefaultPriceMin
	priceMax := config.AppConfig.DefaultPriceMax
	if priceMax == 0 {
		priceMin, priceMax = fallbackPriceMin, fallbackPriceMax
	}

	sizes := make(map[models.CarSize]struct{}, len(models.AllCarSizes))
	for _, s := range models.AllCarSizes {
		sizes[s] = struct{}{}
	}
	return models.FilterCriteria{
		CityID:         cityID,
		DistanceKm:     distance,
		PriceRange:     [2]float64{priceMin, priceMax},
		CategoryIDs:    map[string]struct{}{},
		SubcategoryIDs: map[string]struct{}{},
		CarSizes:       sizes,
	}
}

// Reset returns exactly the canonical default criteria.
func Reset() models.FilterCriteria {
	return DefaultCriteria()
}

// CriteriaPatch is a partial criteria edit. Nil fields leave the current
// value untouched; slices replace the whole set.
type CriteriaPatch struct {
	CityID         *string
	DistanceKm     *int
	PriceRange     *[2]float64
	CategoryIDs    []string
	SubcategoryIDs []string
	CarSizes       []models.CarSize
}

// Apply produces a new criteria value from the patch. The input is never
// mutated. An inverted price range is a violated precondition: the edit is
// rejected and the prior valid criteria stays in force.
func Apply(c models.FilterCriteria, p CriteriaPatch) (models.FilterCriteria, error) {
	if p.PriceRange != nil && p.PriceRange[0] > p.PriceRange[1] {
		return c, &RangeError{
			Field:   "priceRange",
			Message: fmt.Sprintf("minimum %.0f exceeds maximum %.0f", p.PriceRange[0], p.PriceRange[1]),
		}
	}

	out := c.Clone()
	if p.CityID != nil {
		out.CityID = *p.CityID
	}
	if p.DistanceKm != nil {
		out.DistanceKm = *p.DistanceKm
	}
	if p.PriceRange != nil {
		out.PriceRange = *p.PriceRange
	}
	if p.CategoryIDs != nil {
		out.CategoryIDs = toSet(p.CategoryIDs)
	}
	if p.SubcategoryIDs != nil {
		out.SubcategoryIDs = toSet(p.SubcategoryIDs)
	}
	if p.CarSizes != nil {
		out.CarSizes = make(map[models.CarSize]struct{}, len(p.CarSizes))
		for _, s := range p.CarSizes {
			out.CarSizes[s] = struct{}{}
		}
	}
	return out, nil
}

// IsActive reports whether the criteria differ from the canonical default
// in any field. Set and pair comparisons are order-independent.
func IsActive(c models.FilterCriteria) bool {
	def := DefaultCriteria()
	if c.CityID != def.CityID || c.DistanceKm != def.DistanceKm {
		return true
	}
	if c.PriceRange != def.PriceRange {
		return true
	}
	if !sameStringSet(c.CategoryIDs, def.CategoryIDs) {
		return true
	}
	if !sameStringSet(c.SubcategoryIDs, def.SubcategoryIDs) {
		return true
	}
	if len(c.CarSizes) != len(def.CarSizes) {
		return true
	}
	for s := range def.CarSizes {
		if _, ok := c.CarSizes[s]; !ok {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func sameStringSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
