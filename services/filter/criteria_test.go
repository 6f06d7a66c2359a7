package filter

import (
	"errors"
	"testing"

	"garagio/models"
)

func TestDefaultCriteria_IsNotActive(t *testing.T) {
	if IsActive(DefaultCriteria()) {
		t.Error("default criteria must not be active")
	}
}

func TestIsActive_SingleFieldDifference(t *testing.T) {
	city := "2"
	distance := 25
	priceBand := [2]float64{500, 5000}

	tests := []struct {
		name  string
		patch CriteriaPatch
	}{
		{"city change", CriteriaPatch{CityID: &city}},
		{"distance change", CriteriaPatch{DistanceKm: &distance}},
		{"price change", CriteriaPatch{PriceRange: &priceBand}},
		{"category selected", CriteriaPatch{CategoryIDs: []string{"c1"}}},
		{"subcategory selected", CriteriaPatch{SubcategoryIDs: []string{"s1"}}},
		{"size narrowed", CriteriaPatch{CarSizes: []models.CarSize{models.SizeSedan}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Apply(DefaultCriteria(), tt.patch)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !IsActive(c) {
				t.Error("criteria differing in one field must be active")
			}
		})
	}
}

func TestIsActive_OrderIndependent(t *testing.T) {
	// Same size set built in a different order is still the default.
	c, err := Apply(DefaultCriteria(), CriteriaPatch{CarSizes: []models.CarSize{
		models.SizeLuxury, models.SizeHatchback, models.SizeSUV, models.SizeSedan,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if IsActive(c) {
		t.Error("reordered full size set must compare equal to default")
	}
}

func TestApply_InvalidPriceRangeRejected(t *testing.T) {
	prior, err := Apply(DefaultCriteria(), CriteriaPatch{PriceRange: &[2]float64{100, 10000}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inverted := [2]float64{15000, 5000}
	got, err := Apply(prior, CriteriaPatch{PriceRange: &inverted})
	if err == nil {
		t.Fatal("expected inverted range to be rejected")
	}
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Errorf("expected RangeError, got %T", err)
	}
	if got.PriceRange != prior.PriceRange {
		t.Errorf("prior range must survive rejection, got %v", got.PriceRange)
	}
}

func TestApply_NeverMutatesInput(t *testing.T) {
	base, err := Apply(DefaultCriteria(), CriteriaPatch{CategoryIDs: []string{"c1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = Apply(base, CriteriaPatch{CategoryIDs: []string{"c2", "c3"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(base.CategoryIDs) != 1 {
		t.Errorf("input criteria mutated: %v", base.CategoryIDs)
	}
	if _, ok := base.CategoryIDs["c1"]; !ok {
		t.Error("input criteria lost its category")
	}
}

func TestReset_ReturnsExactDefault(t *testing.T) {
	c := Reset()
	def := DefaultCriteria()
	if c.CityID != def.CityID || c.DistanceKm != def.DistanceKm || c.PriceRange != def.PriceRange {
		t.Errorf("reset differs from default: %+v vs %+v", c, def)
	}
	if IsActive(c) {
		t.Error("reset criteria must not be active")
	}
}
