package models

// FilterCriteria is the user's current catalog narrowing. Treated as an
// immutable value: every mutation path returns a fresh copy.
type FilterCriteria struct {
	CityID         string              `json:"cityId"`
	DistanceKm     int                 `json:"distanceKm"`
	PriceRange     [2]float64          `json:"priceRange"` // [min, max]
	CategoryIDs    map[string]struct{} `json:"-"`
	SubcategoryIDs map[string]struct{} `json:"-"`
	CarSizes       map[CarSize]struct{} `json:"-"`
}

// Clone returns a deep copy so callers can never alias the sets.
func (c FilterCriteria) Clone() FilterCriteria {
	out := c
	out.CategoryIDs = cloneSet(c.CategoryIDs)
	out.SubcategoryIDs = cloneSet(c.SubcategoryIDs)
	out.CarSizes = make(map[CarSize]struct{}, len(c.CarSizes))
	for k := range c.CarSizes {
		out.CarSizes[k] = struct{}{}
	}
	return out
}

// CategoryList returns the selected category IDs as a slice (unordered).
func (c FilterCriteria) CategoryList() []string {
	out := make([]string, 0, len(c.CategoryIDs))
	for id := range c.CategoryIDs {
		out = append(out, id)
	}
	return out
}

// SizeList returns the selected car sizes in ordinal order.
func (c FilterCriteria) SizeList() []CarSize {
	out := make([]CarSize, 0, len(c.CarSizes))
	for _, s := range AllCarSizes {
		if _, ok := c.CarSizes[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func cloneSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
