package catalog

import (
	"math"

	"garagio/models"
)

// Aggregate folds a flat sequence of per-variant price records into
// offerings, grouped by offering identity in first-seen order. The first
// size encountered for a group becomes its default selection. Pure and
// total for well-formed input: a record with a missing offer price keeps
// its size available and stores 0 rather than failing the batch.
func Aggregate(records []models.VariantRecord) []models.ServiceOffering {
	offerings := make([]models.ServiceOffering, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		offer := 0.0
		if rec.OfferPrice != nil {
			offer = *rec.OfferPrice
		}

		i, seen := index[rec.OfferingID]
		if !seen {
			index[rec.OfferingID] = len(offerings)
			offerings = append(offerings, models.ServiceOffering{
				ID:            rec.OfferingID,
				Garage:        rec.Garage,
				Category:      rec.Category,
				Name:          rec.Name,
				Info:          rec.Info,
				PricingBySize: map[models.CarSize]models.PriceTag{},
				ThumbnailRefs: rec.ThumbnailRefs,
			})
			i = len(offerings) - 1
		}

		o := &offerings[i]
		if _, dup := o.PricingBySize[rec.CarSize]; !dup {
			o.AvailableSizes = append(o.AvailableSizes, rec.CarSize)
		}
		o.PricingBySize[rec.CarSize] = models.PriceTag{MRP: rec.MRPPrice, Offer: offer}
	}

	for i := range offerings {
		o := &offerings[i]
		o.SelectedSize = o.AvailableSizes[0]
		tag := o.PricingBySize[o.SelectedSize]
		o.DisplayPrice = tag.Offer
		o.PercentOff = PercentOff(tag.MRP, tag.Offer)
	}
	return offerings
}

// ChangeSelectedSize returns a copy of the offering with the selection and
// display price moved to the given size. Selecting a size the offering
// does not carry is a programming error and fails with InvalidSizeError.
func ChangeSelectedSize(o models.ServiceOffering, size models.CarSize) (models.ServiceOffering, error) {
	if _, ok := o.PricingBySize[size]; !ok {
		return o, &InvalidSizeError{OfferingID: o.ID, Size: string(size)}
	}
	out := o
	out.SelectedSize = size
	tag := o.PricingBySize[size]
	out.DisplayPrice = tag.Offer
	out.PercentOff = PercentOff(tag.MRP, tag.Offer)
	return out, nil
}

// PercentOff is the canonical discount derivation: round(100*(1-offer/mrp)),
// clamped to [0,100], and 0 for a non-positive MRP.
func PercentOff(mrp, offer float64) int {
	if mrp <= 0 {
		return 0
	}
	pct := int(math.Round(100 * (1 - offer/mrp)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
