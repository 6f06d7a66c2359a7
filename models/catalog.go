package models

// CarSize identifies the vehicle-size variant a price applies to.
type CarSize string

const (
	SizeHatchback CarSize = "hatchback"
	SizeSedan     CarSize = "sedan"
	SizeSUV       CarSize = "suv"
	SizeLuxury    CarSize = "luxury"
)

// AllCarSizes lists every size variant in ordinal order.
var AllCarSizes = []CarSize{SizeHatchback, SizeSedan, SizeSUV, SizeLuxury}

// Ordinal returns the stable position of the size, -1 when unknown.
// Reservation idempotency keys depend on these values staying fixed.
func (s CarSize) Ordinal() int {
	for i, v := range AllCarSizes {
		if v == s {
			return i
		}
	}
	return -1
}

// ParseCarSize maps a wire string onto a known size variant. Unknown
// strings are rejected, never coerced.
func ParseCarSize(s string) (CarSize, bool) {
	size := CarSize(s)
	return size, size.Ordinal() >= 0
}

// VariantRecord is one (offering, car-size) priced row as returned by the
// remote catalog. Multiple records share an OfferingID, differing by size.
type VariantRecord struct {
	OfferingID    string   `json:"offeringId"`
	CarSize       CarSize  `json:"carSize"`
	Garage        string   `json:"garage"`
	Category      string   `json:"category"`
	Name          string   `json:"name"`
	Info          string   `json:"info"`
	MRPPrice      float64  `json:"mrpPrice"`
	OfferPrice    *float64 `json:"offerPrice,omitempty"` // absent price handled fail-soft as 0
	ThumbnailRefs []string `json:"thumbnailRefs,omitempty"`
}

// PriceTag pairs list and offer price for one size variant.
type PriceTag struct {
	MRP   float64 `json:"mrp"`
	Offer float64 `json:"offer"`
}

// ServiceOffering is a bookable service folded together from its size
// variants. Rebuilt wholesale on every successful catalog fetch.
type ServiceOffering struct {
	ID             string               `json:"id"`
	Garage         string               `json:"garage"`
	Category       string               `json:"category"`
	Name           string               `json:"name"`
	Info           string               `json:"info"`
	PricingBySize  map[CarSize]PriceTag `json:"pricingBySize"`
	AvailableSizes []CarSize            `json:"availableSizes"` // first-seen order, no duplicates
	SelectedSize   CarSize              `json:"selectedSize"`
	DisplayPrice   float64              `json:"displayPrice"`
	PercentOff     int                  `json:"percentOff"` // derived from the selected size's price tag
	ThumbnailRefs  []string             `json:"thumbnailRefs,omitempty"`
}

// CategoryNode is one node of the two-level category hierarchy.
type CategoryNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Children []CategoryNode `json:"children,omitempty"`
}

// City is a serviceable city as returned by the remote catalog.
type City struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
