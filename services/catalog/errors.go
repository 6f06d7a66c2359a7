package catalog

import "fmt"

// InvalidSizeError means the UI asked for a size variant the offering does
// not carry. Not user-reachable through normal flows, so it fails loudly
// instead of clamping to something sellable.
type InvalidSizeError struct {
	OfferingID string
	Size       string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("offering %s has no %q size variant", e.OfferingID, e.Size)
}

// NotFoundError means the referenced offering is not in the current
// catalog snapshot.
type NotFoundError struct {
	OfferingID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("offering %s not found in current results", e.OfferingID)
}
