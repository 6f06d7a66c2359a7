package catalog

import (
	"context"

	"garagio/models"
	"garagio/services/filter"
)

// CatalogService owns the loading/error/result tri-state the rest of the
// app renders, and every operation that can change it.
type CatalogService interface {
	// Criteria-driven triggers; each one re-fetches.
	ApplyCriteria(ctx context.Context, patch filter.CriteriaPatch) (Snapshot, error)
	ResetCriteria(ctx context.Context) Snapshot
	SelectCategory(ctx context.Context, categoryID string, selected bool) Snapshot
	SelectSubcategory(ctx context.Context, childID string, selected bool, parentID string) Snapshot
	SelectCategoryTab(ctx context.Context, categoryID string) Snapshot

	// Client-side operations; never re-fetch.
	Search(term string) Snapshot
	ChangeSelectedSize(offeringID string, size models.CarSize) (models.ServiceOffering, error)

	// Retry re-issues the last fetch with identical parameters.
	Retry(ctx context.Context) Snapshot
	Current() Snapshot
	Criteria() models.FilterCriteria

	// Reference data pass-throughs.
	CategoryTree(ctx context.Context) ([]models.CategoryNode, error)
	Cities(ctx context.Context) ([]models.City, error)
}
